package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"niftiview/internal/models"
)

// ComputeStatistics summarizes the voxel array. Non-finite values are
// excluded from the moments and extrema and counted separately; a volume
// with no finite values at all still yields a summary, with NaN moments.
func (a *Analyzer) ComputeStatistics(rec *models.ImageRecord) *models.StatisticsSummary {
	s := &models.StatisticsSummary{
		Shape: append([]int(nil), rec.Shape...),
		NDim:  len(rec.Shape),
		DType: rec.DType,
	}

	finite := make([]float64, 0, len(rec.Data))
	for _, v := range rec.Data {
		switch {
		case math.IsNaN(v):
			s.NaNCount++
		case math.IsInf(v, 0):
			s.InfCount++
		default:
			finite = append(finite, v)
		}
		if v == 0 {
			s.ZeroCount++
		}
	}
	// NaN compares unequal to zero, so it lands in the non-zero bucket.
	s.NonZeroCount = len(rec.Data) - s.ZeroCount
	s.UniqueCount = countDistinct(rec.Data)

	if len(finite) == 0 {
		s.Min = math.NaN()
		s.Max = math.NaN()
		s.Mean = math.NaN()
		s.Std = math.NaN()
		s.Median = math.NaN()
		return s
	}

	s.Min = floats.Min(finite)
	s.Max = floats.Max(finite)
	s.Mean = stat.Mean(finite, nil)
	s.Std = stat.PopStdDev(finite, nil)

	// finite is scratch space, so the median sort can happen in place and
	// no further copy of the volume is held.
	sort.Float64s(finite)
	s.Median = median(finite)
	return s
}

// countDistinct counts distinct values. Every NaN counts as its own value
// since NaN never compares equal.
func countDistinct(data []float64) int {
	seen := make(map[float64]struct{}, 64)
	nan := 0
	for _, v := range data {
		if math.IsNaN(v) {
			nan++
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen) + nan
}

// median expects its input already sorted.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
