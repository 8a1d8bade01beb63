package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"niftiview/internal/models"
)

// ClassifyLabels decides whether the volume holds discrete region labels
// rather than continuous intensities, and tallies per-label voxel counts
// when it does.
//
// A volume is label data when any of these holds, checked in order:
//  1. it has at most MaxLabelValues distinct values and every one of them
//     is a whole number within IntegralityTolerance;
//  2. its on-disk element type is an integer type;
//  3. every value in the volume is a whole number within the tolerance.
func (a *Analyzer) ClassifyLabels(rec *models.ImageRecord) *models.LabelReport {
	counts := make(map[float64]int, 64)
	nanCount := 0
	for _, v := range rec.Data {
		if math.IsNaN(v) {
			// NaN never equals itself, so it cannot be a label value;
			// its presence alone rules out the integrality rules below.
			nanCount++
			continue
		}
		counts[v]++
	}

	unique := make([]float64, 0, len(counts))
	for v := range counts {
		unique = append(unique, v)
	}
	sort.Float64s(unique)

	rep := &models.LabelReport{
		UniqueValues: unique,
		LabelCount:   len(unique),
	}
	rep.IsLabelData = a.isLabelData(rec, unique, nanCount)

	if rep.IsLabelData && len(rec.Data) > 0 {
		rep.Statistics = make(map[string]models.LabelStat, len(unique))
		total := float64(len(rec.Data))
		for _, v := range unique {
			n := counts[v]
			rep.Statistics[labelKey(v)] = models.LabelStat{
				VoxelCount: n,
				Percentage: float64(n) / total * 100,
			}
		}
	}
	return rep
}

func (a *Analyzer) isLabelData(rec *models.ImageRecord, unique []float64, nanCount int) bool {
	if len(rec.Data) == 0 {
		return false
	}
	if nanCount > 0 {
		// Only the integer-dtype rule could apply, and integer volumes
		// cannot hold NaN.
		return false
	}

	// Rule 1: few distinct values, all of them whole numbers.
	if len(unique) <= a.opts.MaxLabelValues && allIntegral(unique, a.opts.IntegralityTolerance) {
		return true
	}
	// Rule 2: stored as integers on disk.
	if isIntegerDType(rec.DType) {
		return true
	}
	// Rule 3: floating storage, but every value is a whole number.
	return allIntegral(unique, a.opts.IntegralityTolerance)
}

func allIntegral(vs []float64, tol float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) {
			return false
		}
		if math.Abs(v-math.Round(v)) > tol {
			return false
		}
	}
	return true
}

func isIntegerDType(name string) bool {
	return strings.HasPrefix(name, "int") || strings.HasPrefix(name, "uint")
}

// labelKey formats a label value for use as a map key in the report.
func labelKey(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
