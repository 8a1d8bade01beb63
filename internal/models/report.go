package models

import (
	"encoding/json"
	"math"
)

// ImageRecord holds one decoded NIfTI volume for the duration of a single
// analysis call. It is never mutated after loading.
type ImageRecord struct {
	// Data is the voxel data as a flat array in row-major order,
	// already rescaled by scl_slope/scl_inter where applicable
	Data []float64

	// Shape is the array dimensions, e.g. [x, y, z] or [x, y, z, t]
	Shape []int

	// DType is the on-disk element type name (uint8, int16, float32, ...)
	DType string

	// Affine maps voxel indices to physical coordinates
	Affine [4][4]float64
}

// NumElements returns the total number of voxels implied by Shape.
func (r *ImageRecord) NumElements() int {
	if len(r.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range r.Shape {
		n *= d
	}
	return n
}

// StatisticsSummary is a read-only snapshot of array statistics. All values
// are computed from the same array snapshot in one pass over the data.
type StatisticsSummary struct {
	// Shape is the array dimensions
	Shape []int `json:"shape" yaml:"shape"`

	// NDim is the number of dimensions
	NDim int `json:"ndim" yaml:"ndim"`

	// DType is the element type name
	DType string `json:"dtype" yaml:"dtype"`

	// Min and Max are computed over finite values only
	Min float64 `json:"min_value" yaml:"min_value"`
	Max float64 `json:"max_value" yaml:"max_value"`

	// Mean and Std are computed over finite values only
	Mean float64 `json:"mean_value" yaml:"mean_value"`
	Std  float64 `json:"std_value" yaml:"std_value"`

	// Median is the median of the finite values
	Median float64 `json:"median_value" yaml:"median_value"`

	// UniqueCount is the number of distinct values in the array
	UniqueCount int `json:"unique_values_count" yaml:"unique_values_count"`

	// NonZeroCount counts elements that are not exactly zero.
	// NaN elements count as non-zero.
	NonZeroCount int `json:"non_zero_count" yaml:"non_zero_count"`

	// ZeroCount counts elements that are exactly zero
	ZeroCount int `json:"zero_count" yaml:"zero_count"`

	// NaNCount and InfCount track non-finite elements
	NaNCount int `json:"nan_count" yaml:"nan_count"`
	InfCount int `json:"inf_count" yaml:"inf_count"`
}

// MarshalJSON encodes NaN and infinite moments as null. encoding/json
// rejects non-finite numbers, and degenerate volumes (empty or all-NaN)
// legitimately produce NaN sentinels.
func (s StatisticsSummary) MarshalJSON() ([]byte, error) {
	type alias StatisticsSummary
	return json.Marshal(struct {
		alias
		Min    any `json:"min_value"`
		Max    any `json:"max_value"`
		Mean   any `json:"mean_value"`
		Std    any `json:"std_value"`
		Median any `json:"median_value"`
	}{
		alias:  alias(s),
		Min:    finiteOrNil(s.Min),
		Max:    finiteOrNil(s.Max),
		Mean:   finiteOrNil(s.Mean),
		Std:    finiteOrNil(s.Std),
		Median: finiteOrNil(s.Median),
	})
}

func finiteOrNil(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// LabelStat describes one label value in a label volume.
type LabelStat struct {
	// VoxelCount is the number of voxels carrying this label
	VoxelCount int `json:"voxel_count" yaml:"voxel_count"`

	// Percentage is VoxelCount relative to the total voxel count, in percent
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// LabelReport is the result of label classification. When IsLabelData is
// true, Statistics maps each distinct value (formatted as a float string)
// to its voxel count and percentage; percentages sum to 100 within
// floating-point tolerance.
type LabelReport struct {
	// UniqueValues is the sorted list of distinct values in the array
	UniqueValues []float64 `json:"unique_values" yaml:"unique_values"`

	// IsLabelData indicates whether the array looks like a label volume
	IsLabelData bool `json:"is_likely_labels" yaml:"is_likely_labels"`

	// LabelCount is the number of distinct values
	LabelCount int `json:"label_count" yaml:"label_count"`

	// Statistics holds per-label counts, present only for label volumes
	Statistics map[string]LabelStat `json:"label_statistics,omitempty" yaml:"label_statistics,omitempty"`
}

// FileInfo describes the source file of a report.
type FileInfo struct {
	FilePath string `json:"file_path" yaml:"file_path"`
	FileName string `json:"file_name" yaml:"file_name"`
	FileSize int64  `json:"file_size" yaml:"file_size"`
	Format   string `json:"format" yaml:"format"`
	Version  int    `json:"version" yaml:"version"`
}

// AffineInfo summarizes the voxel-to-world transform.
type AffineInfo struct {
	// Matrix is the full 4x4 affine
	Matrix [][]float64 `json:"affine_matrix" yaml:"affine_matrix"`

	// Translation is the last column of the upper 3x4 block
	Translation []float64 `json:"translation" yaml:"translation"`

	// RotationScaling is the upper-left 3x3 block
	RotationScaling [][]float64 `json:"rotation_scaling" yaml:"rotation_scaling"`

	// Determinant of the 3x3 block; negative means a flipped handedness
	Determinant float64 `json:"determinant" yaml:"determinant"`

	// IsOrthogonal reports whether the 3x3 block times its transpose is
	// the identity within tolerance
	IsOrthogonal bool `json:"is_orthogonal" yaml:"is_orthogonal"`
}

// CoordinateInfo describes voxel spacing and the spatial/temporal units
// decoded from the xyzt_units bitfield.
type CoordinateInfo struct {
	VoxelSize    []float64 `json:"voxel_size" yaml:"voxel_size"`
	SpatialUnit  string    `json:"spatial_unit" yaml:"spatial_unit"`
	TemporalUnit string    `json:"temporal_unit" yaml:"temporal_unit"`
	QFormCode    int       `json:"qform_code" yaml:"qform_code"`
	SFormCode    int       `json:"sform_code" yaml:"sform_code"`
	SliceCode    int       `json:"slice_code" yaml:"slice_code"`
}

// ExtensionInfo describes one NIfTI header extension record.
type ExtensionInfo struct {
	Index int    `json:"index" yaml:"index"`
	ESize int    `json:"esize" yaml:"esize"`
	ECode int    `json:"ecode" yaml:"ecode"`
	EData string `json:"edata,omitempty" yaml:"edata,omitempty"`
}

// Report is the complete JSON-serializable analysis document handed to the
// display and export layers. Created fresh per file load and discarded on
// the next load.
type Report struct {
	// ReportID uniquely identifies one analysis run
	ReportID string `json:"report_id" yaml:"report_id"`

	// GeneratedAt is the RFC 3339 timestamp of the analysis
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`

	FileInfo   FileInfo           `json:"file_info" yaml:"file_info"`
	Header     map[string]any     `json:"header" yaml:"header"`
	Affine     AffineInfo         `json:"affine" yaml:"affine"`
	Statistics *StatisticsSummary `json:"data_info" yaml:"data_info"`
	Coordinate CoordinateInfo     `json:"coordinate_system" yaml:"coordinate_system"`
	Labels     *LabelReport       `json:"labels" yaml:"labels"`
	Extensions []ExtensionInfo    `json:"extensions" yaml:"extensions"`
}
