package analysis

import (
	"fmt"
	"unicode/utf8"

	"gonum.org/v1/gonum/mat"

	"niftiview/internal/models"
	"niftiview/pkg/nifti"
)

// SummarizeAffine breaks the voxel-to-world transform into its translation
// and rotation/scaling parts and characterizes the 3x3 block.
func (a *Analyzer) SummarizeAffine(affine [4][4]float64) models.AffineInfo {
	full := make([][]float64, 4)
	for i := range full {
		full[i] = append([]float64(nil), affine[i][:]...)
	}

	rs := mat.NewDense(3, 3, nil)
	translation := make([]float64, 3)
	rotScale := make([][]float64, 3)
	for i := 0; i < 3; i++ {
		translation[i] = affine[i][3]
		rotScale[i] = append([]float64(nil), affine[i][:3]...)
		for j := 0; j < 3; j++ {
			rs.Set(i, j, affine[i][j])
		}
	}

	var prod mat.Dense
	prod.Mul(rs, rs.T())
	eye := mat.NewDiagDense(3, []float64{1, 1, 1})

	return models.AffineInfo{
		Matrix:          full,
		Translation:     translation,
		RotationScaling: rotScale,
		Determinant:     mat.Det(rs),
		IsOrthogonal:    mat.EqualApprox(&prod, eye, a.opts.OrthogonalityTolerance),
	}
}

// spatialUnits and temporalUnits translate the unit codes packed into
// xyzt_units: the low three bits carry the spatial code, bits 3-5 the
// temporal one.
var spatialUnits = map[int]string{
	nifti.UnitsUnknown: "Unknown",
	nifti.UnitsMeter:   "meters (m)",
	nifti.UnitsMM:      "millimeters (mm)",
	nifti.UnitsMicron:  "micrometers (um)",
}

var temporalUnits = map[int]string{
	nifti.UnitsUnknown: "Unknown",
	nifti.UnitsSec:     "seconds (s)",
	nifti.UnitsMSec:    "milliseconds (ms)",
	nifti.UnitsUSec:    "microseconds (us)",
}

// CoordinateInfo extracts voxel spacing and the decoded unit names.
func (a *Analyzer) CoordinateInfo(h *nifti.Header) models.CoordinateInfo {
	ndim := h.NDim()
	if ndim < 1 || ndim > 7 {
		ndim = 0
	}
	voxel := make([]float64, ndim)
	for i := 0; i < ndim; i++ {
		voxel[i] = float64(h.PixDim[i+1])
	}

	spatial := int(h.XYZTUnits) & 0x07
	temporal := int(h.XYZTUnits) & 0x38

	info := models.CoordinateInfo{
		VoxelSize: voxel,
		QFormCode: int(h.QFormCode),
		SFormCode: int(h.SFormCode),
		SliceCode: int(h.SliceCode),
	}

	var ok bool
	if info.SpatialUnit, ok = spatialUnits[spatial]; !ok {
		info.SpatialUnit = unknownUnit(spatial)
	}
	if info.TemporalUnit, ok = temporalUnits[temporal]; !ok {
		info.TemporalUnit = unknownUnit(temporal)
	}
	return info
}

func unknownUnit(code int) string {
	return fmt.Sprintf("Unknown unit (%d)", code)
}

// DescribeExtensions converts raw extension records for the report,
// decoding payloads that happen to be text.
func (a *Analyzer) DescribeExtensions(exts []nifti.Extension) []models.ExtensionInfo {
	if len(exts) == 0 {
		return nil
	}
	out := make([]models.ExtensionInfo, len(exts))
	for i, ext := range exts {
		info := models.ExtensionInfo{
			Index: i,
			ESize: int(ext.ESize),
			ECode: int(ext.ECode),
		}
		if utf8.Valid(ext.EData) {
			info.EData = string(ext.EData)
		} else {
			info.EData = fmt.Sprintf("binary data (length: %d)", len(ext.EData))
		}
		out[i] = info
	}
	return out
}
