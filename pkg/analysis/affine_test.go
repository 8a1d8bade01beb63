package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niftiview/pkg/nifti"
)

func TestSummarizeAffineIdentity(t *testing.T) {
	affine := [4][4]float64{
		{1, 0, 0, 10},
		{0, 1, 0, -20},
		{0, 0, 1, 5},
		{0, 0, 0, 1},
	}
	info := newTestAnalyzer().SummarizeAffine(affine)

	assert.Equal(t, []float64{10, -20, 5}, info.Translation)
	assert.InDelta(t, 1.0, info.Determinant, 1e-12)
	assert.True(t, info.IsOrthogonal)
	require.Len(t, info.Matrix, 4)
	assert.Equal(t, []float64{1, 0, 0, 10}, info.Matrix[0])
	assert.Equal(t, []float64{1, 0, 0}, info.RotationScaling[0])
}

func TestSummarizeAffineScaledIsNotOrthogonal(t *testing.T) {
	affine := [4][4]float64{
		{2, 0, 0, 0},
		{0, 2, 0, 0},
		{0, 0, 2, 0},
		{0, 0, 0, 1},
	}
	info := newTestAnalyzer().SummarizeAffine(affine)

	assert.InDelta(t, 8.0, info.Determinant, 1e-12)
	assert.False(t, info.IsOrthogonal)
}

func TestSummarizeAffineFlippedHandedness(t *testing.T) {
	affine := [4][4]float64{
		{-1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	info := newTestAnalyzer().SummarizeAffine(affine)

	assert.InDelta(t, -1.0, info.Determinant, 1e-12)
	assert.True(t, info.IsOrthogonal)
}

func TestCoordinateInfoUnits(t *testing.T) {
	h := sampleHeader()
	h.XYZTUnits = nifti.UnitsMM | nifti.UnitsSec // 2 | 8

	info := newTestAnalyzer().CoordinateInfo(h)

	assert.Equal(t, "millimeters (mm)", info.SpatialUnit)
	assert.Equal(t, "seconds (s)", info.TemporalUnit)
	assert.Equal(t, []float64{0.5, 0.5, 2}, info.VoxelSize)
}

func TestCoordinateInfoUnknownUnits(t *testing.T) {
	h := sampleHeader()
	h.XYZTUnits = 0

	info := newTestAnalyzer().CoordinateInfo(h)
	assert.Equal(t, "Unknown", info.SpatialUnit)
	assert.Equal(t, "Unknown", info.TemporalUnit)
}

func TestDescribeExtensions(t *testing.T) {
	exts := []nifti.Extension{
		{ESize: 16, ECode: 4, EData: []byte("hello")},
		{ESize: 12, ECode: 0, EData: []byte{0xff, 0xfe, 0x01}},
	}
	out := newTestAnalyzer().DescribeExtensions(exts)

	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Index)
	assert.Equal(t, "hello", out[0].EData)
	assert.Equal(t, "binary data (length: 3)", out[1].EData)

	assert.Nil(t, newTestAnalyzer().DescribeExtensions(nil))
}
