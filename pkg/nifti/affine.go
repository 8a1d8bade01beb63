package nifti

import "math"

// affineFromHeader derives the voxel-to-world transform, preferring the
// sform when present, then the qform quaternion, then a plain pixdim
// diagonal. This is the method 3 / method 2 / method 1 order from the
// NIfTI-1 standard.
func affineFromHeader(h Header) [4][4]float64 {
	switch {
	case h.SFormCode > 0:
		return sformAffine(h)
	case h.QFormCode > 0:
		return qformAffine(h)
	default:
		return pixdimAffine(h)
	}
}

func sformAffine(h Header) [4][4]float64 {
	var m [4][4]float64
	for j := 0; j < 4; j++ {
		m[0][j] = float64(h.SRowX[j])
		m[1][j] = float64(h.SRowY[j])
		m[2][j] = float64(h.SRowZ[j])
	}
	m[3] = [4]float64{0, 0, 0, 1}
	return m
}

// qformAffine reconstructs the rotation from the unit quaternion
// (a, b, c, d) with a recomputed from the stored b, c, d, then scales the
// columns by the voxel sizes. pixdim[0] carries the qfac sign for the
// third column.
func qformAffine(h Header) [4][4]float64 {
	b := float64(h.QuaternB)
	c := float64(h.QuaternC)
	d := float64(h.QuaternD)

	a := 1.0 - (b*b + c*c + d*d)
	if a < 1e-7 {
		// Special case from nifti1_io.c: treat as a 180 degree rotation
		// and renormalize b, c, d.
		a = 1.0 / math.Sqrt(b*b+c*c+d*d)
		b *= a
		c *= a
		d *= a
		a = 0
	} else {
		a = math.Sqrt(a)
	}

	r := [3][3]float64{
		{a*a + b*b - c*c - d*d, 2*b*c - 2*a*d, 2*b*d + 2*a*c},
		{2*b*c + 2*a*d, a*a + c*c - b*b - d*d, 2*c*d - 2*a*b},
		{2*b*d - 2*a*c, 2*c*d + 2*a*b, a*a + d*d - b*b - c*c},
	}

	dx := spacing(h, 1)
	dy := spacing(h, 2)
	dz := spacing(h, 3)
	qfac := 1.0
	if h.PixDim[0] < 0 {
		qfac = -1.0
	}

	var m [4][4]float64
	for i := 0; i < 3; i++ {
		m[i][0] = r[i][0] * dx
		m[i][1] = r[i][1] * dy
		m[i][2] = r[i][2] * dz * qfac
	}
	m[0][3] = float64(h.QOffsetX)
	m[1][3] = float64(h.QOffsetY)
	m[2][3] = float64(h.QOffsetZ)
	m[3] = [4]float64{0, 0, 0, 1}
	return m
}

func pixdimAffine(h Header) [4][4]float64 {
	var m [4][4]float64
	m[0][0] = spacing(h, 1)
	m[1][1] = spacing(h, 2)
	m[2][2] = spacing(h, 3)
	m[3][3] = 1
	return m
}

// spacing returns pixdim[i], defaulting to 1 when the header stored a
// non-positive or absurd value.
func spacing(h Header, i int) float64 {
	v := float64(h.PixDim[i])
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	return v
}
