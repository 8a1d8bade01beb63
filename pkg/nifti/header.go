// Package nifti reads NIfTI-1 files (.nii and .nii.gz) into memory.
//
// The header layout follows the official definition at
// https://nifti.nimh.nih.gov/pub/dist/src/niftilib/nifti1.h
package nifti

// Datatype codes from the NIfTI-1 standard (DT_* in nifti1.h).
const (
	DTUnknown = 0
	DTBinary  = 1
	DTUint8   = 2
	DTInt16   = 4
	DTInt32   = 8
	DTFloat32 = 16
	DTFloat64 = 64
	DTInt8    = 256
	DTUint16  = 512
	DTUint32  = 768
	DTInt64   = 1024
	DTUint64  = 1280
)

// Spatial and temporal unit codes from the xyzt_units bitfield.
const (
	UnitsUnknown = 0
	UnitsMeter   = 1
	UnitsMM      = 2
	UnitsMicron  = 3
	UnitsSec     = 8
	UnitsMSec    = 16
	UnitsUSec    = 24
)

// Header is the 348-byte NIfTI-1 file header, laid out for binary.Read.
//
// Type translation from the C header to Go:
//
//	C     Go
//	-------------
//	int   int32
//	float float32
//	short int16
//	char  int8
type Header struct {
	SizeOfHdr          int32    // Must be 348
	UnusedDataType     [10]int8 // Unused
	UnusedDbName       [18]int8 // Unused
	UnusedExtents      int32    // Unused
	UnusedSessionError int16    // Unused
	UnusedRegular      int8     // Unused
	DimInfo            int8     // MRI slice ordering

	Dim           [8]int16   // Data array dimensions
	IntentP1      float32    // 1st intent parameter
	IntentP2      float32    // 2nd intent parameter
	IntentP3      float32    // 3rd intent parameter
	IntentCode    int16      // NIFTI_INTENT_* code
	DataType      int16      // Defines data type
	BitPix        int16      // Number of bits per voxel
	SliceStart    int16      // First slice index
	PixDim        [8]float32 // Grid spacing
	VoxOffset     float32    // Offset into .nii file
	SclSlope      float32    // Data scaling: slope
	SclInter      float32    // Data scaling: offset
	SliceEnd      int16      // Last slice index
	SliceCode     int8       // Slice timing order
	XYZTUnits     int8       // Units of pixdim[1..4]
	CalMax        float32    // Max display intensity
	CalMin        float32    // Min display intensity
	SliceDuration float32    // Time for one slice
	TOffset       float32    // Time axis shift
	UnusedGlmax   int32      // Unused
	UnusedGlmin   int32      // Unused

	Descrip [80]int8 // Any text you like
	AuxFile [24]int8 // Auxiliary filename

	QFormCode int16 // NIFTI_XFORM_* code
	SFormCode int16 // NIFTI_XFORM_* code

	QuaternB float32 // Quaternion b param
	QuaternC float32 // Quaternion c param
	QuaternD float32 // Quaternion d param
	QOffsetX float32 // Quaternion x shift
	QOffsetY float32 // Quaternion y shift
	QOffsetZ float32 // Quaternion z shift

	SRowX [4]float32 // 1st row affine transform
	SRowY [4]float32 // 2nd row affine transform
	SRowZ [4]float32 // 3rd row affine transform

	IntentName [16]int8 // 'name' or meaning of data

	Magic [4]int8 // Must be "ni1\0" or "n+1\0"
}

// NDim returns the number of dimensions declared in dim[0].
func (h *Header) NDim() int {
	return int(h.Dim[0])
}

// Shape returns the first dim[0] array dimensions.
func (h *Header) Shape() []int {
	n := h.NDim()
	if n < 1 || n > 7 {
		return nil
	}
	shape := make([]int, n)
	for i := 0; i < n; i++ {
		shape[i] = int(h.Dim[i+1])
	}
	return shape
}

// DataTypeName translates a DT_* code to the conventional type name.
func DataTypeName(code int16) string {
	switch code {
	case DTUint8:
		return "uint8"
	case DTInt16:
		return "int16"
	case DTInt32:
		return "int32"
	case DTFloat32:
		return "float32"
	case DTFloat64:
		return "float64"
	case DTInt8:
		return "int8"
	case DTUint16:
		return "uint16"
	case DTUint32:
		return "uint32"
	case DTInt64:
		return "int64"
	case DTUint64:
		return "uint64"
	}
	return "unknown"
}

// IsIntegerType reports whether the DT_* code is an integer element type.
func IsIntegerType(code int16) bool {
	switch code {
	case DTUint8, DTInt16, DTInt32, DTInt8, DTUint16, DTUint32, DTInt64, DTUint64:
		return true
	}
	return false
}

// CString converts a NUL-padded int8 array field to a Go string.
func CString(field []int8) string {
	b := make([]byte, 0, len(field))
	for _, c := range field {
		if c == 0 {
			break
		}
		b = append(b, byte(c))
	}
	return string(b)
}
