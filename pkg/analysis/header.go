package analysis

import (
	"fmt"
	"math"

	"niftiview/pkg/nifti"
)

// headerField extracts one named header field as a JSON-portable value.
// Returning an error marks the field as failed without aborting the rest
// of the extraction.
type headerField struct {
	name string
	get  func(h *nifti.Header) (any, error)
}

// headerFields lists every header field in on-disk order. Numeric array
// fields come out as []float64 or []int, text fields as NUL-trimmed
// strings.
var headerFields = []headerField{
	{"sizeof_hdr", func(h *nifti.Header) (any, error) { return int(h.SizeOfHdr), nil }},
	{"data_type", func(h *nifti.Header) (any, error) { return nifti.CString(h.UnusedDataType[:]), nil }},
	{"db_name", func(h *nifti.Header) (any, error) { return nifti.CString(h.UnusedDbName[:]), nil }},
	{"extents", func(h *nifti.Header) (any, error) { return int(h.UnusedExtents), nil }},
	{"session_error", func(h *nifti.Header) (any, error) { return int(h.UnusedSessionError), nil }},
	{"regular", func(h *nifti.Header) (any, error) { return int(h.UnusedRegular), nil }},
	{"dim_info", func(h *nifti.Header) (any, error) { return int(h.DimInfo), nil }},
	{"dim", func(h *nifti.Header) (any, error) { return int16List(h.Dim[:]), nil }},
	{"intent_p1", func(h *nifti.Header) (any, error) { return scalar(h.IntentP1) }},
	{"intent_p2", func(h *nifti.Header) (any, error) { return scalar(h.IntentP2) }},
	{"intent_p3", func(h *nifti.Header) (any, error) { return scalar(h.IntentP3) }},
	{"intent_code", func(h *nifti.Header) (any, error) { return int(h.IntentCode), nil }},
	{"datatype", func(h *nifti.Header) (any, error) { return int(h.DataType), nil }},
	{"bitpix", func(h *nifti.Header) (any, error) { return int(h.BitPix), nil }},
	{"slice_start", func(h *nifti.Header) (any, error) { return int(h.SliceStart), nil }},
	{"pixdim", func(h *nifti.Header) (any, error) { return floatList(h.PixDim[:]) }},
	{"vox_offset", func(h *nifti.Header) (any, error) { return scalar(h.VoxOffset) }},
	{"scl_slope", func(h *nifti.Header) (any, error) { return scalar(h.SclSlope) }},
	{"scl_inter", func(h *nifti.Header) (any, error) { return scalar(h.SclInter) }},
	{"slice_end", func(h *nifti.Header) (any, error) { return int(h.SliceEnd), nil }},
	{"slice_code", func(h *nifti.Header) (any, error) { return int(h.SliceCode), nil }},
	{"xyzt_units", func(h *nifti.Header) (any, error) { return int(h.XYZTUnits), nil }},
	{"cal_max", func(h *nifti.Header) (any, error) { return scalar(h.CalMax) }},
	{"cal_min", func(h *nifti.Header) (any, error) { return scalar(h.CalMin) }},
	{"slice_duration", func(h *nifti.Header) (any, error) { return scalar(h.SliceDuration) }},
	{"toffset", func(h *nifti.Header) (any, error) { return scalar(h.TOffset) }},
	{"glmax", func(h *nifti.Header) (any, error) { return int(h.UnusedGlmax), nil }},
	{"glmin", func(h *nifti.Header) (any, error) { return int(h.UnusedGlmin), nil }},
	{"descrip", func(h *nifti.Header) (any, error) { return nifti.CString(h.Descrip[:]), nil }},
	{"aux_file", func(h *nifti.Header) (any, error) { return nifti.CString(h.AuxFile[:]), nil }},
	{"qform_code", func(h *nifti.Header) (any, error) { return int(h.QFormCode), nil }},
	{"sform_code", func(h *nifti.Header) (any, error) { return int(h.SFormCode), nil }},
	{"quatern_b", func(h *nifti.Header) (any, error) { return scalar(h.QuaternB) }},
	{"quatern_c", func(h *nifti.Header) (any, error) { return scalar(h.QuaternC) }},
	{"quatern_d", func(h *nifti.Header) (any, error) { return scalar(h.QuaternD) }},
	{"qoffset_x", func(h *nifti.Header) (any, error) { return scalar(h.QOffsetX) }},
	{"qoffset_y", func(h *nifti.Header) (any, error) { return scalar(h.QOffsetY) }},
	{"qoffset_z", func(h *nifti.Header) (any, error) { return scalar(h.QOffsetZ) }},
	{"srow_x", func(h *nifti.Header) (any, error) { return floatList(h.SRowX[:]) }},
	{"srow_y", func(h *nifti.Header) (any, error) { return floatList(h.SRowY[:]) }},
	{"srow_z", func(h *nifti.Header) (any, error) { return floatList(h.SRowZ[:]) }},
	{"intent_name", func(h *nifti.Header) (any, error) { return nifti.CString(h.IntentName[:]), nil }},
	{"magic", func(h *nifti.Header) (any, error) { return nifti.CString(h.Magic[:]), nil }},
}

// NormalizeHeader converts the raw header into a map of portable values.
// A field whose value cannot be represented (a non-finite float, for
// example, which JSON cannot encode) is replaced by an "extraction failed"
// marker; all other fields are still extracted.
func (a *Analyzer) NormalizeHeader(h *nifti.Header) map[string]any {
	out := make(map[string]any, len(headerFields)+1)
	for _, f := range headerFields {
		v, err := f.get(h)
		if err != nil {
			out[f.name] = fmt.Sprintf("extraction failed: %v", err)
			continue
		}
		out[f.name] = v
	}
	out["explanations"] = explain(out)
	return out
}

// scalar converts a header float to float64, rejecting non-finite values
// so the resulting document stays JSON-encodable.
func scalar(v float32) (any, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}

func floatList(vs []float32) (any, error) {
	out := make([]float64, len(vs))
	for i, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("non-finite value %v at index %d", f, i)
		}
		out[i] = f
	}
	return out, nil
}

func int16List(vs []int16) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = int(v)
	}
	return out
}

// datatypeNames maps DT_* codes to display strings.
var datatypeNames = map[int]string{
	nifti.DTUint8:   "Unsigned char (uint8)",
	nifti.DTInt16:   "Signed short (int16)",
	nifti.DTInt32:   "Signed int (int32)",
	nifti.DTFloat32: "Single precision float (float32)",
	nifti.DTFloat64: "Double precision float (float64)",
	nifti.DTInt8:    "Signed char (int8)",
	nifti.DTUint16:  "Unsigned short (uint16)",
	nifti.DTUint32:  "Unsigned int (uint32)",
}

// intentNames maps the common NIFTI_INTENT_* codes to display strings.
var intentNames = map[int]string{
	0: "No special intent",
	2: "Correlation coefficient",
	3: "T-statistic",
	4: "F-statistic",
	5: "Z-score",
}

// explain attaches human-readable names for coded fields.
func explain(fields map[string]any) map[string]string {
	out := make(map[string]string, 2)
	if code, ok := fields["datatype"].(int); ok {
		name, known := datatypeNames[code]
		if !known {
			name = fmt.Sprintf("Unknown datatype (%d)", code)
		}
		out["datatype"] = name
	}
	if code, ok := fields["intent_code"].(int); ok {
		name, known := intentNames[code]
		if !known {
			name = fmt.Sprintf("Other intent (%d)", code)
		}
		out["intent_code"] = name
	}
	return out
}
