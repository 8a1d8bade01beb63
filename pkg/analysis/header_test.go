package analysis

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niftiview/pkg/nifti"
)

func sampleHeader() *nifti.Header {
	h := &nifti.Header{
		SizeOfHdr: 348,
		DataType:  nifti.DTInt16,
		BitPix:    16,
		Magic:     [4]int8{110, 43, 49, 0},
	}
	h.Dim = [8]int16{3, 64, 64, 32, 1, 1, 1, 1}
	h.PixDim = [8]float32{1, 0.5, 0.5, 2, 1, 1, 1, 1}
	h.CalMax = 100
	h.IntentCode = 3
	copy(h.Descrip[:], []int8{'t', 'e', 's', 't'})
	return h
}

func TestNormalizeHeaderAllFields(t *testing.T) {
	out := newTestAnalyzer().NormalizeHeader(sampleHeader())

	assert.Equal(t, 348, out["sizeof_hdr"])
	assert.Equal(t, []int{3, 64, 64, 32, 1, 1, 1, 1}, out["dim"])
	assert.Equal(t, int(nifti.DTInt16), out["datatype"])
	assert.Equal(t, 100.0, out["cal_max"])
	assert.Equal(t, "test", out["descrip"])
	assert.Equal(t, "n+1", out["magic"])
	assert.Equal(t, []float64{1, 0.5, 0.5, 2, 1, 1, 1, 1}, out["pixdim"])

	exp, ok := out["explanations"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Signed short (int16)", exp["datatype"])
	assert.Equal(t, "T-statistic", exp["intent_code"])
}

func TestNormalizeHeaderCorruptFieldIsMarked(t *testing.T) {
	h := sampleHeader()
	h.CalMax = float32(math.NaN())

	out := newTestAnalyzer().NormalizeHeader(h)

	marker, ok := out["cal_max"].(string)
	require.True(t, ok, "corrupt field should become a string marker")
	assert.True(t, strings.HasPrefix(marker, "extraction failed:"), "got %q", marker)

	// every other field survives
	assert.Equal(t, 348, out["sizeof_hdr"])
	assert.Equal(t, 0.0, out["cal_min"])
	assert.Len(t, out, len(headerFieldNames())+1) // +1 for explanations
}

func TestNormalizeHeaderIsJSONSerializable(t *testing.T) {
	h := sampleHeader()
	h.SclSlope = float32(math.Inf(1))

	out := newTestAnalyzer().NormalizeHeader(h)
	_, err := json.Marshal(out)
	require.NoError(t, err)
}

func TestNormalizeHeaderUnknownCodes(t *testing.T) {
	h := sampleHeader()
	h.DataType = 1536
	h.IntentCode = 99

	out := newTestAnalyzer().NormalizeHeader(h)
	exp := out["explanations"].(map[string]string)
	assert.Equal(t, "Unknown datatype (1536)", exp["datatype"])
	assert.Equal(t, "Other intent (99)", exp["intent_code"])
}

func headerFieldNames() []string {
	names := make([]string, len(headerFields))
	for i, f := range headerFields {
		names[i] = f.name
	}
	return names
}
