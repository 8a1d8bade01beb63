package export

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"niftiview/internal/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		ReportID:    "test-report",
		GeneratedAt: "2025-01-01T00:00:00Z",
		FileInfo: models.FileInfo{
			FileName: "brain.nii.gz",
			FileSize: 5 * 1024 * 1024,
			Format:   "NIfTI",
			Version:  348,
		},
		Header: map[string]any{"sizeof_hdr": 348},
		Statistics: &models.StatisticsSummary{
			Shape:        []int{64, 64, 32},
			NDim:         3,
			DType:        "int16",
			Min:          0,
			Max:          3,
			Mean:         1.25,
			Std:          0.8,
			Median:       1,
			UniqueCount:  4,
			NonZeroCount: 1000,
			ZeroCount:    130072,
		},
		Coordinate: models.CoordinateInfo{
			VoxelSize:   []float64{0.5, 0.5, 2},
			SpatialUnit: "millimeters (mm)",
		},
		Labels: &models.LabelReport{
			UniqueValues: []float64{0, 1, 2},
			IsLabelData:  true,
			LabelCount:   3,
			Statistics: map[string]models.LabelStat{
				"0": {VoxelCount: 2, Percentage: 33.33},
				"1": {VoxelCount: 2, Percentage: 33.33},
				"2": {VoxelCount: 2, Percentage: 33.33},
			},
		},
	}
}

// TestParseFormat verifies format name validation
func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"json": FormatJSON,
		"JSON": FormatJSON,
		"yaml": FormatYAML,
		"yml":  FormatYAML,
	} {
		got, err := ParseFormat(name)
		if err != nil {
			t.Fatalf("ParseFormat(%q) returned error: %v", name, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", name, got, want)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for unsupported format, got nil")
	}
}

// TestEncodeJSON verifies the JSON document structure
func TestEncodeJSON(t *testing.T) {
	data, err := Encode(sampleReport(), FormatJSON, 2)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Encoded JSON does not parse: %v", err)
	}

	for _, key := range []string{"report_id", "file_info", "header", "data_info", "labels", "coordinate_system"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("Expected key %q in exported document", key)
		}
	}
}

// TestEncodeJSONWithNaNStatistics verifies NaN sentinels encode as null
func TestEncodeJSONWithNaNStatistics(t *testing.T) {
	rep := sampleReport()
	rep.Statistics.Min = math.NaN()
	rep.Statistics.Max = math.Inf(1)

	data, err := Encode(rep, FormatJSON, 2)
	if err != nil {
		t.Fatalf("Encode failed on NaN statistics: %v", err)
	}
	if !strings.Contains(string(data), `"min_value": null`) {
		t.Error("Expected NaN min to encode as null")
	}
}

// TestEncodeYAML verifies the YAML encoding round-trips
func TestEncodeYAML(t *testing.T) {
	data, err := Encode(sampleReport(), FormatYAML, 0)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(string(data), "report_id: test-report") {
		t.Errorf("YAML output missing report_id, got:\n%s", data)
	}
}

// TestWriteReportCreatesDirectories verifies export to a nested path
func TestWriteReportCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "report.json")
	if err := WriteReport(sampleReport(), path, FormatJSON, 2); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Exported file not readable: %v", err)
	}
	if len(data) == 0 {
		t.Error("Exported file is empty")
	}
}

// TestSummary verifies the text overview contents
func TestSummary(t *testing.T) {
	out := Summary(sampleReport())

	for _, want := range []string{
		"Filename: brain.nii.gz",
		"File size: 5.00 MB",
		"Data shape: [64 64 32]",
		"Data type: int16",
		"Value range: [0.000, 3.000]",
		"Voxel size: [0.500, 0.500, 2.000] millimeters (mm)",
		"Label image: yes",
		"Label count: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q, got:\n%s", want, out)
		}
	}
}

// TestSummaryWithoutLabels verifies intensity volumes omit the label lines
func TestSummaryWithoutLabels(t *testing.T) {
	rep := sampleReport()
	rep.Labels.IsLabelData = false

	out := Summary(rep)
	if strings.Contains(out, "Label image") {
		t.Error("Summary should not mention labels for intensity volumes")
	}
}

// TestLabelTable verifies the per-label text rows
func TestLabelTable(t *testing.T) {
	out := LabelTable(sampleReport().Labels)
	for _, want := range []string{"label", "voxels", "percent", "33.33%"} {
		if !strings.Contains(out, want) {
			t.Errorf("LabelTable missing %q, got:\n%s", want, out)
		}
	}

	if got := LabelTable(nil); !strings.Contains(got, "not a label volume") {
		t.Errorf("LabelTable(nil) = %q", got)
	}
}
