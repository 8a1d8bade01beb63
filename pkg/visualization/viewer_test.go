package visualization

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"niftiview/internal/models"
)

func testRecord(width, height, depth int) *models.ImageRecord {
	data := make([]float64, width*height*depth)
	return &models.ImageRecord{
		Data:  data,
		Shape: []int{width, height, depth},
		DType: "float64",
	}
}

// TestNewViewer verifies that a new viewer is created with the correct parameters
func TestNewViewer(t *testing.T) {
	width, height, depth := 10, 10, 5
	rec := testRecord(width, height, depth)

	// Fill with test pattern
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				idx := x + width*(y+height*z)
				rec.Data[idx] = float64(x+y+z) / float64(width+height+depth)
			}
		}
	}

	viewer, err := NewViewer(rec, 90)
	if err != nil {
		t.Fatalf("NewViewer failed: %v", err)
	}

	if viewer.width != width {
		t.Errorf("Expected width %d, got %d", width, viewer.width)
	}
	if viewer.height != height {
		t.Errorf("Expected height %d, got %d", height, viewer.height)
	}
	if viewer.depth != depth {
		t.Errorf("Expected depth %d, got %d", depth, viewer.depth)
	}
	if len(viewer.volumeData) != len(rec.Data) {
		t.Errorf("Expected volume data length %d, got %d", len(rec.Data), len(viewer.volumeData))
	}
}

// TestNewViewerRejectsLowDimensions verifies that 1D/2D records are rejected
func TestNewViewerRejectsLowDimensions(t *testing.T) {
	rec := &models.ImageRecord{Data: []float64{1, 2, 3, 4}, Shape: []int{2, 2}, DType: "uint8"}
	if _, err := NewViewer(rec, 90); err == nil {
		t.Error("Expected error for 2D record, got nil")
	}
}

// TestNewViewerFourDimensional verifies that a 4D record previews its first volume
func TestNewViewerFourDimensional(t *testing.T) {
	rec := &models.ImageRecord{
		Data:  make([]float64, 2*2*2*3),
		Shape: []int{2, 2, 2, 3},
		DType: "float32",
	}
	viewer, err := NewViewer(rec, 90)
	if err != nil {
		t.Fatalf("NewViewer failed for 4D record: %v", err)
	}
	if len(viewer.volumeData) != 8 {
		t.Errorf("Expected first volume of 8 voxels, got %d", len(viewer.volumeData))
	}
}

// TestExtractSlice verifies that slices are correctly extracted from the volume
func TestExtractSlice(t *testing.T) {
	width, height, depth := 10, 10, 5
	rec := testRecord(width, height, depth)

	// Fill with test pattern: each slice along Z has a unique value
	for z := 0; z < depth; z++ {
		value := float64(z) / float64(depth)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				rec.Data[x+width*(y+height*z)] = value
			}
		}
	}

	viewer, err := NewViewer(rec, 90)
	if err != nil {
		t.Fatalf("NewViewer failed: %v", err)
	}

	// Values span [0, 0.8], so slice z maps to z/(depth-1) of full scale
	for z := 0; z < depth; z++ {
		img, err := viewer.ExtractSlice("z", z)
		if err != nil {
			t.Fatalf("Failed to extract Z slice at position %d: %v", z, err)
		}

		bounds := img.Bounds()
		if bounds.Dx() != width || bounds.Dy() != height {
			t.Errorf("Expected Z slice dimensions %dx%d, got %dx%d",
				width, height, bounds.Dx(), bounds.Dy())
		}

		gray16Img, ok := img.(*image.Gray16)
		if !ok {
			t.Fatalf("Expected *image.Gray16, got %T", img)
		}

		expectedValue := uint16(math.Min(65535, float64(z)/float64(depth-1)*65535))
		centerValue := gray16Img.Gray16At(width/2, height/2).Y
		if math.Abs(float64(centerValue)-float64(expectedValue)) > 1.0 {
			t.Errorf("Expected Z slice value ~%d at center, got %d",
				expectedValue, centerValue)
		}
	}

	// X slice spans the YZ plane
	imgX, err := viewer.ExtractSlice("x", width/2)
	if err != nil {
		t.Fatalf("Failed to extract X slice: %v", err)
	}
	boundsX := imgX.Bounds()
	if boundsX.Dx() != height || boundsX.Dy() != depth {
		t.Errorf("Expected X slice dimensions %dx%d, got %dx%d",
			height, depth, boundsX.Dx(), boundsX.Dy())
	}

	// Y slice spans the XZ plane
	imgY, err := viewer.ExtractSlice("y", height/2)
	if err != nil {
		t.Fatalf("Failed to extract Y slice: %v", err)
	}
	boundsY := imgY.Bounds()
	if boundsY.Dx() != width || boundsY.Dy() != depth {
		t.Errorf("Expected Y slice dimensions %dx%d, got %dx%d",
			width, depth, boundsY.Dx(), boundsY.Dy())
	}

	// Invalid axis
	if _, err := viewer.ExtractSlice("invalid", 0); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}

	// Out of bounds position
	if _, err := viewer.ExtractSlice("z", depth+1); err == nil {
		t.Error("Expected error for out of bounds position, got nil")
	}
	if _, err := viewer.ExtractSlice("z", -1); err == nil {
		t.Error("Expected error for negative position, got nil")
	}
}

// TestExtractSliceNormalization verifies display normalization of arbitrary ranges
func TestExtractSliceNormalization(t *testing.T) {
	rec := testRecord(2, 1, 1)
	rec.Shape = []int{2, 1, 1}
	rec.Data[0] = -100
	rec.Data[1] = 300

	viewer, err := NewViewer(rec, 90)
	if err != nil {
		t.Fatalf("NewViewer failed: %v", err)
	}

	img, err := viewer.ExtractSlice("z", 0)
	if err != nil {
		t.Fatalf("ExtractSlice failed: %v", err)
	}

	gray16Img := img.(*image.Gray16)
	if got := gray16Img.Gray16At(0, 0).Y; got != 0 {
		t.Errorf("Expected minimum value to map to 0, got %d", got)
	}
	if got := gray16Img.Gray16At(1, 0).Y; got != 65535 {
		t.Errorf("Expected maximum value to map to 65535, got %d", got)
	}
}

// TestSliceCount verifies per-axis slice counts
func TestSliceCount(t *testing.T) {
	viewer, err := NewViewer(testRecord(4, 5, 6), 90)
	if err != nil {
		t.Fatalf("NewViewer failed: %v", err)
	}

	for axis, want := range map[string]int{"x": 4, "y": 5, "z": 6} {
		got, err := viewer.SliceCount(axis)
		if err != nil {
			t.Fatalf("SliceCount(%q) failed: %v", axis, err)
		}
		if got != want {
			t.Errorf("SliceCount(%q) = %d, want %d", axis, got, want)
		}
	}

	if _, err := viewer.SliceCount("w"); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

// TestSaveSliceSequence verifies slices are written to disk
func TestSaveSliceSequence(t *testing.T) {
	width, height, depth := 4, 4, 3
	rec := testRecord(width, height, depth)
	for i := range rec.Data {
		rec.Data[i] = float64(i)
	}

	viewer, err := NewViewer(rec, 90)
	if err != nil {
		t.Fatalf("NewViewer failed: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "z")
	if err := viewer.SaveSliceSequence("z", outDir); err != nil {
		t.Fatalf("SaveSliceSequence failed: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("Failed to read output directory: %v", err)
	}
	if len(entries) != depth {
		t.Errorf("Expected %d slice files, got %d", depth, len(entries))
	}
}
