package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"niftiview/internal/models"
)

// Viewer extracts 2D preview slices from a loaded volume. Values are
// normalized to the finite value range of the volume so previews stay
// visible regardless of the source intensity scale.
type Viewer struct {
	// volumeData holds the first 3D sub-volume of the record, x fastest
	volumeData []float64

	// dimensions of the volume
	width  int
	height int
	depth  int

	// min and span of the finite values, used for display normalization
	min  float64
	span float64

	// quality is the JPEG encoder quality for saved slices
	quality int
}

// NewViewer creates a viewer over the first three dimensions of a record.
// Records with fewer than three dimensions are rejected; higher-dimensional
// records are previewed through their first volume.
func NewViewer(rec *models.ImageRecord, jpegQuality int) (*Viewer, error) {
	if len(rec.Shape) < 3 {
		return nil, fmt.Errorf("need a 3D volume for slice extraction, got %d dimension(s)", len(rec.Shape))
	}

	w, h, d := rec.Shape[0], rec.Shape[1], rec.Shape[2]
	n := w * h * d
	if n > len(rec.Data) {
		return nil, fmt.Errorf("volume data too short: need %d elements, have %d", n, len(rec.Data))
	}
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = 90
	}

	v := &Viewer{
		volumeData: rec.Data[:n],
		width:      w,
		height:     h,
		depth:      d,
		quality:    jpegQuality,
	}
	v.min, v.span = displayRange(v.volumeData)
	return v, nil
}

// displayRange finds the finite min and value span, falling back to a span
// of 1 for constant or all-NaN volumes.
func displayRange(data []float64) (min, span float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		return lo, 1
	}
	return lo, hi - lo
}

// gray maps one voxel value into Gray16 display range.
func (v *Viewer) gray(val float64) color.Gray16 {
	if math.IsNaN(val) {
		return color.Gray16{Y: 0}
	}
	norm := (val - v.min) / v.span
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, norm*65535)))}
}

// SliceCount returns the number of slices available along the axis.
func (v *Viewer) SliceCount(axis string) (int, error) {
	switch axis {
	case "x", "X":
		return v.width, nil
	case "y", "Y":
		return v.height, nil
	case "z", "Z":
		return v.depth, nil
	}
	return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
}

// ExtractSlice extracts a 2D slice from the volume along the specified axis.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var img *image.Gray16

	switch axis {
	case "x", "X":
		// Slice along the YZ plane
		if position >= v.width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.width)
		}

		img = image.NewGray16(image.Rect(0, 0, v.height, v.depth))
		for z := 0; z < v.depth; z++ {
			for y := 0; y < v.height; y++ {
				idx := position + v.width*(y+v.height*z)
				img.SetGray16(y, z, v.gray(v.volumeData[idx]))
			}
		}

	case "y", "Y":
		// Slice along the XZ plane
		if position >= v.height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, v.height)
		}

		img = image.NewGray16(image.Rect(0, 0, v.width, v.depth))
		for z := 0; z < v.depth; z++ {
			for x := 0; x < v.width; x++ {
				idx := x + v.width*(position+v.height*z)
				img.SetGray16(x, z, v.gray(v.volumeData[idx]))
			}
		}

	case "z", "Z":
		// Slice along the XY plane
		if position >= v.depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.depth)
		}

		img = image.NewGray16(image.Rect(0, 0, v.width, v.height))
		for y := 0; y < v.height; y++ {
			for x := 0; x < v.width; x++ {
				idx := x + v.width*(y+v.height*position)
				img.SetGray16(x, y, v.gray(v.volumeData[idx]))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// SaveSlice saves an extracted slice as a JPEG image.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: v.quality})
}

// SaveSliceSequence extracts and saves every slice along the specified axis.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	maxPos, err := v.SliceCount(axis)
	if err != nil {
		return err
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
