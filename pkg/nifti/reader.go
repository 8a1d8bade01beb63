package nifti

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"niftiview/internal/models"
)

const (
	headerSize    = 352 // header + 4-byte extender
	minHeaderSize = 348
)

// Extension is one raw header extension record following the extender bytes.
type Extension struct {
	ESize int32
	ECode int32
	EData []byte
}

// Image is one fully decoded NIfTI file.
type Image struct {
	// Path and Size identify the source file
	Path string
	Size int64

	// Header is the raw 348-byte header as read from disk
	Header Header

	// ByteOrder is the byte order inferred from dim[0]
	ByteOrder binary.ByteOrder

	// Record is the decoded voxel array with shape, dtype and affine
	Record models.ImageRecord

	// Extensions holds any header extension records
	Extensions []Extension
}

// IsNIfTIFile reports whether the filename looks like a NIfTI file.
// Only .nii and .nii.gz are supported, case-insensitively.
func IsNIfTIFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(name, ".nii") || strings.HasSuffix(name, ".nii.gz")
}

// Load reads, inflates and decodes a NIfTI-1 file.
func Load(path string) (*Image, error) {
	if !IsNIfTIFile(path) {
		return nil, fmt.Errorf("unsupported file format %q: only .nii and .nii.gz are supported", filepath.Base(path))
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	raw, err := readBytes(path)
	if err != nil {
		return nil, err
	}

	img, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	img.Path = path
	img.Size = fi.Size()
	return img, nil
}

// readBytes returns the contents of a file, inflating it when gzipped.
func readBytes(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("read %s: file is empty", path)
	}

	// DetectContentType uses at most the first 512 bytes.
	sniff := content
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	if mime := http.DetectContentType(sniff); mime == "application/x-gzip" {
		log.WithFields(log.Fields{"file": path}).Debug("decompressing gzip stream")
		content, err = inflateGzip(content)
		if err != nil {
			return nil, fmt.Errorf("inflate %s: %w", path, err)
		}
	}
	return content, nil
}

func inflateGzip(b []byte) ([]byte, error) {
	g, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer g.Close()
	return io.ReadAll(g)
}

// Decode parses an uncompressed NIfTI-1 byte stream.
func Decode(raw []byte) (*Image, error) {
	h, order, err := readHeader(raw)
	if err != nil {
		return nil, err
	}

	img := &Image{Header: h, ByteOrder: order}

	shape := h.Shape()
	if shape == nil {
		return nil, fmt.Errorf("invalid dimension count %d: must be in [1, 7]", h.Dim[0])
	}

	data, err := readData(raw, h, order)
	if err != nil {
		return nil, err
	}

	img.Record = models.ImageRecord{
		Data:   data,
		Shape:  shape,
		DType:  DataTypeName(h.DataType),
		Affine: affineFromHeader(h),
	}
	img.Extensions = readExtensions(raw, h, order)

	log.WithFields(log.Fields{
		"shape":     shape,
		"dtype":     img.Record.DType,
		"byteOrder": order.String(),
	}).Debug("decoded nifti volume")

	return img, nil
}

// readHeader reads the fixed header and infers the byte order of the file
// from the dim[0] range, the same trick nifti1_io.c uses.
func readHeader(raw []byte) (Header, binary.ByteOrder, error) {
	var h Header
	if len(raw) < minHeaderSize {
		return h, nil, fmt.Errorf("file too short for a nifti1 header: %d bytes", len(raw))
	}

	var order binary.ByteOrder = binary.LittleEndian
	if err := binary.Read(bytes.NewReader(raw), order, &h); err != nil {
		return h, nil, fmt.Errorf("read header: %w", err)
	}

	if h.Dim[0] <= 0 || h.Dim[0] > 7 {
		h = Header{}
		order = binary.BigEndian
		if err := binary.Read(bytes.NewReader(raw), order, &h); err != nil {
			return h, nil, fmt.Errorf("read header: %w", err)
		}
	}
	if h.Dim[0] <= 0 || h.Dim[0] > 7 {
		return h, nil, fmt.Errorf("cannot infer byte order: dim[0] not in [1, 7] under either ordering")
	}

	if err := validateHeader(h); err != nil {
		return h, nil, err
	}
	return h, order, nil
}

func validateHeader(h Header) error {
	if h.SizeOfHdr != minHeaderSize {
		return fmt.Errorf("invalid header size %d: must be %d", h.SizeOfHdr, minHeaderSize)
	}
	// "n+1" means header and data share one file; "ni1" means a detached
	// .hdr/.img pair, which this reader does not support.
	switch h.Magic {
	case [4]int8{110, 43, 49, 0}: // n+1
	case [4]int8{110, 105, 49, 0}: // ni1
		return fmt.Errorf("detached hdr/img pairs are not supported")
	default:
		return fmt.Errorf("invalid file magic %v", h.Magic)
	}
	if h.DataType == DTUnknown || h.DataType == DTBinary {
		return fmt.Errorf("invalid datatype code %d", h.DataType)
	}
	return nil
}

// readData extracts the voxel slab and converts it to float64, applying
// scl_slope/scl_inter rescaling when the header asks for it.
func readData(raw []byte, h Header, order binary.ByteOrder) ([]float64, error) {
	n := 1
	for _, d := range h.Shape() {
		if d <= 0 {
			return nil, fmt.Errorf("non-positive dimension %d in header", d)
		}
		n *= d
	}

	bper := int(h.BitPix) / 8
	if bper <= 0 {
		return nil, fmt.Errorf("invalid bitpix %d", h.BitPix)
	}

	offset := int(h.VoxOffset)
	if offset < headerSize {
		offset = headerSize
	}
	if offset+n*bper > len(raw) {
		return nil, fmt.Errorf("truncated voxel data: need %d bytes at offset %d, have %d", n*bper, offset, len(raw))
	}
	slab := raw[offset : offset+n*bper]

	data := make([]float64, n)
	switch h.DataType {
	case DTUint8:
		for i := range data {
			data[i] = float64(slab[i])
		}
	case DTInt8:
		for i := range data {
			data[i] = float64(int8(slab[i]))
		}
	case DTInt16:
		for i := range data {
			data[i] = float64(int16(order.Uint16(slab[i*2:])))
		}
	case DTUint16:
		for i := range data {
			data[i] = float64(order.Uint16(slab[i*2:]))
		}
	case DTInt32:
		for i := range data {
			data[i] = float64(int32(order.Uint32(slab[i*4:])))
		}
	case DTUint32:
		for i := range data {
			data[i] = float64(order.Uint32(slab[i*4:]))
		}
	case DTInt64:
		for i := range data {
			data[i] = float64(int64(order.Uint64(slab[i*8:])))
		}
	case DTUint64:
		for i := range data {
			data[i] = float64(order.Uint64(slab[i*8:]))
		}
	case DTFloat32:
		for i := range data {
			data[i] = float64(math.Float32frombits(order.Uint32(slab[i*4:])))
		}
	case DTFloat64:
		for i := range data {
			data[i] = math.Float64frombits(order.Uint64(slab[i*8:]))
		}
	default:
		return nil, fmt.Errorf("unsupported datatype code %d", h.DataType)
	}

	// slope==0 means no scaling was stored; (1, 0) is the identity.
	slope, inter := float64(h.SclSlope), float64(h.SclInter)
	if slope != 0 && !(slope == 1 && inter == 0) {
		for i := range data {
			data[i] = slope*data[i] + inter
		}
	}

	return data, nil
}

// readExtensions parses the extension records between the header extender
// and the voxel offset. Malformed records end the scan rather than failing
// the whole load.
func readExtensions(raw []byte, h Header, order binary.ByteOrder) []Extension {
	voxOffset := int(h.VoxOffset)
	if voxOffset < headerSize || len(raw) < headerSize {
		return nil
	}
	// extender[0] != 0 signals that extensions are present
	if raw[minHeaderSize] == 0 {
		return nil
	}

	var exts []Extension
	pos := headerSize
	for pos+8 <= voxOffset && pos+8 <= len(raw) {
		esize := int32(order.Uint32(raw[pos:]))
		ecode := int32(order.Uint32(raw[pos+4:]))
		if esize < 8 || pos+int(esize) > voxOffset || pos+int(esize) > len(raw) {
			log.WithFields(log.Fields{
				"offset": pos,
				"esize":  esize,
			}).Warn("malformed extension record, stopping extension scan")
			break
		}
		exts = append(exts, Extension{
			ESize: esize,
			ECode: ecode,
			EData: raw[pos+8 : pos+int(esize)],
		})
		pos += int(esize)
	}
	return exts
}
