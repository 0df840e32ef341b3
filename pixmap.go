package depthgrad

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	icolor "github.com/gogpu/depthgrad/internal/color"
)

// ErrUnsupportedFormat is returned for output formats depthgrad cannot write.
var ErrUnsupportedFormat = errors.New("depthgrad: unsupported format")

// Encoding selects how shaded channel values become 8-bit pixels.
type Encoding = icolor.Encoding

// Output encodings.
const (
	// EncodingLinear writes channel values as-is (the default).
	EncodingLinear = icolor.EncodingLinear
	// EncodingSRGB applies the sRGB transfer function first.
	EncodingSRGB = icolor.EncodingSRGB
)

// Format is an image file format.
type Format int

// Supported output formats.
const (
	// FormatPNG writes 8-bit RGBA PNG.
	FormatPNG Format = iota
	// FormatTIFF writes Deflate-compressed TIFF with a horizontal predictor.
	FormatTIFF
	// FormatBMP writes uncompressed BMP.
	FormatBMP
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Pixmap is an 8-bit RGBA pixel buffer holding a shaded image.
// Pixels are always opaque.
//
// Rows may be written concurrently as long as no two goroutines write the
// same row.
type Pixmap struct {
	width    int
	height   int
	data     []uint8 // RGBA, 4 bytes per pixel
	encoding Encoding
}

// NewPixmap creates a pixmap with the given dimensions and encoding.
func NewPixmap(width, height int, enc Encoding) *Pixmap {
	return &Pixmap{
		width:    width,
		height:   height,
		data:     make([]uint8, width*height*4),
		encoding: enc,
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Encoding returns the channel encoding used by SetPixel.
func (p *Pixmap) Encoding() Encoding {
	return p.encoding
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel quantizes c and stores it. Out-of-bounds writes are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGB) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = icolor.Quantize(c.R, p.encoding)
	p.data[i+1] = icolor.Quantize(c.G, p.encoding)
	p.data[i+2] = icolor.Quantize(c.B, p.encoding)
	p.data[i+3] = 255
}

// NRGBAAt returns the stored pixel. Out-of-bounds reads return
// transparent black.
func (p *Pixmap) NRGBAAt(x, y int) color.NRGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.NRGBA{}
	}
	i := (y*p.width + x) * 4
	return color.NRGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.NRGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}

// ToImage copies the pixmap into an image.NRGBA.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// Encode writes the pixmap to w in the given format.
func (p *Pixmap) Encode(w io.Writer, f Format) error {
	img := p.ToImage()
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("depthgrad: encode %v: %w", f, err)
	}
	return nil
}

// Save writes the pixmap to path, choosing the format from the extension.
func (p *Pixmap) Save(path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("depthgrad: create file: %w", err)
	}
	if err := p.Encode(file, f); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
