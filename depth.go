package depthgrad

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // register PNG for DecodeDepth
	"io"
	"math"

	_ "golang.org/x/image/tiff" // register TIFF for DecodeDepth
)

// Depth buffer errors.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("depthgrad: invalid dimensions")

	// ErrInvalidCamera is returned for a camera setup that cannot see the
	// ground plane.
	ErrInvalidCamera = errors.New("depthgrad: invalid camera")
)

// DepthBuffer holds one camera-space depth per pixel, row-major.
// Depth is the non-negative distance along the viewing axis; +Inf marks
// samples where nothing was hit.
type DepthBuffer struct {
	width  int
	height int
	depth  []float64
}

// NewDepthBuffer creates a zero-filled depth buffer.
func NewDepthBuffer(width, height int) (*DepthBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &DepthBuffer{
		width:  width,
		height: height,
		depth:  make([]float64, width*height),
	}, nil
}

// Width returns the width of the buffer.
func (b *DepthBuffer) Width() int { return b.width }

// Height returns the height of the buffer.
func (b *DepthBuffer) Height() int { return b.height }

// At returns the depth at (x, y). Out-of-bounds reads return +Inf.
func (b *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return math.Inf(1)
	}
	return b.depth[y*b.width+x]
}

// Set stores the depth at (x, y). Out-of-bounds writes are ignored.
func (b *DepthBuffer) Set(x, y int, d float64) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.depth[y*b.width+x] = d
}

// Row returns the depths of row y. The slice aliases the buffer.
func (b *DepthBuffer) Row(y int) []float64 {
	return b.depth[y*b.width : (y+1)*b.width]
}

// FillRamp fills every row with a linear ramp from depth `from` at the
// left edge to `to` at the right edge.
func (b *DepthBuffer) FillRamp(from, to float64) {
	den := float64(b.width - 1)
	for x := 0; x < b.width; x++ {
		d := from
		if den > 0 {
			d = from + (to-from)*float64(x)/den
		}
		for y := 0; y < b.height; y++ {
			b.depth[y*b.width+x] = d
		}
	}
}

// FillPlane renders the depth of an infinite ground plane lying
// planeBelow units under a pinhole camera with vertical field of view
// fovY (radians). Rows at or above the horizon get +Inf.
func (b *DepthBuffer) FillPlane(planeBelow, fovY float64) error {
	if !(planeBelow > 0) || !(fovY > 0 && fovY < math.Pi) {
		return fmt.Errorf("%w: plane %g below, fov %g", ErrInvalidCamera, planeBelow, fovY)
	}

	tanHalf := math.Tan(fovY / 2)
	aspect := float64(b.width) / float64(b.height)
	for y := 0; y < b.height; y++ {
		dy := (1 - 2*(float64(y)+0.5)/float64(b.height)) * tanHalf
		row := b.Row(y)
		if dy >= 0 {
			for x := range row {
				row[x] = math.Inf(1)
			}
			continue
		}
		// Ray (dx, dy, -1) meets y = -planeBelow at t = planeBelow / -dy.
		t := planeBelow / -dy
		for x := range row {
			dx := (2*(float64(x)+0.5)/float64(b.width) - 1) * tanHalf * aspect
			row[x] = Pt(t*dx, -planeBelow, -t).Depth()
		}
	}
	return nil
}

// Range returns the smallest and largest finite depth in the buffer.
// ok is false when no depth is finite.
func (b *DepthBuffer) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, d := range b.depth {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		lo = min(lo, d)
		hi = max(hi, d)
		ok = true
	}
	return lo, hi, ok
}

// DecodeDepth reads a grayscale depth pass (PNG or TIFF, 8 or 16 bit).
// Pixel values are normalized to [0, 1] and multiplied by scale, so scale
// is the depth stored as full white. Color images are read by luminance.
func DecodeDepth(r io.Reader, scale float64) (*DepthBuffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("depthgrad: decode depth: %w", err)
	}

	bounds := img.Bounds()
	b, err := NewDepthBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	if g, ok := img.(*image.Gray16); ok {
		for y := 0; y < b.height; y++ {
			row := b.Row(y)
			for x := range row {
				row[x] = float64(g.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y) / 0xffff * scale
			}
		}
		return b, nil
	}

	for y := 0; y < b.height; y++ {
		row := b.Row(y)
		for x := range row {
			v := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			row[x] = float64(v.Y) / 0xffff * scale
		}
	}
	return b, nil
}
