package depthgrad

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	icolor "github.com/gogpu/depthgrad/internal/color"
)

// ErrInvalidColor is returned when a color string cannot be parsed.
var ErrInvalidColor = errors.New("depthgrad: invalid color")

// RGB represents an opaque color with red, green and blue components.
// Components are conceptually in [0, 1] but are not clamped; clamping
// happens only when a color is quantized for output.
type RGB struct {
	R, G, B float64
}

// Common colors.
var (
	Black = RGB{0, 0, 0}
	White = RGB{1, 1, 1}
	Red   = RGB{1, 0, 0}
	Green = RGB{0, 1, 0}
	Blue  = RGB{0, 0, 1}
)

// RGBA implements the color.Color interface. The color is always opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA quantizes the color to 8 bits per channel.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: icolor.Quantize(c.R, icolor.EncodingLinear),
		G: icolor.Quantize(c.G, icolor.EncodingLinear),
		B: icolor.Quantize(c.B, icolor.EncodingLinear),
		A: 255,
	}
}

// Lerp performs linear interpolation between c and other.
// Each channel is blended independently with the same factor t.
func (c RGB) Lerp(other RGB, t float64) RGB {
	return RGB{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
	}
}

// HasNaN reports whether any channel is NaN.
func (c RGB) HasNaN() bool {
	return math.IsNaN(c.R) || math.IsNaN(c.G) || math.IsNaN(c.B)
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// String returns the color as a float triple.
func (c RGB) String() string {
	return fmt.Sprintf("(%g, %g, %g)", c.R, c.G, c.B)
}

// FromColor converts a standard color.Color to RGB, dropping alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}
}

// ParseColor parses a color from text.
// Supported forms: "#rgb", "#rrggbb" (the leading '#' is optional) and a
// float triple "r,g,b" with components in [0, 1], as a shading node's
// color attribute would be typed in.
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		return parseTriple(s)
	}
	return parseHexColor(s)
}

func parseTriple(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: %q needs three components", ErrInvalidColor, s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q: %w", ErrInvalidColor, s, err)
		}
		v[i] = f
	}
	return RGB{R: v[0], G: v[1], B: v[2]}, nil
}

func parseHexColor(s string) (RGB, error) {
	hex := strings.TrimPrefix(s, "#")

	var r, g, b uint64
	var err error
	switch len(hex) {
	case 3:
		r, g, b, err = parseHexDigits(hex[0:1], hex[1:2], hex[2:3])
		r, g, b = r*17, g*17, b*17
	case 6:
		r, g, b, err = parseHexDigits(hex[0:2], hex[2:4], hex[4:6])
	default:
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return RGB{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}, nil
}

func parseHexDigits(rs, gs, bs string) (r, g, b uint64, err error) {
	if r, err = strconv.ParseUint(rs, 16, 8); err != nil {
		return
	}
	if g, err = strconv.ParseUint(gs, 16, 8); err != nil {
		return
	}
	b, err = strconv.ParseUint(bs, 16, 8)
	return
}
