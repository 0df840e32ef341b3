// Package color quantizes shaded colors to 8-bit output channels.
//
// Shaded colors are produced as float64 channels. An output encoding
// decides how those floats become bytes: either stored as-is
// (EncodingLinear, the classic behavior of writing the shading value
// straight to the image) or passed through the sRGB transfer function
// first (EncodingSRGB), which suits viewers that assume sRGB input.
//
// The sRGB path uses a 12-bit lookup table, replacing a math.Pow call per
// channel with an array index.
package color

import (
	"fmt"
	"math"
)

// Encoding selects how linear channel values are mapped to bytes.
type Encoding uint8

const (
	// EncodingLinear stores channel values directly.
	EncodingLinear Encoding = iota
	// EncodingSRGB applies the sRGB transfer function before quantizing.
	EncodingSRGB
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingLinear:
		return "linear"
	case EncodingSRGB:
		return "srgb"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// lutSize is the number of entries in the linear→sRGB table.
const lutSize = 4096

// srgbLUT maps a 12-bit linear value to an sRGB byte.
var srgbLUT [lutSize]uint8

func init() {
	for i := range srgbLUT {
		srgbLUT[i] = toByte(LinearToSRGB(float64(i) / (lutSize - 1)))
	}
}

// LinearToSRGB applies the sRGB opto-electronic transfer function.
// Input and output are in [0, 1].
func LinearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// Quantize converts one channel to a byte using the given encoding.
// Values are clamped to [0, 1]; NaN becomes 0.
func Quantize(v float64, enc Encoding) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	if enc == EncodingSRGB {
		return srgbLUT[int(v*(lutSize-1)+0.5)]
	}
	return toByte(v)
}

// toByte maps [0, 1] to [0, 255] with rounding.
func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
