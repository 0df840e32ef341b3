package depthgrad

import (
	"errors"
	"fmt"
	"math"
)

// Validation errors.
var (
	// ErrOutOfRange is returned when a parameter lies outside its domain.
	ErrOutOfRange = errors.New("depthgrad: parameter out of range")

	// ErrNaN is returned when a parameter is NaN.
	ErrNaN = errors.New("depthgrad: parameter is NaN")
)

// DefaultHalfWidth is the width of each transition band when the focal
// plateau has zero width (FocalStart == FocalEnd).
const DefaultHalfWidth = 2.0

// GradientConfig holds the user-configurable parameters of the depth
// gradient. It is a plain value: build it once, then share it freely
// between goroutines.
//
// Distances are camera-space depths. The near color is used in front of
// the rising transition band, the focal color on the focal plateau
// [FocalStart, FocalEnd], and the far color behind the falling band.
//
// Far is part of the configuration surface but does not move any zone
// boundary; the falling band is sized from the focal plateau alone.
type GradientConfig struct {
	Near       float64
	FocalStart float64
	FocalEnd   float64
	Far        float64

	NearColor  RGB
	FocalColor RGB
	FarColor   RGB

	// Gamma is the roll-off bias applied to the blend fraction.
	Gamma float64
}

// DefaultConfig returns the default parameters: green in front, blue on
// the focal plateau between 40 and 50 units, red behind, linear roll-off.
func DefaultConfig() GradientConfig {
	return GradientConfig{
		Near:       20,
		FocalStart: 40,
		FocalEnd:   50,
		Far:        100,
		NearColor:  Green,
		FocalColor: Blue,
		FarColor:   Red,
		Gamma:      1,
	}
}

// Zones holds the depth boundaries derived from a configuration.
type Zones struct {
	Gradient1Begin float64 // start of the rising band
	FocalStart     float64
	FocalEnd       float64
	Gradient2End   float64 // end of the falling band

	// Divisors that map depth within each band to [0, 1].
	RisingWidth  float64
	FallingWidth float64
}

// Zones derives the transition bands. Each band is half as wide as the
// focal plateau, or DefaultHalfWidth when the plateau has zero width.
// An inverted plateau (FocalEnd < FocalStart) yields inverted bands.
func (c GradientConfig) Zones() Zones {
	field := c.FocalEnd - c.FocalStart
	if field == 0 {
		return Zones{
			Gradient1Begin: c.FocalStart - DefaultHalfWidth,
			FocalStart:     c.FocalStart,
			FocalEnd:       c.FocalEnd,
			Gradient2End:   c.FocalEnd + DefaultHalfWidth,
			RisingWidth:    DefaultHalfWidth,
			FallingWidth:   DefaultHalfWidth,
		}
	}

	g1 := c.FocalStart - 0.5*field
	g2 := c.FocalEnd + 0.5*field
	return Zones{
		Gradient1Begin: g1,
		FocalStart:     c.FocalStart,
		FocalEnd:       c.FocalEnd,
		Gradient2End:   g2,
		RisingWidth:    c.FocalStart - g1,
		FallingWidth:   g2 - c.FocalEnd,
	}
}

// hasNaN reports whether any scalar that drives evaluation is NaN.
func (c GradientConfig) hasNaN() bool {
	return math.IsNaN(c.FocalStart) || math.IsNaN(c.FocalEnd) || math.IsNaN(c.Gamma)
}

// Validate checks every parameter against its domain and reports all
// violations at once. Evaluation never calls Validate: out-of-range
// configurations still evaluate to a defined color.
//
// Colors are expected in [0, 1]. FocalEnd < FocalStart is reported as
// out of range since it inverts the gradient.
func (c GradientConfig) Validate() error {
	var errs []error
	for _, p := range params {
		switch p.Kind {
		case KindScalar:
			v := *c.scalar(p.Name)
			switch {
			case math.IsNaN(v):
				errs = append(errs, fmt.Errorf("%s: %w", p.Name, ErrNaN))
			case v < p.Min || v > p.Max:
				errs = append(errs, fmt.Errorf("%s = %g not in [%g, %g]: %w",
					p.Name, v, p.Min, p.Max, ErrOutOfRange))
			}
		case KindColor:
			col := *c.color(p.Name)
			switch {
			case col.HasNaN():
				errs = append(errs, fmt.Errorf("%s: %w", p.Name, ErrNaN))
			case !unitRange(col.R) || !unitRange(col.G) || !unitRange(col.B):
				errs = append(errs, fmt.Errorf("%s = %v not in [0, 1]: %w",
					p.Name, col, ErrOutOfRange))
			}
		}
	}
	if c.FocalEnd < c.FocalStart {
		errs = append(errs, fmt.Errorf("%s = %g is before %s = %g: %w",
			ParamFocalEnd, c.FocalEnd, ParamFocalStart, c.FocalStart, ErrOutOfRange))
	}
	return errors.Join(errs...)
}

// Clamped returns a copy with every scalar clamped to its domain, the way
// a host attribute with a minimum and maximum would store it. Colors and
// NaN values are left untouched.
func (c GradientConfig) Clamped() GradientConfig {
	out := c
	for _, p := range params {
		if p.Kind != KindScalar {
			continue
		}
		v := out.scalar(p.Name)
		*v = clampRange(*v, p.Min, p.Max)
	}
	return out
}

func unitRange(x float64) bool {
	return x >= 0 && x <= 1
}

func clampRange(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
