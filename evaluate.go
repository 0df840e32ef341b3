package depthgrad

import (
	"fmt"
	"math"
)

// FallbackColor returns the color used for samples that cannot be
// evaluated: a NaN depth, a NaN in the parameters that place the zones, or
// a blend that produced a NaN channel. It is always black.
func FallbackColor() RGB {
	return RGB{}
}

// Zone identifies which of the five depth regions a sample falls in.
type Zone int

const (
	// ZoneNear lies in front of the rising band. Output is the near color.
	ZoneNear Zone = iota
	// ZoneRising is the band [Gradient1Begin, FocalStart], blending from
	// the near color to the focal color.
	ZoneRising
	// ZoneFocal is the open plateau (FocalStart, FocalEnd). Output is the
	// focal color.
	ZoneFocal
	// ZoneFalling is the band [FocalEnd, Gradient2End], blending from the
	// focal color to the far color.
	ZoneFalling
	// ZoneFar lies behind the falling band. Output is the far color.
	ZoneFar
	// ZoneInvalid marks a sample that cannot be placed in a zone.
	ZoneInvalid
)

// String returns the zone name.
func (z Zone) String() string {
	switch z {
	case ZoneNear:
		return "near"
	case ZoneRising:
		return "rising"
	case ZoneFocal:
		return "focal"
	case ZoneFalling:
		return "falling"
	case ZoneFar:
		return "far"
	case ZoneInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Zone(%d)", int(z))
	}
}

// Evaluator maps depths to colors for one configuration. Zone boundaries
// are derived once in NewEvaluator.
//
// An Evaluator is an immutable value. It is safe for concurrent use and
// its methods never allocate, block or log.
type Evaluator struct {
	cfg     GradientConfig
	zones   Zones
	invalid bool
}

// NewEvaluator prepares an evaluator for cfg.
func NewEvaluator(cfg GradientConfig) Evaluator {
	z := cfg.Zones()
	invalid := cfg.hasNaN() ||
		math.IsNaN(z.Gradient1Begin) || math.IsNaN(z.Gradient2End) ||
		math.IsNaN(z.RisingWidth) || math.IsNaN(z.FallingWidth)
	return Evaluator{cfg: cfg, zones: z, invalid: invalid}
}

// Evaluate returns the color for a sample at the given depth.
// The result depends only on depth and cfg.
//
// Example:
//
//	cfg := depthgrad.DefaultConfig()
//	c := depthgrad.Evaluate(42, cfg) // blue: inside the focal plateau
func Evaluate(depth float64, cfg GradientConfig) RGB {
	return NewEvaluator(cfg).At(depth)
}

// EvaluatePoint returns the color for a camera-space point.
func EvaluatePoint(p CameraPoint, cfg GradientConfig) RGB {
	return NewEvaluator(cfg).At(p.Depth())
}

// Config returns the configuration the evaluator was built from.
func (e Evaluator) Config() GradientConfig {
	return e.cfg
}

// Zones returns the derived zone boundaries.
func (e Evaluator) Zones() Zones {
	return e.zones
}

// Zone classifies depth. Zones are checked in ascending depth order and
// exactly one matches.
func (e Evaluator) Zone(depth float64) Zone {
	if e.invalid || math.IsNaN(depth) {
		return ZoneInvalid
	}
	z := &e.zones
	switch {
	case depth < z.Gradient1Begin:
		return ZoneNear
	case depth <= z.FocalStart:
		return ZoneRising
	case depth < z.FocalEnd:
		return ZoneFocal
	case depth <= z.Gradient2End:
		return ZoneFalling
	default:
		return ZoneFar
	}
}

// Proportion returns the gamma-biased blend fraction for depth, in [0, 1].
// Outside the two bands the raw fraction is 0, so the result is 0^Gamma.
func (e Evaluator) Proportion(depth float64) float64 {
	return e.proportion(e.Zone(depth), depth)
}

func (e Evaluator) proportion(zone Zone, depth float64) float64 {
	p := 0.0
	switch zone {
	case ZoneRising:
		p = ratio(depth-e.zones.Gradient1Begin, e.zones.RisingWidth)
	case ZoneFalling:
		p = ratio(depth-e.zones.FocalEnd, e.zones.FallingWidth)
	}
	return bias(p, e.cfg.Gamma)
}

// At returns the color for a sample at the given depth.
func (e Evaluator) At(depth float64) RGB {
	c, _ := e.shade(depth)
	return c
}

// shade returns the color for depth. ok is false when the sample fell
// back to FallbackColor.
func (e Evaluator) shade(depth float64) (c RGB, ok bool) {
	zone := e.Zone(depth)

	var out RGB
	switch zone {
	case ZoneNear:
		out = e.cfg.NearColor
	case ZoneRising:
		out = e.cfg.NearColor.Lerp(e.cfg.FocalColor, e.proportion(zone, depth))
	case ZoneFocal:
		out = e.cfg.FocalColor
	case ZoneFalling:
		out = e.cfg.FocalColor.Lerp(e.cfg.FarColor, e.proportion(zone, depth))
	case ZoneFar:
		out = e.cfg.FarColor
	default:
		return FallbackColor(), false
	}

	if out.HasNaN() {
		return FallbackColor(), false
	}
	return out, true
}

// AtPoint returns the color for a camera-space point.
func (e Evaluator) AtPoint(p CameraPoint) RGB {
	return e.At(p.Depth())
}

// EvaluateLegacy reproduces the legacy shader's branch order bit for bit:
// both band tests and all five color tests run unconditionally and the
// last match wins. For FocalStart <= FocalEnd it agrees with Evaluate.
// For an inverted plateau the far color overrides the near color across
// the overlapping range, where Evaluate keeps the near color.
//
// Use it only when output must match renders made with the legacy shader.
func EvaluateLegacy(depth float64, cfg GradientConfig) RGB {
	return evaluateLegacy(depth, cfg).color
}

// ZoneLegacy returns the zone whose color test wins under the legacy
// branch order, or ZoneInvalid when EvaluateLegacy falls back.
func ZoneLegacy(depth float64, cfg GradientConfig) Zone {
	return evaluateLegacy(depth, cfg).zone
}

// ProportionLegacy returns the gamma-biased blend fraction computed by
// the legacy branch order. Where the two band tests overlap, the falling
// band wins.
func ProportionLegacy(depth float64, cfg GradientConfig) float64 {
	return evaluateLegacy(depth, cfg).proportion
}

type legacyResult struct {
	color      RGB
	zone       Zone
	proportion float64
}

func evaluateLegacy(depth float64, cfg GradientConfig) legacyResult {
	invalid := legacyResult{color: FallbackColor(), zone: ZoneInvalid, proportion: math.NaN()}
	if math.IsNaN(depth) || cfg.hasNaN() {
		return invalid
	}
	z := cfg.Zones()

	p := 0.0
	if depth >= z.Gradient1Begin && depth <= z.FocalStart {
		p = ratio(depth-z.Gradient1Begin, z.RisingWidth)
	}
	if depth >= z.FocalEnd && depth <= z.Gradient2End {
		p = ratio(depth-z.FocalEnd, z.FallingWidth)
	}
	p = bias(p, cfg.Gamma)

	r := legacyResult{zone: ZoneInvalid, proportion: p}
	if depth < z.Gradient1Begin {
		r.color, r.zone = cfg.NearColor, ZoneNear
	}
	if depth >= z.Gradient1Begin && depth <= z.FocalStart {
		r.color, r.zone = cfg.NearColor.Lerp(cfg.FocalColor, p), ZoneRising
	}
	if depth > z.FocalStart && depth < z.FocalEnd {
		r.color, r.zone = cfg.FocalColor, ZoneFocal
	}
	if depth >= z.FocalEnd && depth <= z.Gradient2End {
		r.color, r.zone = cfg.FocalColor.Lerp(cfg.FarColor, p), ZoneFalling
	}
	if depth > z.Gradient2End {
		r.color, r.zone = cfg.FarColor, ZoneFar
	}

	// No test matched only when a zone boundary is NaN.
	if r.zone == ZoneInvalid || r.color.HasNaN() {
		return invalid
	}
	return r
}

// ratio divides num by a band width. A band that collapsed to zero width
// under rounding counts as fully traversed.
func ratio(num, width float64) float64 {
	if width == 0 {
		return 1
	}
	return num / width
}

// bias clamps p to [0, 1] and applies the gamma roll-off.
// 0^0 is 1, following math.Pow.
func bias(p, gamma float64) float64 {
	return math.Pow(clamp01(p), gamma)
}

// clamp01 clamps a value to [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
