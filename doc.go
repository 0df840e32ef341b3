// Package depthgrad maps camera-space depth to color for depth-of-field
// previews.
//
// # Overview
//
// A depth gradient blends three colors across five depth zones: a near
// color in front, a focal color on the in-focus plateau and a far color
// behind it, with two transition bands in between. The bands are half as
// wide as the plateau (or [DefaultHalfWidth] when the plateau has zero
// width), and the blend fraction inside each band is shaped by a gamma
// roll-off.
//
//	depth:   near | rising band | focal plateau | falling band | far
//	color:   near →→→→→→→→→→→ focal ============ focal →→→→→→→→→→ far
//
// # Quick Start
//
//	cfg := depthgrad.DefaultConfig()
//	cfg.FocalStart, cfg.FocalEnd = 40, 50
//
//	c := depthgrad.Evaluate(37.5, cfg) // halfway from near to focal color
//
// For many samples with one configuration, build an [Evaluator] once:
//
//	eval := depthgrad.NewEvaluator(cfg)
//	for _, d := range depths {
//	    out = append(out, eval.At(d))
//	}
//
// # Determinism and Concurrency
//
// [Evaluate] is a pure function of (depth, configuration). It never
// allocates, blocks, logs or fails; degenerate inputs such as NaN map to
// [FallbackColor]. [GradientConfig] and [Evaluator] are plain values and
// may be shared across any number of goroutines without locking. A host
// decides when to re-evaluate from [Affects].
//
// # Configuration Surface
//
// [Params] lists the user-editable parameters with their names, slider
// bounds and defaults. [GradientConfig.Validate] reports values outside
// those bounds, but evaluation never rejects them.
//
// # Shading Buffers
//
// [Shade] evaluates a whole [DepthBuffer] in parallel and returns a
// [Pixmap] that can be written as PNG, TIFF or BMP.
package depthgrad
