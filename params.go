package depthgrad

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownParam is returned when a parameter name is not recognized.
var ErrUnknownParam = errors.New("depthgrad: unknown parameter")

// Parameter names, as surfaced to users and persisted by a host.
const (
	ParamNearDistance = "nearDistance"
	ParamFocalStart   = "focalDistance1"
	ParamFocalEnd     = "focalDistance2"
	ParamFarDistance  = "farDistance"
	ParamNearColor    = "nearColor"
	ParamFocalColor   = "focalColor"
	ParamFarColor     = "farColor"
	ParamGamma        = "gamma"

	// InputPoint is the per-sample camera-space point supplied by the
	// renderer. It is not storable.
	InputPoint = "pointCamera"

	// OutputColor is the computed color.
	OutputColor = "outColor"
)

// ParamKind distinguishes scalar parameters from color parameters.
type ParamKind int

const (
	// KindScalar is a single float parameter with a slider range.
	KindScalar ParamKind = iota
	// KindColor is an RGB parameter edited with a color picker.
	KindColor
)

// String returns the kind name.
func (k ParamKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindColor:
		return "color"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

// Param describes one user-editable parameter of the gradient.
type Param struct {
	Name  string // long name, e.g. "focalDistance1"
	Short string // short name, e.g. "fod1"
	Kind  ParamKind

	// Min, Max and Default apply to scalar parameters.
	Min, Max float64
	Default  float64

	// DefaultColor applies to color parameters.
	DefaultColor RGB

	// Storable parameters are persisted with the scene.
	Storable bool
}

// params is the declaration-ordered parameter table. Defaults here must
// agree with DefaultConfig.
var params = []Param{
	{Name: ParamNearDistance, Short: "nd", Kind: KindScalar, Min: 0, Max: 1000, Default: 20, Storable: true},
	{Name: ParamFocalStart, Short: "fod1", Kind: KindScalar, Min: 1, Max: 1001, Default: 40, Storable: true},
	{Name: ParamFocalEnd, Short: "fod2", Kind: KindScalar, Min: 1, Max: 1001, Default: 50, Storable: true},
	{Name: ParamFarDistance, Short: "fd", Kind: KindScalar, Min: 2, Max: 1002, Default: 100, Storable: true},
	{Name: ParamNearColor, Short: "nc", Kind: KindColor, DefaultColor: Green, Storable: true},
	{Name: ParamFocalColor, Short: "foc", Kind: KindColor, DefaultColor: Blue, Storable: true},
	{Name: ParamFarColor, Short: "fc", Kind: KindColor, DefaultColor: Red, Storable: true},
	{Name: ParamGamma, Short: "g", Kind: KindScalar, Min: 0.1, Max: 5, Default: 1, Storable: true},
}

// Params returns the user-editable parameters in declaration order.
// The returned slice is a copy.
func Params() []Param {
	out := make([]Param, len(params))
	copy(out, params)
	return out
}

// LookupParam finds a parameter by long or short name.
func LookupParam(name string) (Param, bool) {
	for _, p := range params {
		if p.Name == name || p.Short == name {
			return p, true
		}
	}
	return Param{}, false
}

// Affects returns every input the output color depends on: the sample
// point and all user parameters. A host re-evaluates when any of them
// changes; nothing else can change the result.
func Affects() []string {
	out := make([]string, 0, len(params)+1)
	out = append(out, InputPoint)
	for _, p := range params {
		out = append(out, p.Name)
	}
	return out
}

// Set assigns one parameter from text. name may be the long or short
// name. Scalars accept any float; colors accept the forms understood by
// ParseColor. Values are stored as given, without clamping.
func (c *GradientConfig) Set(name, value string) error {
	p, ok := LookupParam(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}

	value = strings.TrimSpace(value)
	switch p.Kind {
	case KindColor:
		col, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("depthgrad: set %s: %w", p.Name, err)
		}
		*c.color(p.Name) = col
	default:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("depthgrad: set %s: %w", p.Name, err)
		}
		*c.scalar(p.Name) = v
	}
	return nil
}

// Get returns one parameter formatted as text, in a form Set accepts.
func (c *GradientConfig) Get(name string) (string, error) {
	p, ok := LookupParam(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if p.Kind == KindColor {
		col := *c.color(p.Name)
		return fmt.Sprintf("%g,%g,%g", col.R, col.G, col.B), nil
	}
	return strconv.FormatFloat(*c.scalar(p.Name), 'g', -1, 64), nil
}

// scalar returns a pointer to the named scalar field, or nil.
func (c *GradientConfig) scalar(name string) *float64 {
	switch name {
	case ParamNearDistance:
		return &c.Near
	case ParamFocalStart:
		return &c.FocalStart
	case ParamFocalEnd:
		return &c.FocalEnd
	case ParamFarDistance:
		return &c.Far
	case ParamGamma:
		return &c.Gamma
	}
	return nil
}

// color returns a pointer to the named color field, or nil.
func (c *GradientConfig) color(name string) *RGB {
	switch name {
	case ParamNearColor:
		return &c.NearColor
	case ParamFocalColor:
		return &c.FocalColor
	case ParamFarColor:
		return &c.FarColor
	}
	return nil
}
