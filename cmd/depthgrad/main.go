// Command depthgrad shades a depth pass with a depth gradient.
//
// The depth comes either from a grayscale image (-in) or from a synthetic
// scene: a horizontal ramp or a ground plane seen from a pinhole camera.
// Every gradient parameter is a flag, by long or short name:
//
//	depthgrad -fod1 40 -fod2 50 -nc '#00ff00' -scene plane -out focus.png
//	depthgrad -probe 10,37.5,60
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/depthgrad"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("depthgrad: ")
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// paramValue exposes one gradient parameter as a flag.Value.
type paramValue struct {
	cfg  *depthgrad.GradientConfig
	name string
}

func (v paramValue) String() string {
	if v.cfg == nil {
		return ""
	}
	s, _ := v.cfg.Get(v.name)
	return s
}

func (v paramValue) Set(s string) error {
	return v.cfg.Set(v.name, s)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg := depthgrad.DefaultConfig()

	fs := flag.NewFlagSet("depthgrad", flag.ContinueOnError)
	var (
		width      = fs.Int("width", 640, "image width (synthetic scenes)")
		height     = fs.Int("height", 480, "image height (synthetic scenes)")
		in         = fs.String("in", "", "grayscale depth pass to shade (png or tiff)")
		depthScale = fs.Float64("depth-scale", 1000, "depth stored as full white in -in")
		scene      = fs.String("scene", "ramp", "synthetic scene: ramp or plane")
		rampFrom   = fs.Float64("ramp-from", 0, "ramp depth at the left edge")
		rampTo     = fs.Float64("ramp-to", 120, "ramp depth at the right edge")
		planeBelow = fs.Float64("plane-below", 25, "distance of the ground plane below the camera")
		fov        = fs.Float64("fov", 60, "vertical field of view in degrees")
		workers    = fs.Int("workers", 0, "shading goroutines (0 = GOMAXPROCS)")
		srgb       = fs.Bool("srgb", false, "encode output with the sRGB transfer curve")
		legacy     = fs.Bool("legacy", false, "reproduce the legacy last-match-wins zone order")
		strict     = fs.Bool("strict", false, "reject parameters outside their ranges")
		clamp      = fs.Bool("clamp", false, "clamp parameters to their ranges")
		output     = fs.String("out", "depth.png", "output file (.png, .tif, .bmp)")
		probe      = fs.String("probe", "", "comma-separated depths to print instead of rendering")
		listParams = fs.Bool("params", false, "list gradient parameters and exit")
		verbose    = fs.Bool("v", false, "debug logging")
	)
	for _, p := range depthgrad.Params() {
		usage := paramUsage(p)
		fs.Var(paramValue{cfg: &cfg, name: p.Name}, p.Name, usage)
		fs.Var(paramValue{cfg: &cfg, name: p.Name}, p.Short, "short for -"+p.Name)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		depthgrad.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if *listParams {
		return printParams(stdout)
	}

	if *clamp {
		cfg = cfg.Clamped()
	}
	if *strict {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if *probe != "" {
		return printProbe(stdout, cfg, *probe, *legacy)
	}

	var buf *depthgrad.DepthBuffer
	var err error
	if *in != "" {
		buf, err = loadDepth(*in, *depthScale)
	} else {
		buf, err = syntheticDepth(*scene, *width, *height, *rampFrom, *rampTo, *planeBelow, *fov)
	}
	if err != nil {
		return err
	}

	opts := []depthgrad.ShadeOption{depthgrad.WithWorkers(*workers)}
	if *srgb {
		opts = append(opts, depthgrad.WithEncoding(depthgrad.EncodingSRGB))
	}
	if *legacy {
		opts = append(opts, depthgrad.WithLegacy())
	}

	start := time.Now()
	pm, err := depthgrad.Shade(ctx, buf, cfg, opts...)
	if err != nil {
		return err
	}
	if err := pm.Save(*output); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	_, err = p.Fprintf(stdout, "shaded %d samples in %v -> %s\n",
		buf.Width()*buf.Height(), time.Since(start).Round(time.Millisecond), *output)
	return err
}

func paramUsage(p depthgrad.Param) string {
	if p.Kind == depthgrad.KindColor {
		return fmt.Sprintf("%s as #rrggbb or r,g,b", p.Name)
	}
	return fmt.Sprintf("%s in [%g, %g]", p.Name, p.Min, p.Max)
}

func printParams(w io.Writer) error {
	for _, p := range depthgrad.Params() {
		var err error
		if p.Kind == depthgrad.KindColor {
			_, err = fmt.Fprintf(w, "%-15s %-5s %-6s default %s\n", p.Name, p.Short, p.Kind, p.DefaultColor.Hex())
		} else {
			_, err = fmt.Fprintf(w, "%-15s %-5s %-6s default %g, range [%g, %g]\n",
				p.Name, p.Short, p.Kind, p.Default, p.Min, p.Max)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s depends on: %s\n", depthgrad.OutputColor, strings.Join(depthgrad.Affects(), ", "))
	return err
}

func printProbe(w io.Writer, cfg depthgrad.GradientConfig, list string, legacy bool) error {
	eval := depthgrad.NewEvaluator(cfg)
	for _, s := range strings.Split(list, ",") {
		d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("probe depth %q: %w", s, err)
		}
		zone, p, c := eval.Zone(d), eval.Proportion(d), eval.At(d)
		if legacy {
			zone, p, c = depthgrad.ZoneLegacy(d, cfg), depthgrad.ProportionLegacy(d, cfg), depthgrad.EvaluateLegacy(d, cfg)
		}
		if _, err := fmt.Fprintf(w, "%g\t%s\t%.4f\t%s\t%v\n", d, zone, p, c.Hex(), c); err != nil {
			return err
		}
	}
	return nil
}

func loadDepth(path string, scale float64) (*depthgrad.DepthBuffer, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf, err := depthgrad.DecodeDepth(f, scale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if lo, hi, ok := buf.Range(); ok {
		depthgrad.Logger().Debug("depth pass loaded",
			slog.String("path", path), slog.Float64("min", lo), slog.Float64("max", hi))
	}
	return buf, nil
}

func syntheticDepth(scene string, width, height int, from, to, planeBelow, fovDeg float64) (*depthgrad.DepthBuffer, error) {
	buf, err := depthgrad.NewDepthBuffer(width, height)
	if err != nil {
		return nil, err
	}
	switch scene {
	case "ramp":
		buf.FillRamp(from, to)
	case "plane":
		if err := buf.FillPlane(planeBelow, fovDeg*math.Pi/180); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown scene %q (want ramp or plane)", scene)
	}
	return buf, nil
}
