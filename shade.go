package depthgrad

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gogpu/depthgrad/internal/parallel"
)

// ShadeOption configures a shading pass.
//
// Example:
//
//	pm, err := depthgrad.Shade(ctx, buf, cfg,
//	    depthgrad.WithWorkers(4),
//	    depthgrad.WithEncoding(depthgrad.EncodingSRGB))
type ShadeOption func(*shadeOptions)

type shadeOptions struct {
	workers  int
	encoding Encoding
	legacy   bool
}

func defaultShadeOptions() shadeOptions {
	return shadeOptions{
		workers:  0, // GOMAXPROCS
		encoding: EncodingLinear,
	}
}

// WithWorkers sets the number of shading goroutines.
// Zero or negative uses GOMAXPROCS.
func WithWorkers(n int) ShadeOption {
	return func(o *shadeOptions) {
		o.workers = n
	}
}

// WithEncoding sets the output channel encoding.
func WithEncoding(enc Encoding) ShadeOption {
	return func(o *shadeOptions) {
		o.encoding = enc
	}
}

// WithLegacy shades with EvaluateLegacy instead of Evaluate.
func WithLegacy() ShadeOption {
	return func(o *shadeOptions) {
		o.legacy = true
	}
}

// Shade evaluates the gradient for every sample in buf and returns the
// shaded image. Rows are split into bands and shaded on a worker pool;
// all workers share cfg read-only.
//
// If ctx is cancelled, bands that have not started are skipped and
// ctx.Err() is returned with a nil pixmap. A nil buf returns
// ErrInvalidDimensions.
func Shade(ctx context.Context, buf *DepthBuffer, cfg GradientConfig, opts ...ShadeOption) (*Pixmap, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil depth buffer", ErrInvalidDimensions)
	}

	o := defaultShadeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool := parallel.NewWorkerPool(o.workers)
	defer pool.Close()

	log := Logger()
	start := time.Now()
	log.Debug("depthgrad: shade start",
		slog.Int("width", buf.width),
		slog.Int("height", buf.height),
		slog.Int("workers", pool.Workers()),
		slog.String("encoding", o.encoding.String()),
		slog.Bool("legacy", o.legacy))

	pm := NewPixmap(buf.width, buf.height, o.encoding)
	eval := NewEvaluator(cfg)
	var fallbacks atomic.Int64

	bands := parallel.Bands(buf.height, parallel.RowsPerBand(buf.height, pool.Workers()))
	work := make([]func(), len(bands))
	for i, band := range bands {
		work[i] = func() {
			n := shadeBand(pm, buf, band, eval, o.legacy)
			if n > 0 {
				fallbacks.Add(int64(n))
			}
		}
	}

	if err := pool.ExecuteAll(ctx, work); err != nil {
		log.Debug("depthgrad: shade aborted", slog.Any("err", err))
		return nil, err
	}

	if n := fallbacks.Load(); n > 0 {
		log.Warn("depthgrad: samples fell back to fallback color", slog.Int64("count", n))
	}
	log.Debug("depthgrad: shade done",
		slog.Int("bands", len(bands)),
		slog.Duration("elapsed", time.Since(start)))
	return pm, nil
}

// shadeBand shades rows [band.Y0, band.Y1) and returns how many samples
// fell back to FallbackColor.
func shadeBand(pm *Pixmap, buf *DepthBuffer, band parallel.Band, eval Evaluator, legacy bool) int {
	invalid := 0
	cfg := eval.Config()
	for y := band.Y0; y < band.Y1; y++ {
		for x, d := range buf.Row(y) {
			var (
				c  RGB
				ok bool
			)
			if legacy {
				r := evaluateLegacy(d, cfg)
				c, ok = r.color, r.zone != ZoneInvalid
			} else {
				c, ok = eval.shade(d)
			}
			if !ok {
				invalid++
			}
			pm.SetPixel(x, y, c)
		}
	}
	return invalid
}
