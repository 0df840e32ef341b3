package depthgrad

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"golang.org/x/image/tiff"
)

func TestNewDepthBuffer(t *testing.T) {
	for _, dims := range [][2]int{{0, 4}, {4, 0}, {-1, -1}} {
		if _, err := NewDepthBuffer(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewDepthBuffer(%d, %d) error = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}

	b, err := NewDepthBuffer(3, 2)
	if err != nil {
		t.Fatalf("NewDepthBuffer() error = %v", err)
	}
	b.Set(2, 1, 7.5)
	b.Set(9, 9, 1) // ignored
	if got := b.At(2, 1); got != 7.5 {
		t.Errorf("At(2, 1) = %v, want 7.5", got)
	}
	if got := b.At(-1, 0); !math.IsInf(got, 1) {
		t.Errorf("At(-1, 0) = %v, want +Inf", got)
	}
	if row := b.Row(1); len(row) != 3 || row[2] != 7.5 {
		t.Errorf("Row(1) = %v", row)
	}
}

func TestDepthBuffer_FillRamp(t *testing.T) {
	b, _ := NewDepthBuffer(5, 2)
	b.FillRamp(0, 100)
	want := []float64{0, 25, 50, 75, 100}
	for y := 0; y < 2; y++ {
		for x, w := range want {
			if got := b.At(x, y); got != w {
				t.Errorf("At(%d, %d) = %v, want %v", x, y, got, w)
			}
		}
	}

	one, _ := NewDepthBuffer(1, 1)
	one.FillRamp(12, 99)
	if got := one.At(0, 0); got != 12 {
		t.Errorf("single column ramp = %v, want 12", got)
	}

	lo, hi, ok := b.Range()
	if !ok || lo != 0 || hi != 100 {
		t.Errorf("Range() = %v, %v, %v, want 0, 100, true", lo, hi, ok)
	}
}

func TestDepthBuffer_FillPlane(t *testing.T) {
	b, _ := NewDepthBuffer(8, 10)
	if err := b.FillPlane(25, math.Pi/3); err != nil {
		t.Fatalf("FillPlane() error = %v", err)
	}

	// Upper half looks at the sky.
	for y := 0; y < 5; y++ {
		if d := b.At(3, y); !math.IsInf(d, 1) {
			t.Errorf("At(3, %d) = %v, want +Inf above the horizon", y, d)
		}
	}
	// Depth grows toward the horizon.
	for y := 9; y > 5; y-- {
		if b.At(3, y) >= b.At(3, y-1) {
			t.Errorf("depth at row %d (%v) not less than row %d (%v)", y, b.At(3, y), y-1, b.At(3, y-1))
		}
	}
	// Bottom row: ray slope dy = -(1 - 1/10) * tan(30°).
	want := 25 / (0.9 * math.Tan(math.Pi/6))
	if got := b.At(0, 9); math.Abs(got-want) > 1e-9 {
		t.Errorf("At(0, 9) = %v, want %v", got, want)
	}
	// Depth is constant along a row.
	if b.At(0, 9) != b.At(7, 9) {
		t.Errorf("row 9 depth varies: %v vs %v", b.At(0, 9), b.At(7, 9))
	}

	for _, bad := range [][2]float64{{0, 1}, {-5, 1}, {25, 0}, {25, math.Pi}, {math.NaN(), 1}} {
		if err := b.FillPlane(bad[0], bad[1]); !errors.Is(err, ErrInvalidCamera) {
			t.Errorf("FillPlane(%v, %v) = %v, want ErrInvalidCamera", bad[0], bad[1], err)
		}
	}
}

func TestDepthBuffer_RangeEmpty(t *testing.T) {
	b, _ := NewDepthBuffer(2, 1)
	b.Set(0, 0, math.Inf(1))
	b.Set(1, 0, math.NaN())
	if _, _, ok := b.Range(); ok {
		t.Error("Range() ok = true for buffer without finite depth")
	}
}

func TestDecodeDepth(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 3, 1))
	src.SetGray16(0, 0, color.Gray16{Y: 0})
	src.SetGray16(1, 0, color.Gray16{Y: 0x8000})
	src.SetGray16(2, 0, color.Gray16{Y: 0xffff})

	encoders := map[string]func(*bytes.Buffer) error{
		"png":  func(w *bytes.Buffer) error { return png.Encode(w, src) },
		"tiff": func(w *bytes.Buffer) error { return tiff.Encode(w, src, nil) },
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := enc(&buf); err != nil {
				t.Fatal(err)
			}
			b, err := DecodeDepth(&buf, 1000)
			if err != nil {
				t.Fatalf("DecodeDepth() error = %v", err)
			}
			if b.Width() != 3 || b.Height() != 1 {
				t.Fatalf("size = %dx%d, want 3x1", b.Width(), b.Height())
			}
			want := []float64{0, float64(0x8000) / 0xffff * 1000, 1000}
			for x, w := range want {
				if got := b.At(x, 0); got != w {
					t.Errorf("At(%d, 0) = %v, want %v", x, got, w)
				}
			}
		})
	}
}

func TestDecodeDepth_Gray8(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(1, 0, color.Gray{Y: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	b, err := DecodeDepth(&buf, 50)
	if err != nil {
		t.Fatalf("DecodeDepth() error = %v", err)
	}
	if b.At(0, 0) != 0 || b.At(1, 0) != 50 {
		t.Errorf("depths = %v, %v, want 0, 50", b.At(0, 0), b.At(1, 0))
	}
}

func TestDecodeDepth_Invalid(t *testing.T) {
	if _, err := DecodeDepth(bytes.NewReader([]byte("not an image")), 1); err == nil {
		t.Error("DecodeDepth() = nil error for garbage input")
	}
}
