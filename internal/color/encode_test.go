package color

import (
	"math"
	"testing"
)

func TestEncodingString(t *testing.T) {
	tests := []struct {
		enc  Encoding
		want string
	}{
		{EncodingLinear, "linear"},
		{EncodingSRGB, "srgb"},
		{Encoding(9), "Encoding(9)"},
	}
	for _, tt := range tests {
		if got := tt.enc.String(); got != tt.want {
			t.Errorf("Encoding(%d).String() = %q, want %q", uint8(tt.enc), got, tt.want)
		}
	}
}

func TestQuantizeEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		enc  Encoding
		want uint8
	}{
		{"linear black", 0, EncodingLinear, 0},
		{"linear white", 1, EncodingLinear, 255},
		{"linear half", 0.5, EncodingLinear, 128},
		{"linear negative", -0.3, EncodingLinear, 0},
		{"linear over", 1.7, EncodingLinear, 255},
		{"linear NaN", math.NaN(), EncodingLinear, 0},
		{"srgb black", 0, EncodingSRGB, 0},
		{"srgb white", 1, EncodingSRGB, 255},
		{"srgb half", 0.5, EncodingSRGB, 188},
		{"srgb NaN", math.NaN(), EncodingSRGB, 0},
		{"srgb +Inf", math.Inf(1), EncodingSRGB, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quantize(tt.v, tt.enc); got != tt.want {
				t.Errorf("Quantize(%v, %v) = %d, want %d", tt.v, tt.enc, got, tt.want)
			}
		})
	}
}

// TestSRGBTableAccuracy checks the lookup table against the exact curve.
func TestSRGBTableAccuracy(t *testing.T) {
	maxErr := 0
	for i := 0; i <= 1000; i++ {
		l := float64(i) / 1000
		fast := int(Quantize(l, EncodingSRGB))
		slow := int(toByte(LinearToSRGB(l)))
		d := fast - slow
		if d < 0 {
			d = -d
		}
		if d > maxErr {
			maxErr = d
		}
	}
	// 12-bit table: at most one step of rounding error.
	if maxErr > 1 {
		t.Errorf("max LUT error = %d, want <= 1", maxErr)
	}
}

func TestSRGBMonotonic(t *testing.T) {
	prev := uint8(0)
	for i := 0; i <= 4095; i++ {
		got := Quantize(float64(i)/4095, EncodingSRGB)
		if got < prev {
			t.Fatalf("Quantize not monotonic at %d: %d < %d", i, got, prev)
		}
		prev = got
	}
}

func BenchmarkQuantize(b *testing.B) {
	for _, enc := range []Encoding{EncodingLinear, EncodingSRGB} {
		b.Run(enc.String(), func(b *testing.B) {
			var sink uint8
			for i := 0; i < b.N; i++ {
				sink += Quantize(float64(i&1023)/1023, enc)
			}
			_ = sink
		})
	}
}
