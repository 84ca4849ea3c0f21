package mapstyle

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

// Verify at compile time that Color implements color.Color.
var _ color.Color = Color{}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#000", Black},
		{"#fff", White},
		{"#FF0000", RGB(1, 0, 0)},
		{"#ff000080", Color{R: 1, A: 128.0 / 255}},
		{"#f008", Color{R: 1, A: 136.0 / 255}},
		{"rgb(255, 0, 0)", RGB(1, 0, 0)},
		{"rgba(0, 0, 255, 0.5)", Color{B: 1, A: 0.5}},
		{"rgb(100%, 0%, 0%)", RGB(1, 0, 0)},
		{"hsl(120, 100%, 50%)", RGB(0, 1, 0)},
		{"hsla(240, 100%, 50%, 0.25)", Color{B: 1, A: 0.25}},
		{"  Black ", Black},
		{"transparent", Transparent},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) error: %v", tt.in, err)
			}
			if !colorApprox(got, tt.want) {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#ggg", "rgb(1,2)", "rgb(a,b,c)", "notacolor", "cmyk(0,0,0,0)"} {
		if _, err := ParseColor(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", in, err)
		}
	}
}

func TestColorLerpAndString(t *testing.T) {
	mid := Black.Lerp(White, 0.5)
	if !colorApprox(mid, Color{0.5, 0.5, 0.5, 1}) {
		t.Errorf("Lerp = %+v", mid)
	}
	if got := RGB(1, 0, 0).String(); got != "rgba(255,0,0,1)" {
		t.Errorf("String = %q", got)
	}
	r, _, _, a := RGB(1, 0, 0).RGBA()
	if r != 0xffff || a != 0xffff {
		t.Errorf("RGBA = %d, %d", r, a)
	}
}

func colorApprox(a, b Color) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}
