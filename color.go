package mapstyle

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned by ParseColor for strings it cannot read.
var ErrInvalidColor = errors.New("invalid color")

// Color is a non-premultiplied RGBA color. Each component is in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}.RGBA()
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Lerp performs linear interpolation between two colors.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// String formats the color as a CSS rgba() value.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)",
		int(math.Round(clamp255(c.R*255))),
		int(math.Round(clamp255(c.G*255))),
		int(math.Round(clamp255(c.B*255))),
		strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Common colors
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(1, 1, 1)
	Transparent = Color{}
)

var namedColors = map[string]Color{
	"black":       Black,
	"white":       White,
	"red":         RGB(1, 0, 0),
	"green":       RGB(0, 128.0/255, 0),
	"lime":        RGB(0, 1, 0),
	"blue":        RGB(0, 0, 1),
	"yellow":      RGB(1, 1, 0),
	"cyan":        RGB(0, 1, 1),
	"magenta":     RGB(1, 0, 1),
	"gray":        RGB(128.0/255, 128.0/255, 128.0/255),
	"orange":      RGB(1, 165.0/255, 0),
	"transparent": Transparent,
}

// ParseColor parses a CSS color string: #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb(), rgba(), hsl(), hsla(), or one of a small set of color names.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	name, args, ok := splitFunc(s)
	if !ok {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	switch name {
	case "rgb", "rgba":
		return parseRGBFunc(s, args)
	case "hsl", "hsla":
		return parseHSLFunc(s, args)
	}
	return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHexColor(hex string) (Color, error) {
	var r, g, b uint32
	a := uint32(255)
	ok := true

	switch len(hex) {
	case 3, 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
		if len(hex) == 4 {
			ok = ok && parseHex(hex[3:4], &a)
			a *= 17
		}
	case 6, 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
		if len(hex) == 8 {
			ok = ok && parseHex(hex[6:8], &a)
		}
	default:
		ok = false
	}
	if !ok {
		return Color{}, fmt.Errorf("%w: #%s", ErrInvalidColor, hex)
	}

	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

// parseHex reads hexadecimal digits into val. It reports false on any
// non-hex character.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		default:
			return false
		}
	}
	return true
}

func splitFunc(s string) (name string, args []string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	name = s[:open]
	for _, a := range strings.Split(s[open+1:len(s)-1], ",") {
		args = append(args, strings.TrimSpace(a))
	}
	return name, args, true
}

func parseRGBFunc(s string, args []string) (Color, error) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	var ch [3]float64
	for i := range 3 {
		v, err := parseComponent(args[i], 255)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		ch[i] = v
	}
	a := 1.0
	if len(args) == 4 {
		v, err := parseComponent(args[3], 1)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		a = v
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}

func parseHSLFunc(s string, args []string) (Color, error) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	sat, err1 := parseComponent(args[1], 100)
	light, err2 := parseComponent(args[2], 100)
	if err1 != nil || err2 != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c := hsl(h, sat, light)
	if len(args) == 4 {
		a, err := parseComponent(args[3], 1)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		c.A = a
	}
	return c, nil
}

// parseComponent reads a number or percentage and normalizes it to [0, 1]
// by dividing plain numbers by scale.
func parseComponent(s string, scale float64) (float64, error) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, err
		}
		return clamp01(v / 100), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return clamp01(v / scale), nil
}

// hsl converts hue [0, 360), saturation and lightness [0, 1] to RGB.
func hsl(h, s, l float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 1.0/6:
		r, g, b = c, x, 0
	case h < 2.0/6:
		r, g, b = x, c, 0
	case h < 3.0/6:
		r, g, b = 0, c, x
	case h < 4.0/6:
		r, g, b = 0, x, c
	case h < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGB(r+m, g+m, b+m)
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	return math.Max(0, math.Min(255, x))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
