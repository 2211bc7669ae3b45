package colors

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultShift is the lightness offset used for contrast colors.
const DefaultShift = 0.4

// BT.709 luma coefficients.
const (
	weightRed   = 0.2126
	weightGreen = 0.7152
	weightBlue  = 0.0722
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Luminosity returns the relative luminance of c in [0,1].
func Luminosity(c RGB) float64 {
	r, g, b := c.colorful().LinearRgb()
	lum := weightRed*r + weightGreen*g + weightBlue*b
	return math.Max(0, math.Min(1, lum))
}

// ContrastingColor moves the HLS lightness of c by shift: up for dark
// colors, down for light ones, clamped to [0,1].
func ContrastingColor(c RGB, shift float64) RGB {
	h, s, l := c.colorful().Hsl()
	if l < 0.5 {
		l = math.Min(1, l+shift)
	} else {
		l = math.Max(0, l-shift)
	}
	return fromColorful(colorful.Hsl(h, s, l))
}

// Lightness returns the HLS lightness of c.
func Lightness(c RGB) float64 {
	_, _, l := c.colorful().Hsl()
	return l
}

// ToHex encodes c as "ff" followed by lowercase rrggbb.
func ToHex(c RGB) string {
	return "ff" + strings.TrimPrefix(c.colorful().Hex(), "#")
}

// FromHex decodes an ARGB ("ffrrggbb") or RGB ("rrggbb") string, with or
// without a leading '#'. Any alpha component is ignored.
func FromHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 8:
		s = s[2:]
	case 6:
	default:
		return RGB{}, fmt.Errorf("invalid color %q: want 6 or 8 hex digits", s)
	}

	c, err := colorful.Hex("#" + strings.ToLower(s))
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return fromColorful(c), nil
}
