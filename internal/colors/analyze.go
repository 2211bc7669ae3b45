package colors

import (
	"image"
	"math"

	"artwork-helper/internal/logging"
)

// Analysis is the color metadata attached to every processed artwork.
type Analysis struct {
	Color      string
	Contrast   string
	Luminosity float64
}

// LuminosityInt scales the luminosity to the stored [0,1000] integer form.
func (a Analysis) LuminosityInt() int {
	return int(math.Round(a.Luminosity * 1000))
}

// DominantColor returns the most frequent palette color among the opaque
// pixels of img. It returns black when nothing opaque survives and never
// panics.
func DominantColor(img image.Image) (c RGB) {
	defer func() {
		if r := recover(); r != nil {
			logging.Debug("dominant color extraction failed: %v", r)
			c = RGB{}
		}
	}()

	if img == nil {
		return RGB{}
	}
	palette := Palette(img)
	if len(palette) == 0 {
		return RGB{}
	}
	return palette[0].Color
}

// Analyze extracts the dominant color of img and derives its luminosity and
// contrast color.
func Analyze(img image.Image, shift float64) Analysis {
	dominant := DominantColor(img)
	return Analysis{
		Color:      ToHex(dominant),
		Contrast:   ToHex(ContrastingColor(dominant, shift)),
		Luminosity: Luminosity(dominant),
	}
}
