// Package palette extracts dominant colours from artwork and expands them
// into the 26-slot semantic palette used by the UI theme and the renderers.
package palette

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Brighten scales each channel by (1 + pct/100), clamped to [0,255].
// Negative pct darkens.
func Brighten(c color.RGBA, pct float64) color.RGBA {
	scale := 1 + pct/100
	ch := func(v uint8) uint8 {
		return uint8(clamp(math.Round(float64(v)*scale), 0, 255))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: 0xff}
}

// Saturate adds pct/100 to the HSL saturation of c, clamped to [0,1].
func Saturate(c color.RGBA, pct float64) color.RGBA {
	h, s, l := toColorful(c).Hsl()
	s = clamp(s+pct/100, 0, 1)
	return fromColorful(colorful.Hsl(h, s, l))
}

// Complement inverts each channel. This is an RGB inversion, not a hue rotation.
func Complement(c color.RGBA) color.RGBA {
	return color.RGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: 0xff}
}

// Luminance returns the relative luminance of c in [0,1].
func Luminance(c color.RGBA) float64 {
	r, g, b := toColorful(c).LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastThreshold is the mean luminance above which text turns dark.
const ContrastThreshold = 0.4

// Text colours chosen by ContrastText.
var (
	DarkTextPrimary    = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	DarkTextSecondary  = color.RGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff}
	LightTextPrimary   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	LightTextSecondary = color.RGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
)

// ContrastText picks near-black text for bright backgrounds and near-white
// text otherwise.
func ContrastText(meanLuminance float64) (primary, secondary color.RGBA) {
	if meanLuminance > ContrastThreshold {
		return DarkTextPrimary, DarkTextSecondary
	}
	return LightTextPrimary, LightTextSecondary
}

// MeanLuminance averages Luminance over cs. An empty slice yields 0.
func MeanLuminance(cs ...color.RGBA) float64 {
	if len(cs) == 0 {
		return 0
	}
	var sum float64
	for _, c := range cs {
		sum += Luminance(c)
	}
	return sum / float64(len(cs))
}

// Mix blends a toward b by t in [0,1] in RGB space.
func Mix(a, b color.RGBA, t float64) color.RGBA {
	return fromColorful(toColorful(a).BlendRgb(toColorful(b), clamp(t, 0, 1)))
}

// WithAlpha returns c with alpha a in [0,1]. The result is non-premultiplied
// and intended for color.NRGBA consumers.
func WithAlpha(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp(math.Round(a*255), 0, 255))}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
