package palette

import (
	"image"
	"image/color"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// MinColors is the fewest extracted colours that still produce a derived palette.
const MinColors = 3

// Synthesize expands extracted colours into the full semantic palette.
// Fewer than MinColors yields Default(). Missing entries among color1..color8
// are taken from the default palette.
//
// Slot table:
//
//	primary=c2  secondary=c4  accent=c6
//	vibrant=sat(c2,+50)  muted=sat(c3,-30)
//	light=bright(c4,+60)  lighter=bright(c6,+80)
//	dark=bright(c1,-40)  darker=bright(c1,-60)
//	background1=bright(c1,-30)  background2=c1  background3=bright(c2,+20)
//	complementary1=comp(c2)  complementary2=comp(c4)
//	border=bright(c2,-20) on light palettes, bright(c2,+20) on dark ones
//	text*=ContrastText(mean luminance of c1..c3)
func Synthesize(raw []color.RGBA) domain.Palette {
	if len(raw) < MinColors {
		return Default()
	}

	var c [8]color.RGBA
	for i := range c {
		if i < len(raw) {
			c[i] = opaque(raw[i])
		} else {
			c[i] = defaultPalette.Colors[i]
		}
	}

	avg := MeanLuminance(c[0], c[1], c[2])
	textPrimary, textSecondary := ContrastText(avg)
	borderPct := 20.0
	if avg > ContrastThreshold {
		borderPct = -20
	}

	return domain.Palette{
		Colors:         c,
		Primary:        c[1],
		Secondary:      c[3],
		Accent:         c[5],
		Vibrant:        Saturate(c[1], 50),
		Muted:          Saturate(c[2], -30),
		Light:          Brighten(c[3], 60),
		Dark:           Brighten(c[0], -40),
		Darker:         Brighten(c[0], -60),
		Lighter:        Brighten(c[5], 80),
		Background1:    Brighten(c[0], -30),
		Background2:    c[0],
		Background3:    Brighten(c[1], 20),
		TextPrimary:    textPrimary,
		TextSecondary:  textSecondary,
		Border:         Brighten(c[1], borderPct),
		Complementary1: Complement(c[1]),
		Complementary2: Complement(c[3]),
	}
}

// FromImage runs Extract and Synthesize. Any extraction failure yields
// Default() together with the error, so callers can log and carry on.
func FromImage(img image.Image, opts ExtractOptions) (domain.Palette, error) {
	colors, err := Extract(img, opts)
	if err != nil {
		return Default(), err
	}
	if len(colors) < MinColors {
		return Default(), domain.ErrNoColors
	}
	return Synthesize(colors), nil
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 0xff
	return c
}
