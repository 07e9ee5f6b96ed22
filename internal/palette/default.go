package palette

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// MustHex parses "#rrggbb". It panics on malformed input and is meant for
// package-level constants.
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseHex parses "#rrggbb" (or "#rgb") into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return fromColorful(c), nil
}

var defaultPalette = domain.Palette{
	Colors: [8]color.RGBA{
		MustHex("#0f172a"),
		MustHex("#1e293b"),
		MustHex("#334155"),
		MustHex("#475569"),
		MustHex("#64748b"),
		MustHex("#94a3b8"),
		MustHex("#cbd5e1"),
		MustHex("#e2e8f0"),
	},
	Primary:        MustHex("#06b6d4"),
	Secondary:      MustHex("#8b5cf6"),
	Accent:         MustHex("#ec4899"),
	Vibrant:        MustHex("#f59e0b"),
	Muted:          MustHex("#6b7280"),
	Light:          MustHex("#f3f4f6"),
	Dark:           MustHex("#111827"),
	Darker:         MustHex("#030712"),
	Lighter:        MustHex("#f9fafb"),
	Background1:    MustHex("#0f172a"),
	Background2:    MustHex("#1e293b"),
	Background3:    MustHex("#334155"),
	TextPrimary:    MustHex("#ffffff"),
	TextSecondary:  MustHex("#d1d5db"),
	Border:         MustHex("#374151"),
	Complementary1: MustHex("#fbbf24"),
	Complementary2: MustHex("#f97316"),
}

// Default returns the fixed palette used when nothing is playing or
// extraction fails.
func Default() domain.Palette {
	return defaultPalette
}

// IsDefault reports whether p is exactly the default palette.
func IsDefault(p domain.Palette) bool {
	return p == defaultPalette
}
