package domain

import (
	"fmt"
	"image/color"
)

// Palette is the semantic palette: eight extracted colours plus eighteen
// derived slots. It is a value type, so a published palette is always complete.
type Palette struct {
	Colors [8]color.RGBA

	Primary        color.RGBA
	Secondary      color.RGBA
	Accent         color.RGBA
	Vibrant        color.RGBA
	Muted          color.RGBA
	Light          color.RGBA
	Dark           color.RGBA
	Darker         color.RGBA
	Lighter        color.RGBA
	Background1    color.RGBA
	Background2    color.RGBA
	Background3    color.RGBA
	TextPrimary    color.RGBA
	TextSecondary  color.RGBA
	Border         color.RGBA
	Complementary1 color.RGBA
	Complementary2 color.RGBA
}

// SlotCount is the number of named slots in a Palette.
const SlotCount = 26

// Slot is one named palette entry.
type Slot struct {
	Name  string
	Color color.RGBA
}

// Slots returns every slot in a stable order.
func (p Palette) Slots() []Slot {
	slots := make([]Slot, 0, SlotCount)
	for i, c := range p.Colors {
		slots = append(slots, Slot{Name: fmt.Sprintf("color%d", i+1), Color: c})
	}
	return append(slots,
		Slot{"primary", p.Primary},
		Slot{"secondary", p.Secondary},
		Slot{"accent", p.Accent},
		Slot{"vibrant", p.Vibrant},
		Slot{"muted", p.Muted},
		Slot{"light", p.Light},
		Slot{"dark", p.Dark},
		Slot{"darker", p.Darker},
		Slot{"lighter", p.Lighter},
		Slot{"background1", p.Background1},
		Slot{"background2", p.Background2},
		Slot{"background3", p.Background3},
		Slot{"textPrimary", p.TextPrimary},
		Slot{"textSecondary", p.TextSecondary},
		Slot{"border", p.Border},
		Slot{"complementary1", p.Complementary1},
		Slot{"complementary2", p.Complementary2},
	)
}

// Lookup returns the colour of a named slot.
func (p Palette) Lookup(name string) (color.RGBA, bool) {
	for _, s := range p.Slots() {
		if s.Name == name {
			return s.Color, true
		}
	}
	return color.RGBA{}, false
}

// HexMap returns slot name to "#rrggbb", the shape used by readouts.
func (p Palette) HexMap() map[string]string {
	out := make(map[string]string, SlotCount)
	for _, s := range p.Slots() {
		out[s.Name] = Hex(s.Color)
	}
	return out
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
