package fyne

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// PaletteSource provides the live palette. *theme.Store satisfies it.
type PaletteSource interface {
	Current() domain.Palette
}

// AmbienceTheme is a fyne.Theme whose colours follow the live palette.
// Fonts, icons and sizes come from the default theme.
type AmbienceTheme struct {
	source PaletteSource
	base   fyne.Theme
}

var _ fyne.Theme = (*AmbienceTheme)(nil)

// NewAmbienceTheme creates a theme reading from source on every lookup.
func NewAmbienceTheme(source PaletteSource) *AmbienceTheme {
	return &AmbienceTheme{source: source, base: theme.DefaultTheme()}
}

// Color implements fyne.Theme.
func (t *AmbienceTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	p := t.source.Current()
	switch name {
	case theme.ColorNameBackground:
		return opaque(p.Background2)
	case theme.ColorNameForeground:
		return opaque(p.TextPrimary)
	case theme.ColorNamePrimary:
		return opaque(p.Primary)
	case theme.ColorNameHover:
		return withAlpha(p.Accent, 0x40)
	case theme.ColorNameFocus:
		return withAlpha(p.Accent, 0x80)
	case theme.ColorNameSelection:
		return withAlpha(p.Accent, 0x60)
	case theme.ColorNamePressed:
		return withAlpha(p.Accent, 0x60)
	case theme.ColorNameSeparator:
		return opaque(p.Border)
	case theme.ColorNameInputBorder:
		return opaque(p.Border)
	case theme.ColorNameButton, theme.ColorNameInputBackground:
		return opaque(p.Background3)
	case theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground, theme.ColorNameHeaderBackground:
		return opaque(p.Background1)
	case theme.ColorNamePlaceHolder, theme.ColorNameDisabled:
		return opaque(p.TextSecondary)
	case theme.ColorNameScrollBar:
		return withAlpha(p.Muted, 0x99)
	}
	return t.base.Color(name, variant)
}

// Font implements fyne.Theme.
func (t *AmbienceTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon implements fyne.Theme.
func (t *AmbienceTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size implements fyne.Theme.
func (t *AmbienceTheme) Size(name fyne.ThemeSizeName) float32 {
	return t.base.Size(name)
}

func opaque(c color.RGBA) color.Color {
	c.A = 0xff
	return c
}

func withAlpha(c color.RGBA, a uint8) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
