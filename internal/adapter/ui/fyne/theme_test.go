package fyne

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"

	"github.com/tejashwikalptaru/ambience/internal/palette"
	ambiencetheme "github.com/tejashwikalptaru/ambience/internal/theme"
)

func TestAmbienceTheme_FollowsStore(t *testing.T) {
	store := ambiencetheme.NewStore()
	defer store.Close()
	th := NewAmbienceTheme(store)

	def := palette.Default()
	bg := def.Background2
	bg.A = 0xff
	assert.Equal(t, bg, th.Color(theme.ColorNameBackground, theme.VariantDark))

	next := def
	next.Background2 = color.RGBA{R: 1, G: 2, B: 3, A: 255}
	next.TextPrimary = color.RGBA{R: 250, G: 250, B: 240, A: 255}
	next.Accent = color.RGBA{R: 200, G: 10, B: 90, A: 255}
	store.Replace(next)

	assert.Equal(t, next.Background2, th.Color(theme.ColorNameBackground, theme.VariantDark))
	assert.Equal(t, next.TextPrimary, th.Color(theme.ColorNameForeground, theme.VariantLight))
	assert.Equal(t, color.NRGBA{R: 200, G: 10, B: 90, A: 0x40}, th.Color(theme.ColorNameHover, theme.VariantDark))
	assert.Equal(t, color.NRGBA{R: 200, G: 10, B: 90, A: 0x80}, th.Color(theme.ColorNameFocus, theme.VariantDark))
}

func TestAmbienceTheme_DelegatesOtherLookups(t *testing.T) {
	store := ambiencetheme.NewStore()
	defer store.Close()
	th := NewAmbienceTheme(store)

	base := theme.DefaultTheme()
	assert.Equal(t, base.Color(theme.ColorNameError, theme.VariantDark), th.Color(theme.ColorNameError, theme.VariantDark))
	assert.Equal(t, base.Size(theme.SizeNamePadding), th.Size(theme.SizeNamePadding))
	assert.Equal(t, base.Icon(theme.IconNameHome), th.Icon(theme.IconNameHome))
}
