package domain

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererKinds(t *testing.T) {
	kinds := RendererKinds()
	require.Len(t, kinds, 6)

	seen := map[RendererKind]bool{}
	for _, k := range kinds {
		assert.True(t, k.Valid())
		assert.NotEmpty(t, k.DisplayName())
		seen[k] = true
	}
	assert.Len(t, seen, 6)

	// callers get a copy
	kinds[0] = "bogus"
	assert.Equal(t, RendererRetro, RendererKinds()[0])
}

func TestParseRendererKind(t *testing.T) {
	k, err := ParseRendererKind(" Matrix ")
	require.NoError(t, err)
	assert.Equal(t, RendererMatrix, k)

	_, err = ParseRendererKind("plasma")
	assert.True(t, errors.Is(err, ErrUnknownRenderer))
}

func TestPalette_Slots(t *testing.T) {
	var p Palette
	p.Colors[0] = color.RGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	p.Complementary2 = color.RGBA{R: 0xf9, G: 0x73, B: 0x16, A: 0xff}

	slots := p.Slots()
	require.Len(t, slots, SlotCount)
	assert.Equal(t, "color1", slots[0].Name)
	assert.Equal(t, "complementary2", slots[SlotCount-1].Name)

	hex := p.HexMap()
	assert.Len(t, hex, SlotCount)
	assert.Equal(t, "#0f172a", hex["color1"])
	assert.Equal(t, "#f97316", hex["complementary2"])

	c, ok := p.Lookup("complementary2")
	assert.True(t, ok)
	assert.Equal(t, p.Complementary2, c)

	_, ok = p.Lookup("nope")
	assert.False(t, ok)
}

func TestAnimationParams_WithDescriptors(t *testing.T) {
	p := DefaultAnimationParams()
	p.IsPlaying = true

	got := p.WithDescriptors(Descriptors{Tempo: 96, Energy: 0.7, Danceability: 0.4, Valence: 0.3})
	assert.Equal(t, AnimationParams{Tempo: 96, Energy: 0.7, Danceability: 0.4, Valence: 0.3, IsPlaying: true}, got)
	assert.Equal(t, 120.0, p.Tempo, "receiver is not mutated")
}

func TestErrors_Unwrap(t *testing.T) {
	err := NewArtworkError("decode", "file:///x.png", ErrNoColors)
	assert.True(t, errors.Is(err, ErrNoColors))
	assert.Contains(t, err.Error(), "decode")

	var se *PlaybackSourceError
	wrapped := NewPlaybackSourceError("spotify", "now_playing", 401, ErrUnauthorized)
	require.True(t, errors.As(error(wrapped), &se))
	assert.Equal(t, 401, se.StatusCode)
	assert.True(t, errors.Is(wrapped, ErrUnauthorized))
}
