package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/palette"
)

func TestSource_CyclesWithHold(t *testing.T) {
	a := domain.PlaybackSample{IsPlaying: true, ArtworkRef: "a", Track: domain.TrackMetadata{ID: "a"}}
	b := domain.PlaybackSample{IsPlaying: true, ArtworkRef: "b", Track: domain.TrackMetadata{ID: "b"}}
	s := NewSource(a, b)
	s.SetHold(2)

	var ids []string
	for i := 0; i < 5; i++ {
		got, err := s.NowPlaying(context.Background())
		require.NoError(t, err)
		ids = append(ids, got.Track.ID)
	}
	assert.Equal(t, []string{"a", "a", "b", "b", "a"}, ids)
	assert.Equal(t, 5, s.Calls())
}

func TestSource_EmptyMeansIdle(t *testing.T) {
	got, err := NewSource().NowPlaying(context.Background())
	require.NoError(t, err)
	assert.False(t, got.IsPlaying)
	assert.False(t, got.HasTrack())
}

func TestSource_Errors(t *testing.T) {
	s := NewSource(DemoTracks()...)
	boom := errors.New("boom")
	s.SetError(boom)
	_, err := s.NowPlaying(context.Background())
	assert.ErrorIs(t, err, boom)

	s.SetError(nil)
	_, err = s.NowPlaying(context.Background())
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.NowPlaying(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArtwork_ExtractsDistinctPalettes(t *testing.T) {
	seen := map[domain.Palette]string{}
	for _, sample := range DemoTracks() {
		if sample.ArtworkRef == "" {
			continue
		}
		img, err := Artwork{}.Load(context.Background(), sample.ArtworkRef)
		require.NoError(t, err)

		p, err := palette.FromImage(img, palette.DefaultExtractOptions())
		require.NoError(t, err, sample.ArtworkRef)
		assert.False(t, palette.IsDefault(p))
		_, dup := seen[p]
		assert.False(t, dup, "%s repeats a palette", sample.ArtworkRef)
		seen[p] = sample.ArtworkRef
	}
}

func TestArtwork_RejectsForeignRefs(t *testing.T) {
	_, err := Artwork{}.Load(context.Background(), "https://example.com/a.png")
	assert.ErrorIs(t, err, domain.ErrUnsupportedArtwork)

	var ae *domain.ArtworkError
	assert.ErrorAs(t, err, &ae)
}

func TestRender_Deterministic(t *testing.T) {
	assert.Equal(t, Render("neon").Pix, Render("neon").Pix)
	assert.NotEqual(t, Render("neon").Pix, Render("dawn").Pix)
}
