package ports

import (
	"context"
	"image"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// PlaybackSource reports what is currently playing.
// Implementations: the Spotify Web API client and a scripted mock.
type PlaybackSource interface {
	// NowPlaying returns the current sample. When nothing is playing it
	// returns a sample with IsPlaying false and a nil error.
	// Descriptors may be nil; callers resolve them.
	NowPlaying(ctx context.Context) (domain.PlaybackSample, error)

	// Name identifies the source in logs.
	Name() string
}

// ArtworkLoader resolves an opaque artwork reference into an image.
type ArtworkLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// Random is the injectable randomness used for renderer selection.
// *math/rand/v2.Rand satisfies it.
type Random interface {
	IntN(n int) int
}
