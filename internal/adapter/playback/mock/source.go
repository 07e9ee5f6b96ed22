// Package mock provides a scripted playback source and procedural artwork
// for running without streaming credentials and for tests.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// Source replays a fixed list of samples, advancing every Hold polls and
// wrapping at the end.
type Source struct {
	mu      sync.Mutex
	samples []domain.PlaybackSample
	hold    int
	polls   int
	calls   int
	err     error
}

// NewSource scripts samples in order, one per poll.
func NewSource(samples ...domain.PlaybackSample) *Source {
	return &Source{samples: samples, hold: 1}
}

// SetHold makes each sample repeat for n polls.
func (s *Source) SetHold(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hold = max(n, 1)
}

// SetError makes every poll fail with err until cleared with nil.
func (s *Source) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls counts NowPlaying invocations.
func (s *Source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// NowPlaying returns the scripted sample for this poll.
func (s *Source) NowPlaying(ctx context.Context) (domain.PlaybackSample, error) {
	if err := ctx.Err(); err != nil {
		return domain.PlaybackSample{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return domain.PlaybackSample{}, s.err
	}
	if len(s.samples) == 0 {
		return domain.PlaybackSample{}, nil
	}
	i := (s.polls / s.hold) % len(s.samples)
	s.polls++
	sample := s.samples[i]
	if sample.IsPlaying {
		sample.Progress = time.Duration(s.polls%s.hold) * 5 * time.Second
	}
	return sample, nil
}

// Name identifies the source in logs.
func (s *Source) Name() string { return "mock" }

var _ ports.PlaybackSource = (*Source)(nil)

func popularity(v int) *int { return &v }

// DemoTracks is a small playlist touching every genre bucket. Artwork refs
// use the mock scheme served by Artwork.
func DemoTracks() []domain.PlaybackSample {
	return []domain.PlaybackSample{
		{
			IsPlaying:  true,
			ArtworkRef: Scheme + "://neon",
			Track: domain.TrackMetadata{
				ID: "demo-neon", Name: "Neon Techno Nights", Artists: "Synth Collective",
				Popularity: popularity(82), DurationMs: 245_000,
			},
		},
		{
			IsPlaying:  true,
			ArtworkRef: Scheme + "://dawn",
			Track: domain.TrackMetadata{
				ID: "demo-dawn", Name: "Acoustic Morning", Artists: "Piano & Guitar Duo",
				Popularity: popularity(47), DurationMs: 198_000,
			},
		},
		{
			IsPlaying:  true,
			ArtworkRef: Scheme + "://ember",
			Track: domain.TrackMetadata{
				ID: "demo-ember", Name: "Trap Anthem", Artists: "MC Rap",
				Popularity: popularity(91), DurationMs: 172_000,
			},
		},
		{IsPlaying: false},
		{
			IsPlaying:  true,
			ArtworkRef: Scheme + "://marble",
			Track: domain.TrackMetadata{
				ID: "demo-marble", Name: "Symphony No. 5", Artists: "City Orchestra",
				Popularity: popularity(60), DurationMs: 412_000,
			},
		},
	}
}

// NewDemoSource cycles DemoTracks, holding each for hold polls.
func NewDemoSource(hold int) *Source {
	s := NewSource(DemoTracks()...)
	s.SetHold(hold)
	return s
}
