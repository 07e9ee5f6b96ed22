// Package service holds the ambience core: playback polling, palette
// theming and renderer orchestration.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tejashwikalptaru/ambience/internal/descriptor"
	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// DefaultPollInterval is how often the playback source is asked what is playing.
const DefaultPollInterval = 5 * time.Second

// TrackCacheSize bounds the per-track caches: resolved descriptors here and
// artwork palettes in ThemeService. Least recently used entries go first.
const TrackCacheSize = 50

// newTrackCache panics only on a non-positive size.
func newTrackCache[V any]() *lru.Cache[string, V] {
	c, err := lru.New[string, V](TrackCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// PlaybackService polls a PlaybackSource, resolves descriptors for the
// current track and publishes every observation on the bus.
type PlaybackService struct {
	// Dependencies (injected)
	logger *slog.Logger
	source ports.PlaybackSource
	bus    ports.EventBus

	interval time.Duration
	timeout  time.Duration

	// State
	mu        sync.RWMutex
	last      domain.PlaybackSample
	hasSample bool
	failures  int
	resolved  *lru.Cache[string, domain.Descriptors] // by track ID

	// Poll loop
	root          context.Context
	cancelRoot    context.CancelFunc
	stopUpdate    chan struct{}
	updateRunning bool
	updateWg      sync.WaitGroup
}

// NewPlaybackService creates the service. Call Start to begin polling.
func NewPlaybackService(
	logger *slog.Logger,
	source ports.PlaybackSource,
	bus ports.EventBus,
	interval time.Duration,
) *PlaybackService {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	root, cancel := context.WithCancel(context.Background())
	s := &PlaybackService{
		logger:     logger.With(slog.String("service", "playback"), slog.String("source", source.Name())),
		source:     source,
		bus:        bus,
		interval:   interval,
		timeout:    max(interval, time.Second),
		resolved:   newTrackCache[domain.Descriptors](),
		root:       root,
		cancelRoot: cancel,
		stopUpdate: make(chan struct{}),
	}
	s.logger.Debug("playback service initialized", slog.Duration("interval", interval))
	return s
}

// Poll asks the source once. On failure the previous sample is kept, a
// PlaybackErrorEvent is published and the error is returned.
func (s *PlaybackService) Poll(ctx context.Context) (domain.PlaybackSample, error) {
	sample, err := s.source.NowPlaying(ctx)
	if errors.Is(err, domain.ErrNothingPlaying) {
		sample, err = domain.PlaybackSample{}, nil
	}
	if err != nil {
		s.mu.Lock()
		s.failures++
		failures := s.failures
		last := s.last
		s.mu.Unlock()

		s.logger.Warn("playback poll failed",
			slog.Int("consecutive_failures", failures),
			slog.Any("error", err))
		s.bus.Publish(domain.NewPlaybackErrorEvent(err))
		return last, err
	}

	if sample.HasTrack() {
		sample.Descriptors = s.resolve(sample)
	}

	s.mu.Lock()
	previous := s.last
	s.last = sample
	s.hasSample = true
	s.failures = 0
	s.mu.Unlock()

	if sample.Track.ID != previous.Track.ID && sample.HasTrack() {
		s.logger.Info("now playing",
			slog.String("track", sample.Track.Name),
			slog.String("artists", sample.Track.Artists),
			slog.String("provenance", sample.Descriptors.Provenance.String()))
	}
	s.bus.Publish(domain.NewPlaybackUpdatedEvent(sample))
	return sample, nil
}

// resolve returns measured descriptors when usable and otherwise synthesized
// ones, memoized per track.
func (s *PlaybackService) resolve(sample domain.PlaybackSample) *domain.Descriptors {
	id := sample.Track.ID
	if sample.Descriptors == nil {
		if d, ok := s.resolved.Get(id); ok {
			return &d
		}
	}

	d, synthetic := descriptor.Resolve(sample.Descriptors, sample.Track)
	if synthetic {
		s.logger.Debug("descriptors synthesized", slog.String("track_id", id), slog.Float64("tempo", d.Tempo))
	}
	s.resolved.Add(id, d)
	return &d
}

// ResolvedTracks is the number of tracks with memoized descriptors.
func (s *PlaybackService) ResolvedTracks() int {
	return s.resolved.Len()
}

// Current returns the last successful sample.
func (s *PlaybackService) Current() (domain.PlaybackSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.hasSample
}

// Start polls immediately and then on every interval until Shutdown.
func (s *PlaybackService) Start() {
	s.mu.Lock()
	if s.updateRunning {
		s.mu.Unlock()
		return
	}
	s.updateRunning = true
	s.updateWg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.updateWg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.pollOnce()
		for {
			select {
			case <-s.stopUpdate:
				return
			case <-ticker.C:
				s.pollOnce()
			}
		}
	}()
}

func (s *PlaybackService) pollOnce() {
	ctx, cancel := context.WithTimeout(s.root, s.timeout)
	defer cancel()
	// Errors are already logged and published.
	_, _ = s.Poll(ctx)
}

// Shutdown stops the poll loop and waits for an in-flight poll to return.
func (s *PlaybackService) Shutdown() {
	s.mu.Lock()
	if s.updateRunning {
		close(s.stopUpdate)
		s.updateRunning = false
	}
	s.mu.Unlock()

	// Release lock before waiting so an in-flight poll can finish.
	s.cancelRoot()
	s.updateWg.Wait()
	s.logger.Debug("playback service stopped")
}
