package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/palette"
	"github.com/tejashwikalptaru/ambience/internal/ports"
	"github.com/tejashwikalptaru/ambience/internal/theme"
)

// DefaultArtworkTimeout bounds one artwork load plus extraction.
const DefaultArtworkTimeout = 15 * time.Second

// ThemeService turns album artwork into the live palette.
// It is the only writer of the theme store.
type ThemeService struct {
	logger  *slog.Logger
	bus     ports.EventBus
	loader  ports.ArtworkLoader
	store   *theme.Store
	opts    palette.ExtractOptions
	timeout time.Duration

	root     context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	currentRef string
	// pinnedFor is the playback artwork that was showing when a palette was
	// picked by hand. The pick holds while playback keeps reporting it.
	pinnedFor  string
	pinned     bool
	cache      *lru.Cache[string, domain.Palette]
	subID      domain.SubscriptionID
	closed     bool
}

// NewThemeService creates the service and subscribes it to playback updates.
func NewThemeService(
	logger *slog.Logger,
	bus ports.EventBus,
	loader ports.ArtworkLoader,
	store *theme.Store,
	opts palette.ExtractOptions,
) *ThemeService {
	root, shutdown := context.WithCancel(context.Background())
	s := &ThemeService{
		logger:   logger.With(slog.String("service", "theme")),
		bus:      bus,
		loader:   loader,
		store:    store,
		opts:     opts,
		timeout:  DefaultArtworkTimeout,
		root:     root,
		shutdown: shutdown,
		cache:    newTrackCache[domain.Palette](),
	}
	s.subID = bus.Subscribe(domain.EventPlaybackUpdated, func(e domain.Event) {
		if ev, ok := e.(domain.PlaybackUpdatedEvent); ok {
			s.HandleSample(ev.Sample)
		}
	})
	s.logger.Debug("theme service initialized")
	return s
}

// HandleSample reacts to one playback observation. It never blocks on
// artwork: loading and extraction run on a separate goroutine.
func (s *ThemeService) HandleSample(sample domain.PlaybackSample) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	ref := sample.ArtworkRef
	if !sample.IsPlaying || ref == "" {
		s.supersedeLocked()
		s.currentRef = ""
		s.pinned = false
		changed := s.store.Replace(palette.Default())
		s.mu.Unlock()
		if changed {
			s.logger.Debug("palette reset to default")
			s.bus.Publish(domain.NewPaletteChangedEvent(palette.Default(), "", true))
		}
		return
	}

	if s.pinned {
		if ref == s.pinnedFor {
			s.mu.Unlock()
			return
		}
		s.pinned = false
	}
	if ref == s.currentRef {
		s.mu.Unlock()
		return
	}
	s.beginLocked(ref)
}

// ApplyArtwork themes from ref regardless of what is playing. The palette
// holds until playback reports different artwork or stops.
func (s *ThemeService) ApplyArtwork(ref string) error {
	if ref == "" {
		return domain.NewValidationError("artwork", ref, "must not be empty")
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrServiceClosed
	}
	if !s.pinned {
		s.pinnedFor = s.currentRef
	}
	s.pinned = true
	s.logger.Info("applying artwork picked by hand",
		slog.String("artwork", ref),
		slog.String("playing", s.pinnedFor))
	s.beginLocked(ref)
	return nil
}

// beginLocked switches to ref, from cache when possible. It is entered with
// s.mu held and releases it.
func (s *ThemeService) beginLocked(ref string) {
	gen := s.supersedeLocked()
	s.currentRef = ref

	if p, ok := s.cache.Get(ref); ok {
		changed := s.store.Replace(p)
		s.mu.Unlock()
		if changed {
			s.logger.Debug("palette restored from cache", slog.String("artwork", ref))
			s.bus.Publish(domain.NewPaletteChangedEvent(p, ref, false))
		}
		return
	}

	ctx, cancel := context.WithTimeout(s.root, s.timeout)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go s.extract(ctx, cancel, gen, ref)
}

// supersedeLocked cancels any in-flight extraction and returns the new generation.
func (s *ThemeService) supersedeLocked() uint64 {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	return s.generation
}

func (s *ThemeService) extract(ctx context.Context, cancel context.CancelFunc, gen uint64, ref string) {
	defer s.wg.Done()
	defer cancel()

	start := time.Now()
	p, err := s.paletteFor(ctx, ref)

	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding stale palette",
			slog.String("artwork", ref),
			slog.Uint64("generation", gen))
		return
	}
	s.cancel = nil
	isDefault := err != nil
	if isDefault {
		p = palette.Default()
	} else {
		s.cache.Add(ref, p)
	}
	changed := s.store.Replace(p)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("artwork extraction failed, using default palette",
			slog.String("artwork", ref),
			slog.Any("error", err))
		s.bus.Publish(domain.NewArtworkFailedEvent(ref, err))
	} else {
		s.logger.Debug("palette extracted",
			slog.String("artwork", ref),
			slog.Duration("took", time.Since(start)))
	}
	if changed {
		s.bus.Publish(domain.NewPaletteChangedEvent(p, ref, isDefault))
	}
}

func (s *ThemeService) paletteFor(ctx context.Context, ref string) (domain.Palette, error) {
	img, err := s.loader.Load(ctx, ref)
	if err != nil {
		return domain.Palette{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Palette{}, domain.NewArtworkError("extract", ref, err)
	}
	p, err := palette.FromImage(img, s.opts)
	if err != nil {
		return domain.Palette{}, domain.NewArtworkError("extract", ref, err)
	}
	return p, nil
}

// Current returns the live palette.
func (s *ThemeService) Current() domain.Palette {
	return s.store.Current()
}

// CachedPalettes is the number of artwork palettes kept for reuse.
func (s *ThemeService) CachedPalettes() int {
	return s.cache.Len()
}

// Shutdown unsubscribes, cancels extraction and waits for it to return.
func (s *ThemeService) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.bus.Unsubscribe(s.subID)
	s.shutdown()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Debug("theme service stopped")
}
