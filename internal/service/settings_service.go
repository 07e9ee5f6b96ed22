package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// Limits accepted by SettingsService.
const (
	MinFPS       = 1
	MaxFPS       = 120
	MaxCrossfade = 10 * time.Second
)

// Settings are the user-tunable engine values.
type Settings struct {
	FPS                int
	Crossfade          time.Duration
	TransitionsEnabled bool
	LastRenderer       domain.RendererKind
}

// SettingsService caches persisted settings in front of the repository.
// All operations are thread-safe via sync.RWMutex.
type SettingsService struct {
	// Dependencies (injected)
	logger     *slog.Logger
	repository ports.SettingsRepository

	defaults Settings

	mu       sync.RWMutex
	settings Settings
}

// NewSettingsService loads saved settings on top of defaults.
func NewSettingsService(logger *slog.Logger, repository ports.SettingsRepository, defaults Settings) *SettingsService {
	s := &SettingsService{
		logger:     logger.With(slog.String("service", "settings")),
		repository: repository,
		defaults:   defaults,
		settings:   defaults,
	}
	s.load()
	s.logger.Debug("settings service initialized",
		slog.Int("fps", s.settings.FPS),
		slog.Duration("crossfade", s.settings.Crossfade),
		slog.Bool("transitions", s.settings.TransitionsEnabled),
		slog.String("last_renderer", string(s.settings.LastRenderer)))
	return s
}

// load overlays saved values. Zero or unreadable values keep the default.
func (s *SettingsService) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fps, err := s.repository.LoadFPS(); err != nil {
		s.logger.Warn("failed to load fps", slog.Any("error", err))
	} else if fps >= MinFPS && fps <= MaxFPS {
		s.settings.FPS = fps
	}

	if d, err := s.repository.LoadCrossfade(); err != nil {
		s.logger.Warn("failed to load crossfade", slog.Any("error", err))
	} else if d > 0 && d <= MaxCrossfade {
		s.settings.Crossfade = d
	}

	if on, err := s.repository.LoadTransitionsEnabled(); err == nil {
		s.settings.TransitionsEnabled = on
	}

	if kind, err := s.repository.LoadLastRenderer(); err == nil && kind.Valid() {
		s.settings.LastRenderer = kind
	}
}

// Get returns a copy of the current settings.
func (s *SettingsService) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetFPS saves the render loop rate.
func (s *SettingsService) SetFPS(fps int) error {
	if fps < MinFPS || fps > MaxFPS {
		return domain.NewValidationError("fps", fps, "must be between 1 and 120")
	}
	if err := s.repository.SaveFPS(fps); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings.FPS = fps
	s.mu.Unlock()
	return nil
}

// SetCrossfade saves the renderer cross-fade duration.
func (s *SettingsService) SetCrossfade(d time.Duration) error {
	if d <= 0 || d > MaxCrossfade {
		return domain.NewValidationError("crossfade", d, "must be positive and at most 10s")
	}
	if err := s.repository.SaveCrossfade(d); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings.Crossfade = d
	s.mu.Unlock()
	return nil
}

// SetTransitionsEnabled toggles the navigation overlay.
func (s *SettingsService) SetTransitionsEnabled(enabled bool) error {
	if err := s.repository.SaveTransitionsEnabled(enabled); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings.TransitionsEnabled = enabled
	s.mu.Unlock()
	return nil
}

// RememberRenderer stores the renderer to restore on the next start.
func (s *SettingsService) RememberRenderer(kind domain.RendererKind) error {
	if !kind.Valid() {
		return domain.NewValidationError("renderer", kind, "unknown renderer")
	}
	if err := s.repository.SaveLastRenderer(kind); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings.LastRenderer = kind
	s.mu.Unlock()
	return nil
}

// ResetToDefaults clears the repository and restores the startup defaults.
func (s *SettingsService) ResetToDefaults() error {
	if err := s.repository.Clear(); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = s.defaults
	s.mu.Unlock()
	return nil
}
