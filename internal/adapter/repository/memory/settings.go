package memory

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// Preference keys.
const (
	keyFPS          = "settings.fps"
	keyCrossfadeMs  = "settings.crossfade_ms"
	keyTransitions  = "settings.transitions"
	keyLastRenderer = "settings.last_renderer"
)

// SettingsRepository implements ports.SettingsRepository using Fyne preferences.
// This provides a thin wrapper around Fyne's preferences system with proper error handling.
//
// Thread-safe: All operations protected by sync.RWMutex.
type SettingsRepository struct {
	prefs fyne.Preferences
	mu    sync.RWMutex
}

// NewSettingsRepository creates a new settings repository.
// The preferences parameter should be obtained from fyne.CurrentApp().Preferences().
func NewSettingsRepository(prefs fyne.Preferences) *SettingsRepository {
	return &SettingsRepository{
		prefs: prefs,
	}
}

// SaveFPS persists the render loop rate.
func (r *SettingsRepository) SaveFPS(fps int) error {
	if fps < 1 || fps > 120 {
		return domain.NewValidationError("fps", fps, "must be between 1 and 120")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetInt(keyFPS, fps)
	return nil
}

// LoadFPS retrieves the saved rate, 0 when unset.
func (r *SettingsRepository) LoadFPS() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.Int(keyFPS), nil
}

// SaveCrossfade persists the cross-fade duration with millisecond precision.
func (r *SettingsRepository) SaveCrossfade(d time.Duration) error {
	if d < 0 {
		return domain.NewValidationError("crossfade", d, "must not be negative")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store ms+1 so a saved zero is distinguishable from "not set",
	// since Fyne returns 0 for missing keys.
	r.prefs.SetInt(keyCrossfadeMs, int(d/time.Millisecond)+1)
	return nil
}

// LoadCrossfade retrieves the saved duration, 0 when unset.
func (r *SettingsRepository) LoadCrossfade() (time.Duration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.prefs.Int(keyCrossfadeMs)
	if stored <= 0 {
		return 0, nil
	}
	return time.Duration(stored-1) * time.Millisecond, nil
}

// SaveTransitionsEnabled persists the overlay toggle.
func (r *SettingsRepository) SaveTransitionsEnabled(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetBool(keyTransitions, enabled)
	return nil
}

// LoadTransitionsEnabled retrieves the overlay toggle, true when unset.
func (r *SettingsRepository) LoadTransitionsEnabled() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.prefs.BoolWithFallback(keyTransitions, true), nil
}

// SaveLastRenderer persists the renderer on screen at shutdown.
func (r *SettingsRepository) SaveLastRenderer(kind domain.RendererKind) error {
	if !kind.Valid() {
		return domain.NewValidationError("renderer", kind, "unknown renderer")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.SetString(keyLastRenderer, string(kind))
	return nil
}

// LoadLastRenderer retrieves the saved renderer, falling back to the default
// for missing or unknown values.
func (r *SettingsRepository) LoadLastRenderer() (domain.RendererKind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, err := domain.ParseRendererKind(r.prefs.String(keyLastRenderer))
	if err != nil {
		return domain.DefaultRenderer, nil
	}
	return kind, nil
}

// Clear removes all saved settings.
func (r *SettingsRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs.RemoveValue(keyFPS)
	r.prefs.RemoveValue(keyCrossfadeMs)
	r.prefs.RemoveValue(keyTransitions)
	r.prefs.RemoveValue(keyLastRenderer)
	return nil
}

// Verify interface implementation
var _ ports.SettingsRepository = (*SettingsRepository)(nil)
