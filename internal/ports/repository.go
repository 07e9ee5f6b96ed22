// Package ports define repository interfaces for data persistence abstraction.
package ports

import (
	"time"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// SettingsRepository persists user-tunable engine settings between runs.
// The concrete implementation is backed by the Fyne preferences store.
//
// Thread-safety: Implementations must be thread-safe.
type SettingsRepository interface {
	// SaveFPS persists the render loop rate.
	// Values outside 1-120 are rejected with a ValidationError.
	SaveFPS(fps int) error

	// LoadFPS returns the saved rate, or 0 when nothing was saved.
	LoadFPS() (int, error)

	// SaveCrossfade persists the renderer cross-fade duration.
	SaveCrossfade(d time.Duration) error

	// LoadCrossfade returns the saved duration, or 0 when nothing was saved.
	LoadCrossfade() (time.Duration, error)

	// SaveTransitionsEnabled toggles the navigation overlay.
	SaveTransitionsEnabled(enabled bool) error

	// LoadTransitionsEnabled defaults to true.
	LoadTransitionsEnabled() (bool, error)

	// SaveLastRenderer remembers the renderer shown when the app closed.
	SaveLastRenderer(kind domain.RendererKind) error

	// LoadLastRenderer returns domain.DefaultRenderer when nothing valid was saved.
	LoadLastRenderer() (domain.RendererKind, error)

	// Clear removes all saved settings.
	Clear() error
}

// HistoryRepository persists the most recent session history entries,
// newest first.
type HistoryRepository interface {
	// Append adds entry at the front. Implementations may drop the oldest
	// entries beyond their capacity.
	Append(entry domain.HistoryEntry) error

	// Recent returns up to n entries, newest first. n <= 0 returns all.
	Recent(n int) ([]domain.HistoryEntry, error)

	// Clear removes all entries.
	Clear() error
}
