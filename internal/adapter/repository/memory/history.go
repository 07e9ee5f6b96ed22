// Package memory provides repository implementations: user settings backed
// by Fyne preferences and the session history kept in process memory.
package memory

import (
	"sync"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// MaxHistoryEntries bounds the session history.
const MaxHistoryEntries = 50

// HistoryRepository implements ports.HistoryRepository in memory. The
// history lives for one session and is never written to disk.
//
// Thread-safe: All operations protected by sync.RWMutex.
type HistoryRepository struct {
	entries []domain.HistoryEntry // newest first
	max     int
	mu      sync.RWMutex
}

// NewHistoryRepository creates a new history repository holding at most
// limit entries. A non-positive limit means MaxHistoryEntries.
func NewHistoryRepository(limit int) *HistoryRepository {
	if limit <= 0 {
		limit = MaxHistoryEntries
	}
	return &HistoryRepository{max: limit}
}

// Append stores entry as the newest item, evicting the oldest beyond the bound.
func (r *HistoryRepository) Append(entry domain.HistoryEntry) error {
	if entry.TrackID == "" {
		return domain.NewValidationError("track_id", entry.TrackID, "history entry needs a track id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, domain.HistoryEntry{})
	copy(r.entries[1:], r.entries)
	r.entries[0] = entry
	if len(r.entries) > r.max {
		clear(r.entries[r.max:])
		r.entries = r.entries[:r.max]
	}
	return nil
}

// Recent returns a copy of up to n entries, newest first. n <= 0 returns all.
func (r *HistoryRepository) Recent(n int) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := len(r.entries)
	if n > 0 && n < count {
		count = n
	}
	out := make([]domain.HistoryEntry, count)
	copy(out, r.entries[:count])
	return out, nil
}

// Clear removes all history.
func (r *HistoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	return nil
}

// Verify interface implementation
var _ ports.HistoryRepository = (*HistoryRepository)(nil)
