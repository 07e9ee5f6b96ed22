// Package theme holds the process-wide semantic palette. There is one writer
// (the theme service) and any number of readers: renderers read the current
// value lock-free every frame, UI and readout code subscribe to changes.
package theme

import (
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/palette"
)

// Store publishes palettes by whole-value replacement.
type Store struct {
	current atomic.Pointer[domain.Palette]

	// mu serializes Replace and guards listeners
	mu        sync.Mutex
	listeners map[*Listener]struct{}
	closed    bool
}

// Listener receives the newest palette on C. C has a buffer of one and
// delivery is latest-wins: a slow reader only ever sees the most recent value.
// C is closed on Unsubscribe or Store.Close.
type Listener struct {
	C chan domain.Palette
}

// NewStore creates a store holding the default palette.
func NewStore() *Store {
	s := &Store{listeners: make(map[*Listener]struct{})}
	def := palette.Default()
	s.current.Store(&def)
	return s
}

// Current returns the published palette.
func (s *Store) Current() domain.Palette {
	return *s.current.Load()
}

// Replace atomically publishes p. It returns false and notifies nobody when
// p equals the current palette or the store is closed.
func (s *Store) Replace(p domain.Palette) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || *s.current.Load() == p {
		return false
	}

	s.current.Store(&p)
	for l := range s.listeners {
		deliver(l.C, p)
	}
	return true
}

func deliver(ch chan domain.Palette, p domain.Palette) {
	select {
	case ch <- p:
		return
	default:
	}
	// drop the stale value the reader has not picked up yet
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- p:
	default:
	}
}

// Subscribe registers a listener. The current palette is queued immediately
// so new readers start from a known value.
func (s *Store) Subscribe() *Listener {
	l := &Listener{C: make(chan domain.Palette, 1)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(l.C)
		return l
	}
	l.C <- *s.current.Load()
	s.listeners[l] = struct{}{}
	return l
}

// Unsubscribe removes l and closes its channel. Unknown listeners are ignored.
func (s *Store) Unsubscribe(l *Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listeners[l]; !ok {
		return
	}
	delete(s.listeners, l)
	close(l.C)
}

// ListenerCount returns the number of active listeners.
func (s *Store) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Close releases every listener. The last palette stays readable.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for l := range s.listeners {
		close(l.C)
	}
	s.listeners = nil
}
