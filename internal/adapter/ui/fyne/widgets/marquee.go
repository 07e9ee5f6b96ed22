package widgets

import "sync"

// Marquee scrolls text that does not fit a fixed width one rune per step.
type Marquee struct {
	mu    sync.Mutex
	runes []rune
	width int
}

// NewMarquee creates a marquee for a label showing width runes.
func NewMarquee(text string, width int) *Marquee {
	m := &Marquee{width: width}
	m.SetText(text)
	return m
}

// SetText replaces the text and resets the scroll position.
func (m *Marquee) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runes = []rune(text)
	if len(m.runes) > m.width {
		m.runes = append(m.runes, []rune("    ")...)
	}
}

// Text returns the text at the current scroll position.
func (m *Marquee) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.runes)
}

// Step rotates text longer than the width by one rune and returns it.
// Short text is returned unchanged.
func (m *Marquee) Step() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runes) <= m.width {
		return string(m.runes)
	}
	first := m.runes[0]
	copy(m.runes, m.runes[1:])
	m.runes[len(m.runes)-1] = first
	return string(m.runes)
}
