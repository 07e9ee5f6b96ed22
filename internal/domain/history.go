package domain

import "time"

// HistoryEntry records one track shown during a session and the renderer
// that was chosen for it.
type HistoryEntry struct {
	TrackID  string       `json:"track_id"`
	Name     string       `json:"name"`
	Artists  string       `json:"artists"`
	Renderer RendererKind `json:"renderer"`
	Tempo    float64      `json:"tempo"`
	PlayedAt time.Time    `json:"played_at"`
}
