package web

import (
	"encoding/json"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// Message types pushed over /ws.
const (
	MessagePalette    = "palette"
	MessageRenderer   = "renderer"
	MessageParameters = "parameters"
	MessageVisualizer = "visualizer"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// PaletteMessage is the data of a palette message.
type PaletteMessage struct {
	Slots      map[string]string `json:"slots"`
	ArtworkRef string            `json:"artwork_ref,omitempty"`
	IsDefault  bool              `json:"is_default"`
}

// RendererMessage is the data of a renderer message.
type RendererMessage struct {
	Previous string `json:"previous,omitempty"`
	Current  string `json:"current"`
	Name     string `json:"name"`
}

// ParamsJSON mirrors domain.AnimationParams.
type ParamsJSON struct {
	Tempo        float64 `json:"tempo"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
	IsPlaying    bool    `json:"is_playing"`
}

// TrackJSON mirrors domain.TrackMetadata.
type TrackJSON struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Artists    string `json:"artists,omitempty"`
	Popularity *int   `json:"popularity,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// VisualizerResponse is returned by /api/visualizer and carried by
// visualizer and parameters messages.
type VisualizerResponse struct {
	Renderer     string     `json:"renderer"`
	RendererName string     `json:"renderer_name"`
	Params       ParamsJSON `json:"params"`
	Track        TrackJSON  `json:"track"`
}

func newParamsJSON(p domain.AnimationParams) ParamsJSON {
	return ParamsJSON{
		Tempo:        p.Tempo,
		Energy:       p.Energy,
		Danceability: p.Danceability,
		Valence:      p.Valence,
		IsPlaying:    p.IsPlaying,
	}
}

func newTrackJSON(t domain.TrackMetadata) TrackJSON {
	return TrackJSON{
		ID:         t.ID,
		Name:       t.Name,
		Artists:    t.Artists,
		Popularity: t.Popularity,
		DurationMs: t.DurationMs,
	}
}

func newVisualizerResponse(kind domain.RendererKind, p domain.AnimationParams, t domain.TrackMetadata) VisualizerResponse {
	return VisualizerResponse{
		Renderer:     string(kind),
		RendererName: kind.DisplayName(),
		Params:       newParamsJSON(p),
		Track:        newTrackJSON(t),
	}
}

// encode renders a message for the wire.
func encode(kind string, data any) ([]byte, error) {
	return json.Marshal(Message{Type: kind, Data: data})
}
