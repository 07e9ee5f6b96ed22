// Package domain contains the core models of the ambience engine: playback
// samples, acoustic descriptors, animation parameters and renderer identity.
// It has no dependencies beyond the standard library.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// RendererKind identifies one of the six procedural renderers.
// The set is closed: adding a renderer means adding a constant here.
type RendererKind string

// Renderer tags.
const (
	RendererRetro    RendererKind = "retro"
	RendererWaveform RendererKind = "waveform"
	RendererRadar    RendererKind = "radar"
	RendererMatrix   RendererKind = "matrix"
	RendererTunnel   RendererKind = "tunnel"
	RendererOrbs     RendererKind = "orbs"
)

// DefaultRenderer is active before the first track change.
const DefaultRenderer = RendererRetro

var rendererKinds = []RendererKind{
	RendererRetro,
	RendererWaveform,
	RendererRadar,
	RendererMatrix,
	RendererTunnel,
	RendererOrbs,
}

// RendererKinds returns the six renderer tags in a fixed order.
func RendererKinds() []RendererKind {
	out := make([]RendererKind, len(rendererKinds))
	copy(out, rendererKinds)
	return out
}

// Valid reports whether k is one of the six tags.
func (k RendererKind) Valid() bool {
	for _, known := range rendererKinds {
		if k == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable name for menus and readouts.
func (k RendererKind) DisplayName() string {
	switch k {
	case RendererRetro:
		return "Retro Bars"
	case RendererWaveform:
		return "Waveform"
	case RendererRadar:
		return "Radar"
	case RendererMatrix:
		return "Matrix Rain"
	case RendererTunnel:
		return "Grid Tunnel"
	case RendererOrbs:
		return "Orbs"
	default:
		return string(k)
	}
}

// ParseRendererKind converts a stored or user-supplied tag.
func ParseRendererKind(s string) (RendererKind, error) {
	k := RendererKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRenderer, s)
	}
	return k, nil
}

// Provenance records where a descriptor set came from.
type Provenance int

const (
	// ProvenanceMeasured descriptors come from the upstream source and are trusted as-is.
	ProvenanceMeasured Provenance = iota
	// ProvenanceSynthetic descriptors were derived from track identity.
	ProvenanceSynthetic
)

// String returns the provenance name.
func (p Provenance) String() string {
	if p == ProvenanceSynthetic {
		return "synthetic"
	}
	return "measured"
}

// Descriptors is the acoustic descriptor set of a track.
// Fractions are in [0,1], tempo is in beats per minute.
type Descriptors struct {
	Tempo            float64
	Energy           float64
	Danceability     float64
	Valence          float64
	Acousticness     float64
	Instrumentalness float64
	Speechiness      float64
	Loudness         float64 // dB-like
	Key              int     // pitch class 0-11
	Mode             int     // 1 major, 0 minor
	TimeSignature    int
	DurationMs       int64
	Provenance       Provenance
}

// TrackMetadata identifies a track for descriptor synthesis.
type TrackMetadata struct {
	ID      string
	Name    string
	Artists string // comma separated display string

	// Popularity is 0-100, nil when the source does not report it.
	Popularity *int

	// DurationMs is zero when unknown.
	DurationMs int64
}

// PlaybackSample is one observation of the playback source.
type PlaybackSample struct {
	IsPlaying bool

	// ArtworkRef is the opaque change-detection key, usually an image URL.
	ArtworkRef string

	Track    TrackMetadata
	Progress time.Duration

	// Descriptors is nil when the source has no measured values. After
	// resolution by the playback service it is always set for a known track.
	Descriptors *Descriptors
}

// HasTrack reports whether the sample carries a track identity.
func (s PlaybackSample) HasTrack() bool {
	return s.Track.ID != ""
}

// AnimationParams is the read-only snapshot every renderer consumes per frame.
type AnimationParams struct {
	Tempo        float64
	Energy       float64
	Danceability float64
	Valence      float64
	IsPlaying    bool
}

// DefaultAnimationParams returns the values used before any playback sample arrives.
func DefaultAnimationParams() AnimationParams {
	return AnimationParams{
		Tempo:        120,
		Energy:       0.5,
		Danceability: 0.5,
		Valence:      0.5,
	}
}

// WithDescriptors copies the four animated descriptors into p.
func (p AnimationParams) WithDescriptors(d Descriptors) AnimationParams {
	p.Tempo = d.Tempo
	p.Energy = d.Energy
	p.Danceability = d.Danceability
	p.Valence = d.Valence
	return p
}
