// Package domain defines events for the event-driven architecture.
// Services publish these on the bus; the presenter, renderers' stage and the
// readout server consume them.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback signal
	EventPlaybackUpdated EventType = "playback.updated"
	EventPlaybackError   EventType = "playback.error"

	// Theming
	EventPaletteChanged EventType = "palette.changed"
	EventArtworkFailed  EventType = "artwork.failed"

	// Visualizer orchestration
	EventRendererChanged   EventType = "renderer.changed"
	EventParametersUpdated EventType = "parameters.updated"

	// UI
	EventNavigation EventType = "ui.navigation"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// PlaybackUpdatedEvent is published on every poll of the playback source.
// Sample.Descriptors has already been resolved (measured or synthetic).
type PlaybackUpdatedEvent struct {
	baseEvent
	Sample PlaybackSample
}

// Type returns the event type.
func (e PlaybackUpdatedEvent) Type() EventType {
	return EventPlaybackUpdated
}

// NewPlaybackUpdatedEvent creates a new PlaybackUpdatedEvent.
func NewPlaybackUpdatedEvent(sample PlaybackSample) PlaybackUpdatedEvent {
	return PlaybackUpdatedEvent{
		baseEvent: newBaseEvent(),
		Sample:    sample,
	}
}

// PlaybackErrorEvent is published when a poll fails. The previous state is kept.
type PlaybackErrorEvent struct {
	baseEvent
	Error error
}

// Type returns the event type.
func (e PlaybackErrorEvent) Type() EventType {
	return EventPlaybackError
}

// NewPlaybackErrorEvent creates a new PlaybackErrorEvent.
func NewPlaybackErrorEvent(err error) PlaybackErrorEvent {
	return PlaybackErrorEvent{
		baseEvent: newBaseEvent(),
		Error:     err,
	}
}

// PaletteChangedEvent is published after the theme store was replaced.
type PaletteChangedEvent struct {
	baseEvent
	Palette    Palette
	ArtworkRef string // empty for the default palette
	IsDefault  bool
}

// Type returns the event type.
func (e PaletteChangedEvent) Type() EventType {
	return EventPaletteChanged
}

// NewPaletteChangedEvent creates a new PaletteChangedEvent.
func NewPaletteChangedEvent(p Palette, ref string, isDefault bool) PaletteChangedEvent {
	return PaletteChangedEvent{
		baseEvent:  newBaseEvent(),
		Palette:    p,
		ArtworkRef: ref,
		IsDefault:  isDefault,
	}
}

// ArtworkFailedEvent is published when artwork could not be turned into a palette.
type ArtworkFailedEvent struct {
	baseEvent
	ArtworkRef string
	Error      error
}

// Type returns the event type.
func (e ArtworkFailedEvent) Type() EventType {
	return EventArtworkFailed
}

// NewArtworkFailedEvent creates a new ArtworkFailedEvent.
func NewArtworkFailedEvent(ref string, err error) ArtworkFailedEvent {
	return ArtworkFailedEvent{
		baseEvent:  newBaseEvent(),
		ArtworkRef: ref,
		Error:      err,
	}
}

// RendererChangedEvent is published when the orchestrator selects a renderer.
type RendererChangedEvent struct {
	baseEvent
	Previous   RendererKind
	Current    RendererKind
	ArtworkRef string
}

// Type returns the event type.
func (e RendererChangedEvent) Type() EventType {
	return EventRendererChanged
}

// NewRendererChangedEvent creates a new RendererChangedEvent.
func NewRendererChangedEvent(previous, current RendererKind, ref string) RendererChangedEvent {
	return RendererChangedEvent{
		baseEvent:  newBaseEvent(),
		Previous:   previous,
		Current:    current,
		ArtworkRef: ref,
	}
}

// ParametersUpdatedEvent carries a copy of the animation snapshot.
type ParametersUpdatedEvent struct {
	baseEvent
	Params   AnimationParams
	Renderer RendererKind
	Track    TrackMetadata
}

// Type returns the event type.
func (e ParametersUpdatedEvent) Type() EventType {
	return EventParametersUpdated
}

// NewParametersUpdatedEvent creates a new ParametersUpdatedEvent.
func NewParametersUpdatedEvent(params AnimationParams, renderer RendererKind, track TrackMetadata) ParametersUpdatedEvent {
	return ParametersUpdatedEvent{
		baseEvent: newBaseEvent(),
		Params:    params,
		Renderer:  renderer,
		Track:     track,
	}
}

// NavigationEvent is fired on a view change. It carries no payload beyond
// an identifier and the destination name.
type NavigationEvent struct {
	baseEvent
	ID   string
	View string
}

// Type returns the event type.
func (e NavigationEvent) Type() EventType {
	return EventNavigation
}

// NewNavigationEvent creates a new NavigationEvent.
func NewNavigationEvent(id, view string) NavigationEvent {
	return NavigationEvent{
		baseEvent: newBaseEvent(),
		ID:        id,
		View:      view,
	}
}
