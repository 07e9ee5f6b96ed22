// Package fyne provides Fyne UI adapter implementations.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
	"github.com/tejashwikalptaru/ambience/internal/service"
)

// View names used for navigation events.
const (
	ViewVisualizer = "Visualizer"
	ViewPalette    = "Palette"
	ViewHistory    = "History"
)

// HistoryLimit is the number of entries shown in the history view.
const HistoryLimit = 20

// NothingPlaying is the now-playing text while the source is idle.
const NothingPlaying = "Nothing playing"

// UIView defines the interface for UI updates.
// The actual UI implementation (MainWindow) must implement this interface.
// Methods may be called from any goroutine.
type UIView interface {
	SetNowPlaying(text string)
	SetRendererName(name string)
	SetPalette(p domain.Palette)
	SetHistory(entries []domain.HistoryEntry)
	SetTransitionsEnabled(enabled bool)

	// Notifications
	ShowNotification(title, message string)
}

// StageController switches the renderer drawn on the stage.
type StageController interface {
	Switch(kind domain.RendererKind) error
}

// TransitionPlayer plays the wipe shown on a view change.
type TransitionPlayer interface {
	Trigger(kind domain.RendererKind)
}

// RendererPicker exposes the orchestrator's renderer choice.
type RendererPicker interface {
	Active() domain.RendererKind
	Select(kind domain.RendererKind) error
}

// HistoryReader lists recently shown tracks.
type HistoryReader interface {
	Recent(n int) []domain.HistoryEntry
}

// SettingsController reads and updates user settings.
type SettingsController interface {
	Get() service.Settings
	SetTransitionsEnabled(enabled bool) error
}

// ArtworkPicker themes from artwork chosen by the user.
type ArtworkPicker interface {
	ApplyArtwork(ref string) error
}

// Presenter implements the Presenter pattern (MVP architecture).
// It maps bus events onto view updates and the stage, and turns UI
// commands into service calls.
//
// Thread-safety: All operations are thread-safe via sync.Mutex.
type Presenter struct {
	logger *slog.Logger
	bus    ports.EventBus
	view   UIView

	stage     StageController
	overlay   TransitionPlayer
	renderers RendererPicker
	history   HistoryReader
	settings  SettingsController
	artwork   ArtworkPicker

	mu           sync.Mutex
	subIDs       []domain.SubscriptionID
	nowPlaying   string
	lastTrackID  string
	authNotified bool
	shutdownOnce sync.Once
}

// NewPresenter creates a new presenter, subscribes it and syncs the view.
// overlay and history may be nil.
func NewPresenter(
	logger *slog.Logger,
	bus ports.EventBus,
	view UIView,
	stage StageController,
	overlay TransitionPlayer,
	renderers RendererPicker,
	history HistoryReader,
	settings SettingsController,
) *Presenter {
	p := &Presenter{
		logger:    logger,
		bus:       bus,
		view:      view,
		stage:     stage,
		overlay:   overlay,
		renderers: renderers,
		history:   history,
		settings:  settings,
	}

	p.subscribeToEvents()
	p.syncInitialState()
	return p
}

func (p *Presenter) subscribeToEvents() {
	subscriptions := []struct {
		eventType domain.EventType
		handler   domain.EventHandler
	}{
		{domain.EventRendererChanged, p.onRendererChanged},
		{domain.EventParametersUpdated, p.onParametersUpdated},
		{domain.EventPaletteChanged, p.onPaletteChanged},
		{domain.EventPlaybackError, p.onPlaybackError},
		{domain.EventNavigation, p.onNavigation},
	}

	for _, s := range subscriptions {
		p.subIDs = append(p.subIDs, p.bus.Subscribe(s.eventType, s.handler))
	}
}

// syncInitialState brings the view in line with the services, which may
// have restored state before the window existed.
func (p *Presenter) syncInitialState() {
	active := p.renderers.Active()
	if err := p.stage.Switch(active); err != nil {
		p.logger.Warn("failed to start renderer", slog.String("renderer", string(active)), slog.Any("error", err))
	}
	p.view.SetRendererName(active.DisplayName())
	p.view.SetNowPlaying(NothingPlaying)
	p.view.SetTransitionsEnabled(p.settings.Get().TransitionsEnabled)
	p.refreshHistory()

	p.mu.Lock()
	p.nowPlaying = NothingPlaying
	p.mu.Unlock()
}

// Event handlers

func (p *Presenter) onRendererChanged(event domain.Event) {
	e, ok := event.(domain.RendererChangedEvent)
	if !ok {
		return
	}

	if err := p.stage.Switch(e.Current); err != nil {
		p.logger.Error("stage switch failed", slog.String("renderer", string(e.Current)), slog.Any("error", err))
		return
	}
	p.view.SetRendererName(e.Current.DisplayName())
}

func (p *Presenter) onParametersUpdated(event domain.Event) {
	e, ok := event.(domain.ParametersUpdatedEvent)
	if !ok {
		return
	}

	text := FormatNowPlaying(e.Track, e.Params)

	p.mu.Lock()
	p.authNotified = false
	textChanged := text != p.nowPlaying
	p.nowPlaying = text
	trackChanged := e.Params.IsPlaying && e.Track.ID != "" && e.Track.ID != p.lastTrackID
	if trackChanged {
		p.lastTrackID = e.Track.ID
	}
	p.mu.Unlock()

	if textChanged {
		p.view.SetNowPlaying(text)
	}
	if trackChanged {
		p.refreshHistory()
	}
}

func (p *Presenter) onPaletteChanged(event domain.Event) {
	e, ok := event.(domain.PaletteChangedEvent)
	if !ok {
		return
	}
	p.view.SetPalette(e.Palette)
}

func (p *Presenter) onPlaybackError(event domain.Event) {
	e, ok := event.(domain.PlaybackErrorEvent)
	if !ok || !errors.Is(e.Error, domain.ErrUnauthorized) {
		return
	}

	p.mu.Lock()
	notified := p.authNotified
	p.authNotified = true
	p.mu.Unlock()

	if !notified {
		p.view.ShowNotification("Playback Error", "The playback source rejected our credentials.")
	}
}

func (p *Presenter) onNavigation(event domain.Event) {
	if _, ok := event.(domain.NavigationEvent); !ok || p.overlay == nil {
		return
	}
	if !p.settings.Get().TransitionsEnabled {
		return
	}
	p.overlay.Trigger(p.renderers.Active())
}

func (p *Presenter) refreshHistory() {
	if p.history == nil {
		return
	}
	p.view.SetHistory(p.history.Recent(HistoryLimit))
}

// UI Command handlers (called by UI)

// OnViewSelected publishes a navigation event for the selected view.
func (p *Presenter) OnViewSelected(view string) {
	p.bus.Publish(domain.NewNavigationEvent(uuid.NewString(), view))
}

// OnRendererPicked handles a renderer chosen from the context menu.
func (p *Presenter) OnRendererPicked(kind domain.RendererKind) {
	if err := p.renderers.Select(kind); err != nil {
		p.logger.Error("renderer selection failed", slog.Any("error", err))
		p.view.ShowNotification("Visualizer Error",
			fmt.Sprintf("Failed to select renderer: %v", err))
	}
}

// OnTransitionsToggled enables or disables view transitions.
func (p *Presenter) OnTransitionsToggled(enabled bool) {
	if err := p.settings.SetTransitionsEnabled(enabled); err != nil {
		p.logger.Error("failed to save transitions setting", slog.Any("error", err))
		p.view.ShowNotification("Settings Error",
			fmt.Sprintf("Failed to save setting: %v", err))
		p.view.SetTransitionsEnabled(p.settings.Get().TransitionsEnabled)
	}
}

// SetArtworkPicker enables theming from a local file.
func (p *Presenter) SetArtworkPicker(artwork ArtworkPicker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.artwork = artwork
}

// CanPickArtwork reports whether OnArtworkFileOpened has somewhere to go.
func (p *Presenter) CanPickArtwork() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.artwork != nil
}

// OnArtworkFileOpened themes from an image or audio file the user opened.
func (p *Presenter) OnArtworkFileOpened(path string) error {
	p.mu.Lock()
	artwork := p.artwork
	p.mu.Unlock()
	if artwork == nil {
		return domain.ErrNotInitialized
	}
	if err := artwork.ApplyArtwork(path); err != nil {
		p.logger.Error("failed to theme from file",
			slog.String("path", path),
			slog.Any("error", err))
		return err
	}
	return nil
}

// Shutdown detaches the presenter from the bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		for _, id := range p.subIDs {
			p.bus.Unsubscribe(id)
		}
	})
}

// FormatNowPlaying renders the readout label, for example
// "Night Drive, Kavinsky, 128 BPM".
func FormatNowPlaying(track domain.TrackMetadata, params domain.AnimationParams) string {
	if !params.IsPlaying || track.Name == "" {
		return NothingPlaying
	}
	parts := []string{track.Name}
	if track.Artists != "" {
		parts = append(parts, track.Artists)
	}
	if params.Tempo > 0 {
		parts = append(parts, fmt.Sprintf("%d BPM", int(math.Round(params.Tempo))))
	}
	return strings.Join(parts, ", ")
}
