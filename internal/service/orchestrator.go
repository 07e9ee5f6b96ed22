package service

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/ports"
)

// NewTimeSeededRandom is the production renderer picker.
func NewTimeSeededRandom() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>17|1))
}

// Orchestrator maps playback samples onto animation parameters and picks a
// renderer whenever the artwork changes.
type Orchestrator struct {
	logger *slog.Logger
	bus    ports.EventBus

	params atomic.Pointer[domain.AnimationParams]

	mu      sync.Mutex
	rng     ports.Random
	lastRef string
	active  domain.RendererKind
	track   domain.TrackMetadata
	subID   domain.SubscriptionID
}

// NewOrchestrator creates the orchestrator and subscribes it to playback updates.
func NewOrchestrator(logger *slog.Logger, bus ports.EventBus, rng ports.Random) *Orchestrator {
	o := &Orchestrator{
		logger: logger.With(slog.String("service", "orchestrator")),
		bus:    bus,
		rng:    rng,
		active: domain.DefaultRenderer,
	}
	initial := domain.DefaultAnimationParams()
	o.params.Store(&initial)
	o.subID = bus.Subscribe(domain.EventPlaybackUpdated, func(e domain.Event) {
		if ev, ok := e.(domain.PlaybackUpdatedEvent); ok {
			o.Apply(ev.Sample)
		}
	})
	return o
}

// Apply folds one sample into a fresh snapshot. It returns true when a new
// renderer was selected, which only happens on an artwork change.
func (o *Orchestrator) Apply(sample domain.PlaybackSample) bool {
	o.mu.Lock()
	next := *o.params.Load()
	if sample.Descriptors != nil {
		next = next.WithDescriptors(*sample.Descriptors)
	}
	next.IsPlaying = sample.IsPlaying
	o.params.Store(&next)

	if sample.HasTrack() {
		o.track = sample.Track
	}
	track := o.track
	prev := o.active
	changed := false
	ref := sample.ArtworkRef
	if ref != "" && ref != o.lastRef {
		kinds := domain.RendererKinds()
		o.active = kinds[o.rng.IntN(len(kinds))]
		o.lastRef = ref
		changed = true
	}
	active := o.active
	o.mu.Unlock()

	if changed {
		o.logger.Info("renderer selected",
			slog.String("renderer", string(active)),
			slog.String("previous", string(prev)),
			slog.String("track", track.Name))
		o.bus.Publish(domain.NewRendererChangedEvent(prev, active, ref))
	}
	o.bus.Publish(domain.NewParametersUpdatedEvent(next, active, track))
	return changed
}

// Snapshot returns a copy of the current animation parameters.
func (o *Orchestrator) Snapshot() domain.AnimationParams {
	return *o.params.Load()
}

// Active is the renderer chosen for the current artwork.
func (o *Orchestrator) Active() domain.RendererKind {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Track is the most recent track identity seen.
func (o *Orchestrator) Track() domain.TrackMetadata {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.track
}

// Restore sets the active renderer without an artwork change, used to
// bring back the renderer from the previous session. Invalid kinds are ignored.
func (o *Orchestrator) Restore(kind domain.RendererKind) {
	if !kind.Valid() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = kind
}

// Select makes kind the active renderer on request of the user. The choice
// holds until the next artwork change.
func (o *Orchestrator) Select(kind domain.RendererKind) error {
	if !kind.Valid() {
		return fmt.Errorf("select renderer: %w: %q", domain.ErrUnknownRenderer, kind)
	}
	o.mu.Lock()
	prev := o.active
	ref := o.lastRef
	o.active = kind
	o.mu.Unlock()

	if prev == kind {
		return nil
	}
	o.logger.Info("renderer selected by user",
		slog.String("renderer", string(kind)),
		slog.String("previous", string(prev)))
	o.bus.Publish(domain.NewRendererChangedEvent(prev, kind, ref))
	return nil
}

// Shutdown detaches the orchestrator from the bus.
func (o *Orchestrator) Shutdown() {
	o.bus.Unsubscribe(o.subID)
}
