package service

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/ambience/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/logger"
)

type scriptedRandom struct {
	values []int
	calls  int
}

func (s *scriptedRandom) IntN(n int) int {
	v := s.values[s.calls%len(s.values)] % n
	s.calls++
	return v
}

func newTestOrchestrator(rng interface{ IntN(int) int }) (*Orchestrator, *eventbus.SyncEventBus, *recorder, *recorder) {
	bus := eventbus.NewSyncEventBus()
	renderers, params := &recorder{}, &recorder{}
	bus.Subscribe(domain.EventRendererChanged, renderers.handle)
	bus.Subscribe(domain.EventParametersUpdated, params.handle)
	return NewOrchestrator(logger.NewTestLogger(), bus, rng), bus, renderers, params
}

func TestOrchestrator_Defaults(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(&scriptedRandom{values: []int{0}})
	defer o.Shutdown()

	assert.Equal(t, domain.RendererRetro, o.Active())
	assert.Equal(t, domain.DefaultAnimationParams(), o.Snapshot())
}

func TestOrchestrator_CopiesDescriptors(t *testing.T) {
	o, _, _, params := newTestOrchestrator(&scriptedRandom{values: []int{2}})
	defer o.Shutdown()

	sample := playing("a")
	sample.Descriptors = &domain.Descriptors{Tempo: 128, Energy: 0.9, Danceability: 0.7, Valence: 0.2}
	o.Apply(sample)

	want := domain.AnimationParams{Tempo: 128, Energy: 0.9, Danceability: 0.7, Valence: 0.2, IsPlaying: true}
	assert.Equal(t, want, o.Snapshot())

	ev := params.last().(domain.ParametersUpdatedEvent)
	assert.Equal(t, want, ev.Params)
	assert.Equal(t, "id-a", ev.Track.ID)

	// Pausing keeps the last descriptors so renderers decay at the same pace.
	o.Apply(domain.PlaybackSample{IsPlaying: false})
	want.IsPlaying = false
	assert.Equal(t, want, o.Snapshot())
}

func TestOrchestrator_SnapshotIsACopy(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(&scriptedRandom{values: []int{0}})
	defer o.Shutdown()

	snap := o.Snapshot()
	snap.Tempo = 999
	assert.Equal(t, 120.0, o.Snapshot().Tempo)
}

func TestOrchestrator_RendererChangesOnlyOnArtworkChange(t *testing.T) {
	seeded := func() *rand.Rand { return rand.New(rand.NewPCG(42, 7)) }
	o, _, renderers, params := newTestOrchestrator(seeded())
	defer o.Shutdown()

	oracle := seeded()
	kinds := domain.RendererKinds()

	assert.True(t, o.Apply(playing("cover-1")))
	assert.Equal(t, kinds[oracle.IntN(6)], o.Active())

	for i := 0; i < 5; i++ {
		assert.False(t, o.Apply(playing("cover-1")))
	}
	assert.False(t, o.Apply(domain.PlaybackSample{IsPlaying: true}), "empty ref never switches")
	assert.False(t, o.Apply(domain.PlaybackSample{IsPlaying: false}))
	assert.Equal(t, 1, renderers.count())

	assert.True(t, o.Apply(playing("cover-2")))
	assert.Equal(t, kinds[oracle.IntN(6)], o.Active())
	assert.Equal(t, 2, renderers.count())
	assert.Equal(t, 9, params.count(), "parameters are published on every update")
}

func TestOrchestrator_SelectionMapsRandomIndex(t *testing.T) {
	o, _, renderers, _ := newTestOrchestrator(&scriptedRandom{values: []int{4, 4, 1}})
	defer o.Shutdown()

	o.Apply(playing("a"))
	assert.Equal(t, domain.RendererTunnel, o.Active())

	o.Apply(playing("b"))
	assert.Equal(t, domain.RendererTunnel, o.Active(), "repeats are allowed")

	o.Apply(playing("c"))
	assert.Equal(t, domain.RendererWaveform, o.Active())

	require.Equal(t, 3, renderers.count())
	ev := renderers.last().(domain.RendererChangedEvent)
	assert.Equal(t, domain.RendererTunnel, ev.Previous)
	assert.Equal(t, domain.RendererWaveform, ev.Current)
	assert.Equal(t, "c", ev.ArtworkRef)
}

func TestOrchestrator_FollowsBus(t *testing.T) {
	o, bus, renderers, _ := newTestOrchestrator(&scriptedRandom{values: []int{3}})

	sample := playing("x")
	sample.Descriptors = &domain.Descriptors{Tempo: 90, Energy: 0.3, Danceability: 0.4, Valence: 0.6}
	bus.Publish(domain.NewPlaybackUpdatedEvent(sample))

	assert.Equal(t, domain.RendererMatrix, o.Active())
	assert.Equal(t, 90.0, o.Snapshot().Tempo)

	o.Shutdown()
	bus.Publish(domain.NewPlaybackUpdatedEvent(playing("y")))
	assert.Equal(t, 1, renderers.count(), "no updates after shutdown")
}

func TestOrchestrator_Restore(t *testing.T) {
	o, _, renderers, _ := newTestOrchestrator(&scriptedRandom{values: []int{0}})
	defer o.Shutdown()

	o.Restore(domain.RendererOrbs)
	assert.Equal(t, domain.RendererOrbs, o.Active())
	o.Restore("nope")
	assert.Equal(t, domain.RendererOrbs, o.Active())
	assert.Zero(t, renderers.count())
}

func TestOrchestrator_Select(t *testing.T) {
	o, _, renderers, _ := newTestOrchestrator(&scriptedRandom{values: []int{0}})
	defer o.Shutdown()

	require.NoError(t, o.Select(domain.RendererMatrix))
	assert.Equal(t, domain.RendererMatrix, o.Active())
	require.Equal(t, 1, renderers.count())
	ev := renderers.last().(domain.RendererChangedEvent)
	assert.Equal(t, domain.RendererRetro, ev.Previous)
	assert.Equal(t, domain.RendererMatrix, ev.Current)

	require.NoError(t, o.Select(domain.RendererMatrix))
	assert.Equal(t, 1, renderers.count(), "selecting the active renderer is silent")

	err := o.Select("disco")
	assert.ErrorIs(t, err, domain.ErrUnknownRenderer)
	assert.Equal(t, domain.RendererMatrix, o.Active())

	// the next artwork change picks again
	o.Apply(playing("mock://neon"))
	assert.Equal(t, domain.RendererRetro, o.Active())
	assert.Equal(t, 2, renderers.count())
}
