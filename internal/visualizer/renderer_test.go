package visualizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

func TestNewRenderer_AllKinds(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 6)
	for _, k := range kinds {
		r, err := NewRenderer(k, 1)
		require.NoError(t, err, k)
		assert.Equal(t, k, r.Kind())
		sx, sy := r.Overscan()
		assert.GreaterOrEqual(t, sx, 1.0)
		assert.GreaterOrEqual(t, sy, 1.0)
		assert.Zero(t, r.Amplitude(), "%s starts idle", k)
	}
}

func TestNewRenderer_Unknown(t *testing.T) {
	_, err := NewRenderer("lava-lamp", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownRenderer)
}

func TestRenderers_DrawWhilePlaying(t *testing.T) {
	params := newStaticParams(true).Snapshot()
	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			r, err := NewRenderer(k, 7)
			require.NoError(t, err)
			s := surfaceFor(r)
			for i := 0; i < 30; i++ {
				f := frameFor(r, params, i)
				r.Update(f)
				r.Draw(s, f)
			}
			assert.Greater(t, r.Amplitude(), 0.9)
			assert.True(t, hasInk(s.Image()), "%s drew nothing", k)
		})
	}
}

func TestRenderers_IdleDecay(t *testing.T) {
	playing := newStaticParams(true).Snapshot()
	idle := playing
	idle.IsPlaying = false

	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			r, err := NewRenderer(k, 3)
			require.NoError(t, err)
			s := surfaceFor(r)
			tick := 0
			for ; tick < 60; tick++ {
				f := frameFor(r, playing, tick)
				r.Update(f)
				r.Draw(s, f)
			}

			prev := r.Amplitude()
			for i := 0; i < 400; i++ {
				f := frameFor(r, idle, tick)
				tick++
				r.Update(f)
				r.Draw(s, f)
				cur := r.Amplitude()
				if prev > 0 {
					assert.Less(t, cur, prev, "tick %d", i)
				} else {
					assert.Zero(t, cur)
				}
				prev = cur
			}
			assert.Zero(t, r.Amplitude())
			assert.False(t, hasInk(s.Image()), "%s should fade out completely", k)
		})
	}
}

func TestEnvelope(t *testing.T) {
	var e envelope
	for i := 0; i < 200; i++ {
		e.step(true)
	}
	assert.Equal(t, 1.0, e.value())

	e.step(false)
	assert.InDelta(t, IdleDecay, e.value(), 1e-12)

	e.level = 1.05e-4
	e.step(false)
	assert.Zero(t, e.value(), "snaps to zero under the floor")
}
