package visualizer

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/logger"
	"github.com/tejashwikalptaru/ambience/internal/palette"
	"github.com/tejashwikalptaru/ambience/internal/testutil"
)

type stageClock struct{ now time.Time }

func (c *stageClock) Now() time.Time { return c.now }
func (c *stageClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStage(t *testing.T) (*Stage, *stageClock) {
	t.Helper()
	clock := &stageClock{now: time.Unix(1_700_000_000, 0)}
	s := NewStage(logger.NewTestLogger(), newStaticParams(true), defaultPalette(), StageConfig{
		Viewport:  smallViewport,
		FPS:       60,
		Crossfade: 2 * time.Second,
	})
	s.now = clock.Now
	return s, clock
}

func TestStage_FirstSwitchShowsImmediately(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)
	s, _ := newTestStage(t)
	defer s.Close()

	assert.Equal(t, domain.RendererKind(""), s.Active())
	require.NoError(t, s.Switch(domain.RendererRetro))

	assert.Equal(t, domain.RendererRetro, s.Active())
	assert.False(t, s.Fading())
	in, out := s.Weights()
	assert.Equal(t, 1.0, in)
	assert.Equal(t, 0.0, out)
}

func TestStage_Crossfade(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)
	s, clock := newTestStage(t)
	defer s.Close()

	require.NoError(t, s.Switch(domain.RendererRetro))
	require.NoError(t, s.Switch(domain.RendererRadar))
	assert.True(t, s.Fading())

	in, out := s.Weights()
	assert.Equal(t, 0.0, in)
	assert.Equal(t, 1.0, out)

	clock.Advance(time.Second)
	in, out = s.Weights()
	assert.InDelta(t, 0.5, in, 1e-9)
	assert.InDelta(t, 0.5, out, 1e-9)

	clock.Advance(time.Second)
	s.Compose(image.NewRGBA(image.Rectangle{Max: smallViewport}))
	assert.False(t, s.Fading(), "outgoing runner retired after the fade")
	assert.Equal(t, domain.RendererRadar, s.Active())
}

func TestStage_SwitchMidFadeRestarts(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)
	s, clock := newTestStage(t)
	defer s.Close()

	require.NoError(t, s.Switch(domain.RendererRetro))
	require.NoError(t, s.Switch(domain.RendererRadar))
	retro := s.outgoing

	clock.Advance(time.Second)
	require.NoError(t, s.Switch(domain.RendererOrbs))

	assert.Equal(t, domain.RendererOrbs, s.Active())
	require.NotNil(t, s.outgoing)
	assert.Equal(t, domain.RendererRadar, s.outgoing.Kind())

	n := retro.Frames()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, retro.Frames(), "oldest outgoing runner was stopped")

	in, out := s.Weights()
	assert.Equal(t, 0.0, in)
	assert.InDelta(t, 0.5, out, 1e-9, "outgoing starts from where it was")
}

func TestStage_SameKindIsNoop(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)
	s, _ := newTestStage(t)
	defer s.Close()

	require.NoError(t, s.Switch(domain.RendererMatrix))
	first := s.current
	require.NoError(t, s.Switch(domain.RendererMatrix))
	assert.Same(t, first, s.current)
	assert.False(t, s.Fading())
}

func TestStage_UnknownKind(t *testing.T) {
	s, _ := newTestStage(t)
	defer s.Close()

	assert.ErrorIs(t, s.Switch("disco"), domain.ErrUnknownRenderer)
	assert.Equal(t, domain.RendererKind(""), s.Active())
}

func TestStage_ComposeBackgroundAndScale(t *testing.T) {
	s, _ := newTestStage(t)
	defer s.Close()

	dst := image.NewRGBA(image.Rectangle{Max: smallViewport})
	s.Compose(dst)
	want := palette.Default().Background1
	want.A = 255
	assert.Equal(t, want, dst.RGBAAt(5, 5))

	big := image.NewRGBA(image.Rect(0, 0, 320, 180))
	assert.NotPanics(t, func() { s.Compose(big) })
	assert.Equal(t, want, big.RGBAAt(200, 100))
}

func TestStage_CloseIsIdempotent(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)
	s, _ := newTestStage(t)

	require.NoError(t, s.Switch(domain.RendererTunnel))
	require.NoError(t, s.Switch(domain.RendererWaveform))
	s.Close()
	s.Close()

	assert.ErrorIs(t, s.Switch(domain.RendererRetro), ErrStageClosed)
}
