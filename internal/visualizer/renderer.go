package visualizer

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// IdleDecay is the per-tick multiplier applied to a renderer's amplitude
// while nothing is playing.
const IdleDecay = 0.92

const (
	idleFloor   = 1e-4
	attackRate  = 0.1
	attackFloor = 0.999
)

// Frame is the read-only input of one tick.
type Frame struct {
	Params  domain.AnimationParams
	Palette domain.Palette
	Elapsed float64 // seconds since the runner started
	Delta   float64 // seconds since the previous tick
	Width   int
	Height  int
}

// Phase is the beat phase of the frame.
func (f Frame) Phase() float64 {
	return BeatPhase(f.Elapsed, f.Params.Tempo)
}

// Renderer is one procedural scene. Update and Draw are called from a single
// goroutine; Amplitude may be read from any goroutine holding the runner lock.
type Renderer interface {
	Kind() domain.RendererKind
	// Overscan returns the horizontal and vertical surface scale factors.
	Overscan() (x, y float64)
	Update(f Frame)
	Draw(s *Surface, f Frame)
	// Amplitude is the idle-decay accumulator in [0,1].
	Amplitude() float64
}

// Kinds lists every renderer the factory can build.
func Kinds() []domain.RendererKind {
	return domain.RendererKinds()
}

// NewRenderer builds the renderer for kind. Randomness is drawn from a PCG
// stream seeded with seed so runs can be replayed in tests.
func NewRenderer(kind domain.RendererKind, seed uint64) (Renderer, error) {
	rng := rand.New(rand.NewPCG(seed, uint64(len(kind))))
	switch kind {
	case domain.RendererRetro:
		return newRetro(rng), nil
	case domain.RendererWaveform:
		return newWaveform(rng), nil
	case domain.RendererRadar:
		return newRadar(rng), nil
	case domain.RendererMatrix:
		return newMatrix(rng), nil
	case domain.RendererTunnel:
		return newTunnel(rng), nil
	case domain.RendererOrbs:
		return newOrbs(rng), nil
	default:
		return nil, fmt.Errorf("renderer %q: %w", kind, domain.ErrUnknownRenderer)
	}
}

// envelope eases toward 1 while playing and decays geometrically when idle.
type envelope struct {
	level float64
}

func (e *envelope) step(playing bool) {
	if playing {
		e.level += (1 - e.level) * attackRate
		if e.level > attackFloor {
			e.level = 1
		}
		return
	}
	e.level *= IdleDecay
	if e.level < idleFloor {
		e.level = 0
	}
}

func (e *envelope) value() float64 { return e.level }

// swatch picks colours out of a palette by index, wrapping around.
func swatch(p domain.Palette, i int) color.RGBA {
	set := [...]color.RGBA{p.Primary, p.Secondary, p.Accent, p.Vibrant, p.Complementary1, p.Lighter}
	if i < 0 {
		i = -i
	}
	return set[i%len(set)]
}
