package visualizer

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

const (
	retroBars    = 32
	retroSpring  = 0.15
	retroDamping = 0.75
	retroFade    = 0.15
	retroBlock   = 8
)

// retro is a chunky spectrum of spring-driven bars.
type retro struct {
	rng     *rand.Rand
	env     envelope
	heights [retroBars]float64 // fraction of surface height
	vel     [retroBars]float64
}

func newRetro(rng *rand.Rand) *retro { return &retro{rng: rng} }

func (r *retro) Kind() domain.RendererKind { return domain.RendererRetro }
func (r *retro) Overscan() (float64, float64) { return 1.2, 1.2 }
func (r *retro) Amplitude() float64 { return r.env.value() }

func (r *retro) Update(f Frame) {
	p := f.Params
	r.env.step(p.IsPlaying)
	if !p.IsPlaying {
		for i := range r.heights {
			r.heights[i] *= IdleDecay
			r.vel[i] *= 0.9
		}
		return
	}
	beat := 0.6 + 0.4*math.Sin(f.Phase()*2*math.Pi)
	for i := range r.heights {
		ratio := float64(i) / retroBars
		var target float64
		switch {
		case ratio < 0.25:
			target = p.Energy * beat * (0.7 + r.rng.Float64()*0.3)
		case ratio < 0.7:
			target = p.Danceability * (0.5 + 0.5*beat) * (0.6 + r.rng.Float64()*0.4)
		default:
			target = (p.Energy + p.Danceability) / 2 * (0.5 + r.rng.Float64()*0.5)
		}
		target *= 0.8
		r.vel[i] += (target - r.heights[i]) * retroSpring
		r.vel[i] *= retroDamping
		r.heights[i] = math.Max(0, r.heights[i]+r.vel[i])
	}
}

func (r *retro) Draw(s *Surface, f Frame) {
	s.Fade(retroFade)
	amp := r.env.value()
	if amp == 0 {
		return
	}
	w, h := float64(f.Width), float64(f.Height)
	slot := w / retroBars
	barW := int(slot * 0.7)
	for i, bh := range r.heights {
		ratio := float64(i) / retroBars
		c := f.Palette.Vibrant
		switch {
		case ratio < 0.25:
			c = f.Palette.Primary
		case ratio < 0.7:
			c = f.Palette.Accent
		}
		x := int(float64(i)*slot + slot*0.15)
		top := h - math.Min(bh, 1)*h
		for y := int(h) - retroBlock; float64(y) >= top; y -= retroBlock + 2 {
			s.FillRect(image.Rect(x, y, x+barW, y+retroBlock), c, amp*0.9)
		}
	}
}
