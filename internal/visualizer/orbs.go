package visualizer

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/harmonica"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

const (
	orbCount    = 12
	orbFade     = 0.05
	orbLinkDist = 400
	orbRetarget = 0.99
)

type orb struct {
	x, y   float64 // normalized [0,1]
	vx, vy float64
	tx, ty float64
	radius float64
	tint   int
}

// orbs floats glowing spheres toward wandering targets and links
// the ones that drift close.
type orbs struct {
	rng    *rand.Rand
	env    envelope
	spring harmonica.Spring
	orbs   [orbCount]orb
}

func newOrbs(rng *rand.Rand) *orbs {
	o := &orbs{
		rng:    rng,
		spring: harmonica.NewSpring(harmonica.FPS(30), 2.0, 0.6),
	}
	for i := range o.orbs {
		o.orbs[i] = orb{
			x: rng.Float64(), y: rng.Float64(),
			tx: rng.Float64(), ty: rng.Float64(),
			radius: 20 + rng.Float64()*30,
			tint:   i,
		}
	}
	return o
}

func (o *orbs) Kind() domain.RendererKind { return domain.RendererOrbs }
func (o *orbs) Overscan() (float64, float64) { return 1.4, 1.4 }
func (o *orbs) Amplitude() float64 { return o.env.value() }

func (o *orbs) Update(f Frame) {
	o.env.step(f.Params.IsPlaying)
	amp := o.env.value()
	// Energy speeds the chase by stepping the spring more than once.
	steps := 1 + int(f.Params.Energy*2*amp)
	for i := range o.orbs {
		b := &o.orbs[i]
		if o.rng.Float64() > orbRetarget {
			b.tx, b.ty = o.rng.Float64(), o.rng.Float64()
		}
		if amp == 0 {
			continue
		}
		for range steps {
			b.x, b.vx = o.spring.Update(b.x, b.vx*amp, b.tx)
			b.y, b.vy = o.spring.Update(b.y, b.vy*amp, b.ty)
		}
	}
}

func (o *orbs) Draw(s *Surface, f Frame) {
	s.Fade(orbFade)
	amp := o.env.value()
	if amp == 0 {
		return
	}
	w, h := float64(f.Width), float64(f.Height)
	pulse := Pulse(f.Phase(), 0.3*f.Params.Danceability)
	for i := 0; i < orbCount; i++ {
		a := o.orbs[i]
		for j := i + 1; j < orbCount; j++ {
			b := o.orbs[j]
			d := math.Hypot((a.x-b.x)*w, (a.y-b.y)*h)
			if d < orbLinkDist {
				s.Line(a.x*w, a.y*h, b.x*w, b.y*h, 1, f.Palette.Light, (1-d/orbLinkDist)*0.3*amp)
			}
		}
	}
	for _, b := range o.orbs {
		r := b.radius * pulse * (0.6 + 0.4*amp)
		s.Glow(b.x*w, b.y*h, r*2, swatch(f.Palette, b.tint), 0.35*amp)
		s.FillCircle(b.x*w, b.y*h, r*0.35, swatch(f.Palette, b.tint), 0.8*amp)
	}
}
