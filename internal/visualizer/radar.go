package visualizer

import (
	"math"
	"math/rand/v2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/palette"
)

const (
	radarBars = 128
	radarFade = 0.2
)

// radar spins a ring of radial bars with a sweep line.
type radar struct {
	rng      *rand.Rand
	env      envelope
	rotation float64
	clock    float64
}

func newRadar(rng *rand.Rand) *radar { return &radar{rng: rng} }

func (r *radar) Kind() domain.RendererKind { return domain.RendererRadar }
func (r *radar) Overscan() (float64, float64) { return 1.3, 1.3 }
func (r *radar) Amplitude() float64 { return r.env.value() }

func (r *radar) Update(f Frame) {
	r.env.step(f.Params.IsPlaying)
	amp := r.env.value()
	r.rotation += TempoScale(f.Params.Tempo) * 0.01 * amp
	r.clock += f.Delta * amp
}

func (r *radar) Draw(s *Surface, f Frame) {
	s.Fade(radarFade)
	amp := r.env.value()
	if amp == 0 {
		return
	}
	p := f.Params
	cx, cy := float64(f.Width)/2, float64(f.Height)/2
	short := math.Min(float64(f.Width), float64(f.Height))
	base := short * 0.18
	beat := math.Sin(f.Phase()*2*math.Pi) * 0.3

	for ring := 1; ring <= 3; ring++ {
		s.Circle(cx, cy, base*float64(ring)*0.9, 1, f.Palette.Border, 0.25*amp)
	}
	for i := 0; i < radarBars; i++ {
		a := float64(i) / radarBars * 2 * math.Pi
		level := math.Sin(a*3+r.clock*2)*p.Energy +
			math.Sin(a*7+r.clock*3)*p.Danceability*0.5 +
			beat + r.rng.Float64()*0.1 + 0.2
		length := math.Max(0, level) * short * 0.25 * amp
		if length < 1 {
			continue
		}
		angle := a + r.rotation
		cos, sin := math.Cos(angle), math.Sin(angle)
		c := palette.Mix(f.Palette.Primary, f.Palette.Accent, float64(i)/radarBars)
		s.Line(cx+cos*base, cy+sin*base, cx+cos*(base+length), cy+sin*(base+length), 2, c, 0.85*amp)
	}
	sweep := r.rotation * 4
	reach := base + short*0.3
	s.Line(cx, cy, cx+math.Cos(sweep)*reach, cy+math.Sin(sweep)*reach, 2, f.Palette.Complementary1, 0.5*amp)
}
