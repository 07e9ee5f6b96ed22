package visualizer

import (
	"math"
	"math/rand/v2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

const (
	waveLayers = 5
	waveStep   = 4
	waveFade   = 0.1
)

// waveform layers five harmonic-rich sine waves.
type waveform struct {
	rng   *rand.Rand
	env   envelope
	clock float64
	pts   []Point
}

func newWaveform(rng *rand.Rand) *waveform { return &waveform{rng: rng} }

func (w *waveform) Kind() domain.RendererKind { return domain.RendererWaveform }
func (w *waveform) Overscan() (float64, float64) { return 1.2, 1.4 }
func (w *waveform) Amplitude() float64 { return w.env.value() }

func (w *waveform) Update(f Frame) {
	w.env.step(f.Params.IsPlaying)
	w.clock += 0.02 * TempoScale(f.Params.Tempo) * w.env.value()
}

func (w *waveform) Draw(s *Surface, f Frame) {
	s.Fade(waveFade)
	amp := w.env.value()
	if amp == 0 {
		return
	}
	p := f.Params
	width, height := float64(f.Width), float64(f.Height)
	pulse := Pulse(f.Phase(), 0.15)
	ripple := 0.0
	if p.Valence > 0.6 {
		ripple = (p.Valence - 0.6) / 0.4
	}
	for layer := 0; layer < waveLayers; layer++ {
		lf := float64(layer)
		a := (height / 4) * p.Energy * (1 + lf*0.2) * pulse * amp
		freq := 3 + lf*0.5
		shift := w.clock * (1 + lf*0.3) * 2 * math.Pi
		w.pts = w.pts[:0]
		for x := 0.0; x <= width; x += waveStep {
			arg := x/width*freq*2*math.Pi + shift
			y := math.Sin(arg) + math.Sin(2*arg)*0.3 + math.Sin(3*arg)*0.15
			if ripple > 0 {
				y += math.Sin(x*0.2+w.clock*10) * 0.1 * ripple
			}
			w.pts = append(w.pts, Point{X: x, Y: height/2 + y*a})
		}
		s.Polyline(w.pts, 3, swatch(f.Palette, layer), (0.8-lf*0.12)*amp)
	}
}
