package visualizer

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/palette"
)

const (
	tunnelLayers = 20
	tunnelCell   = 50
	tunnelFade   = 0.2
)

// tunnel flies through nested squares toward a swaying vanishing point.
type tunnel struct {
	rng   *rand.Rand
	env   envelope
	depth float64 // fractional scroll through one layer
	clock float64
	sway  float64
}

func newTunnel(rng *rand.Rand) *tunnel {
	return &tunnel{rng: rng, sway: rng.Float64() * 2 * math.Pi}
}

func (t *tunnel) Kind() domain.RendererKind { return domain.RendererTunnel }
func (t *tunnel) Overscan() (float64, float64) { return 1.3, 1.3 }
func (t *tunnel) Amplitude() float64 { return t.env.value() }

func (t *tunnel) Update(f Frame) {
	t.env.step(f.Params.IsPlaying)
	speed := TempoScale(f.Params.Tempo) * f.Params.Energy * 0.5 * t.env.value()
	t.depth = math.Mod(t.depth+speed*0.1, 1)
	t.clock += f.Delta
}

func (t *tunnel) Draw(s *Surface, f Frame) {
	s.Fade(tunnelFade)
	amp := t.env.value()
	if amp == 0 {
		return
	}
	w, h := float64(f.Width), float64(f.Height)
	cx := w/2 + math.Sin(t.clock*0.5+t.sway)*w*0.05
	cy := h/2 + math.Cos(t.clock*0.4+t.sway)*h*0.05
	size := (300 + f.Params.Danceability*200) * Pulse(f.Phase(), 0.3)

	var outer, inner float64
	for i := tunnelLayers - 1; i >= 0; i-- {
		d := float64(i) + 1 - t.depth
		half := size / (d * 0.35)
		if i == 0 {
			outer = half
		}
		if i == tunnelLayers-1 {
			inner = half
		}
		depthFade := 1 - d/tunnelLayers
		c := palette.Mix(f.Palette.Primary, f.Palette.Secondary, d/tunnelLayers)
		r := image.Rect(int(cx-half), int(cy-half), int(cx+half), int(cy+half))
		s.StrokeRect(r, 2, c, amp*depthFade*0.8)
	}

	// Grid rails from the nearest square to the farthest, one every cell.
	lines := int(2 * outer / tunnelCell)
	for k := 0; k <= lines; k++ {
		u := -1 + 2*float64(k)/float64(max(lines, 1))
		rails := [4][2]float64{{u, -1}, {u, 1}, {-1, u}, {1, u}}
		for _, rail := range rails {
			s.Line(cx+rail[0]*outer, cy+rail[1]*outer, cx+rail[0]*inner, cy+rail[1]*inner, 1, f.Palette.Accent, amp*0.25)
		}
	}
}
