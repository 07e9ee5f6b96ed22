package visualizer

import (
	"math/rand/v2"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

const (
	matrixCell    = 20
	matrixFade    = 0.08
	matrixGlyphs  = "0123456789ABCDEF<>*+=-:;$#@%&"
	matrixMutate  = 0.05
	matrixMinLen  = 10
	matrixMaxLen  = 40
	matrixMinFall = 2
	matrixMaxFall = 8
)

type column struct {
	y      float64 // head position in pixels
	speed  float64
	length int
	glyphs []byte
}

// matrix rains columns of glyphs.
type matrix struct {
	rng     *rand.Rand
	env     envelope
	columns []column
}

func newMatrix(rng *rand.Rand) *matrix { return &matrix{rng: rng} }

func (m *matrix) Kind() domain.RendererKind { return domain.RendererMatrix }
func (m *matrix) Overscan() (float64, float64) { return 1.2, 1.2 }
func (m *matrix) Amplitude() float64 { return m.env.value() }

func (m *matrix) reset(c *column, height int, scatter bool) {
	c.speed = matrixMinFall + m.rng.Float64()*(matrixMaxFall-matrixMinFall)
	c.length = matrixMinLen + m.rng.IntN(matrixMaxLen-matrixMinLen+1)
	if cap(c.glyphs) < c.length {
		c.glyphs = make([]byte, c.length)
	}
	c.glyphs = c.glyphs[:c.length]
	for i := range c.glyphs {
		c.glyphs[i] = m.glyph()
	}
	c.y = 0
	if scatter {
		c.y = m.rng.Float64() * float64(height)
	}
}

func (m *matrix) glyph() byte {
	return matrixGlyphs[m.rng.IntN(len(matrixGlyphs))]
}

func (m *matrix) Update(f Frame) {
	m.env.step(f.Params.IsPlaying)
	if n := f.Width / matrixCell; len(m.columns) != n {
		m.columns = make([]column, n)
		for i := range m.columns {
			m.reset(&m.columns[i], f.Height, true)
		}
	}
	mult := TempoScale(f.Params.Tempo) * (0.5 + f.Params.Energy) * m.env.value()
	for i := range m.columns {
		c := &m.columns[i]
		c.y += c.speed * mult
		if c.y-float64(c.length*matrixCell) > float64(f.Height) {
			m.reset(c, f.Height, false)
		}
		if m.rng.Float64() < matrixMutate {
			c.glyphs[m.rng.IntN(len(c.glyphs))] = m.glyph()
		}
	}
}

func (m *matrix) Draw(s *Surface, f Frame) {
	s.Fade(matrixFade)
	amp := m.env.value()
	if amp == 0 {
		return
	}
	for i, c := range m.columns {
		x := i*matrixCell + 6
		head := int(c.y)
		if head < 0 {
			continue
		}
		cells := head / matrixCell
		// Head glyph plus the one behind it; the fade leaves the rest as a trail.
		s.Text(x, head, string(c.glyphs[cells%len(c.glyphs)]), f.Palette.Lighter, amp)
		if cells > 0 {
			s.Text(x, head-matrixCell, string(c.glyphs[(cells-1)%len(c.glyphs)]), f.Palette.Primary, amp*0.7)
		}
	}
}
