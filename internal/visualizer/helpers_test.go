package visualizer

import (
	"image"
	"sync"

	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/palette"
)

type staticParams struct {
	mu sync.Mutex
	p  domain.AnimationParams
}

func newStaticParams(playing bool) *staticParams {
	p := domain.DefaultAnimationParams()
	p.IsPlaying = playing
	p.Energy = 0.8
	p.Danceability = 0.7
	p.Valence = 0.8
	return &staticParams{p: p}
}

func (s *staticParams) Snapshot() domain.AnimationParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p
}

func (s *staticParams) setPlaying(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.IsPlaying = v
}

type staticPalette struct{ p domain.Palette }

func (s staticPalette) Current() domain.Palette { return s.p }

func defaultPalette() staticPalette { return staticPalette{p: palette.Default()} }

var smallViewport = image.Pt(160, 90)

func frameFor(r Renderer, params domain.AnimationParams, tick int) Frame {
	sx, sy := r.Overscan()
	size := OverscanSize(smallViewport, sx, sy)
	return Frame{
		Params:  params,
		Palette: palette.Default(),
		Elapsed: float64(tick) / 30,
		Delta:   1.0 / 30,
		Width:   size.X,
		Height:  size.Y,
	}
}

func surfaceFor(r Renderer) *Surface {
	sx, sy := r.Overscan()
	size := OverscanSize(smallViewport, sx, sy)
	return NewSurface(size.X, size.Y)
}

func hasInk(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return true
		}
	}
	return false
}
