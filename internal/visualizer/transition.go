package visualizer

import (
	"image"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

const (
	// TransitionStep is the progress added per overlay tick.
	TransitionStep = 0.015

	transitionBlock = 40
)

// Transition is one navigation wipe themed after a renderer.
type Transition struct {
	Kind     domain.RendererKind
	Progress float64
}

// NewTransition starts a wipe at progress 0.
func NewTransition(kind domain.RendererKind) *Transition {
	return &Transition{Kind: kind}
}

// Advance steps progress and reports whether the wipe should keep running.
func (t *Transition) Advance() bool {
	t.Progress = math.Min(1, t.Progress+TransitionStep)
	return t.Progress < 1
}

// Alpha is the overall opacity at the current progress.
func (t *Transition) Alpha() float64 {
	return (1 - clamp01(t.Progress)) * 0.8
}

// Draw renders the wipe into s. Unknown kinds draw nothing.
func (t *Transition) Draw(s *Surface, pal domain.Palette) {
	p := clamp01(t.Progress)
	alpha := t.Alpha()
	if alpha <= 0 {
		return
	}
	w, h := float64(s.Width()), float64(s.Height())
	cx, cy := w/2, h/2

	switch t.Kind {
	case domain.RendererRetro:
		maxDist := math.Hypot(cx, cy)
		front := p * maxDist
		for by := 0; by < s.Height(); by += transitionBlock {
			for bx := 0; bx < s.Width(); bx += transitionBlock {
				mx := float64(bx) + transitionBlock/2
				my := float64(by) + transitionBlock/2
				dist := math.Abs(math.Hypot(mx-cx, my-cy) - front)
				a := 0.6 - dist/200
				if a <= 0 {
					continue
				}
				c := pal.Primary
				if (bx/transitionBlock+by/transitionBlock)%2 == 1 {
					c = pal.Accent
				}
				s.FillRect(image.Rect(bx, by, bx+transitionBlock-2, by+transitionBlock-2), c, a*alpha/0.8)
			}
		}
	case domain.RendererWaveform:
		pts := make([]Point, 0, int(w)/4+2)
		for x := 0.0; x <= w; x += 4 {
			pts = append(pts, Point{X: x, Y: cy + math.Sin(x*0.02+p*8)*60})
		}
		s.Polyline(pts, 5, pal.Primary, alpha)
	case domain.RendererRadar:
		r := math.Max(w, h) * p
		s.Circle(cx, cy, r, 8, pal.Accent, alpha)
		s.Circle(cx, cy, r*0.7, 3, pal.Primary, alpha*0.6)
	case domain.RendererMatrix:
		for x := 0.0; x < w; x += 30 {
			length := h*p + math.Sin(x*0.1)*100
			if length > 0 {
				s.Line(x, 0, x, length, 2, pal.Vibrant, alpha)
			}
		}
	case domain.RendererTunnel:
		for i := 0; i < 5; i++ {
			scale := (1 + 2*p) - float64(i)*0.3
			if scale <= 0 {
				continue
			}
			half := 200 * scale / 2
			r := image.Rect(int(cx-half), int(cy-half), int(cx+half), int(cy+half))
			s.StrokeRect(r, 3, swatch(pal, i), alpha)
		}
	case domain.RendererOrbs:
		for i := 0; i < 12; i++ {
			a := float64(i) / 12 * 2 * math.Pi
			d := p * 400
			s.FillCircle(cx+math.Cos(a)*d, cy+math.Sin(a)*d, 20*(1-p), swatch(pal, i), alpha)
		}
	}
}

// Overlay runs at most one Transition on its own loop and surface.
type Overlay struct {
	palette  PaletteSource
	logger   *slog.Logger
	interval time.Duration

	trigger sync.Mutex // serializes Trigger and Close

	mu      sync.Mutex
	surface *Surface
	current *Transition
	loop    *Loop
	closed  bool
}

// NewOverlay creates an idle overlay sized to viewport.
func NewOverlay(logger *slog.Logger, palette PaletteSource, viewport image.Point, fps int) *Overlay {
	if fps <= 0 {
		fps = 60
	}
	return &Overlay{
		palette:  palette,
		logger:   logger.With(slog.String("component", "overlay")),
		interval: time.Second / time.Duration(fps),
		surface:  NewSurface(viewport.X, viewport.Y),
	}
}

// Trigger stops any running wipe, then starts one for kind.
func (o *Overlay) Trigger(kind domain.RendererKind) {
	o.trigger.Lock()
	defer o.trigger.Unlock()

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	prev := o.loop
	o.loop = nil
	o.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = NewTransition(kind)
	o.redrawLocked()
	o.loop = StartLoop(o.interval, o.tick)
	o.logger.Debug("transition started", slog.String("kind", string(kind)))
}

func (o *Overlay) tick(time.Time) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return false
	}
	if !o.current.Advance() {
		o.current = nil
		o.surface.Clear()
		return false
	}
	o.redrawLocked()
	return true
}

func (o *Overlay) redrawLocked() {
	o.surface.Clear()
	o.current.Draw(o.surface, o.palette.Current())
}

// Active reports whether a wipe is on screen.
func (o *Overlay) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current != nil
}

// Progress of the running wipe, or 0 when idle.
func (o *Overlay) Progress() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return 0
	}
	return o.current.Progress
}

// Compose blends the wipe over dst. dst must be at least viewport sized.
func (o *Overlay) Compose(dst *image.RGBA) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return
	}
	o.surface.CompositeOnto(dst, image.Point{}, 1)
}

// Close stops the loop and waits for it. Idempotent.
func (o *Overlay) Close() {
	o.trigger.Lock()
	defer o.trigger.Unlock()
	o.mu.Lock()
	o.closed = true
	loop := o.loop
	o.loop = nil
	o.current = nil
	o.mu.Unlock()
	if loop != nil {
		loop.Stop()
	}
}
