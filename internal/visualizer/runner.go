package visualizer

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// ParamSource hands out copies of the current animation parameters.
type ParamSource interface {
	Snapshot() domain.AnimationParams
}

// PaletteSource hands out the current palette.
type PaletteSource interface {
	Current() domain.Palette
}

// Runner drives one renderer on its own surface.
type Runner struct {
	renderer Renderer
	params   ParamSource
	palette  PaletteSource
	logger   *slog.Logger

	mu       sync.Mutex
	surface  *Surface
	viewport image.Point
	loop     *Loop
	started  time.Time
	last     time.Time
	frames   uint64
	panics   uint64
	stopped  bool
}

// NewRunner builds the renderer for kind with a surface sized to the
// viewport times the renderer's overscan. The loop is not started.
func NewRunner(kind domain.RendererKind, viewport image.Point, params ParamSource, palette PaletteSource, logger *slog.Logger, seed uint64) (*Runner, error) {
	r, err := NewRenderer(kind, seed)
	if err != nil {
		return nil, err
	}
	return newRunner(r, viewport, params, palette, logger), nil
}

func newRunner(r Renderer, viewport image.Point, params ParamSource, palette PaletteSource, logger *slog.Logger) *Runner {
	sx, sy := r.Overscan()
	size := OverscanSize(viewport, sx, sy)
	return &Runner{
		renderer: r,
		params:   params,
		palette:  palette,
		logger:   logger.With(slog.String("renderer", string(r.Kind()))),
		surface:  NewSurface(size.X, size.Y),
		viewport: viewport,
	}
}

// Kind of the wrapped renderer.
func (r *Runner) Kind() domain.RendererKind {
	return r.renderer.Kind()
}

// Start begins ticking at fps frames per second. A stopped runner stays stopped.
func (r *Runner) Start(fps int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loop != nil || r.stopped {
		return
	}
	if fps <= 0 {
		fps = 30
	}
	r.loop = StartLoop(time.Second/time.Duration(fps), func(now time.Time) bool {
		r.Step(now)
		return true
	})
}

// Step runs one update and draw. A panicking renderer is logged and the
// frame is dropped.
func (r *Runner) Step(now time.Time) {
	params := r.params.Snapshot()
	pal := r.palette.Current()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if r.started.IsZero() {
		r.started = now
		r.last = now
	}
	f := Frame{
		Params:  params,
		Palette: pal,
		Elapsed: now.Sub(r.started).Seconds(),
		Delta:   now.Sub(r.last).Seconds(),
		Width:   r.surface.Width(),
		Height:  r.surface.Height(),
	}
	r.last = now
	r.frames++

	defer func() {
		if rec := recover(); rec != nil {
			r.panics++
			r.logger.Error("renderer panicked",
				slog.Any("panic", rec),
				slog.Uint64("frame", r.frames))
		}
	}()
	r.renderer.Update(f)
	r.renderer.Draw(r.surface, f)
}

// Stop halts the loop and waits for any in-flight tick. Idempotent.
func (r *Runner) Stop() {
	r.mu.Lock()
	loop := r.loop
	r.loop = nil
	r.mu.Unlock()
	if loop != nil {
		loop.Stop()
	}
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}

// Amplitude is the renderer's idle-decay level.
func (r *Runner) Amplitude() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderer.Amplitude()
}

// Frames counts ticks since creation.
func (r *Runner) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Panics counts recovered renderer panics.
func (r *Runner) Panics() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.panics
}

// CompositeInto blends the viewport-sized window of the surface onto dst.
// drift in [-1,1] on each axis moves the window across the overscan margin.
func (r *Runner) CompositeInto(dst *image.RGBA, drift Point, opacity float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mx := (r.surface.Width() - r.viewport.X) / 2
	my := (r.surface.Height() - r.viewport.Y) / 2
	sp := image.Pt(
		mx+int(float64(mx)*clampSigned(drift.X)),
		my+int(float64(my)*clampSigned(drift.Y)),
	)
	r.surface.CompositeOnto(dst, sp, opacity)
}

func clampSigned(v float64) float64 {
	if v != v {
		return 0
	}
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
