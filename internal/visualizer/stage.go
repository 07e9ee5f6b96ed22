package visualizer

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// ErrStageClosed is returned by Switch after Close.
var ErrStageClosed = errors.New("stage closed")

// DefaultCrossfade is the renderer switch fade duration.
const DefaultCrossfade = 2 * time.Second

// StageConfig sizes and paces a Stage.
type StageConfig struct {
	Viewport  image.Point
	FPS       int
	Crossfade time.Duration
}

// DefaultStageConfig is a 960×540 viewport at 30 FPS.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		Viewport:  image.Pt(960, 540),
		FPS:       30,
		Crossfade: DefaultCrossfade,
	}
}

// Stage owns the active runner and cross-fades to a new one on Switch.
type Stage struct {
	cfg     StageConfig
	params  ParamSource
	palette PaletteSource
	logger  *slog.Logger
	now     func() time.Time

	mu        sync.Mutex
	current   *Runner
	outgoing  *Runner
	fadeStart time.Time
	fadeFrom  float64
	created   time.Time
	seed      uint64
	frame     *image.RGBA
	closed    bool
}

// NewStage creates an empty stage. Call Switch to start the first renderer.
func NewStage(logger *slog.Logger, params ParamSource, palette PaletteSource, cfg StageConfig) *Stage {
	def := DefaultStageConfig()
	if cfg.Viewport.X <= 0 || cfg.Viewport.Y <= 0 {
		cfg.Viewport = def.Viewport
	}
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	if cfg.Crossfade < 0 {
		cfg.Crossfade = 0
	}
	now := time.Now()
	return &Stage{
		cfg:     cfg,
		params:  params,
		palette: palette,
		logger:  logger.With(slog.String("component", "stage")),
		now:     time.Now,
		created: now,
		seed:    uint64(now.UnixNano()),
		frame:   image.NewRGBA(image.Rectangle{Max: cfg.Viewport}),
	}
}

// Switch starts a runner for kind and fades the current one out. Switching
// to the kind already showing is a no-op. A switch during a fade stops the
// oldest outgoing runner and restarts the fade.
func (s *Stage) Switch(kind domain.RendererKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStageClosed
	}
	if s.current != nil && s.current.Kind() == kind {
		return nil
	}
	s.seed++
	next, err := NewRunner(kind, s.cfg.Viewport, s.params, s.palette, s.logger, s.seed)
	if err != nil {
		return err
	}

	now := s.now()
	from := 1.0
	if s.outgoing != nil {
		from, _ = s.weightsLocked(now)
		s.outgoing.Stop()
		s.outgoing = nil
	}
	next.Start(s.cfg.FPS)

	prev := s.current
	s.current = next
	if prev != nil {
		s.outgoing = prev
		s.fadeStart = now
		s.fadeFrom = from
	}
	s.logger.Debug("renderer switched",
		slog.String("to", string(kind)),
		slog.Bool("fading", prev != nil))
	return nil
}

// weightsLocked returns the opacity of the current and outgoing runners.
func (s *Stage) weightsLocked(now time.Time) (in, out float64) {
	if s.outgoing == nil {
		return 1, 0
	}
	t := 1.0
	if s.cfg.Crossfade > 0 {
		t = float64(now.Sub(s.fadeStart)) / float64(s.cfg.Crossfade)
	}
	e := Smoothstep(t)
	return e, s.fadeFrom * (1 - e)
}

// Active is the kind of the current runner, or "" before the first Switch.
func (s *Stage) Active() domain.RendererKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Kind()
}

// Fading reports whether an outgoing runner is still on screen.
func (s *Stage) Fading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outgoing != nil
}

// Weights exposes the current fade opacities.
func (s *Stage) Weights() (in, out float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weightsLocked(s.now())
}

// Compose draws the blended frame into dst, scaling from the viewport when
// dst has a different size. A completed fade retires the outgoing runner.
func (s *Stage) Compose(dst *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	in, out := s.weightsLocked(now)
	if s.outgoing != nil && in >= 1 {
		s.outgoing.Stop()
		s.outgoing = nil
		out = 0
	}

	bg := s.palette.Current().Background1
	bg.A = 255
	fillRGBA(s.frame, bg)
	el := now.Sub(s.created).Seconds()
	drift := Point{X: math.Sin(el*0.13) * 0.5, Y: math.Cos(el*0.11) * 0.5}
	if s.outgoing != nil {
		s.outgoing.CompositeInto(s.frame, drift, out)
	}
	if s.current != nil {
		s.current.CompositeInto(s.frame, drift, in)
	}

	if dst.Rect.Size() == s.frame.Rect.Size() {
		xdraw.Copy(dst, dst.Rect.Min, s.frame, s.frame.Rect, xdraw.Src, nil)
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, s.frame, s.frame.Rect, xdraw.Src, nil)
}

// Close stops every runner. Idempotent.
func (s *Stage) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, r := range []*Runner{s.outgoing, s.current} {
		if r != nil {
			r.Stop()
		}
	}
	s.outgoing = nil
	s.current = nil
}

func fillRGBA(img *image.RGBA, c color.RGBA) {
	p := img.Pix
	for i := 0; i < len(p); i += 4 {
		p[i], p[i+1], p[i+2], p[i+3] = c.R, c.G, c.B, c.A
	}
}
