// Package widgets provides custom Fyne widgets for the ambience window.
package widgets

import (
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"github.com/tejashwikalptaru/ambience/internal/visualizer"
)

// Composer draws a layer into a viewport sized frame.
// *visualizer.Stage and *visualizer.Overlay satisfy it.
type Composer interface {
	Compose(dst *image.RGBA)
}

// StageView is a widget that displays the visualizer stage with the
// transition overlay on top. Frames are composed at the viewport size and
// scaled to the widget.
type StageView struct {
	widget.BaseWidget

	raster   *canvas.Raster
	stage    Composer
	overlay  Composer
	viewport image.Point

	mu     sync.Mutex
	frame  *image.RGBA
	loop   *visualizer.Loop
	frames uint64
}

// NewStageView creates the widget. overlay may be nil.
func NewStageView(stage, overlay Composer, viewport image.Point) *StageView {
	v := &StageView{
		stage:    stage,
		overlay:  overlay,
		viewport: viewport,
		frame:    image.NewRGBA(image.Rectangle{Max: viewport}),
	}
	v.raster = canvas.NewRaster(v.Render)
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *StageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize keeps the stage visible at a 16:9 thumbnail size.
func (v *StageView) MinSize() fyne.Size {
	return fyne.NewSize(320, 180)
}

// Render is the raster generator. It composes a frame and returns it
// scaled to w x h.
func (v *StageView) Render(w, h int) image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.stage.Compose(v.frame)
	if v.overlay != nil {
		v.overlay.Compose(v.frame)
	}
	v.frames++

	out := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if out.Rect.Size() == v.frame.Rect.Size() {
		copy(out.Pix, v.frame.Pix)
		return out
	}
	xdraw.ApproxBiLinear.Scale(out, out.Rect, v.frame, v.frame.Rect, xdraw.Src, nil)
	return out
}

// Frames returns the number of frames rendered so far.
func (v *StageView) Frames() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frames
}

// Start refreshes the widget fps times per second until Stop.
func (v *StageView) Start(fps int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loop != nil {
		return
	}
	interval := time.Second / time.Duration(max(fps, 1))
	v.loop = visualizer.StartLoop(interval, func(time.Time) bool {
		fyne.Do(v.raster.Refresh)
		return true
	})
}

// Stop halts the refresh loop and waits for it. Idempotent.
func (v *StageView) Stop() {
	v.mu.Lock()
	loop := v.loop
	v.loop = nil
	v.mu.Unlock()
	if loop != nil {
		loop.Stop()
	}
}
