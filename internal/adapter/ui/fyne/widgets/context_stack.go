package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// ContextStack wraps content with a right-click menu and a double-tap
// action. It is used around the stage for picking a renderer and toggling
// full screen.
type ContextStack struct {
	widget.BaseWidget

	content     fyne.CanvasObject
	menu        func() *fyne.Menu
	onDoubleTap func()
}

var (
	_ fyne.SecondaryTappable = (*ContextStack)(nil)
	_ fyne.DoubleTappable    = (*ContextStack)(nil)
)

// NewContextStack creates a stack around content. menu builds the context
// menu on demand and may return nil to show nothing.
func NewContextStack(content fyne.CanvasObject, menu func() *fyne.Menu, onDoubleTap func()) *ContextStack {
	t := &ContextStack{
		content:     content,
		menu:        menu,
		onDoubleTap: onDoubleTap,
	}
	t.ExtendBaseWidget(t)
	return t
}

// CreateRenderer implements fyne.Widget.
func (t *ContextStack) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.content)
}

// Tapped implements fyne.Tappable. Primary taps do nothing.
func (t *ContextStack) Tapped(*fyne.PointEvent) {}

// DoubleTapped implements fyne.DoubleTappable.
func (t *ContextStack) DoubleTapped(*fyne.PointEvent) {
	if t.onDoubleTap != nil {
		t.onDoubleTap()
	}
}

// TappedSecondary implements fyne.SecondaryTappable (right-click).
func (t *ContextStack) TappedSecondary(pe *fyne.PointEvent) {
	if t.menu == nil {
		return
	}
	m := t.menu()
	if m == nil {
		return
	}
	c := fyne.CurrentApp().Driver().CanvasForObject(t)
	if c == nil {
		return
	}
	widget.ShowPopUpMenuAtPosition(m, c, pe.AbsolutePosition)
}
