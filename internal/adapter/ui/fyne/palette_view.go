package fyne

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/ambience/internal/domain"
)

// PaletteView shows every palette slot as a swatch with its name and hex code.
type PaletteView struct {
	swatches []*canvas.Rectangle
	labels   []*widget.Label
	content  fyne.CanvasObject
}

// NewPaletteView creates the swatch grid filled with p.
func NewPaletteView(p domain.Palette) *PaletteView {
	slots := p.Slots()
	v := &PaletteView{
		swatches: make([]*canvas.Rectangle, len(slots)),
		labels:   make([]*widget.Label, len(slots)),
	}

	cells := make([]fyne.CanvasObject, 0, len(slots))
	for i := range slots {
		rect := canvas.NewRectangle(color.Black)
		rect.SetMinSize(fyne.NewSize(40, 28))
		rect.CornerRadius = 4
		label := widget.NewLabel("")
		v.swatches[i] = rect
		v.labels[i] = label
		cells = append(cells, container.NewBorder(nil, nil, rect, nil, label))
	}
	v.content = container.NewVScroll(container.NewGridWithColumns(3, cells...))
	v.Update(p)
	return v
}

// Update repaints the swatches. Must run on the Fyne thread.
func (v *PaletteView) Update(p domain.Palette) {
	for i, s := range p.Slots() {
		v.swatches[i].FillColor = s.Color
		v.swatches[i].Refresh()
		v.labels[i].SetText(s.Name + "  " + domain.Hex(s.Color))
	}
}

// Object returns the canvas object to place in a container.
func (v *PaletteView) Object() fyne.CanvasObject {
	return v.content
}
