package fyne

import (
	"image"
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/ambience/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/ambience/internal/domain"
	"github.com/tejashwikalptaru/ambience/internal/logger"
	"github.com/tejashwikalptaru/ambience/internal/palette"
	ambiencetheme "github.com/tejashwikalptaru/ambience/internal/theme"
)

type solidComposer struct{}

func (solidComposer) Compose(dst *image.RGBA) {
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 10, 20, 30, 255
	}
}

func newTestWindow(t *testing.T) (*MainWindow, *ambiencetheme.Store) {
	t.Helper()
	a := test.NewTempApp(t)
	store := ambiencetheme.NewStore()
	stage := widgets.NewStageView(solidComposer{}, nil, image.Pt(32, 18))
	w := NewMainWindow(a, "Ambience", stage, store, logger.NewTestLogger())
	t.Cleanup(func() {
		w.Close()
		store.Close()
	})
	return w, store
}

func TestMainWindow_Layout(t *testing.T) {
	w, _ := newTestWindow(t)

	require.Len(t, w.tabs.Items, 3)
	assert.Equal(t, ViewVisualizer, w.tabs.Items[0].Text)
	assert.Equal(t, ViewPalette, w.tabs.Items[1].Text)
	assert.Equal(t, ViewHistory, w.tabs.Items[2].Text)
	assert.Equal(t, NothingPlaying, w.nowPlaying.Text)
	assert.Same(t, w.theme, w.app.Settings().Theme())
}

func TestMainWindow_ViewUpdates(t *testing.T) {
	w, _ := newTestWindow(t)

	w.SetNowPlaying("Song, Band, 90 BPM")
	assert.Equal(t, "Song, Band, 90 BPM", w.nowPlaying.Text)

	w.SetRendererName("Radar")
	assert.Equal(t, "Radar", w.rendererLabel.Text)

	p := palette.Default()
	p.Primary = color.RGBA{R: 1, G: 2, B: 3, A: 255}
	w.SetPalette(p)
	assert.Equal(t, color.Color(p.Primary), w.palette.swatches[8].FillColor, "slot 9 is primary")

	w.SetHistory([]domain.HistoryEntry{
		{TrackID: "a", Name: "One", Renderer: domain.RendererOrbs, PlayedAt: time.Now()},
		{TrackID: "b", Name: "Two", Renderer: domain.RendererRetro, PlayedAt: time.Now()},
	})
	assert.Equal(t, 2, w.historyLength())
}

func TestMainWindow_TransitionsCheckIsQuiet(t *testing.T) {
	w, _ := newTestWindow(t)
	fired := 0
	w.transitions.OnChanged = func(bool) { fired++ }

	w.SetTransitionsEnabled(true)
	assert.True(t, w.transitions.Checked)
	assert.Zero(t, fired)

	test.Tap(w.transitions)
	assert.False(t, w.transitions.Checked)
	assert.Equal(t, 1, fired)
}

func TestMainWindow_TabSelectionPublishesNavigation(t *testing.T) {
	w, _ := newTestWindow(t)
	f := newPresenterFixture(t)
	w.SetPresenter(f.p)

	var views []string
	f.bus.Subscribe(domain.EventNavigation, func(e domain.Event) {
		views = append(views, e.(domain.NavigationEvent).View)
	})

	w.tabs.SelectIndex(2)
	assert.Equal(t, []string{ViewHistory}, views)
	assert.Equal(t, []domain.RendererKind{domain.RendererTunnel}, f.overlay.triggered)
}

func TestFormatHistoryEntry(t *testing.T) {
	at := time.Date(2026, 3, 1, 21, 5, 0, 0, time.Local)
	e := domain.HistoryEntry{Name: "Song", Artists: "Band", Renderer: domain.RendererMatrix, PlayedAt: at}
	assert.Equal(t, "21:05  Song by Band  [Matrix Rain]", FormatHistoryEntry(e))
}

func TestMainWindow_MainMenu(t *testing.T) {
	w, _ := newTestWindow(t)
	f := newPresenterFixture(t)
	f.p.SetArtworkPicker(&fakeArtwork{})
	w.SetPresenter(f.p)

	menu := w.window.MainMenu()
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, "File", menu.Items[0].Label)
	assert.Equal(t, "Theme from File...", menu.Items[0].Items[0].Label)
	assert.Equal(t, "Renderer", menu.Items[1].Label)
	assert.Len(t, menu.Items[1].Items, len(domain.RendererKinds()))

	menu.Items[1].Items[0].Action()
	assert.Equal(t, domain.RendererKinds()[0], f.picker.Active())
}
