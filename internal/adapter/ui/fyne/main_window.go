package fyne

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/ambience/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/ambience/internal/domain"
)

const (
	windowWidth  = 960
	windowHeight = 600
	marqueeWidth = 48
	scrollEvery  = 300 * time.Millisecond
)

// MainWindow is the main UI window implementing the UIView interface.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	logger *slog.Logger
	theme  *AmbienceTheme

	// UI components
	stage         *widgets.StageView
	nowPlaying    *widget.Label
	rendererLabel *widget.Label
	transitions   *widget.Check
	palette       *PaletteView
	historyList   *widget.List
	tabs          *container.AppTabs

	historyMu sync.Mutex
	history   []domain.HistoryEntry

	marquee    *widgets.Marquee
	stopScroll chan struct{}
	scrolling  sync.WaitGroup

	// Lifecycle management
	closeOnce     sync.Once
	onBeforeClose func()

	// Presenter (set after construction)
	presenter *Presenter
	version   string
}

// NewMainWindow creates the window and installs the ambience theme on app.
func NewMainWindow(app fyneapp.App, title string, stage *widgets.StageView, palette PaletteSource, logger *slog.Logger) *MainWindow {
	w := &MainWindow{
		app:        app,
		logger:     logger,
		theme:      NewAmbienceTheme(palette),
		stage:      stage,
		marquee:    widgets.NewMarquee(NothingPlaying, marqueeWidth),
		stopScroll: make(chan struct{}),
	}

	app.Settings().SetTheme(w.theme)
	w.window = app.NewWindow(title)
	w.buildUI(palette.Current())
	w.window.Resize(fyneapp.NewSize(windowWidth, windowHeight))
	w.window.SetCloseIntercept(func() {
		if w.onBeforeClose != nil {
			w.onBeforeClose()
		}
		w.Close()
	})
	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
}

// SetOnBeforeClose registers a callback run when the user closes the window.
func (w *MainWindow) SetOnBeforeClose(fn func()) {
	w.onBeforeClose = fn
}

func (w *MainWindow) buildUI(initial domain.Palette) {
	w.nowPlaying = widget.NewLabel(NothingPlaying)
	w.nowPlaying.Truncation = fyneapp.TextTruncateClip
	w.nowPlaying.TextStyle = fyneapp.TextStyle{Bold: true}
	w.rendererLabel = widget.NewLabel("")

	stack := widgets.NewContextStack(w.stage, w.rendererMenu, func() {
		w.window.SetFullScreen(!w.window.FullScreen())
	})
	header := container.NewBorder(nil, nil, nil, w.rendererLabel, w.nowPlaying)
	visualizerTab := container.NewBorder(header, nil, nil, nil, stack)

	w.palette = NewPaletteView(initial)
	w.transitions = widget.NewCheck("Play transitions when switching views", nil)
	paletteTab := container.NewBorder(nil, w.transitions, nil, nil, w.palette.Object())

	w.historyList = widget.NewList(
		w.historyLength,
		func() fyneapp.CanvasObject { return widget.NewLabel("") },
		w.updateHistoryItem,
	)

	w.tabs = container.NewAppTabs(
		container.NewTabItem(ViewVisualizer, visualizerTab),
		container.NewTabItem(ViewPalette, paletteTab),
		container.NewTabItem(ViewHistory, w.historyList),
	)
	w.window.SetContent(w.tabs)
}

func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}
	w.tabs.OnSelected = func(tab *container.TabItem) {
		w.presenter.OnViewSelected(tab.Text)
	}
	w.transitions.OnChanged = func(enabled bool) {
		w.presenter.OnTransitionsToggled(enabled)
	}
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// SetVersion sets the version line shown in the about dialog.
func (w *MainWindow) SetVersion(version string) {
	w.version = version
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	menus := make([]*fyneapp.Menu, 0, 2)
	separator := fyneapp.NewMenuItemSeparator()

	// Fyne appends Quit to the first menu.
	fileItems := make([]*fyneapp.MenuItem, 0, 3)
	if w.presenter.CanPickArtwork() {
		fileItems = append(fileItems, fyneapp.NewMenuItem("Theme from File...", w.handleOpenArtwork), separator)
	}
	fileItems = append(fileItems, fyneapp.NewMenuItem("About", func() {
		ShowAbout(w.window, w.version)
	}))
	menus = append(menus, fyneapp.NewMenu("File", fileItems...))

	if renderers := w.rendererMenu(); renderers != nil {
		menus = append(menus, renderers)
	}
	return menus
}

// handleOpenArtwork handles the "Theme from File" menu action.
func (w *MainWindow) handleOpenArtwork() {
	if w.presenter == nil {
		return
	}
	dlg := NewArtworkDialog(w.window, func(path string) {
		if err := w.presenter.OnArtworkFileOpened(path); err != nil {
			w.ShowNotification("Error", fmt.Sprintf("Failed to theme from file: %v", err))
		}
	}, w.logger)
	dlg.Show()
}

// rendererMenu lists the renderers for the stage context menu.
func (w *MainWindow) rendererMenu() *fyneapp.Menu {
	if w.presenter == nil {
		return nil
	}
	items := make([]*fyneapp.MenuItem, 0, len(domain.RendererKinds()))
	for _, kind := range domain.RendererKinds() {
		items = append(items, fyneapp.NewMenuItem(kind.DisplayName(), func() {
			w.presenter.OnRendererPicked(kind)
		}))
	}
	return fyneapp.NewMenu("Renderer", items...)
}

func (w *MainWindow) historyLength() int {
	w.historyMu.Lock()
	defer w.historyMu.Unlock()
	return len(w.history)
}

func (w *MainWindow) updateHistoryItem(id widget.ListItemID, obj fyneapp.CanvasObject) {
	w.historyMu.Lock()
	if id < 0 || id >= len(w.history) {
		w.historyMu.Unlock()
		return
	}
	e := w.history[id]
	w.historyMu.Unlock()
	obj.(*widget.Label).SetText(FormatHistoryEntry(e))
}

// FormatHistoryEntry renders one history row.
func FormatHistoryEntry(e domain.HistoryEntry) string {
	text := e.Name
	if e.Artists != "" {
		text += " by " + e.Artists
	}
	return fmt.Sprintf("%s  %s  [%s]", e.PlayedAt.Local().Format("15:04"), text, e.Renderer.DisplayName())
}

// startScrollRoutine scrolls long now-playing text.
func (w *MainWindow) startScrollRoutine() {
	w.scrolling.Add(1)
	go func() {
		defer w.scrolling.Done()
		ticker := time.NewTicker(scrollEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				text := w.marquee.Step()
				fyneapp.Do(func() { w.nowPlaying.SetText(text) })
			case <-w.stopScroll:
				return
			}
		}
	}()
}

// ShowAndRun shows the window and runs the application.
// This also starts the stage refresh and the now-playing scroll.
func (w *MainWindow) ShowAndRun(fps int) {
	w.stage.Start(fps)
	w.startScrollRoutine()
	w.window.ShowAndRun()
}

// Close closes the window and stops the background refreshes.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		close(w.stopScroll)
		w.scrolling.Wait()
		w.stage.Stop()
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// UIView interface implementation

// SetNowPlaying updates the now-playing label.
func (w *MainWindow) SetNowPlaying(text string) {
	w.marquee.SetText(text)
	shown := w.marquee.Text()
	fyneapp.Do(func() { w.nowPlaying.SetText(shown) })
}

// SetRendererName updates the renderer label.
func (w *MainWindow) SetRendererName(name string) {
	fyneapp.Do(func() { w.rendererLabel.SetText(name) })
}

// SetPalette repaints the swatches and re-applies the theme so every
// widget picks up the new colours.
func (w *MainWindow) SetPalette(p domain.Palette) {
	fyneapp.Do(func() {
		w.palette.Update(p)
		w.app.Settings().SetTheme(w.theme)
	})
}

// SetHistory replaces the history rows.
func (w *MainWindow) SetHistory(entries []domain.HistoryEntry) {
	w.historyMu.Lock()
	w.history = append([]domain.HistoryEntry(nil), entries...)
	w.historyMu.Unlock()
	fyneapp.Do(w.historyList.Refresh)
}

// SetTransitionsEnabled updates the transitions checkbox without firing
// its change handler.
func (w *MainWindow) SetTransitionsEnabled(enabled bool) {
	fyneapp.Do(func() {
		handler := w.transitions.OnChanged
		w.transitions.OnChanged = nil
		w.transitions.SetChecked(enabled)
		w.transitions.OnChanged = handler
	})
}

// ShowNotification displays a system notification.
func (w *MainWindow) ShowNotification(title, message string) {
	w.app.SendNotification(fyneapp.NewNotification(title, message))
}

// Verify UIView implementation
var _ UIView = (*MainWindow)(nil)
