package fyne

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/ambience/res"
)

// ArtworkExtensions are the files the artwork dialog offers: images, and
// audio files that may carry an embedded cover.
var ArtworkExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".mp3", ".flac", ".m4a", ".ogg"}

// ArtworkDialog is a file open dialog limited to artwork sources.
type ArtworkDialog struct {
	window   fyne.Window
	callback func(string)
	logger   *slog.Logger
}

// NewArtworkDialog creates a new artwork dialog.
func NewArtworkDialog(window fyne.Window, callback func(string), logger *slog.Logger) *ArtworkDialog {
	return &ArtworkDialog{
		window:   window,
		callback: callback,
		logger:   logger,
	}
}

// Show displays the dialog.
func (d *ArtworkDialog) Show() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			d.logger.Error("artwork dialog error", slog.Any("error", err))
			return
		}
		if reader == nil {
			return // User cancelled
		}
		defer reader.Close()

		if d.callback != nil {
			d.callback(reader.URI().Path())
		}
	}, d.window)
	open.SetFilter(storage.NewExtensionFileFilter(ArtworkExtensions))
	open.Show()
}

// ShowAbout displays the about dialog with the given version line.
func ShowAbout(window fyne.Window, version string) {
	body := widget.NewRichTextFromMarkdown(res.AboutContent + "\n\n" + version)
	body.Wrapping = fyne.TextWrapWord
	dialog.ShowCustom("About", "Close", body, window)
}
