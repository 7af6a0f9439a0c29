// Package viewer shows rendered charts in a window, one tab per image.
// Only the fecreport -show path imports it, so headless runs never touch a
// display.
package viewer

import (
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/lars-sto/fecreport/src/logging"
)

const appID = "io.github.lars-sto.fecreport"

// TabTitle is the tab label for a chart file.
func TabTitle(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// Tabs lays out one tab per image with its path underneath.
func Tabs(paths []string) *container.AppTabs {
	tabs := container.NewAppTabs()
	for _, p := range paths {
		img := canvas.NewImageFromFile(p)
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(640, 360))
		caption := widget.NewLabel(p)
		caption.Truncation = fyne.TextTruncateEllipsis
		tabs.Append(container.NewTabItem(TabTitle(p), container.NewBorder(nil, caption, nil, nil, img)))
	}
	tabs.SetTabLocation(container.TabLocationLeading)
	return tabs
}

// NewWindow builds the chart window on a.
func NewWindow(a fyne.App, title string, paths []string) fyne.Window {
	w := a.NewWindow(title)
	if len(paths) == 0 {
		w.SetContent(widget.NewLabel("No charts were written."))
	} else {
		w.SetContent(Tabs(paths))
	}
	w.Resize(fyne.NewSize(1280, 800))
	return w
}

// Show opens the window and blocks until it is closed.
func Show(title string, paths []string) {
	logging.Infof("showing %d charts", len(paths))
	a := app.NewWithID(appID)
	NewWindow(a, title, paths).ShowAndRun()
}
