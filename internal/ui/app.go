package ui

import (
	"fmt"
	"image"
	"image/color"

	"StudyBoard/internal/config"
	"StudyBoard/internal/logger"
	"StudyBoard/internal/state"
	"StudyBoard/internal/whiteboard"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// HostApp is the window of the participant who owns the board.
type HostApp struct {
	app     fyne.App
	window  fyne.Window
	board   *BoardWidget
	toolbar *Toolbar
	status  *widget.Label
	log     logger.Logger

	shareLink string
	viewers   int

	// OnCommit receives every snapshot that becomes current on the board.
	OnCommit func(snap state.Snapshot)
}

// NewHostApp builds the board window from cfg. shareLink may be empty when
// sharing is off.
func NewHostApp(cfg *config.Config, l logger.Logger, shareLink string) *HostApp {
	a := &HostApp{
		app:       app.New(),
		log:       l,
		shareLink: shareLink,
		status:    widget.NewLabel("Ready"),
	}
	a.window = a.app.NewWindow(cfg.AppName)
	a.window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	style := whiteboard.DefaultStyle()
	if c, err := whiteboard.ParseHexColor(cfg.Board.Color); err == nil {
		style.Color = c
	} else {
		l.Warn("[BOARD] Ignoring board colour", err)
	}
	style.Width = cfg.Board.Width
	style.Opacity = cfg.Board.Opacity

	a.board = NewBoardWidget(l, cfg.Board.Scale, style, whiteboard.WithHistoryLimit(cfg.Board.HistoryLimit))
	a.board.SetDownloader(newFileSaver(a.window, cfg.Export.Dir, l, a.SetStatus))
	a.toolbar = NewToolbar(a.board, a.window)
	a.toolbar.OnStatus = a.SetStatus

	a.board.OnChanged = a.toolbar.Refresh
	a.board.OnCommit = func(snap state.Snapshot) {
		if a.OnCommit != nil {
			a.OnCommit(snap)
		}
	}
	a.board.OnError = func(err error) {
		a.status.SetText("Drawing surface unavailable")
		dialog.ShowError(err, a.window)
	}

	a.addShortcuts()
	a.window.SetContent(container.NewBorder(
		nil,
		a.statusBar(),
		container.NewVScroll(a.toolbar.Content()),
		container.NewPadded(NewParticipantsPanel()),
		a.board,
	))
	return a
}

// Board returns the drawing widget.
func (a *HostApp) Board() *BoardWidget {
	return a.board
}

func (a *HostApp) statusBar() fyne.CanvasObject {
	items := []fyne.CanvasObject{a.status}
	if a.shareLink != "" {
		link := widget.NewEntry()
		link.SetText(a.shareLink)
		link.Disable()
		copyBtn := widget.NewButton("Copy link", func() {
			a.app.Clipboard().SetContent(a.shareLink)
			a.SetStatus("Share link copied")
		})
		items = append(items, widget.NewLabel("Share:"), link, copyBtn)
	}
	return container.NewHBox(items...)
}

func (a *HostApp) addShortcuts() {
	c := a.window.Canvas()
	undo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	redo := &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}
	redoShift := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	c.AddShortcut(undo, func(fyne.Shortcut) { a.board.Undo() })
	c.AddShortcut(redo, func(fyne.Shortcut) { a.board.Redo() })
	c.AddShortcut(redoShift, func(fyne.Shortcut) { a.board.Redo() })
}

// SetStatus shows msg in the status bar. Safe from any goroutine.
func (a *HostApp) SetStatus(msg string) {
	fyne.Do(func() {
		a.status.SetText(a.withViewers(msg))
	})
}

// SetViewers updates the connected viewer count. Safe from any goroutine.
func (a *HostApp) SetViewers(n int) {
	fyne.Do(func() {
		a.viewers = n
		a.status.SetText(a.withViewers("Ready"))
	})
}

func (a *HostApp) withViewers(msg string) string {
	if a.shareLink == "" {
		return msg
	}
	return fmt.Sprintf("%s | viewers: %d", msg, a.viewers)
}

// Quit closes the window. Safe from any goroutine.
func (a *HostApp) Quit() {
	fyne.Do(a.app.Quit)
}

// Run shows the window and blocks until it is closed.
func (a *HostApp) Run() {
	a.log.Info("[UI] Starting host window")
	a.window.ShowAndRun()
}

// ViewerApp is a read-only window showing a shared board.
type ViewerApp struct {
	app    fyne.App
	window fyne.Window
	image  *canvas.Image
	status *widget.Label
	log    logger.Logger
}

// NewViewerApp creates the window for watching the board at link.
func NewViewerApp(cfg *config.Config, l logger.Logger, link string) *ViewerApp {
	v := &ViewerApp{
		app:    app.New(),
		log:    l,
		status: widget.NewLabel("Connecting to " + link),
		image:  &canvas.Image{FillMode: canvas.ImageFillContain},
	}
	v.window = v.app.NewWindow(cfg.AppName + " (viewing)")
	v.window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	bg := canvas.NewRectangle(color.White)
	v.window.SetContent(container.NewBorder(nil, v.status, nil, container.NewPadded(NewParticipantsPanel()), container.NewStack(bg, v.image)))
	return v
}

// ShowFrame replaces the displayed board. Safe from any goroutine.
func (v *ViewerApp) ShowFrame(img image.Image) {
	fyne.Do(func() {
		v.image.Image = img
		v.image.Refresh()
	})
}

// SetStatus shows msg in the status bar. Safe from any goroutine.
func (v *ViewerApp) SetStatus(msg string) {
	fyne.Do(func() {
		v.status.SetText(msg)
	})
}

// OnClosed registers f to run when the window closes.
func (v *ViewerApp) OnClosed(f func()) {
	v.window.SetOnClosed(f)
}

// Run shows the window and blocks until it is closed.
func (v *ViewerApp) Run() {
	v.log.Info("[UI] Starting viewer window")
	v.window.ShowAndRun()
}
