package ui

import (
	"image"
	"image/color"

	"StudyBoard/internal/logger"
	"StudyBoard/internal/state"
	"StudyBoard/internal/whiteboard"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// BoardWidget hosts a whiteboard.Surface in a fyne window. The surface is
// created on first layout, sized to the widget at that moment.
type BoardWidget struct {
	widget.BaseWidget

	log        logger.Logger
	pixelScale float32
	opts       []whiteboard.Option
	tool       whiteboard.Tool
	style      whiteboard.Style
	downloader whiteboard.Downloader

	surface *whiteboard.Surface
	failed  bool
	area    fyne.Size
	image   *canvas.Image

	entry *textEntry
	popup *widget.PopUp

	// OnReady is called once the surface exists.
	OnReady func(s *whiteboard.Surface)
	// OnChanged is called after any change to the visible board.
	OnChanged func()
	// OnCommit receives every snapshot that becomes current.
	OnCommit func(snap state.Snapshot)
	// OnError is called when the surface cannot be created.
	OnError func(err error)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

// NewBoardWidget creates an empty board. pixelScale overrides the canvas
// scale when positive.
func NewBoardWidget(l logger.Logger, pixelScale float32, style whiteboard.Style, opts ...whiteboard.Option) *BoardWidget {
	b := &BoardWidget{
		log:        l,
		pixelScale: pixelScale,
		opts:       opts,
		tool:       whiteboard.Pen,
		style:      style,
		image:      &canvas.Image{FillMode: canvas.ImageFillStretch, ScaleMode: canvas.ImageScaleFastest},
	}
	b.ExtendBaseWidget(b)
	return b
}

// display adapts the widget area to whiteboard.Display. BaseWidget already
// has a Size method, so the widget cannot implement it directly.
type display struct {
	size  fyne.Size
	scale float32
}

func (d display) Size() (float32, float32) { return d.size.Width, d.size.Height }
func (d display) Scale() float32           { return d.scale }

func (d display) NewRaster(width, height int) (*image.RGBA, error) {
	return whiteboard.MemoryDisplay{}.NewRaster(width, height)
}

func (b *BoardWidget) canvasScale() float32 {
	if b.pixelScale > 0 {
		return b.pixelScale
	}
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(b); c != nil {
			return c.Scale()
		}
	}
	return 1
}

func (b *BoardWidget) ensureSurface(size fyne.Size) {
	if b.surface != nil || b.failed || size.Width < 1 || size.Height < 1 {
		return
	}
	opts := append([]whiteboard.Option{
		whiteboard.WithLogger(b.log),
		whiteboard.WithStyle(b.style),
		whiteboard.WithDownloader(b.downloader),
	}, b.opts...)
	s, err := whiteboard.New(display{size: size, scale: b.canvasScale()}, opts...)
	if err != nil {
		b.failed = true
		b.log.Error("[BOARD] Cannot create drawing surface", err)
		if b.OnError != nil {
			b.OnError(err)
		}
		return
	}
	s.SetTool(b.tool)
	s.OnChange = b.changed
	s.OnCommit = func(snap state.Snapshot) {
		if b.OnCommit != nil {
			b.OnCommit(snap)
		}
	}
	b.surface = s
	b.area = size
	b.image.Image = s.Raster()
	b.image.Resize(size)
	b.image.Refresh()

	if b.OnReady != nil {
		b.OnReady(s)
	}
	if b.OnCommit != nil {
		b.OnCommit(s.Current())
	}
	b.changed()
}

func (b *BoardWidget) changed() {
	b.image.Refresh()
	if b.OnChanged != nil {
		b.OnChanged()
	}
}

// Surface returns the drawing surface, or nil before the first layout.
func (b *BoardWidget) Surface() *whiteboard.Surface {
	return b.surface
}

// Tool returns the selected tool.
func (b *BoardWidget) Tool() whiteboard.Tool {
	return b.tool
}

// Style returns the current stroke settings.
func (b *BoardWidget) Style() whiteboard.Style {
	if b.surface != nil {
		return b.surface.Style()
	}
	return b.style
}

func (b *BoardWidget) SetTool(t whiteboard.Tool) {
	if t != whiteboard.Text {
		b.closeTextEntry(false)
	}
	b.tool = t
	if b.surface != nil {
		b.surface.SetTool(t)
	}
}

func (b *BoardWidget) SetColor(c color.Color) {
	b.style.Color = color.NRGBAModel.Convert(c).(color.NRGBA)
	if b.surface != nil {
		b.surface.SetColor(c)
	}
}

func (b *BoardWidget) SetWidth(w float32) {
	b.style.Width = w
	if b.surface != nil {
		b.surface.SetWidth(w)
	}
}

func (b *BoardWidget) SetOpacity(o float32) {
	b.style.Opacity = o
	if b.surface != nil {
		b.surface.SetOpacity(o)
	}
}

// SetDownloader sets where exports go. It may be called before the surface exists.
func (b *BoardWidget) SetDownloader(d whiteboard.Downloader) {
	b.downloader = d
	if b.surface != nil {
		b.surface.SetDownloader(d)
	}
}

func (b *BoardWidget) Undo() {
	if b.surface != nil {
		b.closeTextEntry(false)
		b.surface.Undo()
	}
}

func (b *BoardWidget) Redo() {
	if b.surface != nil {
		b.closeTextEntry(false)
		b.surface.Redo()
	}
}

func (b *BoardWidget) ClearAll() {
	if b.surface != nil {
		b.closeTextEntry(false)
		b.surface.ClearAll()
	}
}

func (b *BoardWidget) CanUndo() bool { return b.surface != nil && b.surface.CanUndo() }
func (b *BoardWidget) CanRedo() bool { return b.surface != nil && b.surface.CanRedo() }

// DownloadPNG offers the board as PNG.
func (b *BoardWidget) DownloadPNG() error {
	if b.surface == nil {
		return whiteboard.ErrNoSurface
	}
	return b.surface.DownloadPNG()
}

// DownloadPDF offers the board as a PDF page.
func (b *BoardWidget) DownloadPDF() error {
	if b.surface == nil {
		return whiteboard.ErrNoSurface
	}
	return b.surface.DownloadPDF()
}

func toPoint(p fyne.Position) whiteboard.Point {
	return whiteboard.Pt(p.X, p.Y)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if b.surface == nil || e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.syncTextEntry()
	b.surface.BeginStroke(toPoint(e.Position))
	if b.tool == whiteboard.Text {
		b.showTextEntry(e.Position)
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if b.surface != nil && e.Button == desktop.MouseButtonPrimary {
		b.surface.CommitStroke()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.surface != nil {
		b.surface.ExtendStroke(toPoint(e.Position))
	}
}

func (b *BoardWidget) DragEnd() {
	if b.surface != nil {
		b.surface.CommitStroke()
	}
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

// MouseMoved drives the polygon rubber band; other tools only move while
// a button is held, which arrives as Dragged.
func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if b.surface == nil {
		return
	}
	b.syncTextEntry()
	if b.surface.PolygonPending() {
		b.surface.ExtendStroke(toPoint(e.Position))
	}
}

// MouseOut ends any stroke in progress. Coming back does not resume it.
func (b *BoardWidget) MouseOut() {
	if b.surface != nil {
		b.surface.CommitStroke()
	}
}

func (b *BoardWidget) DoubleTapped(*fyne.PointEvent) {
	if b.surface != nil {
		b.surface.CompletePolygon()
	}
}

// textEntry submits when it loses focus, so clicking away keeps the text.
type textEntry struct {
	widget.Entry
	onBlur func()
}

func newTextEntry() *textEntry {
	e := &textEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *textEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onBlur != nil {
		e.onBlur()
	}
}

func (b *BoardWidget) showTextEntry(pos fyne.Position) {
	// BeginStroke has already submitted whatever the old popup held.
	b.dropTextEntry()
	c := fyne.CurrentApp().Driver().CanvasForObject(b)
	if c == nil {
		return
	}

	entry := newTextEntry()
	entry.SetPlaceHolder("Type, then Enter")
	entry.OnChanged = func(s string) {
		if b.surface != nil {
			b.surface.EditText(s)
		}
	}
	submit := func() {
		if b.entry == entry {
			b.closeTextEntry(true)
		}
	}
	entry.OnSubmitted = func(string) { submit() }
	entry.onBlur = submit

	b.entry = entry
	b.popup = widget.NewPopUp(entry, c)
	b.popup.Resize(fyne.NewSize(220, entry.MinSize().Height))
	b.popup.ShowAtRelativePosition(pos, b)
	c.Focus(entry)
}

// closeTextEntry hides the popup and settles the surface's open text with
// it, submitting or cancelling. Without a popup there is nothing to settle.
func (b *BoardWidget) closeTextEntry(submit bool) {
	if b.popup == nil {
		return
	}
	if b.surface != nil {
		if submit {
			b.surface.SubmitText()
		} else {
			b.surface.CancelText()
		}
	}
	b.dropTextEntry()
}

// dropTextEntry hides the popup without touching the surface. The entry is
// detached first so the FocusLost that Hide may trigger is ignored.
func (b *BoardWidget) dropTextEntry() {
	popup := b.popup
	b.popup = nil
	b.entry = nil
	if popup != nil {
		popup.Hide()
	}
}

// syncTextEntry notices a popup that fyne dismissed on an outside tap.
// PopUp has no dismiss callback, so the text is submitted here the way a
// blur would.
func (b *BoardWidget) syncTextEntry() {
	if b.popup != nil && !b.popup.Visible() {
		b.closeTextEntry(true)
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	return &boardWidgetRenderer{board: b, background: bg, objects: []fyne.CanvasObject{bg, b.image}}
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.ensureSurface(size)
	// the raster keeps the size it was created with
	if r.board.surface != nil {
		r.board.image.Resize(r.board.area)
	}
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.image.Refresh()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardWidgetRenderer) Destroy()                     {}
