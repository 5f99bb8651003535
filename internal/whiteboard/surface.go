// Package whiteboard implements the drawing surface of a study-room board:
// a raster canvas with freehand, shape, polygon and text tools, a linear
// snapshot history for undo/redo, and PNG/PDF export.
//
// A Surface is owned by one goroutine (the UI event loop) and is not safe
// for concurrent use.
package whiteboard

import (
	"image"
	"fmt"
	"image/color"
	"math"
	"strings"

	"StudyBoard/internal/logger"
	"StudyBoard/internal/state"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
)

// Surface is a single-user drawing board.
type Surface struct {
	log     logger.Logger
	scale   float32
	img     *image.RGBA
	paint   *painter
	face    font.Face
	history *state.History

	tool  Tool
	style Style

	// pen/eraser/shape stroke between pointer-down and commit
	stroking bool
	anchor   Point
	last     Point

	// raster saved before a shape or polygon preview started
	preview *image.RGBA

	vertices []Point

	textOpen   bool
	textAnchor Point
	textBuf    string

	downloader Downloader

	// OnChange is called after any change to the visible raster.
	OnChange func()
	// OnCommit is called after each new history entry, undo and redo
	// with the snapshot now at the cursor.
	OnCommit func(state.Snapshot)
}

// Option configures a Surface at construction.
type Option func(*config)

type config struct {
	style        Style
	historyLimit int
	downloader   Downloader
	log          logger.Logger
}

// WithStyle sets the initial stroke style.
func WithStyle(s Style) Option {
	return func(c *config) { c.style = s }
}

// WithHistoryLimit caps the number of stored snapshots (0 = unbounded).
func WithHistoryLimit(n int) Option {
	return func(c *config) { c.historyLimit = n }
}

// WithDownloader sets where exports are offered.
func WithDownloader(d Downloader) Option {
	return func(c *config) { c.downloader = d }
}

// WithLogger sets where the board and its history log.
func WithLogger(l logger.Logger) Option {
	return func(c *config) { c.log = l }
}

// New allocates a blank board sized to the display area at its pixel
// density and records the blank raster as history entry 0.
// It returns ErrNoSurface if the display cannot provide a raster.
func New(d Display, opts ...Option) (*Surface, error) {
	cfg := config{style: DefaultStyle()}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.NewStdLogger("", false)
	}

	scale := d.Scale()
	if scale <= 0 || math.IsNaN(float64(scale)) {
		scale = 1
	}
	w, h := d.Size()
	pw := int(math.Ceil(float64(w * scale)))
	ph := int(math.Ceil(float64(h * scale)))

	img, err := d.NewRaster(pw, ph)
	if err != nil {
		return nil, errors.Wrapf(ErrNoSurface, "%dx%d: %v", pw, ph, err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, errors.Wrapf(ErrNoSurface, "%dx%d: empty raster", pw, ph)
	}
	wipe(img)

	face, err := newTextFace(scale)
	if err != nil {
		return nil, err
	}

	s := &Surface{
		log:        cfg.log,
		scale:      scale,
		img:        img,
		paint:      newPainter(img),
		face:       face,
		history:    state.NewHistory(img, cfg.historyLimit),
		tool:       Pen,
		downloader: cfg.downloader,
	}
	s.history.SetLogger(cfg.log)
	s.SetStyle(cfg.style)
	s.log.Info(fmt.Sprintf("[BOARD] Surface ready: %dx%d px at scale %.2f", img.Bounds().Dx(), img.Bounds().Dy(), scale))
	return s, nil
}

// device converts a logical point to raster pixels.
func (s *Surface) device(p Point) Point {
	return Point{X: p.X * s.scale, Y: p.Y * s.scale}
}

// half is half the device stroke width.
func (s *Surface) half() float32 {
	return s.style.Width * s.scale / 2
}

func (s *Surface) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// commit records the visible raster as a new history entry.
func (s *Surface) commit() {
	snap := s.history.Push(s.img)
	if s.OnCommit != nil {
		s.OnCommit(snap)
	}
	s.changed()
}

func (s *Surface) restorePreview() {
	if s.preview != nil {
		state.Restore(s.img, s.preview)
	}
}

func (s *Surface) savePreview() {
	s.preview = state.CloneRGBA(s.img)
}

// Tool returns the active tool.
func (s *Surface) Tool() Tool {
	return s.tool
}

// Style returns the active stroke style.
func (s *Surface) Style() Style {
	return s.style
}

// SetTool selects the tool for the next stroke. Leaving the polygon tool
// discards pending vertices and their preview; leaving the text tool
// discards pending text.
func (s *Surface) SetTool(t Tool) {
	if t == s.tool {
		return
	}
	if s.stroking {
		s.CommitStroke()
	}
	switch s.tool {
	case Polygon:
		s.cancelPolygon()
	case Text:
		s.CancelText()
	}
	s.tool = t
}

// SetStyle replaces colour, width and opacity at once.
func (s *Surface) SetStyle(st Style) {
	s.style = Style{
		Color:   st.Color,
		Width:   clampWidth(st.Width),
		Opacity: clampOpacity(st.Opacity),
	}
	s.style.Color.A = 0xFF
}

// SetColor sets the stroke colour. Any alpha in c is dropped.
func (s *Surface) SetColor(c color.Color) {
	st := s.style
	st.Color = color.NRGBAModel.Convert(c).(color.NRGBA)
	s.SetStyle(st)
}

// SetWidth sets the stroke width in logical pixels, clamped to 1–50.
func (s *Surface) SetWidth(w float32) {
	st := s.style
	st.Width = w
	s.SetStyle(st)
}

// SetOpacity sets the paint opacity, clamped to 0.1–1.
func (s *Surface) SetOpacity(o float32) {
	st := s.style
	st.Opacity = o
	s.SetStyle(st)
}

// BeginStroke handles a pointer-down at p.
func (s *Surface) BeginStroke(p Point) {
	if s.stroking {
		s.CommitStroke()
	}
	switch {
	case s.tool == Text:
		if s.textOpen {
			s.SubmitText()
		}
		s.textOpen = true
		s.textAnchor = p
		s.textBuf = ""

	case s.tool == Polygon:
		if len(s.vertices) == 0 {
			s.savePreview()
		} else if s.vertices[len(s.vertices)-1] == p {
			// the second press of a double-click lands on the last vertex
			return
		}
		s.vertices = append(s.vertices, p)
		s.restorePreview()
		s.strokeVertices(nil, false)
		s.changed()

	case s.tool == Pen || s.tool == Eraser:
		s.stroking = true
		s.anchor, s.last = p, p
		s.paint.disc(s.device(p), s.half())
		s.paint.flush(s.style.Paint(), s.tool == Eraser)
		s.changed()

	case s.tool.isShape():
		s.stroking = true
		s.anchor, s.last = p, p
		s.savePreview()
	}
}

// ExtendStroke handles a pointer-move to p. It does nothing unless a
// stroke or polygon preview is in progress.
func (s *Surface) ExtendStroke(p Point) {
	if s.tool == Polygon {
		if len(s.vertices) == 0 {
			return
		}
		s.restorePreview()
		s.strokeVertices(&p, false)
		s.changed()
		return
	}
	if !s.stroking {
		return
	}

	h := s.half()
	switch s.tool {
	case Pen, Eraser:
		s.paint.capsule(s.device(s.last), s.device(p), h)
	case Rectangle:
		s.restorePreview()
		s.paint.rectOutline(s.device(s.anchor), s.device(p), h)
	case Circle:
		s.restorePreview()
		s.paint.circleOutline(s.device(s.anchor), s.anchor.dist(p)*s.scale, h)
	case Line:
		s.restorePreview()
		s.paint.capsule(s.device(s.anchor), s.device(p), h)
	}
	s.paint.flush(s.style.Paint(), s.tool == Eraser)
	s.last = p
	s.changed()
}

// CommitStroke handles pointer-up and pointer-leave. It ends an active
// pen, eraser or shape stroke and commits it; polygons are left alone.
func (s *Surface) CommitStroke() {
	if !s.stroking {
		return
	}
	s.stroking = false
	s.preview = nil
	s.commit()
}

// CompletePolygon handles a double-click: with at least two vertices it
// draws the closed outline and commits it.
func (s *Surface) CompletePolygon() {
	if s.tool != Polygon || len(s.vertices) < 2 {
		return
	}
	s.restorePreview()
	s.strokeVertices(nil, true)
	s.vertices = nil
	s.preview = nil
	s.commit()
}

// strokeVertices paints the pending polygon, optionally extended by a
// rubber-band point.
func (s *Surface) strokeVertices(extra *Point, closed bool) {
	pts := make([]Point, 0, len(s.vertices)+1)
	for _, v := range s.vertices {
		pts = append(pts, s.device(v))
	}
	if extra != nil {
		pts = append(pts, s.device(*extra))
	}
	s.paint.polyline(pts, s.half(), closed)
	s.paint.flush(s.style.Paint(), false)
}

func (s *Surface) cancelPolygon() {
	if len(s.vertices) == 0 {
		return
	}
	s.restorePreview()
	s.vertices = nil
	s.preview = nil
	s.changed()
}

// EditText replaces the pending text buffer. It does nothing when no text
// placement is open.
func (s *Surface) EditText(text string) {
	if s.textOpen {
		s.textBuf = text
	}
}

// SubmitText paints the pending text at its anchor and commits it unless
// the text is blank. The placement is closed either way.
func (s *Surface) SubmitText() {
	if !s.textOpen {
		return
	}
	text := s.textBuf
	s.textOpen = false
	s.textBuf = ""
	if strings.TrimSpace(text) == "" {
		return
	}
	drawText(s.img, s.face, text, s.device(s.textAnchor), s.style.Paint())
	s.commit()
}

// CancelText closes the pending text placement without painting.
func (s *Surface) CancelText() {
	s.textOpen = false
	s.textBuf = ""
}

// TextPending reports the anchor of an open text placement.
func (s *Surface) TextPending() (Point, bool) {
	return s.textAnchor, s.textOpen
}

// PolygonPending reports whether polygon vertices are waiting for a double-click.
func (s *Surface) PolygonPending() bool {
	return len(s.vertices) > 0
}

// PolygonVertices returns a copy of the pending polygon vertices.
func (s *Surface) PolygonVertices() []Point {
	return append([]Point(nil), s.vertices...)
}

// Stroking reports whether a pen, eraser or shape stroke is in progress.
func (s *Surface) Stroking() bool {
	return s.stroking
}

// abandon drops any uncommitted preview and open text placement so
// history moves start clean.
func (s *Surface) abandon() {
	s.CancelText()
	if s.stroking {
		s.CommitStroke()
	}
	if len(s.vertices) > 0 {
		s.restorePreview()
		s.vertices = nil
		s.preview = nil
	}
}

// Undo steps back one history entry. It reports whether anything changed.
func (s *Surface) Undo() bool {
	s.abandon()
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.show(snap)
	return true
}

// Redo steps forward one history entry. It reports whether anything changed.
func (s *Surface) Redo() bool {
	s.abandon()
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.show(snap)
	return true
}

func (s *Surface) show(snap state.Snapshot) {
	state.Restore(s.img, snap.Pix)
	if s.OnCommit != nil {
		s.OnCommit(snap)
	}
	s.changed()
}

// ClearAll wipes the board and commits the blank raster. Earlier history
// is kept, so Undo brings the drawing back.
func (s *Surface) ClearAll() {
	s.abandon()
	wipe(s.img)
	s.commit()
}

// CanUndo reports whether an older entry exists.
func (s *Surface) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a newer entry exists.
func (s *Surface) CanRedo() bool { return s.history.CanRedo() }

// HistoryLen is the number of stored snapshots, including the blank seed.
func (s *Surface) HistoryLen() int { return s.history.Len() }

// Cursor is the index of the snapshot currently shown.
func (s *Surface) Cursor() int { return s.history.Cursor() }

// Snapshot returns the history entry at index i.
func (s *Surface) Snapshot(i int) (state.Snapshot, bool) {
	return s.history.At(i)
}

// Current returns the history entry at the cursor.
func (s *Surface) Current() state.Snapshot {
	return s.history.Current()
}

// Raster returns the live raster. Callers must treat it as read-only.
func (s *Surface) Raster() *image.RGBA {
	return s.img
}

// Image returns a copy of the visible raster.
func (s *Surface) Image() *image.RGBA {
	return state.CloneRGBA(s.img)
}

// Scale is the device pixel density the board was created with.
func (s *Surface) Scale() float32 {
	return s.scale
}
