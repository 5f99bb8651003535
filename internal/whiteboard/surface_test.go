package whiteboard

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"StudyBoard/internal/state"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}

func newBoard(t *testing.T) *Surface {
	t.Helper()
	s, err := New(MemoryDisplay{Width: 100, Height: 80, PixelScale: 1},
		WithStyle(Style{Color: red, Width: 5, Opacity: 1}))
	require.NoError(t, err)
	return s
}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func painted(img *image.RGBA, x, y int) bool {
	return alphaAt(img, x, y) > 0
}

func blank(img *image.RGBA) bool {
	for _, b := range img.Pix {
		if b != 0 {
			return false
		}
	}
	return true
}

// scribble draws and commits one pen stroke through pts.
func scribble(s *Surface, pts ...Point) {
	s.SetTool(Pen)
	s.BeginStroke(pts[0])
	for _, p := range pts[1:] {
		s.ExtendStroke(p)
	}
	s.CommitStroke()
}

type failingDisplay struct {
	MemoryDisplay
	err error
}

func (d failingDisplay) NewRaster(int, int) (*image.RGBA, error) {
	return nil, d.err
}

func TestNew(t *testing.T) {
	s := newBoard(t)
	assert.Equal(t, image.Rect(0, 0, 100, 80), s.Raster().Bounds())
	assert.Equal(t, 1, s.HistoryLen())
	assert.Equal(t, 0, s.Cursor())
	assert.True(t, blank(s.Raster()))
	assert.Equal(t, Pen, s.Tool())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestNew_scaledRaster(t *testing.T) {
	s, err := New(MemoryDisplay{Width: 100, Height: 80, PixelScale: 2},
		WithStyle(Style{Color: red, Width: 2, Opacity: 1}))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 160), s.Raster().Bounds())

	s.BeginStroke(Pt(10, 10))
	s.CommitStroke()
	assert.True(t, painted(s.Raster(), 20, 20))
	assert.False(t, painted(s.Raster(), 10, 10))
}

func TestNew_noSurface(t *testing.T) {
	tests := []struct {
		name    string
		display Display
	}{
		{name: "zero size", display: MemoryDisplay{Width: 0, Height: 10, PixelScale: 1}},
		{name: "too large", display: MemoryDisplay{Width: MaxRasterSide + 1, Height: 10, PixelScale: 1}},
		{name: "host refuses", display: failingDisplay{
			MemoryDisplay: MemoryDisplay{Width: 10, Height: 10, PixelScale: 1},
			err:           errors.New("no context"),
		}},
		{name: "nil raster", display: failingDisplay{
			MemoryDisplay: MemoryDisplay{Width: 10, Height: 10, PixelScale: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.display)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrNoSurface)
		})
	}
}

func TestUndoRedo_roundTrip(t *testing.T) {
	s := newBoard(t)
	strokes := [][]Point{
		{Pt(10, 10), Pt(30, 12)},
		{Pt(50, 50)},
		{Pt(70, 20), Pt(80, 60), Pt(90, 70)},
		{Pt(5, 70), Pt(40, 40)},
	}
	for _, st := range strokes {
		scribble(s, st...)
	}
	final := s.Image()
	require.Equal(t, len(strokes)+1, s.HistoryLen())

	for range strokes {
		require.True(t, s.Undo())
	}
	assert.True(t, blank(s.Raster()))
	assert.Equal(t, 0, s.Cursor())

	for range strokes {
		require.True(t, s.Redo())
	}
	assert.Equal(t, final.Pix, s.Raster().Pix)
}

func TestUndoRedo_noOpsAtEnds(t *testing.T) {
	s := newBoard(t)
	assert.False(t, s.Undo())
	assert.Equal(t, 0, s.Cursor())
	assert.True(t, blank(s.Raster()))

	scribble(s, Pt(20, 20))
	before := s.Image()
	assert.False(t, s.Redo())
	assert.Equal(t, 1, s.Cursor())
	assert.Equal(t, before.Pix, s.Raster().Pix)
}

func TestCommit_prunesRedoBranch(t *testing.T) {
	s := newBoard(t)
	scribble(s, Pt(10, 10))
	a := s.Image()
	scribble(s, Pt(50, 50))
	require.True(t, s.Undo())
	assert.Equal(t, a.Pix, s.Raster().Pix)

	scribble(s, Pt(80, 20))
	c := s.Image()

	assert.False(t, s.Redo())
	require.Equal(t, 3, s.HistoryLen())
	want := []*image.RGBA{nil, a, c}
	for i, w := range want {
		snap, ok := s.Snapshot(i)
		require.True(t, ok)
		if w == nil {
			assert.True(t, blank(snap.Pix), "entry 0 is blank")
			continue
		}
		assert.Equal(t, w.Pix, snap.Pix.Pix, "entry %d", i)
	}
}

func TestRectangle_previewCommitsOnceOnRelease(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Rectangle)
	s.BeginStroke(Pt(10, 10))
	s.ExtendStroke(Pt(50, 40))
	assert.True(t, painted(s.Raster(), 50, 25), "preview edge at x=50")

	s.ExtendStroke(Pt(70, 60))
	s.ExtendStroke(Pt(60, 50))
	assert.Equal(t, 1, s.HistoryLen(), "previews never commit")
	assert.False(t, painted(s.Raster(), 70, 55), "stale preview erased")
	assert.True(t, painted(s.Raster(), 60, 30), "right edge")
	assert.True(t, painted(s.Raster(), 35, 50), "bottom edge")
	assert.False(t, painted(s.Raster(), 35, 30), "interior")

	s.CommitStroke()
	assert.Equal(t, 2, s.HistoryLen())
	assert.False(t, s.Stroking())

	s.CommitStroke()
	assert.Equal(t, 2, s.HistoryLen(), "release without a stroke")
}

func TestRectangle_anyDragDirection(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Rectangle)
	s.BeginStroke(Pt(60, 50))
	s.ExtendStroke(Pt(20, 10))
	s.CommitStroke()
	assert.True(t, painted(s.Raster(), 20, 30))
	assert.True(t, painted(s.Raster(), 40, 10))
	assert.False(t, painted(s.Raster(), 40, 30))
}

func TestCircle_radiusFromAnchor(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Circle)
	s.BeginStroke(Pt(50, 40))
	s.ExtendStroke(Pt(62, 56)) // radius 20
	s.CommitStroke()

	img := s.Raster()
	assert.True(t, painted(img, 70, 40))
	assert.True(t, painted(img, 29, 40))
	assert.True(t, painted(img, 50, 20))
	assert.False(t, painted(img, 50, 40), "centre")
	assert.False(t, painted(img, 80, 40), "outside")
	assert.Equal(t, 2, s.HistoryLen())
}

func TestLine(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Line)
	s.BeginStroke(Pt(10, 10))
	s.ExtendStroke(Pt(30, 60))
	s.ExtendStroke(Pt(60, 10))
	s.CommitStroke()

	img := s.Raster()
	assert.True(t, painted(img, 35, 10))
	assert.False(t, painted(img, 20, 35), "earlier preview erased")
	assert.Equal(t, 2, s.HistoryLen())
}

func TestPen_singleClickLeavesDot(t *testing.T) {
	s := newBoard(t)
	s.BeginStroke(Pt(20, 20))
	assert.True(t, s.Stroking())
	assert.Equal(t, red, color.NRGBAModel.Convert(s.Raster().At(20, 20)))
	s.CommitStroke()
	assert.Equal(t, 2, s.HistoryLen())
}

func TestPen_opacity(t *testing.T) {
	s := newBoard(t)
	s.SetOpacity(0.5)
	s.BeginStroke(Pt(20, 20))
	s.CommitStroke()
	assert.InDelta(t, 128, alphaAt(s.Raster(), 20, 20), 2)
}

func TestEraser_punchesThrough(t *testing.T) {
	s := newBoard(t)
	s.SetWidth(20)
	scribble(s, Pt(20, 20), Pt(60, 20))
	require.Equal(t, uint8(0xFF), alphaAt(s.Raster(), 40, 20))

	s.SetTool(Eraser)
	s.SetWidth(6)
	s.BeginStroke(Pt(40, 20))
	s.ExtendStroke(Pt(40, 25))
	s.CommitStroke()

	assert.Equal(t, uint8(0), alphaAt(s.Raster(), 40, 22))
	assert.Equal(t, uint8(0xFF), alphaAt(s.Raster(), 25, 20), "outside the eraser")
	assert.Equal(t, 3, s.HistoryLen())
}

func TestPolygon_triangle(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Polygon)
	s.BeginStroke(Pt(0, 0))
	s.BeginStroke(Pt(50, 0))
	s.ExtendStroke(Pt(50, 30))
	s.BeginStroke(Pt(50, 50))
	s.BeginStroke(Pt(50, 50)) // second press of the double-click
	assert.Equal(t, 1, s.HistoryLen())
	assert.Len(t, s.PolygonVertices(), 3)
	assert.False(t, painted(s.Raster(), 25, 25), "open polyline has no closing edge")

	s.CommitStroke()
	assert.Equal(t, 1, s.HistoryLen(), "pointer-up never commits a polygon")

	s.CompletePolygon()
	assert.Equal(t, 2, s.HistoryLen())
	assert.Empty(t, s.PolygonVertices())

	img := s.Raster()
	assert.True(t, painted(img, 25, 0), "top edge")
	assert.True(t, painted(img, 50, 25), "right edge")
	assert.True(t, painted(img, 25, 25), "closing edge")
	assert.False(t, painted(img, 40, 10), "interior")
}

func TestPolygon_rubberBand(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Polygon)
	s.BeginStroke(Pt(10, 10))
	s.ExtendStroke(Pt(90, 10))
	assert.True(t, painted(s.Raster(), 80, 10))
	s.ExtendStroke(Pt(10, 70))
	assert.False(t, painted(s.Raster(), 80, 10), "rubber band redrawn from snapshot")
	assert.True(t, painted(s.Raster(), 10, 60))
	assert.Equal(t, 1, s.HistoryLen())
}

func TestPolygon_switchToolCancels(t *testing.T) {
	s := newBoard(t)
	scribble(s, Pt(80, 70))
	before := s.Image()

	s.SetTool(Polygon)
	s.BeginStroke(Pt(10, 10))
	s.BeginStroke(Pt(60, 10))
	require.False(t, assert.ObjectsAreEqual(before.Pix, s.Raster().Pix))

	s.SetTool(Line)
	assert.Equal(t, before.Pix, s.Raster().Pix)
	assert.Empty(t, s.PolygonVertices())
	assert.Equal(t, 2, s.HistoryLen())

	s.SetTool(Polygon)
	s.CompletePolygon()
	assert.Equal(t, 2, s.HistoryLen(), "nothing left to complete")
}

func TestPolygon_needsTwoVertices(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Polygon)
	s.CompletePolygon()
	s.BeginStroke(Pt(30, 30))
	s.CompletePolygon()
	assert.Equal(t, 1, s.HistoryLen())
	assert.Len(t, s.PolygonVertices(), 1)
}

func TestText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantCommit bool
	}{
		{name: "empty", text: "", wantCommit: false},
		{name: "whitespace", text: "   \t", wantCommit: false},
		{name: "hi", text: "Hi", wantCommit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newBoard(t)
			s.SetTool(Text)
			s.BeginStroke(Pt(20, 40))
			anchor, open := s.TextPending()
			require.True(t, open)
			assert.Equal(t, Pt(20, 40), anchor)
			assert.True(t, blank(s.Raster()), "opening text paints nothing")

			s.EditText(tt.text)
			s.SubmitText()

			_, open = s.TextPending()
			assert.False(t, open)
			if tt.wantCommit {
				assert.Equal(t, 2, s.HistoryLen())
				assert.False(t, blank(s.Raster()))
			} else {
				assert.Equal(t, 1, s.HistoryLen())
				assert.True(t, blank(s.Raster()))
			}
		})
	}
}

func TestText_newAnchorSubmitsPending(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Text)
	s.BeginStroke(Pt(10, 20))
	s.EditText("a")
	s.BeginStroke(Pt(10, 60))
	assert.Equal(t, 2, s.HistoryLen())
	anchor, open := s.TextPending()
	assert.True(t, open)
	assert.Equal(t, Pt(10, 60), anchor)

	s.EditText("discarded")
	s.SetTool(Pen)
	_, open = s.TextPending()
	assert.False(t, open)
	assert.Equal(t, 2, s.HistoryLen())
}

func TestUndo_cancelsOpenText(t *testing.T) {
	s := newBoard(t)
	scribble(s, Pt(10, 10))
	require.Equal(t, 2, s.HistoryLen())

	s.SetTool(Text)
	s.BeginStroke(Pt(20, 40))
	s.EditText("stale")
	require.True(t, s.Undo())

	_, open := s.TextPending()
	assert.False(t, open)
	assert.Equal(t, 2, s.HistoryLen())
	assert.Equal(t, 0, s.Cursor())

	s.BeginStroke(Pt(60, 60))
	assert.Equal(t, 2, s.HistoryLen(), "stale text must not commit")
	assert.True(t, s.CanRedo())
}

func TestClearAll_cancelsOpenText(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Text)
	s.BeginStroke(Pt(20, 40))
	s.EditText("stale")

	s.ClearAll()
	_, open := s.TextPending()
	assert.False(t, open)
	assert.Equal(t, 2, s.HistoryLen())
	assert.True(t, blank(s.Raster()))

	s.BeginStroke(Pt(60, 60))
	assert.Equal(t, 2, s.HistoryLen())
}

func TestPolygonPending(t *testing.T) {
	s := newBoard(t)
	s.SetTool(Polygon)
	assert.False(t, s.PolygonPending())

	s.BeginStroke(Pt(10, 10))
	assert.True(t, s.PolygonPending())
	s.BeginStroke(Pt(60, 10))
	s.BeginStroke(Pt(30, 50))
	s.CompletePolygon()
	assert.False(t, s.PolygonPending())
	assert.Equal(t, 2, s.HistoryLen())
}

func TestClearAll(t *testing.T) {
	s := newBoard(t)
	scribble(s, Pt(10, 10), Pt(60, 60))
	drawing := s.Image()

	s.ClearAll()
	assert.True(t, blank(s.Raster()))
	assert.Equal(t, 3, s.HistoryLen())

	require.True(t, s.Undo())
	assert.Equal(t, drawing.Pix, s.Raster().Pix)

	s.ClearAll()
	s.ClearAll()
	assert.Equal(t, 4, s.HistoryLen(), "clear always commits")
}

func TestStyle_clamped(t *testing.T) {
	s := newBoard(t)
	s.SetWidth(0)
	assert.Equal(t, float32(MinWidth), s.Style().Width)
	s.SetWidth(500)
	assert.Equal(t, float32(MaxWidth), s.Style().Width)
	s.SetOpacity(0)
	assert.Equal(t, float32(MinOpacity), s.Style().Opacity)
	s.SetOpacity(3)
	assert.Equal(t, float32(MaxOpacity), s.Style().Opacity)
	s.SetColor(color.RGBA{B: 200, A: 255})
	assert.Equal(t, color.NRGBA{B: 200, A: 255}, s.Style().Color)
	assert.Equal(t, 1, s.HistoryLen(), "style is not undoable")
}

func TestCallbacks(t *testing.T) {
	s := newBoard(t)
	var changes int
	var commits []state.Snapshot
	s.OnChange = func() { changes++ }
	s.OnCommit = func(snap state.Snapshot) { commits = append(commits, snap) }

	scribble(s, Pt(10, 10), Pt(20, 20))
	s.Undo()
	s.Redo()
	s.Undo()
	s.Undo() // no-op

	require.Len(t, commits, 4)
	assert.Greater(t, commits[0].Revision, uint64(0))
	assert.Equal(t, commits[0].ID, commits[2].ID, "redo shows the same snapshot")
	assert.Greater(t, changes, 4)
}

type recordingDownloader struct {
	name, contentType string
	data              []byte
}

func (d *recordingDownloader) Offer(name, contentType string, data []byte) error {
	d.name, d.contentType, d.data = name, contentType, data
	return nil
}

func TestExportPNG(t *testing.T) {
	s := newBoard(t)
	scribble(s, Pt(10, 10), Pt(40, 40))
	before := s.Image()

	data, err := s.ExportPNG()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, s.Raster().Bounds(), img.Bounds())
	_, _, _, a := img.At(25, 25).RGBA()
	assert.Equal(t, uint32(0xFFFF), a)
	_, _, _, a = img.At(90, 5).RGBA()
	assert.Equal(t, uint32(0), a, "transparency kept")

	assert.Equal(t, before.Pix, s.Raster().Pix)
	assert.Equal(t, 2, s.HistoryLen())
}

func TestDownload(t *testing.T) {
	s := newBoard(t)
	assert.ErrorIs(t, s.DownloadPNG(), ErrNoDownloader)

	d := &recordingDownloader{}
	s.SetDownloader(d)
	require.NoError(t, s.DownloadPNG())
	assert.Equal(t, "whiteboard.png", d.name)
	assert.Equal(t, "image/png", d.contentType)
	assert.True(t, bytes.HasPrefix(d.data, []byte("\x89PNG")))

	require.NoError(t, s.DownloadPDF())
	assert.Equal(t, "whiteboard.pdf", d.name)
	assert.True(t, bytes.HasPrefix(d.data, []byte("%PDF-")))
}

func TestUndo_duringPreviewAbandonsIt(t *testing.T) {
	s := newBoard(t)
	scribble(s, Pt(10, 10))
	s.SetTool(Polygon)
	s.BeginStroke(Pt(50, 50))
	s.BeginStroke(Pt(90, 50))

	require.True(t, s.Undo())
	assert.True(t, blank(s.Raster()))
	assert.Empty(t, s.PolygonVertices())
	require.True(t, s.Redo())
	assert.True(t, painted(s.Raster(), 10, 10))
	assert.False(t, painted(s.Raster(), 70, 50))
}
