package state

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"testing"

	"StudyBoard/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(c uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = c
	}
	return img
}

func TestHistory_seededWithInitial(t *testing.T) {
	blank := image.NewRGBA(image.Rect(0, 0, 4, 4))
	h := NewHistory(blank, 0)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.Cursor())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Equal(t, blank.Pix, h.Current().Pix.Pix)

	// the seed is a copy
	blank.Pix[0] = 9
	assert.Equal(t, uint8(0), h.Current().Pix.Pix[0])
}

func TestHistory_undoRedoRoundTrip(t *testing.T) {
	h := NewHistory(filled(0), 0)
	for c := uint8(1); c <= 5; c++ {
		h.Push(filled(c))
	}
	require.Equal(t, 6, h.Len())

	for i := 0; i < 5; i++ {
		_, ok := h.Undo()
		require.True(t, ok)
	}
	assert.Equal(t, uint8(0), h.Current().Pix.Pix[0])
	_, ok := h.Undo()
	assert.False(t, ok, "undo at the oldest entry")
	assert.Equal(t, 0, h.Cursor())

	for i := 0; i < 5; i++ {
		_, ok := h.Redo()
		require.True(t, ok)
	}
	assert.Equal(t, uint8(5), h.Current().Pix.Pix[0])
	_, ok = h.Redo()
	assert.False(t, ok, "redo at the newest entry")
	assert.Equal(t, 5, h.Cursor())
}

func TestHistory_pushDiscardsRedoBranch(t *testing.T) {
	h := NewHistory(filled(0), 0)
	h.Push(filled('A'))
	h.Push(filled('B'))
	snap, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, uint8('A'), snap.Pix.Pix[0])

	h.Push(filled('C'))

	assert.False(t, h.CanRedo())
	require.Equal(t, 3, h.Len())
	want := []uint8{0, 'A', 'C'}
	for i, w := range want {
		s, ok := h.At(i)
		require.True(t, ok)
		assert.Equal(t, w, s.Pix.Pix[0], "entry %d", i)
	}
}

func TestHistory_limit(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		pushes     int
		wantLen    int
		wantOldest uint8
	}{
		{name: "unbounded", limit: 0, pushes: 10, wantLen: 11, wantOldest: 0},
		{name: "under limit", limit: 20, pushes: 10, wantLen: 11, wantOldest: 0},
		{name: "capped", limit: 4, pushes: 10, wantLen: 4, wantOldest: 7},
		{name: "negative is unbounded", limit: -1, pushes: 3, wantLen: 4, wantOldest: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(filled(0), tt.limit)
			for c := 1; c <= tt.pushes; c++ {
				h.Push(filled(uint8(c)))
			}
			assert.Equal(t, tt.wantLen, h.Len())
			assert.Equal(t, tt.wantLen-1, h.Cursor())
			oldest, _ := h.At(0)
			assert.Equal(t, tt.wantOldest, oldest.Pix.Pix[0])
		})
	}
}

func TestHistory_limitLogsDrops(t *testing.T) {
	var buf bytes.Buffer
	h := NewHistory(filled(0), 2)
	h.SetLogger(logger.WithLogger(log.New(&buf, "", 0), false))

	h.Push(filled(1))
	assert.Empty(t, buf.String())

	h.Push(filled(2))
	assert.Contains(t, buf.String(), "[HISTORY] Dropped 1 oldest snapshot(s), limit 2")
}

func TestHistory_revisionsIncrease(t *testing.T) {
	h := NewHistory(filled(0), 0)
	prev := h.Current().Revision
	for i := 0; i < 3; i++ {
		snap := h.Push(filled(1))
		assert.Greater(t, snap.Revision, prev)
		assert.NotEmpty(t, snap.ID)
		assert.Equal(t, SiteID(), snap.Site)
		prev = snap.Revision
	}
}

func TestCloneRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 10, A: 255})
	c := CloneRGBA(img)
	assert.Equal(t, img.Bounds(), c.Bounds())
	assert.Equal(t, img.Pix, c.Pix)
	c.Pix[0] = 1
	assert.NotEqual(t, img.Pix[0], c.Pix[0])
	assert.Nil(t, CloneRGBA(nil))
}
