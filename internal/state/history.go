package state

import (
	"fmt"
	"image"
	"sync"

	"StudyBoard/internal/logger"
)

// History is a linear undo stack of board snapshots with a cursor.
// The snapshot at the cursor always matches what the board shows.
type History struct {
	log     logger.Logger
	clock   Clock
	entries []Snapshot
	cursor  int
	limit   int // 0 means unbounded
	mu      sync.RWMutex
}

// NewHistory seeds a history with initial as entry 0.
// A positive limit caps the number of stored snapshots; the oldest are
// dropped first.
func NewHistory(initial *image.RGBA, limit int) *History {
	if limit < 0 {
		limit = 0
	}
	h := &History{log: logger.NewStdLogger("", false), limit: limit}
	h.entries = []Snapshot{newSnapshot(initial, h.clock.Tick())}
	return h
}

// SetLogger replaces the logger used for history housekeeping.
func (h *History) SetLogger(l logger.Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.log = l
}

// Push commits img as a new entry. Anything after the cursor is discarded
// before appending.
func (h *History) Push(img *image.RGBA) Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap := newSnapshot(img, h.clock.Tick())
	h.entries = append(h.entries[:h.cursor+1], snap)
	h.cursor = len(h.entries) - 1

	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		// zero the dropped slots so their rasters can be collected
		for i := 0; i < drop; i++ {
			h.entries[i] = Snapshot{}
		}
		h.entries = h.entries[drop:]
		h.cursor -= drop
		h.log.Info(fmt.Sprintf("[HISTORY] Dropped %d oldest snapshot(s), limit %d", drop, h.limit))
	}
	return snap
}

// Undo moves the cursor back one entry and returns the snapshot there.
// It reports false when the cursor is already at the oldest entry.
func (h *History) Undo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor == 0 {
		return Snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo moves the cursor forward one entry and returns the snapshot there.
// It reports false when the cursor is already at the newest entry.
func (h *History) Redo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor >= len(h.entries)-1 {
		return Snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current returns the snapshot at the cursor.
func (h *History) Current() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[h.cursor]
}

// At returns the snapshot at index i.
func (h *History) At(i int) (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i < 0 || i >= len(h.entries) {
		return Snapshot{}, false
	}
	return h.entries[i], true
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

func (h *History) Cursor() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cursor
}

func (h *History) CanUndo() bool {
	return h.Cursor() > 0
}

func (h *History) CanRedo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cursor < len(h.entries)-1
}
