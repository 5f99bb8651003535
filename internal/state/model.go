package state

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a full copy of the board raster at one point in time.
// Pix is owned by the snapshot and must not be modified.
type Snapshot struct {
	ID       string
	Revision uint64
	Site     string
	Pix      *image.RGBA
	Time     time.Time
}

func newSnapshot(img *image.RGBA, rev uint64) Snapshot {
	return Snapshot{
		ID:       uuid.NewString(),
		Revision: rev,
		Site:     siteID,
		Pix:      CloneRGBA(img),
		Time:     time.Now(),
	}
}

// CloneRGBA returns a deep copy of img.
func CloneRGBA(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	out := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}

// Restore copies the pixels of src into dst. Both must share bounds and stride.
func Restore(dst, src *image.RGBA) {
	copy(dst.Pix, src.Pix)
}
