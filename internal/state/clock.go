package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// siteID identifies this board session in shared frames.
var siteID = uuid.NewString()

// SiteID returns the identifier of the local board session.
func SiteID() string {
	return siteID
}

// Clock is a monotonic logical counter. A history stamps each snapshot
// with the next tick; the share hub uses its own to order frames.
type Clock struct {
	counter uint64
}

// Tick increments the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	return atomic.AddUint64(&c.counter, 1)
}

// Now returns the current value without advancing.
func (c *Clock) Now() uint64 {
	return atomic.LoadUint64(&c.counter)
}
