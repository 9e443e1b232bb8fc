// Package debounce filters the falling edges of a mechanical push button.
package debounce

import (
	"sync/atomic"
	"time"
)

// DefaultWindow is the minimum spacing between two accepted edges.
const DefaultWindow = 200 * time.Millisecond

// Debouncer accepts an edge only if it arrives more than Window after the last accepted one.
//
// OnEdge is safe to call from an interrupt handler: it never blocks and keeps a single
// atomic timestamp.
type Debouncer struct {
	window time.Duration
	last   atomic.Int64 // monotonic time of the last accepted edge, ns since boot
}

// New creates a debouncer. A non-positive window falls back to DefaultWindow.
func New(window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{window: window}
}

// Window returns the configured debounce window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// OnEdge reports whether an edge seen at monotonic time now is genuine.
// Rejected edges leave the reference timestamp unchanged.
func (d *Debouncer) OnEdge(now time.Duration) bool {
	for {
		last := d.last.Load()
		if now-time.Duration(last) <= d.window {
			return false
		}
		if d.last.CompareAndSwap(last, int64(now)) {
			return true
		}
	}
}

// LastAccepted returns the time of the last accepted edge.
func (d *Debouncer) LastAccepted() time.Duration {
	return time.Duration(d.last.Load())
}
