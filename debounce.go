package blinkmenu

import (
	"sync/atomic"
)

// BounceWindow is how long a button stays deaf after an accepted press.
const BounceWindow Ticks = 250

// seenBit marks a source that has accepted at least one edge. The low 32 bits hold the tick of that edge.
const seenBit = 1 << 32

// Debouncer filters raw button edges down to one press per bounce window. Each button keeps its own state, so
// presses on different buttons never suppress each other. Accept is safe to call from interrupt context.
type Debouncer struct {
	window Ticks
	last   [buttonCount]atomic.Uint64
}

func NewDebouncer(window Ticks) *Debouncer {
	return &Debouncer{window: window}
}

// Window returns the configured bounce window.
func (d *Debouncer) Window() Ticks {
	return d.window
}

// Accept reports whether an edge on id at now is a new press. An accepted edge becomes the reference for the
// next window. Elapsed time is the unsigned tick difference, so any gap of at least the window is accepted no
// matter how long the button sat idle. An edge stamped less than one window before the last accepted one is late
// and dropped.
func (d *Debouncer) Accept(id ButtonID, now Ticks) bool {
	if !id.Valid() {
		return false
	}
	slot := &d.last[id]
	for {
		old := slot.Load()
		if old&seenBit != 0 {
			last := Ticks(old)
			if now-last < d.window || last-now < d.window {
				return false
			}
		}
		// a nested edge on the same button may have won in between; re-check against it
		if slot.CompareAndSwap(old, seenBit|uint64(now)) {
			return true
		}
	}
}

// LastAccepted returns the tick of the last accepted edge on id, and false if there was none.
func (d *Debouncer) LastAccepted(id ButtonID) (Ticks, bool) {
	if !id.Valid() {
		return 0, false
	}
	v := d.last[id].Load()
	return Ticks(v), v&seenBit != 0
}
