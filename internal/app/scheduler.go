package app

// FrameScheduler coalesces redraw requests. Any number of Request calls
// between two frames produce a single pending frame.
type FrameScheduler struct {
	pending   bool
	requested int
}

// Request marks a frame as pending.
func (f *FrameScheduler) Request() {
	f.pending = true
	f.requested++
}

// Pending reports whether a frame is waiting to be drawn.
func (f *FrameScheduler) Pending() bool {
	return f.pending
}

// Take consumes the pending frame. It returns false if there was none.
func (f *FrameScheduler) Take() bool {
	if !f.pending {
		return false
	}
	f.pending = false
	return true
}

// Requests returns the number of Request calls so far.
func (f *FrameScheduler) Requests() int {
	return f.requested
}
