// Package events converts SDL2 events into pointer, key and window events.
package events

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Type is the kind of a translated event.
type Type int

const (
	EventNone Type = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventPointerDown
	EventPointerUp
	EventPointerMove
)

// Event is a processed input event. Pointer coordinates are window
// pixels from the top-left corner.
type Event struct {
	Type   Type
	Key    sdl.Keycode
	Shift  bool
	Width  int
	Height int
	X, Y   float64
	DX, DY float64
}

// Translate converts one SDL event. Only the left mouse button produces
// pointer presses; unrelated events report false.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			return Event{
				Type:  EventKeyDown,
				Key:   e.Keysym.Sym,
				Shift: e.Keysym.Mod&sdl.KMOD_SHIFT != 0,
			}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type: EventPointerMove,
			X:    float64(e.X),
			Y:    float64(e.Y),
			DX:   float64(e.XRel),
			DY:   float64(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		if e.Button != sdl.BUTTON_LEFT {
			return Event{}, false
		}
		t := EventPointerUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventPointerDown
		}
		return Event{Type: t, X: float64(e.X), Y: float64(e.Y)}, true
	}

	return Event{}, false
}

// Queue collects the translated events of one frame.
type Queue struct {
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 16),
	}
}

// Poll drains pending SDL events. If wait is true and nothing is pending,
// it blocks for up to timeoutMS for the next one.
func (q *Queue) Poll(wait bool, timeoutMS int) []Event {
	q.events = q.events[:0]

	if wait {
		if event := sdl.WaitEventTimeout(timeoutMS); event != nil {
			q.push(event)
		}
	}
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		q.push(event)
	}
	return q.events
}

func (q *Queue) push(event sdl.Event) {
	if e, ok := Translate(event); ok {
		q.events = append(q.events, e)
	}
}
