// Package viewer holds the viewer's interaction state, composes per-frame
// transforms, and owns the currently displayed mesh.
//
// Everything here runs on the render thread. Nothing in this package talks to
// SDL or OpenGL directly; the rendering collaborator is reached through Backend.
package viewer

import "fmt"

// EventType identifies an input event delivered by the host.
type EventType int

const (
	EventNone EventType = iota
	EventPointerDown
	EventPointerUp
	EventPointerMove
	EventWheel
	EventKey
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventPointerDown:
		return "PointerDown"
	case EventPointerUp:
		return "PointerUp"
	case EventPointerMove:
		return "PointerMove"
	case EventWheel:
		return "Wheel"
	case EventKey:
		return "Key"
	case EventNone:
		return "None"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Event is a discrete input event.
type Event struct {
	Type EventType
	// X, Y are pointer coordinates in window pixels.
	X, Y float32
	// Delta is the wheel delta. Positive scrolls toward the user (zoom out).
	Delta float32
	// Key is the key name, e.g. "a".
	Key string
}

// PointerDown builds a pointer press event.
func PointerDown(x, y float32) Event {
	return Event{Type: EventPointerDown, X: x, Y: y}
}

// PointerUp builds a pointer release event.
func PointerUp(x, y float32) Event {
	return Event{Type: EventPointerUp, X: x, Y: y}
}

// PointerMove builds a pointer motion event.
func PointerMove(x, y float32) Event {
	return Event{Type: EventPointerMove, X: x, Y: y}
}

// Wheel builds a wheel event.
func Wheel(delta float32) Event {
	return Event{Type: EventWheel, Delta: delta}
}

// Key builds a key press event.
func Key(name string) Event {
	return Event{Type: EventKey, Key: name}
}
