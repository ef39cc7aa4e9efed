package viewer

import (
	"strings"

	"github.com/chewxy/math32"
)

// Interaction tuning.
const (
	DragSensitivity = 0.01 // radians per pixel
	ZoomOutFactor   = 0.95
	ZoomInFactor    = 1.05
	PanStep         = 0.05
)

// minScale keeps repeated zoom-out from underflowing to zero.
const minScale = 0x1p-126

// State is the orbit/zoom/pan state of the displayed object.
// Rotations are unbounded and wrap through trigonometry. Scale stays > 0.
type State struct {
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians
	Scale     float32
	TransX    float32
	TransY    float32
	TransZ    float32
}

// DefaultState places the object three units in front of the eye.
func DefaultState() State {
	return State{Scale: 1, TransZ: -3}
}

// Drag tracks an in-progress press-move-release gesture.
type Drag struct {
	Active bool
	LastX  float32
	LastY  float32
}

// panBinding nudges one translation axis.
type panBinding struct {
	axis int // 0 = X, 1 = Y, 2 = Z
	sign float32
}

var panBindings = map[string]panBinding{
	"a": {0, -1},
	"d": {0, 1},
	"w": {1, 1},
	"s": {1, -1},
	"q": {2, 1},
	"e": {2, -1},
}

// Interaction applies input events to State.
type Interaction struct {
	State State
	Drag  Drag
}

// NewInteraction returns an Interaction starting at initial.
func NewInteraction(initial State) *Interaction {
	return &Interaction{State: initial}
}

// Handle applies one event and reports whether it was consumed.
func (in *Interaction) Handle(ev Event) bool {
	switch ev.Type {
	case EventPointerDown:
		in.PointerDown(ev.X, ev.Y)
		return true
	case EventPointerUp:
		in.PointerUp()
		return true
	case EventPointerMove:
		return in.PointerMove(ev.X, ev.Y)
	case EventWheel:
		return in.Wheel(ev.Delta)
	case EventKey:
		return in.Key(ev.Key)
	}
	return false
}

// PointerDown starts a drag anchored at (x, y).
func (in *Interaction) PointerDown(x, y float32) {
	in.Drag = Drag{Active: true, LastX: x, LastY: y}
}

// PointerMove rotates by the distance moved since the last anchor.
// Horizontal motion turns yaw, vertical motion turns pitch.
func (in *Interaction) PointerMove(x, y float32) bool {
	if !in.Drag.Active {
		return false
	}
	in.State.RotationY += (x - in.Drag.LastX) * DragSensitivity
	in.State.RotationX += (y - in.Drag.LastY) * DragSensitivity
	in.Drag.LastX = x
	in.Drag.LastY = y
	return true
}

// PointerUp ends the drag.
func (in *Interaction) PointerUp() {
	in.Drag.Active = false
}

// Wheel zooms exponentially, one factor per tick. A zero delta is ignored.
func (in *Interaction) Wheel(delta float32) bool {
	var factor float32
	switch {
	case delta > 0:
		factor = ZoomOutFactor
	case delta < 0:
		factor = ZoomInFactor
	default:
		return false
	}

	next := in.State.Scale * factor
	if next < minScale || math32.IsInf(next, 0) {
		return false
	}
	in.State.Scale = next
	return true
}

// Key nudges the translation for the six pan keys. Other keys are ignored.
func (in *Interaction) Key(name string) bool {
	b, ok := panBindings[strings.ToLower(name)]
	if !ok {
		return false
	}
	step := b.sign * PanStep
	switch b.axis {
	case 0:
		in.State.TransX += step
	case 1:
		in.State.TransY += step
	case 2:
		in.State.TransZ += step
	}
	return true
}

// Reset restores initial and cancels any drag.
func (in *Interaction) Reset(initial State) {
	in.State = initial
	in.Drag = Drag{}
}
