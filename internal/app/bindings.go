package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/viewer"
)

type appCommand int

const (
	cmdNone appCommand = iota
	cmdQuit
	cmdReset
	cmdScreenshot
)

// command returns the app-level action bound to ev, if any. These keys
// never reach the viewer.
func command(ev input.Event) appCommand {
	if ev.Type != input.EventKeyDown {
		return cmdNone
	}
	switch ev.Key {
	case sdl.SCANCODE_ESCAPE:
		return cmdQuit
	case sdl.SCANCODE_HOME:
		return cmdReset
	case sdl.SCANCODE_F12:
		return cmdScreenshot
	}
	return cmdNone
}

// Translate converts an SDL-level event into a viewer event. Only the left
// button drags; the wheel is inverted so rolling away zooms in.
func Translate(ev input.Event) (viewer.Event, bool) {
	switch ev.Type {
	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			return viewer.PointerDown(float32(ev.MouseX), float32(ev.MouseY)), true
		}
	case input.EventMouseUp:
		if ev.Button == sdl.BUTTON_LEFT {
			return viewer.PointerUp(float32(ev.MouseX), float32(ev.MouseY)), true
		}
	case input.EventMouseMove:
		return viewer.PointerMove(float32(ev.MouseX), float32(ev.MouseY)), true
	case input.EventMouseWheel:
		if ev.WheelY != 0 {
			return viewer.Wheel(-ev.WheelY), true
		}
	case input.EventKeyDown:
		if ev.KeyName != "" {
			return viewer.Key(ev.KeyName), true
		}
	}
	return viewer.Event{}, false
}
