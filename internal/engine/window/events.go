package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/isopixel/internal/engine/input"
)

var scancodes = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_UP:     input.KeyUp,
	sdl.SCANCODE_DOWN:   input.KeyDown,
	sdl.SCANCODE_LEFT:   input.KeyLeft,
	sdl.SCANCODE_RIGHT:  input.KeyRight,
	sdl.SCANCODE_Q:      input.KeyQ,
	sdl.SCANCODE_E:      input.KeyE,
	sdl.SCANCODE_1:      input.Key1,
	sdl.SCANCODE_2:      input.Key2,
	sdl.SCANCODE_3:      input.Key3,
	sdl.SCANCODE_R:      input.KeyR,
	sdl.SCANCODE_P:      input.KeyP,
	sdl.SCANCODE_B:      input.KeyB,
	sdl.SCANCODE_F5:     input.KeyF5,
	sdl.SCANCODE_F12:    input.KeyF12,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
}

// PollEvents drains the SDL queue into events, appending to dst.
func (w *Window) PollEvents(dst []input.Event) []input.Event {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			dst = append(dst, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				// Data1/Data2 are in window units; the GL side needs pixels.
				dw, dh := w.DrawableSize()
				dst = append(dst, input.Event{
					Type:   input.EventWindowResize,
					Width:  dw,
					Height: dh,
				})
			}

		case *sdl.KeyboardEvent:
			ev := input.Event{
				Key:    scancodes[e.Keysym.Scancode],
				Repeat: e.Repeat != 0,
			}
			if e.Type == sdl.KEYDOWN {
				ev.Type = input.EventKeyDown
			} else {
				ev.Type = input.EventKeyUp
			}
			dst = append(dst, ev)

		case *sdl.TouchFingerEvent:
			ev := input.Event{
				Finger: int64(e.FingerID),
				X:      e.X,
				Y:      e.Y,
			}
			switch e.Type {
			case sdl.FINGERDOWN:
				ev.Type = input.EventFingerDown
			case sdl.FINGERUP:
				ev.Type = input.EventFingerUp
			default:
				continue
			}
			dst = append(dst, ev)
		}
	}
	return dst
}
