// Package input reduces raw window events to application intents.
//
// The window package translates SDL events into Event values; nothing here
// touches SDL so the mapping can be exercised without a display.
package input

import (
	"go.uber.org/zap"

	"github.com/Faultbox/isopixel/internal/logger"
)

// EventType classifies a raw event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventFingerDown
	EventFingerUp
)

// Key identifies a key the application binds. Keys it ignores are KeyUnknown.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyQ
	KeyE
	Key1
	Key2
	Key3
	KeyR
	KeyP
	KeyB
	KeyF5
	KeyF12
	KeyEscape
)

// Event is a window event in application terms.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool // key auto-repeat

	Width  int // EventWindowResize
	Height int

	Finger int64   // finger events
	X, Y   float32 // normalised [0,1] touch position
}

// Action is what the application should do in response to an event.
type Action int

const (
	ActionNone Action = iota
	ActionMoveForward
	ActionMoveBack
	ActionMoveLeft
	ActionMoveRight
	ActionRotateLeft
	ActionRotateRight
	ActionPresetSource
	ActionPresetDepth
	ActionPresetNormal
	ActionResetParams
	ActionTogglePixelation
	ActionCycleBuffer
	ActionReloadParams
	ActionScreenshot
	ActionResize
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:             "none",
	ActionMoveForward:      "move_forward",
	ActionMoveBack:         "move_back",
	ActionMoveLeft:         "move_left",
	ActionMoveRight:        "move_right",
	ActionRotateLeft:       "rotate_left",
	ActionRotateRight:      "rotate_right",
	ActionPresetSource:     "preset_source",
	ActionPresetDepth:      "preset_depth",
	ActionPresetNormal:     "preset_normal",
	ActionResetParams:      "reset_params",
	ActionTogglePixelation: "toggle_pixelation",
	ActionCycleBuffer:      "cycle_buffer",
	ActionReloadParams:     "reload_params",
	ActionScreenshot:       "screenshot",
	ActionResize:           "resize",
	ActionQuit:             "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Repeatable reports whether key auto-repeat fires the action again.
func (a Action) Repeatable() bool {
	switch a {
	case ActionMoveForward, ActionMoveBack, ActionMoveLeft, ActionMoveRight:
		return true
	}
	return false
}

// Intent is one action to apply, in event order.
type Intent struct {
	Action Action
	Width  int // ActionResize
	Height int
}

// DefaultBindings maps keys to actions.
var DefaultBindings = map[Key]Action{
	KeyW:      ActionMoveForward,
	KeyUp:     ActionMoveForward,
	KeyS:      ActionMoveBack,
	KeyDown:   ActionMoveBack,
	KeyA:      ActionMoveLeft,
	KeyLeft:   ActionMoveLeft,
	KeyD:      ActionMoveRight,
	KeyRight:  ActionMoveRight,
	KeyQ:      ActionRotateLeft,
	KeyE:      ActionRotateRight,
	Key1:      ActionPresetSource,
	Key2:      ActionPresetDepth,
	Key3:      ActionPresetNormal,
	KeyR:      ActionResetParams,
	KeyP:      ActionTogglePixelation,
	KeyB:      ActionCycleBuffer,
	KeyF5:     ActionReloadParams,
	KeyF12:    ActionScreenshot,
	KeyEscape: ActionQuit,
}

// Mapper turns events into intents. It keeps swipe state across frames.
type Mapper struct {
	bindings map[Key]Action
	swipe    SwipeTracker
	intents  []Intent
	log      *zap.Logger
}

// NewMapper creates a mapper with the default bindings.
func NewMapper() *Mapper {
	return &Mapper{
		bindings: DefaultBindings,
		swipe:    NewSwipeTracker(DefaultSwipeThreshold),
		intents:  make([]Intent, 0, 16),
		log:      logger.Named("input"),
	}
}

// Translate maps a frame's events to intents. Every event yields at most one
// intent, so rotations pressed twice before a frame rotate twice.
// The returned slice is reused by the next call.
func (m *Mapper) Translate(events []Event) []Intent {
	m.intents = m.intents[:0]
	for _, e := range events {
		if in, ok := m.translate(e); ok {
			m.intents = append(m.intents, in)
		}
	}
	return m.intents
}

func (m *Mapper) translate(e Event) (Intent, bool) {
	switch e.Type {
	case EventQuit:
		return Intent{Action: ActionQuit}, true
	case EventWindowResize:
		return Intent{Action: ActionResize, Width: e.Width, Height: e.Height}, true
	case EventKeyDown:
		a, ok := m.bindings[e.Key]
		if !ok || (e.Repeat && !a.Repeatable()) {
			return Intent{}, false
		}
		return Intent{Action: a}, true
	case EventFingerDown:
		m.swipe.Down(e.Finger, e.X)
	case EventFingerUp:
		switch m.swipe.Up(e.Finger, e.X) {
		case SwipeLeft:
			m.log.Debug("swipe", zap.String("direction", "left"))
			return Intent{Action: ActionRotateLeft}, true
		case SwipeRight:
			m.log.Debug("swipe", zap.String("direction", "right"))
			return Intent{Action: ActionRotateRight}, true
		}
	}
	return Intent{}, false
}
