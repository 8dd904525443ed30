// Package input translates backend-neutral raw events into viewer actions.
package input

import (
	"strings"

	"github.com/Faultbox/stlsort/internal/orientation"
)

// RawType is the kind of a raw backend event.
type RawType int

const (
	RawNone RawType = iota
	RawKeyDown
	RawWheel
	RawMouseMotion
	RawResize
	RawClose
)

// RawEvent is a window-system event with the backend details stripped.
type RawEvent struct {
	Type   RawType
	Key    string // Key name as reported by the backend, e.g. "W", "Left", "F12"
	Repeat bool   // Key auto-repeat
	Ctrl   bool
	WheelY float32
	DX, DY float32 // Mouse motion delta in pixels
	Held   bool    // Mouse button held during motion
	Width  int
	Height int
}

// Kind is the tag of an Action.
type Kind int

const (
	Unknown Kind = iota
	Classify
	Rotate
	Zoom
	Drag
	Pause
	Quit
	Screenshot
	Resize
)

var kindNames = [...]string{
	Unknown:    "unknown",
	Classify:   "classify",
	Rotate:     "rotate",
	Zoom:       "zoom",
	Drag:       "drag",
	Pause:      "pause",
	Quit:       "quit",
	Screenshot: "screenshot",
	Resize:     "resize",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Action is a tagged variant; only the fields for Kind are meaningful.
type Action struct {
	Kind   Kind
	Key    string                // Classify
	Dir    orientation.Direction // Rotate
	Delta  float32               // Zoom
	DX, DY float32               // Drag
	Width  int                   // Resize
	Height int                   // Resize
}

// Control key names. Classification bindings may not use these.
const (
	KeyPause      = "P"
	KeyQuit       = "Q"
	KeyEscape     = "ESCAPE"
	KeyScreenshot = "F12"
	KeyZoomIn     = "="
	KeyZoomOut    = "-"
	KeyLeft       = "LEFT"
	KeyRight      = "RIGHT"
	KeyUp         = "UP"
	KeyDown       = "DOWN"
)

// Reserved reports whether key is used by a viewer control.
func Reserved(key string) bool {
	switch strings.ToUpper(key) {
	case KeyPause, KeyQuit, KeyEscape, KeyScreenshot, KeyZoomIn, KeyZoomOut,
		KeyLeft, KeyRight, KeyUp, KeyDown:
		return true
	}
	return false
}

// Keymap turns raw events into actions.
type Keymap struct {
	classify map[string]bool
}

// NewKeymap creates a keymap for the given classification keys.
func NewKeymap(classifyKeys []string) *Keymap {
	m := &Keymap{classify: make(map[string]bool, len(classifyKeys))}
	for _, k := range classifyKeys {
		m.classify[strings.ToUpper(strings.TrimSpace(k))] = true
	}
	return m
}

// Translate maps one raw event to an action. Unrecognized input yields Unknown.
func (m *Keymap) Translate(e RawEvent) Action {
	switch e.Type {
	case RawClose:
		return Action{Kind: Quit}
	case RawResize:
		return Action{Kind: Resize, Width: e.Width, Height: e.Height}
	case RawWheel:
		if e.WheelY == 0 {
			return Action{Kind: Unknown}
		}
		// Wheel up moves the camera closer.
		return Action{Kind: Zoom, Delta: -e.WheelY}
	case RawMouseMotion:
		if !e.Held {
			return Action{Kind: Unknown}
		}
		return Action{Kind: Drag, DX: e.DX, DY: e.DY}
	case RawKeyDown:
		return m.translateKey(e)
	}
	return Action{Kind: Unknown}
}

func (m *Keymap) translateKey(e RawEvent) Action {
	key := strings.ToUpper(e.Key)

	// Held arrows keep rotating.
	switch key {
	case KeyLeft:
		return Action{Kind: Rotate, Dir: orientation.DirLeft}
	case KeyRight:
		return Action{Kind: Rotate, Dir: orientation.DirRight}
	case KeyUp:
		return Action{Kind: Rotate, Dir: orientation.DirUp}
	case KeyDown:
		return Action{Kind: Rotate, Dir: orientation.DirDown}
	case KeyZoomIn:
		return Action{Kind: Zoom, Delta: -1}
	case KeyZoomOut:
		return Action{Kind: Zoom, Delta: 1}
	}

	// A held key must never classify or toggle twice.
	if e.Repeat {
		return Action{Kind: Unknown}
	}

	if e.Ctrl && key == "C" {
		return Action{Kind: Quit}
	}

	switch key {
	case KeyPause:
		return Action{Kind: Pause}
	case KeyQuit, KeyEscape:
		return Action{Kind: Quit}
	case KeyScreenshot:
		return Action{Kind: Screenshot}
	}

	if m.classify[key] {
		return Action{Kind: Classify, Key: key}
	}
	return Action{Kind: Unknown}
}
