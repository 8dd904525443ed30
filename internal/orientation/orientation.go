// Package orientation owns the rotation and zoom state of the viewed mesh.
//
// The controller is a small state machine: {Rotating, Paused} x zoom level.
// Auto-rotation advances yaw every tick while rotating; manual input (arrow
// keys, mouse drag, scroll) layers on top and never changes the
// rotating/paused state. Only TogglePause does.
package orientation

import (
	"github.com/Faultbox/stlsort/pkg/math"
)

// Direction is a manual rotation direction.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "unknown"
	}
}

// Settings are the static tuning values of a controller. Angles are radians.
type Settings struct {
	RotationSpeed     float32 // Auto-rotation rate, radians per second
	ArrowStep         float32 // Yaw/pitch nudge per arrow press
	DragSensitivity   float32 // Radians per pixel of mouse drag
	Tilt              float32 // Fixed base rotation about X applied before pitch
	DefaultDistance   float32
	MinDistance       float32
	MaxDistance       float32
	ZoomSensitivity   float32 // Distance change per scroll unit
	StartAutoRotating bool
}

// DefaultSettings returns the stock viewer tuning.
func DefaultSettings() Settings {
	return Settings{
		RotationSpeed:     math.Radians(30),
		ArrowStep:         math.Radians(5),
		DragSensitivity:   math.Radians(0.25),
		Tilt:              math.Radians(-55),
		DefaultDistance:   2.5,
		MinDistance:       1.2,
		MaxDistance:       10,
		ZoomSensitivity:   0.25,
		StartAutoRotating: true,
	}
}

// State is a snapshot of the orientation.
type State struct {
	Yaw        float32 // Radians, [0, 2π)
	Pitch      float32 // Radians, [0, 2π)
	Distance   float32 // Camera distance in mesh radii
	AutoRotate bool
}

// Controller mutates State through the operations below.
type Controller struct {
	settings Settings
	state    State
}

// New creates a controller at zero yaw/pitch and default zoom.
// The default distance is clamped into the configured range.
func New(s Settings) *Controller {
	return &Controller{
		settings: s,
		state: State{
			Distance:   math.Clamp(s.DefaultDistance, s.MinDistance, s.MaxDistance),
			AutoRotate: s.StartAutoRotating,
		},
	}
}

// State returns the current orientation.
func (c *Controller) State() State {
	return c.state
}

// Paused reports whether auto-rotation is off.
func (c *Controller) Paused() bool {
	return !c.state.AutoRotate
}

// Distance returns the current zoom distance.
func (c *Controller) Distance() float32 {
	return c.state.Distance
}

// Tick advances auto-rotation by dt seconds. No-op while paused.
func (c *Controller) Tick(dt float32) {
	if !c.state.AutoRotate || dt <= 0 {
		return
	}
	c.state.Yaw = math.WrapAngle(c.state.Yaw + c.settings.RotationSpeed*dt)
}

// ApplyArrow nudges yaw (left/right) or pitch (up/down) by one step.
func (c *Controller) ApplyArrow(dir Direction) {
	step := c.settings.ArrowStep
	switch dir {
	case DirLeft:
		c.state.Yaw = math.WrapAngle(c.state.Yaw - step)
	case DirRight:
		c.state.Yaw = math.WrapAngle(c.state.Yaw + step)
	case DirUp:
		c.state.Pitch = math.WrapAngle(c.state.Pitch - step)
	case DirDown:
		c.state.Pitch = math.WrapAngle(c.state.Pitch + step)
	}
}

// ApplyDrag rotates by a mouse drag delta in pixels.
func (c *Controller) ApplyDrag(dx, dy float32) {
	c.state.Yaw = math.WrapAngle(c.state.Yaw + dx*c.settings.DragSensitivity)
	c.state.Pitch = math.WrapAngle(c.state.Pitch + dy*c.settings.DragSensitivity)
}

// ApplyScroll changes the zoom distance, saturating at the limits.
func (c *Controller) ApplyScroll(delta float32) {
	d := c.state.Distance + delta*c.settings.ZoomSensitivity
	c.state.Distance = math.Clamp(d, c.settings.MinDistance, c.settings.MaxDistance)
}

// TogglePause flips auto-rotation.
func (c *Controller) TogglePause() {
	c.state.AutoRotate = !c.state.AutoRotate
}

// ModelMatrix returns the model transform rotating the mesh about center:
// RotX(tilt + pitch) * RotY(yaw) * Translate(-center).
func (c *Controller) ModelMatrix(center math.Vec3) math.Mat4 {
	return math.RotateX(c.settings.Tilt + c.state.Pitch).
		Mul(math.RotateY(c.state.Yaw)).
		Mul(math.Translate(center.Scale(-1)))
}
