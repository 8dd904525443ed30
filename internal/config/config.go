// Package config handles viewer configuration loading and management.
package config

import (
	"github.com/Faultbox/stlsort/internal/orientation"
	"github.com/Faultbox/stlsort/internal/shading"
	"github.com/Faultbox/stlsort/pkg/math"
)

// Config holds all viewer settings.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Session     SessionConfig     `yaml:"session"`
	Orientation OrientationConfig `yaml:"orientation"`
	Lighting    LightingConfig    `yaml:"lighting"`
	Capture     CaptureConfig     `yaml:"capture"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Samples    int        `yaml:"samples"`
	Background [3]float32 `yaml:"background"`
}

// SessionConfig describes the work queue and the classification buckets.
type SessionConfig struct {
	Queue      []string          `yaml:"queue"`       // Mesh paths in viewing order
	QueueFile  string            `yaml:"queue_file"`  // One path per line, appended after Queue
	StartIndex int               `yaml:"start_index"` // Resume position, e.g. from "Stopped at file #n"
	Bindings   map[string]string `yaml:"bindings"`    // Key name -> destination file
}

// OrientationConfig holds rotation and zoom tuning. Angles are in degrees,
// distances in mesh radii.
type OrientationConfig struct {
	RotationSpeed   float32 `yaml:"rotation_speed"`   // Degrees per second
	ArrowStep       float32 `yaml:"arrow_step"`       // Degrees per arrow press
	DragSensitivity float32 `yaml:"drag_sensitivity"` // Degrees per pixel
	Tilt            float32 `yaml:"tilt"`             // Base rotation about X
	DefaultDistance float32 `yaml:"default_distance"`
	MinDistance     float32 `yaml:"min_distance"`
	MaxDistance     float32 `yaml:"max_distance"`
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"` // Distance per scroll unit
	AutoRotate      bool    `yaml:"auto_rotate"`      // Start rotating
}

// LightingConfig holds the point light and material.
type LightingConfig struct {
	LightColor      [3]float32 `yaml:"light_color"`
	ObjectColor     [3]float32 `yaml:"object_color"`
	AmbientStrength float32    `yaml:"ambient_strength"`
	FollowCamera    bool       `yaml:"follow_camera"` // Light sits at the eye
	Position        [3]float32 `yaml:"position"`      // World position when not following
}

// CaptureConfig holds screenshot settings.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultBindings returns the stock WASD buckets.
func DefaultBindings() map[string]string {
	return map[string]string{
		"W": "w.txt",
		"A": "a.txt",
		"S": "s.txt",
		"D": "d.txt",
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
			Background: [3]float32{0.1, 0.1, 0.15},
		},
		Session: SessionConfig{
			Bindings: DefaultBindings(),
		},
		Orientation: OrientationConfig{
			RotationSpeed:   30,
			ArrowStep:       5,
			DragSensitivity: 0.25,
			Tilt:            -55,
			DefaultDistance: 2.5,
			MinDistance:     1.2,
			MaxDistance:     10,
			ZoomSensitivity: 0.25,
			AutoRotate:      true,
		},
		Lighting: LightingConfig{
			LightColor:      [3]float32{1, 1, 1},
			ObjectColor:     [3]float32{0.8, 0.8, 0.8},
			AmbientStrength: shading.DefaultAmbientStrength,
			FollowCamera:    true,
		},
		Capture: CaptureConfig{
			Dir:    "screenshots",
			Prefix: "stlsort",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Settings converts the orientation section into controller settings.
func (o OrientationConfig) Settings() orientation.Settings {
	return orientation.Settings{
		RotationSpeed:     math.Radians(o.RotationSpeed),
		ArrowStep:         math.Radians(o.ArrowStep),
		DragSensitivity:   math.Radians(o.DragSensitivity),
		Tilt:              math.Radians(o.Tilt),
		DefaultDistance:   o.DefaultDistance,
		MinDistance:       o.MinDistance,
		MaxDistance:       o.MaxDistance,
		ZoomSensitivity:   o.ZoomSensitivity,
		StartAutoRotating: o.AutoRotate,
	}
}

// Parameters converts the lighting section into shading parameters.
// When FollowCamera is set the position is overwritten every frame.
func (l LightingConfig) Parameters() shading.LightParameters {
	return shading.LightParameters{
		Position:        vec3(l.Position),
		LightColor:      vec3(l.LightColor),
		ObjectColor:     vec3(l.ObjectColor),
		AmbientStrength: l.AmbientStrength,
	}
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
