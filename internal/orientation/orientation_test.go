package orientation

import (
	gomath "math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/stlsort/pkg/math"
)

func TestNew_InitialState(t *testing.T) {
	c := New(DefaultSettings())
	s := c.State()

	assert.Zero(t, s.Yaw)
	assert.Zero(t, s.Pitch)
	assert.Equal(t, float32(2.5), s.Distance)
	assert.True(t, s.AutoRotate)
	assert.False(t, c.Paused())
}

func TestNew_ClampsDefaultDistance(t *testing.T) {
	s := DefaultSettings()
	s.DefaultDistance = 100
	assert.Equal(t, s.MaxDistance, New(s).Distance())
}

func TestTick_AdvancesYawWhileRotating(t *testing.T) {
	s := DefaultSettings()
	s.RotationSpeed = 1
	c := New(s)

	c.Tick(0.5)
	assert.InDelta(t, 0.5, c.State().Yaw, 1e-6)

	c.TogglePause()
	c.Tick(10)
	assert.InDelta(t, 0.5, c.State().Yaw, 1e-6, "tick while paused must not rotate")
}

func TestTick_WrapsFullTurn(t *testing.T) {
	s := DefaultSettings()
	s.RotationSpeed = 1
	c := New(s)

	for i := 0; i < 1000; i++ {
		c.Tick(0.1)
		yaw := c.State().Yaw
		require.GreaterOrEqual(t, yaw, float32(0))
		require.Less(t, yaw, float32(2*gomath.Pi))
	}
}

func TestTogglePause_IsSelfInverse(t *testing.T) {
	c := New(DefaultSettings())
	before := c.State()

	c.TogglePause()
	assert.True(t, c.Paused())
	assert.NotEqual(t, before.AutoRotate, c.State().AutoRotate)

	c.TogglePause()
	assert.Equal(t, before, c.State())
}

func TestApplyArrow_DoesNotChangeRotatingState(t *testing.T) {
	tests := []struct {
		dir       Direction
		wantYaw   float32
		wantPitch float32
	}{
		{DirRight, 0.1, 0},
		{DirLeft, float32(2*gomath.Pi) - 0.1, 0},
		{DirDown, 0, 0.1},
		{DirUp, 0, float32(2*gomath.Pi) - 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			s := DefaultSettings()
			s.ArrowStep = 0.1
			c := New(s)

			c.ApplyArrow(tt.dir)
			assert.InDelta(t, tt.wantYaw, c.State().Yaw, 1e-5)
			assert.InDelta(t, tt.wantPitch, c.State().Pitch, 1e-5)
			assert.True(t, c.State().AutoRotate, "arrow must not disable auto-rotation")

			c.TogglePause()
			c.ApplyArrow(tt.dir)
			assert.True(t, c.Paused(), "arrow must not resume auto-rotation")
		})
	}
}

func TestApplyScroll_Saturates(t *testing.T) {
	c := New(DefaultSettings())

	for i := 0; i < 200; i++ {
		c.ApplyScroll(5)
	}
	assert.Equal(t, float32(10), c.Distance())

	for i := 0; i < 200; i++ {
		c.ApplyScroll(-5)
	}
	assert.Equal(t, float32(1.2), c.Distance())
}

// Zoom stays inside [min, max] for any interleaving of input.
func TestZoomAlwaysInRange(t *testing.T) {
	s := DefaultSettings()
	c := New(s)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		switch rng.Intn(5) {
		case 0:
			c.ApplyArrow(Direction(rng.Intn(4)))
		case 1:
			c.ApplyScroll(rng.Float32()*40 - 20)
		case 2:
			c.ApplyDrag(rng.Float32()*200-100, rng.Float32()*200-100)
		case 3:
			c.TogglePause()
		case 4:
			c.Tick(rng.Float32())
		}
		d := c.Distance()
		require.GreaterOrEqual(t, d, s.MinDistance)
		require.LessOrEqual(t, d, s.MaxDistance)
	}
}

func TestApplyDrag(t *testing.T) {
	s := DefaultSettings()
	s.DragSensitivity = 0.01
	c := New(s)

	c.ApplyDrag(10, 20)
	assert.InDelta(t, 0.1, c.State().Yaw, 1e-5)
	assert.InDelta(t, 0.2, c.State().Pitch, 1e-5)
}

func TestModelMatrix_CentersMesh(t *testing.T) {
	s := DefaultSettings()
	s.Tilt = 0
	c := New(s)

	center := math.Vec3{X: 3, Y: -2, Z: 7}
	got := c.ModelMatrix(center).TransformPoint(center)
	assert.InDelta(t, 0, got.Length(), 1e-5, "mesh center should map to the origin")
}

func TestModelMatrix_AppliesYaw(t *testing.T) {
	s := DefaultSettings()
	s.Tilt = 0
	s.ArrowStep = float32(gomath.Pi / 2)
	c := New(s)
	c.ApplyArrow(DirRight)

	got := c.ModelMatrix(math.Vec3{}).TransformPoint(math.Vec3{X: 1})
	assert.InDelta(t, 0, got.X, 1e-5)
	assert.InDelta(t, -1, got.Z, 1e-5)
}
