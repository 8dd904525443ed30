// Package camera provides the fit-to-mesh camera used by the viewer.
package camera

import (
	"github.com/Faultbox/stlsort/pkg/math"
)

// DefaultFovY is the vertical field of view in degrees.
const DefaultFovY = 45

// FitCamera looks at the origin from +Z. The model transform moves the mesh
// center to the origin, so the camera only needs the mesh radius to frame it.
// Distances are expressed in mesh radii.
type FitCamera struct {
	FovY   float32 // Radians
	Radius float32 // Radius of the framed mesh in world units
}

// NewFitCamera creates a camera framing a unit-radius mesh.
func NewFitCamera() *FitCamera {
	return &FitCamera{
		FovY:   math.Radians(DefaultFovY),
		Radius: 1,
	}
}

// Fit frames a mesh with the given bounding radius.
func (c *FitCamera) Fit(radius float32) {
	if radius <= 0 {
		radius = 1
	}
	c.Radius = radius
}

// Eye returns the camera position for a zoom distance.
func (c *FitCamera) Eye(distance float32) math.Vec3 {
	return math.Vec3{Z: distance * c.Radius}
}

// ViewMatrix returns the view matrix for a zoom distance.
func (c *FitCamera) ViewMatrix(distance float32) math.Mat4 {
	return math.LookAt(c.Eye(distance), math.Vec3{}, math.Vec3{Y: 1})
}

// Projection returns a perspective matrix whose clip planes enclose the mesh
// at the given zoom distance.
func (c *FitCamera) Projection(distance, aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	near := max(c.Radius*0.01, (distance-1.5)*c.Radius)
	far := (distance + 1.5) * c.Radius
	return math.Perspective(c.FovY, aspect, near, far)
}
