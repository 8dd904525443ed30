// Package shading implements the single point light ambient + diffuse model
// used to make mesh shape legible.
//
// Shade is the reference implementation. The GPU program embedded in this
// package evaluates the same equation per fragment; the software rasterizer
// calls Shade directly.
package shading

import (
	"github.com/Faultbox/stlsort/pkg/math"
)

// DefaultAmbientStrength is the fraction of the light color applied everywhere.
const DefaultAmbientStrength = 0.2

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// RGBA8 converts to 8-bit channels, clamping to [0, 1].
func (c Color) RGBA8() (r, g, b, a uint8) {
	conv := func(x float32) uint8 {
		return uint8(math.Clamp(x, 0, 1)*255 + 0.5)
	}
	return conv(c.R), conv(c.G), conv(c.B), conv(c.A)
}

// LightParameters are the per-frame shading uniforms.
type LightParameters struct {
	Position        math.Vec3 // World-space light position
	LightColor      math.Vec3
	ObjectColor     math.Vec3
	AmbientStrength float32
}

// DefaultLight returns a white light over a light gray object.
func DefaultLight() LightParameters {
	return LightParameters{
		LightColor:      math.Vec3{X: 1, Y: 1, Z: 1},
		ObjectColor:     math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		AmbientStrength: DefaultAmbientStrength,
	}
}

// Fragment is the interpolated input of one shaded sample.
type Fragment struct {
	Normal   math.Vec3 // World-space surface normal, need not be unit length
	Position math.Vec3 // World-space fragment position
}

// Shade computes the fragment color:
//
//	(ambient*lightColor + max(dot(n, l), 0)*lightColor) * objectColor
//
// with l pointing from the fragment towards the light. Alpha is always 1.
func Shade(f Fragment, lp LightParameters) Color {
	n := f.Normal.Normalize()
	l := lp.Position.Sub(f.Position).Normalize()

	diffuse := max(n.Dot(l), 0)

	ambient := lp.LightColor.Scale(lp.AmbientStrength)
	rgb := ambient.Add(lp.LightColor.Scale(diffuse)).Mul(lp.ObjectColor)

	return Color{R: rgb.X, G: rgb.Y, B: rgb.Z, A: 1}
}

// FragmentShader computes a color for one fragment. Rendering backends take
// this instead of calling Shade so the lighting model stays swappable.
type FragmentShader interface {
	Shade(f Fragment) Color
}

// Lambert binds LightParameters to Shade.
type Lambert struct {
	Light LightParameters
}

// Shade implements FragmentShader.
func (l Lambert) Shade(f Fragment) Color {
	return Shade(f, l.Light)
}
