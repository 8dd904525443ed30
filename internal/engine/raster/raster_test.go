package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/stlsort/internal/mesh"
	"github.com/Faultbox/stlsort/internal/shading"
	"github.com/Faultbox/stlsort/pkg/math"
)

func facingTriangle(z float32) *mesh.Mesh {
	n := math.Vec3{Z: 1}
	return &mesh.Mesh{
		Vertices: []mesh.Vertex{
			{Position: math.Vec3{X: -1, Y: -1, Z: z}, Normal: n},
			{Position: math.Vec3{X: 1, Y: -1, Z: z}, Normal: n},
			{Position: math.Vec3{X: 0, Y: 1, Z: z}, Normal: n},
		},
	}
}

func testMatrices() (model, view, projection math.Mat4) {
	model = math.Identity()
	view = math.LookAt(math.Vec3{Z: 3}, math.Vec3{}, math.Vec3{Y: 1})
	projection = math.Perspective(math.Radians(45), 1, 0.1, 10)
	return
}

func lambert(object math.Vec3) shading.Lambert {
	lp := shading.DefaultLight()
	lp.Position = math.Vec3{Z: 3}
	lp.ObjectColor = object
	return shading.Lambert{Light: lp}
}

func TestDrawMeshShadesCoveredPixels(t *testing.T) {
	target := NewTarget(64, 64)
	model, view, proj := testMatrices()

	target.DrawMesh(facingTriangle(0), model, view, proj, lambert(math.Vec3{X: 0.8, Y: 0.8, Z: 0.8}))

	center := target.Image.RGBAAt(32, 32)
	// Facing the light: (0.2 + ~1) * 0.8.
	assert.InDelta(t, 245, int(center.R), 6)
	assert.Equal(t, center.R, center.G)
	assert.Equal(t, uint8(255), center.A)

	assert.Equal(t, color.RGBA{A: 255}, target.Image.RGBAAt(0, 0), "corner stays background")
	assert.Less(t, target.Depth(32, 32), float32(1))
}

func TestDrawMeshDepthTest(t *testing.T) {
	target := NewTarget(32, 32)
	model, view, proj := testMatrices()
	red := lambert(math.Vec3{X: 1})
	blue := lambert(math.Vec3{Z: 1})

	target.DrawMesh(facingTriangle(-0.5), model, view, proj, blue)
	target.DrawMesh(facingTriangle(0.5), model, view, proj, red)
	target.DrawMesh(facingTriangle(-0.5), model, view, proj, blue)

	px := target.Image.RGBAAt(16, 16)
	assert.NotZero(t, px.R, "nearer red triangle wins")
	assert.Zero(t, px.B)
}

func TestDrawMeshEitherWinding(t *testing.T) {
	target := NewTarget(32, 32)
	model, view, proj := testMatrices()

	m := facingTriangle(0)
	m.Vertices[1], m.Vertices[2] = m.Vertices[2], m.Vertices[1]
	target.DrawMesh(m, model, view, proj, lambert(math.Vec3{X: 1, Y: 1, Z: 1}))

	assert.NotZero(t, target.Image.RGBAAt(16, 16).R)
}

func TestDrawMeshBehindCameraIsDropped(t *testing.T) {
	target := NewTarget(16, 16)
	model, view, proj := testMatrices()

	target.DrawMesh(facingTriangle(5), model, view, proj, lambert(math.Vec3{X: 1}))

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			require.Equal(t, color.RGBA{A: 255}, target.Image.RGBAAt(x, y))
		}
	}
}

func TestNewTargetClampsSize(t *testing.T) {
	target := NewTarget(0, -3)
	assert.Equal(t, 1, target.Width())
	assert.Equal(t, 1, target.Height())
}
