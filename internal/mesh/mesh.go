// Package mesh turns parsed STL data into a renderable triangle list.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/stlsort/pkg/formats"
	"github.com/Faultbox/stlsort/pkg/math"
)

// ErrLoad marks any failure to produce a mesh for a queued path.
var ErrLoad = errors.New("mesh load failed")

// ErrNoGeometry is returned when every triangle in the file is degenerate.
var ErrNoGeometry = errors.New("no renderable triangles")

// Vertex is the interleaved GPU vertex: position then normal.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extent per axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh is an immutable triangle list; every 3 vertices form one triangle.
type Mesh struct {
	Path     string
	Vertices []Vertex
	Bounds   Bounds
	Radius   float32 // Bounding sphere radius around Bounds.Center()
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Center returns the bounds center, the pivot the viewer rotates around.
func (m *Mesh) Center() math.Vec3 {
	return m.Bounds.Center()
}

// Load reads, parses and builds the mesh at path.
// All failures wrap ErrLoad so callers can treat them uniformly.
func Load(path string) (*Mesh, error) {
	stl, err := formats.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	m, err := Build(stl)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	m.Path = path
	return m, nil
}

// Build converts STL facets into flat-shaded vertices.
// The stored facet normal is used when present; otherwise it is derived from
// the winding order. Degenerate triangles are dropped.
func Build(stl *formats.STL) (*Mesh, error) {
	vertices := make([]Vertex, 0, len(stl.Triangles)*3)

	bounds := Bounds{
		Min: math.Vec3{X: 1e30, Y: 1e30, Z: 1e30},
		Max: math.Vec3{X: -1e30, Y: -1e30, Z: -1e30},
	}

	for _, tri := range stl.Triangles {
		v0 := vec(tri.Vertices[0])
		v1 := vec(tri.Vertices[1])
		v2 := vec(tri.Vertices[2])

		face := v1.Sub(v0).Cross(v2.Sub(v0))
		if face.Length() < 1e-12 {
			continue
		}

		normal := vec(tri.Normal).Normalize()
		if normal == (math.Vec3{}) {
			normal = face.Normalize()
		}

		for _, p := range [3]math.Vec3{v0, v1, v2} {
			bounds.Min = bounds.Min.Min(p)
			bounds.Max = bounds.Max.Max(p)
			vertices = append(vertices, Vertex{Position: p, Normal: normal})
		}
	}

	if len(vertices) == 0 {
		return nil, ErrNoGeometry
	}

	radius := bounds.Size().Length() / 2
	if radius == 0 {
		radius = 1
	}

	return &Mesh{
		Vertices: vertices,
		Bounds:   bounds,
		Radius:   radius,
	}, nil
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
