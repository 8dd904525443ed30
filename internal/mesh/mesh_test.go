package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/stlsort/pkg/formats"
	"github.com/Faultbox/stlsort/pkg/math"
)

func TestBuild_UsesStoredNormal(t *testing.T) {
	stl := &formats.STL{Triangles: []formats.STLTriangle{{
		Normal:   [3]float32{0, 0, 2},
		Vertices: [3][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}},
	}}}

	m, err := Build(stl)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("triangles = %d, want 1", m.TriangleCount())
	}
	for i, v := range m.Vertices {
		if v.Normal != (math.Vec3{X: 0, Y: 0, Z: 1}) {
			t.Errorf("vertex %d normal = %v, want normalized (0,0,1)", i, v.Normal)
		}
	}
	if m.Bounds.Min != (math.Vec3{}) || m.Bounds.Max != (math.Vec3{X: 2, Y: 2, Z: 0}) {
		t.Errorf("bounds = %+v", m.Bounds)
	}
	if m.Center() != (math.Vec3{X: 1, Y: 1, Z: 0}) {
		t.Errorf("center = %v", m.Center())
	}
}

func TestBuild_DerivesMissingNormal(t *testing.T) {
	// Clockwise when viewed from +Z, so the derived normal points down.
	stl := &formats.STL{Triangles: []formats.STLTriangle{{
		Vertices: [3][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}},
	}}}

	m, err := Build(stl)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := m.Vertices[0].Normal; got != (math.Vec3{X: 0, Y: 0, Z: -1}) {
		t.Errorf("normal = %v, want (0,0,-1)", got)
	}
}

func TestBuild_DropsDegenerate(t *testing.T) {
	stl := &formats.STL{Triangles: []formats.STLTriangle{{
		Vertices: [3][3]float32{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}},
	}}}

	if _, err := Build(stl); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("got %v, want ErrNoGeometry", err)
	}
}

func TestLoad_WrapsErrLoad(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.stl")
	if err := os.WriteFile(bad, []byte("not a mesh"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{bad, filepath.Join(dir, "missing.stl")} {
		if _, err := Load(path); !errors.Is(err, ErrLoad) {
			t.Errorf("Load(%s) = %v, want ErrLoad", path, err)
		}
	}
}

func TestLoad_ASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube_face.stl")
	src := "solid face\nfacet normal 0 1 0\nouter loop\nvertex 0 0 0\nvertex 0 0 1\nvertex 1 0 0\nendloop\nendfacet\nendsolid face\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Path != path {
		t.Errorf("path = %q", m.Path)
	}
	if m.Radius <= 0 {
		t.Errorf("radius = %v, want > 0", m.Radius)
	}
}
