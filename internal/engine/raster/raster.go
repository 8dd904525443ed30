// Package raster is a small software triangle rasterizer. It renders the same
// picture as the GPU path by calling the shading model per fragment, which
// makes it usable for screenshots and for tests without a GL context.
package raster

import (
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/stlsort/internal/mesh"
	"github.com/Faultbox/stlsort/internal/shading"
	"github.com/Faultbox/stlsort/pkg/math"
)

// Target is a color image plus depth buffer.
type Target struct {
	Image *image.RGBA
	depth []float32
}

// NewTarget allocates a cleared target. Non-positive sizes become 1.
func NewTarget(width, height int) *Target {
	width = max(width, 1)
	height = max(height, 1)
	t := &Target{
		Image: image.NewRGBA(image.Rect(0, 0, width, height)),
		depth: make([]float32, width*height),
	}
	t.Clear(color.RGBA{A: 255})
	return t
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.Image.Rect.Dx() }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.Image.Rect.Dy() }

// Clear fills the image with bg and resets depth to the far plane.
func (t *Target) Clear(bg color.RGBA) {
	pix := t.Image.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
	for i := range t.depth {
		t.depth[i] = gomath.MaxFloat32
	}
}

// Depth returns the stored depth at (x, y), or MaxFloat32 where nothing was drawn.
func (t *Target) Depth(x, y int) float32 {
	if x < 0 || y < 0 || x >= t.Width() || y >= t.Height() {
		return gomath.MaxFloat32
	}
	return t.depth[y*t.Width()+x]
}

// screenVertex is a vertex after projection.
type screenVertex struct {
	x, y, z float32 // Screen x/y, NDC depth
	invW    float32
	world   math.Vec3
	normal  math.Vec3
}

// DrawMesh rasterizes every triangle of m. Model, view and projection follow
// the GPU program: clip = projection * view * model * position.
func (t *Target) DrawMesh(m *mesh.Mesh, model, view, projection math.Mat4, fs shading.FragmentShader) {
	viewProj := projection.Mul(view)
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		var sv [3]screenVertex
		visible := true
		for k := range 3 {
			v := m.Vertices[i+k]
			world := model.TransformPoint(v.Position)
			clip := viewProj.MulVec4(math.Vec4{world.X, world.Y, world.Z, 1})
			if clip[3] <= 1e-6 {
				// Behind the eye. The viewer keeps the mesh in front of the
				// near plane, so dropping the triangle is enough.
				visible = false
				break
			}
			invW := 1 / clip[3]
			sv[k] = screenVertex{
				x:      (clip[0]*invW + 1) * 0.5 * float32(t.Width()),
				y:      (1 - clip[1]*invW) * 0.5 * float32(t.Height()),
				z:      clip[2] * invW,
				invW:   invW,
				world:  world,
				normal: model.TransformDirection(v.Normal),
			}
		}
		if visible {
			t.drawTriangle(sv, fs)
		}
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (t *Target) drawTriangle(sv [3]screenVertex, fs shading.FragmentShader) {
	a, b, c := sv[0], sv[1], sv[2]
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}

	w, h := t.Width(), t.Height()
	minX := max(0, int(gomath.Floor(float64(min(a.x, b.x, c.x)))))
	maxX := min(w-1, int(gomath.Ceil(float64(max(a.x, b.x, c.x)))))
	minY := max(0, int(gomath.Floor(float64(min(a.y, b.y, c.y)))))
	maxY := min(h-1, int(gomath.Ceil(float64(max(a.y, b.y, c.y)))))

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(b.x, b.y, c.x, c.y, px, py) / area
			w1 := edge(c.x, c.y, a.x, a.y, px, py) / area
			w2 := edge(a.x, a.y, b.x, b.y, px, py) / area
			// Either winding is accepted; STL files are not consistent about it.
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			if z < -1 || z > 1 {
				continue
			}
			idx := y*w + x
			if z >= t.depth[idx] {
				continue
			}

			// Perspective-correct attribute interpolation.
			p0, p1, p2 := w0*a.invW, w1*b.invW, w2*c.invW
			norm := 1 / (p0 + p1 + p2)
			frag := shading.Fragment{
				Position: a.world.Scale(p0).Add(b.world.Scale(p1)).Add(c.world.Scale(p2)).Scale(norm),
				Normal:   a.normal.Scale(p0).Add(b.normal.Scale(p1)).Add(c.normal.Scale(p2)),
			}

			t.depth[idx] = z
			r, g, bl, al := fs.Shade(frag).RGBA8()
			o := idx * 4
			t.Image.Pix[o], t.Image.Pix[o+1], t.Image.Pix[o+2], t.Image.Pix[o+3] = r, g, bl, al
		}
	}
}
