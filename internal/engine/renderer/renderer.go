// Package renderer draws a single lit mesh with OpenGL.
package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/stlsort/internal/engine/shader"
	"github.com/Faultbox/stlsort/internal/logger"
	"github.com/Faultbox/stlsort/internal/mesh"
	"github.com/Faultbox/stlsort/internal/shading"
	"github.com/Faultbox/stlsort/pkg/math"
)

// ErrNoMesh is returned by Draw when nothing has been uploaded.
var ErrNoMesh = errors.New("no mesh uploaded")

const vertexStride = int32(unsafe.Sizeof(mesh.Vertex{}))

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [3]float32
}

// Renderer owns the mesh program and the GPU copy of the current mesh.
type Renderer struct {
	config  Config
	program *shader.Program

	vao         uint32
	vbo         uint32
	vertexCount int32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.DepthFunc(gl.LESS)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	var err error
	r.program, err = shader.NewProgram(shading.VertexShader, shading.FragmentShaderSource,
		shading.UniformModel,
		shading.UniformView,
		shading.UniformProjection,
		shading.UniformLightPos,
		shading.UniformLightColor,
		shading.UniformObjectColor,
		shading.UniformAmbientStrength,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh program: %w", err)
	}
	logger.Debug("mesh program created", zap.Uint32("program", r.program.ID))

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, uintptr(unsafe.Offsetof(mesh.Vertex{}.Normal)))
	gl.EnableVertexAttribArray(1)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Upload replaces the GPU vertex buffer with the mesh geometry.
func (r *Renderer) Upload(m *mesh.Mesh) error {
	if m == nil || len(m.Vertices) == 0 {
		return mesh.ErrNoGeometry
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(vertexStride), unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.vertexCount = int32(len(m.Vertices))

	logger.Debug("mesh uploaded",
		zap.String("path", m.Path),
		zap.Int("triangles", m.TriangleCount()),
	)
	return nil
}

// Release drops the current mesh. The buffer object is reused by the next Upload.
func (r *Renderer) Release() {
	if r.vertexCount == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.vertexCount = 0
}

// Draw clears the frame and draws the uploaded mesh.
func (r *Renderer) Draw(model, view, projection math.Mat4, light shading.LightParameters) error {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.vertexCount == 0 {
		return ErrNoMesh
	}

	r.program.Use()
	r.program.SetMat4(shading.UniformModel, model)
	r.program.SetMat4(shading.UniformView, view)
	r.program.SetMat4(shading.UniformProjection, projection)
	r.program.SetVec3(shading.UniformLightPos, light.Position)
	r.program.SetVec3(shading.UniformLightColor, light.LightColor)
	r.program.SetVec3(shading.UniformObjectColor, light.ObjectColor)
	r.program.SetFloat(shading.UniformAmbientStrength, light.AmbientStrength)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.vertexCount)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("draw: gl error 0x%x", code)
	}
	return nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}
