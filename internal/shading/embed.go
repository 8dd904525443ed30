package shading

import _ "embed"

// Uniform names shared by the GLSL program and the GPU backend.
const (
	UniformModel           = "uModel"
	UniformView            = "uView"
	UniformProjection      = "uProjection"
	UniformLightPos        = "uLightPos"
	UniformLightColor      = "uLightColor"
	UniformObjectColor     = "uObjectColor"
	UniformAmbientStrength = "uAmbientStrength"
)

// VertexShader transforms positions and passes world-space normal and
// fragment position to the fragment stage.
//
//go:embed shaders/mesh.vert
var VertexShader string

// FragmentShaderSource is the GLSL version of Shade.
//
//go:embed shaders/mesh.frag
var FragmentShaderSource string
