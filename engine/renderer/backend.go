package renderer

import "github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"

/**
 * @brief The narrow set of GPU-context calls the engine makes. A backend
 * must only be used from the goroutine that owns the graphics context.
 *
 * Handles are driver object names; 0 is never a valid handle.
 */
type Backend interface {
	Initialize() error
	Info() metadata.BackendInfo
	Shutdown() error

	// Shader stages
	CreateShader(stage metadata.ShaderStage) (uint32, error)
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompileStatus(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	// Programs
	CreateProgram() (uint32, error)
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinkStatus(program uint32) bool
	ValidateProgram(program uint32) bool
	ProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	ActiveUniforms(program uint32) []metadata.UniformInfo

	// Uniforms. The program must be in use when setting values.
	GetUniformLocation(program uint32, name string) metadata.UniformLocation
	UniformMatrix4fv(location metadata.UniformLocation, m *[16]float32)

	// Vertex data
	CreateVertexArray() uint32
	CreateVertexBuffer(data []float32) uint32
	VertexAttribPointer(vao, buffer uint32, attribute metadata.VertexAttribute)
	DeleteVertexArray(vao uint32)
	DeleteBuffer(buffer uint32)
	DrawTriangles(vao uint32, first, count int32)

	// Frame state
	Viewport(width, height int32)
	Clear(r, g, b, a float32)
	EnableDepthTest()
	CullBackFaces(clockwiseFront bool)
}
