package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

const float32Size = 4

/**
 * @brief Backend implementation over the OpenGL 4.1 core profile. Every
 * method must be called on the thread that owns the current context.
 */
type Backend struct {
	info metadata.BackendInfo
}

func New() *Backend {
	return &Backend{}
}

// Initialize loads the GL function pointers for the current context.
func (b *Backend) Initialize() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to load OpenGL functions: %w", err)
	}
	b.info = metadata.BackendInfo{
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
	return nil
}

func (b *Backend) Info() metadata.BackendInfo {
	return b.info
}

func (b *Backend) Shutdown() error {
	return nil
}

func (b *Backend) CreateShader(stage metadata.ShaderStage) (uint32, error) {
	var kind uint32
	switch stage {
	case metadata.ShaderStageVertex:
		kind = gl.VERTEX_SHADER
	case metadata.ShaderStageFragment:
		kind = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unsupported shader stage %s", stage)
	}
	handle := gl.CreateShader(kind)
	if handle == 0 {
		return 0, fmt.Errorf("glCreateShader(%s) returned 0", stage)
	}
	return handle, nil
}

func (b *Backend) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (b *Backend) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (b *Backend) ShaderCompileStatus(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (b *Backend) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (b *Backend) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (b *Backend) CreateProgram() (uint32, error) {
	handle := gl.CreateProgram()
	if handle == 0 {
		return 0, fmt.Errorf("glCreateProgram returned 0")
	}
	return handle, nil
}

func (b *Backend) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (b *Backend) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (b *Backend) ProgramLinkStatus(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (b *Backend) ValidateProgram(program uint32) bool {
	gl.ValidateProgram(program)
	var status int32
	gl.GetProgramiv(program, gl.VALIDATE_STATUS, &status)
	return status == gl.TRUE
}

func (b *Backend) ProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (b *Backend) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (b *Backend) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (b *Backend) ActiveUniforms(program uint32) []metadata.UniformInfo {
	var count, maxLength int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)
	out := make([]metadata.UniformInfo, 0, count)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		name := make([]uint8, maxLength+1)
		gl.GetActiveUniform(program, uint32(i), maxLength, &length, &size, &xtype, &name[0])
		goName := string(name[:length])
		out = append(out, metadata.UniformInfo{
			Name:     goName,
			Type:     xtype,
			Size:     size,
			Location: b.GetUniformLocation(program, goName),
		})
	}
	return out
}

func (b *Backend) GetUniformLocation(program uint32, name string) metadata.UniformLocation {
	return metadata.UniformLocation(gl.GetUniformLocation(program, gl.Str(name+"\x00")))
}

func (b *Backend) UniformMatrix4fv(location metadata.UniformLocation, m *[16]float32) {
	gl.UniformMatrix4fv(int32(location), 1, false, &m[0])
}

func (b *Backend) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (b *Backend) CreateVertexBuffer(data []float32) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*float32Size, gl.Ptr(data), gl.STATIC_DRAW)
	}
	return vbo
}

func (b *Backend) VertexAttribPointer(vao, buffer uint32, attribute metadata.VertexAttribute) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.VertexAttribPointerWithOffset(attribute.Location, attribute.Components, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(attribute.Location)
}

func (b *Backend) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (b *Backend) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (b *Backend) DrawTriangles(vao uint32, first, count int32) {
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (b *Backend) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (b *Backend) Clear(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// EnableDepthTest draws a fragment only when it is closer than what is
// already in the depth buffer.
func (b *Backend) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}

func (b *Backend) CullBackFaces(clockwiseFront bool) {
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	if clockwiseFront {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}
}
