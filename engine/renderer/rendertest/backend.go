// Package rendertest provides an in-memory renderer.Backend for tests.
package rendertest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spaghettifunk/anima-scenes/engine/renderer"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

var _ renderer.Backend = (*Backend)(nil)

// Call is one recorded backend invocation.
type Call struct {
	Name   string
	Handle uint32
	Arg    string
}

func (c Call) String() string {
	if c.Arg == "" {
		return fmt.Sprintf("%s(%d)", c.Name, c.Handle)
	}
	return fmt.Sprintf("%s(%d, %s)", c.Name, c.Handle, c.Arg)
}

type shader struct {
	stage    metadata.ShaderStage
	source   string
	compiled bool
	log      string
}

type program struct {
	shaders  []uint32
	linked   bool
	log      string
	uniforms []metadata.UniformInfo
}

/**
 * @brief Backend records every call and simulates shader compilation and
 * program linking. Compilation fails when the source contains a string set
 * with FailCompileOn; linking fails when LinkFailure is set.
 */
type Backend struct {
	mu sync.Mutex

	// Sources containing this substring fail to compile with CompileLog.
	FailCompileOn string
	CompileLog    string
	// When non-empty every link fails with this log.
	LinkFailure string
	// When non-empty every validation fails with this log.
	ValidateFailure string
	// Uniform names reported for every linked program, in location order.
	Uniforms []string

	Calls    []Call
	Matrices map[metadata.UniformLocation][16]float32

	nextHandle uint32
	shaders    map[uint32]*shader
	programs   map[uint32]*program
	buffers    map[uint32][]float32
	arrays     map[uint32][]metadata.VertexAttribute
	current    uint32
	viewport   [2]int32
}

func New() *Backend {
	return &Backend{
		Matrices: make(map[metadata.UniformLocation][16]float32),
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
		buffers:  make(map[uint32][]float32),
		arrays:   make(map[uint32][]metadata.VertexAttribute),
	}
}

func (b *Backend) record(name string, handle uint32, arg string) {
	b.Calls = append(b.Calls, Call{Name: name, Handle: handle, Arg: arg})
}

func (b *Backend) handle() uint32 {
	b.nextHandle++
	return b.nextHandle
}

// CallNames returns the names of the recorded calls, in order.
func (b *Backend) CallNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.Calls))
	for i, c := range b.Calls {
		out[i] = c.Name
	}
	return out
}

// Count returns how many times the named call was made.
func (b *Backend) Count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// LiveObjects returns the number of shaders, programs, buffers and vertex
// arrays that were created and not deleted.
func (b *Backend) LiveObjects() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.shaders) + len(b.programs) + len(b.buffers) + len(b.arrays)
}

// Attributes returns the attribute layout recorded for a vertex array.
func (b *Backend) Attributes(vao uint32) []metadata.VertexAttribute {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.arrays[vao]
}

// CurrentProgram returns the program last passed to UseProgram.
func (b *Backend) CurrentProgram() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Backend) Viewport(width, height int32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewport = [2]int32{width, height}
	b.record("Viewport", 0, fmt.Sprintf("%dx%d", width, height))
}

// ViewportSize returns the last viewport set.
func (b *Backend) ViewportSize() (int32, int32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewport[0], b.viewport[1]
}

func (b *Backend) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Initialize", 0, "")
	return nil
}

func (b *Backend) Info() metadata.BackendInfo {
	return metadata.BackendInfo{Renderer: "rendertest", Version: "4.1", GLSL: "4.10"}
}

func (b *Backend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Shutdown", 0, "")
	return nil
}

func (b *Backend) CreateShader(stage metadata.ShaderStage) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if stage != metadata.ShaderStageVertex && stage != metadata.ShaderStageFragment {
		return 0, fmt.Errorf("unsupported shader stage %s", stage)
	}
	h := b.handle()
	b.shaders[h] = &shader{stage: stage}
	b.record("CreateShader", h, stage.String())
	return h, nil
}

func (b *Backend) ShaderSource(handle uint32, source string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.shaders[handle]; ok {
		s.source = source
	}
	b.record("ShaderSource", handle, "")
}

func (b *Backend) CompileShader(handle uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("CompileShader", handle, "")
	s, ok := b.shaders[handle]
	if !ok {
		return
	}
	if b.FailCompileOn != "" && strings.Contains(s.source, b.FailCompileOn) {
		s.compiled = false
		s.log = b.CompileLog
		return
	}
	s.compiled = true
	s.log = ""
}

func (b *Backend) ShaderCompileStatus(handle uint32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.shaders[handle]
	return ok && s.compiled
}

func (b *Backend) ShaderInfoLog(handle uint32) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.shaders[handle]; ok {
		return s.log
	}
	return ""
}

func (b *Backend) DeleteShader(handle uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.shaders, handle)
	b.record("DeleteShader", handle, "")
}

func (b *Backend) CreateProgram() (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.handle()
	b.programs[h] = &program{}
	b.record("CreateProgram", h, "")
	return h, nil
}

func (b *Backend) AttachShader(prog, handle uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.programs[prog]; ok {
		p.shaders = append(p.shaders, handle)
	}
	arg := ""
	if s, ok := b.shaders[handle]; ok {
		arg = s.stage.String()
	}
	b.record("AttachShader", prog, arg)
}

func (b *Backend) LinkProgram(prog uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("LinkProgram", prog, "")
	p, ok := b.programs[prog]
	if !ok {
		return
	}
	if b.LinkFailure != "" {
		p.linked = false
		p.log = b.LinkFailure
		return
	}
	p.linked = true
	p.uniforms = p.uniforms[:0]
	for i, name := range b.Uniforms {
		p.uniforms = append(p.uniforms, metadata.UniformInfo{
			Name:     name,
			Type:     0x8B5C, // GL_FLOAT_MAT4
			Size:     1,
			Location: metadata.UniformLocation(i),
		})
	}
}

func (b *Backend) ProgramLinkStatus(prog uint32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.programs[prog]
	return ok && p.linked
}

func (b *Backend) ValidateProgram(prog uint32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ValidateProgram", prog, "")
	p, ok := b.programs[prog]
	if !ok {
		return false
	}
	if b.ValidateFailure != "" {
		p.log = b.ValidateFailure
		return false
	}
	return p.linked
}

func (b *Backend) ProgramInfoLog(prog uint32) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.programs[prog]; ok {
		return p.log
	}
	return ""
}

func (b *Backend) DeleteProgram(prog uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.programs, prog)
	if b.current == prog {
		b.current = 0
	}
	b.record("DeleteProgram", prog, "")
}

func (b *Backend) UseProgram(prog uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = prog
	b.record("UseProgram", prog, "")
}

func (b *Backend) ActiveUniforms(prog uint32) []metadata.UniformInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.programs[prog]; ok {
		return append([]metadata.UniformInfo(nil), p.uniforms...)
	}
	return nil
}

func (b *Backend) GetUniformLocation(prog uint32, name string) metadata.UniformLocation {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("GetUniformLocation", prog, name)
	p, ok := b.programs[prog]
	if !ok || !p.linked {
		return metadata.UniformNotFound
	}
	for _, u := range p.uniforms {
		if u.Name == name {
			return u.Location
		}
	}
	return metadata.UniformNotFound
}

func (b *Backend) UniformMatrix4fv(location metadata.UniformLocation, m *[16]float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Matrices[location] = *m
	b.record("UniformMatrix4fv", b.current, fmt.Sprint(int32(location)))
}

func (b *Backend) CreateVertexArray() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.handle()
	b.arrays[h] = nil
	b.record("CreateVertexArray", h, "")
	return h
}

func (b *Backend) CreateVertexBuffer(data []float32) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.handle()
	b.buffers[h] = append([]float32(nil), data...)
	b.record("CreateVertexBuffer", h, fmt.Sprint(len(data)))
	return h
}

func (b *Backend) VertexAttribPointer(vao, buffer uint32, attribute metadata.VertexAttribute) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.arrays[vao] = append(b.arrays[vao], attribute)
	b.record("VertexAttribPointer", vao, fmt.Sprintf("%d:%d", attribute.Location, attribute.Components))
}

func (b *Backend) DeleteVertexArray(vao uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.arrays, vao)
	b.record("DeleteVertexArray", vao, "")
}

func (b *Backend) DeleteBuffer(buffer uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.buffers, buffer)
	b.record("DeleteBuffer", buffer, "")
}

func (b *Backend) DrawTriangles(vao uint32, first, count int32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DrawTriangles", vao, fmt.Sprintf("%d+%d", first, count))
}

func (b *Backend) Clear(r, g, bl, a float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("Clear", 0, "")
}

func (b *Backend) EnableDepthTest() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("EnableDepthTest", 0, "")
}

func (b *Backend) CullBackFaces(clockwiseFront bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	arg := "ccw"
	if clockwiseFront {
		arg = "cw"
	}
	b.record("CullBackFaces", 0, arg)
}
