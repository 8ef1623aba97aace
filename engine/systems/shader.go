package systems

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/math"
	"github.com/spaghettifunk/anima-scenes/engine/renderer"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of programs held in the system. */
	MaxShaderCount uint16
}

// SourceLoader resolves a shader asset name to its GLSL text.
type SourceLoader interface {
	LoadShaderSource(name string) (string, error)
}

/**
 * @brief Builds GPU programs from GLSL sources and keeps them by name.
 *
 * Compile and Link report driver diagnostics as *core.CompileError and
 * *core.LinkError; each failure is logged exactly once, where it happens.
 */
type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig
	// A lookup table for program name->program
	Lookup map[string]*metadata.ShaderProgram
	// The handle of the program currently in use.
	CurrentProgram uint32

	backend renderer.Backend
	sources SourceLoader
}

func NewShaderSystem(config *ShaderSystemConfig, backend renderer.Backend, sources SourceLoader) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &ShaderSystem{
		Config:  config,
		Lookup:  make(map[string]*metadata.ShaderProgram),
		backend: backend,
		sources: sources,
	}, nil
}

/**
 * @brief Compiles one shader stage.
 *
 * @param stage The pipeline stage the source is written for.
 * @param source GLSL text, passed to the driver verbatim.
 * @return The compiled stage, or a *core.CompileError carrying the driver log.
 */
func (s *ShaderSystem) Compile(stage metadata.ShaderStage, source string) (*metadata.CompiledStage, error) {
	handle, err := s.backend.CreateShader(stage)
	if err != nil {
		core.LogError("could not create %s shader: %s", stage, err)
		return nil, err
	}
	s.backend.ShaderSource(handle, source)
	s.backend.CompileShader(handle)

	if !s.backend.ShaderCompileStatus(handle) {
		err := &core.CompileError{Stage: stage.String(), Log: s.backend.ShaderInfoLog(handle)}
		s.backend.DeleteShader(handle)
		core.LogError("GL shader index %d did not compile: %s", handle, err)
		return nil, err
	}
	return &metadata.CompiledStage{Stage: stage, Handle: handle}, nil
}

/**
 * @brief Links a vertex and a fragment stage into a program. The stages
 * remain owned by the caller.
 *
 * @return The program, or a *core.LinkError carrying the driver log.
 */
func (s *ShaderSystem) Link(name string, vs, fs *metadata.CompiledStage) (*metadata.ShaderProgram, error) {
	if vs == nil || fs == nil {
		err := fmt.Errorf("link %s: both a vertex and a fragment stage are required", name)
		core.LogError(err.Error())
		return nil, err
	}
	if vs.Stage != metadata.ShaderStageVertex || fs.Stage != metadata.ShaderStageFragment {
		err := fmt.Errorf("link %s: got %s and %s stages, want vertex and fragment", name, vs.Stage, fs.Stage)
		core.LogError(err.Error())
		return nil, err
	}

	handle, err := s.backend.CreateProgram()
	if err != nil {
		core.LogError("could not create program %s: %s", name, err)
		return nil, err
	}
	s.backend.AttachShader(handle, fs.Handle)
	s.backend.AttachShader(handle, vs.Handle)
	s.backend.LinkProgram(handle)

	if !s.backend.ProgramLinkStatus(handle) {
		err := &core.LinkError{Name: name, Log: s.backend.ProgramInfoLog(handle)}
		s.backend.DeleteProgram(handle)
		core.LogError("ERROR: could not link shader programme GL index %d: %s", handle, err)
		return nil, err
	}

	program := &metadata.ShaderProgram{
		Name:     name,
		Handle:   handle,
		Uniforms: make(map[string]metadata.UniformLocation),
	}
	s.logProgramInfo(program)
	return program, nil
}

func (s *ShaderSystem) logProgramInfo(program *metadata.ShaderProgram) {
	uniforms := s.backend.ActiveUniforms(program.Handle)
	core.LogDebug("shader programme %s (GL index %d): %d active uniforms", program.Name, program.Handle, len(uniforms))
	for i, u := range uniforms {
		core.LogDebug("  %d) type:0x%x name:%s location:%d", i, u.Type, u.Name, u.Location)
	}
}

/**
 * @brief Returns the location of a uniform, caching the lookup. Missing
 * names yield metadata.UniformNotFound; that result is cached too.
 */
func (s *ShaderSystem) UniformLocation(program *metadata.ShaderProgram, name string) metadata.UniformLocation {
	if loc, ok := program.Uniforms[name]; ok {
		return loc
	}
	loc := s.backend.GetUniformLocation(program.Handle, name)
	if loc == metadata.UniformNotFound {
		core.LogWarn("uniform %q not found in program %s", name, program.Name)
	}
	program.Uniforms[name] = loc
	return loc
}

// SetMat4 uploads m to the named uniform of program. Unknown uniforms are
// ignored. The program is made current first.
func (s *ShaderSystem) SetMat4(program *metadata.ShaderProgram, name string, m math.Mat4) {
	loc := s.UniformLocation(program, name)
	if loc == metadata.UniformNotFound {
		return
	}
	s.Use(program)
	s.backend.UniformMatrix4fv(loc, &m.Data)
}

// Use makes program current, skipping the call when it already is.
func (s *ShaderSystem) Use(program *metadata.ShaderProgram) {
	if s.CurrentProgram == program.Handle {
		return
	}
	s.backend.UseProgram(program.Handle)
	s.CurrentProgram = program.Handle
}

// Validate asks the driver whether program can run in the current state.
func (s *ShaderSystem) Validate(program *metadata.ShaderProgram) error {
	if s.backend.ValidateProgram(program.Handle) {
		return nil
	}
	err := fmt.Errorf("program %s (GL index %d) is not valid:\n%s", program.Name, program.Handle, s.backend.ProgramInfoLog(program.Handle))
	core.LogError(err.Error())
	return err
}

// compileAndLink runs the whole pipeline without touching the registry.
func (s *ShaderSystem) compileAndLink(name, vsSource, fsSource string, uniforms []string) (*metadata.ShaderProgram, error) {
	vs, err := s.Compile(metadata.ShaderStageVertex, vsSource)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	defer s.backend.DeleteShader(vs.Handle)

	fs, err := s.Compile(metadata.ShaderStageFragment, fsSource)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	defer s.backend.DeleteShader(fs.Handle)

	program, err := s.Link(name, vs, fs)
	if err != nil {
		return nil, err
	}
	for _, u := range uniforms {
		s.UniformLocation(program, u)
	}
	return program, nil
}

func (s *ShaderSystem) register(program *metadata.ShaderProgram) error {
	if old, ok := s.Lookup[program.Name]; ok {
		s.destroy(old)
	} else if len(s.Lookup) >= int(s.Config.MaxShaderCount) {
		s.backend.DeleteProgram(program.Handle)
		err := fmt.Errorf("shader system is full (%d programs), cannot add %s", s.Config.MaxShaderCount, program.Name)
		core.LogError(err.Error())
		return err
	}
	s.Lookup[program.Name] = program
	return nil
}

/**
 * @brief Compiles, links and registers a program under name, replacing any
 * program already registered with that name. The listed uniforms are
 * resolved up front.
 */
func (s *ShaderSystem) Build(name, vsSource, fsSource string, uniforms ...string) (*metadata.ShaderProgram, error) {
	program, err := s.compileAndLink(name, vsSource, fsSource, uniforms)
	if err != nil {
		return nil, err
	}
	if err := s.register(program); err != nil {
		return nil, err
	}
	return program, nil
}

// BuildFromFiles is Build with sources read through the asset loader. The
// paths are remembered for Rebuild.
func (s *ShaderSystem) BuildFromFiles(name, vsPath, fsPath string, uniforms ...string) (*metadata.ShaderProgram, error) {
	if s.sources == nil {
		return nil, fmt.Errorf("program %s: no source loader configured", name)
	}
	vsSource, err := s.sources.LoadShaderSource(vsPath)
	if err != nil {
		core.LogError("program %s: %s", name, err)
		return nil, err
	}
	fsSource, err := s.sources.LoadShaderSource(fsPath)
	if err != nil {
		core.LogError("program %s: %s", name, err)
		return nil, err
	}
	program, err := s.Build(name, vsSource, fsSource, uniforms...)
	if err != nil {
		return nil, err
	}
	program.VertexPath = vsPath
	program.FragmentPath = fsPath
	return program, nil
}

/**
 * @brief Rebuilds a file-backed program from its sources. On success the
 * registered *ShaderProgram is updated in place, so existing references see
 * the new handle; uniforms that were looked up before are resolved again.
 * On failure the previous program stays in use and the error is returned.
 */
func (s *ShaderSystem) Rebuild(name string) error {
	program, ok := s.Lookup[name]
	if !ok {
		return fmt.Errorf("program %s is not registered", name)
	}
	if program.VertexPath == "" || program.FragmentPath == "" || s.sources == nil {
		return fmt.Errorf("program %s was not built from files", name)
	}
	vsSource, err := s.sources.LoadShaderSource(program.VertexPath)
	if err != nil {
		return err
	}
	fsSource, err := s.sources.LoadShaderSource(program.FragmentPath)
	if err != nil {
		return err
	}

	uniforms := make([]string, 0, len(program.Uniforms))
	for u := range program.Uniforms {
		uniforms = append(uniforms, u)
	}
	fresh, err := s.compileAndLink(name, vsSource, fsSource, uniforms)
	if err != nil {
		core.LogWarn("keeping previous version of program %s", name)
		return err
	}

	if s.CurrentProgram == program.Handle {
		s.CurrentProgram = 0
	}
	s.backend.DeleteProgram(program.Handle)
	program.Handle = fresh.Handle
	program.Uniforms = fresh.Uniforms
	core.LogInfo("program %s rebuilt (GL index %d)", name, program.Handle)
	return nil
}

// UsesFile reports the names of registered programs built from path.
func (s *ShaderSystem) UsesFile(path string) []string {
	var out []string
	for name, p := range s.Lookup {
		if p.VertexPath == path || p.FragmentPath == path {
			out = append(out, name)
		}
	}
	return out
}

// Get returns a registered program.
func (s *ShaderSystem) Get(name string) (*metadata.ShaderProgram, error) {
	program, ok := s.Lookup[name]
	if !ok {
		return nil, fmt.Errorf("program %s is not registered", name)
	}
	return program, nil
}

func (s *ShaderSystem) destroy(program *metadata.ShaderProgram) {
	if s.CurrentProgram == program.Handle {
		s.backend.UseProgram(0)
		s.CurrentProgram = 0
	}
	s.backend.DeleteProgram(program.Handle)
}

// Destroy deletes a registered program.
func (s *ShaderSystem) Destroy(name string) error {
	program, ok := s.Lookup[name]
	if !ok {
		return fmt.Errorf("program %s is not registered", name)
	}
	s.destroy(program)
	delete(s.Lookup, name)
	return nil
}

/**
 * @brief Shuts down the shader system, deleting every registered program.
 */
func (s *ShaderSystem) Shutdown() error {
	var errs []error
	for name := range s.Lookup {
		if err := s.Destroy(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
