package metadata

import "fmt"

type ShaderStage int

const (
	ShaderStageVertex   ShaderStage = 0x00000001
	ShaderStageFragment ShaderStage = 0x00000004
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderStage(%d)", int(s))
	}
}

// UniformLocation is a driver-assigned uniform slot.
type UniformLocation int32

// UniformNotFound is what the driver reports for names that are absent or
// were optimized out.
const UniformNotFound UniformLocation = -1

/**
 * @brief A successfully compiled shader stage.
 */
type CompiledStage struct {
	Stage  ShaderStage
	Handle uint32
}

/**
 * @brief A linked, usable shader program.
 */
type ShaderProgram struct {
	/** @brief Registry name of the program. */
	Name string
	/** @brief Driver handle. */
	Handle uint32
	/** @brief Uniform locations looked up so far, keyed by name. */
	Uniforms map[string]UniformLocation
	/** @brief Source files the program was built from, if any. */
	VertexPath   string
	FragmentPath string
}

// UniformInfo describes one active uniform as reported by the driver.
type UniformInfo struct {
	Name     string
	Type     uint32
	Size     int32
	Location UniformLocation
}
