package metadata

import "github.com/google/uuid"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a resource the engine knows how to load. */
	ResourceTypeNone ResourceType = iota
	/** @brief Text resource type. */
	ResourceTypeText
	/** @brief Shader resource type (GLSL source of a single stage). */
	ResourceTypeShader
	/** @brief Mesh resource type (Wavefront OBJ). */
	ResourceTypeMesh
	/** @brief Custom resource type. Used by loaders outside the core engine. */
	ResourceTypeCustom
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeNone:
		return "none"
	case ResourceTypeText:
		return "text"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeMesh:
		return "mesh"
	default:
		return "custom"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief Unique identifier, assigned when the resource is loaded. */
	ID uuid.UUID
	/** @brief The name of the resource, relative to the asset root. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The kind of data held. */
	Type ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. Its concrete type depends on Type. */
	Data interface{}
}
