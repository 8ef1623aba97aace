package metadata

/** @brief Vertex attribute slots shared by the shaders and the mesh upload. */
const (
	AttributePosition uint32 = 0
	AttributeNormal   uint32 = 1
	AttributeTexCoord uint32 = 2
)

/**
 * @brief One vertex attribute stream: tightly packed float32 values with
 * Components values per vertex.
 */
type VertexAttribute struct {
	Location   uint32
	Components int32
	Data       []float32
}

/**
 * @brief GPU-side geometry: a vertex array object plus one buffer per
 * attribute stream.
 */
type Geometry struct {
	/** @brief The geometry identifier. */
	ID uint32
	/** @brief The geometry name. */
	Name string
	/** @brief The vertex array object handle. */
	VAO uint32
	/** @brief Vertex buffer handles, one per attribute. */
	Buffers []uint32
	/** @brief Number of vertices drawn as triangles. */
	VertexCount int32
}
