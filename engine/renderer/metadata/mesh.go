package metadata

/**
 * @brief Flattened, non-indexed triangle data ready for upload. Entry i of
 * each array belongs to face vertex i.
 *
 * Positions holds 3 floats per vertex, TexCoords 2 and Normals 3.
 */
type Mesh struct {
	Name        string
	Positions   []float32
	TexCoords   []float32
	Normals     []float32
	VertexCount int
}
