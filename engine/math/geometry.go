package math

// FaceNormal returns the unit normal of the triangle (p0, p1, p2) with
// counter-clockwise winding. Degenerate triangles yield the zero vector.
func FaceNormal(p0, p1, p2 Vec3) Vec3 {
	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)
	// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
	return edge1.Cross(edge2).Normalized()
}
