package metadata

// BackendInfo is what the driver reports about itself after initialization.
type BackendInfo struct {
	Renderer string
	Version  string
	GLSL     string
}

/** @brief Winding order treated as front-facing when back faces are culled. */
type FrontFace int

const (
	/** @brief No faces are culled. */
	FrontFaceNone FrontFace = iota
	/** @brief Clockwise triangles face the viewer. */
	FrontFaceClockwise
	/** @brief Counter clock-wise triangles face the viewer. */
	FrontFaceCounterClockwise
)
