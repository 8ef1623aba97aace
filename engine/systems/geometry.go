package systems

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/renderer"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

/** @brief The geometry system configuration. */
type GeometrySystemConfig struct {
	/**
	 * @brief The maximum number of geometries that can be held by the system.
	 */
	MaxGeometryCount uint32
}

// ErrInvalidGeometry is returned by Upload for inconsistent vertex data.
var ErrInvalidGeometry = errors.New("invalid geometry")

/**
 * @brief Owns vertex arrays and vertex buffers uploaded to the GPU, keyed
 * by name.
 */
type GeometrySystem struct {
	Config *GeometrySystemConfig
	// Registered geometries by name.
	Lookup map[string]*metadata.Geometry

	backend renderer.Backend
	nextID  uint32
}

func NewGeometrySystem(config *GeometrySystemConfig, backend renderer.Backend) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxGeometryCount must be > 0")
		core.LogWarn(err.Error())
		return nil, err
	}
	return &GeometrySystem{
		Config:  config,
		Lookup:  make(map[string]*metadata.Geometry),
		backend: backend,
	}, nil
}

/**
 * @brief Uploads one buffer per attribute and records the layout in a new
 * vertex array. Every attribute must hold exactly Components*vertexCount
 * values. An existing geometry with the same name is replaced.
 *
 * @param name The registry name of the geometry.
 * @param vertexCount The number of vertices, a multiple of 3 for triangles.
 * @param attributes The attribute streams.
 * @return The uploaded geometry, or an error wrapping ErrInvalidGeometry.
 */
func (gs *GeometrySystem) Upload(name string, vertexCount int, attributes ...metadata.VertexAttribute) (*metadata.Geometry, error) {
	if vertexCount <= 0 || len(attributes) == 0 {
		return nil, fmt.Errorf("geometry %s: %w: no vertices", name, ErrInvalidGeometry)
	}
	seen := make(map[uint32]bool, len(attributes))
	for _, a := range attributes {
		if a.Components < 1 || a.Components > 4 {
			return nil, fmt.Errorf("geometry %s: %w: attribute %d has %d components", name, ErrInvalidGeometry, a.Location, a.Components)
		}
		if want := int(a.Components) * vertexCount; len(a.Data) != want {
			return nil, fmt.Errorf("geometry %s: %w: attribute %d has %d values, want %d", name, ErrInvalidGeometry, a.Location, len(a.Data), want)
		}
		if seen[a.Location] {
			return nil, fmt.Errorf("geometry %s: %w: attribute %d bound twice", name, ErrInvalidGeometry, a.Location)
		}
		seen[a.Location] = true
	}

	old, replacing := gs.Lookup[name]
	if !replacing && uint32(len(gs.Lookup)) >= gs.Config.MaxGeometryCount {
		err := fmt.Errorf("geometry system is full (%d geometries), cannot add %s", gs.Config.MaxGeometryCount, name)
		core.LogError(err.Error())
		return nil, err
	}

	g := &metadata.Geometry{
		Name:        name,
		VAO:         gs.backend.CreateVertexArray(),
		VertexCount: int32(vertexCount),
	}
	for _, a := range attributes {
		buffer := gs.backend.CreateVertexBuffer(a.Data)
		gs.backend.VertexAttribPointer(g.VAO, buffer, a)
		g.Buffers = append(g.Buffers, buffer)
	}

	if replacing {
		gs.release(old)
	}
	gs.nextID++
	g.ID = gs.nextID
	gs.Lookup[name] = g
	core.LogDebug("geometry %s uploaded: %d vertices, %d attributes", name, vertexCount, len(attributes))
	return g, nil
}

// UploadMesh uploads a parsed mesh with positions, normals and texture
// coordinates bound to their attribute slots.
func (gs *GeometrySystem) UploadMesh(mesh *metadata.Mesh) (*metadata.Geometry, error) {
	return gs.Upload(mesh.Name, mesh.VertexCount,
		metadata.VertexAttribute{Location: metadata.AttributePosition, Components: 3, Data: mesh.Positions},
		metadata.VertexAttribute{Location: metadata.AttributeNormal, Components: 3, Data: mesh.Normals},
		metadata.VertexAttribute{Location: metadata.AttributeTexCoord, Components: 2, Data: mesh.TexCoords},
	)
}

// Draw issues a triangle draw for every vertex of g.
func (gs *GeometrySystem) Draw(g *metadata.Geometry) {
	gs.backend.DrawTriangles(g.VAO, 0, g.VertexCount)
}

// DrawRange draws count vertices of g starting at first. The range is
// clipped to the geometry.
func (gs *GeometrySystem) DrawRange(g *metadata.Geometry, first, count int32) {
	if first < 0 || first >= g.VertexCount {
		return
	}
	if first+count > g.VertexCount {
		count = g.VertexCount - first
	}
	if count <= 0 {
		return
	}
	gs.backend.DrawTriangles(g.VAO, first, count)
}

// Get returns a registered geometry.
func (gs *GeometrySystem) Get(name string) (*metadata.Geometry, error) {
	g, ok := gs.Lookup[name]
	if !ok {
		return nil, fmt.Errorf("geometry %s is not registered", name)
	}
	return g, nil
}

func (gs *GeometrySystem) release(g *metadata.Geometry) {
	gs.backend.DeleteVertexArray(g.VAO)
	for _, b := range g.Buffers {
		gs.backend.DeleteBuffer(b)
	}
	g.VAO = 0
	g.Buffers = nil
}

// Destroy releases the GPU objects of a registered geometry.
func (gs *GeometrySystem) Destroy(name string) error {
	g, ok := gs.Lookup[name]
	if !ok {
		return fmt.Errorf("geometry %s is not registered", name)
	}
	gs.release(g)
	delete(gs.Lookup, name)
	return nil
}

func (gs *GeometrySystem) Shutdown() error {
	for name := range gs.Lookup {
		if err := gs.Destroy(name); err != nil {
			return err
		}
	}
	return nil
}
