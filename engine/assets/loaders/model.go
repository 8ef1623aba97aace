package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/math"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

// OBJLoader reads Wavefront OBJ meshes. Data is a *metadata.Mesh.
type OBJLoader struct{}

func (ol *OBJLoader) Load(name, path string) (*metadata.Resource, error) {
	mesh, err := LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	mesh.Name = name
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeMesh,
		DataSize: uint64(4 * (len(mesh.Positions) + len(mesh.TexCoords) + len(mesh.Normals))),
		Data:     mesh,
	}, nil
}

func (ol *OBJLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}

// LoadOBJ opens and parses an OBJ file.
func LoadOBJ(path string) (*metadata.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open mesh %s: %w", path, err)
	}
	defer f.Close()
	return ParseOBJ(f, filepath.Base(path))
}

// faceVertex holds the 1-based (already resolved) indices of one face corner.
// Zero means the attribute was not given.
type faceVertex struct {
	v, vt, vn int
}

type objParser struct {
	name string
	line int

	positions []math.Vec3
	texcoords []math.Vec2
	normals   []math.Vec3

	mesh *metadata.Mesh
}

func (p *objParser) fail(reason string, err error) error {
	return &core.ParseError{Name: p.name, Line: p.line, Reason: reason, Err: err}
}

/**
 * @brief Parses OBJ text into a flattened, non-indexed triangle mesh.
 *
 * Supported directives are v, vt, vn and f. Every face must have exactly
 * three corners, each written as v, v/vt, v//vn or v/vt/vn. Indices are
 * 1-based; negative indices count back from the last element read so far.
 * Corners without a texture coordinate get (0, 0); faces without normals
 * get their geometric normal. Comments, blank lines, object/group/smoothing
 * and material statements are skipped.
 *
 * @param r The OBJ text.
 * @param name Used in error messages.
 * @return The mesh, or a *core.ParseError. No partial mesh is returned.
 */
func ParseOBJ(r io.Reader, name string) (*metadata.Mesh, error) {
	p := &objParser{
		name: name,
		mesh: &metadata.Mesh{Name: name},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "v":
			var v math.Vec3
			v, err = p.parseVec3(fields[1:], "vertex position", true)
			p.positions = append(p.positions, v)
		case "vt":
			var vt math.Vec2
			vt, err = p.parseVec2(fields[1:])
			p.texcoords = append(p.texcoords, vt)
		case "vn":
			var vn math.Vec3
			vn, err = p.parseVec3(fields[1:], "vertex normal", false)
			p.normals = append(p.normals, vn)
		case "f":
			err = p.parseFace(fields[1:])
		case "o", "g", "s", "mtllib", "usemtl":
		default:
			core.LogDebug("%s:%d: skipping unsupported OBJ statement %q", p.name, p.line, fields[0])
		}
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		err = p.fail("reading input", err)
		core.LogError(err.Error())
		return nil, err
	}

	if p.mesh.VertexCount == 0 {
		p.line = 0
		err := p.fail("no faces found", core.ErrEmptyMesh)
		core.LogError(err.Error())
		return nil, err
	}
	core.LogDebug("loaded %s: %d vertices (%d triangles)", name, p.mesh.VertexCount, p.mesh.VertexCount/3)
	return p.mesh, nil
}

func (p *objParser) parseFloats(fields []string, out []float32, what string) error {
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil || !math.IsFinite(float32(f)) {
			return p.fail(fmt.Sprintf("%s component %q", what, fields[i]), core.ErrMalformedNumber)
		}
		out[i] = float32(f)
	}
	return nil
}

// parseVec3 reads three coordinates. A fourth (w) is tolerated when allowW.
func (p *objParser) parseVec3(fields []string, what string, allowW bool) (math.Vec3, error) {
	if len(fields) < 3 || len(fields) > 4 || (len(fields) == 4 && !allowW) {
		return math.Vec3{}, p.fail(fmt.Sprintf("%s needs 3 coordinates, got %d", what, len(fields)), core.ErrMalformedNumber)
	}
	var xyz [3]float32
	if err := p.parseFloats(fields, xyz[:], what); err != nil {
		return math.Vec3{}, err
	}
	if len(fields) == 4 {
		var w [1]float32
		if err := p.parseFloats(fields[3:], w[:], what); err != nil {
			return math.Vec3{}, err
		}
	}
	return math.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}

// parseVec2 reads a texture coordinate; an optional third component is ignored.
func (p *objParser) parseVec2(fields []string) (math.Vec2, error) {
	if len(fields) < 2 || len(fields) > 3 {
		return math.Vec2{}, p.fail(fmt.Sprintf("texture coordinate needs 2 components, got %d", len(fields)), core.ErrMalformedNumber)
	}
	var uvw [3]float32
	if err := p.parseFloats(fields, uvw[:len(fields)], "texture coordinate"); err != nil {
		return math.Vec2{}, err
	}
	return math.NewVec2(uvw[0], uvw[1]), nil
}

// resolve turns an OBJ index into a 1-based index into a list of length n.
func (p *objParser) resolve(field, what string, n int) (int, error) {
	idx, err := strconv.Atoi(field)
	if err != nil {
		return 0, p.fail(fmt.Sprintf("%s index %q", what, field), core.ErrMalformedFace)
	}
	if idx < 0 {
		idx = n + idx + 1
	}
	if idx < 1 || idx > n {
		return 0, p.fail(fmt.Sprintf("%s index %s with %d defined", what, field, n), core.ErrIndexOutOfRange)
	}
	return idx, nil
}

func (p *objParser) parseCorner(ref string) (faceVertex, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 || parts[0] == "" {
		return faceVertex{}, p.fail(fmt.Sprintf("face vertex %q", ref), core.ErrMalformedFace)
	}

	var fv faceVertex
	var err error
	if fv.v, err = p.resolve(parts[0], "position", len(p.positions)); err != nil {
		return faceVertex{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if fv.vt, err = p.resolve(parts[1], "texture coordinate", len(p.texcoords)); err != nil {
			return faceVertex{}, err
		}
	}
	if len(parts) > 2 {
		if parts[2] == "" {
			return faceVertex{}, p.fail(fmt.Sprintf("face vertex %q has an empty normal index", ref), core.ErrMalformedFace)
		}
		if fv.vn, err = p.resolve(parts[2], "normal", len(p.normals)); err != nil {
			return faceVertex{}, err
		}
	}
	return fv, nil
}

func (p *objParser) parseFace(refs []string) error {
	if len(refs) != 3 {
		return p.fail(fmt.Sprintf("face has %d vertices, only triangles are supported", len(refs)), core.ErrMalformedFace)
	}

	var corners [3]faceVertex
	for i, ref := range refs {
		fv, err := p.parseCorner(ref)
		if err != nil {
			return err
		}
		corners[i] = fv
	}

	var faceNormal math.Vec3
	for _, fv := range corners {
		if fv.vn == 0 {
			faceNormal = math.FaceNormal(
				p.positions[corners[0].v-1],
				p.positions[corners[1].v-1],
				p.positions[corners[2].v-1],
			)
			break
		}
	}

	m := p.mesh
	for _, fv := range corners {
		pos := p.positions[fv.v-1]
		m.Positions = append(m.Positions, pos.X, pos.Y, pos.Z)

		var uv math.Vec2
		if fv.vt != 0 {
			uv = p.texcoords[fv.vt-1]
		}
		m.TexCoords = append(m.TexCoords, uv.X, uv.Y)

		n := faceNormal
		if fv.vn != 0 {
			n = p.normals[fv.vn-1]
		}
		m.Normals = append(m.Normals, n.X, n.Y, n.Z)
	}
	m.VertexCount += 3
	return nil
}
