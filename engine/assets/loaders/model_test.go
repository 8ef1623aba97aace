package loaders

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/anima-scenes/engine/core"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
)

const triangleOBJ = `# one triangle
o tri
v 0.0 0.5 0.0
v 0.5 -0.5 0.0
v -0.5 -0.5 0.0
vt 0.5 1.0
vt 1.0 0.0
vt 0.0 0.0
vn 0.0 0.0 1.0
s off
f 1/1/1 2/2/1 3/3/1
`

func equalFloats(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseOBJTriangle(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(triangleOBJ), "tri.obj")
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if mesh.VertexCount != 3 {
		t.Fatalf("VertexCount = %d, want 3", mesh.VertexCount)
	}
	wantPos := []float32{0, 0.5, 0, 0.5, -0.5, 0, -0.5, -0.5, 0}
	if !equalFloats(mesh.Positions, wantPos) {
		t.Errorf("positions = %v", mesh.Positions)
	}
	wantUV := []float32{0.5, 1, 1, 0, 0, 0}
	if !equalFloats(mesh.TexCoords, wantUV) {
		t.Errorf("texcoords = %v", mesh.TexCoords)
	}
	wantN := []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}
	if !equalFloats(mesh.Normals, wantN) {
		t.Errorf("normals = %v", mesh.Normals)
	}
}

func TestParseOBJFlattensSharedVertices(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`
	mesh, err := ParseOBJ(strings.NewReader(src), "quad.obj")
	if err != nil {
		t.Fatal(err)
	}
	if mesh.VertexCount != 6 {
		t.Fatalf("VertexCount = %d, want 6", mesh.VertexCount)
	}
	if len(mesh.Positions) != 18 || len(mesh.TexCoords) != 12 || len(mesh.Normals) != 18 {
		t.Fatalf("array lengths %d/%d/%d", len(mesh.Positions), len(mesh.TexCoords), len(mesh.Normals))
	}
	// Corner 4 of the output repeats position 1, corner 5 repeats position 3.
	if !equalFloats(mesh.Positions[9:15], []float32{0, 0, 0, 1, 1, 0}) {
		t.Errorf("second face positions = %v", mesh.Positions[9:])
	}
	for _, uv := range mesh.TexCoords {
		if uv != 0 {
			t.Fatalf("missing texcoords should be zero, got %v", mesh.TexCoords)
		}
	}
}

func TestParseOBJIndexForms(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0.25 0.75
f -3/1 -2/-1 -1/1
`
	mesh, err := ParseOBJ(strings.NewReader(src), "forms.obj")
	if err != nil {
		t.Fatal(err)
	}
	if !equalFloats(mesh.Positions, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}) {
		t.Errorf("positions = %v", mesh.Positions)
	}
	if !equalFloats(mesh.TexCoords, []float32{0.25, 0.75, 0.25, 0.75, 0.25, 0.75}) {
		t.Errorf("texcoords = %v", mesh.TexCoords)
	}
	// No normals given: the counter-clockwise face normal is +Z.
	if !equalFloats(mesh.Normals, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}) {
		t.Errorf("normals = %v", mesh.Normals)
	}
}

func TestParseOBJErrors(t *testing.T) {
	const verts = "v 0 0 0\nv 1 0 0\nv 0 1 0\n"
	tests := []struct {
		name     string
		src      string
		want     error
		wantLine int
	}{
		{"position index past the end", verts + "f 1 2 4\n", core.ErrIndexOutOfRange, 4},
		{"zero index", verts + "f 0 1 2\n", core.ErrIndexOutOfRange, 4},
		{"negative index before the start", verts + "f -4 1 2\n", core.ErrIndexOutOfRange, 4},
		{"normal never defined", verts + "f 1//1 2//1 3//1\n", core.ErrIndexOutOfRange, 4},
		{"forward reference", "v 0 0 0\nf 1 2 3\nv 1 0 0\nv 0 1 0\n", core.ErrIndexOutOfRange, 2},
		{"quad", verts + "v 1 1 0\nf 1 2 3 4\n", core.ErrMalformedFace, 5},
		{"two vertices", verts + "f 1 2\n", core.ErrMalformedFace, 4},
		{"text index", verts + "f a 2 3\n", core.ErrMalformedFace, 4},
		{"empty normal slot", verts + "f 1// 2 3\n", core.ErrMalformedFace, 4},
		{"bad coordinate", "v 0 zero 0\n", core.ErrMalformedNumber, 1},
		{"short position", "v 0 0\n", core.ErrMalformedNumber, 1},
		{"short normal", "vn 0 1\n", core.ErrMalformedNumber, 1},
		{"not a number", "v NaN 0 0\n", core.ErrMalformedNumber, 1},
		{"infinite normal", "vn 0 inf 0\n", core.ErrMalformedNumber, 1},
		{"line too long", verts + "# " + strings.Repeat("x", 2<<20) + "\nf 1 2 3\n", bufio.ErrTooLong, 3},
		{"empty file", "", core.ErrEmptyMesh, 0},
		{"vertices only", "# nothing to draw\n" + verts, core.ErrEmptyMesh, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh, err := ParseOBJ(strings.NewReader(tc.src), "bad.obj")
			if mesh != nil {
				t.Error("a partial mesh was returned")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var pe *core.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *core.ParseError", err)
			}
			if pe.Line != tc.wantLine {
				t.Errorf("line = %d, want %d", pe.Line, tc.wantLine)
			}
		})
	}
}

func TestOBJLoaderReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := &OBJLoader{}
	res, err := loader.Load("models/tri.obj", path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	mesh, ok := res.Data.(*metadata.Mesh)
	if !ok {
		t.Fatalf("Data is %T", res.Data)
	}
	if mesh.Name != "models/tri.obj" || res.Type != metadata.ResourceTypeMesh {
		t.Errorf("resource = %+v", res)
	}
	if res.DataSize != 4*(9+6+9) {
		t.Errorf("DataSize = %d", res.DataSize)
	}
	if err := loader.Unload(res); err != nil || res.Data != nil {
		t.Errorf("Unload left %v (%v)", res.Data, err)
	}

	if _, err := LoadOBJ(filepath.Join(dir, "missing.obj")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist, got %v", err)
	}
}

func TestShaderLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.vert")
	src := "#version 410\nvoid main() {}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := (&ShaderLoader{}).Load("shaders/test.vert", path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Data.(string) != src || res.DataSize != uint64(len(src)) {
		t.Errorf("resource = %+v", res)
	}

	empty := filepath.Join(dir, "empty.frag")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadShaderSource(empty); err == nil {
		t.Error("expected an error for an empty shader")
	}
}
