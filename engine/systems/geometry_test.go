package systems

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/anima-scenes/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-scenes/engine/renderer/rendertest"
)

var trianglePoints = []float32{
	0.0, 0.5, 0.0,
	0.5, -0.5, 0.0,
	-0.5, -0.5, 0.0,
}

func newTestGeometrySystem(t *testing.T) (*GeometrySystem, *rendertest.Backend) {
	t.Helper()
	backend := rendertest.New()
	gs, err := NewGeometrySystem(&GeometrySystemConfig{MaxGeometryCount: 8}, backend)
	if err != nil {
		t.Fatal(err)
	}
	return gs, backend
}

func TestUploadAndDraw(t *testing.T) {
	gs, backend := newTestGeometrySystem(t)
	colours := []float32{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	g, err := gs.Upload("triangle", 3,
		metadata.VertexAttribute{Location: 0, Components: 3, Data: trianglePoints},
		metadata.VertexAttribute{Location: 1, Components: 3, Data: colours},
	)
	if err != nil {
		t.Fatal(err)
	}
	if g.VertexCount != 3 || len(g.Buffers) != 2 {
		t.Errorf("geometry = %+v", g)
	}
	attrs := backend.Attributes(g.VAO)
	if len(attrs) != 2 || attrs[0].Location != 0 || attrs[1].Location != 1 {
		t.Errorf("attributes = %+v", attrs)
	}

	gs.Draw(g)
	last := backend.Calls[len(backend.Calls)-1]
	if last.Name != "DrawTriangles" || last.Handle != g.VAO || last.Arg != "0+3" {
		t.Errorf("last call = %s", last)
	}
}

func TestDrawRangeClips(t *testing.T) {
	gs, backend := newTestGeometrySystem(t)
	quad := append(append([]float32{}, trianglePoints...), trianglePoints...)
	g, err := gs.Upload("quad", 6, metadata.VertexAttribute{Location: 0, Components: 3, Data: quad})
	if err != nil {
		t.Fatal(err)
	}
	gs.DrawRange(g, 3, 6)
	gs.DrawRange(g, 6, 3)
	var draws []string
	for _, c := range backend.Calls {
		if c.Name == "DrawTriangles" {
			draws = append(draws, c.Arg)
		}
	}
	if len(draws) != 1 || draws[0] != "3+3" {
		t.Errorf("draws = %v, want [3+3]", draws)
	}
}

func TestUploadRejectsInconsistentData(t *testing.T) {
	tests := []struct {
		name        string
		vertexCount int
		attrs       []metadata.VertexAttribute
	}{
		{"no vertices", 0, []metadata.VertexAttribute{{Location: 0, Components: 3}}},
		{"no attributes", 3, nil},
		{"short data", 3, []metadata.VertexAttribute{{Location: 0, Components: 3, Data: trianglePoints[:6]}}},
		{"bad components", 3, []metadata.VertexAttribute{{Location: 0, Components: 5, Data: make([]float32, 15)}}},
		{"duplicate location", 3, []metadata.VertexAttribute{
			{Location: 0, Components: 3, Data: trianglePoints},
			{Location: 0, Components: 3, Data: trianglePoints},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, backend := newTestGeometrySystem(t)
			_, err := gs.Upload("bad", tt.vertexCount, tt.attrs...)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Fatalf("err = %v, want ErrInvalidGeometry", err)
			}
			if backend.LiveObjects() != 0 {
				t.Errorf("live objects = %d", backend.LiveObjects())
			}
		})
	}
}

func TestUploadMeshBindsSlots(t *testing.T) {
	gs, backend := newTestGeometrySystem(t)
	mesh := &metadata.Mesh{
		Name:        "tri.obj",
		Positions:   trianglePoints,
		Normals:     []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		TexCoords:   []float32{0.5, 1, 1, 0, 0, 0},
		VertexCount: 3,
	}
	g, err := gs.UploadMesh(mesh)
	if err != nil {
		t.Fatal(err)
	}
	want := map[uint32]int32{
		metadata.AttributePosition: 3,
		metadata.AttributeNormal:   3,
		metadata.AttributeTexCoord: 2,
	}
	attrs := backend.Attributes(g.VAO)
	if len(attrs) != len(want) {
		t.Fatalf("attributes = %+v", attrs)
	}
	for _, a := range attrs {
		if want[a.Location] != a.Components {
			t.Errorf("slot %d has %d components, want %d", a.Location, a.Components, want[a.Location])
		}
	}
}

func TestGeometryReplaceAndShutdown(t *testing.T) {
	gs, backend := newTestGeometrySystem(t)
	attr := metadata.VertexAttribute{Location: 0, Components: 3, Data: trianglePoints}
	first, err := gs.Upload("triangle", 3, attr)
	if err != nil {
		t.Fatal(err)
	}
	second, err := gs.Upload("triangle", 3, attr)
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Error("replacement kept the same id")
	}
	// one vertex array plus one buffer
	if got := backend.LiveObjects(); got != 2 {
		t.Errorf("live objects = %d, want 2", got)
	}
	if err := gs.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if backend.LiveObjects() != 0 || len(gs.Lookup) != 0 {
		t.Errorf("live objects = %d, geometries = %d", backend.LiveObjects(), len(gs.Lookup))
	}
	if err := gs.Destroy("triangle"); err == nil {
		t.Error("destroying an unknown geometry succeeded")
	}
}

func TestSystemManager(t *testing.T) {
	backend := rendertest.New()
	sm, err := NewSystemManager(backend, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sm.Shaders().Build("basic", testVertexShader, testFragmentShader); err != nil {
		t.Fatal(err)
	}
	if _, err := sm.Geometry().Upload("triangle", 3, metadata.VertexAttribute{Location: 0, Components: 3, Data: trianglePoints}); err != nil {
		t.Fatal(err)
	}
	if err := sm.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if backend.LiveObjects() != 0 {
		t.Errorf("live objects = %d", backend.LiveObjects())
	}
}
