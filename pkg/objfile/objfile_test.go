package objfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/meshworks/meshpipe/pkg/geom"
)

const cubeFace = `# one quad with texcoords and normals
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestReadQuad(t *testing.T) {
	m, err := Read(strings.NewReader(cubeFace))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if m.Primitive != geom.Triangles {
		t.Errorf("primitive = %v, want triangles", m.Primitive)
	}
	if got := m.VertexCount(); got != 4 {
		t.Errorf("vertex count = %d, want 4", got)
	}
	// Quad fan-triangulates into two triangles.
	want := []uint32{0, 1, 2, 0, 2, 3}
	if len(m.Indices) != len(want) {
		t.Fatalf("indices = %v, want %v", m.Indices, want)
	}
	for i := range want {
		if m.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", m.Indices, want)
		}
	}

	if !m.Attributes.Has(geom.AttrST) || !m.Attributes.Has(geom.AttrNormal) {
		t.Error("st and normal attributes should be present")
	}
	if m.Bounds == nil {
		t.Error("bounding sphere should be computed")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("parsed mesh fails validation: %v", err)
	}
}

func TestReadPositionsOnly(t *testing.T) {
	data := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	m, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m.Attributes.Has(geom.AttrST) || m.Attributes.Has(geom.AttrNormal) {
		t.Error("no st/normal attributes expected")
	}
}

func TestReadNegativeIndices(t *testing.T) {
	data := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	m, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := m.VertexCount(); got != 3 {
		t.Errorf("vertex count = %d, want 3", got)
	}
}

func TestReadBadFaceIndex(t *testing.T) {
	data := "v 0 0 0\nf 1 2 3\n"
	if _, err := Read(strings.NewReader(data)); err == nil {
		t.Error("face referencing missing vertices should be an error")
	}
}

func TestReadEmpty(t *testing.T) {
	if _, err := Read(strings.NewReader("# nothing\n")); err == nil {
		t.Error("OBJ without faces should be an error")
	}
}

func TestRoundTrip(t *testing.T) {
	m, err := Read(strings.NewReader(cubeFace))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m2, err := Read(&buf)
	if err != nil {
		t.Fatalf("re-Read: %v", err)
	}

	if m2.VertexCount() != m.VertexCount() {
		t.Errorf("vertex count %d -> %d", m.VertexCount(), m2.VertexCount())
	}
	if len(m2.Indices) != len(m.Indices) {
		t.Fatalf("index count %d -> %d", len(m.Indices), len(m2.Indices))
	}
	p1 := m.Attributes.Get(geom.AttrPosition).Values
	p2 := m2.Attributes.Get(geom.AttrPosition).Values
	for _, pair := range [][2][]uint32{{m.Indices, m2.Indices}} {
		for i := range pair[0] {
			a, b := pair[0][i], pair[1][i]
			for c := 0; c < 3; c++ {
				if p1[int(a)*3+c] != p2[int(b)*3+c] {
					t.Fatalf("index %d resolves to different positions after round trip", i)
				}
			}
		}
	}
}

func TestWriteRejectsStrip(t *testing.T) {
	m := geom.NewMesh(geom.TriangleStrip)
	if err := Write(&bytes.Buffer{}, m); err == nil {
		t.Error("strip mesh should be rejected")
	}
}
