package pipeline

import (
	"testing"

	"github.com/meshworks/meshpipe/pkg/geom"
)

// bigTriangleMesh builds a TRIANGLES mesh with numVertices unique vertices,
// each referenced once, position X encoding the original vertex id.
func bigTriangleMesh(numVertices int) *geom.Mesh {
	m := geom.NewMesh(geom.Triangles)
	positions := make([]float64, numVertices*3)
	indices := make([]uint32, 0, numVertices)
	for v := 0; v < numVertices; v++ {
		positions[v*3] = float64(v)
	}
	for v := 0; v+2 < numVertices; v += 3 {
		indices = append(indices, uint32(v), uint32(v+1), uint32(v+2))
	}
	m.Attributes.Set(geom.AttrPosition, &geom.Attribute{
		Type:       geom.Float64,
		Components: 3,
		Values:     positions,
	})
	m.Indices = indices
	return m
}

func TestFitToUnsignedShortIndicesSplits(t *testing.T) {
	const numVertices = 70000 // 69999 used by whole triangles
	m := bigTriangleMesh(numVertices)

	parts, err := FitToUnsignedShortIndices(m)
	if err != nil {
		t.Fatalf("FitToUnsignedShortIndices: %v", err)
	}
	if len(parts) < 2 {
		t.Fatalf("got %d meshes, want >= 2", len(parts))
	}

	totalTriangles := 0
	for p, part := range parts {
		if len(part.Indices)%3 != 0 {
			t.Fatalf("part %d: triangle split across meshes (index count %d)", p, len(part.Indices))
		}
		totalTriangles += len(part.Indices) / 3

		positions := part.Attributes.Get(geom.AttrPosition)
		for _, idx := range part.Indices {
			if idx >= geom.MaxUint16Vertices {
				t.Fatalf("part %d: index %d exceeds 16-bit range", p, idx)
			}
			if int(idx) >= positions.Count() {
				t.Fatalf("part %d: index %d dangles past %d copied vertices", p, idx, positions.Count())
			}
		}
	}
	if want := len(m.Indices) / 3; totalTriangles != want {
		t.Errorf("total triangles = %d, want %d", totalTriangles, want)
	}
}

func TestFitToUnsignedShortIndicesRoundTrip(t *testing.T) {
	m := bigTriangleMesh(70000)
	originalIndices := append([]uint32(nil), m.Indices...)

	parts, err := FitToUnsignedShortIndices(m)
	if err != nil {
		t.Fatalf("FitToUnsignedShortIndices: %v", err)
	}

	// Undo the local remap: position X holds the original vertex id, so
	// flattening the parts must walk the original index list.
	var flattened []uint32
	for _, part := range parts {
		positions := part.Attributes.Get(geom.AttrPosition).Values
		for _, idx := range part.Indices {
			flattened = append(flattened, uint32(positions[int(idx)*3]))
		}
	}
	if !equalIndices(flattened, originalIndices) {
		t.Error("re-flattened parts do not reproduce the original index associations")
	}
}

func TestFitToUnsignedShortIndicesSmallMeshUntouched(t *testing.T) {
	m := bigTriangleMesh(300)
	parts, err := FitToUnsignedShortIndices(m)
	if err != nil {
		t.Fatalf("FitToUnsignedShortIndices: %v", err)
	}
	if len(parts) != 1 || parts[0] != m {
		t.Error("mesh within 16-bit range should be returned unchanged, not copied")
	}
}

func TestFitToUnsignedShortIndicesLines(t *testing.T) {
	const numVertices = 70000
	m := geom.NewMesh(geom.Lines)
	positions := make([]float64, numVertices*3)
	indices := make([]uint32, 0, numVertices)
	for v := 0; v+1 < numVertices; v += 2 {
		indices = append(indices, uint32(v), uint32(v+1))
	}
	m.Attributes.Set(geom.AttrPosition, &geom.Attribute{
		Type:       geom.Float64,
		Components: 3,
		Values:     positions,
	})
	m.Indices = indices

	parts, err := FitToUnsignedShortIndices(m)
	if err != nil {
		t.Fatalf("FitToUnsignedShortIndices: %v", err)
	}
	if len(parts) < 2 {
		t.Errorf("got %d meshes, want >= 2", len(parts))
	}
	for _, part := range parts {
		if len(part.Indices)%2 != 0 {
			t.Error("line split across meshes")
		}
	}
}

func TestFitToUnsignedShortIndicesRejectsStrips(t *testing.T) {
	m := meshWithIndices(geom.TriangleStrip, []uint32{0, 1, 2, 3}, 4)
	if _, err := FitToUnsignedShortIndices(m); err == nil {
		t.Error("strip topology should be a contract violation")
	}
}
