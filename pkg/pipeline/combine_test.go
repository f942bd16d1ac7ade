package pipeline

import (
	"testing"

	"github.com/meshworks/meshpipe/pkg/geom"
	"github.com/meshworks/meshpipe/pkg/math"
)

func positionInstance(numVertices int, transform math.Mat4) *geom.Instance {
	m := geom.NewMesh(geom.Triangles)
	positions := make([]float64, numVertices*3)
	for v := 0; v < numVertices; v++ {
		positions[v*3] = float64(v)
	}
	m.Attributes.Set(geom.AttrPosition, &geom.Attribute{
		Type:       geom.Float64,
		Components: 3,
		Values:     positions,
	})
	indices := make([]uint32, 0, numVertices)
	for v := 0; v+2 < numVertices; v++ {
		indices = append(indices, uint32(v), uint32(v+1), uint32(v+2))
	}
	m.Indices = indices
	return &geom.Instance{Mesh: m, Transform: transform}
}

func TestCombineInstances(t *testing.T) {
	a := positionInstance(3, math.Identity())
	b := positionInstance(4, math.Identity())

	combined, err := CombineInstances([]*geom.Instance{a, b})
	if err != nil {
		t.Fatalf("CombineInstances: %v", err)
	}

	positions := combined.Attributes.Get(geom.AttrPosition)
	if positions == nil {
		t.Fatal("combined mesh lost position attribute")
	}
	if got, want := len(positions.Values), (3+4)*3; got != want {
		t.Errorf("combined position length = %d, want %d", got, want)
	}

	// First instance has 3 vertices and one triangle; the second
	// instance's indices follow, offset by 3.
	wantIndices := []uint32{0, 1, 2, 3, 4, 5, 4, 5, 6}
	if !equalIndices(combined.Indices, wantIndices) {
		t.Errorf("combined indices = %v, want %v", combined.Indices, wantIndices)
	}
	if combined.IndexWidth != geom.IndexWidth16 {
		t.Errorf("index width = %v, want 16-bit", combined.IndexWidth)
	}
}

func TestCombineInstancesSingleReturnsSameMesh(t *testing.T) {
	a := positionInstance(3, math.Identity())
	combined, err := CombineInstances([]*geom.Instance{a})
	if err != nil {
		t.Fatalf("CombineInstances: %v", err)
	}
	if combined != a.Mesh {
		t.Error("single instance should be returned as-is, not copied")
	}
}

func TestCombineInstancesEmpty(t *testing.T) {
	if _, err := CombineInstances(nil); err == nil {
		t.Error("empty input should be an error")
	}
}

func TestCombineInstancesMismatchedTransforms(t *testing.T) {
	a := positionInstance(3, math.Identity())
	b := positionInstance(3, math.Translate(1, 0, 0))
	if _, err := CombineInstances([]*geom.Instance{a, b}); err == nil {
		t.Error("mismatched transforms should be an error")
	}
}

func TestCombineInstancesDropsUnsharedAttributes(t *testing.T) {
	a := positionInstance(3, math.Identity())
	a.Mesh.Attributes.Set(geom.AttrST, &geom.Attribute{
		Type:       geom.Float32,
		Components: 2,
		Values:     make([]float64, 6),
	})
	b := positionInstance(3, math.Identity())

	combined, err := CombineInstances([]*geom.Instance{a, b})
	if err != nil {
		t.Fatalf("CombineInstances: %v", err)
	}
	if combined.Attributes.Has(geom.AttrST) {
		t.Error("attribute absent from one instance should be dropped")
	}
	if !combined.Attributes.Has(geom.AttrPosition) {
		t.Error("shared attribute should survive")
	}
}

func TestCombineInstancesDropsMismatchedShape(t *testing.T) {
	a := positionInstance(3, math.Identity())
	a.Mesh.Attributes.Set("color", &geom.Attribute{
		Type:       geom.Float32,
		Components: 3,
		Values:     make([]float64, 9),
	})
	b := positionInstance(3, math.Identity())
	b.Mesh.Attributes.Set("color", &geom.Attribute{
		Type:       geom.Uint8, // same components, different datatype
		Components: 3,
		Values:     make([]float64, 9),
	})

	combined, err := CombineInstances([]*geom.Instance{a, b})
	if err != nil {
		t.Fatalf("CombineInstances: %v", err)
	}
	if combined.Attributes.Has("color") {
		t.Error("shape-mismatched attribute should be dropped")
	}
}

func TestCombineInstancesWidthPromotion(t *testing.T) {
	// Two instances whose combined index count crosses the 16-bit
	// comfort limit force a 32-bit buffer.
	a := positionInstance(25000, math.Identity())
	b := positionInstance(25000, math.Identity())

	combined, err := CombineInstances([]*geom.Instance{a, b})
	if err != nil {
		t.Fatalf("CombineInstances: %v", err)
	}
	if got := len(combined.Indices); got < geom.Combine16BitLimit {
		t.Fatalf("test setup: combined index count %d does not cross the limit", got)
	}
	if combined.IndexWidth != geom.IndexWidth32 {
		t.Errorf("index width = %v, want 32-bit", combined.IndexWidth)
	}
}

func TestCombineInstancesBounds(t *testing.T) {
	a := positionInstance(3, math.Identity())
	b := positionInstance(3, math.Identity())
	a.Mesh.Bounds = &geom.BoundingSphere{Center: math.Vec3{X: -2}, Radius: 1}
	b.Mesh.Bounds = &geom.BoundingSphere{Center: math.Vec3{X: 2}, Radius: 1}

	combined, err := CombineInstances([]*geom.Instance{a, b})
	if err != nil {
		t.Fatalf("CombineInstances: %v", err)
	}
	if combined.Bounds == nil {
		t.Fatal("combined mesh should have a bounding sphere")
	}
	if combined.Bounds.Radius != 3 {
		t.Errorf("combined radius = %v, want 3", combined.Bounds.Radius)
	}

	// Any instance without bounds leaves the result unbounded.
	b.Mesh.Bounds = nil
	combined, err = CombineInstances([]*geom.Instance{a, b})
	if err != nil {
		t.Fatalf("CombineInstances: %v", err)
	}
	if combined.Bounds != nil {
		t.Error("combined mesh should have no bounds when an instance lacks one")
	}
}
