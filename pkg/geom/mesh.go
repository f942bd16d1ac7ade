package geom

import (
	"fmt"

	"github.com/meshworks/meshpipe/pkg/math"
)

// Mesh is the unit of work of the pipeline: one attribute set, an optional
// index list, the topology the indices describe, and an optional bounding
// sphere. A stage either mutates the mesh it is handed and returns it, or
// returns freshly allocated meshes; attribute buffers are owned exclusively
// by one mesh at a time.
type Mesh struct {
	Attributes *AttributeSet
	Indices    []uint32
	Primitive  PrimitiveType
	Bounds     *BoundingSphere
	IndexWidth IndexWidth
}

// NewMesh returns an empty mesh with the given topology and a 16-bit index
// width, the narrowest default.
func NewMesh(primitive PrimitiveType) *Mesh {
	return &Mesh{
		Attributes: NewAttributeSet(),
		Primitive:  primitive,
		IndexWidth: IndexWidth16,
	}
}

// VertexCount returns the vertex count of the first attribute, or 0 for a
// mesh with no attributes. Validate guarantees all attributes agree.
func (m *Mesh) VertexCount() int {
	for _, name := range m.Attributes.Names() {
		return m.Attributes.Get(name).Count()
	}
	return 0
}

// Validate checks the mesh contract: every attribute well-shaped, every
// attribute covering the same number of vertices, and every index within
// range. Violations are programming errors in the producer, not recoverable
// conditions.
func (m *Mesh) Validate() error {
	count := -1
	first := ""
	for _, name := range m.Attributes.Names() {
		attr := m.Attributes.Get(name)
		if err := attr.Validate(); err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		if count == -1 {
			count = attr.Count()
			first = name
			continue
		}
		if attr.Count() != count {
			return fmt.Errorf("attribute %q has %d vertices, %q has %d", name, attr.Count(), first, count)
		}
	}

	if count >= 0 {
		for i, idx := range m.Indices {
			if int(idx) >= count {
				return fmt.Errorf("index %d at position %d out of range for %d vertices", idx, i, count)
			}
		}
	}

	return nil
}

// Instance pairs a mesh with the model transform it was authored under.
// Instances sharing a transform can be merged by CombineInstances.
type Instance struct {
	Mesh      *Mesh
	Transform math.Mat4
}
