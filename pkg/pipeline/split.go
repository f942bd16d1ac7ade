package pipeline

import (
	"fmt"

	"github.com/meshworks/meshpipe/pkg/geom"
)

// FitToUnsignedShortIndices partitions a mesh with more vertices than a
// 16-bit index can address into meshes that each stay under
// geom.MaxUint16Vertices, copying only the attribute data each partition
// references. Primitives are emitted whole, so no primitive ever straddles
// two output meshes. A mesh that already fits (or has no index list) is
// returned as the sole element, unmodified and uncopied. Only the indexed
// primitive types TRIANGLES, LINES, and POINTS can be split; anything else
// is a contract violation.
func FitToUnsignedShortIndices(m *geom.Mesh) ([]*geom.Mesh, error) {
	perPrimitive, err := indicesPerPrimitive(m.Primitive)
	if err != nil {
		return nil, err
	}

	if m.Indices == nil || m.VertexCount() <= geom.MaxUint16Vertices {
		return []*geom.Mesh{m}, nil
	}

	if len(m.Indices)%perPrimitive != 0 {
		return nil, fmt.Errorf("%s index count %d is not a multiple of %d",
			m.Primitive, len(m.Indices), perPrimitive)
	}

	var out []*geom.Mesh
	b := newSplitBuilder(m)

	for i := 0; i < len(m.Indices); i += perPrimitive {
		primitive := m.Indices[i : i+perPrimitive]

		if b.wouldOverflow(primitive) {
			out = append(out, b.seal())
			b = newSplitBuilder(m)
		}
		b.addPrimitive(primitive)
	}

	if b.vertexCount() > 0 {
		out = append(out, b.seal())
	}
	return out, nil
}

func indicesPerPrimitive(p geom.PrimitiveType) (int, error) {
	switch p {
	case geom.Triangles:
		return 3, nil
	case geom.Lines:
		return 2, nil
	case geom.Points:
		return 1, nil
	}
	return 0, fmt.Errorf("cannot split %s geometry into 16-bit index ranges", p)
}

// splitBuilder accumulates one output partition: a local old-to-new vertex
// remap plus per-attribute value buffers holding copies of the referenced
// tuples.
type splitBuilder struct {
	source  *geom.Mesh
	remap   map[uint32]uint32
	indices []uint32
	values  map[string][]float64
}

func newSplitBuilder(source *geom.Mesh) *splitBuilder {
	b := &splitBuilder{
		source: source,
		remap:  make(map[uint32]uint32),
		values: make(map[string][]float64),
	}
	for _, name := range source.Attributes.Names() {
		b.values[name] = nil
	}
	return b
}

func (b *splitBuilder) vertexCount() int {
	return len(b.remap)
}

// wouldOverflow reports whether adding the primitive would push the local
// vertex count past the 16-bit range.
func (b *splitBuilder) wouldOverflow(primitive []uint32) bool {
	fresh := 0
	for i, idx := range primitive {
		if _, ok := b.remap[idx]; ok {
			continue
		}
		dup := false
		for _, prev := range primitive[:i] {
			if prev == idx {
				dup = true
				break
			}
		}
		if !dup {
			fresh++
		}
	}
	return len(b.remap)+fresh > geom.MaxUint16Vertices
}

func (b *splitBuilder) addPrimitive(primitive []uint32) {
	for _, idx := range primitive {
		local, ok := b.remap[idx]
		if !ok {
			local = uint32(len(b.remap))
			b.remap[idx] = local
			b.copyVertex(idx)
		}
		b.indices = append(b.indices, local)
	}
}

// copyVertex appends the full attribute tuple of the source vertex to the
// partition's buffers.
func (b *splitBuilder) copyVertex(idx uint32) {
	for _, name := range b.source.Attributes.Names() {
		attr := b.source.Attributes.Get(name)
		n := attr.Components
		offset := int(idx) * n
		b.values[name] = append(b.values[name], attr.Values[offset:offset+n]...)
	}
}

// seal finishes the partition as a self-contained mesh.
func (b *splitBuilder) seal() *geom.Mesh {
	m := geom.NewMesh(b.source.Primitive)
	m.Indices = b.indices
	if b.source.Bounds != nil {
		bounds := *b.source.Bounds
		m.Bounds = &bounds
	}
	for _, name := range b.source.Attributes.Names() {
		src := b.source.Attributes.Get(name)
		m.Attributes.Set(name, &geom.Attribute{
			Type:       src.Type,
			Components: src.Components,
			Normalize:  src.Normalize,
			Values:     b.values[name],
		})
	}
	return m
}
