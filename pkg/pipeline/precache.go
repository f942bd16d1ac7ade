package pipeline

import (
	"fmt"

	"github.com/meshworks/meshpipe/pkg/geom"
)

const unassigned = ^uint32(0)

// ReorderForPreVertexCache renumbers vertices in first-reference order and
// permutes every attribute to match, so the GPU pre-transform cache walks
// attribute memory roughly sequentially. The mesh is mutated in place.
// Meshes without an index list are returned unchanged. An index referencing
// a vertex outside the attribute arrays is a data-consistency error.
func ReorderForPreVertexCache(m *geom.Mesh) (*geom.Mesh, error) {
	if m.Indices == nil {
		return m, nil
	}

	numVertices := m.VertexCount()

	oldToNew := make([]uint32, numVertices)
	for i := range oldToNew {
		oldToNew[i] = unassigned
	}

	next := uint32(0)
	newIndices := make([]uint32, len(m.Indices))
	for i, idx := range m.Indices {
		if int(idx) >= numVertices {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, numVertices)
		}
		if oldToNew[idx] == unassigned {
			oldToNew[idx] = next
			next++
		}
		newIndices[i] = oldToNew[idx]
	}
	m.Indices = newIndices

	// Permute each attribute so old vertex i lands at slot oldToNew[i].
	// Vertices never referenced by an index keep no defined slot; they are
	// packed after the referenced ones in original order.
	for i := range oldToNew {
		if oldToNew[i] == unassigned {
			oldToNew[i] = next
			next++
		}
	}

	for _, name := range m.Attributes.Names() {
		attr := m.Attributes.Get(name)
		n := attr.Components
		reordered := make([]float64, len(attr.Values))
		for old := 0; old < numVertices; old++ {
			copy(reordered[int(oldToNew[old])*n:], attr.Values[old*n:old*n+n])
		}
		attr.Values = reordered
	}

	return m, nil
}
