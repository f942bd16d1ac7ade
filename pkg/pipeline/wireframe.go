// Package pipeline implements the mesh-processing stages that turn raw
// decoded geometry into GPU-friendly form: wireframe conversion, vertex-cache
// reordering, 16-bit index splitting, instance combination, and derived
// per-vertex attributes.
//
// Every stage follows the same error policy: contract violations (malformed
// input the caller should never have produced) return an error; inputs the
// stage simply does not apply to (wrong topology, no index list) are returned
// unchanged.
package pipeline

import (
	"github.com/meshworks/meshpipe/pkg/geom"
)

// Wireframe replaces a triangle-topology index list with a LINES list of the
// triangle edges and retags the mesh. Shared edges are emitted once per
// triangle; the duplication is acceptable for the debug-visualization use
// this exists for. Meshes without indices or with a non-triangle topology
// are returned unchanged.
func Wireframe(m *geom.Mesh) *geom.Mesh {
	if m.Indices == nil {
		return m
	}

	var lines []uint32
	switch m.Primitive {
	case geom.Triangles:
		lines = trianglesToLines(m.Indices)
	case geom.TriangleStrip:
		lines = triangleStripToLines(m.Indices)
	case geom.TriangleFan:
		lines = triangleFanToLines(m.Indices)
	default:
		return m
	}

	m.Indices = lines
	m.Primitive = geom.Lines
	return m
}

func addTriangleEdges(lines []uint32, i0, i1, i2 uint32) []uint32 {
	return append(lines, i0, i1, i1, i2, i2, i0)
}

func trianglesToLines(indices []uint32) []uint32 {
	lines := make([]uint32, 0, len(indices)*2)
	for i := 0; i+2 < len(indices); i += 3 {
		lines = addTriangleEdges(lines, indices[i], indices[i+1], indices[i+2])
	}
	return lines
}

func triangleStripToLines(indices []uint32) []uint32 {
	var lines []uint32
	if len(indices) >= 3 {
		lines = addTriangleEdges(lines, indices[0], indices[1], indices[2])
	}
	// Subsequent triangles alternate winding.
	for i := 3; i < len(indices); i++ {
		lines = addTriangleEdges(lines, indices[i-1], indices[i], indices[i-2])
	}
	return lines
}

func triangleFanToLines(indices []uint32) []uint32 {
	var lines []uint32
	if len(indices) == 0 {
		return lines
	}
	base := indices[0]
	for i := 1; i+1 < len(indices); i++ {
		lines = addTriangleEdges(lines, base, indices[i], indices[i+1])
	}
	return lines
}
