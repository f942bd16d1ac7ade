package pipeline

import (
	"fmt"

	"github.com/meshworks/meshpipe/pkg/geom"
	"github.com/meshworks/meshpipe/pkg/math"
)

// ComputeNormals derives a per-vertex normal attribute from triangle winding:
// each vertex gets the normalized sum of the unnormalized face normals of its
// adjacent triangles, which area-weights large faces naturally. Winding is
// assumed counter-clockwise. Vertices no triangle touches get (0,0,1).
// The normal attribute is written in place, replacing any existing one.
//
// A mesh without TRIANGLES topology, without an index list, or with a
// degenerate index count is returned unchanged. A missing or misshapen
// position attribute is a contract error.
func ComputeNormals(m *geom.Mesh) (*geom.Mesh, error) {
	if m.Primitive != geom.Triangles || m.Indices == nil ||
		len(m.Indices) < 3 || len(m.Indices)%3 != 0 {
		return m, nil
	}

	positions, err := requireAttribute(m, geom.AttrPosition, 3)
	if err != nil {
		return nil, err
	}
	numVertices := len(positions) / 3

	accumulated := make([]math.Vec3, numVertices)
	touched := make([]bool, numVertices)

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := vertexPosition(positions, i0)
		p1 := vertexPosition(positions, i1)
		p2 := vertexPosition(positions, i2)

		// Unnormalized cross product: magnitude carries triangle area.
		faceNormal := p1.Sub(p0).Cross(p2.Sub(p0))

		for _, idx := range []uint32{i0, i1, i2} {
			accumulated[idx] = accumulated[idx].Add(faceNormal)
			touched[idx] = true
		}
	}

	normals := make([]float64, numVertices*3)
	for v := 0; v < numVertices; v++ {
		n := math.Vec3{Z: 1}
		if touched[v] && accumulated[v].Length() > 0 {
			n = accumulated[v].Normalize()
		}
		normals[v*3] = n.X
		normals[v*3+1] = n.Y
		normals[v*3+2] = n.Z
	}

	m.Attributes.Set(geom.AttrNormal, &geom.Attribute{
		Type:       geom.Float32,
		Components: 3,
		Values:     normals,
	})
	return m, nil
}

// requireAttribute fetches an attribute the operation cannot run without,
// checking its component count and stride.
func requireAttribute(m *geom.Mesh, name string, components int) ([]float64, error) {
	attr := m.Attributes.Get(name)
	if attr == nil {
		return nil, fmt.Errorf("mesh has no %q attribute", name)
	}
	if attr.Components != components {
		return nil, fmt.Errorf("attribute %q has %d components, want %d", name, attr.Components, components)
	}
	if err := attr.Validate(); err != nil {
		return nil, err
	}
	return attr.Values, nil
}

func vertexPosition(values []float64, idx uint32) math.Vec3 {
	i := int(idx) * 3
	return math.Vec3{X: values[i], Y: values[i+1], Z: values[i+2]}
}
