package pipeline

import (
	"fmt"

	"github.com/meshworks/meshpipe/pkg/geom"
	"github.com/meshworks/meshpipe/pkg/math"
)

// ComputeTangentBinormal derives per-vertex tangent and binormal attributes
// from positions, normals, and texture coordinates using Lengyel's method: a
// raw tangent direction is accumulated per vertex from each adjacent
// triangle's UV-position Jacobian, orthogonalized against the vertex normal
// (Gram-Schmidt), and the binormal completes the basis as normal x tangent.
// Both attributes are written in place, replacing any existing ones.
//
// Non-triangle or index-less meshes are returned unchanged. Missing or
// misshapen position, normal, or st attributes are contract errors.
func ComputeTangentBinormal(m *geom.Mesh) (*geom.Mesh, error) {
	if m.Primitive != geom.Triangles || m.Indices == nil ||
		len(m.Indices) < 3 || len(m.Indices)%3 != 0 {
		return m, nil
	}

	positions, err := requireAttribute(m, geom.AttrPosition, 3)
	if err != nil {
		return nil, err
	}
	normals, err := requireAttribute(m, geom.AttrNormal, 3)
	if err != nil {
		return nil, err
	}
	st, err := requireAttribute(m, geom.AttrST, 2)
	if err != nil {
		return nil, err
	}

	numVertices := len(positions) / 3
	if len(normals)/3 != numVertices || len(st)/2 != numVertices {
		return nil, fmt.Errorf("attribute vertex counts disagree: position %d, normal %d, st %d",
			numVertices, len(normals)/3, len(st)/2)
	}

	rawTangents := make([]math.Vec3, numVertices)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := vertexPosition(positions, i0)
		p1 := vertexPosition(positions, i1)
		p2 := vertexPosition(positions, i2)

		u0, v0 := st[i0*2], st[i0*2+1]
		u1, v1 := st[i1*2], st[i1*2+1]
		u2, v2 := st[i2*2], st[i2*2+1]

		du1, dv1 := u1-u0, v1-v0
		du2, dv2 := u2-u0, v2-v0

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue // degenerate UV mapping, nothing to accumulate
		}
		r := 1.0 / det

		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)
		sdir := math.Vec3{
			X: (dv2*e1.X - dv1*e2.X) * r,
			Y: (dv2*e1.Y - dv1*e2.Y) * r,
			Z: (dv2*e1.Z - dv1*e2.Z) * r,
		}

		for _, idx := range []uint32{i0, i1, i2} {
			rawTangents[idx] = rawTangents[idx].Add(sdir)
		}
	}

	tangents := make([]float64, numVertices*3)
	binormals := make([]float64, numVertices*3)
	for v := 0; v < numVertices; v++ {
		n := vertexPosition(normals, uint32(v))
		t := rawTangents[v]

		// Gram-Schmidt: remove the normal component, then normalize.
		t = t.Sub(n.Scale(n.Dot(t))).Normalize()
		b := n.Cross(t).Normalize()

		tangents[v*3] = t.X
		tangents[v*3+1] = t.Y
		tangents[v*3+2] = t.Z
		binormals[v*3] = b.X
		binormals[v*3+1] = b.Y
		binormals[v*3+2] = b.Z
	}

	m.Attributes.Set(geom.AttrTangent, &geom.Attribute{
		Type:       geom.Float32,
		Components: 3,
		Values:     tangents,
	})
	m.Attributes.Set(geom.AttrBinormal, &geom.Attribute{
		Type:       geom.Float32,
		Components: 3,
		Values:     binormals,
	})
	return m, nil
}
