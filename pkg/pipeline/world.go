package pipeline

import (
	"github.com/meshworks/meshpipe/pkg/geom"
	"github.com/meshworks/meshpipe/pkg/math"
)

// TransformToWorldCoordinates bakes the instance transform into the mesh:
// positions go through the full matrix, normals/tangents/binormals through
// the inverse-transpose (renormalized afterwards so non-uniform scale does
// not skew them), and the bounding sphere is carried along. The transform is
// then reset to identity so downstream stages see world-space data. An
// instance already at identity is returned unchanged.
func TransformToWorldCoordinates(inst *geom.Instance) (*geom.Mesh, error) {
	if inst.Transform == math.Identity() {
		return inst.Mesh, nil
	}

	m := inst.Mesh

	if positions, err := requireAttribute(m, geom.AttrPosition, 3); err == nil {
		transformPoints(positions, inst.Transform)
	} else if m.Attributes.Has(geom.AttrPosition) {
		return nil, err
	}

	normalMatrix := inst.Transform.Inverse().Transpose()
	for _, name := range []string{geom.AttrNormal, geom.AttrTangent, geom.AttrBinormal} {
		if !m.Attributes.Has(name) {
			continue
		}
		values, err := requireAttribute(m, name, 3)
		if err != nil {
			return nil, err
		}
		transformDirections(values, normalMatrix)
	}

	if m.Bounds != nil {
		m.Bounds = m.Bounds.Transform(inst.Transform)
	}

	inst.Transform = math.Identity()
	return m, nil
}

func transformPoints(values []float64, t math.Mat4) {
	for i := 0; i+2 < len(values); i += 3 {
		p := t.TransformPoint(math.Vec3{X: values[i], Y: values[i+1], Z: values[i+2]})
		values[i], values[i+1], values[i+2] = p.X, p.Y, p.Z
	}
}

func transformDirections(values []float64, t math.Mat4) {
	for i := 0; i+2 < len(values); i += 3 {
		d := t.TransformDirection(math.Vec3{X: values[i], Y: values[i+1], Z: values[i+2]}).Normalize()
		values[i], values[i+1], values[i+2] = d.X, d.Y, d.Z
	}
}
