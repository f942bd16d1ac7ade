package geom

import (
	"github.com/meshworks/meshpipe/pkg/math"
)

// BoundingSphere is a center plus radius enclosing a mesh.
type BoundingSphere struct {
	Center math.Vec3
	Radius float64
}

// BoundingSphereFromPoints computes a sphere enclosing the given flat
// position array (x,y,z triples). Returns nil for an empty array.
// Uses the centroid of the axis-aligned bounds as the center, then grows the
// radius to the farthest point.
func BoundingSphereFromPoints(positions []float64) *BoundingSphere {
	if len(positions) < 3 {
		return nil
	}

	min := math.Vec3{X: positions[0], Y: positions[1], Z: positions[2]}
	max := min
	for i := 3; i+2 < len(positions); i += 3 {
		p := math.Vec3{X: positions[i], Y: positions[i+1], Z: positions[i+2]}
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}

	center := min.Add(max).Scale(0.5)
	radius := 0.0
	for i := 0; i+2 < len(positions); i += 3 {
		p := math.Vec3{X: positions[i], Y: positions[i+1], Z: positions[i+2]}
		if d := center.Distance(p); d > radius {
			radius = d
		}
	}

	return &BoundingSphere{Center: center, Radius: radius}
}

// Union returns the smallest sphere enclosing both s and other.
func (s *BoundingSphere) Union(other *BoundingSphere) *BoundingSphere {
	d := s.Center.Distance(other.Center)

	// One sphere contains the other.
	if d+other.Radius <= s.Radius {
		out := *s
		return &out
	}
	if d+s.Radius <= other.Radius {
		out := *other
		return &out
	}

	radius := (d + s.Radius + other.Radius) / 2
	// Center sits on the segment between the two centers, offset so both
	// surfaces are touched.
	dir := other.Center.Sub(s.Center).Normalize()
	center := s.Center.Add(dir.Scale(radius - s.Radius))
	return &BoundingSphere{Center: center, Radius: radius}
}

// Transform returns the sphere moved by the given matrix. The radius is
// scaled by the largest basis-vector scale so the result still encloses the
// transformed geometry.
func (s *BoundingSphere) Transform(m math.Mat4) *BoundingSphere {
	sx := math.Vec3{X: m[0], Y: m[1], Z: m[2]}.Length()
	sy := math.Vec3{X: m[4], Y: m[5], Z: m[6]}.Length()
	sz := math.Vec3{X: m[8], Y: m[9], Z: m[10]}.Length()

	scale := sx
	if sy > scale {
		scale = sy
	}
	if sz > scale {
		scale = sz
	}

	return &BoundingSphere{
		Center: m.TransformPoint(s.Center),
		Radius: s.Radius * scale,
	}
}
