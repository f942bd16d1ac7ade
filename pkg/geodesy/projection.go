package geodesy

import (
	"github.com/meshworks/meshpipe/pkg/math"
)

// Geographic is the equirectangular (plate carree) projection: longitude and
// latitude scale linearly to meters on the ellipsoid's equator. It satisfies
// pipeline.Projection.
type Geographic struct {
	Ellipsoid Ellipsoid
}

// NewGeographic returns the projection over the given ellipsoid.
func NewGeographic(e Ellipsoid) *Geographic {
	return &Geographic{Ellipsoid: e}
}

// CartesianToGeodetic delegates to the ellipsoid.
func (g *Geographic) CartesianToGeodetic(p math.Vec3) (lon, lat, height float64) {
	return g.Ellipsoid.CartesianToGeodetic(p)
}

// ProjectPoint maps radians to equatorial meters. Height does not affect the
// map plane.
func (g *Geographic) ProjectPoint(lon, lat, height float64) math.Vec2 {
	return math.Vec2{
		X: lon * g.Ellipsoid.A,
		Y: lat * g.Ellipsoid.A,
	}
}
