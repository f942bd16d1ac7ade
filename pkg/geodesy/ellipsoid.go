// Package geodesy provides the ellipsoid math and map projection the
// pipeline consumes through its Projection interface. Only what the 2D
// projection step needs lives here; full geodesic computations are out of
// scope.
package geodesy

import (
	gomath "math"

	"github.com/meshworks/meshpipe/pkg/math"
)

// Ellipsoid is an oblate spheroid defined by its semi-axes in meters.
type Ellipsoid struct {
	A float64 // semi-major (equatorial)
	B float64 // semi-minor (polar)
}

// WGS84 is the reference ellipsoid used by GPS and most web maps.
var WGS84 = Ellipsoid{A: 6378137.0, B: 6356752.3142451793}

// e2 returns the first eccentricity squared.
func (e Ellipsoid) e2() float64 {
	return 1 - (e.B*e.B)/(e.A*e.A)
}

// GeodeticToCartesian converts longitude/latitude (radians) and height
// (meters above the ellipsoid) to earth-fixed coordinates.
func (e Ellipsoid) GeodeticToCartesian(lon, lat, height float64) math.Vec3 {
	sinLat := gomath.Sin(lat)
	cosLat := gomath.Cos(lat)

	// Prime vertical radius of curvature.
	n := e.A / gomath.Sqrt(1-e.e2()*sinLat*sinLat)

	return math.Vec3{
		X: (n + height) * cosLat * gomath.Cos(lon),
		Y: (n + height) * cosLat * gomath.Sin(lon),
		Z: (n*(1-e.e2()) + height) * sinLat,
	}
}

// CartesianToGeodetic converts an earth-fixed point to longitude/latitude
// (radians) and height (meters), iterating on the latitude until it
// converges. A handful of iterations reaches sub-millimeter height accuracy
// anywhere off the geocenter.
func (e Ellipsoid) CartesianToGeodetic(p math.Vec3) (lon, lat, height float64) {
	lon = gomath.Atan2(p.Y, p.X)

	r := gomath.Sqrt(p.X*p.X + p.Y*p.Y)
	if r == 0 {
		// On the polar axis the latitude is a pole and height follows
		// directly.
		if p.Z >= 0 {
			return lon, gomath.Pi / 2, p.Z - e.B
		}
		return lon, -gomath.Pi / 2, -p.Z - e.B
	}

	lat = gomath.Atan2(p.Z, r*(1-e.e2()))
	for i := 0; i < 8; i++ {
		sinLat := gomath.Sin(lat)
		n := e.A / gomath.Sqrt(1-e.e2()*sinLat*sinLat)
		height = r/gomath.Cos(lat) - n
		next := gomath.Atan2(p.Z, r*(1-e.e2()*n/(n+height)))
		if gomath.Abs(next-lat) < 1e-14 {
			lat = next
			break
		}
		lat = next
	}

	sinLat := gomath.Sin(lat)
	n := e.A / gomath.Sqrt(1-e.e2()*sinLat*sinLat)
	height = r/gomath.Cos(lat) - n
	return lon, lat, height
}
