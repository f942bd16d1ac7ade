package pipeline

import (
	"fmt"

	"github.com/meshworks/meshpipe/pkg/geom"
	"github.com/meshworks/meshpipe/pkg/math"
)

// Projection is the narrow interface the pipeline needs from a map
// projection: recover geodetic coordinates from a 3D point and flatten them
// to the 2D map plane. pkg/geodesy provides a WGS84 implementation; the
// pipeline itself never assumes a particular ellipsoid.
type Projection interface {
	// CartesianToGeodetic returns longitude and latitude in radians and
	// height in meters for a point in earth-fixed coordinates.
	CartesianToGeodetic(p math.Vec3) (lon, lat, height float64)
	// ProjectPoint flattens a geodetic coordinate to the projection plane.
	ProjectPoint(lon, lat, height float64) math.Vec2
}

// ProjectTo2D derives a position2D attribute (2 components) from the
// position attribute by running every vertex through the projection. The 3D
// positions are kept so the caller can morph between views. A missing or
// misshapen position attribute is a contract error.
func ProjectTo2D(m *geom.Mesh, proj Projection) error {
	if proj == nil {
		return fmt.Errorf("projection is required")
	}
	positions, err := requireAttribute(m, geom.AttrPosition, 3)
	if err != nil {
		return err
	}

	numVertices := len(positions) / 3
	projected := make([]float64, numVertices*2)
	for v := 0; v < numVertices; v++ {
		p := vertexPosition(positions, uint32(v))
		lon, lat, height := proj.CartesianToGeodetic(p)
		flat := proj.ProjectPoint(lon, lat, height)
		projected[v*2] = flat.X
		projected[v*2+1] = flat.Y
	}

	m.Attributes.Set(geom.AttrPosition2D, &geom.Attribute{
		Type:       geom.Float64,
		Components: 2,
		Values:     projected,
	})
	return nil
}
