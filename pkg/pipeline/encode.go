package pipeline

import (
	"fmt"
	"math"

	"github.com/meshworks/meshpipe/pkg/geom"
)

// EncodeHighPrecision splits a float64 attribute into a high/low pair of
// float32-typed attributes so shaders can reconstruct double precision from
// two single-precision values (relative-to-center rendering of planet-scale
// positions). The high part is the value snapped toward zero to a 65536
// grid, the low part the remainder, so the magnitude a float32 must carry
// drops from planet scale to under 65536. The source attribute is removed
// and the two new attributes take its place.
func EncodeHighPrecision(m *geom.Mesh, name, highName, lowName string) error {
	attr := m.Attributes.Get(name)
	if attr == nil {
		return fmt.Errorf("mesh has no %q attribute", name)
	}
	if attr.Type != geom.Float64 {
		return fmt.Errorf("attribute %q is %s, only float64 attributes can be split", name, attr.Type)
	}

	high := make([]float64, len(attr.Values))
	low := make([]float64, len(attr.Values))
	for i, value := range attr.Values {
		h, l := splitDouble(value)
		high[i] = h
		low[i] = l
	}

	m.Attributes.Delete(name)
	m.Attributes.Set(highName, &geom.Attribute{
		Type:       geom.Float32,
		Components: attr.Components,
		Normalize:  attr.Normalize,
		Values:     high,
	})
	m.Attributes.Set(lowName, &geom.Attribute{
		Type:       geom.Float32,
		Components: attr.Components,
		Normalize:  attr.Normalize,
		Values:     low,
	})
	return nil
}

// splitDouble returns high and low parts with high snapped to a 65536 grid
// toward zero, so high + low == value.
func splitDouble(value float64) (high, low float64) {
	if value >= 0 {
		high = math.Floor(value/65536.0) * 65536.0
		return high, value - high
	}
	high = -math.Floor(-value/65536.0) * 65536.0
	return high, value - high
}
