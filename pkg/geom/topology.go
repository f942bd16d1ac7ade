package geom

import "fmt"

// PrimitiveType tells the rasterizer how to assemble the index list into
// primitives.
type PrimitiveType int

const (
	Points PrimitiveType = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
)

// String returns the primitive name.
func (p PrimitiveType) String() string {
	switch p {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "line_strip"
	case LineLoop:
		return "line_loop"
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle_strip"
	case TriangleFan:
		return "triangle_fan"
	}
	return fmt.Sprintf("PrimitiveType(%d)", int(p))
}

// IndexWidth is the integer width an index buffer should be uploaded with.
type IndexWidth int

const (
	IndexWidth16 IndexWidth = 16
	IndexWidth32 IndexWidth = 32
)

// MaxUint16Vertices is the number of vertices addressable by a 16-bit index.
const MaxUint16Vertices = 65536

// Combine16BitLimit is the index-count ceiling under which a combined index
// buffer stays 16-bit. It is deliberately below MaxUint16Vertices to leave
// headroom for downstream welding and primitive restart values.
const Combine16BitLimit = 61440
