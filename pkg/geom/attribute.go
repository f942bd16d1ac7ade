// Package geom defines the mesh data model shared by all pipeline stages:
// named per-vertex attribute channels, index lists, primitive topology, and
// bounding volumes.
package geom

import "fmt"

// ComponentType identifies the numeric type an attribute should be uploaded
// as. In-core values are always held as float64; the component type is
// metadata for the buffer-packing layer downstream.
type ComponentType int

const (
	Int8 ComponentType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

// String returns the GLSL-ish name of the component type.
func (c ComponentType) String() string {
	switch c {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return fmt.Sprintf("ComponentType(%d)", int(c))
}

// Well-known attribute names used by the pipeline stages.
const (
	AttrPosition   = "position"
	AttrNormal     = "normal"
	AttrST         = "st"
	AttrTangent    = "tangent"
	AttrBinormal   = "binormal"
	AttrPosition2D = "position2D"
)

// Attribute is one named per-vertex data channel: a flat value array split
// into fixed-size tuples of Components values each.
type Attribute struct {
	Type       ComponentType
	Components int
	Normalize  bool
	Values     []float64
}

// Count returns the number of vertices the attribute covers.
func (a *Attribute) Count() int {
	if a.Components == 0 {
		return 0
	}
	return len(a.Values) / a.Components
}

// Validate checks that the value array length is a multiple of the component
// count.
func (a *Attribute) Validate() error {
	if a.Components <= 0 {
		return fmt.Errorf("attribute has %d components, want > 0", a.Components)
	}
	if len(a.Values)%a.Components != 0 {
		return fmt.Errorf("attribute length %d is not a multiple of %d components", len(a.Values), a.Components)
	}
	return nil
}

// SameShape reports whether two attributes agree in type, component count,
// and normalization flag.
func (a *Attribute) SameShape(other *Attribute) bool {
	return a.Type == other.Type &&
		a.Components == other.Components &&
		a.Normalize == other.Normalize
}

// AttributeSet is an insertion-ordered mapping from attribute name to
// attribute. Order matters to downstream consumers (buffer layout, instance
// combination), so iteration always follows insertion order.
type AttributeSet struct {
	names []string
	attrs map[string]*Attribute
}

// NewAttributeSet returns an empty attribute set.
func NewAttributeSet() *AttributeSet {
	return &AttributeSet{attrs: make(map[string]*Attribute)}
}

// Set adds or replaces the attribute under name. A replaced attribute keeps
// its original position in the ordering.
func (s *AttributeSet) Set(name string, attr *Attribute) {
	if _, ok := s.attrs[name]; !ok {
		s.names = append(s.names, name)
	}
	s.attrs[name] = attr
}

// Get returns the attribute under name, or nil if absent.
func (s *AttributeSet) Get(name string) *Attribute {
	return s.attrs[name]
}

// Has reports whether an attribute exists under name.
func (s *AttributeSet) Has(name string) bool {
	_, ok := s.attrs[name]
	return ok
}

// Delete removes the attribute under name, if present.
func (s *AttributeSet) Delete(name string) {
	if _, ok := s.attrs[name]; !ok {
		return
	}
	delete(s.attrs, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// Names returns the attribute names in insertion order. The returned slice
// is owned by the set and must not be modified.
func (s *AttributeSet) Names() []string {
	return s.names
}

// Len returns the number of attributes.
func (s *AttributeSet) Len() int {
	return len(s.names)
}
