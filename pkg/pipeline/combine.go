package pipeline

import (
	"fmt"

	"github.com/meshworks/meshpipe/pkg/geom"
)

// CombineInstances merges the meshes of instances sharing one transform into
// a single mesh with concatenated attribute buffers and offset-adjusted
// indices. Callers must pre-group instances by transform; differing
// transforms are an error, as is an empty input. A single instance is
// returned as-is, not copied.
//
// Only attributes present in every instance with identical shape (type,
// component count, normalization) survive; the rest are dropped silently.
// This keeps the combined schema renderable everywhere at the cost of
// optional channels, and callers relying on an attribute must ensure every
// instance carries it.
func CombineInstances(instances []*geom.Instance) (*geom.Mesh, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("no instances to combine")
	}
	for i := 1; i < len(instances); i++ {
		if instances[i].Transform != instances[0].Transform {
			return nil, fmt.Errorf("instance %d transform differs; group instances by transform before combining", i)
		}
	}
	if len(instances) == 1 {
		return instances[0].Mesh, nil
	}

	names := sharedAttributes(instances)
	combined := geom.NewMesh(instances[0].Mesh.Primitive)

	// Concatenate each surviving attribute across instances in input order.
	for _, name := range names {
		first := instances[0].Mesh.Attributes.Get(name)
		total := 0
		for _, inst := range instances {
			total += len(inst.Mesh.Attributes.Get(name).Values)
		}
		values := make([]float64, 0, total)
		for _, inst := range instances {
			values = append(values, inst.Mesh.Attributes.Get(name).Values...)
		}
		combined.Attributes.Set(name, &geom.Attribute{
			Type:       first.Type,
			Components: first.Components,
			Normalize:  first.Normalize,
			Values:     values,
		})
	}

	indices, width, err := combineIndices(instances, names)
	if err != nil {
		return nil, err
	}
	combined.Indices = indices
	combined.IndexWidth = width
	combined.Bounds = combineBounds(instances)

	return combined, nil
}

// sharedAttributes returns the names present in every instance with exactly
// matching shape, ordered as in the first instance.
func sharedAttributes(instances []*geom.Instance) []string {
	var names []string
	first := instances[0].Mesh.Attributes
	for _, name := range first.Names() {
		ref := first.Get(name)
		shared := true
		for _, inst := range instances[1:] {
			attr := inst.Mesh.Attributes.Get(name)
			if attr == nil || !attr.SameShape(ref) {
				shared = false
				break
			}
		}
		if shared {
			names = append(names, name)
		}
	}
	return names
}

// combineIndices concatenates the instances' index lists, offsetting each by
// the vertex counts of the prior instances. Offsets follow the first
// surviving attribute, which defines the combined vertex numbering. The
// index width is promoted to 32-bit once the combined count passes
// geom.Combine16BitLimit.
func combineIndices(instances []*geom.Instance, names []string) ([]uint32, geom.IndexWidth, error) {
	if len(names) == 0 {
		return nil, geom.IndexWidth16, nil
	}
	refName := names[0]

	total := 0
	for _, inst := range instances {
		total += len(inst.Mesh.Indices)
	}
	if total == 0 {
		return nil, geom.IndexWidth16, nil
	}

	for i, inst := range instances {
		if inst.Mesh.Primitive != instances[0].Mesh.Primitive {
			return nil, 0, fmt.Errorf("instance %d is %s, instance 0 is %s; combine one primitive type at a time",
				i, inst.Mesh.Primitive, instances[0].Mesh.Primitive)
		}
	}

	width := geom.IndexWidth16
	if total >= geom.Combine16BitLimit {
		width = geom.IndexWidth32
	}

	indices := make([]uint32, 0, total)
	offset := uint32(0)
	for _, inst := range instances {
		for _, idx := range inst.Mesh.Indices {
			indices = append(indices, idx+offset)
		}
		offset += uint32(inst.Mesh.Attributes.Get(refName).Count())
	}
	return indices, width, nil
}

// combineBounds unions the instance bounding spheres. Any instance without
// one leaves the combined mesh unbounded.
func combineBounds(instances []*geom.Instance) *geom.BoundingSphere {
	for _, inst := range instances {
		if inst.Mesh.Bounds == nil {
			return nil
		}
	}
	bounds := *instances[0].Mesh.Bounds
	result := &bounds
	for _, inst := range instances[1:] {
		result = result.Union(inst.Mesh.Bounds)
	}
	return result
}
