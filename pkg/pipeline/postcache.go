package pipeline

import (
	"fmt"

	"github.com/meshworks/meshpipe/pkg/geom"
)

// DefaultCacheCapacity is the simulated post-transform cache size used when
// the caller passes 0. 24 entries is a conservative fit for most hardware.
const DefaultCacheCapacity = 24

// ReorderForPostVertexCache reorders the triangles of a TRIANGLES mesh to
// minimize misses in a simulated post-transform vertex cache of the given
// capacity. Only the index list changes; attributes are untouched. Pass 0
// for cacheCapacity to use DefaultCacheCapacity; capacities of 2 or less
// cannot hold a triangle and are an error. Non-triangle or index-less meshes
// are returned unchanged.
func ReorderForPostVertexCache(m *geom.Mesh, cacheCapacity int) (*geom.Mesh, error) {
	if m.Indices == nil || m.Primitive != geom.Triangles {
		return m, nil
	}
	if cacheCapacity == 0 {
		cacheCapacity = DefaultCacheCapacity
	}
	if cacheCapacity <= 2 {
		return nil, fmt.Errorf("cache capacity %d must be greater than 2", cacheCapacity)
	}
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("triangle index list length %d is not a multiple of 3", len(m.Indices))
	}

	m.Indices = optimizeTriangleOrder(m.Indices, cacheCapacity)
	return m, nil
}

// triangleOrderState carries the bookkeeping of one optimizeTriangleOrder
// run: per-vertex adjacency and remaining-use counts, per-triangle emitted
// flags, and the simulated cache.
type triangleOrderState struct {
	adjacent [][]int  // vertex -> triangles touching it
	uses     []int    // vertex -> triangles not yet emitted
	emitted  []bool   // triangle -> already output
	cache    []uint32 // resident vertices, oldest first
	capacity int
	cursor   int // scan position for cold restarts
}

// optimizeTriangleOrder greedily emits triangles in an order that keeps
// their vertices resident in a bounded FIFO cache. Each step scores the
// not-yet-emitted triangles adjacent to cached vertices: a resident vertex
// is worth more than a cold one, and vertices with few remaining uses are
// preferred so they can retire from the cache. Ties go to the earlier
// triangle in input order. When no candidate touches the cache, the scan
// cursor supplies the next unemitted triangle.
//
// The output is a permutation of the input triangles; no index value is
// added, dropped, or rewritten.
func optimizeTriangleOrder(indices []uint32, cacheCapacity int) []uint32 {
	numTriangles := len(indices) / 3
	if numTriangles == 0 {
		return indices
	}

	maxIndex := uint32(0)
	for _, idx := range indices {
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	s := &triangleOrderState{
		adjacent: make([][]int, maxIndex+1),
		uses:     make([]int, maxIndex+1),
		emitted:  make([]bool, numTriangles),
		capacity: cacheCapacity,
	}
	for t := 0; t < numTriangles; t++ {
		for _, idx := range indices[t*3 : t*3+3] {
			s.adjacent[idx] = append(s.adjacent[idx], t)
			s.uses[idx]++
		}
	}

	out := make([]uint32, 0, len(indices))
	for emittedCount := 0; emittedCount < numTriangles; emittedCount++ {
		t := s.bestTriangle(indices)
		out = append(out, indices[t*3], indices[t*3+1], indices[t*3+2])
		s.emit(indices, t)
	}
	return out
}

// bestTriangle picks the highest-scoring unemitted triangle adjacent to the
// cache, or the next unemitted triangle in input order when the cache offers
// nothing.
func (s *triangleOrderState) bestTriangle(indices []uint32) int {
	best := -1
	bestScore := 0.0
	for _, v := range s.cache {
		for _, t := range s.adjacent[v] {
			if s.emitted[t] {
				continue
			}
			score := s.scoreTriangle(indices, t)
			if best == -1 || score > bestScore || (score == bestScore && t < best) {
				best = t
				bestScore = score
			}
		}
	}
	if best >= 0 {
		return best
	}

	for s.emitted[s.cursor] {
		s.cursor++
	}
	return s.cursor
}

// scoreTriangle rewards resident vertices and penalizes vertices that will
// be needed many more times (they would occupy cache space for longer).
func (s *triangleOrderState) scoreTriangle(indices []uint32, t int) float64 {
	score := 0.0
	for _, idx := range indices[t*3 : t*3+3] {
		if s.inCache(idx) {
			score += 2
		}
		score += 1.0 / float64(s.uses[idx])
	}
	return score
}

func (s *triangleOrderState) inCache(idx uint32) bool {
	for _, v := range s.cache {
		if v == idx {
			return true
		}
	}
	return false
}

// emit marks the triangle as output, decrements its vertices' remaining-use
// counts, and pushes any non-resident vertex into the cache, evicting the
// oldest entries beyond capacity.
func (s *triangleOrderState) emit(indices []uint32, t int) {
	s.emitted[t] = true
	for _, idx := range indices[t*3 : t*3+3] {
		s.uses[idx]--
		if !s.inCache(idx) {
			s.cache = append(s.cache, idx)
		}
	}
	if over := len(s.cache) - s.capacity; over > 0 {
		s.cache = s.cache[over:]
	}
}
