package locator

import (
	"sort"
	"sync"

	"github.com/arxos/celltree/geom"
)

// Scratch is the per-query working state component C7 describes: a
// generation-stamped visited set (so a fresh query never pays to clear a
// full numCells-sized array), reusable pcoords/weights buffers, and an
// all-hits collector. One Scratch must not be shared across concurrently
// running queries — see ScratchPool.
type Scratch struct {
	visited    []uint32
	generation uint32

	pcoords []float64
	weights []float64

	hits []Hit
}

// NewScratch allocates a Scratch sized for a dataset with numCells cells.
func NewScratch(numCells int) *Scratch {
	return &Scratch{
		visited:    make([]uint32, numCells),
		generation: 1,
		pcoords:    make([]float64, 0, 4),
		weights:    make([]float64, 0, 8),
	}
}

// Reset starts a new query: advances the generation stamp (wrapping back
// to a real clear only on overflow, which in practice never happens) and
// truncates the hit collector without releasing its backing array.
func (s *Scratch) Reset() {
	s.generation++
	if s.generation == 0 {
		for i := range s.visited {
			s.visited[i] = 0
		}
		s.generation = 1
	}
	s.hits = s.hits[:0]
}

// Visited reports whether id has already been tested this query.
func (s *Scratch) Visited(id CellID) bool { return s.visited[id] == s.generation }

// MarkVisited records id as tested this query.
func (s *Scratch) MarkVisited(id CellID) { s.visited[id] = s.generation }

// ClearVisited un-marks id, used by the octree ray traversal's retry rule:
// a hit recorded outside the current octant must not suppress a later,
// legitimate test of the same cell from a neighbouring octant.
func (s *Scratch) ClearVisited(id CellID) { s.visited[id] = s.generation - 1 }

// PCoords returns a zeroed scratch buffer of length n, reusing backing
// storage across calls within the same query.
func (s *Scratch) PCoords(n int) []float64 {
	if cap(s.pcoords) < n {
		s.pcoords = make([]float64, n)
	}
	s.pcoords = s.pcoords[:n]
	for i := range s.pcoords {
		s.pcoords[i] = 0
	}
	return s.pcoords
}

// Weights returns a zeroed scratch buffer of length n.
func (s *Scratch) Weights(n int) []float64 {
	if cap(s.weights) < n {
		s.weights = make([]float64, n)
	}
	s.weights = s.weights[:n]
	for i := range s.weights {
		s.weights[i] = 0
	}
	return s.weights
}

// AddHit appends a hit to the all-hits collector.
func (s *Scratch) AddHit(h Hit) { s.hits = append(s.hits, h) }

// Hits returns the hits collected so far, sorted by ascending t and, for
// ties, ascending cell id.
func (s *Scratch) Hits() []Hit {
	sort.Slice(s.hits, func(i, j int) bool {
		if s.hits[i].T != s.hits[j].T {
			return s.hits[i].T < s.hits[j].T
		}
		return s.hits[i].CellID < s.hits[j].CellID
	})
	return s.hits
}

// ScratchPool hands out Scratch values sized for a fixed cell count,
// reusing them across queries instead of allocating a fresh visited array
// per call. Safe for concurrent use by multiple query goroutines, which is
// the thread-safety story this package relies on: the tree itself is
// immutable post-build, and each concurrent query gets its own Scratch.
type ScratchPool struct {
	numCells int
	pool     sync.Pool
}

// NewScratchPool constructs a pool for a dataset with numCells cells.
func NewScratchPool(numCells int) *ScratchPool {
	sp := &ScratchPool{numCells: numCells}
	sp.pool.New = func() any { return NewScratch(numCells) }
	return sp
}

// Get acquires a reset Scratch. Put returns it for reuse.
func (sp *ScratchPool) Get() *Scratch {
	s := sp.pool.Get().(*Scratch)
	s.Reset()
	return s
}

// Put returns a Scratch to the pool.
func (sp *ScratchPool) Put(s *Scratch) { sp.pool.Put(s) }

// BoxIntersectsPlane reports whether the infinite plane through origin
// with the given (not necessarily unit) normal crosses box b, by
// projecting the box's half-extent onto the normal and comparing against
// the signed distance from the box center to the plane — the standard
// box/plane overlap test, used by FindCellsAlongPlane to prune subtrees.
func BoxIntersectsPlane(b geom.Bounds, origin, normal geom.Point) bool {
	center := b.Center()
	ext := b.Extent()
	halfX, halfY, halfZ := ext.X/2, ext.Y/2, ext.Z/2
	d := (center.X-origin.X)*normal.X + (center.Y-origin.Y)*normal.Y + (center.Z-origin.Z)*normal.Z
	r := halfX*abs(normal.X) + halfY*abs(normal.Y) + halfZ*abs(normal.Z)
	return abs(d) <= r
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
