package octree

import (
	"math"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

func (t *Tree) evaluateCell(id locator.CellID, x geom.Point, tol float64, s *locator.Scratch) (locator.EvaluationResult, bool) {
	if s.Visited(id) {
		return locator.EvaluationResult{}, false
	}
	s.MarkVisited(id)
	cache := t.Base.BoundsCache()
	if !cache.ContainsTol(x, id, tol) {
		return locator.EvaluationResult{}, false
	}
	cell := t.Dataset().GetCell(id)
	res := cell.EvaluatePosition(x)
	return res, res.Status == locator.Inside
}

// FindCell returns the cell containing x, using the octant grid
// traversal: clamp x to the grid, index directly into its leaf, and test
// candidates via the cached bounds then Cell.EvaluatePosition.
func (t *Tree) FindCell(x geom.Point) (locator.CellID, locator.EvaluationResult, bool) {
	return t.FindCellWithTolerance(x, t.Config.Tolerance)
}

func (t *Tree) FindCellWithTolerance(x geom.Point, tol float64) (locator.CellID, locator.EvaluationResult, bool) {
	if !t.Built() {
		return locator.NoCell, locator.EvaluationResult{}, false
	}
	if !t.bounds.ContainsTol(x, tol) {
		return locator.NoCell, locator.EvaluationResult{}, false
	}
	if t.EnableLastCellHint && t.lastCell != locator.NoCell {
		cache := t.Base.BoundsCache()
		if cache.ContainsTol(x, t.lastCell, tol) {
			if res := t.Dataset().GetCell(t.lastCell).EvaluatePosition(x); res.Status == locator.Inside {
				return t.lastCell, res, true
			}
		}
	}

	i, j, k := t.ijkOf(x)
	idx := t.leafIndex(i, j, k)
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	for _, id := range t.leafCells[idx] {
		if res, ok := t.evaluateCell(id, x, tol, s); ok {
			if t.EnableLastCellHint {
				t.lastCell = id
			}
			return id, res, true
		}
	}
	return locator.NoCell, locator.EvaluationResult{}, false
}

type ddaState struct {
	ijk, ijkEnd [3]int
	step        [3]int
	tMax, tDelta [3]float64
}

func (t *Tree) startDDA(p1, p2 geom.Point) (ddaState, float64, float64, bool) {
	var st ddaState
	t1, t2, _, _, ok := geom.IntersectSegment(t.bounds, p1, p2)
	if !ok || t2 < t1 {
		return st, 0, 0, false
	}
	dir := p2.Sub(p1)
	entry := p1.Lerp(p2, t1)
	exit := p1.Lerp(p2, t2)

	ei, ej, ek := t.ijkOf(entry)
	xi, xj, xk := t.ijkOf(exit)
	st.ijk = [3]int{ei, ej, ek}
	st.ijkEnd = [3]int{xi, xj, xk}

	dirA := [3]float64{dir.X, dir.Y, dir.Z}
	hA := [3]float64{t.h.X, t.h.Y, t.h.Z}
	minA := [3]float64{t.bounds.MinX, t.bounds.MinY, t.bounds.MinZ}
	p1A := [3]float64{p1.X, p1.Y, p1.Z}

	for a := 0; a < 3; a++ {
		if dirA[a] == 0 {
			st.step[a] = 0
			st.tMax[a] = math.Inf(1)
			st.tDelta[a] = math.Inf(1)
			continue
		}
		if dirA[a] > 0 {
			st.step[a] = 1
			boundary := minA[a] + float64(st.ijk[a]+1)*hA[a]
			st.tMax[a] = (boundary - p1A[a]) / dirA[a]
		} else {
			st.step[a] = -1
			boundary := minA[a] + float64(st.ijk[a])*hA[a]
			st.tMax[a] = (boundary - p1A[a]) / dirA[a]
		}
		st.tDelta[a] = hA[a] / math.Abs(dirA[a])
	}
	return st, t1, t2, true
}

func (st *ddaState) advance() {
	axis := 0
	if st.tMax[1] < st.tMax[axis] {
		axis = 1
	}
	if st.tMax[2] < st.tMax[axis] {
		axis = 2
	}
	st.ijk[axis] += st.step[axis]
	st.tMax[axis] += st.tDelta[axis]
}

func (st *ddaState) outOfGrid(ndivs int) bool {
	for a := 0; a < 3; a++ {
		if st.ijk[a] < 0 || st.ijk[a] >= ndivs {
			return true
		}
	}
	return false
}

func (st *ddaState) atEnd() bool {
	return st.ijk == st.ijkEnd
}

// IntersectWithLine implements the voxel-DDA ray march.
func (t *Tree) IntersectWithLine(p1, p2 geom.Point, tol float64) (locator.Hit, bool) {
	if !t.Built() {
		return locator.Hit{}, false
	}
	st, _, _, ok := t.startDDA(p1, p2)
	if !ok {
		return locator.Hit{}, false
	}

	s := t.scratch.Get()
	defer t.scratch.Put(s)
	cache := t.Base.BoundsCache()
	ds := t.Dataset()

	var best *locator.Hit
	for {
		ob := t.octantBounds(st.ijk[0], st.ijk[1], st.ijk[2])
		idx := t.leafIndex(st.ijk[0], st.ijk[1], st.ijk[2])
		for _, id := range t.leafCells[idx] {
			if s.Visited(id) {
				continue
			}
			cb := cache.Bounds(id)
			if _, _, _, _, ok := geom.IntersectSegment(cb, p1, p2); !ok {
				s.MarkVisited(id)
				continue
			}
			lh, hit := ds.GetCell(id).IntersectWithLine(p1, p2, tol)
			if !hit {
				s.MarkVisited(id)
				continue
			}
			if !ob.ContainsTol(lh.X, tol) {
				// Outside the current octant: retry from a later voxel.
				s.ClearVisited(id)
				continue
			}
			s.MarkVisited(id)
			h := locator.Hit{T: lh.T, X: lh.X, PCoords: lh.PCoords, SubID: lh.SubID, CellID: id}
			if best == nil || h.T < best.T {
				bc := h
				best = &bc
			}
		}
		if best != nil {
			return *best, true
		}
		if st.atEnd() {
			break
		}
		st.advance()
		if st.outOfGrid(t.ndivs) {
			break
		}
	}
	return locator.Hit{}, false
}

// IntersectWithLineAll collects every intersecting cell, sorted by t.
func (t *Tree) IntersectWithLineAll(p1, p2 geom.Point, tol float64) []locator.Hit {
	if !t.Built() {
		return nil
	}
	st, _, _, ok := t.startDDA(p1, p2)
	if !ok {
		return nil
	}

	s := t.scratch.Get()
	defer t.scratch.Put(s)
	cache := t.Base.BoundsCache()
	ds := t.Dataset()

	for {
		ob := t.octantBounds(st.ijk[0], st.ijk[1], st.ijk[2])
		idx := t.leafIndex(st.ijk[0], st.ijk[1], st.ijk[2])
		for _, id := range t.leafCells[idx] {
			if s.Visited(id) {
				continue
			}
			cb := cache.Bounds(id)
			if _, _, _, _, ok := geom.IntersectSegment(cb, p1, p2); !ok {
				s.MarkVisited(id)
				continue
			}
			lh, hit := ds.GetCell(id).IntersectWithLine(p1, p2, tol)
			if !hit {
				s.MarkVisited(id)
				continue
			}
			if !ob.ContainsTol(lh.X, tol) {
				s.ClearVisited(id)
				continue
			}
			s.MarkVisited(id)
			s.AddHit(locator.Hit{T: lh.T, X: lh.X, PCoords: lh.PCoords, SubID: lh.SubID, CellID: id})
		}
		if st.atEnd() {
			break
		}
		st.advance()
		if st.outOfGrid(t.ndivs) {
			break
		}
	}
	out := s.Hits()
	cp := make([]locator.Hit, len(out))
	copy(cp, out)
	return cp
}

// FindClosestPointWithinRadius implements an expanding-ring search over
// the leaf grid: rings of octants at growing Chebyshev distance from the
// octant containing x.
func (t *Tree) FindClosestPointWithinRadius(x geom.Point, radius float64) (locator.Hit, bool) {
	if !t.Built() {
		return locator.Hit{}, false
	}
	ds := t.Dataset()
	distToBounds := math.Sqrt(geom.PointDistanceSquared(t.bounds, x))
	refined := math.Min(radius, distToBounds+ds.Length())

	minH := math.Min(t.h.X, math.Min(t.h.Y, t.h.Z))
	if minH <= 0 {
		minH = 1
	}

	si, sj, sk := t.ijkOf(x)
	s := t.scratch.Get()
	defer t.scratch.Put(s)
	cache := t.Base.BoundsCache()

	var best *locator.Hit
	bestDist2 := refined * refined

	maxRing := t.ndivs/2 + 1

	for ring := 0; ring <= maxRing; ring++ {
		if float64(ring-1)*minH > math.Sqrt(bestDist2) && ring > 0 {
			break
		}
		for _, c := range ringCells(si, sj, sk, ring, t.ndivs) {
			ob := t.octantBounds(c[0], c[1], c[2])
			if geom.PointDistanceSquared(ob, x) >= bestDist2 {
				continue
			}
			idx := t.leafIndex(c[0], c[1], c[2])
			for _, id := range t.leafCells[idx] {
				if s.Visited(id) {
					continue
				}
				s.MarkVisited(id)
				cb := cache.Bounds(id)
				if geom.PointDistanceSquared(cb, x) >= bestDist2 {
					continue
				}
				res := ds.GetCell(id).EvaluatePosition(x)
				if res.Dist2 < bestDist2 {
					bestDist2 = res.Dist2
					h := locator.Hit{X: res.Closest, PCoords: res.PCoords, Weights: res.Weights, SubID: res.SubID, CellID: id, Dist2: res.Dist2}
					best = &h
				}
			}
		}
	}
	if best == nil || best.Dist2 > radius*radius {
		return locator.Hit{}, false
	}
	return *best, true
}

// ringCells enumerates grid cells on the Chebyshev-distance-ring boundary
// of (si,sj,sk), clipped to the grid.
func ringCells(si, sj, sk, ring, ndivs int) [][3]int {
	if ring == 0 {
		return [][3]int{{si, sj, sk}}
	}
	var out [][3]int
	lo, hi := -ring, ring
	for di := lo; di <= hi; di++ {
		for dj := lo; dj <= hi; dj++ {
			for dk := lo; dk <= hi; dk++ {
				if abs3(di) != ring && abs3(dj) != ring && abs3(dk) != ring {
					continue
				}
				i, j, k := si+di, sj+dj, sk+dk
				if i < 0 || i >= ndivs || j < 0 || j >= ndivs || k < 0 || k >= ndivs {
					continue
				}
				out = append(out, [3]int{i, j, k})
			}
		}
	}
	return out
}

func abs3(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FindCellsWithinBounds unions every cell id in the block of leaves
// covered by box.
func (t *Tree) FindCellsWithinBounds(box geom.Bounds) []locator.CellID {
	if !t.Built() {
		return nil
	}
	iMin, jMin, kMin := t.ijkOf(box.Min())
	iMax, jMax, kMax := t.ijkOf(box.Max())

	s := t.scratch.Get()
	defer t.scratch.Put(s)
	var out []locator.CellID
	for i := iMin; i <= iMax; i++ {
		for j := jMin; j <= jMax; j++ {
			for k := kMin; k <= kMax; k++ {
				idx := t.leafIndex(i, j, k)
				for _, id := range t.leafCells[idx] {
					if s.Visited(id) {
						continue
					}
					s.MarkVisited(id)
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// FindCellsAlongLine returns every cell whose cached bounds the segment
// crosses — a coarse candidate set, unlike IntersectWithLine's per-cell
// geometric test.
func (t *Tree) FindCellsAlongLine(p1, p2 geom.Point, tol float64) []locator.CellID {
	if !t.Built() {
		return nil
	}
	st, _, _, ok := t.startDDA(p1, p2)
	if !ok {
		return nil
	}
	s := t.scratch.Get()
	defer t.scratch.Put(s)
	cache := t.Base.BoundsCache()

	var out []locator.CellID
	for {
		idx := t.leafIndex(st.ijk[0], st.ijk[1], st.ijk[2])
		for _, id := range t.leafCells[idx] {
			if s.Visited(id) {
				continue
			}
			s.MarkVisited(id)
			cb := cache.Bounds(id)
			if _, _, _, _, ok := geom.IntersectSegment(cb, p1, p2); ok {
				out = append(out, id)
			}
		}
		if st.atEnd() {
			break
		}
		st.advance()
		if st.outOfGrid(t.ndivs) {
			break
		}
	}
	return out
}

// FindCellsAlongPlane returns every cell whose cached bounds cross the
// plane, scanning all non-empty leaves.
func (t *Tree) FindCellsAlongPlane(origin, normal geom.Point, tol float64) []locator.CellID {
	if !t.Built() {
		return nil
	}
	cache := t.Base.BoundsCache()
	var out []locator.CellID
	s := t.scratch.Get()
	defer t.scratch.Put(s)
	for i := 0; i < t.ndivs; i++ {
		for j := 0; j < t.ndivs; j++ {
			for k := 0; k < t.ndivs; k++ {
				if !t.nonEmpty[t.level][i+j*t.ndivs+k*t.ndivs*t.ndivs] {
					continue
				}
				ob := t.octantBounds(i, j, k)
				if !locator.BoxIntersectsPlane(ob, origin, normal) {
					continue
				}
				idx := t.leafIndex(i, j, k)
				for _, id := range t.leafCells[idx] {
					if s.Visited(id) {
						continue
					}
					s.MarkVisited(id)
					if locator.BoxIntersectsPlane(cache.Bounds(id), origin, normal) {
						out = append(out, id)
					}
				}
			}
		}
	}
	return out
}
