package bsp

import (
	"sort"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// FindCell descends by comparing x against each node's split: a point at
// or below the split can only be in Left or Mid, a point above only in
// Right or Mid — Mid is always a candidate since its cells straddle the
// plane in either direction.
func (t *Tree) FindCell(x geom.Point) (locator.CellID, locator.EvaluationResult, bool) {
	return t.FindCellWithTolerance(x, t.Config.Tolerance)
}

func (t *Tree) FindCellWithTolerance(x geom.Point, tol float64) (locator.CellID, locator.EvaluationResult, bool) {
	if !t.Built() || len(t.nodes) == 0 {
		return locator.NoCell, locator.EvaluationResult{}, false
	}
	if !t.bounds.ContainsTol(x, tol) {
		return locator.NoCell, locator.EvaluationResult{}, false
	}

	cache := t.Base.BoundsCache()
	ds := t.Dataset()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	stack := []int32{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[idx]
		if n.isLeaf() {
			for _, id := range t.leaves[n.Left].cells {
				if s.Visited(id) {
					continue
				}
				s.MarkVisited(id)
				if !cache.ContainsTol(x, id, tol) {
					continue
				}
				res := ds.GetCell(id).EvaluatePosition(x)
				if res.Status == locator.Inside {
					return id, res, true
				}
			}
			continue
		}
		p := x.Axis(int(n.Axis))
		if p <= n.Split && n.Left != noChild {
			stack = append(stack, n.Left)
		}
		if n.Mid != noChild {
			stack = append(stack, n.Mid)
		}
		if p > n.Split && n.Right != noChild {
			stack = append(stack, n.Right)
		}
	}
	return locator.NoCell, locator.EvaluationResult{}, false
}

type bspFrame struct {
	idx        int32
	tMin, tMax float64
}

// descendOrdered clips a ray against a node's three children boxes and
// returns the overlapping ones sorted by ascending tMin, so the caller can
// push them in reverse (nearest pops first) and prune once a hit is found
// whose t already precedes a farther child's entry.
func descendOrdered(n Node, box geom.Bounds, axis int, p1, p2 geom.Point) []bspFrame {
	var out []bspFrame
	consider := func(childIdx int32, which int8) {
		if childIdx == noChild {
			return
		}
		cb := childBox(box, axis, n.Split, which)
		t0, t1, _, _, ok := geom.IntersectSegment(cb, p1, p2)
		if !ok {
			return
		}
		out = append(out, bspFrame{childIdx, t0, t1})
	}
	consider(n.Left, 0)
	consider(n.Mid, 1)
	consider(n.Right, 2)
	sort.Slice(out, func(i, j int) bool { return out[i].tMin < out[j].tMin })
	return out
}

type bspNodeBox struct {
	idx int32
	box geom.Bounds
}

// IntersectWithLine descends the tree visiting the nearer of each node's
// overlapping children first, pruning any child whose entry parameter
// already exceeds the best hit found so far.
func (t *Tree) IntersectWithLine(p1, p2 geom.Point, tol float64) (locator.Hit, bool) {
	if !t.Built() || len(t.nodes) == 0 {
		return locator.Hit{}, false
	}
	t0, t1, _, _, ok := geom.IntersectSegment(t.bounds, p1, p2)
	if !ok {
		return locator.Hit{}, false
	}
	dir := p2.Sub(p1)

	cache := t.Base.BoundsCache()
	ds := t.Dataset()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	var best *locator.Hit
	type boxFrame struct {
		idx        int32
		box        geom.Bounds
		tMin, tMax float64
	}
	stack := []boxFrame{{0, t.bounds, t0, t1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if best != nil && f.tMin > best.T {
			continue
		}
		n := t.nodes[f.idx]
		if n.isLeaf() {
			if h, ok := t.scanLeaf(n.Left, p1, p2, dir, tol, best, cache, ds, s); ok {
				best = &h
			}
			continue
		}
		children := descendOrdered(n, f.box, int(n.Axis), p1, p2)
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			var which int8
			switch c.idx {
			case n.Left:
				which = 0
			case n.Mid:
				which = 1
			default:
				which = 2
			}
			stack = append(stack, boxFrame{c.idx, childBox(f.box, int(n.Axis), n.Split, which), c.tMin, c.tMax})
		}
	}
	if best == nil {
		return locator.Hit{}, false
	}
	return *best, true
}

// scanLeaf tests a leaf's cells against the segment, using the leaf's
// direction-sorted order matching the ray's dominant axis to stop early
// once no remaining candidate can beat best.
func (t *Tree) scanLeaf(leafIdx int32, p1, p2, dir geom.Point, tol float64, best *locator.Hit,
	cache *locator.BoundsCache, ds locator.Dataset, s *locator.Scratch) (locator.Hit, bool) {
	lb := t.leaves[leafIdx]

	axis := 0
	if absf(dir.Axis(1)) > absf(dir.Axis(axis)) {
		axis = 1
	}
	if absf(dir.Axis(2)) > absf(dir.Axis(axis)) {
		axis = 2
	}
	d := dir.Axis(axis)
	dirIdx := 2 * axis
	if d < 0 {
		dirIdx++
	}
	order := lb.order[dirIdx]

	origin := p1.Axis(axis)
	found := false
	var result locator.Hit
	if best != nil {
		result = *best
		found = true
	}

	for _, oi := range order {
		id := lb.cells[oi]
		cb := cache.Bounds(id)
		var nearCoord float64
		if d >= 0 {
			nearCoord = cb.Min().Axis(axis)
		} else {
			nearCoord = cb.Max().Axis(axis)
		}
		if d != 0 {
			tBound := (nearCoord - origin) / d
			if found && tBound > result.T {
				break
			}
		}

		if s.Visited(id) {
			continue
		}
		s.MarkVisited(id)
		if _, _, _, _, ok := geom.IntersectSegment(cb, p1, p2); !ok {
			continue
		}
		lh, hit := ds.GetCell(id).IntersectWithLine(p1, p2, tol)
		if !hit {
			continue
		}
		if !found || lh.T < result.T {
			result = locator.Hit{T: lh.T, X: lh.X, PCoords: lh.PCoords, SubID: lh.SubID, CellID: id}
			found = true
		}
	}
	return result, found
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// IntersectWithLineAll collects every intersection, sorted by t.
func (t *Tree) IntersectWithLineAll(p1, p2 geom.Point, tol float64) []locator.Hit {
	if !t.Built() || len(t.nodes) == 0 {
		return nil
	}
	t0, t1, _, _, ok := geom.IntersectSegment(t.bounds, p1, p2)
	if !ok {
		return nil
	}

	cache := t.Base.BoundsCache()
	ds := t.Dataset()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	type boxFrame struct {
		idx        int32
		box        geom.Bounds
		tMin, tMax float64
	}
	stack := []boxFrame{{0, t.bounds, t0, t1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[f.idx]
		if n.isLeaf() {
			lb := t.leaves[n.Left]
			for _, id := range lb.cells {
				if s.Visited(id) {
					continue
				}
				s.MarkVisited(id)
				cb := cache.Bounds(id)
				if _, _, _, _, ok := geom.IntersectSegment(cb, p1, p2); !ok {
					continue
				}
				lh, hit := ds.GetCell(id).IntersectWithLine(p1, p2, tol)
				if !hit {
					continue
				}
				s.AddHit(locator.Hit{T: lh.T, X: lh.X, PCoords: lh.PCoords, SubID: lh.SubID, CellID: id})
			}
			continue
		}
		for _, c := range descendOrdered(n, f.box, int(n.Axis), p1, p2) {
			var which int8
			switch c.idx {
			case n.Left:
				which = 0
			case n.Mid:
				which = 1
			default:
				which = 2
			}
			stack = append(stack, boxFrame{c.idx, childBox(f.box, int(n.Axis), n.Split, which), c.tMin, c.tMax})
		}
	}
	out := s.Hits()
	cp := make([]locator.Hit, len(out))
	copy(cp, out)
	return cp
}

// FindClosestPointWithinRadius performs a pruned descent using each node's
// derived box.
func (t *Tree) FindClosestPointWithinRadius(x geom.Point, radius float64) (locator.Hit, bool) {
	if !t.Built() || len(t.nodes) == 0 {
		return locator.Hit{}, false
	}
	cache := t.Base.BoundsCache()
	ds := t.Dataset()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	bestDist2 := radius * radius
	var best *locator.Hit

	stack := []bspNodeBox{{0, t.bounds}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if geom.PointDistanceSquared(f.box, x) >= bestDist2 {
			continue
		}
		n := t.nodes[f.idx]
		if n.isLeaf() {
			for _, id := range t.leaves[n.Left].cells {
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
			continue
		}
		axis := int(n.Axis)
		if n.Left != noChild {
			stack = append(stack, bspNodeBox{n.Left, childBox(f.box, axis, n.Split, 0)})
		}
		if n.Mid != noChild {
			stack = append(stack, bspNodeBox{n.Mid, childBox(f.box, axis, n.Split, 1)})
		}
		if n.Right != noChild {
			stack = append(stack, bspNodeBox{n.Right, childBox(f.box, axis, n.Split, 2)})
		}
	}
	if best == nil {
		return locator.Hit{}, false
	}
	return *best, true
}

// FindCellsWithinBounds recurses into every child whose derived box
// overlaps the query box.
func (t *Tree) FindCellsWithinBounds(box geom.Bounds) []locator.CellID {
	if !t.Built() || len(t.nodes) == 0 {
		return nil
	}
	cache := t.Base.BoundsCache()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	var out []locator.CellID
	stack := []bspNodeBox{{0, t.bounds}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !box.Intersects(f.box) {
			continue
		}
		n := t.nodes[f.idx]
		if n.isLeaf() {
			for _, id := range t.leaves[n.Left].cells {
				if s.Visited(id) {
					continue
				}
				s.MarkVisited(id)
				if cache.Bounds(id).Intersects(box) {
					out = append(out, id)
				}
			}
			continue
		}
		axis := int(n.Axis)
		if n.Left != noChild {
			stack = append(stack, bspNodeBox{n.Left, childBox(f.box, axis, n.Split, 0)})
		}
		if n.Mid != noChild {
			stack = append(stack, bspNodeBox{n.Mid, childBox(f.box, axis, n.Split, 1)})
		}
		if n.Right != noChild {
			stack = append(stack, bspNodeBox{n.Right, childBox(f.box, axis, n.Split, 2)})
		}
	}
	return out
}

// FindCellsAlongLine returns every cell whose cached bounds the segment
// crosses.
func (t *Tree) FindCellsAlongLine(p1, p2 geom.Point, tol float64) []locator.CellID {
	if !t.Built() || len(t.nodes) == 0 {
		return nil
	}
	cache := t.Base.BoundsCache()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	var out []locator.CellID
	stack := []int32{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[idx]
		if n.isLeaf() {
			for _, id := range t.leaves[n.Left].cells {
				if s.Visited(id) {
					continue
				}
				s.MarkVisited(id)
				if _, _, _, _, ok := geom.IntersectSegment(cache.Bounds(id), p1, p2); ok {
					out = append(out, id)
				}
			}
			continue
		}
		for _, c := range []int32{n.Left, n.Mid, n.Right} {
			if c != noChild {
				stack = append(stack, c)
			}
		}
	}
	return out
}

// FindCellsAlongPlane scans every leaf, testing cached bounds against the
// plane.
func (t *Tree) FindCellsAlongPlane(origin, normal geom.Point, tol float64) []locator.CellID {
	if !t.Built() || len(t.nodes) == 0 {
		return nil
	}
	cache := t.Base.BoundsCache()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	var out []locator.CellID
	stack := []int32{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[idx]
		if n.isLeaf() {
			for _, id := range t.leaves[n.Left].cells {
				if s.Visited(id) {
					continue
				}
				s.MarkVisited(id)
				if locator.BoxIntersectsPlane(cache.Bounds(id), origin, normal) {
					out = append(out, id)
				}
			}
			continue
		}
		for _, c := range []int32{n.Left, n.Mid, n.Right} {
			if c != noChild {
				stack = append(stack, c)
			}
		}
	}
	return out
}
