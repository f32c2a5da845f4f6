package bih

import (
	"math"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// FindCell descends with overlap: visit left iff
// x[axis] <= LeftMax, visit right iff x[axis] >= RightMin, pushing the
// farther side first when both are needed.
func (t *Tree[L]) FindCell(x geom.Point) (locator.CellID, locator.EvaluationResult, bool) {
	return t.FindCellWithTolerance(x, t.Config.Tolerance)
}

func (t *Tree[L]) FindCellWithTolerance(x geom.Point, tol float64) (locator.CellID, locator.EvaluationResult, bool) {
	if !t.Built() || len(t.nodes) == 0 {
		return locator.NoCell, locator.EvaluationResult{}, false
	}
	if !t.rootBounds.ContainsTol(x, tol) {
		return locator.NoCell, locator.EvaluationResult{}, false
	}

	cache := t.Base.BoundsCache()
	ds := t.Dataset()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[idx]
		if n.isLeaf() {
			for _, l := range t.leafCells(n) {
				id := locator.CellID(l)
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
		visitLeft := p <= n.LeftMax
		visitRight := p >= n.RightMin
		switch {
		case visitLeft && visitRight:
			// Push one side first so the other is expanded first: the
			// side p lies deeper inside wins — left when p is farther
			// from LeftMax than from RightMin, right otherwise.
			if p-n.LeftMax < n.RightMin-p {
				stack = append(stack, int(n.B), int(n.A))
			} else {
				stack = append(stack, int(n.A), int(n.B))
			}
		case visitLeft:
			stack = append(stack, int(n.A))
		case visitRight:
			stack = append(stack, int(n.B))
		}
	}
	return locator.NoCell, locator.EvaluationResult{}, false
}

type bihStackFrame struct {
	idx     int
	tMin, tMax float64
}

// IntersectWithLine descends with ray classification against each node's
// split planes.
func (t *Tree[L]) IntersectWithLine(p1, p2 geom.Point, tol float64) (locator.Hit, bool) {
	if !t.Built() || len(t.nodes) == 0 {
		return locator.Hit{}, false
	}
	t0, t1, _, _, ok := geom.IntersectSegment(t.rootBounds, p1, p2)
	if !ok {
		return locator.Hit{}, false
	}
	dir := p2.Sub(p1)

	cache := t.Base.BoundsCache()
	ds := t.Dataset()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	var best *locator.Hit
	stack := []bihStackFrame{{0, t0, t1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if best != nil && f.tMin > best.T {
			continue
		}
		n := t.nodes[f.idx]
		if n.isLeaf() {
			for _, l := range t.leafCells(n) {
				id := locator.CellID(l)
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
				if best == nil || lh.T < best.T {
					h := locator.Hit{T: lh.T, X: lh.X, PCoords: lh.PCoords, SubID: lh.SubID, CellID: id}
					best = &h
				}
			}
			continue
		}

		origin := p1.Axis(int(n.Axis))
		d := dir.Axis(int(n.Axis))

		var tl, tr float64
		if d != 0 {
			tl = (n.LeftMax - origin) / d
			tr = (n.RightMin - origin) / d
		} else {
			tl, tr = math.Inf(1), math.Inf(1)
			if origin <= n.LeftMax {
				tl = math.Inf(1)
			} else {
				tl = math.Inf(-1)
			}
			if origin >= n.RightMin {
				tr = math.Inf(1)
			} else {
				tr = math.Inf(-1)
			}
		}

		nearIsLeft := origin > n.RightMin
		nearIsRight := origin < n.LeftMax
		var nearIdx, farIdx int
		var rDist float64
		switch {
		case nearIsLeft:
			nearIdx, farIdx = int(n.A), int(n.B)
			rDist = tl
		case nearIsRight:
			nearIdx, farIdx = int(n.B), int(n.A)
			rDist = tr
		default:
			// Overlap region: both sides genuinely needed.
			stack = append(stack, bihStackFrame{int(n.A), f.tMin, f.tMax}, bihStackFrame{int(n.B), f.tMin, f.tMax})
			continue
		}

		if rDist > f.tMax || rDist <= 0 {
			stack = append(stack, bihStackFrame{nearIdx, f.tMin, f.tMax})
		} else if rDist < f.tMin {
			stack = append(stack, bihStackFrame{farIdx, f.tMin, f.tMax})
		} else {
			stack = append(stack, bihStackFrame{farIdx, rDist, f.tMax}, bihStackFrame{nearIdx, f.tMin, rDist})
		}
	}
	if best == nil {
		return locator.Hit{}, false
	}
	return *best, true
}

// IntersectWithLineAll collects every intersection, sorted by t.
func (t *Tree[L]) IntersectWithLineAll(p1, p2 geom.Point, tol float64) []locator.Hit {
	if !t.Built() || len(t.nodes) == 0 {
		return nil
	}
	t0, t1, _, _, ok := geom.IntersectSegment(t.rootBounds, p1, p2)
	if !ok {
		return nil
	}

	cache := t.Base.BoundsCache()
	ds := t.Dataset()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	stack := []bihStackFrame{{0, t0, t1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[f.idx]
		if n.isLeaf() {
			for _, l := range t.leafCells(n) {
				id := locator.CellID(l)
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
		stack = append(stack, bihStackFrame{int(n.A), f.tMin, f.tMax}, bihStackFrame{int(n.B), f.tMin, f.tMax})
	}
	out := s.Hits()
	cp := make([]locator.Hit, len(out))
	copy(cp, out)
	return cp
}

// FindClosestPointWithinRadius performs a pruned descent, visiting only
// subtrees whose node box (derived on the fly from the parent box, left
// max, and right min) can contain a closer cell than the current best.
func (t *Tree[L]) FindClosestPointWithinRadius(x geom.Point, radius float64) (locator.Hit, bool) {
	if !t.Built() || len(t.nodes) == 0 {
		return locator.Hit{}, false
	}
	cache := t.Base.BoundsCache()
	ds := t.Dataset()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	bestDist2 := radius * radius
	var best *locator.Hit

	type frame struct {
		idx int
		box geom.Bounds
	}
	stack := []frame{{0, t.rootBounds}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if geom.PointDistanceSquared(f.box, x) >= bestDist2 {
			continue
		}
		n := t.nodes[f.idx]
		if n.isLeaf() {
			for _, l := range t.leafCells(n) {
				id := locator.CellID(l)
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
		leftBox, rightBox := splitBox(f.box, int(n.Axis), n.LeftMax, n.RightMin)
		stack = append(stack, frame{int(n.A), leftBox}, frame{int(n.B), rightBox})
	}
	if best == nil {
		return locator.Hit{}, false
	}
	return *best, true
}

// splitBox derives child boxes from a parent box and a node's split
// planes.
func splitBox(box geom.Bounds, axis int, leftMax, rightMin float64) (left, right geom.Bounds) {
	left, right = box, box
	switch axis {
	case 0:
		left.MaxX = leftMax
		right.MinX = rightMin
	case 1:
		left.MaxY = leftMax
		right.MinY = rightMin
	default:
		left.MaxZ = leftMax
		right.MinZ = rightMin
	}
	return left, right
}

// FindCellsWithinBounds recurses only where the query box overlaps the
// descended node box, testing cells against the query box at leaves.
func (t *Tree[L]) FindCellsWithinBounds(box geom.Bounds) []locator.CellID {
	if !t.Built() || len(t.nodes) == 0 {
		return nil
	}
	cache := t.Base.BoundsCache()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	var out []locator.CellID
	type frame struct {
		idx int
		box geom.Bounds
	}
	stack := []frame{{0, t.rootBounds}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !box.Intersects(f.box) {
			continue
		}
		n := t.nodes[f.idx]
		if n.isLeaf() {
			for _, l := range t.leafCells(n) {
				id := locator.CellID(l)
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
		leftBox, rightBox := splitBox(f.box, int(n.Axis), n.LeftMax, n.RightMin)
		stack = append(stack, frame{int(n.A), leftBox}, frame{int(n.B), rightBox})
	}
	return out
}

// FindCellsAlongLine returns every cell whose cached bounds the segment
// crosses. It visits every node of the tree and tests each cell's cached
// bounds against the segment, without the per-cell geometric test.
func (t *Tree[L]) FindCellsAlongLine(p1, p2 geom.Point, tol float64) []locator.CellID {
	if !t.Built() || len(t.nodes) == 0 {
		return nil
	}
	cache := t.Base.BoundsCache()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	var out []locator.CellID
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[idx]
		if n.isLeaf() {
			for _, l := range t.leafCells(n) {
				id := locator.CellID(l)
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
		stack = append(stack, int(n.A), int(n.B))
	}
	return out
}

// FindCellsAlongPlane scans every leaf, testing cached bounds against the
// plane.
func (t *Tree[L]) FindCellsAlongPlane(origin, normal geom.Point, tol float64) []locator.CellID {
	if !t.Built() || len(t.nodes) == 0 {
		return nil
	}
	cache := t.Base.BoundsCache()
	s := t.scratch.Get()
	defer t.scratch.Put(s)

	var out []locator.CellID
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.nodes[idx]
		if n.isLeaf() {
			for _, l := range t.leafCells(n) {
				id := locator.CellID(l)
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
		stack = append(stack, int(n.A), int(n.B))
	}
	return out
}
