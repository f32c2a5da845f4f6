package mesh

import (
	"math"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// NewPolygon builds a planar n-gon cell, vertices wound consistently
// (CW or CCW); id order is the polygon's winding order.
func NewPolygon(pts *PointSet, ids []int) Cell {
	return newCell(KindPolygon, pts, append([]int{}, ids...))
}

// newellNormal computes a polygon's normal via Newell's method, robust to
// mild non-planarity and to the specific triangulation chosen.
func newellNormal(corners []geom.Point) geom.Point {
	var n geom.Point
	count := len(corners)
	for i := 0; i < count; i++ {
		a := corners[i]
		b := corners[(i+1)%count]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

func centroid(corners []geom.Point) geom.Point {
	var c geom.Point
	for _, p := range corners {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(corners)))
}

func evaluatePolygon(corners []geom.Point, x geom.Point, tol float64) locator.EvaluationResult {
	n := newellNormal(corners)
	norm := math.Sqrt(dot(n, n))
	if norm == 0 {
		return locator.EvaluationResult{Status: locator.Degenerate, Closest: corners[0]}
	}
	n = n.Scale(1 / norm)
	c := centroid(corners)
	dist := dot(x.Sub(c), n)
	proj := x.Sub(n.Scale(dist))

	count := len(corners)
	for i := 1; i < count-1; i++ {
		if _, _, _, ok := pointInTriangle(proj, corners[0], corners[i], corners[i+1], tol); ok {
			if math.Abs(dist) <= tol {
				return locator.EvaluationResult{Status: locator.Inside, Closest: proj, Dist2: dist * dist}
			}
			return locator.EvaluationResult{Status: locator.Outside, Closest: proj, Dist2: dist * dist}
		}
	}
	closest := nearestOnPolygonBoundary(corners, proj)
	return locator.EvaluationResult{Status: locator.Outside, Closest: closest, Dist2: geom.DistanceSquared(x, closest)}
}

func nearestOnPolygonBoundary(corners []geom.Point, p geom.Point) geom.Point {
	best := corners[0]
	bestD := math.Inf(1)
	count := len(corners)
	for i := 0; i < count; i++ {
		a, b := corners[i], corners[(i+1)%count]
		cp := nearestOnSegment(a, b, p)
		if d := geom.DistanceSquared(cp, p); d < bestD {
			bestD = d
			best = cp
		}
	}
	return best
}

func nearestOnSegment(a, b, p geom.Point) geom.Point {
	ab := b.Sub(a)
	denom := dot(ab, ab)
	if denom == 0 {
		return a
	}
	t := dot(p.Sub(a), ab) / denom
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return a.Lerp(b, t)
}

func intersectPolygon(corners []geom.Point, p1, p2 geom.Point, tol float64) (locator.LineHit, bool) {
	n := newellNormal(corners)
	denom := dot(n, p2.Sub(p1))
	if denom > -1e-12 && denom < 1e-12 {
		return locator.LineHit{}, false
	}
	c := centroid(corners)
	t := dot(n, c.Sub(p1)) / denom
	if t < -tol || t > 1+tol {
		return locator.LineHit{}, false
	}
	x := p1.Lerp(p2, t)
	count := len(corners)
	for i := 1; i < count-1; i++ {
		if _, _, _, ok := pointInTriangle(x, corners[0], corners[i], corners[i+1], tol); ok {
			return locator.LineHit{T: t, X: x}, true
		}
	}
	return locator.LineHit{}, false
}
