package mesh

import (
	"math"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// NewPolyhedron builds a convex polyhedron cell from its face loops, each
// a CW-or-CCW list of point ids; winding need not be consistent across
// faces, since face normals are re-oriented outward from the centroid at
// construction.
func NewPolyhedron(pts *PointSet, ids []int, faces [][]int) Cell {
	c := newCell(KindPolyhedron, pts, append([]int{}, ids...))
	c.faces = make([][]int, len(faces))
	for i, f := range faces {
		c.faces[i] = append([]int{}, f...)
	}
	return c
}

type plane struct {
	point  geom.Point
	normal geom.Point // outward-pointing, not necessarily unit
}

func polyhedronPlanes(pts *PointSet, faces [][]int, bodyCentroid geom.Point) []plane {
	out := make([]plane, 0, len(faces))
	for _, face := range faces {
		corners := make([]geom.Point, len(face))
		for i, id := range face {
			corners[i] = pts.Get(id)
		}
		n := newellNormal(corners)
		c := centroid(corners)
		if dot(n, c.Sub(bodyCentroid)) < 0 {
			n = n.Scale(-1)
		}
		out = append(out, plane{point: c, normal: n})
	}
	return out
}

func polyhedronCentroid(pts *PointSet, ids []int) geom.Point {
	var c geom.Point
	for _, id := range ids {
		c = c.Add(pts.Get(id))
	}
	return c.Scale(1 / float64(len(ids)))
}

// evaluatePolyhedron tests membership by verifying x is on the inward side
// of every face plane (the convex-polyhedron half-space intersection
// a convex solid wants under "fallback" geometry), and otherwise returns
// the nearest point among the per-face nearest points.
func evaluatePolyhedron(pts *PointSet, ids []int, faces [][]int, x geom.Point, tol float64) locator.EvaluationResult {
	bc := polyhedronCentroid(pts, ids)
	planes := polyhedronPlanes(pts, faces, bc)

	inside := true
	worst := math.Inf(-1)
	for _, pl := range planes {
		d := dot(x.Sub(pl.point), pl.normal) / math.Sqrt(dot(pl.normal, pl.normal))
		if d > worst {
			worst = d
		}
		if d > tol {
			inside = false
		}
	}
	if inside {
		return locator.EvaluationResult{Status: locator.Inside, Closest: x, Dist2: 0}
	}

	best := x
	bestDist2 := math.Inf(1)
	for _, face := range faces {
		corners := make([]geom.Point, len(face))
		for i, id := range face {
			corners[i] = pts.Get(id)
		}
		res := evaluatePolygon(corners, x, tol)
		if res.Dist2 < bestDist2 {
			bestDist2 = res.Dist2
			best = res.Closest
		}
	}
	return locator.EvaluationResult{Status: locator.Outside, Closest: best, Dist2: bestDist2}
}

// intersectPolyhedron clips the segment p1->p2 against every face
// half-space (the same Liang-Barsky-style clip as geom.IntersectSegment,
// generalized from axis-aligned planes to arbitrary ones), returning the
// entry point if the clipped interval is non-empty.
func intersectPolyhedron(pts *PointSet, ids []int, faces [][]int, p1, p2 geom.Point, tol float64) (locator.LineHit, bool) {
	bc := polyhedronCentroid(pts, ids)
	planes := polyhedronPlanes(pts, faces, bc)

	t1, t2 := 0.0, 1.0
	dir := p2.Sub(p1)
	for _, pl := range planes {
		d1 := dot(p1.Sub(pl.point), pl.normal)
		d2 := dot(p2.Sub(pl.point), pl.normal)
		if d1 > tol && d2 > tol {
			return locator.LineHit{}, false
		}
		denom := d1 - d2
		if denom == 0 {
			continue
		}
		tClip := d1 / denom
		if d1 > 0 {
			if tClip > t1 {
				t1 = tClip
			}
		} else if d2 > 0 {
			if tClip < t2 {
				t2 = tClip
			}
		}
	}
	if t1 > t2 {
		return locator.LineHit{}, false
	}
	x := p1.Add(dir.Scale(t1))
	return locator.LineHit{T: t1, X: x}, true
}
