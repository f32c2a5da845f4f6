package mesh

import (
	"math"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// NewHexahedron builds an 8-node hexahedron: bottom face p0..p3 wound
// counter-clockwise, top face p4..p7 directly above p0..p3.
func NewHexahedron(pts *PointSet, ids [8]int) Cell {
	return newCell(KindHexahedron, pts, ids[:])
}

func hexShape(r, s, t float64) [8]float64 {
	return [8]float64{
		(1 - r) * (1 - s) * (1 - t),
		r * (1 - s) * (1 - t),
		r * s * (1 - t),
		(1 - r) * s * (1 - t),
		(1 - r) * (1 - s) * t,
		r * (1 - s) * t,
		r * s * t,
		(1 - r) * s * t,
	}
}

// hexShapeDeriv returns dN/dr, dN/ds, dN/dt for the eight shape functions.
func hexShapeDeriv(r, s, t float64) (dr, ds, dt [8]float64) {
	dr = [8]float64{
		-(1 - s) * (1 - t), (1 - s) * (1 - t), s * (1 - t), -s * (1 - t),
		-(1 - s) * t, (1 - s) * t, s * t, -s * t,
	}
	ds = [8]float64{
		-(1 - r) * (1 - t), -r * (1 - t), r * (1 - t), (1 - r) * (1 - t),
		-(1 - r) * t, -r * t, r * t, (1 - r) * t,
	}
	dt = [8]float64{
		-(1 - r) * (1 - s), -r * (1 - s), -r * s, -(1 - r) * s,
		(1 - r) * (1 - s), r * (1 - s), r * s, (1 - r) * s,
	}
	return
}

func hexEvaluateAt(corners []geom.Point, r, s, t float64) geom.Point {
	n := hexShape(r, s, t)
	var p geom.Point
	for i := 0; i < 8; i++ {
		p = p.Add(corners[i].Scale(n[i]))
	}
	return p
}

// hexInversePCoords finds (r,s,t) such that the trilinear blend of corners
// equals x, via Newton iteration from the cell center — the standard
// approach for a non-affine hexahedral map.
func hexInversePCoords(corners []geom.Point, x geom.Point) (r, s, t float64, converged bool) {
	r, s, t = 0.5, 0.5, 0.5
	for iter := 0; iter < 20; iter++ {
		cur := hexEvaluateAt(corners, r, s, t)
		f := x.Sub(cur)
		if f.X*f.X+f.Y*f.Y+f.Z*f.Z < 1e-20 {
			return r, s, t, true
		}
		dr, ds, dt := hexShapeDeriv(r, s, t)
		var jCol [3]geom.Point
		for i := 0; i < 8; i++ {
			jCol[0] = jCol[0].Add(corners[i].Scale(dr[i]))
			jCol[1] = jCol[1].Add(corners[i].Scale(ds[i]))
			jCol[2] = jCol[2].Add(corners[i].Scale(dt[i]))
		}
		dR, dS, dT, ok := solve3(jCol[0], jCol[1], jCol[2], f)
		if !ok {
			return r, s, t, false
		}
		r += dR
		s += dS
		t += dT
	}
	cur := hexEvaluateAt(corners, r, s, t)
	return r, s, t, geom.DistanceSquared(cur, x) < 1e-8
}

func evaluateHexahedron(corners []geom.Point, x geom.Point, tol float64) locator.EvaluationResult {
	r, s, t, ok := hexInversePCoords(corners, x)
	if !ok {
		return locator.EvaluationResult{Status: locator.Degenerate, Closest: corners[0]}
	}
	inside := r >= -tol && r <= 1+tol && s >= -tol && s <= 1+tol && t >= -tol && t <= 1+tol
	if inside {
		n := hexShape(r, s, t)
		w := n[:]
		return locator.EvaluationResult{
			Status: locator.Inside, Closest: x,
			PCoords: []float64{r, s, t}, Weights: append([]float64{}, w...), Dist2: 0,
		}
	}
	cr, cs, ct := math.Max(0, math.Min(1, r)), math.Max(0, math.Min(1, s)), math.Max(0, math.Min(1, t))
	closest := hexEvaluateAt(corners, cr, cs, ct)
	n := hexShape(cr, cs, ct)
	return locator.EvaluationResult{
		Status: locator.Outside, Closest: closest,
		PCoords: []float64{r, s, t}, Weights: append([]float64{}, n[:]...),
		Dist2: geom.DistanceSquared(x, closest),
	}
}

var hexFaces = [6][4]int{
	{0, 3, 2, 1}, // bottom, wound outward (normal -z)
	{4, 5, 6, 7}, // top
	{0, 1, 5, 4},
	{1, 2, 6, 5},
	{2, 3, 7, 6},
	{3, 0, 4, 7},
}

func hexFaceTriangles() [][3]int {
	var tris [][3]int
	for _, f := range hexFaces {
		tris = append(tris, [3]int{f[0], f[1], f[2]}, [3]int{f[0], f[2], f[3]})
	}
	return tris
}

func intersectHexahedron(corners []geom.Point, p1, p2 geom.Point, tol float64) (locator.LineHit, bool) {
	return intersectFacesWithLine(corners, hexFaceTriangles(), p1, p2, tol)
}
