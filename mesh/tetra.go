package mesh

import (
	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// NewTetra builds a 4-node tetrahedron cell, corners ordered p0..p3.
func NewTetra(pts *PointSet, ids [4]int) Cell {
	return newCell(KindTetra, pts, ids[:])
}

func tetraBarycentric(corners []geom.Point, x geom.Point) (w []float64, ok bool) {
	p0 := corners[0]
	r, s, t, ok := solve3(corners[1].Sub(p0), corners[2].Sub(p0), corners[3].Sub(p0), x.Sub(p0))
	if !ok {
		return nil, false
	}
	return []float64{1 - r - s - t, r, s, t}, true
}

var tetraFaces = [4][3]int{{0, 1, 2}, {0, 3, 1}, {1, 3, 2}, {0, 2, 3}}

func evaluateTetra(corners []geom.Point, x geom.Point, tol float64) locator.EvaluationResult {
	w, ok := tetraBarycentric(corners, x)
	if !ok {
		return locator.EvaluationResult{Status: locator.Degenerate, Closest: corners[0]}
	}
	inside := true
	for _, wi := range w {
		if wi < -tol || wi > 1+tol {
			inside = false
			break
		}
	}
	if inside {
		return locator.EvaluationResult{Status: locator.Inside, Closest: x, PCoords: w[1:], Weights: w, Dist2: 0}
	}
	cw := clampSimplex(w)
	closest := blend(corners, cw)
	return locator.EvaluationResult{
		Status:  locator.Outside,
		Closest: closest,
		PCoords: w[1:],
		Weights: cw,
		Dist2:   geom.DistanceSquared(x, closest),
	}
}

func intersectFacesWithLine(corners []geom.Point, faces [][3]int, p1, p2 geom.Point, tol float64) (locator.LineHit, bool) {
	best := locator.LineHit{T: 2}
	found := false
	for _, f := range faces {
		t, x, ok := intersectTriangle(p1, p2, corners[f[0]], corners[f[1]], corners[f[2]], tol)
		if !ok {
			continue
		}
		if t < best.T {
			best = locator.LineHit{T: t, X: x}
			found = true
		}
	}
	return best, found
}

func intersectTetra(corners []geom.Point, p1, p2 geom.Point, tol float64) (locator.LineHit, bool) {
	faces := make([][3]int, len(tetraFaces))
	for i, f := range tetraFaces {
		faces[i] = f
	}
	return intersectFacesWithLine(corners, faces, p1, p2, tol)
}
