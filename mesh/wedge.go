package mesh

import (
	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// NewWedge builds a 6-node triangular-prism cell: bottom triangle p0,p1,p2
// wound counter-clockwise, top triangle p3,p4,p5 directly above.
func NewWedge(pts *PointSet, ids [6]int) Cell {
	return newCell(KindWedge, pts, ids[:])
}

// wedgeTets triangulates the prism into three tetrahedra sharing the
// diagonal through vertex 2 and vertex 3, a standard prism decomposition.
var wedgeTets = [3][4]int{
	{0, 1, 2, 3},
	{1, 2, 3, 4},
	{2, 3, 4, 5},
}

var wedgeFaces = [5][4]int{
	{0, 1, 2, 2}, // bottom triangle (degenerate quad: last two ids equal)
	{3, 4, 5, 5}, // top triangle
	{0, 1, 4, 3},
	{1, 2, 5, 4},
	{2, 0, 3, 5},
}

func wedgeFaceTriangles() [][3]int {
	var tris [][3]int
	for _, f := range wedgeFaces {
		if f[2] == f[3] {
			tris = append(tris, [3]int{f[0], f[1], f[2]})
			continue
		}
		tris = append(tris, [3]int{f[0], f[1], f[2]}, [3]int{f[0], f[2], f[3]})
	}
	return tris
}

func evaluateByTetDecomposition(corners []geom.Point, tets [][4]int, x geom.Point, tol float64) locator.EvaluationResult {
	bestDist2 := -1.0
	var bestClosest geom.Point
	var bestPCoords, bestWeights []float64
	for _, tet := range tets {
		tc := []geom.Point{corners[tet[0]], corners[tet[1]], corners[tet[2]], corners[tet[3]]}
		res := evaluateTetra(tc, x, tol)
		if res.Status == locator.Inside {
			return res
		}
		if bestDist2 < 0 || res.Dist2 < bestDist2 {
			bestDist2 = res.Dist2
			bestClosest = res.Closest
			bestPCoords = res.PCoords
			bestWeights = res.Weights
		}
	}
	return locator.EvaluationResult{Status: locator.Outside, Closest: bestClosest, PCoords: bestPCoords, Weights: bestWeights, Dist2: bestDist2}
}

func evaluateWedge(corners []geom.Point, x geom.Point, tol float64) locator.EvaluationResult {
	tets := make([][4]int, len(wedgeTets))
	for i, t := range wedgeTets {
		tets[i] = t
	}
	return evaluateByTetDecomposition(corners, tets, x, tol)
}

func intersectWedge(corners []geom.Point, p1, p2 geom.Point, tol float64) (locator.LineHit, bool) {
	return intersectFacesWithLine(corners, wedgeFaceTriangles(), p1, p2, tol)
}
