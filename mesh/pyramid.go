package mesh

import (
	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// NewPyramid builds a 5-node pyramid: base quad p0..p3 wound
// counter-clockwise (viewed from the apex), apex p4.
func NewPyramid(pts *PointSet, ids [5]int) Cell {
	return newCell(KindPyramid, pts, ids[:])
}

var pyramidTets = [2][4]int{
	{0, 1, 2, 4},
	{0, 2, 3, 4},
}

var pyramidFaces = [5][4]int{
	{0, 1, 2, 3}, // base
	{0, 1, 4, 4},
	{1, 2, 4, 4},
	{2, 3, 4, 4},
	{3, 0, 4, 4},
}

func pyramidFaceTriangles() [][3]int {
	var tris [][3]int
	for _, f := range pyramidFaces {
		if f[2] == f[3] {
			tris = append(tris, [3]int{f[0], f[1], f[2]})
			continue
		}
		tris = append(tris, [3]int{f[0], f[1], f[2]}, [3]int{f[0], f[2], f[3]})
	}
	return tris
}

func evaluatePyramid(corners []geom.Point, x geom.Point, tol float64) locator.EvaluationResult {
	tets := make([][4]int, len(pyramidTets))
	for i, t := range pyramidTets {
		tets[i] = t
	}
	return evaluateByTetDecomposition(corners, tets, x, tol)
}

func intersectPyramid(corners []geom.Point, p1, p2 geom.Point, tol float64) (locator.LineHit, bool) {
	return intersectFacesWithLine(corners, pyramidFaceTriangles(), p1, p2, tol)
}
