package mesh

import (
	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// EvaluatePosition dispatches to the per-kind geometry in tetra.go,
// hex.go, wedge.go, pyramid.go, polygon.go, and polyhedron.go.
func (c Cell) EvaluatePosition(x geom.Point) locator.EvaluationResult {
	corners := c.corners()
	switch c.kind {
	case KindTetra:
		return evaluateTetra(corners, x, 1e-6)
	case KindHexahedron:
		return evaluateHexahedron(corners, x, 1e-6)
	case KindWedge:
		return evaluateWedge(corners, x, 1e-6)
	case KindPyramid:
		return evaluatePyramid(corners, x, 1e-6)
	case KindPolygon:
		return evaluatePolygon(corners, x, 1e-6)
	case KindPolyhedron:
		return evaluatePolyhedron(c.pts, c.ids, c.faces, x, 1e-6)
	default:
		return locator.EvaluationResult{Status: locator.Degenerate}
	}
}

// IntersectWithLine dispatches the finite-segment test by cell kind.
func (c Cell) IntersectWithLine(p1, p2 geom.Point, tol float64) (locator.LineHit, bool) {
	corners := c.corners()
	switch c.kind {
	case KindTetra:
		return intersectTetra(corners, p1, p2, tol)
	case KindHexahedron:
		return intersectHexahedron(corners, p1, p2, tol)
	case KindWedge:
		return intersectWedge(corners, p1, p2, tol)
	case KindPyramid:
		return intersectPyramid(corners, p1, p2, tol)
	case KindPolygon:
		return intersectPolygon(corners, p1, p2, tol)
	case KindPolyhedron:
		return intersectPolyhedron(c.pts, c.ids, c.faces, p1, p2, tol)
	default:
		return locator.LineHit{}, false
	}
}
