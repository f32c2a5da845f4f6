package locator

import "github.com/arxos/celltree/geom"

// Dataset is the mesh representation the locator indexes. It is an
// external collaborator: the locator never interprets field data or cell
// geometry beyond what Cell exposes, and never mutates the dataset.
type Dataset interface {
	NumCells() int
	NumPoints() int
	Bounds() geom.Bounds
	Length() float64 // diagonal of Bounds()
	GetPoint(pointID int) geom.Point
	GetCell(cellID CellID) Cell
	// ModificationTime is monotonically non-decreasing; a locator records
	// the value it saw at its last build and skips rebuilding until the
	// value advances past it (or the locator's own settings change).
	ModificationTime() uint64
}

// Cell is a single mesh element. Implementations are polymorphic over cell
// topology (tetrahedron, hexahedron, wedge, pyramid, polyhedron, polygon)
// behind this one capability interface — see package mesh for concrete
// implementations used in tests and the CLI demo.
type Cell interface {
	PointIDs() []int
	// EvaluatePosition tests whether x lies within the cell, returning its
	// parametric coordinates and interpolation weights when it does.
	EvaluatePosition(x geom.Point) EvaluationResult
	// IntersectWithLine tests the finite segment p1->p2 against the cell
	// within tolerance tol.
	IntersectWithLine(p1, p2 geom.Point, tol float64) (LineHit, bool)
}
