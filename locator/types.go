// Package locator defines the shared contract every cell locator variant
// (octree, bih, bsp) implements: the Dataset/Cell collaborator interfaces
// consumed from outside the package, the per-cell bounds cache, the common
// build lifecycle, and per-query scratch state. The variant packages own
// construction, traversal, and the four query algorithms; this package owns
// everything they share.
package locator

import "github.com/arxos/celltree/geom"

// CellID identifies a cell within a bound Dataset. NoCell denotes "no cell".
type CellID int64

// NoCell is returned by queries that match nothing.
const NoCell CellID = -1

// EvaluationStatus is the outcome of Cell.EvaluatePosition.
type EvaluationStatus int

const (
	Outside EvaluationStatus = iota
	Inside
	Degenerate
)

// EvaluationResult is the output of testing whether a point lies within a
// cell, including the cell's parametric coordinates and interpolation
// weights when it does.
type EvaluationResult struct {
	Status  EvaluationStatus
	Closest geom.Point // nearest point on/in the cell, valid for Outside too
	SubID   int
	PCoords []float64
	Weights []float64
	Dist2   float64
}

// LineHit is the output of testing a finite segment against a single cell.
type LineHit struct {
	T       float64
	X       geom.Point
	PCoords []float64
	SubID   int
}

// Hit is a located intersection or closest-point result from a locator's
// public query API.
type Hit struct {
	T       float64
	X       geom.Point
	PCoords []float64
	Weights []float64
	SubID   int
	CellID  CellID
	Dist2   float64
}

// Polygons is a debug-only mesh of axis-aligned quad faces, returned by
// GenerateRepresentation. It owns no relationship to the indexed dataset's
// own geometry; it exists purely to visualize the tree structure.
type Polygons struct {
	Points []geom.Point
	Faces  [][]int
}

// AddQuad appends the four corners of a face (in winding order) and
// returns its face index.
func (p *Polygons) AddQuad(a, b, c, d geom.Point) int {
	base := len(p.Points)
	p.Points = append(p.Points, a, b, c, d)
	face := []int{base, base + 1, base + 2, base + 3}
	p.Faces = append(p.Faces, face)
	return len(p.Faces) - 1
}
