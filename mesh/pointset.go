// Package mesh is the in-memory Dataset/Cell implementation the locator
// packages are tested against and that cmd/celltree loads from YAML. It
// satisfies locator.Dataset and locator.Cell but is not itself part of the
// index: cell geometry and the mesh representation are
// external collaborators to the locator core.
package mesh

import "github.com/arxos/celltree/geom"

// PointSet is a flat, append-only array of points shared by every cell in
// a Dataset.
type PointSet struct {
	points []geom.Point
}

// Add appends p and returns its point id.
func (ps *PointSet) Add(p geom.Point) int {
	ps.points = append(ps.points, p)
	return len(ps.points) - 1
}

// Get returns the point at id.
func (ps *PointSet) Get(id int) geom.Point { return ps.points[id] }

// Len returns the number of points.
func (ps *PointSet) Len() int { return len(ps.points) }
