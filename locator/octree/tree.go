// Package octree implements UniformOctreeLocator (component C4): a full
// octree of uniform depth over the dataset's bounding box, with leaf
// buckets holding cell-id lists and ancestor "non-empty" markers enabling
// empty-subtree pruning in GenerateRepresentation.
package octree

import (
	"math"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

const defaultCellsPerNode = 32

// Tree is a UniformOctreeLocator.
type Tree struct {
	locator.Base

	bounds geom.Bounds // post-inflation dataset bounds the grid covers
	level  int
	ndivs  int
	h      geom.Point // leaf octant size per axis

	leafCells [][]locator.CellID // length ndivs^3, indexed (i + j*ndivs + k*ndivs*ndivs)
	nonEmpty  [][]bool           // nonEmpty[l][octant index at level l]

	scratch *locator.ScratchPool

	// lastCell is an optional single-entry "last successful FindCell"
	// hint. It is NOT safe to read/write from concurrent goroutines; it
	// is only consulted when EnableLastCellHint is set, and callers that
	// query concurrently must leave it disabled.
	lastCell           locator.CellID
	EnableLastCellHint bool
}

// New constructs an unbuilt UniformOctreeLocator with the default leaf
// size (32 cells per node).
func New() *Tree {
	t := &Tree{Base: locator.NewBase(defaultCellsPerNode), lastCell: locator.NoCell}
	return t
}

func (t *Tree) SetDataset(ds locator.Dataset) { t.Base.SetDataset(ds) }

// ShallowCopy aliases other's built structure, dataset binding, and
// bounds cache without rebuilding.
func (t *Tree) ShallowCopy(other locator.Locator) {
	o, ok := other.(*Tree)
	if !ok {
		return
	}
	t.Base.ShallowCopyFrom(&o.Base)
	t.bounds = o.bounds
	t.level = o.level
	t.ndivs = o.ndivs
	t.h = o.h
	t.leafCells = o.leafCells
	t.nonEmpty = o.nonEmpty
	t.scratch = o.scratch
	t.lastCell = locator.NoCell
}

// Build constructs the tree if NeedsRebuild reports true.
func (t *Tree) Build() error {
	if !t.Base.NeedsRebuild() {
		return nil
	}
	return t.ForceBuild()
}

// ForceBuild unconditionally reconstructs the tree.
func (t *Tree) ForceBuild() error {
	if err := t.Base.ValidateForBuild("octree"); err != nil {
		return err
	}
	return t.build()
}

func (t *Tree) FreeSearchStructure() {
	t.Base.FreeSearchStructure()
	t.leafCells = nil
	t.nonEmpty = nil
	t.scratch = nil
	t.lastCell = locator.NoCell
}

// ijkOf converts a point into clamped leaf-grid coordinates.
func (t *Tree) ijkOf(p geom.Point) (int, int, int) {
	i := int(math.Floor((p.X - t.bounds.MinX) / t.h.X))
	j := int(math.Floor((p.Y - t.bounds.MinY) / t.h.Y))
	k := int(math.Floor((p.Z - t.bounds.MinZ) / t.h.Z))
	return clamp(i, t.ndivs), clamp(j, t.ndivs), clamp(k, t.ndivs)
}

func clamp(v, ndivs int) int {
	if v < 0 {
		return 0
	}
	if v >= ndivs {
		return ndivs - 1
	}
	return v
}

func (t *Tree) leafIndex(i, j, k int) int { return i + j*t.ndivs + k*t.ndivs*t.ndivs }

// octantBounds returns the AABB of leaf (i,j,k).
func (t *Tree) octantBounds(i, j, k int) geom.Bounds {
	return geom.Bounds{
		MinX: t.bounds.MinX + float64(i)*t.h.X, MaxX: t.bounds.MinX + float64(i+1)*t.h.X,
		MinY: t.bounds.MinY + float64(j)*t.h.Y, MaxY: t.bounds.MinY + float64(j+1)*t.h.Y,
		MinZ: t.bounds.MinZ + float64(k)*t.h.Z, MaxZ: t.bounds.MinZ + float64(k+1)*t.h.Z,
	}
}

