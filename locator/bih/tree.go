// Package bih implements BIHCellTreeLocator (component C5): a Bounding
// Interval Hierarchy (Garth-Joy 2010) — a binary tree whose internal nodes
// carry two overlapping split planes (left-max, right-min) along one
// axis, built top-down by SAH-like bucket costing, with every cell living
// in exactly one leaf of a single global permutation array.
package bih

import (
	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

const defaultCellsPerNode = 8
const defaultBuckets = 6

// Label is the integer width used for the tree's node indices and cell-id
// permutation. A real implementation might select label width at build time;
// here it is a build-time Go type parameter instead of a runtime-dispatched
// union, since a dataset's cell count is known before the tree type is
// chosen (see New32/New64).
type Label interface {
	~int32 | ~int64
}

// Node is a BIH tree node. Axis == leafAxis marks a leaf, where A is the
// permutation start index and B is the leaf size; otherwise A and B are
// the left and right child node indices.
type Node[L Label] struct {
	Axis              int8
	LeftMax, RightMin float64
	A, B              L
}

const leafAxis int8 = -1

func makeLeaf[L Label](start, size int) Node[L] {
	return Node[L]{Axis: leafAxis, A: L(start), B: L(size)}
}

func (n Node[L]) isLeaf() bool { return n.Axis == leafAxis }

// Tree is a BIHCellTreeLocator parameterized by cell-id label width.
type Tree[L Label] struct {
	locator.Base

	nodes      []Node[L]
	perm       []L
	rootBounds geom.Bounds

	scratch *locator.ScratchPool
}

// New32 constructs an unbuilt BIH tree using 32-bit internal labels,
// suitable for datasets with fewer than 2^31 cells.
func New32() *Tree[int32] { return &Tree[int32]{Base: locator.NewBase(defaultCellsPerNode)} }

// New64 constructs an unbuilt BIH tree using 64-bit internal labels.
func New64() *Tree[int64] { return &Tree[int64]{Base: locator.NewBase(defaultCellsPerNode)} }

// labelWidthThreshold is the cell count at which the permutation array and
// node indices must switch from 32- to 64-bit labels to avoid overflow.
const labelWidthThreshold = 1 << 31

// NewForDataset picks the 32- or 64-bit label width once, based on ds's
// cell count, and returns the resulting tree already bound to ds. Label
// width is a Go type parameter rather than a runtime union, so unlike the
// source's packed-index PIMPL this selection happens at construction, not
// inside Build; it is still made exactly once per locator, never mixed
// within a single built tree (see SPEC_FULL.md §9, "Label width").
func NewForDataset(ds locator.Dataset) locator.Locator {
	var l locator.Locator
	if ds != nil && ds.NumCells() >= labelWidthThreshold {
		l = New64()
	} else {
		l = New32()
	}
	l.SetDataset(ds)
	return l
}

func (t *Tree[L]) SetDataset(ds locator.Dataset) { t.Base.SetDataset(ds) }

// ShallowCopy aliases other's built structure without rebuilding.
func (t *Tree[L]) ShallowCopy(other locator.Locator) {
	o, ok := other.(*Tree[L])
	if !ok {
		return
	}
	t.Base.ShallowCopyFrom(&o.Base)
	t.nodes = o.nodes
	t.perm = o.perm
	t.rootBounds = o.rootBounds
	t.scratch = o.scratch
}

// Build constructs the tree if NeedsRebuild reports true.
func (t *Tree[L]) Build() error {
	if !t.Base.NeedsRebuild() {
		return nil
	}
	return t.ForceBuild()
}

// ForceBuild unconditionally reconstructs the tree.
func (t *Tree[L]) ForceBuild() error {
	if err := t.Base.ValidateForBuild("bih"); err != nil {
		return err
	}
	return t.build()
}

func (t *Tree[L]) FreeSearchStructure() {
	t.Base.FreeSearchStructure()
	t.nodes = nil
	t.perm = nil
	t.scratch = nil
}

func (t *Tree[L]) leafCells(n Node[L]) []L {
	start := int(n.A)
	size := int(n.B)
	return t.perm[start : start+size]
}

// cellEntry is a cell's bounds summary used during build; entries are
// reordered in place as the partition algorithm runs, and their final
// order becomes the tree's cell-id permutation.
type cellEntry struct {
	id     locator.CellID
	min    geom.Point
	max    geom.Point
	center geom.Point
}
