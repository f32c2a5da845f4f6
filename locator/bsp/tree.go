// Package bsp implements BSPCellTreeLocator (component C6): a binary
// space partition over the dataset's bounding box where, unlike a kd-tree,
// a cell that straddles a node's split plane is not forced into either
// child — it is filed into a third "middle" child that shares the node's
// full box along the split axis. Every leaf additionally keeps its cell
// list pre-sorted six ways (one ascending order per signed axis
// direction), so a ray's leaf scan can stop early once no remaining
// candidate can beat the current best hit.
package bsp

import (
	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

const defaultCellsPerNode = 32
const leafAxis int8 = -1
const noChild int32 = -1

// dirPlusX .. dirMinusZ index a leaf's six direction-sorted cell orders.
const (
	dirPlusX = iota
	dirMinusX
	dirPlusY
	dirMinusY
	dirPlusZ
	dirMinusZ
)

// Node is a BSP tree node. Axis == leafAxis marks a leaf, where Left is
// reused as the index into Tree.leaves; otherwise Left/Mid/Right are child
// node indices, or noChild if that branch holds no cells.
type Node struct {
	Axis             int8
	Split            float64
	Left, Mid, Right int32
}

func (n Node) isLeaf() bool { return n.Axis == leafAxis }

func makeLeafNode(leafIdx int) Node {
	return Node{Axis: leafAxis, Left: int32(leafIdx), Mid: noChild, Right: noChild}
}

// leafBucket is a tree leaf: its cell ids, plus six permutations of the
// same indices sorted by near-face coordinate along each signed axis
// direction.
type leafBucket struct {
	cells []locator.CellID
	order [6][]int32
}

// Tree is a BSPCellTreeLocator.
type Tree struct {
	locator.Base

	bounds geom.Bounds
	nodes  []Node
	leaves []leafBucket

	scratch *locator.ScratchPool
}

// New constructs an unbuilt BSPCellTreeLocator with the default leaf size
// (32 cells per node).
func New() *Tree {
	return &Tree{Base: locator.NewBase(defaultCellsPerNode)}
}

func (t *Tree) SetDataset(ds locator.Dataset) { t.Base.SetDataset(ds) }

// ShallowCopy aliases other's built structure without rebuilding.
func (t *Tree) ShallowCopy(other locator.Locator) {
	o, ok := other.(*Tree)
	if !ok {
		return
	}
	t.Base.ShallowCopyFrom(&o.Base)
	t.bounds = o.bounds
	t.nodes = o.nodes
	t.leaves = o.leaves
	t.scratch = o.scratch
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
	if err := t.Base.ValidateForBuild("bsp"); err != nil {
		return err
	}
	return t.build()
}

func (t *Tree) FreeSearchStructure() {
	t.Base.FreeSearchStructure()
	t.nodes = nil
	t.leaves = nil
	t.scratch = nil
}

// cellEntry is a cell's bounds summary used only during build.
type cellEntry struct {
	id       locator.CellID
	min, max geom.Point
	center   geom.Point
}

// childBox derives a child node's box from its parent's, per the node's
// split axis: Left is clipped to the upper face at split, Right to the
// lower face, and Mid is left unchanged since straddling cells may extend
// across the entire parent extent on this axis.
func childBox(box geom.Bounds, axis int, split float64, which int8) geom.Bounds {
	switch which {
	case 0: // left
		switch axis {
		case 0:
			box.MaxX = split
		case 1:
			box.MaxY = split
		default:
			box.MaxZ = split
		}
	case 2: // right
		switch axis {
		case 0:
			box.MinX = split
		case 1:
			box.MinY = split
		default:
			box.MinZ = split
		}
	}
	return box
}
