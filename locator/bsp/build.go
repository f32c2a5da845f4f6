package bsp

import (
	"sort"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
	"github.com/arxos/celltree/pkg/logger"
	"go.uber.org/zap"
)

const maxDepth = 48

func (t *Tree) build() error {
	ds := t.Dataset()
	bounds := ds.Bounds().InflateDegenerateAxes(ds.Length())
	cache, warnings := locator.BuildBoundsCache(ds)

	n := ds.NumCells()
	entries := make([]cellEntry, n)
	for i := 0; i < n; i++ {
		id := locator.CellID(i)
		b := cache.Bounds(id)
		entries[i] = cellEntry{id: id, min: b.Min(), max: b.Max(), center: b.Center()}
	}

	perNode := t.Config.NumberOfCellsPerNode
	if perNode <= 0 {
		perNode = defaultCellsPerNode
	}

	t.bounds = bounds
	t.nodes = make([]Node, 1)
	t.leaves = nil

	type frame struct {
		nodeIdx int
		entries []cellEntry
		box     geom.Bounds
		depth   int
	}
	stack := []frame{{0, entries, bounds, 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.entries) <= perNode || f.depth >= maxDepth {
			t.nodes[f.nodeIdx] = makeLeafNode(t.addLeaf(f.entries))
			continue
		}

		axis := longestAxis(f.box)
		split := medianCenter(f.entries, axis)

		var left, mid, right []cellEntry
		for _, e := range f.entries {
			switch {
			case e.max.Axis(axis) <= split:
				left = append(left, e)
			case e.min.Axis(axis) >= split:
				right = append(right, e)
			default:
				mid = append(mid, e)
			}
		}

		if len(left) == 0 && len(right) == 0 {
			// Every cell straddles the only axis worth splitting on (e.g.
			// many cells sharing near-identical, overlapping bounds): stop
			// here rather than recursing on an identical entry set forever.
			t.nodes[f.nodeIdx] = makeLeafNode(t.addLeaf(f.entries))
			continue
		}

		node := Node{Axis: int8(axis), Split: split, Left: noChild, Mid: noChild, Right: noChild}
		nodeIdx := f.nodeIdx
		t.nodes[nodeIdx] = node

		if len(left) > 0 {
			idx := int32(len(t.nodes))
			t.nodes = append(t.nodes, Node{})
			t.nodes[nodeIdx].Left = idx
			stack = append(stack, frame{int(idx), left, childBox(f.box, axis, split, 0), f.depth + 1})
		}
		if len(mid) > 0 {
			idx := int32(len(t.nodes))
			t.nodes = append(t.nodes, Node{})
			t.nodes[nodeIdx].Mid = idx
			stack = append(stack, frame{int(idx), mid, childBox(f.box, axis, split, 1), f.depth + 1})
		}
		if len(right) > 0 {
			idx := int32(len(t.nodes))
			t.nodes = append(t.nodes, Node{})
			t.nodes[nodeIdx].Right = idx
			stack = append(stack, frame{int(idx), right, childBox(f.box, axis, split, 2), f.depth + 1})
		}
	}

	t.scratch = locator.NewScratchPool(n)
	if len(warnings) > 0 {
		logger.Named("bsp").Warn("degenerate cells indexed conservatively", zap.Int("count", len(warnings)))
	}
	t.Base.MarkBuilt(cache, warnings)
	return nil
}

func longestAxis(b geom.Bounds) int {
	e := b.Extent()
	axis := 0
	best := e.X
	if e.Y > best {
		axis, best = 1, e.Y
	}
	if e.Z > best {
		axis = 2
	}
	return axis
}

// medianCenter returns the position-median cell center along axis,
// guaranteeing a split value that actually lies among the data regardless
// of how entries are distributed.
func medianCenter(entries []cellEntry, axis int) float64 {
	sorted := append([]cellEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].center.Axis(axis) < sorted[j].center.Axis(axis) })
	return sorted[len(sorted)/2].center.Axis(axis)
}

// addLeaf records entries as a new leaf bucket, including its six
// direction-sorted orderings, and returns the leaf's index.
func (t *Tree) addLeaf(entries []cellEntry) int {
	lb := leafBucket{cells: make([]locator.CellID, len(entries))}
	for i, e := range entries {
		lb.cells[i] = e.id
	}

	keys := [6]func(cellEntry) float64{
		dirPlusX:  func(e cellEntry) float64 { return e.min.X },
		dirMinusX: func(e cellEntry) float64 { return -e.max.X },
		dirPlusY:  func(e cellEntry) float64 { return e.min.Y },
		dirMinusY: func(e cellEntry) float64 { return -e.max.Y },
		dirPlusZ:  func(e cellEntry) float64 { return e.min.Z },
		dirMinusZ: func(e cellEntry) float64 { return -e.max.Z },
	}
	for d := 0; d < 6; d++ {
		order := make([]int32, len(entries))
		for i := range order {
			order[i] = int32(i)
		}
		key := keys[d]
		sort.Slice(order, func(i, j int) bool { return key(entries[order[i]]) < key(entries[order[j]]) })
		lb.order[d] = order
	}

	idx := len(t.leaves)
	t.leaves = append(t.leaves, lb)
	return idx
}
