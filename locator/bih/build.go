package bih

import (
	"math"
	"sort"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
	"github.com/arxos/celltree/pkg/logger"
	"go.uber.org/zap"
)

const maxDepth = 64

type bucket struct {
	count    int
	min, max float64
}

func (t *Tree[L]) build() error {
	ds := t.Dataset()
	cache, warnings := locator.BuildBoundsCache(ds)

	n := ds.NumCells()
	entries := make([]cellEntry, n)
	rootBounds := geom.EmptyBounds()
	for i := 0; i < n; i++ {
		id := locator.CellID(i)
		b := cache.Bounds(id)
		entries[i] = cellEntry{id: id, min: b.Min(), max: b.Max(), center: b.Center()}
		rootBounds = geom.Union(rootBounds, b)
	}
	t.rootBounds = rootBounds

	perNode := t.Config.NumberOfCellsPerNode
	if perNode <= 0 {
		perNode = defaultCellsPerNode
	}
	numBuckets := t.Config.NumberOfBuckets
	if numBuckets < 2 {
		numBuckets = defaultBuckets
	}

	nodes := make([]Node[L], 1, 2*n+1)

	type frame struct {
		nodeIdx, start, size, depth int
	}
	stack := []frame{{0, 0, n, 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sub := entries[f.start : f.start+f.size]

		if f.size <= perNode || f.depth >= maxDepth {
			nodes[f.nodeIdx] = makeLeaf[L](f.start, f.size)
			continue
		}

		axis, split, ok := chooseBucketSplit(sub, numBuckets)
		if !ok {
			axis, split, ok = chooseFallbackSplit(sub)
			if !ok {
				nodes[f.nodeIdx] = makeLeaf[L](f.start, f.size)
				continue
			}
		}

		mid := partitionByCenter(sub, axis, split)
		if mid == 0 || mid == len(sub) {
			nodes[f.nodeIdx] = makeLeaf[L](f.start, f.size)
			continue
		}

		leftMax := math.Inf(-1)
		for _, e := range sub[:mid] {
			if v := e.max.Axis(axis); v > leftMax {
				leftMax = v
			}
		}
		rightMin := math.Inf(1)
		for _, e := range sub[mid:] {
			if v := e.min.Axis(axis); v < rightMin {
				rightMin = v
			}
		}

		leftIdx := len(nodes)
		nodes = append(nodes, Node[L]{})
		rightIdx := len(nodes)
		nodes = append(nodes, Node[L]{})
		nodes[f.nodeIdx] = Node[L]{Axis: int8(axis), LeftMax: leftMax, RightMin: rightMin, A: L(leftIdx), B: L(rightIdx)}

		stack = append(stack, frame{leftIdx, f.start, mid, f.depth + 1})
		stack = append(stack, frame{rightIdx, f.start + mid, f.size - mid, f.depth + 1})
	}

	perm := make([]L, n)
	for i, e := range entries {
		perm[i] = L(e.id)
	}

	t.nodes = nodes
	t.perm = perm
	t.scratch = locator.NewScratchPool(n)

	if len(warnings) > 0 {
		logger.Named("bih").Warn("degenerate cells indexed conservatively", zap.Int("count", len(warnings)))
	}
	t.Base.MarkBuilt(cache, warnings)
	return nil
}

// chooseBucketSplit implements SAH-like bucket costing: for
// each axis, distribute cell centers into numBuckets histogram bins,
// evaluate every bucket boundary's cost, and return the minimizing
// (axis, split plane).
func chooseBucketSplit(sub []cellEntry, numBuckets int) (axis int, split float64, ok bool) {
	bestCost := math.Inf(1)
	found := false

	for a := 0; a < 3; a++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, e := range sub {
			c := e.center.Axis(a)
			if c < lo {
				lo = c
			}
			if c > hi {
				hi = c
			}
		}
		extent := hi - lo
		if extent <= 0 {
			continue
		}

		buckets := make([]bucket, numBuckets)
		for i := range buckets {
			buckets[i] = bucket{min: math.Inf(1), max: math.Inf(-1)}
		}
		for _, e := range sub {
			c := e.center.Axis(a)
			bi := int((c - lo) / extent * float64(numBuckets))
			if bi < 0 {
				bi = 0
			}
			if bi >= numBuckets {
				bi = numBuckets - 1
			}
			buckets[bi].count++
			if v := e.min.Axis(a); v < buckets[bi].min {
				buckets[bi].min = v
			}
			if v := e.max.Axis(a); v > buckets[bi].max {
				buckets[bi].max = v
			}
		}

		for cut := 0; cut < numBuckets-1; cut++ {
			leftCount, rightCount := 0, 0
			leftMax, rightMin := math.Inf(-1), math.Inf(1)
			for i := 0; i <= cut; i++ {
				leftCount += buckets[i].count
				if buckets[i].count > 0 && buckets[i].max > leftMax {
					leftMax = buckets[i].max
				}
			}
			for i := cut + 1; i < numBuckets; i++ {
				rightCount += buckets[i].count
				if buckets[i].count > 0 && buckets[i].min < rightMin {
					rightMin = buckets[i].min
				}
			}
			if leftCount == 0 || rightCount == 0 {
				continue
			}
			leftRatio := (leftMax - lo) / extent
			rightRatio := (hi - rightMin) / extent
			cost := leftRatio*float64(leftCount) + rightRatio*float64(rightCount)
			if cost < bestCost {
				bestCost = cost
				axis = a
				split = lo + extent*float64(cut+1)/float64(numBuckets)
				found = true
			}
		}
	}
	return axis, split, found
}

// chooseFallbackSplit implements the Open Question's degenerate-input
// fallback: split the longest-extent axis at the position-median cell
// center. chooseBucketSplit fails only when the centers coincide on all
// three axes; the median split then puts every entry on one side, and the
// caller makes the node a leaf.
func chooseFallbackSplit(sub []cellEntry) (axis int, split float64, ok bool) {
	if len(sub) < 2 {
		return 0, 0, false
	}
	bestExtent := -1.0
	for a := 0; a < 3; a++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, e := range sub {
			c := e.center.Axis(a)
			if c < lo {
				lo = c
			}
			if c > hi {
				hi = c
			}
		}
		if hi-lo > bestExtent {
			bestExtent = hi - lo
			axis = a
		}
	}
	sorted := append([]cellEntry(nil), sub...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].center.Axis(axis) < sorted[j].center.Axis(axis) })
	split = sorted[len(sorted)/2].center.Axis(axis)
	return axis, split, true
}

// partitionByCenter reorders sub in place so every entry whose center is
// strictly left of split comes first, using the predicate
// (pc.min[axis]+pc.max[axis])/2 < split — equivalently e.center.Axis(axis)
// since center is defined as the box midpoint.
func partitionByCenter(sub []cellEntry, axis int, split float64) int {
	i := 0
	for j := 0; j < len(sub); j++ {
		if sub[j].center.Axis(axis) < split {
			sub[i], sub[j] = sub[j], sub[i]
			i++
		}
	}
	return i
}
