package octree

import (
	"math"

	"github.com/arxos/celltree/locator"
	"github.com/arxos/celltree/pkg/logger"
	"go.uber.org/zap"
)

// maxSafeLevel bounds ndivs^3 so a pathological cellsPerNode=1 on a huge
// dataset can't allocate an unbounded leaf array; it's well above any
// level MaxLevel (default 8) would ever reach in practice.
const maxSafeLevel = 10

func (t *Tree) build() error {
	ds := t.Dataset()
	bounds := ds.Bounds()
	length := ds.Length()
	bounds = bounds.InflateDegenerateAxes(length)

	level := t.Config.Level
	if t.Config.Automatic {
		perNode := t.Config.NumberOfCellsPerNode
		if perNode <= 0 {
			perNode = defaultCellsPerNode
		}
		numCells := ds.NumCells()
		ratio := float64(numCells) / float64(perNode)
		lvl := 1
		if ratio > 1 {
			lvl = int(math.Ceil(math.Log(ratio) / math.Log(8)))
			if lvl < 1 {
				lvl = 1
			}
		}
		level = lvl
	}
	if level > t.Config.MaxLevel {
		level = t.Config.MaxLevel
	}
	if level > maxSafeLevel {
		level = maxSafeLevel
	}
	if level < 0 {
		level = 0
	}

	ndivs := 1 << uint(level)
	extent := bounds.Extent()
	h := extent
	h.X /= float64(ndivs)
	h.Y /= float64(ndivs)
	h.Z /= float64(ndivs)

	leafCells := make([][]locator.CellID, ndivs*ndivs*ndivs)

	t.bounds = bounds
	t.level = level
	t.ndivs = ndivs
	t.h = h

	cache, warnings := locator.BuildBoundsCache(ds)

	numCells := ds.NumCells()
	for c := 0; c < numCells; c++ {
		id := locator.CellID(c)
		cb := cache.Bounds(id)
		iMin, jMin, kMin := t.ijkOf(cb.Min())
		iMax, jMax, kMax := t.ijkOf(cb.Max())
		for i := iMin; i <= iMax; i++ {
			for j := jMin; j <= jMax; j++ {
				for k := kMin; k <= kMax; k++ {
					idx := t.leafIndex(i, j, k)
					leafCells[idx] = append(leafCells[idx], id)
				}
			}
		}
	}
	t.leafCells = leafCells
	t.nonEmpty = computeNonEmpty(leafCells, ndivs, level)
	t.scratch = locator.NewScratchPool(numCells)
	t.lastCell = locator.NoCell

	if len(warnings) > 0 {
		logger.Named("octree").Warn("degenerate cells indexed conservatively",
			zap.Int("count", len(warnings)))
	}

	t.Base.MarkBuilt(cache, warnings)
	return nil
}

// computeNonEmpty builds per-level non-empty markers bottom-up: level L
// (the leaf grid) directly from leafCells, each coarser level l by OR-ing
// its eight children at level l+1.
func computeNonEmpty(leafCells [][]locator.CellID, ndivs, level int) [][]bool {
	levels := make([][]bool, level+1)
	leaf := make([]bool, len(leafCells))
	for i, cells := range leafCells {
		leaf[i] = len(cells) > 0
	}
	levels[level] = leaf

	curDivs := ndivs
	cur := leaf
	for l := level - 1; l >= 0; l-- {
		nextDivs := curDivs / 2
		next := make([]bool, nextDivs*nextDivs*nextDivs)
		for i := 0; i < nextDivs; i++ {
			for j := 0; j < nextDivs; j++ {
				for k := 0; k < nextDivs; k++ {
					any := false
					for di := 0; di < 2 && !any; di++ {
						for dj := 0; dj < 2 && !any; dj++ {
							for dk := 0; dk < 2 && !any; dk++ {
								ci, cj, ck := 2*i+di, 2*j+dj, 2*k+dk
								idx := ci + cj*curDivs + ck*curDivs*curDivs
								if cur[idx] {
									any = true
								}
							}
						}
					}
					next[i+j*nextDivs+k*nextDivs*nextDivs] = any
				}
			}
		}
		levels[l] = next
		cur = next
		curDivs = nextDivs
	}
	return levels
}

// NonEmptyCount reports the number of non-empty leaf octants, used by
// tests asserting empty-subtree pruning.
func (t *Tree) NonEmptyCount() int {
	count := 0
	for _, v := range t.nonEmpty[t.level] {
		if v {
			count++
		}
	}
	return count
}

// Level returns the built tree's depth.
func (t *Tree) Level() int { return t.level }

// NumDivisions returns 2^Level.
func (t *Tree) NumDivisions() int { return t.ndivs }
