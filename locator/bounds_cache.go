package locator

import (
	"github.com/arxos/celltree/geom"
	arxerrors "github.com/arxos/celltree/pkg/errors"
)

// BoundsCache is the per-cell AABB cache (component C2). It is built once
// per locator Build() and shared by pointer across ShallowCopy — Go's
// garbage collector already gives us the "reference-counted, immutable
// after publish" lifetime the original's shared_ptr scheme existed to
// provide, so there is no manual refcount here.
type BoundsCache struct {
	bounds []geom.Bounds
}

// BuildBoundsCache iterates every cell in ds, computing its AABB from its
// point ids. A cell with an empty point list produces an empty AABB;
// rather than reject it, it is recorded as a DegenerateCellWarning and
// kept indexed at a point-sized box at the dataset center. A cell whose
// points all coincide already has a point-sized, non-empty AABB and is
// indexed as-is, without a warning.
func BuildBoundsCache(ds Dataset) (*BoundsCache, []arxerrors.DegenerateCellWarning) {
	n := ds.NumCells()
	cache := &BoundsCache{bounds: make([]geom.Bounds, n)}
	var warnings []arxerrors.DegenerateCellWarning

	for i := 0; i < n; i++ {
		id := CellID(i)
		cell := ds.GetCell(id)
		pts := cell.PointIDs()

		b := geom.EmptyBounds()
		for _, pid := range pts {
			b = b.ExpandToPoint(ds.GetPoint(pid))
		}

		if b.IsEmpty() {
			var anchor geom.Point
			if len(pts) > 0 {
				anchor = ds.GetPoint(pts[0])
			} else {
				anchor = ds.Bounds().Center()
			}
			b = geom.Bounds{
				MinX: anchor.X, MaxX: anchor.X,
				MinY: anchor.Y, MaxY: anchor.Y,
				MinZ: anchor.Z, MaxZ: anchor.Z,
			}
			warnings = append(warnings, arxerrors.DegenerateCellWarning{
				CellID:  int64(id),
				Message: "cell has empty or inverted bounds; indexed as point-sized",
			})
		}

		cache.bounds[i] = b
	}

	return cache, warnings
}

// Bounds returns the cached AABB for cellID.
func (c *BoundsCache) Bounds(cellID CellID) geom.Bounds {
	return c.bounds[cellID]
}

// ContainsTol is the early-reject slab test used before the expensive
// Cell.EvaluatePosition call.
func (c *BoundsCache) ContainsTol(x geom.Point, cellID CellID, tol float64) bool {
	return c.bounds[cellID].ContainsTol(x, tol)
}

// Len returns the number of cached cells.
func (c *BoundsCache) Len() int { return len(c.bounds) }
