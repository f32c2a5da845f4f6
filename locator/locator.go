package locator

import (
	"github.com/arxos/celltree/geom"
	arxerrors "github.com/arxos/celltree/pkg/errors"
)

// Locator is the public contract every index variant (octree, bih, bsp)
// implements. QueryDispatch (this package's Scratch/ScratchPool) backs
// each variant's descent; this interface is what callers outside the
// locator tree — the mesh package's Dataset consumers, cmd/celltree —
// program against.
type Locator interface {
	// SetDataset binds the dataset to index. Does not rebuild.
	SetDataset(ds Dataset)

	// Build constructs the index if needed (see Base.NeedsRebuild);
	// returns a ConfigurationError or internal-invariant error on failure.
	Build() error
	// ForceBuild unconditionally reconstructs the index.
	ForceBuild() error
	// FreeSearchStructure releases the built index; Build must be called
	// again before queries succeed.
	FreeSearchStructure()

	// FindCell returns the cell containing x, or NoCell.
	FindCell(x geom.Point) (CellID, EvaluationResult, bool)
	// FindCellWithTolerance is FindCell with an explicit tolerance applied
	// to the cell-bounds early reject, instead of the locator's configured
	// tolerance.
	FindCellWithTolerance(x geom.Point, tol float64) (CellID, EvaluationResult, bool)

	// IntersectWithLine returns the nearest intersection of the finite
	// segment p1->p2 with any cell.
	IntersectWithLine(p1, p2 geom.Point, tol float64) (Hit, bool)
	// IntersectWithLineAll returns every intersection, sorted by
	// ascending t (ties broken by ascending cell id).
	IntersectWithLineAll(p1, p2 geom.Point, tol float64) []Hit

	// FindClosestPointWithinRadius returns the cell whose surface is
	// nearest to x, provided that distance does not exceed radius.
	FindClosestPointWithinRadius(x geom.Point, radius float64) (Hit, bool)

	// FindCellsWithinBounds returns candidate cells for the query box. bih
	// and bsp return exactly the cells whose cached AABB overlaps it; the
	// octree returns every cell in the leaf octants the box covers (clamped
	// to the grid), which can include cells whose AABB does not overlap it.
	FindCellsWithinBounds(box geom.Bounds) []CellID
	// FindCellsAlongLine returns every cell whose cached AABB is crossed
	// by the finite segment p1->p2.
	FindCellsAlongLine(p1, p2 geom.Point, tol float64) []CellID
	// FindCellsAlongPlane returns every cell whose cached AABB crosses the
	// infinite plane through origin with the given normal.
	FindCellsAlongPlane(origin, normal geom.Point, tol float64) []CellID

	// GenerateRepresentation emits a debug-only quad mesh of the index
	// structure at the given level.
	GenerateRepresentation(level int) Polygons

	// ShallowCopy aliases another locator's built index and dataset
	// binding, without rebuilding.
	ShallowCopy(other Locator)
}

// Configurable is satisfied by every Locator through its embedded Base
// (§6's "Configuration enumeration" setters); it is split out from Locator
// so callers that only need to read/write options — cmd/celltree's config
// loader, in particular — don't have to downcast to a concrete variant
// type to reach them.
type Configurable interface {
	SetMaxLevel(v int)
	SetLevel(v int)
	SetNumberOfCellsPerNode(v int)
	SetNumberOfBuckets(v int)
	SetCacheCellBounds(v bool)
	SetUseExistingSearchStructure(v bool)
	SetTolerance(v float64)
}

// Diagnostics is satisfied by every Locator through its embedded Base: the
// build-time facts §7's error-handling design says never abort a build —
// whether a structure currently exists and the degenerate-cell warnings
// collected along the way.
type Diagnostics interface {
	Built() bool
	Warnings() []arxerrors.DegenerateCellWarning
	// NeedsRebuild reports whether the next Build() call will actually
	// reconstruct the tree (see Base.NeedsRebuild).
	NeedsRebuild() bool
}
