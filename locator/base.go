package locator

import (
	"sync/atomic"

	arxerrors "github.com/arxos/celltree/pkg/errors"
)

// clock is a monotonically increasing logical timestamp source, standing
// in for the original's wall-clock modification-time counters — only
// relative ordering between a locator's own edits, its dataset's edits,
// and its last build matters, never real time.
var clock uint64

func tick() uint64 { return atomic.AddUint64(&clock, 1) }

// Config carries the options common to every locator variant
// "Configuration enumeration"). Individual variants expose their own
// setters that forward into the embedded Base's Config, since defaults for
// NumberOfCellsPerNode differ per variant.
type Config struct {
	MaxLevel                   int
	Level                      int
	Automatic                  bool
	NumberOfCellsPerNode       int
	NumberOfBuckets            int
	CacheCellBounds            bool
	UseExistingSearchStructure bool
	Tolerance                  float64
}

// DefaultConfig returns the shared defaults, parameterized only by the
// variant-specific default leaf size (32 for octree/bsp, 8 for bih).
func DefaultConfig(numberOfCellsPerNode int) Config {
	return Config{
		MaxLevel:             8,
		Automatic:            true,
		NumberOfCellsPerNode: numberOfCellsPerNode,
		NumberOfBuckets:      6,
		CacheCellBounds:      true,
		Tolerance:            0.001,
	}
}

// Base is the shared configuration, lifecycle, and dataset-binding state
// every locator variant embeds (component C3). It owns none of the tree
// structure itself — that's the variant's job — only the bookkeeping that
// decides whether a rebuild is needed and the cell-bounds cache every
// variant's early-reject test reads from.
type Base struct {
	Config Config

	dataset Dataset
	cache   *BoundsCache

	built       bool
	buildTime   uint64
	selfModTime uint64
	datasetTime uint64 // dataset's ModificationTime as observed at the last build

	warnings []arxerrors.DegenerateCellWarning
}

// NewBase constructs a Base with the given per-variant default leaf size.
func NewBase(numberOfCellsPerNode int) Base {
	return Base{Config: DefaultConfig(numberOfCellsPerNode), selfModTime: tick()}
}

// SetDataset binds the dataset the locator indexes. Rebuilding is left to
// the caller's next Build()/ForceBuild() call.
func (b *Base) SetDataset(ds Dataset) {
	b.dataset = ds
	b.touch()
}

// Dataset returns the bound dataset, or nil if none is set.
func (b *Base) Dataset() Dataset { return b.dataset }

// SetMaxLevel sets the octree depth bound; ignored by bih/bsp but harmless
// to set on them.
func (b *Base) SetMaxLevel(v int) {
	b.Config.MaxLevel = v
	b.touch()
}

// SetLevel pins an explicit level and disables automatic level derivation.
func (b *Base) SetLevel(v int) {
	b.Config.Level = v
	b.Config.Automatic = false
	b.touch()
}

// SetNumberOfCellsPerNode sets the target leaf size.
func (b *Base) SetNumberOfCellsPerNode(v int) {
	b.Config.NumberOfCellsPerNode = v
	b.touch()
}

// SetNumberOfBuckets sets the BIH SAH bucket count; ignored by octree/bsp.
func (b *Base) SetNumberOfBuckets(v int) {
	b.Config.NumberOfBuckets = v
	b.touch()
}

// SetCacheCellBounds records the CacheCellBounds option. The variants
// build and use the per-cell AABB cache whether or not it is set.
func (b *Base) SetCacheCellBounds(v bool) {
	b.Config.CacheCellBounds = v
	b.touch()
}

// SetUseExistingSearchStructure toggles skipping rebuilds even when the
// dataset's modification timestamp has advanced.
func (b *Base) SetUseExistingSearchStructure(v bool) {
	b.Config.UseExistingSearchStructure = v
	b.touch()
}

// SetTolerance sets the geometric epsilon used by box tests.
func (b *Base) SetTolerance(v float64) {
	b.Config.Tolerance = v
	b.touch()
}

func (b *Base) touch() { b.selfModTime = tick() }

// ValidateForBuild reports a configuration error (component C3 + §7
// ConfigurationError) if the locator cannot be built as configured.
func (b *Base) ValidateForBuild(component string) error {
	if b.dataset == nil {
		return arxerrors.NewConfigurationError(component, "no dataset bound")
	}
	if b.dataset.NumCells() == 0 {
		return arxerrors.NewConfigurationError(component, "dataset has zero cells")
	}
	if b.Config.MaxLevel < 0 {
		return arxerrors.NewConfigurationError(component, "max level must be non-negative")
	}
	if !b.Config.Automatic && b.Config.Level > b.Config.MaxLevel {
		return arxerrors.NewConfigurationError(component, "level exceeds max level")
	}
	return nil
}

// NeedsRebuild reports whether the next Build() call must actually
// reconstruct the tree: skip when the last build postdates the locator's
// own edits and the dataset's modification time has not advanced since
// that build, or when the caller has opted into reusing whatever
// structure already exists.
func (b *Base) NeedsRebuild() bool {
	if !b.built {
		return true
	}
	if b.Config.UseExistingSearchStructure {
		return false
	}
	if b.buildTime <= b.selfModTime {
		return true
	}
	if b.dataset != nil && b.dataset.ModificationTime() > b.datasetTime {
		return true
	}
	return false
}

// MarkBuilt records a successful build, along with any bounds cache and
// degenerate-cell warnings produced along the way.
func (b *Base) MarkBuilt(cache *BoundsCache, warnings []arxerrors.DegenerateCellWarning) {
	b.cache = cache
	b.warnings = warnings
	b.built = true
	b.buildTime = tick()
	if b.dataset != nil {
		b.datasetTime = b.dataset.ModificationTime()
	}
}

// Built reports whether the locator currently has a built structure.
func (b *Base) Built() bool { return b.built }

// FreeSearchStructure releases the owned cache; a shallow copy referencing
// the same cache by pointer is unaffected (Go's GC keeps it alive as long
// as that copy holds the pointer).
func (b *Base) FreeSearchStructure() {
	b.built = false
	b.cache = nil
}

// BoundsCache returns the built cell-bounds cache, or nil if unbuilt. Every
// build creates the cache; CacheCellBounds does not turn it off.
func (b *Base) BoundsCache() *BoundsCache { return b.cache }

// Warnings returns the degenerate-cell warnings from the last build.
func (b *Base) Warnings() []arxerrors.DegenerateCellWarning { return b.warnings }

// ShallowCopyFrom aliases another Base's dataset binding, cache, and build
// state without rebuilding. The copy
// gets its own selfModTime so subsequent config changes to either locator
// don't cross-contaminate rebuild decisions.
func (b *Base) ShallowCopyFrom(other *Base) {
	b.Config = other.Config
	b.dataset = other.dataset
	b.cache = other.cache
	b.built = other.built
	b.buildTime = other.buildTime
	b.datasetTime = other.datasetTime
	b.warnings = other.warnings
	b.selfModTime = tick()
}
