package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arxos/celltree/locator"
	"github.com/arxos/celltree/locator/bih"
	"github.com/arxos/celltree/locator/bsp"
	"github.com/arxos/celltree/locator/octree"
	"github.com/arxos/celltree/mesh"
	"github.com/arxos/celltree/pkg/logger"
)

// newVariant constructs the unbuilt locator named by variant ("octree",
// "bih", or "bsp"). BIH's label width is resolved against ds's cell count
// via bih.NewForDataset (see locator/bih/tree.go).
func newVariant(name string, ds *mesh.Dataset) (locator.Locator, error) {
	switch name {
	case "octree":
		l := octree.New()
		l.SetDataset(ds)
		return l, nil
	case "bih":
		return bih.NewForDataset(ds), nil
	case "bsp":
		l := bsp.New()
		l.SetDataset(ds)
		return l, nil
	default:
		return nil, fmt.Errorf("unknown variant %q (want octree, bih, or bsp)", name)
	}
}

// session is the mesh, configured locator, and build outcome shared by
// the build/query/watch subcommands.
type session struct {
	dataset *mesh.Dataset
	loc     locator.Locator
	genID   uuid.UUID
	elapsed time.Duration
}

// newSession loads the mesh, constructs and configures the requested
// variant, and runs its initial build through rebuild, which is the one
// place google/uuid.New is called (see SPEC_FULL.md §10, "Build
// identity") so every build this process performs gets a distinct
// correlation id for its log lines.
func newSession() (*session, error) {
	if err := requireMeshPath(); err != nil {
		return nil, err
	}
	ds, err := mesh.LoadYAML(meshPath)
	if err != nil {
		return nil, err
	}

	loc, err := newVariant(variant, ds)
	if err != nil {
		return nil, err
	}

	cfg, err := loadLocatorConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Apply(loc)

	s := &session{dataset: ds, loc: loc}
	if err := s.rebuild(true); err != nil {
		return nil, err
	}
	return s, nil
}

// rebuild runs Build() (or ForceBuild() when force is set), stamping a
// fresh build-generation id and logging timing and degenerate-cell counts
// the way pkg/logger's build/query diagnostics are meant to be used.
func (s *session) rebuild(force bool) error {
	diag, hasDiag := s.loc.(locator.Diagnostics)
	if !force && hasDiag && !diag.NeedsRebuild() {
		return nil // skip-if-unneeded: genID and elapsed are left untouched
	}

	s.genID = uuid.New()
	log := logger.Named(variant).With(zap.String("build_id", s.genID.String()))

	start := time.Now()
	var err error
	if force {
		err = s.loc.ForceBuild()
	} else {
		err = s.loc.Build()
	}
	s.elapsed = time.Since(start)
	if err != nil {
		log.Error("build failed", zap.Error(err), zap.Duration("elapsed", s.elapsed))
		return err
	}

	fields := []zap.Field{
		zap.Duration("elapsed", s.elapsed),
		zap.Int("num_cells", s.dataset.NumCells()),
	}
	if hasDiag {
		fields = append(fields, zap.Int("warnings", len(diag.Warnings())))
		for _, w := range diag.Warnings() {
			log.Warn("degenerate cell", zap.Int64("cell_id", w.CellID), zap.String("detail", w.Message))
		}
	}
	log.Info("build complete", fields...)
	return nil
}
