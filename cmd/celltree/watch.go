package main

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arxos/celltree/locator"
	"github.com/arxos/celltree/mesh"
	"github.com/arxos/celltree/pkg/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the locator whenever the mesh file changes on disk",
	Long: `watch observes --mesh for writes with fsnotify and, on each change,
reloads the mesh and rebuilds the locator. Every reload binds a freshly
parsed Dataset and calls Build(), never ForceBuild(). Binding a Dataset
counts as a change to the locator's own settings, so the rebuild-skip
check runs on each reload but never skips on this path.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	log := logger.Named("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(meshPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	fmt.Printf("watching %s (variant=%s) — ctrl-c to stop\n", meshPath, variant)
	target := filepath.Clean(meshPath)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := reload(s, log); err != nil {
				log.Error("reload failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", zap.Error(err))
		}
	}
}

// reload re-reads the mesh file into a fresh Dataset, rebinds it, and
// calls Build() (not ForceBuild()). SetDataset marks the locator as
// changed, so the Build() always rebuilds.
func reload(s *session, log *zap.Logger) error {
	ds, err := mesh.LoadYAML(meshPath)
	if err != nil {
		return err
	}
	s.dataset = ds
	s.loc.SetDataset(ds)
	return s.rebuildAndLog(log)
}

// rebuildAndLog is rebuild's body with an explicit logger, used by watch's
// reload so its log lines are scoped to the "watch" component rather than
// the variant name.
func (s *session) rebuildAndLog(log *zap.Logger) error {
	before := s.genID
	if err := s.rebuild(false); err != nil {
		return err
	}
	if s.genID == before {
		log.Debug("rebuild skipped, dataset unchanged")
		return nil
	}
	if diag, ok := s.loc.(locator.Diagnostics); ok {
		log.Info("mesh reloaded", zap.Int("num_cells", s.dataset.NumCells()), zap.Int("warnings", len(diag.Warnings())))
	}
	return nil
}
