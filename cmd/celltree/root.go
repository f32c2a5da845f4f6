package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arxos/celltree/pkg/logger"
)

var (
	meshPath   string
	configPath string
	variant    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "celltree",
	Short: "Spatial cell locator demo over tetrahedral/hex/wedge/pyramid/polyhedron meshes",
	Long: `celltree builds and queries one of three 3D spatial cell locators —
a uniform octree, a Bounding Interval Hierarchy, or an axis-aligned BSP —
over an in-memory mesh loaded from YAML.

This CLI is a demo harness around the locator core; it owns no cell
geometry or query logic of its own, only loading, variant selection, and
result formatting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&meshPath, "mesh", "m", "", "path to a mesh YAML file (required)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a locator config YAML file (optional)")
	rootCmd.PersistentFlags().StringVarP(&variant, "variant", "V", "octree", "locator variant: octree, bih, or bsp")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(watchCmd)
}

func initLogging() error {
	level, err := zap.ParseAtomicLevel(strings.ToLower(logLevel))
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	logger.SetDefault(zl)
	return nil
}

func requireMeshPath() error {
	if meshPath == "" {
		return fmt.Errorf("--mesh is required")
	}
	return nil
}
