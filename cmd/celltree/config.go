package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arxos/celltree/locator"
)

// LocatorConfig is the on-disk form of the "Configuration enumeration"
// from SPEC_FULL.md §6/§10: every field is optional, and a zero value
// means "leave the variant's own default in place" rather than "set to
// zero" — Apply only calls the corresponding setter when the pointer is
// non-nil.
type LocatorConfig struct {
	MaxLevel                   *int     `yaml:"max_level"`
	Level                      *int     `yaml:"level"`
	NumberOfCellsPerNode       *int     `yaml:"number_of_cells_per_node"`
	NumberOfBuckets            *int     `yaml:"number_of_buckets"`
	CacheCellBounds            *bool    `yaml:"cache_cell_bounds"`
	UseExistingSearchStructure *bool    `yaml:"use_existing_search_structure"`
	Tolerance                  *float64 `yaml:"tolerance"`
}

// loadLocatorConfig reads a LocatorConfig from path, or returns a zero
// (all-default) config when path is empty.
func loadLocatorConfig(path string) (LocatorConfig, error) {
	var cfg LocatorConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Apply pushes every set field onto l through locator.Configurable,
// mirroring the Locator public API's setters (§6) one call per option.
func (c LocatorConfig) Apply(l locator.Locator) {
	cfgable, ok := l.(locator.Configurable)
	if !ok {
		return
	}
	if c.MaxLevel != nil {
		cfgable.SetMaxLevel(*c.MaxLevel)
	}
	if c.Level != nil {
		cfgable.SetLevel(*c.Level)
	}
	if c.NumberOfCellsPerNode != nil {
		cfgable.SetNumberOfCellsPerNode(*c.NumberOfCellsPerNode)
	}
	if c.NumberOfBuckets != nil {
		cfgable.SetNumberOfBuckets(*c.NumberOfBuckets)
	}
	if c.CacheCellBounds != nil {
		cfgable.SetCacheCellBounds(*c.CacheCellBounds)
	}
	if c.UseExistingSearchStructure != nil {
		cfgable.SetUseExistingSearchStructure(*c.UseExistingSearchStructure)
	}
	if c.Tolerance != nil {
		cfgable.SetTolerance(*c.Tolerance)
	}
}
