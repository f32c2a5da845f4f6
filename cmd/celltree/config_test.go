package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxos/celltree/locator/octree"
)

func TestLoadLocatorConfigEmptyPath(t *testing.T) {
	cfg, err := loadLocatorConfig("")
	require.NoError(t, err)
	assert.Nil(t, cfg.MaxLevel)
	assert.Nil(t, cfg.Tolerance)
}

func TestLocatorConfigApplyOnlySetsProvidedFields(t *testing.T) {
	maxLevel := 4
	tol := 0.01
	cfg := LocatorConfig{MaxLevel: &maxLevel, Tolerance: &tol}

	tr := octree.New()
	cfg.Apply(tr)

	assert.Equal(t, maxLevel, tr.Config.MaxLevel)
	assert.InDelta(t, tol, tr.Config.Tolerance, 1e-9)
	// NumberOfCellsPerNode was left untouched, so the variant default holds.
	assert.Equal(t, 32, tr.Config.NumberOfCellsPerNode)
}
