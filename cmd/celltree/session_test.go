package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unitTetYAML = `
cells:
  - kind: tetra
    points:
      - [0, 0, 0]
      - [1, 0, 0]
      - [0, 1, 0]
      - [0, 0, 1]
`

func writeTempMesh(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewSessionBuildsOctreeByDefault(t *testing.T) {
	meshPath = writeTempMesh(t, unitTetYAML)
	variant = "octree"
	configPath = ""

	s, err := newSession()
	require.NoError(t, err)
	assert.Equal(t, 1, s.dataset.NumCells())
	assert.NotEqual(t, uuid.Nil, s.genID)
}

func TestNewSessionUnknownVariant(t *testing.T) {
	meshPath = writeTempMesh(t, unitTetYAML)
	variant = "quadtree"
	configPath = ""

	_, err := newSession()
	assert.Error(t, err)
}

func TestNewSessionRequiresMeshPath(t *testing.T) {
	meshPath = ""
	variant = "octree"
	configPath = ""

	_, err := newSession()
	assert.Error(t, err)
}

func TestRebuildSkipsWhenDatasetUnchanged(t *testing.T) {
	meshPath = writeTempMesh(t, unitTetYAML)
	variant = "bih"
	configPath = ""

	s, err := newSession()
	require.NoError(t, err)
	firstID := s.genID

	require.NoError(t, s.rebuild(false))
	assert.Equal(t, firstID, s.genID, "rebuild(false) against an unchanged dataset must not restamp genID")
}
