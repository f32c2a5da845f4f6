package mesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/mesh"
)

const unitCubeYAML = `
cells:
  - kind: hex
    points:
      - [0, 0, 0]
      - [1, 0, 0]
      - [1, 1, 0]
      - [0, 1, 0]
      - [0, 0, 1]
      - [1, 0, 1]
      - [1, 1, 1]
      - [0, 1, 1]
`

func TestParseYAMLUnitCube(t *testing.T) {
	ds, err := mesh.ParseYAML([]byte(unitCubeYAML))
	require.NoError(t, err)
	assert.Equal(t, 1, ds.NumCells())
	assert.Equal(t, 8, ds.NumPoints())

	b := ds.Bounds()
	assert.Equal(t, geom.Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1, MinZ: 0, MaxZ: 1}, b)
}

func TestParseYAMLTwoTets(t *testing.T) {
	doc := `
cells:
  - kind: tetra
    points: [[0,0,0],[1,0,0],[0,1,0],[0,0,1]]
  - kind: tetrahedron
    points: [[1,0,0],[0,1,0],[0,0,1],[1,1,1]]
`
	ds, err := mesh.ParseYAML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumCells())
}

func TestParseYAMLPolyhedron(t *testing.T) {
	doc := `
cells:
  - kind: polyhedron
    points:
      - [1, 0, 0]
      - [-1, 0, 0]
      - [0, 1, 0]
      - [0, -1, 0]
      - [0, 0, 1]
      - [0, 0, -1]
    faces:
      - [0, 2, 4]
      - [2, 1, 4]
      - [1, 3, 4]
      - [3, 0, 4]
      - [2, 0, 5]
      - [1, 2, 5]
      - [3, 1, 5]
      - [0, 3, 5]
`
	ds, err := mesh.ParseYAML([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, 1, ds.NumCells())
}

func TestParseYAMLUnknownKind(t *testing.T) {
	_, err := mesh.ParseYAML([]byte("cells:\n  - kind: sphere\n    points: [[0,0,0]]\n"))
	assert.Error(t, err)
}

func TestParseYAMLWrongVertexCount(t *testing.T) {
	_, err := mesh.ParseYAML([]byte("cells:\n  - kind: hex\n    points: [[0,0,0],[1,0,0]]\n"))
	assert.Error(t, err)
}
