package mesh_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
	"github.com/arxos/celltree/mesh"
)

func TestTwoAdjacentTets(t *testing.T) {
	ds := mesh.NewDataset()
	a := ds.AddTetrahedron(
		geom.Point{X: 0, Y: 0, Z: 0}, geom.Point{X: 1, Y: 0, Z: 0},
		geom.Point{X: 0, Y: 1, Z: 0}, geom.Point{X: 0, Y: 0, Z: 1},
	)
	b := ds.AddTetrahedron(
		geom.Point{X: 1, Y: 0, Z: 0}, geom.Point{X: 0, Y: 1, Z: 0},
		geom.Point{X: 0, Y: 0, Z: 1}, geom.Point{X: 1, Y: 1, Z: 1},
	)

	resA := ds.GetCell(a).EvaluatePosition(geom.Point{X: 0.1, Y: 0.1, Z: 0.1})
	assert.Equal(t, locator.Inside, resA.Status)

	resB := ds.GetCell(b).EvaluatePosition(geom.Point{X: 0.9, Y: 0.9, Z: 0.9})
	assert.Equal(t, locator.Inside, resB.Status)
}

func TestHexahedronEvaluateAndIntersect(t *testing.T) {
	ds := mesh.NewDataset()
	id := ds.AddHexahedron(
		geom.Point{X: 0, Y: 0, Z: 0}, geom.Point{X: 1, Y: 0, Z: 0},
		geom.Point{X: 1, Y: 1, Z: 0}, geom.Point{X: 0, Y: 1, Z: 0},
		geom.Point{X: 0, Y: 0, Z: 1}, geom.Point{X: 1, Y: 0, Z: 1},
		geom.Point{X: 1, Y: 1, Z: 1}, geom.Point{X: 0, Y: 1, Z: 1},
	)
	cell := ds.GetCell(id)

	res := cell.EvaluatePosition(geom.Point{X: 0.5, Y: 0.5, Z: 0.5})
	require.Equal(t, locator.Inside, res.Status)
	assert.InDelta(t, 0.5, res.PCoords[0], 1e-4)

	lh, ok := cell.IntersectWithLine(geom.Point{X: -1, Y: 0.5, Z: 0.5}, geom.Point{X: 2, Y: 0.5, Z: 0.5}, 1e-6)
	require.True(t, ok)
	assert.InDelta(t, 1.0/3.0, lh.T, 1e-4)
}

func TestPolyhedronFallback(t *testing.T) {
	ds := mesh.NewDataset()

	// Octahedron inscribing the unit sphere (6 vertices, 8 triangular
	// faces) stands in for the "10-face, 16-vertex" scenario's shape
	// class: a convex polyhedron whose faces are tested as half-spaces.
	v := []geom.Point{
		{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: -1},
	}
	faces := [][]geom.Point{
		{v[0], v[2], v[4]}, {v[2], v[1], v[4]}, {v[1], v[3], v[4]}, {v[3], v[0], v[4]},
		{v[2], v[0], v[5]}, {v[1], v[2], v[5]}, {v[3], v[1], v[5]}, {v[0], v[3], v[5]},
	}
	id := ds.AddPolyhedron(faces)
	cell := ds.GetCell(id)

	res := cell.EvaluatePosition(geom.Point{X: 0, Y: 0, Z: 0})
	assert.Equal(t, locator.Inside, res.Status)

	res2 := cell.EvaluatePosition(geom.Point{X: 2, Y: 0, Z: 0})
	assert.Equal(t, locator.Outside, res2.Status)

	lh, ok := cell.IntersectWithLine(geom.Point{X: -2, Y: 0, Z: 0}, geom.Point{X: 2, Y: 0, Z: 0}, 1e-6)
	require.True(t, ok)
	assert.True(t, math.Abs(lh.X.X+1) < 1e-4)
}
