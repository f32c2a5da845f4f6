package octree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
	"github.com/arxos/celltree/locator/octree"
	"github.com/arxos/celltree/mesh"
)

func TestUnitCubeFindCellAndIntersect(t *testing.T) {
	ds := mesh.NewDataset()
	ds.AddHexahedron(
		geom.Point{X: 0, Y: 0, Z: 0}, geom.Point{X: 1, Y: 0, Z: 0},
		geom.Point{X: 1, Y: 1, Z: 0}, geom.Point{X: 0, Y: 1, Z: 0},
		geom.Point{X: 0, Y: 0, Z: 1}, geom.Point{X: 1, Y: 0, Z: 1},
		geom.Point{X: 1, Y: 1, Z: 1}, geom.Point{X: 0, Y: 1, Z: 1},
	)

	tr := octree.New()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	id, _, ok := tr.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 0.5})
	require.True(t, ok)
	assert.Equal(t, locator.CellID(0), id)

	_, _, ok = tr.FindCell(geom.Point{X: 2, Y: 0, Z: 0})
	assert.False(t, ok)

	hit, ok := tr.IntersectWithLine(geom.Point{X: -1, Y: 0.5, Z: 0.5}, geom.Point{X: 2, Y: 0.5, Z: 0.5}, 1e-6)
	require.True(t, ok)
	assert.InDelta(t, 1.0/3.0, hit.T, 1e-6)
	assert.InDelta(t, 0, hit.X.X, 1e-6)
	assert.Equal(t, locator.CellID(0), hit.CellID)
}

func TestEmptyOctantPruning(t *testing.T) {
	ds := mesh.NewDataset()
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			for k := 0; k < 10; k++ {
				if i >= 3 && i < 6 && j >= 3 && j < 6 && k >= 3 && k < 6 {
					continue
				}
				fi, fj, fk := float64(i), float64(j), float64(k)
				ds.AddHexahedron(
					geom.Point{X: fi, Y: fj, Z: fk}, geom.Point{X: fi + 1, Y: fj, Z: fk},
					geom.Point{X: fi + 1, Y: fj + 1, Z: fk}, geom.Point{X: fi, Y: fj + 1, Z: fk},
					geom.Point{X: fi, Y: fj, Z: fk + 1}, geom.Point{X: fi + 1, Y: fj, Z: fk + 1},
					geom.Point{X: fi + 1, Y: fj + 1, Z: fk + 1}, geom.Point{X: fi, Y: fj + 1, Z: fk + 1},
				)
			}
		}
	}

	tr := octree.New()
	tr.SetDataset(ds)
	// At the automatic level (2) every octant overlaps a cell outside the
	// hole; level 3 has an octant, [3.75,5]^3, covered only by the hole.
	tr.SetLevel(3)
	require.NoError(t, tr.Build())

	_, _, ok := tr.FindCell(geom.Point{X: 4.5, Y: 4.5, Z: 4.5})
	assert.False(t, ok)
	assert.Less(t, tr.NonEmptyCount(), tr.NumDivisions()*tr.NumDivisions()*tr.NumDivisions())
}

func TestAllHitsOrderingFiveSlabs(t *testing.T) {
	ds := mesh.NewDataset()
	for i := 0; i < 5; i++ {
		x := float64(i) * 2
		ds.AddHexahedron(
			geom.Point{X: x, Y: -1, Z: -1}, geom.Point{X: x + 0.1, Y: -1, Z: -1},
			geom.Point{X: x + 0.1, Y: 1, Z: -1}, geom.Point{X: x, Y: 1, Z: -1},
			geom.Point{X: x, Y: -1, Z: 1}, geom.Point{X: x + 0.1, Y: -1, Z: 1},
			geom.Point{X: x + 0.1, Y: 1, Z: 1}, geom.Point{X: x, Y: 1, Z: 1},
		)
	}

	tr := octree.New()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	hits := tr.IntersectWithLineAll(geom.Point{X: -1, Y: 0, Z: 0}, geom.Point{X: 10, Y: 0, Z: 0}, 1e-6)
	require.Len(t, hits, 5)
	for i := 1; i < len(hits); i++ {
		assert.Less(t, hits[i-1].T, hits[i].T)
	}
}

func TestClosestPointWithinRadius(t *testing.T) {
	ds := mesh.NewDataset()
	ds.AddHexahedron(
		geom.Point{X: 0, Y: -0.5, Z: -0.5}, geom.Point{X: 1, Y: -0.5, Z: -0.5},
		geom.Point{X: 1, Y: 0.5, Z: -0.5}, geom.Point{X: 0, Y: 0.5, Z: -0.5},
		geom.Point{X: 0, Y: -0.5, Z: 0.5}, geom.Point{X: 1, Y: -0.5, Z: 0.5},
		geom.Point{X: 1, Y: 0.5, Z: 0.5}, geom.Point{X: 0, Y: 0.5, Z: 0.5},
	)

	tr := octree.New()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	x := geom.Point{X: 2.5, Y: 0, Z: 0}
	_, ok := tr.FindClosestPointWithinRadius(x, 1.0)
	assert.False(t, ok)

	hit, ok := tr.FindClosestPointWithinRadius(x, 2.0)
	require.True(t, ok)
	assert.InDelta(t, 2.25, hit.Dist2, 1e-6)
}

func TestIdempotentBuild(t *testing.T) {
	ds := mesh.NewDataset()
	ds.AddHexahedron(
		geom.Point{X: 0, Y: 0, Z: 0}, geom.Point{X: 1, Y: 0, Z: 0},
		geom.Point{X: 1, Y: 1, Z: 0}, geom.Point{X: 0, Y: 1, Z: 0},
		geom.Point{X: 0, Y: 0, Z: 1}, geom.Point{X: 1, Y: 0, Z: 1},
		geom.Point{X: 1, Y: 1, Z: 1}, geom.Point{X: 0, Y: 1, Z: 1},
	)
	tr := octree.New()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())
	assert.False(t, tr.Base.NeedsRebuild())
	require.NoError(t, tr.Build())
	assert.False(t, tr.Base.NeedsRebuild())
}

func TestShallowCopyEquivalence(t *testing.T) {
	ds := mesh.NewDataset()
	ds.AddHexahedron(
		geom.Point{X: 0, Y: 0, Z: 0}, geom.Point{X: 1, Y: 0, Z: 0},
		geom.Point{X: 1, Y: 1, Z: 0}, geom.Point{X: 0, Y: 1, Z: 0},
		geom.Point{X: 0, Y: 0, Z: 1}, geom.Point{X: 1, Y: 0, Z: 1},
		geom.Point{X: 1, Y: 1, Z: 1}, geom.Point{X: 0, Y: 1, Z: 1},
	)
	orig := octree.New()
	orig.SetDataset(ds)
	require.NoError(t, orig.Build())

	cp := octree.New()
	cp.ShallowCopy(orig)

	id1, _, ok1 := orig.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 0.5})
	id2, _, ok2 := cp.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 0.5})
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, id1, id2)
}
