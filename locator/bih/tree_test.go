package bih_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
	"github.com/arxos/celltree/locator/bih"
	"github.com/arxos/celltree/mesh"
)

func addUnitCube(ds *mesh.Dataset, x, y, z float64) locator.CellID {
	return ds.AddHexahedron(
		geom.Point{X: x, Y: y, Z: z}, geom.Point{X: x + 1, Y: y, Z: z},
		geom.Point{X: x + 1, Y: y + 1, Z: z}, geom.Point{X: x, Y: y + 1, Z: z},
		geom.Point{X: x, Y: y, Z: z + 1}, geom.Point{X: x + 1, Y: y, Z: z + 1},
		geom.Point{X: x + 1, Y: y + 1, Z: z + 1}, geom.Point{X: x, Y: y + 1, Z: z + 1},
	)
}

func TestFindCellAndIntersectLine(t *testing.T) {
	ds := mesh.NewDataset()
	addUnitCube(ds, 0, 0, 0)

	tr := bih.New32()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	id, _, ok := tr.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 0.5})
	require.True(t, ok)
	assert.Equal(t, locator.CellID(0), id)

	_, _, ok = tr.FindCell(geom.Point{X: 5, Y: 5, Z: 5})
	assert.False(t, ok)

	hit, ok := tr.IntersectWithLine(geom.Point{X: -1, Y: 0.5, Z: 0.5}, geom.Point{X: 2, Y: 0.5, Z: 0.5}, 1e-6)
	require.True(t, ok)
	assert.InDelta(t, 1.0/3.0, hit.T, 1e-6)
	assert.Equal(t, locator.CellID(0), hit.CellID)
}

func TestAllHitsOrderingManyCubes(t *testing.T) {
	ds := mesh.NewDataset()
	for i := 0; i < 20; i++ {
		addUnitCube(ds, float64(i)*2, -0.5, -0.5)
	}

	tr := bih.New32()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	hits := tr.IntersectWithLineAll(geom.Point{X: -1, Y: 0, Z: 0}, geom.Point{X: 100, Y: 0, Z: 0}, 1e-6)
	require.Len(t, hits, 20)
	for i := 1; i < len(hits); i++ {
		assert.Less(t, hits[i-1].T, hits[i].T)
	}
}

func TestClosestPointWithinRadius(t *testing.T) {
	ds := mesh.NewDataset()
	addUnitCube(ds, 0, -0.5, -0.5)

	tr := bih.New32()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	x := geom.Point{X: 2.5, Y: 0, Z: 0}
	_, ok := tr.FindClosestPointWithinRadius(x, 1.0)
	assert.False(t, ok)

	hit, ok := tr.FindClosestPointWithinRadius(x, 2.0)
	require.True(t, ok)
	assert.InDelta(t, 2.25, hit.Dist2, 1e-6)
}

func TestFindCellsWithinBounds(t *testing.T) {
	ds := mesh.NewDataset()
	for i := 0; i < 5; i++ {
		addUnitCube(ds, float64(i)*2, 0, 0)
	}

	tr := bih.New32()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	box := geom.Bounds{MinX: -1, MaxX: 3, MinY: -1, MaxY: 2, MinZ: -1, MaxZ: 2}
	ids := tr.FindCellsWithinBounds(box)
	assert.Len(t, ids, 2)
}

func TestIdempotentBuild(t *testing.T) {
	ds := mesh.NewDataset()
	addUnitCube(ds, 0, 0, 0)

	tr := bih.New32()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())
	assert.False(t, tr.Base.NeedsRebuild())
	require.NoError(t, tr.Build())
	assert.False(t, tr.Base.NeedsRebuild())
}

func TestShallowCopyEquivalence(t *testing.T) {
	ds := mesh.NewDataset()
	addUnitCube(ds, 0, 0, 0)

	orig := bih.New32()
	orig.SetDataset(ds)
	require.NoError(t, orig.Build())

	cp := bih.New32()
	cp.ShallowCopy(orig)

	id1, _, ok1 := orig.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 0.5})
	id2, _, ok2 := cp.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 0.5})
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, id1, id2)
}

// TestDegenerateCentersFallbackSplit builds a tree over many cells whose
// bounding boxes all share the same center on two axes and are thin
// slabs spread along the third. chooseBucketSplit still splits them along
// z, so the fallback split is not reached here. The build must terminate
// and still answer queries correctly afterward.
func TestDegenerateCentersFallbackSplit(t *testing.T) {
	ds := mesh.NewDataset()
	const n = 200
	for i := 0; i < n; i++ {
		z := float64(i) * 0.01
		ds.AddHexahedron(
			geom.Point{X: 0, Y: 0, Z: z}, geom.Point{X: 1, Y: 0, Z: z},
			geom.Point{X: 1, Y: 1, Z: z}, geom.Point{X: 0, Y: 1, Z: z},
			geom.Point{X: 0, Y: 0, Z: z + 0.001}, geom.Point{X: 1, Y: 0, Z: z + 0.001},
			geom.Point{X: 1, Y: 1, Z: z + 0.001}, geom.Point{X: 0, Y: 1, Z: z + 0.001},
		)
	}

	tr := bih.New32()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	id, _, ok := tr.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 1.0005})
	require.True(t, ok)
	assert.Equal(t, locator.CellID(100), id)

	_, _, ok = tr.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 50})
	assert.False(t, ok)
}
