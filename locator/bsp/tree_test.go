package bsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
	"github.com/arxos/celltree/locator/bsp"
	"github.com/arxos/celltree/mesh"
)

func addCube(ds *mesh.Dataset, x, y, z float64) locator.CellID {
	return ds.AddHexahedron(
		geom.Point{X: x, Y: y, Z: z}, geom.Point{X: x + 1, Y: y, Z: z},
		geom.Point{X: x + 1, Y: y + 1, Z: z}, geom.Point{X: x, Y: y + 1, Z: z},
		geom.Point{X: x, Y: y, Z: z + 1}, geom.Point{X: x + 1, Y: y, Z: z + 1},
		geom.Point{X: x + 1, Y: y + 1, Z: z + 1}, geom.Point{X: x, Y: y + 1, Z: z + 1},
	)
}

func TestFindCellAndIntersectLine(t *testing.T) {
	ds := mesh.NewDataset()
	addCube(ds, 0, 0, 0)

	tr := bsp.New()
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

// TestAllHitsOrderingOverlappingSlabs covers cells whose bounding boxes
// straddle several split planes (forcing many of them into Mid buckets
// during build) and checks that every cell is reported exactly once, in
// strictly increasing t order, along a line passing through all of them.
func TestAllHitsOrderingOverlappingSlabs(t *testing.T) {
	ds := mesh.NewDataset()
	const n = 40
	for i := 0; i < n; i++ {
		x := float64(i) * 0.5
		ds.AddHexahedron(
			geom.Point{X: x, Y: -1, Z: -1}, geom.Point{X: x + 1.2, Y: -1, Z: -1},
			geom.Point{X: x + 1.2, Y: 1, Z: -1}, geom.Point{X: x, Y: 1, Z: -1},
			geom.Point{X: x, Y: -1, Z: 1}, geom.Point{X: x + 1.2, Y: -1, Z: 1},
			geom.Point{X: x + 1.2, Y: 1, Z: 1}, geom.Point{X: x, Y: 1, Z: 1},
		)
	}

	tr := bsp.New()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	hits := tr.IntersectWithLineAll(geom.Point{X: -5, Y: 0, Z: 0}, geom.Point{X: 100, Y: 0, Z: 0}, 1e-6)
	require.Len(t, hits, n)

	seen := make(map[locator.CellID]bool, n)
	for i, h := range hits {
		assert.False(t, seen[h.CellID], "cell %d reported more than once", h.CellID)
		seen[h.CellID] = true
		if i > 0 {
			assert.Less(t, hits[i-1].T, h.T)
		}
	}
}

func TestClosestPointWithinRadius(t *testing.T) {
	ds := mesh.NewDataset()
	addCube(ds, 0, -0.5, -0.5)

	tr := bsp.New()
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
		addCube(ds, float64(i)*2, 0, 0)
	}

	tr := bsp.New()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	box := geom.Bounds{MinX: -1, MaxX: 3, MinY: -1, MaxY: 2, MinZ: -1, MaxZ: 2}
	ids := tr.FindCellsWithinBounds(box)
	assert.Len(t, ids, 2)
}

// TestTangentRayAlongSplitPlane sends a ray whose direction has zero X and
// Z components through a one-cube tree (a single leaf, so no split node
// is involved), which the ray/box clip must treat as "inside that slab or
// nowhere", not divide by zero or miss the cell.
func TestTangentRayAlongSplitPlane(t *testing.T) {
	ds := mesh.NewDataset()
	addCube(ds, 0, 0, 0)

	tr := bsp.New()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	hit, ok := tr.IntersectWithLine(geom.Point{X: 0.5, Y: -1, Z: 0.5}, geom.Point{X: 0.5, Y: 2, Z: 0.5}, 1e-6)
	require.True(t, ok)
	assert.Equal(t, locator.CellID(0), hit.CellID)
}

func TestIdempotentBuild(t *testing.T) {
	ds := mesh.NewDataset()
	addCube(ds, 0, 0, 0)

	tr := bsp.New()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())
	assert.False(t, tr.Base.NeedsRebuild())
	require.NoError(t, tr.Build())
	assert.False(t, tr.Base.NeedsRebuild())
}

func TestShallowCopyEquivalence(t *testing.T) {
	ds := mesh.NewDataset()
	addCube(ds, 0, 0, 0)

	orig := bsp.New()
	orig.SetDataset(ds)
	require.NoError(t, orig.Build())

	cp := bsp.New()
	cp.ShallowCopy(orig)

	id1, _, ok1 := orig.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 0.5})
	id2, _, ok2 := cp.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 0.5})
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, id1, id2)
}

// TestManyCellsSameCenterBuilds guards against the same degenerate-input
// risk the BIH fallback split addresses: a pile of cells that all overlap
// on two axes must still partition (along z, the one axis where they
// differ) and build without looping.
func TestManyCellsSameCenterBuilds(t *testing.T) {
	ds := mesh.NewDataset()
	const n = 150
	for i := 0; i < n; i++ {
		z := float64(i) * 0.01
		ds.AddHexahedron(
			geom.Point{X: 0, Y: 0, Z: z}, geom.Point{X: 1, Y: 0, Z: z},
			geom.Point{X: 1, Y: 1, Z: z}, geom.Point{X: 0, Y: 1, Z: z},
			geom.Point{X: 0, Y: 0, Z: z + 0.001}, geom.Point{X: 1, Y: 0, Z: z + 0.001},
			geom.Point{X: 1, Y: 1, Z: z + 0.001}, geom.Point{X: 0, Y: 1, Z: z + 0.001},
		)
	}

	tr := bsp.New()
	tr.SetDataset(ds)
	require.NoError(t, tr.Build())

	id, _, ok := tr.FindCell(geom.Point{X: 0.5, Y: 0.5, Z: 1.0005})
	require.True(t, ok)
	assert.Equal(t, locator.CellID(100), id)
}
