package mesh

import (
	"sync/atomic"

	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// Dataset is an in-memory locator.Dataset backed by a PointSet and a flat
// cell list. It is the reference Dataset implementation used by the
// locator packages' tests and by cmd/celltree's YAML-loaded meshes.
type Dataset struct {
	points  PointSet
	cells   []Cell
	modTime uint64

	boundsValid bool
	bounds      geom.Bounds
}

// NewDataset returns an empty, mutable dataset.
func NewDataset() *Dataset {
	return &Dataset{modTime: nextStamp()}
}

var stampCounter uint64

func nextStamp() uint64 { return atomic.AddUint64(&stampCounter, 1) }

func (ds *Dataset) touch() {
	ds.modTime = nextStamp()
	ds.boundsValid = false
}

// NumCells implements locator.Dataset.
func (ds *Dataset) NumCells() int { return len(ds.cells) }

// NumPoints implements locator.Dataset.
func (ds *Dataset) NumPoints() int { return ds.points.Len() }

// Bounds implements locator.Dataset, recomputing lazily after mutation.
func (ds *Dataset) Bounds() geom.Bounds {
	if ds.boundsValid {
		return ds.bounds
	}
	b := geom.EmptyBounds()
	for i := 0; i < ds.points.Len(); i++ {
		b = b.ExpandToPoint(ds.points.Get(i))
	}
	ds.bounds = b
	ds.boundsValid = true
	return b
}

// Length implements locator.Dataset as the bounds diagonal.
func (ds *Dataset) Length() float64 { return ds.Bounds().Diagonal() }

// GetPoint implements locator.Dataset.
func (ds *Dataset) GetPoint(pointID int) geom.Point { return ds.points.Get(pointID) }

// GetCell implements locator.Dataset.
func (ds *Dataset) GetCell(cellID locator.CellID) locator.Cell { return ds.cells[cellID] }

// ModificationTime implements locator.Dataset.
func (ds *Dataset) ModificationTime() uint64 { return ds.modTime }

func (ds *Dataset) addCell(c Cell) locator.CellID {
	id := locator.CellID(len(ds.cells))
	ds.cells = append(ds.cells, c)
	ds.touch()
	return id
}

// AddTetrahedron appends a 4-node tetrahedron and returns its cell id.
func (ds *Dataset) AddTetrahedron(p0, p1, p2, p3 geom.Point) locator.CellID {
	ids := [4]int{ds.points.Add(p0), ds.points.Add(p1), ds.points.Add(p2), ds.points.Add(p3)}
	return ds.addCell(NewTetra(&ds.points, ids))
}

// AddHexahedron appends an 8-node hexahedron (bottom p0..p3 CCW, top
// p4..p7 directly above) and returns its cell id.
func (ds *Dataset) AddHexahedron(p0, p1, p2, p3, p4, p5, p6, p7 geom.Point) locator.CellID {
	ids := [8]int{
		ds.points.Add(p0), ds.points.Add(p1), ds.points.Add(p2), ds.points.Add(p3),
		ds.points.Add(p4), ds.points.Add(p5), ds.points.Add(p6), ds.points.Add(p7),
	}
	return ds.addCell(NewHexahedron(&ds.points, ids))
}

// AddWedge appends a 6-node triangular-prism cell and returns its id.
func (ds *Dataset) AddWedge(p0, p1, p2, p3, p4, p5 geom.Point) locator.CellID {
	ids := [6]int{
		ds.points.Add(p0), ds.points.Add(p1), ds.points.Add(p2),
		ds.points.Add(p3), ds.points.Add(p4), ds.points.Add(p5),
	}
	return ds.addCell(NewWedge(&ds.points, ids))
}

// AddPyramid appends a 5-node pyramid cell and returns its id.
func (ds *Dataset) AddPyramid(p0, p1, p2, p3, apex geom.Point) locator.CellID {
	ids := [5]int{ds.points.Add(p0), ds.points.Add(p1), ds.points.Add(p2), ds.points.Add(p3), ds.points.Add(apex)}
	return ds.addCell(NewPyramid(&ds.points, ids))
}

// AddPolygon appends a planar n-gon cell from its wound vertex list.
func (ds *Dataset) AddPolygon(pts []geom.Point) locator.CellID {
	ids := make([]int, len(pts))
	for i, p := range pts {
		ids[i] = ds.points.Add(p)
	}
	return ds.addCell(NewPolygon(&ds.points, ids))
}

// AddPolyhedron appends a convex polyhedron from a list of face loops,
// each a slice of vertex positions wound CW or CCW (consistency across
// faces is not required — see NewPolyhedron).
func (ds *Dataset) AddPolyhedron(faceLoops [][]geom.Point) locator.CellID {
	var allIDs []int
	faces := make([][]int, len(faceLoops))
	for fi, loop := range faceLoops {
		faceIDs := make([]int, len(loop))
		for i, p := range loop {
			id := ds.points.Add(p)
			faceIDs[i] = id
			allIDs = append(allIDs, id)
		}
		faces[fi] = faceIDs
	}
	return ds.addCell(NewPolyhedron(&ds.points, allIDs, faces))
}
