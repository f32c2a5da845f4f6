package mesh

import "github.com/arxos/celltree/geom"

// Kind is the closed set of cell topologies mesh supports, replacing the
// source's deep class hierarchy with a single tagged struct
// "Polymorphism over cell kinds").
type Kind int

const (
	KindTetra Kind = iota
	KindHexahedron
	KindWedge
	KindPyramid
	KindPolygon
	KindPolyhedron
)

func (k Kind) String() string {
	switch k {
	case KindTetra:
		return "tetra"
	case KindHexahedron:
		return "hexahedron"
	case KindWedge:
		return "wedge"
	case KindPyramid:
		return "pyramid"
	case KindPolygon:
		return "polygon"
	case KindPolyhedron:
		return "polyhedron"
	default:
		return "unknown"
	}
}

// Cell is one mesh element. Points hold the point ids in the canonical
// per-kind order (VTK-style corner numbering for tetra/hex/wedge/pyramid);
// Faces is populated only for KindPolyhedron, each entry a CCW or CW loop
// of point ids bounding one face (winding is normalized internally).
type Cell struct {
	kind  Kind
	pts   *PointSet
	ids   []int
	faces [][]int
}

func newCell(kind Kind, pts *PointSet, ids []int) Cell {
	return Cell{kind: kind, pts: pts, ids: ids}
}

// Kind returns the cell's topology.
func (c Cell) Kind() Kind { return c.kind }

// PointIDs returns the cell's point ids in canonical order.
func (c Cell) PointIDs() []int { return c.ids }

func (c Cell) corners() []geom.Point {
	out := make([]geom.Point, len(c.ids))
	for i, id := range c.ids {
		out[i] = c.pts.Get(id)
	}
	return out
}
