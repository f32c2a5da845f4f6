package octree

import (
	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// GenerateRepresentation emits one quad per face boundary between a
// non-empty octant and an empty (or out-of-grid) neighbour at the
// requested level, for debugging visualisation only.
func (t *Tree) GenerateRepresentation(level int) locator.Polygons {
	var poly locator.Polygons
	if !t.Built() {
		return poly
	}
	if level < 0 {
		level = 0
	}
	if level > t.level {
		level = t.level
	}

	divs := 1 << uint(level)
	marks := t.nonEmpty[level]
	h := geom.Point{
		X: t.bounds.Extent().X / float64(divs),
		Y: t.bounds.Extent().Y / float64(divs),
		Z: t.bounds.Extent().Z / float64(divs),
	}

	at := func(i, j, k int) bool {
		if i < 0 || i >= divs || j < 0 || j >= divs || k < 0 || k >= divs {
			return false
		}
		return marks[i+j*divs+k*divs*divs]
	}

	box := func(i, j, k int) geom.Bounds {
		return geom.Bounds{
			MinX: t.bounds.MinX + float64(i)*h.X, MaxX: t.bounds.MinX + float64(i+1)*h.X,
			MinY: t.bounds.MinY + float64(j)*h.Y, MaxY: t.bounds.MinY + float64(j+1)*h.Y,
			MinZ: t.bounds.MinZ + float64(k)*h.Z, MaxZ: t.bounds.MinZ + float64(k+1)*h.Z,
		}
	}

	for i := 0; i < divs; i++ {
		for j := 0; j < divs; j++ {
			for k := 0; k < divs; k++ {
				if !at(i, j, k) {
					continue
				}
				b := box(i, j, k)
				c := b.Corners()
				if !at(i-1, j, k) {
					poly.AddQuad(c[0], c[4], c[6], c[2])
				}
				if !at(i+1, j, k) {
					poly.AddQuad(c[1], c[3], c[7], c[5])
				}
				if !at(i, j-1, k) {
					poly.AddQuad(c[0], c[1], c[5], c[4])
				}
				if !at(i, j+1, k) {
					poly.AddQuad(c[2], c[6], c[7], c[3])
				}
				if !at(i, j, k-1) {
					poly.AddQuad(c[0], c[2], c[3], c[1])
				}
				if !at(i, j, k+1) {
					poly.AddQuad(c[4], c[5], c[7], c[6])
				}
			}
		}
	}
	return poly
}
