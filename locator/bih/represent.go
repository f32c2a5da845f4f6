package bih

import (
	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// GenerateRepresentation emits one box (six quads) per node reached by
// depth level, descending both children at every internal node and
// deriving each child's box from its parent via the node's split planes.
// Unlike a disjoint octant grid, BIH node boxes generally overlap along
// the split axis, so no face culling between neighbours is attempted —
// this is a debugging aid, not a watertight mesh.
func (t *Tree[L]) GenerateRepresentation(level int) locator.Polygons {
	var poly locator.Polygons
	if !t.Built() || len(t.nodes) == 0 {
		return poly
	}
	if level < 0 {
		level = 0
	}

	type frame struct {
		idx, depth int
		box        geom.Bounds
	}
	stack := []frame{{0, 0, t.rootBounds}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[f.idx]
		if n.isLeaf() || f.depth >= level {
			emitBox(&poly, f.box)
			continue
		}

		leftBox, rightBox := splitBox(f.box, int(n.Axis), n.LeftMax, n.RightMin)
		stack = append(stack, frame{int(n.A), f.depth + 1, leftBox}, frame{int(n.B), f.depth + 1, rightBox})
	}
	return poly
}

func emitBox(poly *locator.Polygons, b geom.Bounds) {
	c := b.Corners()
	poly.AddQuad(c[0], c[4], c[6], c[2])
	poly.AddQuad(c[1], c[3], c[7], c[5])
	poly.AddQuad(c[0], c[1], c[5], c[4])
	poly.AddQuad(c[2], c[6], c[7], c[3])
	poly.AddQuad(c[0], c[2], c[3], c[1])
	poly.AddQuad(c[4], c[5], c[7], c[6])
}
