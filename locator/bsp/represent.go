package bsp

import (
	"github.com/arxos/celltree/geom"
	"github.com/arxos/celltree/locator"
)

// GenerateRepresentation emits one box per node reached by depth level,
// descending every present child and deriving each child's box from its
// parent via the node's split plane — the middle child's box is left
// unclipped along the split axis, matching how its cells are indexed.
func (t *Tree) GenerateRepresentation(level int) locator.Polygons {
	var poly locator.Polygons
	if !t.Built() || len(t.nodes) == 0 {
		return poly
	}
	if level < 0 {
		level = 0
	}

	type frame struct {
		idx, depth int32
		box        geom.Bounds
	}
	stack := []frame{{0, 0, t.bounds}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[f.idx]
		if n.isLeaf() || f.depth >= int32(level) {
			emitBox(&poly, f.box)
			continue
		}

		axis := int(n.Axis)
		if n.Left != noChild {
			stack = append(stack, frame{n.Left, f.depth + 1, childBox(f.box, axis, n.Split, 0)})
		}
		if n.Mid != noChild {
			stack = append(stack, frame{n.Mid, f.depth + 1, childBox(f.box, axis, n.Split, 1)})
		}
		if n.Right != noChild {
			stack = append(stack, frame{n.Right, f.depth + 1, childBox(f.box, axis, n.Split, 2)})
		}
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
