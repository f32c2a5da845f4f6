package mesh

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arxos/celltree/geom"
)

// yamlPoint is the on-disk [x, y, z] triple form a cell's vertex list is
// written as.
type yamlPoint [3]float64

func (p yamlPoint) toPoint() geom.Point { return geom.Point{X: p[0], Y: p[1], Z: p[2]} }

// yamlCell is one entry of a mesh file's cells list. Points holds the
// cell's vertices in canonical per-kind order; Faces is populated only for
// kind "polyhedron", each entry an index into Points describing one face
// loop.
type yamlCell struct {
	Kind   string      `yaml:"kind"`
	Points []yamlPoint `yaml:"points"`
	Faces  [][]int     `yaml:"faces,omitempty"`
}

// yamlMesh is the root document cmd/celltree loads: a flat list of cells,
// each carrying its own vertex positions (the loader dedupes nothing —
// shared vertices are simply repeated across cells, matching the format's
// goal of being easy to hand-author for fixtures and demos).
type yamlMesh struct {
	Cells []yamlCell `yaml:"cells"`
}

// LoadYAML reads a mesh file in the celltree YAML cell format and returns
// the Dataset it describes. Unknown or malformed cell kinds are reported
// as an error naming the offending cell's index.
func LoadYAML(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}
	return ParseYAML(data)
}

// ParseYAML parses mesh YAML content already read into memory.
func ParseYAML(data []byte) (*Dataset, error) {
	var doc yamlMesh
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("mesh: parse yaml: %w", err)
	}

	ds := NewDataset()
	for i, yc := range doc.Cells {
		if err := addYAMLCell(ds, yc); err != nil {
			return nil, fmt.Errorf("mesh: cell %d: %w", i, err)
		}
	}
	return ds, nil
}

func addYAMLCell(ds *Dataset, yc yamlCell) error {
	pts := make([]geom.Point, len(yc.Points))
	for i, p := range yc.Points {
		pts[i] = p.toPoint()
	}

	switch yc.Kind {
	case "tetra", "tetrahedron":
		if len(pts) != 4 {
			return fmt.Errorf("tetra needs 4 points, got %d", len(pts))
		}
		ds.AddTetrahedron(pts[0], pts[1], pts[2], pts[3])
	case "hex", "hexahedron":
		if len(pts) != 8 {
			return fmt.Errorf("hexahedron needs 8 points, got %d", len(pts))
		}
		ds.AddHexahedron(pts[0], pts[1], pts[2], pts[3], pts[4], pts[5], pts[6], pts[7])
	case "wedge":
		if len(pts) != 6 {
			return fmt.Errorf("wedge needs 6 points, got %d", len(pts))
		}
		ds.AddWedge(pts[0], pts[1], pts[2], pts[3], pts[4], pts[5])
	case "pyramid":
		if len(pts) != 5 {
			return fmt.Errorf("pyramid needs 5 points, got %d", len(pts))
		}
		ds.AddPyramid(pts[0], pts[1], pts[2], pts[3], pts[4])
	case "polygon":
		if len(pts) < 3 {
			return fmt.Errorf("polygon needs at least 3 points, got %d", len(pts))
		}
		ds.AddPolygon(pts)
	case "polyhedron":
		if len(yc.Faces) == 0 {
			return fmt.Errorf("polyhedron needs at least one face")
		}
		loops := make([][]geom.Point, len(yc.Faces))
		for fi, face := range yc.Faces {
			loop := make([]geom.Point, len(face))
			for vi, pid := range face {
				if pid < 0 || pid >= len(pts) {
					return fmt.Errorf("polyhedron face %d: point index %d out of range", fi, pid)
				}
				loop[vi] = pts[pid]
			}
			loops[fi] = loop
		}
		ds.AddPolyhedron(loops)
	default:
		return fmt.Errorf("unknown cell kind %q", yc.Kind)
	}
	return nil
}
