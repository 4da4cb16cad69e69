package loader

import (
	"fmt"
	"io"
	"strings"
)

// Summary describes the contents of a glTF document.
type Summary struct {
	Name      string
	Generator string

	// Nodes counts every node in the document; Roots lists the names of the default
	// scene's root nodes.
	Nodes int
	Roots []string

	Meshes    []MeshSummary
	Materials []MaterialSummary
	Textures  int
	Images    int

	Vertices  int
	Triangles int

	// Min and Max bound every mesh's local positions.
	Min [3]float32
	Max [3]float32
}

// MeshSummary describes one glTF mesh.
type MeshSummary struct {
	Name      string
	Vertices  int
	Triangles int
	// Materials names the material of each primitive, "" when unassigned.
	Materials []string
}

// MaterialSummary describes one glTF material.
type MaterialSummary struct {
	Name      string
	BaseColor [4]float32
	Metallic  float32
	Roughness float32
	AlphaMode string
	Textured  bool
}

// Material returns the material named name, or false.
func (s *Summary) Material(name string) (MaterialSummary, bool) {
	for _, m := range s.Materials {
		if m.Name == name {
			return m, true
		}
	}
	return MaterialSummary{}, false
}

// WriteText prints a human readable report of s.
func (s *Summary) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.Name)
	if s.Generator != "" {
		fmt.Fprintf(&b, "  generator: %s\n", s.Generator)
	}
	fmt.Fprintf(&b, "  nodes: %d (roots: %s)\n", s.Nodes, strings.Join(s.Roots, ", "))
	fmt.Fprintf(&b, "  meshes: %d  materials: %d  textures: %d  images: %d\n",
		len(s.Meshes), len(s.Materials), s.Textures, s.Images)
	fmt.Fprintf(&b, "  vertices: %d  triangles: %d\n", s.Vertices, s.Triangles)
	fmt.Fprintf(&b, "  bounds: (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		s.Min[0], s.Min[1], s.Min[2], s.Max[0], s.Max[1], s.Max[2])
	for _, m := range s.Materials {
		tex := ""
		if m.Textured {
			tex = " textured"
		}
		fmt.Fprintf(&b, "  material %-8s rgba(%.3f, %.3f, %.3f, %.2f) metallic %.2f roughness %.2f %s%s\n",
			m.Name, m.BaseColor[0], m.BaseColor[1], m.BaseColor[2], m.BaseColor[3],
			m.Metallic, m.Roughness, m.AlphaMode, tex)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
