package loader

import (
	"fmt"
	"io"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfLoaderBackend summarizes glTF 2.0 documents in JSON or binary form.
type gltfLoaderBackend struct{}

var _ loaderBackend = &gltfLoaderBackend{}

func newGLTFLoaderBackend() *gltfLoaderBackend {
	return &gltfLoaderBackend{}
}

func (b *gltfLoaderBackend) Load(path string) (*Summary, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	return summarize(doc)
}

func (b *gltfLoaderBackend) LoadReader(r io.Reader) (*Summary, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, err
	}
	return summarize(doc)
}

func summarize(doc *gltf.Document) (*Summary, error) {
	s := &Summary{
		Generator: doc.Asset.Generator,
		Nodes:     len(doc.Nodes),
		Textures:  len(doc.Textures),
		Images:    len(doc.Images),
	}

	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < len(doc.Scenes) {
		for _, ni := range doc.Scenes[sceneIdx].Nodes {
			if ni < len(doc.Nodes) {
				s.Roots = append(s.Roots, doc.Nodes[ni].Name)
			}
		}
	}

	for _, m := range doc.Materials {
		ms := MaterialSummary{
			Name:      m.Name,
			BaseColor: [4]float32{1, 1, 1, 1},
			Metallic:  1,
			Roughness: 1,
			AlphaMode: alphaModeName(m.AlphaMode),
		}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				ms.BaseColor = toFloat32x4(*pbr.BaseColorFactor)
			}
			ms.Metallic = scalarOr(pbr.MetallicFactor, 1)
			ms.Roughness = scalarOr(pbr.RoughnessFactor, 1)
			ms.Textured = pbr.BaseColorTexture != nil
		}
		s.Materials = append(s.Materials, ms)
	}

	first := true
	for _, mesh := range doc.Meshes {
		summary := MeshSummary{Name: mesh.Name}
		for _, prim := range mesh.Primitives {
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok || posIdx >= len(doc.Accessors) {
				return nil, fmt.Errorf("mesh %q: primitive without positions", mesh.Name)
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read positions: %w", mesh.Name, err)
			}
			for _, p := range positions {
				if first {
					s.Min, s.Max = p, p
					first = false
					continue
				}
				for i := range 3 {
					s.Min[i] = min(s.Min[i], p[i])
					s.Max[i] = max(s.Max[i], p[i])
				}
			}
			summary.Vertices += len(positions)

			if prim.Indices != nil {
				summary.Triangles += int(doc.Accessors[*prim.Indices].Count) / 3
			} else {
				summary.Triangles += len(positions) / 3
			}

			matName := ""
			if prim.Material != nil && *prim.Material < len(doc.Materials) {
				matName = doc.Materials[*prim.Material].Name
			}
			summary.Materials = append(summary.Materials, matName)
		}
		s.Vertices += summary.Vertices
		s.Triangles += summary.Triangles
		s.Meshes = append(s.Meshes, summary)
	}
	return s, nil
}

func alphaModeName(m gltf.AlphaMode) string {
	switch m {
	case gltf.AlphaBlend:
		return "BLEND"
	case gltf.AlphaMask:
		return "MASK"
	default:
		return "OPAQUE"
	}
}

func toFloat32x4[T ~float32 | ~float64](v [4]T) [4]float32 {
	return [4]float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
}

func scalarOr[T ~float32 | ~float64](v *T, def float32) float32 {
	if v == nil || math.IsNaN(float64(*v)) {
		return def
	}
	return float32(*v)
}
