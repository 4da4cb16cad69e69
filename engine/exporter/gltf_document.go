package exporter

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/geometry"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"github.com/Carmen-Shannon/oiishi/engine/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type meshKey struct {
	g geometry.Geometry
	m material.Material
}

// documentBuilder converts a scene graph into a glTF document, sharing meshes,
// materials and images between nodes that reference the same objects.
type documentBuilder struct {
	doc         *gltf.Document
	onlyVisible bool

	meshes    map[meshKey]int
	materials map[material.Material]int
	textures  map[material.Texture]int
}

func newDocumentBuilder(onlyVisible bool) *documentBuilder {
	return &documentBuilder{
		doc:         gltf.NewDocument(),
		onlyVisible: onlyVisible,
		meshes:      make(map[meshKey]int),
		materials:   make(map[material.Material]int),
		textures:    make(map[material.Texture]int),
	}
}

// build adds root and its subtree as a root node of the default scene.
func (d *documentBuilder) build(root scene.Node) (*gltf.Document, error) {
	idx, ok, err := d.node(root)
	if err != nil {
		return nil, err
	}
	if ok {
		d.doc.Scenes[0].Nodes = append(d.doc.Scenes[0].Nodes, idx)
	}
	return d.doc, nil
}

func (d *documentBuilder) node(n scene.Node) (int, bool, error) {
	if d.onlyVisible && !n.Visible() {
		return 0, false, nil
	}

	gn := &gltf.Node{Name: n.Name()}
	pos, rot, scale := n.Position(), common.QuatFromEuler(n.Rotation()), n.Scale()
	setFloats(gn.Translation[:], pos[:]...)
	setFloats(gn.Rotation[:], rot[:]...)
	setFloats(gn.Scale[:], scale[:]...)

	if n.IsMesh() && !n.Geometry().Disposed() {
		mesh, err := d.mesh(n.Geometry(), n.Material())
		if err != nil {
			return 0, false, fmt.Errorf("node %q: %w", n.Name(), err)
		}
		gn.Mesh = gltf.Index(mesh)
	}

	idx := len(d.doc.Nodes)
	d.doc.Nodes = append(d.doc.Nodes, gn)

	for _, c := range n.Children() {
		ci, ok, err := d.node(c)
		if err != nil {
			return 0, false, err
		}
		if ok {
			gn.Children = append(gn.Children, ci)
		}
	}
	return idx, true, nil
}

func (d *documentBuilder) mesh(g geometry.Geometry, m material.Material) (int, error) {
	key := meshKey{g, m}
	if idx, ok := d.meshes[key]; ok {
		return idx, nil
	}

	uvs := g.UVs()
	flipped := make([][2]float32, len(uvs))
	for i, uv := range uvs {
		// glTF puts the texture origin at the top left
		flipped[i] = [2]float32{uv[0], 1 - uv[1]}
	}

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: modeler.WritePosition(d.doc, g.Positions()),
			gltf.NORMAL: modeler.WriteNormal(d.doc, g.Normals()),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(d.doc, flipped),
		},
		Indices: gltf.Index(modeler.WriteIndices(d.doc, g.Indices())),
	}
	if m != nil {
		mat, err := d.material(m)
		if err != nil {
			return 0, err
		}
		prim.Material = gltf.Index(mat)
	}

	idx := len(d.doc.Meshes)
	d.doc.Meshes = append(d.doc.Meshes, &gltf.Mesh{Name: g.Name(), Primitives: []*gltf.Primitive{prim}})
	d.meshes[key] = idx
	return idx, nil
}

func (d *documentBuilder) material(m material.Material) (int, error) {
	if idx, ok := d.materials[m]; ok {
		return idx, nil
	}

	color := m.Color().Linear()
	alpha := float32(1)
	if m.Transparent() || m.Kind() == material.KindShadow {
		alpha = m.Opacity()
	}

	pbr := &gltf.PBRMetallicRoughness{}
	setFactor(&pbr.BaseColorFactor, [4]float32{color[0], color[1], color[2], alpha})
	setScalar(&pbr.MetallicFactor, m.Metalness())
	setScalar(&pbr.RoughnessFactor, m.Roughness())

	if tex := m.Map(); tex != nil && !tex.Disposed() {
		ti, err := d.texture(tex)
		if err != nil {
			return 0, fmt.Errorf("material %q: %w", m.Name(), err)
		}
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: ti}
	}

	gm := &gltf.Material{
		Name:                 m.Name(),
		PBRMetallicRoughness: pbr,
		AlphaMode:            gltf.AlphaOpaque,
	}
	if alpha < 1 {
		gm.AlphaMode = gltf.AlphaBlend
	}
	extras := map[string]any{"kind": m.Kind().String()}
	if m.Kind() == material.KindPhysical {
		extras["clearcoat"] = m.Clearcoat()
		extras["sheen"] = m.Sheen()
	}
	gm.Extras = extras

	idx := len(d.doc.Materials)
	d.doc.Materials = append(d.doc.Materials, gm)
	d.materials[m] = idx
	return idx, nil
}

func (d *documentBuilder) texture(t material.Texture) (int, error) {
	if idx, ok := d.textures[t]; ok {
		return idx, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, t.Image()); err != nil {
		return 0, fmt.Errorf("encode texture %q: %w", t.Name(), err)
	}
	name := t.Name()
	if name == "" {
		name = fmt.Sprintf("texture-%d", len(d.doc.Textures))
	}
	img, err := modeler.WriteImage(d.doc, name, "image/png", &buf)
	if err != nil {
		return 0, fmt.Errorf("write image %q: %w", name, err)
	}

	idx := len(d.doc.Textures)
	d.doc.Textures = append(d.doc.Textures, &gltf.Texture{Name: name, Source: gltf.Index(img)})
	d.textures[t] = idx
	return idx, nil
}

// setFloats copies src into dst whatever float width the glTF field uses.
func setFloats[T ~float32 | ~float64](dst []T, src ...float32) {
	for i := range dst {
		if i < len(src) {
			dst[i] = T(src[i])
		}
	}
}

func setScalar[T ~float32 | ~float64](dst **T, v float32) {
	x := T(v)
	*dst = &x
}

func setFactor[T ~float32 | ~float64](dst **[4]T, v [4]float32) {
	var out [4]T
	setFloats(out[:], v[:]...)
	*dst = &out
}
