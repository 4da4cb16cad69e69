package exporter

import (
	"bytes"
	"context"
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oiishi/engine/bottle"
	"github.com/Carmen-Shannon/oiishi/engine/geometry"
	"github.com/Carmen-Shannon/oiishi/engine/label"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"github.com/Carmen-Shannon/oiishi/engine/scene"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembly(t *testing.T) *bottle.Assembly {
	t.Helper()
	return bottle.Assemble(nil, bottle.WithLabelOptions(label.WithSurfaceFactory(func(int, int) *image.RGBA { return nil })))
}

func decode(t *testing.T, data []byte) *gltf.Document {
	t.Helper()
	doc := new(gltf.Document)
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(data)).Decode(doc))
	return doc
}

type recordingDownloader struct {
	blobs []*Blob
}

func (r *recordingDownloader) Download(_ context.Context, b *Blob) error {
	r.blobs = append(r.blobs, b)
	return nil
}

func TestExport_BottleScene(t *testing.T) {
	a := assembly(t)
	d := NewMemoryDownloader()

	require.NoError(t, Export(context.Background(), a.Scene.Root(), d))

	downloads := d.Downloads()
	require.Len(t, downloads, 1)
	dl := downloads[0]
	assert.Equal(t, FileName, dl.Name)
	assert.Equal(t, MIMEBinary, dl.MIME)
	require.NotEmpty(t, dl.Data)
	assert.Equal(t, []byte("glTF"), dl.Data[:4])

	doc := decode(t, dl.Data)
	// 16 bottle meshes plus the ground
	assert.Len(t, doc.Meshes, 17)
	assert.Len(t, doc.Materials, 6)
	assert.Len(t, doc.Textures, 1)
	assert.Len(t, doc.Images, 1)
	// scene root, ground, bottle group and its 16 children
	assert.Len(t, doc.Nodes, 19)
	require.Len(t, doc.Scenes, 1)
	assert.Equal(t, []int{0}, doc.Scenes[0].Nodes)

	names := map[string]*gltf.Material{}
	for _, m := range doc.Materials {
		names[m.Name] = m
	}
	require.Contains(t, names, "label")
	require.NotNil(t, names["label"].PBRMetallicRoughness.BaseColorTexture)
	assert.Equal(t, gltf.AlphaBlend, names["ground"].AlphaMode)
	assert.Equal(t, gltf.AlphaOpaque, names["body"].AlphaMode)
}

func TestExport_SkipsHiddenSubtrees(t *testing.T) {
	a := assembly(t)
	a.Ground.SetVisible(false)

	data, err := Encode(a.Scene.Root())
	require.NoError(t, err)
	doc := decode(t, data)
	assert.Len(t, doc.Meshes, 16)
	assert.Len(t, doc.Nodes, 18)

	a.Bottle.SetVisible(false)
	data, err = Encode(a.Scene.Root())
	require.NoError(t, err)
	doc = decode(t, data)
	assert.Empty(t, doc.Meshes)
	assert.Len(t, doc.Nodes, 1)

	data, err = Encode(a.Scene.Root(), WithOnlyVisible(false))
	require.NoError(t, err)
	doc = decode(t, data)
	assert.Len(t, doc.Meshes, 17)
}

func TestExport_NodeTransforms(t *testing.T) {
	g := scene.NewGroup("spin")
	g.SetRotation([3]float32{0, math.Pi / 2, 0})
	g.SetPosition([3]float32{1, 2, 3})

	data, err := Encode(g)
	require.NoError(t, err)
	doc := decode(t, data)
	require.Len(t, doc.Nodes, 1)
	n := doc.Nodes[0]
	assert.Equal(t, "spin", n.Name)
	assert.InDelta(t, 1, float64(n.Translation[0]), 1e-6)
	assert.InDelta(t, 3, float64(n.Translation[2]), 1e-6)
	assert.InDelta(t, math.Sqrt2/2, float64(n.Rotation[1]), 1e-6)
	assert.InDelta(t, math.Sqrt2/2, float64(n.Rotation[3]), 1e-6)
}

func TestExport_SharesMeshesAndMaterials(t *testing.T) {
	g := geometry.NewPlane(1, 1)
	m := material.NewMaterial(material.WithName("shared"))
	root := scene.NewGroup("root",
		scene.NewMesh("a", g, m),
		scene.NewMesh("b", g, m),
	)

	data, err := Encode(root)
	require.NoError(t, err)
	doc := decode(t, data)
	assert.Len(t, doc.Meshes, 1)
	assert.Len(t, doc.Materials, 1)
	assert.Len(t, doc.Nodes, 3)
}

func TestExport_ReleasesBlobAfterDownload(t *testing.T) {
	a := assembly(t)
	d := &recordingDownloader{}

	require.NoError(t, Export(context.Background(), a.Scene.Root(), d))
	require.Len(t, d.blobs, 1)
	assert.True(t, d.blobs[0].Released())
	assert.Empty(t, d.blobs[0].URL())
	assert.Nil(t, d.blobs[0].Data())
	assert.False(t, d.blobs[0].Release())
}

func TestExport_Errors(t *testing.T) {
	a := assembly(t)

	t.Run("nil root", func(t *testing.T) {
		assert.ErrorIs(t, Export(context.Background(), nil, NewMemoryDownloader()), ErrNoScene)
	})

	t.Run("download failure", func(t *testing.T) {
		boom := errors.New("disk full")
		d := NewMemoryDownloader()
		d.FailWith(boom)
		err := Export(context.Background(), a.Scene.Root(), d)
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, d.Downloads())
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d := NewMemoryDownloader()
		assert.ErrorIs(t, Export(ctx, a.Scene.Root(), d), context.Canceled)
		assert.Empty(t, d.Downloads())
	})
}

func TestExport_JSON(t *testing.T) {
	a := assembly(t)
	d := NewMemoryDownloader()
	require.NoError(t, Export(context.Background(), a.Scene.Root(), d, WithBinary(false)))

	dl := d.Downloads()[0]
	assert.Equal(t, "oishii_bottle.gltf", dl.Name)
	assert.Equal(t, MIMEJSON, dl.MIME)
	assert.Equal(t, byte('{'), bytes.TrimSpace(dl.Data)[0])
}

func TestFileDownloader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	d := NewFileDownloader(dir)

	blob := NewBlob(FileName, MIMEBinary, []byte("glTF-bytes"))
	require.NoError(t, d.Download(context.Background(), blob))

	got, err := os.ReadFile(d.Path(FileName))
	require.NoError(t, err)
	assert.Equal(t, []byte("glTF-bytes"), got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestBlob(t *testing.T) {
	b := NewBlob("x", "text/plain", []byte("abc"))
	assert.Contains(t, b.URL(), "blob:")
	assert.Equal(t, 3, b.Size())
	assert.NotEqual(t, b.URL(), NewBlob("x", "text/plain", nil).URL())
	assert.True(t, b.Release())
	assert.Zero(t, b.Size())
}
