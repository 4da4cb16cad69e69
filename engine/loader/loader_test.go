package loader

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oiishi/engine/bottle"
	"github.com/Carmen-Shannon/oiishi/engine/exporter"
	"github.com/Carmen-Shannon/oiishi/engine/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bottleGLB(t *testing.T) ([]byte, *bottle.Assembly) {
	t.Helper()
	a := bottle.Assemble(nil, bottle.WithLabelOptions(label.WithSurfaceFactory(func(int, int) *image.RGBA { return nil })))
	data, err := exporter.Encode(a.Scene.Root())
	require.NoError(t, err)
	return data, a
}

func TestLoadReader_BottleSummary(t *testing.T) {
	data, a := bottleGLB(t)
	l := NewLoader(BackendTypeGLTF)

	s, err := l.LoadReader("bottle", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "bottle", s.Name)
	assert.Len(t, s.Meshes, 17)
	assert.Len(t, s.Materials, 6)
	assert.Equal(t, 1, s.Textures)
	assert.Equal(t, 1, s.Images)
	assert.Equal(t, 19, s.Nodes)
	assert.Equal(t, []string{"scene"}, s.Roots)

	triangles, vertices := 0, 0
	for _, g := range a.Geometries() {
		triangles += g.TriangleCount()
		vertices += g.VertexCount()
	}
	assert.Equal(t, triangles, s.Triangles)
	assert.Equal(t, vertices, s.Vertices)

	lbl, ok := s.Material("label")
	require.True(t, ok)
	assert.True(t, lbl.Textured)
	assert.InDelta(t, 0.85, lbl.Roughness, 1e-6)

	ground, ok := s.Material("ground")
	require.True(t, ok)
	assert.Equal(t, "BLEND", ground.AlphaMode)
	assert.InDelta(t, 0.18, ground.BaseColor[3], 1e-6)

	// ground plane spans 50 units in local X
	assert.InDelta(t, -25, s.Min[0], 1e-4)
	assert.InDelta(t, 25, s.Max[0], 1e-4)

	assert.Same(t, s, l.Get("bottle"))
}

func TestLoad_CachesByPath(t *testing.T) {
	data, _ := bottleGLB(t)
	path := filepath.Join(t.TempDir(), "oishii_bottle.glb")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	l := NewLoader(BackendTypeGLTF)
	first, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "oishii_bottle.glb", first.Name)

	require.NoError(t, os.Remove(path))
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, l.Summaries(), 1)
}

func TestLoad_Errors(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	_, err := l.Load("model.obj")
	assert.ErrorContains(t, err, "unsupported model format")

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)

	_, err = l.LoadReader("junk", strings.NewReader("not gltf"))
	assert.Error(t, err)
	assert.Nil(t, l.Get("junk"))
}

func TestWithSummary(t *testing.T) {
	s := &Summary{Name: "fixture"}
	l := NewLoader(BackendTypeGLTF, WithSummary("fixture.glb", s))

	got, err := l.Load("fixture.glb")
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestSummary_WriteText(t *testing.T) {
	data, _ := bottleGLB(t)
	s, err := NewLoader(BackendTypeGLTF).LoadReader("oishii_bottle.glb", bytes.NewReader(data))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "oishii_bottle.glb")
	assert.Contains(t, out, "meshes: 17")
	assert.Contains(t, out, "material label")
}
