package bottle

import (
	"image"
	"testing"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/label"
	"github.com/Carmen-Shannon/oiishi/engine/light"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"github.com/Carmen-Shannon/oiishi/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedAnisotropy uint16

func (f fixedAnisotropy) MaxAnisotropy() uint16 { return uint16(f) }

func noSurface(int, int) *image.RGBA { return nil }

func blankAssembly(t *testing.T) *Assembly {
	t.Helper()
	a := Assemble(nil, WithLabelOptions(label.WithSurfaceFactory(noSurface)))
	require.NotNil(t, a)
	return a
}

func TestAssemble_SceneSetup(t *testing.T) {
	a := blankAssembly(t)

	assert.Equal(t, common.Hex(0xf5f1ea), a.Scene.Background())
	assert.Equal(t, float32(35), a.Camera.Fov())
	assert.Equal(t, float32(1), a.Camera.Aspect())
	assert.Equal(t, float32(0.1), a.Camera.Near())
	assert.Equal(t, float32(100), a.Camera.Far())
	assert.Equal(t, common.Vec3{4.2, 3.2, 6}, a.Camera.Position())

	require.Len(t, a.Scene.Lights(), 2)
	hemi, key := a.Scene.Lights()[0], a.Scene.Lights()[1]
	assert.Equal(t, light.LightTypeHemisphere, hemi.Type())
	assert.Equal(t, common.Hex(0xd9cbb6), hemi.GroundColor())
	assert.Equal(t, float32(0.9), hemi.Intensity())
	assert.Equal(t, light.LightTypeDirectional, key.Type())
	assert.True(t, key.CastsShadows())
	assert.Equal(t, 1024, key.Shadow().MapWidth)
	assert.Equal(t, common.Vec3{5, 8, 4}, key.Position())
}

func TestAssemble_Ground(t *testing.T) {
	a := blankAssembly(t)
	g := a.Scene.Find(GroundName)
	require.NotNil(t, g)
	assert.Same(t, a.Ground, g)
	assert.Equal(t, material.KindShadow, g.Material().Kind())
	assert.Equal(t, float32(0.18), g.Material().Opacity())
	assert.Equal(t, float32(-1.25), g.Position()[1])
	assert.False(t, g.CastShadow())
	assert.True(t, g.ReceiveShadow())
}

func TestAssemble_BottleGroup(t *testing.T) {
	a := blankAssembly(t)
	require.Equal(t, GroupName, a.Bottle.Name())
	assert.Len(t, a.Bottle.Children(), 4+RingCount+2)

	byName := map[string]scene.Node{}
	for _, c := range a.Bottle.Children() {
		byName[c.Name()] = c
	}

	assert.True(t, byName["body"].CastShadow())
	assert.True(t, byName["body"].ReceiveShadow())
	assert.Same(t, byName["body"].Material(), byName["base"].Material())
	assert.Same(t, byName["cap"].Material(), byName["tip"].Material())
	assert.Equal(t, float32(2.35), byName["tip"].Position()[1])

	ring0, ring9 := byName["ring-0"], byName["ring-9"]
	require.NotNil(t, ring0)
	require.NotNil(t, ring9)
	assert.Same(t, ring0.Material(), ring9.Material())
	assert.NotSame(t, ring0.Geometry(), ring9.Geometry())
	assert.InDelta(t, 1.76+9*0.03, ring9.Position()[1], 1e-6)
	assert.False(t, ring0.ReceiveShadow())

	lbl := byName["label"]
	assert.Same(t, a.Label, lbl.Material().Map())
	assert.False(t, lbl.CastShadow())
	assert.Equal(t, -1, byName["frame"].RenderOrder())
	assert.Equal(t, common.Vec3{0, 0.1, 1.234}, byName["frame"].Position())
}

func TestAssemble_ResourcesUnique(t *testing.T) {
	a := blankAssembly(t)

	// ground + body, base, cap, tip + rings + label, frame
	assert.Len(t, a.Geometries(), 1+4+RingCount+2)
	assert.Len(t, a.Materials(), 6)
	assert.Len(t, a.Textures(), 1)

	seen := map[any]bool{}
	for _, g := range a.Geometries() {
		assert.False(t, seen[g])
		seen[g] = true
	}
	for _, m := range a.Materials() {
		assert.False(t, seen[m])
		seen[m] = true
	}

	// every mesh in the scene uses a tracked geometry and material
	a.Scene.Root().Traverse(func(n scene.Node) bool {
		if n.IsMesh() {
			assert.True(t, seen[n.Geometry()], n.Name())
			assert.True(t, seen[n.Material()], n.Name())
		}
		return true
	})
}

func TestAssemble_LabelFallback(t *testing.T) {
	a := blankAssembly(t)
	require.NotNil(t, a.Label)
	assert.True(t, a.Label.Blank())
}

func TestAssemble_LabelAnisotropy(t *testing.T) {
	a := Assemble(fixedAnisotropy(8))
	assert.False(t, a.Label.Blank())
	assert.Equal(t, uint16(8), a.Label.Anisotropy())
	assert.True(t, a.Label.SRGB())
}

func TestAssemble_WithLabelTexture(t *testing.T) {
	tex := material.NewBlankTexture(material.WithTextureName("stub"))
	a := Assemble(nil, WithLabelTexture(tex))
	assert.Same(t, tex, a.Label)
}
