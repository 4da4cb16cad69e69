package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/camera"
	"github.com/Carmen-Shannon/oiishi/engine/geometry"
	"github.com/Carmen-Shannon/oiishi/engine/light"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"github.com/Carmen-Shannon/oiishi/engine/scene"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var background = common.Hex(0x808080)

func newSoftwareRenderer(t *testing.T, options ...RendererBuilderOption) Renderer {
	t.Helper()
	r, err := NewRenderer(BackendTypeSoftware, nil, append([]RendererBuilderOption{WithWorkers(2)}, options...)...)
	require.NoError(t, err)
	t.Cleanup(func() { r.Dispose() })
	return r
}

func frontCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithPerspective(50, 1, 0.1, 100),
		camera.WithPosition(0, 0, 3),
		camera.WithTarget(0, 0, 0),
	)
}

func hemisphere() light.Light {
	return light.NewLight(
		light.WithType(light.LightTypeHemisphere),
		light.WithColor(common.Hex(0xffffff)),
		light.WithGroundColor(common.Hex(0xffffff)),
		light.WithIntensity(1),
	)
}

func TestRenderer_BeforeSetSizeIsNoop(t *testing.T) {
	r := newSoftwareRenderer(t)
	s := scene.NewScene(scene.WithBackground(background))

	require.NoError(t, r.Render(s, frontCamera()))
	assert.Zero(t, r.RenderCount())

	_, err := r.Snapshot()
	assert.ErrorIs(t, err, ErrSnapshotUnsupported)
}

func TestRenderer_SetSizeIgnoresInvalid(t *testing.T) {
	r := newSoftwareRenderer(t)
	require.NoError(t, r.SetSize(0, 10))
	require.NoError(t, r.SetSize(10, -1))
	w, h := r.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)

	require.NoError(t, r.SetSize(16, 8))
	w, h = r.Size()
	assert.Equal(t, 16, w)
	assert.Equal(t, 8, h)
}

func TestRenderer_PixelRatioCapped(t *testing.T) {
	r := newSoftwareRenderer(t, WithPixelRatio(3))
	assert.Equal(t, MaxPixelRatio, r.PixelRatio())

	r.SetPixelRatio(-1)
	assert.Equal(t, MaxPixelRatio, r.PixelRatio())

	require.NoError(t, r.SetSize(10, 5))
	require.NoError(t, r.Render(scene.NewScene(scene.WithBackground(background)), frontCamera()))
	img, err := r.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestRenderer_DrawsBackgroundAndMesh(t *testing.T) {
	r := newSoftwareRenderer(t)
	require.NoError(t, r.SetSize(32, 32))

	red := material.NewMaterial(material.WithColor(common.Hex(0xff0000)), material.WithRoughness(1))
	s := scene.NewScene(
		scene.WithBackground(background),
		scene.WithLights(hemisphere()),
		scene.WithNodes(scene.NewMesh("quad", geometry.NewPlane(1, 1), red)),
	)

	require.NoError(t, r.Render(s, frontCamera()))
	assert.Equal(t, uint64(1), r.RenderCount())
	assert.Equal(t, 1, r.Stats().Drawn)
	assert.Equal(t, 2, r.Stats().Triangles)

	img, err := r.Snapshot()
	require.NoError(t, err)

	corner := img.RGBAAt(0, 0)
	assert.Equal(t, background.RGBA(), corner)

	center := img.RGBAAt(16, 16)
	assert.Greater(t, center.R, center.G)
	assert.Greater(t, center.R, center.B)
	assert.Equal(t, uint8(0xff), center.A)
}

func TestRenderer_CullsOutsideFrustum(t *testing.T) {
	r := newSoftwareRenderer(t)
	require.NoError(t, r.SetSize(8, 8))

	s := scene.NewScene(
		scene.WithBackground(background),
		scene.WithNodes(scene.NewMesh("behind", geometry.NewPlane(1, 1), material.NewMaterial(), scene.WithPosition(0, 0, 10))),
	)
	require.NoError(t, r.Render(s, frontCamera()))
	assert.Equal(t, FrameStats{Culled: 1}, r.Stats())
}

func TestRenderer_ShadowMaterial(t *testing.T) {
	floor := func(name string, size, y float32, m material.Material, cast, receive bool) scene.Node {
		return scene.NewMesh(name, geometry.NewPlane(size, size), m,
			scene.WithPosition(0, y, 0),
			scene.WithRotation(-math32.Pi/2, 0, 0),
			scene.WithShadows(cast, receive),
		)
	}
	sun := light.NewLight(
		light.WithType(light.LightTypeDirectional),
		light.WithPosition(0, 5, 0),
		light.WithTarget(0, 0, 0),
		light.WithCastsShadows(true),
		light.WithShadowMapSize(64, 64),
	)
	cam := camera.NewCamera(
		camera.WithPerspective(50, 1, 0.1, 100),
		camera.WithPosition(0, 3, 3),
		camera.WithTarget(0, 0, 0),
	)

	t.Run("unoccluded ground stays transparent", func(t *testing.T) {
		r := newSoftwareRenderer(t, WithShadows(true))
		require.NoError(t, r.SetSize(32, 32))
		s := scene.NewScene(
			scene.WithBackground(background),
			scene.WithLights(sun),
			scene.WithNodes(floor("ground", 4, 0, material.NewShadowMaterial(0.5), false, true)),
		)
		require.NoError(t, r.Render(s, cam))

		img, err := r.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, background.RGBA(), img.RGBAAt(16, 16))
	})

	t.Run("caster darkens ground", func(t *testing.T) {
		r := newSoftwareRenderer(t, WithShadows(true))
		require.NoError(t, r.SetSize(32, 32))
		invisible := material.NewMaterial(material.WithTransparent(true), material.WithOpacity(0))
		s := scene.NewScene(
			scene.WithBackground(background),
			scene.WithLights(sun),
			scene.WithNodes(
				floor("ground", 4, 0, material.NewShadowMaterial(0.5), false, true),
				floor("caster", 2, 2.5, invisible, true, false),
			),
		)
		require.NoError(t, r.Render(s, cam))

		img, err := r.Snapshot()
		require.NoError(t, err)
		assert.Less(t, img.RGBAAt(16, 16).R, background.RGBA().R)
	})
}

func TestRenderer_Dispose(t *testing.T) {
	r, err := NewRenderer(BackendTypeSoftware, nil)
	require.NoError(t, err)

	assert.True(t, r.Dispose())
	assert.False(t, r.Dispose())
	assert.True(t, r.Disposed())
	assert.ErrorIs(t, r.Render(scene.NewScene(), frontCamera()), ErrDisposed)
}

func TestSoftwareBackend_ReleaseStopsLanes(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	b := newSoftwareRendererBackend(4)
	require.Len(t, b.lanes, 4)
	require.NoError(t, b.Configure(16, 16))
	require.NoError(t, b.Draw(&Frame{Width: 16, Height: 16, Background: background}))

	b.Release()
	b.Release()

	assert.Nil(t, b.lanes)
	assert.ErrorIs(t, b.Draw(&Frame{Width: 16, Height: 16, Background: background}), ErrDisposed)
	assert.ErrorIs(t, b.Configure(16, 16), ErrDisposed)
	_, err := b.Snapshot()
	assert.ErrorIs(t, err, ErrSnapshotUnsupported)
}

func TestNewRenderer_WGPURequiresSurface(t *testing.T) {
	_, err := NewRenderer(BackendTypeWGPU, nil)
	assert.ErrorIs(t, err, ErrNoSurface)
}

func TestBackendTypeString(t *testing.T) {
	assert.Equal(t, "software", BackendTypeSoftware.String())
	assert.Equal(t, "wgpu", BackendTypeWGPU.String())
}
