package material

import (
	"image"
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterial_Defaults(t *testing.T) {
	m := NewMaterial()

	assert.Equal(t, KindStandard, m.Kind())
	assert.Equal(t, common.Color{1, 1, 1}, m.Color())
	assert.Equal(t, float32(1), m.Roughness())
	assert.Equal(t, float32(1), m.Opacity())
	assert.Nil(t, m.Map())
}

func TestNewMaterial_PhysicalOptions(t *testing.T) {
	m := NewMaterial(
		WithName("body"),
		WithColor(common.Hex(0x2a2c26)),
		WithRoughness(0.5),
		WithMetalness(0.05),
		WithClearcoat(0.25),
		WithSheen(0.25),
	)

	assert.Equal(t, "body", m.Name())
	assert.Equal(t, KindPhysical, m.Kind())
	assert.Equal(t, uint32(0x2a2c26), m.Color().Hex())
	assert.Equal(t, float32(0.25), m.Clearcoat())
	assert.Equal(t, float32(0.25), m.Sheen())
}

func TestNewShadowMaterial(t *testing.T) {
	m := NewShadowMaterial(0.18)

	assert.Equal(t, KindShadow, m.Kind())
	assert.True(t, m.Transparent())
	assert.Equal(t, float32(0.18), m.Opacity())
}

func TestMaterial_DisposeLeavesMap(t *testing.T) {
	tex := NewBlankTexture()
	m := NewMaterial(WithMap(tex))

	assert.True(t, m.Dispose())
	assert.False(t, m.Dispose())
	assert.False(t, tex.Disposed())
}

func TestNewTexture_Blank(t *testing.T) {
	tex := NewTexture(nil, WithAnisotropy(0))

	assert.True(t, tex.Blank())
	assert.Equal(t, 1, tex.Width())
	assert.Equal(t, 1, tex.Height())
	assert.Equal(t, uint16(1), tex.Anisotropy())
}

func TestTexture_Sample(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255}) // top left
	img.Set(1, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255}) // bottom row
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	tex := NewTexture(img, WithSRGB(true), WithAnisotropy(8))

	top, alpha := tex.Sample(0.5, 1)
	assert.InDelta(t, 1, top[0], 1e-5)
	assert.InDelta(t, 1, alpha, 1e-5)

	bottom, _ := tex.Sample(0.5, 0)
	assert.InDelta(t, 1, bottom[2], 1e-5)

	staged := tex.Staging()
	require.Len(t, staged.Pixels, 16)
	assert.True(t, staged.SRGB)
	assert.Equal(t, uint16(8), tex.Sampler().MaxAnisotropy)
}
