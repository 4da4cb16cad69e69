package light

import (
	"testing"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyLight() Light {
	return NewLight(
		WithType(LightTypeDirectional),
		WithColor(common.Hex(0xffffff)),
		WithIntensity(1.05),
		WithPosition(5, 8, 4),
		WithCastsShadows(true),
		WithShadowMapSize(1024, 1024),
	)
}

func fillLight() Light {
	return NewLight(
		WithType(LightTypeHemisphere),
		WithColor(common.Hex(0xffffff)),
		WithGroundColor(common.Hex(0xd9cbb6)),
		WithIntensity(0.9),
	)
}

func TestNewLight_Directional(t *testing.T) {
	l := keyLight()

	assert.True(t, l.CastsShadows())
	assert.Equal(t, 1024, l.Shadow().MapWidth)
	assert.Equal(t, 1024, l.Shadow().MapHeight)

	d := l.Direction()
	assert.InDelta(t, 1, d.Len(), 1e-5)
	assert.Less(t, d[1], float32(0))
}

func TestNewLight_HemisphereNeverCastsShadows(t *testing.T) {
	l := NewLight(WithCastsShadows(true))
	assert.Equal(t, LightTypeHemisphere, l.Type())
	assert.False(t, l.CastsShadows())
}

func TestShadowViewProjection_ContainsOrigin(t *testing.T) {
	vp := keyLight().ShadowViewProjection()
	c := vp.TransformPoint(common.Vec3{0, 0, 0})

	assert.InDelta(t, 0, c[0], 1e-4)
	assert.InDelta(t, 0, c[1], 1e-4)
	assert.Greater(t, c[2], float32(0))
	assert.Less(t, c[2], float32(1))
}

func TestIrradiance(t *testing.T) {
	lights := []Light{fillLight(), keyLight()}
	up := common.Vec3{0, 1, 0}

	lit := Irradiance(lights, up, 1)
	shadowed := Irradiance(lights, up, 0)
	assert.Greater(t, lit[0], shadowed[0])

	// shadowed up-facing surfaces still get the full sky color
	assert.InDelta(t, 0.9, shadowed[0], 1e-4)

	down := Irradiance(lights, common.Vec3{0, -1, 0}, 1)
	assert.Less(t, down[2], shadowed[2])
}

func TestIrradiance_SkipsDisabled(t *testing.T) {
	l := fillLight()
	l.SetEnabled(false)
	assert.Equal(t, common.Color{}, Irradiance([]Light{l}, common.Vec3{0, 1, 0}, 1))
}

func TestPackSceneLights(t *testing.T) {
	g := PackSceneLights([]Light{fillLight(), keyLight()})

	assert.InDelta(t, 0.9, g.Sky[0], 1e-4)
	assert.InDelta(t, 1.05, g.KeyColor[1], 1e-4)
	assert.Equal(t, float32(1), g.KeyDirection[3])
	require.Len(t, g.Marshal(), GPUSceneLightsSize)
}
