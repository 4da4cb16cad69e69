package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_InvertRoundTrip(t *testing.T) {
	m := Compose(V3(1, -2, 3), V3(0.3, -0.7, 1.1), V3(2, 2, 0.5))
	inv, ok := m.Invert()
	require.True(t, ok)

	id := m.Mul(inv)
	want := Identity4()
	for i := range id {
		assert.InDelta(t, want[i], id[i], 1e-4, "element %d", i)
	}
	assert.Equal(t, V3(1, -2, 3), m.Translation())
}

func TestInvert_Singular(t *testing.T) {
	var zero Mat4
	_, ok := zero.Invert()
	assert.False(t, ok)
}

func TestLookAt_CenterOnNegativeZ(t *testing.T) {
	eye := V3(4.2, 3.2, 6)
	center := V3(0, 0.6, 0)
	view := LookAt(eye, center, V3(0, 1, 0))

	p := view.TransformPoint(center)
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, -eye.Sub(center).Len(), p[2], 1e-5)
}

func TestFrustum_IntersectsSphere(t *testing.T) {
	view := LookAt(V3(0, 0, 10), V3(0, 0, 0), V3(0, 1, 0))
	f := ExtractFrustum(Perspective(35, 1, 0.1, 100).Mul(view))

	assert.True(t, f.IntersectsSphere(V3(0, 0, 0), 1))
	assert.False(t, f.IntersectsSphere(V3(0, 0, 20), 1))
	assert.False(t, f.IntersectsSphere(V3(50, 0, 0), 1))
}

func TestQuatFromEuler(t *testing.T) {
	q := QuatFromEuler(V3(0, math.Pi, 0))
	assert.InDelta(t, 0, q[0], 1e-6)
	assert.InDelta(t, 1, q[1], 1e-6)
	assert.InDelta(t, 0, q[2], 1e-6)
	assert.InDelta(t, 0, q[3], 1e-6)

	assert.Equal(t, [4]float32{0, 0, 0, 1}, QuatFromEuler(Vec3{}))
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#cc3a20")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xcc3a20), c.Hex())

	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestCoalesceAndClamp(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, float32(1), Clamp(float32(2.5), 0, 1))
	assert.Equal(t, -1, Clamp(-5, -1, 1))
}
