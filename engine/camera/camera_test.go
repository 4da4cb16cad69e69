package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBottleCamera() Camera {
	return NewCamera(
		WithPerspective(35, 1, 0.1, 100),
		WithPosition(4.2, 3.2, 6),
	)
}

func TestSetAspect(t *testing.T) {
	c := newBottleCamera()
	pos := c.Position()

	assert.False(t, c.SetAspect(0))
	assert.False(t, c.SetAspect(-1))
	assert.False(t, c.SetAspect(math32.NaN()))
	assert.False(t, c.SetAspect(math32.Inf(1)))
	assert.Equal(t, float32(1), c.Aspect())

	require.True(t, c.SetAspect(2))
	assert.Equal(t, float32(2), c.Aspect())
	assert.Equal(t, float32(35), c.Fov())
	assert.Equal(t, pos, c.Position())

	p := c.ProjectionMatrix()
	assert.InDelta(t, p[5]/2, p[0], 1e-6)
}

func TestFrustum(t *testing.T) {
	c := newBottleCamera()
	c.LookAt(common.Vec3{0, 0.6, 0})
	f := c.Frustum()

	assert.True(t, f.IntersectsSphere(common.Vec3{0, 0.6, 0}, 0.1))

	back := c.Position().Sub(c.Target()).Normalize()
	behind := c.Position().Add(back.Scale(10))
	assert.False(t, f.IntersectsSphere(behind, 0.5))
	assert.False(t, f.IntersectsSphere(common.Vec3{0, 0, 500}, 1))
}

func TestGPUCameraUniform_Marshal(t *testing.T) {
	c := newBottleCamera()
	u := NewGPUCameraUniform(c)
	buf := u.Marshal()
	assert.Len(t, buf, GPUCameraUniformSize)
	assert.Equal(t, c.Position(), common.Vec3(u.CameraPosition))
}

func TestOrbitControls_TargetsPivot(t *testing.T) {
	c := newBottleCamera()
	oc := NewOrbitControls(c, WithOrbitTarget(0, 0.6, 0), WithDamping(true, 0.05))

	assert.Equal(t, common.Vec3{0, 0.6, 0}, oc.Target())
	assert.Equal(t, common.Vec3{0, 0.6, 0}, c.Target())
	assert.InDelta(t, math32.Sqrt(4.2*4.2+2.6*2.6+36), oc.Distance(), 1e-4)
}

func TestOrbitControls_DampingDecays(t *testing.T) {
	c := newBottleCamera()
	oc := NewOrbitControls(c, WithOrbitTarget(0, 0.6, 0), WithDamping(true, 0.05))
	oc.Rotate(1, 0)

	azimuth := func() float32 {
		off := c.Position().Sub(oc.Target())
		return math32.Atan2(off[0], off[2])
	}

	prev := azimuth()
	var steps []float32
	for range 5 {
		require.True(t, oc.Update())
		cur := azimuth()
		steps = append(steps, cur-prev)
		prev = cur
	}

	assert.InDelta(t, 0.05, steps[0], 1e-4)
	for i := 1; i < len(steps); i++ {
		assert.Less(t, steps[i], steps[i-1])
		assert.InDelta(t, steps[i-1]*0.95, steps[i], 1e-4)
	}
}

func TestOrbitControls_NoDampingAppliesAtOnce(t *testing.T) {
	c := newBottleCamera()
	oc := NewOrbitControls(c, WithOrbitTarget(0, 0.6, 0))
	oc.Rotate(0.5, 0)

	assert.True(t, oc.Update())
	assert.False(t, oc.Update())
}

func TestOrbitControls_WheelZoom(t *testing.T) {
	c := newBottleCamera()
	oc := NewOrbitControls(c, WithOrbitTarget(0, 0.6, 0))
	d := oc.Distance()

	oc.Wheel(-100)
	oc.Update()
	assert.InDelta(t, d*0.95, oc.Distance(), 1e-4)

	oc.Wheel(100)
	oc.Update()
	assert.InDelta(t, d, oc.Distance(), 1e-4)
}

func TestOrbitControls_DistanceBounds(t *testing.T) {
	c := newBottleCamera()
	oc := NewOrbitControls(c, WithOrbitTarget(0, 0.6, 0), WithDistanceBounds(7, 8))
	for range 20 {
		oc.Wheel(-1)
		oc.Update()
	}
	assert.InDelta(t, 7, oc.Distance(), 1e-4)
}

func TestOrbitControls_PointerDrag(t *testing.T) {
	c := newBottleCamera()
	oc := NewOrbitControls(c, WithOrbitTarget(0, 0.6, 0), WithViewport(800, 600))
	start := c.Position()

	oc.PointerMove(10, 10)
	assert.False(t, oc.Update(), "move without a gesture is ignored")

	oc.PointerDown(common.MouseButtonPrimary, 100, 100)
	oc.PointerMove(160, 100)
	oc.PointerUp(common.MouseButtonPrimary)
	assert.True(t, oc.Update())
	assert.NotEqual(t, start, c.Position())
	assert.Equal(t, common.Vec3{0, 0.6, 0}, oc.Target())

	oc.PointerDown(common.MouseButtonSecondary, 100, 100)
	oc.PointerMove(100, 140)
	oc.PointerUp(common.MouseButtonSecondary)
	oc.Update()
	assert.NotEqual(t, common.Vec3{0, 0.6, 0}, oc.Target())
}

func TestOrbitControls_Reset(t *testing.T) {
	c := newBottleCamera()
	oc := NewOrbitControls(c, WithOrbitTarget(0, 0.6, 0), WithDamping(true, 0.05))
	start := c.Position()

	oc.Rotate(1, 0.2)
	oc.Update()
	oc.Reset()

	assert.InDelta(t, start[0], c.Position()[0], 1e-5)
	assert.InDelta(t, start[2], c.Position()[2], 1e-5)
	assert.False(t, oc.Update())
}

func TestOrbitControls_Dispose(t *testing.T) {
	oc := NewOrbitControls(newBottleCamera())

	assert.True(t, oc.Dispose())
	assert.False(t, oc.Dispose())
	assert.True(t, oc.Disposed())
	assert.False(t, oc.Enabled())

	oc.Rotate(1, 0)
	assert.False(t, oc.Update())
}
