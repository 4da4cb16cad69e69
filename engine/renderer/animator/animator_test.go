package animator

import (
	"testing"

	"github.com/Carmen-Shannon/oiishi/engine/scene"
	"github.com/stretchr/testify/assert"
)

func TestAnimator_SpinsDefaultSpeedPerFrame(t *testing.T) {
	n := scene.NewGroup("bottle")
	a := NewAnimator(WithInstances(n))

	for range 100 {
		a.PrepareFrame()
	}
	assert.InDelta(t, 1.0, n.Rotation()[1], 1e-4)
	assert.Zero(t, n.Rotation()[0])
}

func TestAnimator_Disabled(t *testing.T) {
	n := scene.NewGroup("bottle")
	a := NewAnimator(WithEnabled(false), WithInstances(n))

	a.PrepareFrame()
	assert.Zero(t, n.Rotation()[1])
	assert.False(t, a.Enabled())

	a.SetEnabled(true)
	a.PrepareFrame()
	assert.InDelta(t, DefaultSpinSpeed, n.Rotation()[1], 1e-7)
}

func TestAnimator_RotationSpeedAllAxes(t *testing.T) {
	n := scene.NewGroup("n")
	a := NewAnimator(WithRotationSpeed(0.5, 0, 0.25), WithInstances(n))

	a.PrepareFrame()

	r := n.Rotation()
	assert.InDelta(t, 0.5, r[0], 1e-7)
	assert.InDelta(t, 0, r[1], 1e-7)
	assert.InDelta(t, 0.25, r[2], 1e-7)
}

func TestAnimator_RotationSpeedAppliesToLaterInstances(t *testing.T) {
	before, after := scene.NewGroup("before"), scene.NewGroup("after")
	a := NewAnimator(WithInstances(before), WithRotationSpeed(0, 0.2, 0), WithInstances(after))

	a.PrepareFrame()
	assert.InDelta(t, DefaultSpinSpeed, before.Rotation()[1], 1e-7)
	assert.InDelta(t, 0.2, after.Rotation()[1], 1e-7)
}

func TestAnimator_Release(t *testing.T) {
	n := scene.NewGroup("n")
	a := NewAnimator(WithInstances(n))
	a.Release()
	a.PrepareFrame()
	assert.Zero(t, n.Rotation()[1])
}
