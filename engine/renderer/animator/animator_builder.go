package animator

import (
	"github.com/Carmen-Shannon/oiishi/engine/scene"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithRotationSpeed is an option builder that sets the per-frame rotation applied to
// instances added after it.
//
// Parameters:
//   - x, y, z: rotation speed in radians per frame around each axis
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the speed option to an animator
func WithRotationSpeed(x, y, z float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.defaultSpeed = [3]float32{x, y, z}
	}
}

// WithInstances registers nodes during construction.
func WithInstances(nodes ...scene.Node) AnimatorBuilderOption {
	return func(a *animator) {
		for _, n := range nodes {
			a.instances = append(a.instances, instance{node: n, rotSpeed: a.defaultSpeed})
		}
	}
}

// WithEnabled sets whether the animator starts running.
func WithEnabled(enabled bool) AnimatorBuilderOption {
	return func(a *animator) {
		a.enabled = enabled
	}
}
