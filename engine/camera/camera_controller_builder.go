package camera

import (
	"github.com/Carmen-Shannon/oiishi/common"
)

// OrbitControlsOption is a functional option for configuring OrbitControls.
type OrbitControlsOption func(*orbitControlsImpl)

// WithOrbitTarget sets the orbit pivot.
//
// Parameters:
//   - x: X coordinate of the target
//   - y: Y coordinate of the target
//   - z: Z coordinate of the target
//
// Returns:
//   - OrbitControlsOption: functional option to set the target position
func WithOrbitTarget(x, y, z float32) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.target = common.Vec3{x, y, z}
	}
}

// WithDamping enables or disables inertia.
//
// Parameters:
//   - enabled: whether deltas decay over several frames
//   - factor: fraction of the pending delta applied per Update, in (0, 1]
//
// Returns:
//   - OrbitControlsOption: functional option to set damping
func WithDamping(enabled bool, factor float32) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.enableDamping = enabled
		if factor > 0 && factor <= 1 {
			oc.dampingFactor = factor
		}
	}
}

// WithRotateSpeed scales pointer rotation.
func WithRotateSpeed(speed float32) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.rotateSpeed = speed
	}
}

// WithZoomSpeed sets the exponent applied to the per-step zoom factor 0.95.
func WithZoomSpeed(speed float32) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.zoomSpeed = speed
	}
}

// WithPanSpeed scales pointer panning.
func WithPanSpeed(speed float32) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.panSpeed = speed
	}
}

// WithDistanceBounds clamps the camera distance from the target.
//
// Parameters:
//   - minDistance: closest allowed distance
//   - maxDistance: farthest allowed distance
//
// Returns:
//   - OrbitControlsOption: functional option to set distance bounds
func WithDistanceBounds(minDistance, maxDistance float32) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.minDistance = minDistance
		oc.maxDistance = maxDistance
	}
}

// WithPolarBounds clamps the polar angle, measured from +Y, in radians.
func WithPolarBounds(minPolar, maxPolar float32) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.minPolar = minPolar
		oc.maxPolar = maxPolar
	}
}

// WithViewport sets the initial input viewport size.
func WithViewport(width, height int) OrbitControlsOption {
	return func(oc *orbitControlsImpl) {
		oc.viewportW = width
		oc.viewportH = height
	}
}
