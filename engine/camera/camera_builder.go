package camera

import (
	"github.com/Carmen-Shannon/oiishi/common"
)

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithPerspective sets the projection parameters.
//
// Parameters:
//   - fov: vertical field of view in degrees
//   - aspect: width / height
//   - near: near clip distance
//   - far: far clip distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithPerspective(fov, aspect, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
		c.aspect = aspect
		c.near = near
		c.far = far
	}
}

// WithPosition sets the initial eye position.
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = common.Vec3{x, y, z}
	}
}

// WithTarget sets the initial look-at point.
func WithTarget(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = common.Vec3{x, y, z}
	}
}

// WithUp sets the up vector.
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = common.Vec3{x, y, z}
	}
}
