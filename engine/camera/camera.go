package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/chewxy/math32"
)

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	mu *sync.Mutex

	position common.Vec3
	target   common.Vec3
	up       common.Vec3

	fov    float32 // degrees
	aspect float32
	near   float32
	far    float32

	view       common.Mat4
	projection common.Mat4
}

// Camera is a perspective camera. Matrices are recomputed whenever a property changes.
type Camera interface {
	// Position returns the world-space eye position.
	Position() common.Vec3

	// SetPosition moves the eye and keeps looking at the current target.
	SetPosition(p common.Vec3)

	// Target returns the point the camera looks at.
	Target() common.Vec3

	// LookAt orients the camera toward a world-space point.
	LookAt(target common.Vec3)

	// Up returns the camera up vector.
	Up() common.Vec3

	// Fov returns the vertical field of view in degrees.
	Fov() float32

	// SetFov sets the vertical field of view in degrees. Values outside (0, 180) are ignored.
	SetFov(fov float32)

	// Aspect returns the viewport aspect ratio (width / height).
	Aspect() float32

	// SetAspect sets the aspect ratio and updates the projection. Non-finite or
	// non-positive values are ignored so a degenerate viewport never yields NaN matrices.
	//
	// Parameters:
	//   - aspect: width / height
	//
	// Returns:
	//   - bool: true if the aspect was applied
	SetAspect(aspect float32) bool

	// Near returns the near clip distance.
	Near() float32

	// Far returns the far clip distance.
	Far() float32

	// ViewMatrix returns the world-to-view matrix.
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the view-to-clip matrix.
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns projection * view.
	ViewProjectionMatrix() common.Mat4

	// Frustum returns the world-space view frustum.
	Frustum() common.Frustum
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new perspective Camera.
// Defaults: fov 50 degrees, aspect 1, near 0.1, far 2000, at (0, 0, 1) looking at the origin.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Camera: the camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: common.Vec3{0, 0, 1},
		up:       common.Vec3{0, 1, 0},
		fov:      50,
		aspect:   1,
		near:     0.1,
		far:      2000,
	}
	for _, opt := range options {
		opt(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.updateMatrices()
}

func (c *cameraImpl) Target() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) LookAt(target common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.updateMatrices()
}

func (c *cameraImpl) Up() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fov <= 0 || fov >= 180 {
		return
	}
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !(aspect > 0) || math32.IsInf(aspect, 0) {
		return false
	}
	c.aspect = aspect
	c.updateMatrices()
	return true
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.Mul(c.view)
}

func (c *cameraImpl) Frustum() common.Frustum {
	return common.ExtractFrustum(c.ViewProjectionMatrix())
}

// updateMatrices recomputes view and projection. Callers must hold c.mu.
func (c *cameraImpl) updateMatrices() {
	c.view = common.LookAt(c.position, c.target, c.up)
	c.projection = common.Perspective(c.fov, c.aspect, c.near, c.far)
}
