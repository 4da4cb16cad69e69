package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/chewxy/math32"
)

const (
	// orbitEpsilon bounds the polar angle away from the poles and is the motion threshold
	// below which Update reports no change.
	orbitEpsilon = 1e-6

	// zoomBase is the per-step dolly factor before zoomSpeed is applied.
	zoomBase = 0.95
)

type gesture int

const (
	gestureNone gesture = iota
	gestureRotate
	gesturePan
	gestureDolly
)

// spherical is an offset from the target: radius, azimuth theta around +Y measured
// from +Z, and polar angle phi measured from +Y.
type spherical struct {
	radius float32
	theta  float32
	phi    float32
}

func sphericalFromOffset(v common.Vec3) spherical {
	r := v.Len()
	if r == 0 {
		return spherical{}
	}
	return spherical{
		radius: r,
		theta:  math32.Atan2(v[0], v[2]),
		phi:    math32.Acos(common.Clamp(v[1]/r, -1, 1)),
	}
}

func (s spherical) offset() common.Vec3 {
	sinPhi := math32.Sin(s.phi)
	return common.Vec3{
		s.radius * sinPhi * math32.Sin(s.theta),
		s.radius * math32.Cos(s.phi),
		s.radius * sinPhi * math32.Cos(s.theta),
	}
}

type savedState struct {
	target   common.Vec3
	position common.Vec3
}

// orbitControlsImpl is the implementation of the OrbitControls interface.
type orbitControlsImpl struct {
	mu     *sync.Mutex
	camera Camera

	target common.Vec3

	enabled       bool
	disposed      bool
	enableDamping bool
	dampingFactor float32
	rotateSpeed   float32
	zoomSpeed     float32
	panSpeed      float32
	minDistance   float32
	maxDistance   float32
	minPolar      float32
	maxPolar      float32

	viewportW int
	viewportH int

	// pending deltas
	delta     spherical
	scale     float32
	panOffset common.Vec3

	state  gesture
	button common.MouseButton
	lastX  float32
	lastY  float32

	saved savedState
}

var _ OrbitControls = &orbitControlsImpl{}

// NewOrbitControls creates OrbitControls for a camera. The camera is pointed at the
// target immediately and the initial state is saved for Reset.
// Defaults: damping off (factor 0.05), rotate/zoom/pan speed 1, unbounded distance,
// polar angle in [0, pi].
//
// Parameters:
//   - cam: the camera to drive, must be non-nil
//   - options: functional options
//
// Returns:
//   - OrbitControls: the controls
func NewOrbitControls(cam Camera, options ...OrbitControlsOption) OrbitControls {
	if cam == nil {
		panic("camera: NewOrbitControls requires a camera")
	}
	oc := &orbitControlsImpl{
		mu:            &sync.Mutex{},
		camera:        cam,
		target:        cam.Target(),
		enabled:       true,
		dampingFactor: 0.05,
		rotateSpeed:   1,
		zoomSpeed:     1,
		panSpeed:      1,
		minDistance:   0,
		maxDistance:   math32.Inf(1),
		minPolar:      0,
		maxPolar:      math32.Pi,
		scale:         1,
		viewportW:     1,
		viewportH:     1,
	}
	for _, opt := range options {
		opt(oc)
	}
	cam.LookAt(oc.target)
	oc.saved = savedState{target: oc.target, position: cam.Position()}
	return oc
}

func (oc *orbitControlsImpl) Camera() Camera {
	return oc.camera
}

func (oc *orbitControlsImpl) Target() common.Vec3 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

func (oc *orbitControlsImpl) SetTarget(t common.Vec3) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = t
}

func (oc *orbitControlsImpl) Distance() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.camera.Position().Sub(oc.target).Len()
}

func (oc *orbitControlsImpl) Enabled() bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.enabled && !oc.disposed
}

func (oc *orbitControlsImpl) SetEnabled(enabled bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.enabled = enabled
	if !enabled {
		oc.state = gestureNone
	}
}

func (oc *orbitControlsImpl) SetViewport(width, height int) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	oc.viewportW = width
	oc.viewportH = height
}

func (oc *orbitControlsImpl) PointerDown(button common.MouseButton, x, y float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if !oc.enabled || oc.disposed || oc.state != gestureNone {
		return
	}
	switch button {
	case common.MouseButtonPrimary:
		oc.state = gestureRotate
	case common.MouseButtonSecondary:
		oc.state = gesturePan
	case common.MouseButtonMiddle:
		oc.state = gestureDolly
	default:
		return
	}
	oc.button = button
	oc.lastX, oc.lastY = x, y
}

func (oc *orbitControlsImpl) PointerMove(x, y float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if !oc.enabled || oc.disposed || oc.state == gestureNone {
		return
	}
	dx, dy := x-oc.lastX, y-oc.lastY
	oc.lastX, oc.lastY = x, y
	h := float32(oc.viewportH)

	switch oc.state {
	case gestureRotate:
		oc.delta.theta -= 2 * math32.Pi * dx / h * oc.rotateSpeed
		oc.delta.phi -= 2 * math32.Pi * dy / h * oc.rotateSpeed
	case gesturePan:
		oc.pan(dx*oc.panSpeed, dy*oc.panSpeed)
	case gestureDolly:
		if dy > 0 {
			oc.scale /= oc.zoomScale()
		} else if dy < 0 {
			oc.scale *= oc.zoomScale()
		}
	}
}

func (oc *orbitControlsImpl) PointerUp(button common.MouseButton) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if oc.state != gestureNone && button == oc.button {
		oc.state = gestureNone
	}
}

func (oc *orbitControlsImpl) Wheel(deltaY float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if !oc.enabled || oc.disposed {
		return
	}
	if deltaY < 0 {
		oc.scale *= oc.zoomScale()
	} else if deltaY > 0 {
		oc.scale /= oc.zoomScale()
	}
}

func (oc *orbitControlsImpl) Rotate(azimuth, polar float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if oc.disposed {
		return
	}
	oc.delta.theta += azimuth
	oc.delta.phi += polar
}

func (oc *orbitControlsImpl) Update() bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if oc.disposed {
		return false
	}

	before := oc.camera.Position()
	s := sphericalFromOffset(before.Sub(oc.target))

	factor := float32(1)
	if oc.enableDamping {
		factor = oc.dampingFactor
	}
	s.theta += oc.delta.theta * factor
	s.phi += oc.delta.phi * factor
	s.phi = common.Clamp(s.phi, oc.minPolar, oc.maxPolar)
	s.phi = common.Clamp(s.phi, orbitEpsilon, math32.Pi-orbitEpsilon)

	s.radius = common.Clamp(s.radius*oc.scale, oc.minDistance, oc.maxDistance)

	oc.target = oc.target.Add(oc.panOffset.Scale(factor))
	after := oc.target.Add(s.offset())
	oc.camera.SetPosition(after)
	oc.camera.LookAt(oc.target)

	if oc.enableDamping {
		decay := 1 - oc.dampingFactor
		oc.delta.theta *= decay
		oc.delta.phi *= decay
		oc.panOffset = oc.panOffset.Scale(decay)
	} else {
		oc.delta = spherical{}
		oc.panOffset = common.Vec3{}
	}
	oc.scale = 1

	moved := after.Sub(before)
	return moved.Dot(moved) > orbitEpsilon
}

func (oc *orbitControlsImpl) SaveState() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.saved = savedState{target: oc.target, position: oc.camera.Position()}
}

func (oc *orbitControlsImpl) Reset() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = oc.saved.target
	oc.camera.SetPosition(oc.saved.position)
	oc.camera.LookAt(oc.target)
	oc.delta = spherical{}
	oc.panOffset = common.Vec3{}
	oc.scale = 1
	oc.state = gestureNone
}

func (oc *orbitControlsImpl) Dispose() bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if oc.disposed {
		return false
	}
	oc.disposed = true
	oc.state = gestureNone
	return true
}

func (oc *orbitControlsImpl) Disposed() bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.disposed
}

func (oc *orbitControlsImpl) zoomScale() float32 {
	return math32.Pow(zoomBase, oc.zoomSpeed)
}

// pan queues a screen-space pan. Distances are converted to world units at the target
// depth so the point under the pointer tracks the pointer. Callers must hold oc.mu.
func (oc *orbitControlsImpl) pan(dx, dy float32) {
	offset := oc.camera.Position().Sub(oc.target)
	targetDistance := offset.Len() * math32.Tan(oc.camera.Fov()*math32.Pi/360)
	h := float32(oc.viewportH)

	view := oc.camera.ViewMatrix()
	right := common.Vec3{view[0], view[4], view[8]}
	up := common.Vec3{view[1], view[5], view[9]}

	oc.panOffset = oc.panOffset.
		Add(right.Scale(-2 * dx * targetDistance / h)).
		Add(up.Scale(2 * dy * targetDistance / h))
}
