package camera

import (
	"github.com/Carmen-Shannon/oiishi/common"
)

// OrbitControls orbits a Camera around a target point in response to pointer input.
// Input handlers only accumulate deltas; Update applies them to the camera. With damping
// enabled each Update applies a fraction of the pending delta and decays the rest, so the
// motion eases out over subsequent frames.
type OrbitControls interface {
	// Camera returns the controlled camera.
	Camera() Camera

	// Target returns the orbit pivot.
	Target() common.Vec3

	// SetTarget moves the orbit pivot. The camera offset is preserved on the next Update.
	//
	// Parameters:
	//   - t: world-space pivot
	SetTarget(t common.Vec3)

	// Distance returns the current camera distance from the target.
	Distance() float32

	// Enabled reports whether input is accepted.
	Enabled() bool

	// SetEnabled toggles input handling. Pending deltas still drain through Update.
	SetEnabled(enabled bool)

	// SetViewport sets the size of the element receiving pointer input, in pixels.
	// Rotation and pan are scaled by the viewport height.
	//
	// Parameters:
	//   - width: viewport width
	//   - height: viewport height
	SetViewport(width, height int)

	// PointerDown begins a drag gesture for the given button.
	//
	// Parameters:
	//   - button: primary rotates, secondary pans, middle dollies
	//   - x, y: pointer position in pixels
	PointerDown(button common.MouseButton, x, y float32)

	// PointerMove continues the active drag gesture. Without an active gesture it is a no-op.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	PointerMove(x, y float32)

	// PointerUp ends the drag gesture started by button.
	PointerUp(button common.MouseButton)

	// Wheel zooms. Negative deltaY dollies in, positive dollies out.
	//
	// Parameters:
	//   - deltaY: wheel delta; only its sign is used
	Wheel(deltaY float32)

	// Rotate queues an azimuth and polar rotation in radians.
	Rotate(azimuth, polar float32)

	// Update applies pending deltas to the camera. Call once per frame.
	//
	// Returns:
	//   - bool: true if the camera moved
	Update() bool

	// SaveState records the current target, position and zoom for Reset.
	SaveState()

	// Reset restores the saved state and clears pending deltas.
	Reset()

	// Dispose detaches the controls. Further input is ignored.
	//
	// Returns:
	//   - bool: true on the first call, false if already disposed
	Dispose() bool

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}
