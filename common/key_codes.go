package common

// Key codes delivered by the window layer. They match GLFW key codes, which use
// ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyE     = 69  // export the current scene
	KeyR     = 82  // reset the orbit controls
	KeySpace = 32  // pause or resume the spin
	KeyEsc   = 256 // quit (GLFW)
)

// MouseButton identifies a pointer button. Values match GLFW mouse buttons.
type MouseButton int

const (
	MouseButtonPrimary   MouseButton = 0 // rotate
	MouseButtonSecondary MouseButton = 1 // pan
	MouseButtonMiddle    MouseButton = 2 // dolly
)
