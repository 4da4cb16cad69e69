package renderer

import (
	"image"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/geometry"
	"github.com/Carmen-Shannon/oiishi/engine/light"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeSoftware rasterizes on the CPU into an in-memory image. It needs no window.
	BackendTypeSoftware RendererBackendType = iota

	// BackendTypeWGPU selects the WebGPU-based rendering backend bound to a window surface.
	BackendTypeWGPU
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeSoftware:
		return "software"
	case BackendTypeWGPU:
		return "wgpu"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default for the wgpu backend.
	MSAA4x MSAASampleCount = 4
)

// DrawItem is one mesh resolved for a frame.
type DrawItem struct {
	Geometry      geometry.Geometry
	Material      material.Material
	World         common.Mat4
	Normal        common.Mat4
	CastShadow    bool
	ReceiveShadow bool
}

// Frame is everything a backend needs to draw one image. Items are already culled
// and in draw order.
type Frame struct {
	// Width and Height are in physical pixels.
	Width  int
	Height int

	Background common.Color
	ViewProj   common.Mat4
	Eye        common.Vec3
	Lights     []light.Light

	Items []DrawItem

	// ShadowLight is the directional light whose shadow map is rendered, or nil.
	ShadowLight light.Light
	// ShadowCasters are the items drawn into the shadow map. They are not camera culled.
	ShadowCasters []DrawItem
}

// RendererBackend is the interface a Renderer drives. Backends are not safe for
// concurrent use; the Renderer serializes calls.
type RendererBackend interface {
	// Configure resizes the render target.
	//
	// Parameters:
	//   - width: target width in physical pixels, > 0
	//   - height: target height in physical pixels, > 0
	//
	// Returns:
	//   - error: an error if the target could not be (re)created
	Configure(width, height int) error

	// MaxAnisotropy returns the highest anisotropic filtering level the backend supports.
	MaxAnisotropy() uint16

	// Draw renders a frame.
	Draw(f *Frame) error

	// Snapshot returns a copy of the last drawn image.
	Snapshot() (*image.RGBA, error)

	// Release frees every backend resource.
	Release()
}
