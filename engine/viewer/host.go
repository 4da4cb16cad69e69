package viewer

import (
	"slices"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine"
	"github.com/Carmen-Shannon/oiishi/engine/exporter"
	"github.com/Carmen-Shannon/oiishi/engine/renderer"
)

// Container is the region the viewer draws into.
type Container interface {
	// Bounds returns the current client size in logical pixels. Either may be zero
	// while the container is hidden or not laid out yet.
	Bounds() (width, height int)
}

// SizeObserver reports size changes of the container itself.
type SizeObserver interface {
	// ObserveSize subscribes fn to container size changes.
	//
	// Returns:
	//   - func(): removes the subscription
	ObserveSize(fn func(width, height int)) (unsubscribe func())
}

// WindowResizeSource reports size changes of the top-level window. It is the fallback
// when the host has no SizeObserver.
type WindowResizeSource interface {
	OnWindowResize(fn func(width, height int)) (unsubscribe func())
}

// FrameScheduler runs one callback per requested frame. engine.Loop satisfies it.
type FrameScheduler interface {
	RequestFrame(cb func(deltaTime float32)) engine.FrameID
	CancelFrame(id engine.FrameID)
}

// PointerKind identifies a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerWheel
)

// PointerEvent is one pointer or wheel event in container coordinates.
type PointerEvent struct {
	Kind   PointerKind
	Button common.MouseButton
	X, Y   float32
	// DeltaY is the wheel delta for PointerWheel events; positive scrolls down.
	DeltaY float32
}

// PointerSource delivers pointer events from the container.
type PointerSource interface {
	OnPointer(fn func(PointerEvent)) (unsubscribe func())
}

// ExportControl is the user-facing trigger for exports, such as a button or a key binding.
type ExportControl interface {
	// BindExport attaches fn to the control.
	//
	// Returns:
	//   - func(): detaches fn
	BindExport(fn func()) (unbind func())
}

// RendererFactory creates the renderer for one viewer.
type RendererFactory func(options ...renderer.RendererBuilderOption) (renderer.Renderer, error)

// SoftwareRenderers returns a RendererFactory for headless hosts.
func SoftwareRenderers(options ...renderer.RendererBuilderOption) RendererFactory {
	return func(extra ...renderer.RendererBuilderOption) (renderer.Renderer, error) {
		return renderer.NewRenderer(renderer.BackendTypeSoftware, nil, slices.Concat(options, extra)...)
	}
}

// WGPURenderers returns a RendererFactory presenting to surface.
func WGPURenderers(surface renderer.SurfaceSource, options ...renderer.RendererBuilderOption) RendererFactory {
	return func(extra ...renderer.RendererBuilderOption) (renderer.Renderer, error) {
		return renderer.NewRenderer(renderer.BackendTypeWGPU, surface, slices.Concat(options, extra)...)
	}
}

// Host bundles what a viewer needs from its environment.
//
// Container, Scheduler and Renderers are required. SizeObserver, Window, Pointer and
// Export are optional. Without a Downloader, exports are kept in memory.
type Host struct {
	Container    Container
	SizeObserver SizeObserver
	Window       WindowResizeSource
	Scheduler    FrameScheduler
	Pointer      PointerSource
	Export       ExportControl
	Renderers    RendererFactory
	Downloader   exporter.Downloader

	// DevicePixelRatio is the display's pixel density; the renderer caps it at 2.
	DevicePixelRatio float32
}
