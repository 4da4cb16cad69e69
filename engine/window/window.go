package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oiishi/engine/viewer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the desktop host of a viewer: platform windowing, input and the drawing surface.
// It implements viewer.Container, viewer.SizeObserver, viewer.PointerSource and
// viewer.ExportControl, and its SurfaceDescriptor feeds the wgpu renderer.
//
// Input callbacks fire on the thread running ProcessMessages and are handed to the
// dispatcher configured with WithDispatcher.
type Window interface {
	viewer.Container
	viewer.SizeObserver
	viewer.PointerSource
	viewer.ExportControl

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code (see common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PixelRatio returns framebuffer pixels per window unit, the viewer's device pixel ratio.
	PixelRatio() float32

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop; ProcessMessages returns on its next iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in window units.
	//
	// Returns:
	//   - int: width
	Width() int

	// Height returns the current window client area height in window units.
	//
	// Returns:
	//   - int: height
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event listeners.
type engineWindow struct {
	mu *sync.Mutex

	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current window client area width.
	width int

	// height is the current window client area height.
	height int

	// fbWidth and fbHeight are the framebuffer size in pixels.
	fbWidth  int
	fbHeight int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// dispatch runs event handlers; by default they run inline on the message loop thread.
	dispatch func(fn func()) bool

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)

	sizeListeners    listenerSet[func(width, height int)]
	pointerListeners listenerSet[func(viewer.PointerEvent)]
	exportListeners  listenerSet[func()]
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
// Must be called from the main goroutine; the OS thread is locked for GLFW.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if GLFW could not create the window
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "OIISHI",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
		dispatch: func(fn func()) bool {
			fn()
			return true
		},
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) Bounds() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *engineWindow) ObserveSize(fn func(width, height int)) func() {
	return w.sizeListeners.add(fn)
}

func (w *engineWindow) OnPointer(fn func(viewer.PointerEvent)) func() {
	return w.pointerListeners.add(fn)
}

func (w *engineWindow) BindExport(fn func()) func() {
	return w.exportListeners.add(fn)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PixelRatio() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.width <= 0 || w.fbWidth <= 0 {
		return 1
	}
	return float32(w.fbWidth) / float32(w.width)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// resized records a new client size and notifies size listeners.
func (w *engineWindow) resized(width, height, fbWidth, fbHeight int) {
	w.mu.Lock()
	changed := width != w.width || height != w.height
	w.width, w.height = width, height
	w.fbWidth, w.fbHeight = fbWidth, fbHeight
	w.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range w.sizeListeners.snapshot() {
		w.dispatch(func() { fn(width, height) })
	}
}

func (w *engineWindow) pointer(e viewer.PointerEvent) {
	for _, fn := range w.pointerListeners.snapshot() {
		w.dispatch(func() { fn(e) })
	}
}

func (w *engineWindow) export() {
	for _, fn := range w.exportListeners.snapshot() {
		w.dispatch(fn)
	}
}

func (w *engineWindow) keyDown(keyCode uint32) {
	if w.onKeyDown != nil {
		w.dispatch(func() { w.onKeyDown(keyCode) })
	}
}

// listenerSet holds subscribers keyed by subscription order.
type listenerSet[F any] struct {
	mu        sync.Mutex
	next      int
	listeners map[int]F
}

// add subscribes fn and returns a function that removes it. Removing twice is a no-op.
func (s *listenerSet[F]) add(fn F) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[int]F)
	}
	s.next++
	id := s.next
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// snapshot returns the listeners in subscription order.
func (s *listenerSet[F]) snapshot() []F {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]F, 0, len(s.listeners))
	for id := 1; id <= s.next; id++ {
		if fn, ok := s.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (s *listenerSet[F]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
