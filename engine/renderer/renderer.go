package renderer

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oiishi/engine/camera"
	"github.com/Carmen-Shannon/oiishi/engine/light"
	"github.com/Carmen-Shannon/oiishi/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// MaxPixelRatio caps the device pixel ratio applied to the render target.
const MaxPixelRatio float32 = 2

var (
	// ErrDisposed is returned when a disposed Renderer is asked to render.
	ErrDisposed = errors.New("renderer: disposed")

	// ErrNoSurface is returned when a wgpu Renderer is created without a surface source.
	ErrNoSurface = errors.New("renderer: wgpu backend requires a surface")

	// ErrSnapshotUnsupported is returned by backends that cannot read back pixels.
	ErrSnapshotUnsupported = errors.New("renderer: snapshot not supported by backend")
)

// SurfaceSource provides the platform surface descriptor a wgpu backend presents to.
// window.Window satisfies it.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// FrameStats describes the most recent Render call.
type FrameStats struct {
	Drawn     int
	Culled    int
	Triangles int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      *zap.Logger

	width      int
	height     int
	pixelRatio float32
	shadows    bool

	renders  uint64
	stats    FrameStats
	disposed bool

	// Pre-creation config collected from builder options
	workers              int
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
}

// Renderer draws a scene from a camera into its backend's target.
//
// Sizes are logical (CSS-like) pixels; the backend target is sized to the logical size
// multiplied by the pixel ratio.
type Renderer interface {
	// SetSize resizes the render target. Non-positive dimensions are ignored, as is a
	// size equal to the current one.
	//
	// Parameters:
	//   - width: logical width in pixels
	//   - height: logical height in pixels
	//
	// Returns:
	//   - error: an error if the backend could not be reconfigured
	SetSize(width, height int) error

	// Size returns the logical size. It is (0, 0) until SetSize succeeds.
	Size() (width, height int)

	// SetPixelRatio sets the device pixel ratio, capped at MaxPixelRatio. Values <= 0 are ignored.
	SetPixelRatio(ratio float32)

	// PixelRatio returns the applied pixel ratio.
	PixelRatio() float32

	// MaxAnisotropy returns the backend's maximum anisotropic filtering level.
	MaxAnisotropy() uint16

	// ShadowsEnabled reports whether shadow maps are rendered.
	ShadowsEnabled() bool

	// Render draws the scene. Rendering before the first successful SetSize is a no-op.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the viewing camera
	//
	// Returns:
	//   - error: ErrDisposed after Dispose, or a backend error
	Render(s scene.Scene, cam camera.Camera) error

	// RenderCount returns the number of frames drawn.
	RenderCount() uint64

	// Stats returns statistics of the most recent frame.
	Stats() FrameStats

	// Snapshot returns a copy of the last drawn frame.
	Snapshot() (*image.RGBA, error)

	// BackendType returns the active backend type.
	BackendType() RendererBackendType

	// Dispose releases the backend.
	//
	// Returns:
	//   - bool: true on the first call, false if already disposed
	Dispose() bool

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend.
// The software backend ignores surface and may be given nil.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - surface: the window surface source for the wgpu backend
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the backend could not be created
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      zap.NewNop(),
		pixelRatio:  1,
		workers:     runtime.NumCPU(),
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("component", "renderer"), zap.Stringer("backend", backendType))

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			if surface == nil {
				return nil, ErrNoSurface
			}
			b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.presentMode)
			if err != nil {
				return nil, fmt.Errorf("create wgpu backend: %w", err)
			}
			r.backend = b
		case BackendTypeSoftware:
			fallthrough
		default:
			r.backend = newSoftwareRendererBackend(r.workers)
		}
	}

	r.logger.Debug("renderer created",
		zap.Float32("pixel_ratio", r.pixelRatio),
		zap.Bool("shadows", r.shadows),
		zap.Uint16("max_anisotropy", r.backend.MaxAnisotropy()),
	)
	return r, nil
}

func (r *renderer) SetSize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed || width <= 0 || height <= 0 {
		return nil
	}
	if width == r.width && height == r.height {
		return nil
	}
	pw, ph := r.physical(width, height)
	if err := r.backend.Configure(pw, ph); err != nil {
		return fmt.Errorf("configure %dx%d: %w", pw, ph, err)
	}
	r.width, r.height = width, height
	r.logger.Debug("render target resized", zap.Int("width", pw), zap.Int("height", ph))
	return nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPixelRatio(ratio float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !(ratio > 0) {
		return
	}
	ratio = min(ratio, MaxPixelRatio)
	if ratio == r.pixelRatio {
		return
	}
	r.pixelRatio = ratio
	if r.width > 0 && r.height > 0 && !r.disposed {
		pw, ph := r.physical(r.width, r.height)
		if err := r.backend.Configure(pw, ph); err != nil {
			r.logger.Warn("reconfigure after pixel ratio change failed", zap.Error(err))
		}
	}
}

func (r *renderer) PixelRatio() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pixelRatio
}

func (r *renderer) MaxAnisotropy() uint16 {
	return r.backend.MaxAnisotropy()
}

func (r *renderer) ShadowsEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shadows
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return ErrDisposed
	}
	if r.width == 0 || r.height == 0 {
		return nil
	}

	pw, ph := r.physical(r.width, r.height)
	frame := &Frame{
		Width:      pw,
		Height:     ph,
		Background: s.Background(),
		ViewProj:   cam.ViewProjectionMatrix(),
		Eye:        cam.Position(),
		Lights:     s.Lights(),
	}

	if r.shadows {
		frame.ShadowLight = shadowLight(frame.Lights)
	}

	frustum := cam.Frustum()
	stats := FrameStats{}
	for _, item := range s.RenderList() {
		n := item.Node
		g := n.Geometry()
		if g == nil || g.Disposed() || n.Material() == nil {
			continue
		}
		d := DrawItem{
			Geometry:      g,
			Material:      n.Material(),
			World:         item.World,
			Normal:        item.World.NormalMatrix(),
			CastShadow:    n.CastShadow(),
			ReceiveShadow: n.ReceiveShadow(),
		}
		if frame.ShadowLight != nil && d.CastShadow {
			frame.ShadowCasters = append(frame.ShadowCasters, d)
		}

		center, radius := g.BoundingSphere()
		if !frustum.IntersectsSphere(item.World.TransformPoint(center), radius*item.World.MaxScale()) {
			stats.Culled++
			continue
		}
		frame.Items = append(frame.Items, d)
		stats.Drawn++
		stats.Triangles += g.TriangleCount()
	}

	if err := r.backend.Draw(frame); err != nil {
		return fmt.Errorf("draw frame %d: %w", r.renders, err)
	}
	r.renders++
	r.stats = stats
	return nil
}

func (r *renderer) RenderCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renders
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Snapshot() (*image.RGBA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return nil, ErrDisposed
	}
	return r.backend.Snapshot()
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Dispose() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return false
	}
	r.disposed = true
	r.backend.Release()
	r.logger.Debug("renderer disposed", zap.Uint64("frames", r.renders))
	return true
}

func (r *renderer) Disposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// physical converts a logical size to backend pixels. Callers must hold r.mu.
func (r *renderer) physical(width, height int) (int, int) {
	pw := max(int(float32(width)*r.pixelRatio+0.5), 1)
	ph := max(int(float32(height)*r.pixelRatio+0.5), 1)
	return pw, ph
}

// shadowLight returns the first enabled shadow-casting light, or nil.
func shadowLight(lights []light.Light) light.Light {
	for _, l := range lights {
		if l.Enabled() && l.CastsShadows() {
			return l
		}
	}
	return nil
}
