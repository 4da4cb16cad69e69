// Package viewer owns the lifecycle of one interactive bottle view: it creates the
// renderer and scene, drives the spin and orbit controls every frame, follows container
// resizes and releases everything it created on Close.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine"
	"github.com/Carmen-Shannon/oiishi/engine/bottle"
	"github.com/Carmen-Shannon/oiishi/engine/camera"
	"github.com/Carmen-Shannon/oiishi/engine/exporter"
	"github.com/Carmen-Shannon/oiishi/engine/renderer"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/animator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is returned by operations on a closed viewer.
var ErrClosed = errors.New("viewer: closed")

// OrbitTarget is the point the camera orbits, at the bottle's label height.
var OrbitTarget = common.Vec3{0, 0.6, 0}

// viewer is the implementation of the Viewer interface.
type viewer struct {
	mu *sync.Mutex

	id     string
	logger *zap.Logger
	host   Host

	assembly *bottle.Assembly
	renderer renderer.Renderer
	controls camera.OrbitControls
	spin     animator.Animator
	tracker  *tracker

	active  bool
	closed  bool
	frameID engine.FrameID
	width   int
	height  int

	// unsubscribers run in reverse order on Close.
	unsubscribers []func()

	downloader    exporter.Downloader
	exportOptions []exporter.ExporterBuilderOption
	renderErrors  int
}

// Viewer is an open bottle view.
type Viewer interface {
	// Close stops the frame loop, detaches every host subscription and disposes the
	// controls, renderer, materials, geometries and label texture. Calling it again does nothing.
	Close()

	// Closed reports whether Close has been called.
	Closed() bool

	// Export writes the visible scene as GLB to the host's downloader.
	//
	// Parameters:
	//   - ctx: cancels the export before the download starts
	//
	// Returns:
	//   - error: ErrClosed after Close, or the wrapped export error
	Export(ctx context.Context) error

	// Resize applies a container size. Zero sizes and the current size are ignored.
	Resize(width, height int)

	// Size returns the last applied container size.
	Size() (width, height int)

	// SetSpinning pauses or resumes the bottle spin.
	SetSpinning(spinning bool)

	// Spinning reports whether the bottle spins each frame.
	Spinning() bool

	// ResetView restores the camera to its initial orbit.
	ResetView()

	// Assembly returns the scene and the resources it owns.
	Assembly() *bottle.Assembly

	// Renderer returns the viewer's renderer.
	Renderer() renderer.Renderer

	// Controls returns the orbit controls.
	Controls() camera.OrbitControls

	// Resources returns tracker statistics.
	Resources() ResourceStats
}

var _ Viewer = &viewer{}

// Open creates a viewer inside host and schedules its first frame.
//
// Host.Container, Host.Scheduler and Host.Renderers must be set; Open panics otherwise.
// The only runtime error comes from the renderer factory, in which case nothing is left allocated.
//
// Parameters:
//   - ctx: checked once before any resource is created
//   - host: the environment to draw into
//   - options: variadic list of ViewerBuilderOption functions
//
// Returns:
//   - Viewer: the running viewer
//   - error: context or renderer creation error
func Open(ctx context.Context, host Host, options ...ViewerBuilderOption) (Viewer, error) {
	if host.Container == nil {
		panic("viewer: Open requires a container")
	}
	if host.Scheduler == nil {
		panic("viewer: Open requires a frame scheduler")
	}
	if host.Renderers == nil {
		panic("viewer: Open requires a renderer factory")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := &viewerConfig{
		logger:        zap.NewNop(),
		spinSpeed:     animator.DefaultSpinSpeed,
		dampingFactor: 0.05,
		spinning:      true,
	}
	for _, opt := range options {
		opt(cfg)
	}

	v := &viewer{
		mu:            &sync.Mutex{},
		id:            uuid.NewString(),
		host:          host,
		downloader:    host.Downloader,
		exportOptions: cfg.exportOptions,
	}
	v.logger = cfg.logger.With(zap.String("component", "viewer"), zap.String("viewer_id", v.id))
	v.tracker = newTracker(v.logger)
	if v.downloader == nil {
		v.downloader = exporter.NewMemoryDownloader()
	}

	r, err := host.Renderers(slices.Concat([]renderer.RendererBuilderOption{
		renderer.WithPixelRatio(host.DevicePixelRatio),
		renderer.WithShadows(true),
		renderer.WithLogger(cfg.logger),
	}, cfg.rendererOptions)...)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	v.renderer = r

	v.assembly = bottle.Assemble(r, slices.Concat([]bottle.AssemblerOption{
		bottle.WithLogger(cfg.logger),
	}, cfg.assemblerOptions)...)

	v.controls = camera.NewOrbitControls(v.assembly.Camera,
		camera.WithOrbitTarget(OrbitTarget[0], OrbitTarget[1], OrbitTarget[2]),
		camera.WithDamping(true, cfg.dampingFactor),
	)

	v.tracker.track(ResourceControls, v.controls)
	v.tracker.track(ResourceRenderer, v.renderer)
	for _, m := range v.assembly.Materials() {
		v.tracker.track(ResourceMaterial, m)
	}
	for _, g := range v.assembly.Geometries() {
		v.tracker.track(ResourceGeometry, g)
	}
	for _, t := range v.assembly.Textures() {
		v.tracker.track(ResourceTexture, t)
	}

	v.spin = animator.NewAnimator(
		animator.WithRotationSpeed(0, cfg.spinSpeed, 0),
		animator.WithInstances(v.assembly.Bottle),
		animator.WithEnabled(cfg.spinning),
	)

	v.applySize(host.Container.Bounds())

	// Subscriptions may deliver events synchronously, so v.mu is not held while subscribing.
	var unsubscribers []func()
	switch {
	case host.SizeObserver != nil:
		unsubscribers = append(unsubscribers, host.SizeObserver.ObserveSize(v.Resize))
	case host.Window != nil:
		v.logger.Debug("no size observer, following window resizes")
		unsubscribers = append(unsubscribers, host.Window.OnWindowResize(v.Resize))
	}
	if host.Pointer != nil {
		unsubscribers = append(unsubscribers, host.Pointer.OnPointer(v.pointer))
	}
	if host.Export != nil {
		unsubscribers = append(unsubscribers, host.Export.BindExport(func() {
			if err := v.Export(context.Background()); err != nil {
				v.logger.Error("export failed", zap.Error(err))
			}
		}))
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, unsubscribe := range unsubscribers {
		v.subscribe(unsubscribe)
	}
	v.active = true
	v.frameID = host.Scheduler.RequestFrame(v.frame)

	v.logger.Info("viewer opened",
		zap.Int("width", v.width),
		zap.Int("height", v.height),
		zap.Stringer("backend", r.BackendType()),
		zap.Int("resources", v.tracker.stats.Created),
	)
	return v, nil
}

// subscribe records an unsubscribe function. Callers must hold v.mu.
func (v *viewer) subscribe(unsubscribe func()) {
	if unsubscribe != nil {
		v.unsubscribers = append(v.unsubscribers, unsubscribe)
	}
}

// frame is one scheduled tick: spin, damp, render, then ask for the next frame.
func (v *viewer) frame(float32) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.frameID = 0
	if !v.active {
		return
	}

	v.spin.PrepareFrame()
	v.controls.Update()
	if err := v.renderer.Render(v.assembly.Scene, v.assembly.Camera); err != nil {
		// Log the first failure and every hundredth after it.
		if v.renderErrors%100 == 0 {
			v.logger.Error("render failed", zap.Error(err), zap.Int("failures", v.renderErrors+1))
		}
		v.renderErrors++
	}

	if v.active {
		v.frameID = v.host.Scheduler.RequestFrame(v.frame)
	}
}

func (v *viewer) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.applySize(width, height)
}

// applySize resizes the renderer and updates the camera aspect. Callers must hold v.mu.
func (v *viewer) applySize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == v.width && height == v.height {
		return
	}
	if err := v.renderer.SetSize(width, height); err != nil {
		v.logger.Error("resize failed", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
		return
	}
	v.width, v.height = width, height
	v.assembly.Camera.SetAspect(float32(width) / float32(height))
	v.controls.SetViewport(width, height)
}

func (v *viewer) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

func (v *viewer) pointer(e PointerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.active {
		return
	}
	switch e.Kind {
	case PointerDown:
		v.controls.PointerDown(e.Button, e.X, e.Y)
	case PointerMove:
		v.controls.PointerMove(e.X, e.Y)
	case PointerUp:
		v.controls.PointerUp(e.Button)
	case PointerWheel:
		v.controls.Wheel(e.DeltaY)
	}
}

func (v *viewer) Export(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	opts := slices.Concat([]exporter.ExporterBuilderOption{exporter.WithLogger(v.logger)}, v.exportOptions)
	return exporter.Export(ctx, v.assembly.Scene.Root(), v.downloader, opts...)
}

func (v *viewer) SetSpinning(spinning bool) {
	v.spin.SetEnabled(spinning)
}

func (v *viewer) Spinning() bool {
	return v.spin.Enabled()
}

func (v *viewer) ResetView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.active {
		v.controls.Reset()
	}
}

func (v *viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.active = false

	if v.frameID != 0 {
		v.host.Scheduler.CancelFrame(v.frameID)
		v.frameID = 0
	}
	for i := len(v.unsubscribers) - 1; i >= 0; i-- {
		v.unsubscribers[i]()
	}
	v.unsubscribers = nil

	v.spin.Release()
	v.tracker.releaseAll()

	v.logger.Info("viewer closed",
		zap.Int("disposed", v.tracker.stats.Disposed),
		zap.Int("repeated", v.tracker.stats.Repeated),
		zap.Uint64("frames", v.renderer.RenderCount()),
	)
}

func (v *viewer) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *viewer) Assembly() *bottle.Assembly {
	return v.assembly
}

func (v *viewer) Renderer() renderer.Renderer {
	return v.renderer
}

func (v *viewer) Controls() camera.OrbitControls {
	return v.controls
}

func (v *viewer) Resources() ResourceStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tracker.stats
}
