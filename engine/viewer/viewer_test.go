package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine"
	"github.com/Carmen-Shannon/oiishi/engine/exporter"
	"github.com/Carmen-Shannon/oiishi/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeContainer struct {
	width, height int
}

func (c *fakeContainer) Bounds() (int, int) { return c.width, c.height }

type fakeScheduler struct {
	mu        sync.Mutex
	next      engine.FrameID
	pending   map[engine.FrameID]func(float32)
	cancelled int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{pending: make(map[engine.FrameID]func(float32))}
}

func (s *fakeScheduler) RequestFrame(cb func(float32)) engine.FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending[s.next] = cb
	return s.next
}

func (s *fakeScheduler) CancelFrame(id engine.FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; ok {
		s.cancelled++
		delete(s.pending, id)
	}
}

func (s *fakeScheduler) callbacks() []func(float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func(float32), 0, len(s.pending))
	for _, cb := range s.pending {
		out = append(out, cb)
	}
	return out
}

func (s *fakeScheduler) tick() {
	s.mu.Lock()
	pending := s.pending
	s.pending = make(map[engine.FrameID]func(float32))
	s.mu.Unlock()
	for _, cb := range pending {
		cb(1.0 / 60)
	}
}

func (s *fakeScheduler) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// fakeSource implements SizeObserver, WindowResizeSource, PointerSource and ExportControl.
type fakeSource struct {
	resize       func(int, int)
	pointer      func(PointerEvent)
	export       func()
	unsubscribed int
}

func (f *fakeSource) ObserveSize(fn func(int, int)) func() {
	f.resize = fn
	return func() { f.resize = nil; f.unsubscribed++ }
}

func (f *fakeSource) OnWindowResize(fn func(int, int)) func() {
	return f.ObserveSize(fn)
}

func (f *fakeSource) OnPointer(fn func(PointerEvent)) func() {
	f.pointer = fn
	return func() { f.pointer = nil; f.unsubscribed++ }
}

func (f *fakeSource) BindExport(fn func()) func() {
	f.export = fn
	return func() { f.export = nil; f.unsubscribed++ }
}

type countingRenderer struct {
	renderer.Renderer
	setSizes int
}

func (c *countingRenderer) SetSize(width, height int) error {
	c.setSizes++
	return c.Renderer.SetSize(width, height)
}

type testHost struct {
	Host
	scheduler  *fakeScheduler
	source     *fakeSource
	container  *fakeContainer
	downloader *exporter.MemoryDownloader
	counting   *countingRenderer
}

func newTestHost(width, height int) *testHost {
	h := &testHost{
		scheduler:  newFakeScheduler(),
		source:     &fakeSource{},
		container:  &fakeContainer{width: width, height: height},
		downloader: exporter.NewMemoryDownloader(),
	}
	software := SoftwareRenderers(renderer.WithWorkers(2))
	h.Host = Host{
		Container:    h.container,
		SizeObserver: h.source,
		Scheduler:    h.scheduler,
		Pointer:      h.source,
		Export:       h.source,
		Downloader:   h.downloader,
		Renderers: func(options ...renderer.RendererBuilderOption) (renderer.Renderer, error) {
			r, err := software(options...)
			if err != nil {
				return nil, err
			}
			h.counting = &countingRenderer{Renderer: r}
			return h.counting, nil
		},
	}
	return h
}

func openTest(t *testing.T, h *testHost, options ...ViewerBuilderOption) Viewer {
	t.Helper()
	v, err := Open(context.Background(), h.Host, options...)
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return v
}

func TestOpen_SizesRendererAndSchedulesFrame(t *testing.T) {
	h := newTestHost(200, 100)
	h.DevicePixelRatio = 3
	v := openTest(t, h)

	w, ht := v.Renderer().Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, ht)
	assert.Equal(t, float32(2), v.Renderer().PixelRatio())
	assert.True(t, v.Renderer().ShadowsEnabled())
	assert.InDelta(t, 2.0, v.Assembly().Camera.Aspect(), 1e-6)
	assert.Equal(t, OrbitTarget, v.Controls().Target())
	assert.Equal(t, 1, h.scheduler.size())
}

func TestFrame_SpinsAndRenders(t *testing.T) {
	h := newTestHost(64, 48)
	v := openTest(t, h)

	for range 3 {
		h.scheduler.tick()
	}
	assert.Equal(t, uint64(3), v.Renderer().RenderCount())
	assert.InDelta(t, 0.03, v.Assembly().Bottle.Rotation()[1], 1e-5)
	assert.Equal(t, 1, h.scheduler.size())

	v.SetSpinning(false)
	assert.False(t, v.Spinning())
	h.scheduler.tick()
	assert.InDelta(t, 0.03, v.Assembly().Bottle.Rotation()[1], 1e-5)
	assert.Equal(t, uint64(4), v.Renderer().RenderCount())
}

func TestClose_DisposesEverythingOnce(t *testing.T) {
	before := goleak.IgnoreCurrent()
	h := newTestHost(64, 48)
	v := openTest(t, h)
	h.scheduler.tick()

	a := v.Assembly()
	want := 2 + len(a.Materials()) + len(a.Geometries()) + len(a.Textures())
	assert.Equal(t, 26, want)

	v.Close()

	stats := v.Resources()
	assert.Equal(t, want, stats.Created)
	assert.Equal(t, want, stats.Disposed)
	assert.Zero(t, stats.Repeated)

	for _, g := range a.Geometries() {
		assert.True(t, g.Disposed(), g.Name())
	}
	for _, m := range a.Materials() {
		assert.True(t, m.Disposed(), m.Name())
	}
	assert.True(t, a.Label.Disposed())
	assert.True(t, v.Renderer().Disposed())
	assert.True(t, v.Controls().Disposed())

	assert.Equal(t, 3, h.source.unsubscribed)
	assert.Nil(t, h.source.resize)
	assert.Nil(t, h.source.pointer)
	assert.Nil(t, h.source.export)
	assert.Equal(t, 1, h.scheduler.cancelled)
	assert.Zero(t, h.scheduler.size())
	goleak.VerifyNone(t, before)
}

func TestClose_Idempotent(t *testing.T) {
	h := newTestHost(64, 48)
	v := openTest(t, h)

	v.Close()
	first := v.Resources()
	v.Close()

	assert.Equal(t, first, v.Resources())
	assert.True(t, v.Closed())
	assert.Equal(t, 3, h.source.unsubscribed)
	assert.ErrorIs(t, v.Export(context.Background()), ErrClosed)
}

func TestClose_NoRenderFromStaleFrame(t *testing.T) {
	h := newTestHost(64, 48)
	v := openTest(t, h)
	h.scheduler.tick()
	stale := h.scheduler.callbacks()
	require.Len(t, stale, 1)

	v.Close()
	rotation := v.Assembly().Bottle.Rotation()
	stale[0](1.0 / 60)

	assert.Equal(t, uint64(1), v.Renderer().RenderCount())
	assert.Equal(t, rotation, v.Assembly().Bottle.Rotation())
	assert.Zero(t, h.scheduler.size())
}

func TestResize_Idempotent(t *testing.T) {
	h := newTestHost(200, 100)
	v := openTest(t, h)
	require.Equal(t, 1, h.counting.setSizes)

	h.source.resize(300, 150)
	h.source.resize(300, 150)

	assert.Equal(t, 2, h.counting.setSizes)
	w, ht := v.Size()
	assert.Equal(t, 300, w)
	assert.Equal(t, 150, ht)
	assert.InDelta(t, 2.0, v.Assembly().Camera.Aspect(), 1e-6)
}

func TestResize_ZeroSizeSkipped(t *testing.T) {
	h := newTestHost(0, 0)
	v := openTest(t, h)

	assert.Zero(t, h.counting.setSizes)
	h.scheduler.tick()
	assert.Zero(t, v.Renderer().RenderCount())

	h.source.resize(0, 120)
	h.source.resize(160, 0)
	assert.Zero(t, h.counting.setSizes)

	h.source.resize(160, 120)
	h.scheduler.tick()
	assert.Equal(t, 1, h.counting.setSizes)
	assert.Equal(t, uint64(1), v.Renderer().RenderCount())
}

func TestResize_WindowFallback(t *testing.T) {
	h := newTestHost(100, 100)
	h.SizeObserver = nil
	h.Window = h.source
	v := openTest(t, h)

	require.NotNil(t, h.source.resize)
	h.source.resize(400, 100)
	assert.InDelta(t, 4.0, v.Assembly().Camera.Aspect(), 1e-6)
}

func TestOpen_RendererError(t *testing.T) {
	h := newTestHost(100, 100)
	boom := errors.New("no adapter")
	h.Renderers = func(...renderer.RendererBuilderOption) (renderer.Renderer, error) { return nil, boom }

	v, err := Open(context.Background(), h.Host)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, h.scheduler.size())
	assert.Nil(t, h.source.resize)
}

func TestOpen_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, newTestHost(10, 10).Host)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_PanicsWithoutRequiredHost(t *testing.T) {
	h := newTestHost(10, 10)
	h.Scheduler = nil
	assert.Panics(t, func() { _, _ = Open(context.Background(), h.Host) })
}

func TestExport_ViaControl(t *testing.T) {
	h := newTestHost(64, 48)
	openTest(t, h)

	require.NotNil(t, h.source.export)
	h.source.export()

	downloads := h.downloader.Downloads()
	require.Len(t, downloads, 1)
	assert.Equal(t, exporter.FileName, downloads[0].Name)
	assert.Equal(t, exporter.MIMEBinary, downloads[0].MIME)
	assert.NotEmpty(t, downloads[0].Data)
}

func TestPointer_OrbitsCamera(t *testing.T) {
	h := newTestHost(200, 200)
	v := openTest(t, h)
	start := v.Assembly().Camera.Position()

	h.source.pointer(PointerEvent{Kind: PointerDown, Button: common.MouseButtonPrimary, X: 100, Y: 100})
	h.source.pointer(PointerEvent{Kind: PointerMove, X: 140, Y: 100})
	h.source.pointer(PointerEvent{Kind: PointerUp, Button: common.MouseButtonPrimary})
	for range 5 {
		h.scheduler.tick()
	}
	moved := v.Assembly().Camera.Position()
	assert.NotEqual(t, start, moved)
	assert.InDelta(t, start.Sub(OrbitTarget).Len(), moved.Sub(OrbitTarget).Len(), 1e-3)

	v.ResetView()
	assert.Equal(t, start, v.Assembly().Camera.Position())
}

func TestOpen_WithEngineLoop(t *testing.T) {
	loop := engine.NewLoop(engine.WithManualTicks())
	loop.Run()
	defer loop.Quit()

	h := newTestHost(64, 48)
	h.Scheduler = loop
	v := openTest(t, h)

	for range 3 {
		require.True(t, loop.Tick())
	}
	assert.Equal(t, uint64(3), v.Renderer().RenderCount())

	v.Close()
	require.True(t, loop.Tick())
	assert.Equal(t, uint64(3), v.Renderer().RenderCount())
}
