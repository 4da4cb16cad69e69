package profiler

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Every frame is counted in the frames metric; FPS and heap gauges plus a log line
// are refreshed once per update interval.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastFPS        float64

	now        func() time.Time
	logger     *zap.Logger
	registerer prometheus.Registerer

	framesTotal prometheus.Counter
	fps         prometheus.Gauge
	heapBytes   prometheus.Gauge
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and metrics register with a private registry
// unless WithRegisterer says otherwise.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		updateInterval: time.Second,
		now:            time.Now,
		logger:         zap.NewNop(),
		registerer:     prometheus.NewRegistry(),
	}

	for _, opt := range options {
		opt(p)
	}

	factory := promauto.With(p.registerer)
	p.framesTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "oiishi",
		Name:      "frames_rendered_total",
		Help:      "Total number of frames rendered by the viewer",
	})
	p.fps = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "oiishi",
		Name:      "fps",
		Help:      "Frames per second over the last profiler interval",
	})
	p.heapBytes = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "oiishi",
		Name:      "heap_bytes",
		Help:      "Bytes of allocated heap objects at the last profiler interval",
	})

	p.logger = p.logger.With(zap.String("component", "profiler"))
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were refreshed this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.framesTotal.Inc()
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.fps.Set(fps)
	p.heapBytes.Set(float64(p.memStats.Alloc))
	p.logger.Info("frame stats",
		zap.Float64("fps", fps),
		zap.Float64("heap_mb", allocMB),
		zap.Float64("alloc_rate_mb_s", allocRateMB),
		zap.Uint32("gc_count", gcCount),
		zap.Uint64("gc_last_pause_us", lastPauseUs),
		zap.Uint64("gc_max_pause_us", maxPauseUs),
		zap.Float64("sys_mb", sysMB),
	)

	p.lastFPS = fps
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// FPS returns the frame rate measured over the last completed interval.
func (p *Profiler) FPS() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastFPS
}
