package profiler

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTick_RefreshesOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	core, logs := observer.New(zap.InfoLevel)
	reg := prometheus.NewRegistry()
	p := NewProfiler(
		WithClock(clock.now),
		WithInterval(time.Second),
		WithLogger(zap.New(core)),
		WithRegisterer(reg),
	)

	for range 29 {
		clock.advance(time.Second / 60)
		assert.False(t, p.Tick())
	}
	clock.advance(time.Second/2 + 20*time.Millisecond)
	assert.True(t, p.Tick())

	assert.InDelta(t, 30, p.FPS(), 0.5)
	assert.InDelta(t, 30, testutil.ToFloat64(p.fps), 0.5)
	assert.Equal(t, float64(30), testutil.ToFloat64(p.framesTotal))
	assert.Greater(t, testutil.ToFloat64(p.heapBytes), float64(0))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "frame stats", entry.Message)
	assert.Equal(t, "profiler", entry.ContextMap()["component"])
}

func TestNewProfiler_RegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewProfiler(WithRegisterer(reg))
	p.Tick()

	n, err := testutil.GatherAndCount(reg, "oiishi_frames_rendered_total", "oiishi_fps", "oiishi_heap_bytes")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNewProfiler_PrivateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewProfiler().Tick()
		NewProfiler().Tick()
	})
}

func TestWithInterval_IgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
}
