package profiler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often stats are refreshed. Values <= 0 are ignored.
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger that receives the periodic stats line.
func WithLogger(logger *zap.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRegisterer sets the prometheus registerer the profiler's metrics are registered with.
//
// Parameters:
//   - reg: the registerer, typically prometheus.DefaultRegisterer or a test registry
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithRegisterer(reg prometheus.Registerer) ProfilerBuilderOption {
	return func(p *Profiler) {
		if reg != nil {
			p.registerer = reg
		}
	}
}

// WithClock replaces time.Now as the profiler's time source.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
