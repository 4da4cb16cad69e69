package engine

import (
	"time"

	"github.com/Carmen-Shannon/oiishi/engine/profiler"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring a Loop.
// Use the With* functions to create options that are applied directly to the loop instance.
type EngineBuilderOption func(*engine)

// WithProfiler attaches a profiler that is ticked after every frame.
//
// Parameters:
//   - p: the profiler; nil disables profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the loop tick rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithManualTicks disables the ticker. Frames only run when Tick is called, which is how
// headless snapshots and tests drive the loop.
func WithManualTicks() EngineBuilderOption {
	return func(e *engine) {
		e.manual = true
	}
}

// WithLogger sets the logger used for recovered panics.
func WithLogger(logger *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
