package viewer

import (
	"github.com/Carmen-Shannon/oiishi/engine/bottle"
	"github.com/Carmen-Shannon/oiishi/engine/exporter"
	"github.com/Carmen-Shannon/oiishi/engine/renderer"
	"go.uber.org/zap"
)

// viewerConfig collects the options of one Open call.
type viewerConfig struct {
	logger           *zap.Logger
	spinSpeed        float32
	spinning         bool
	dampingFactor    float32
	rendererOptions  []renderer.RendererBuilderOption
	assemblerOptions []bottle.AssemblerOption
	exportOptions    []exporter.ExporterBuilderOption
}

// ViewerBuilderOption is a functional option applied during Open.
type ViewerBuilderOption func(*viewerConfig)

// WithLogger sets the logger shared by the viewer, its renderer and the assembler.
func WithLogger(logger *zap.Logger) ViewerBuilderOption {
	return func(c *viewerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSpinSpeed sets the bottle's Y rotation per frame in radians.
//
// Parameters:
//   - radians: rotation added each frame, 0.01 by default
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithSpinSpeed(radians float32) ViewerBuilderOption {
	return func(c *viewerConfig) {
		c.spinSpeed = radians
	}
}

// WithSpinning sets whether the bottle starts spinning.
func WithSpinning(spinning bool) ViewerBuilderOption {
	return func(c *viewerConfig) {
		c.spinning = spinning
	}
}

// WithDampingFactor sets the orbit controls' damping factor. Values outside (0, 1] are ignored.
func WithDampingFactor(factor float32) ViewerBuilderOption {
	return func(c *viewerConfig) {
		if factor > 0 && factor <= 1 {
			c.dampingFactor = factor
		}
	}
}

// WithRendererOptions forwards options to the host's renderer factory.
func WithRendererOptions(options ...renderer.RendererBuilderOption) ViewerBuilderOption {
	return func(c *viewerConfig) {
		c.rendererOptions = append(c.rendererOptions, options...)
	}
}

// WithAssemblerOptions forwards options to bottle.Assemble.
func WithAssemblerOptions(options ...bottle.AssemblerOption) ViewerBuilderOption {
	return func(c *viewerConfig) {
		c.assemblerOptions = append(c.assemblerOptions, options...)
	}
}

// WithExportOptions forwards options to every export.
func WithExportOptions(options ...exporter.ExporterBuilderOption) ViewerBuilderOption {
	return func(c *viewerConfig) {
		c.exportOptions = append(c.exportOptions, options...)
	}
}
