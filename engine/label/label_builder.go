package label

import "go.uber.org/zap"

// BuilderOption is a functional option for Build.
type BuilderOption func(*builder)

// WithSurfaceFactory replaces the raster surface allocator.
// A factory returning nil simulates an unavailable drawing context.
//
// Parameters:
//   - f: the surface factory; nil is ignored
//
// Returns:
//   - BuilderOption: option function to apply
func WithSurfaceFactory(f SurfaceFactory) BuilderOption {
	return func(b *builder) {
		if f != nil {
			b.surface = f
		}
	}
}

// WithAnisotropy sets the texture's anisotropic filtering level, normally the renderer maximum.
func WithAnisotropy(level uint16) BuilderOption {
	return func(b *builder) {
		b.anisotropy = level
	}
}

// WithLogger sets the logger used to report the blank-texture fallback.
func WithLogger(logger *zap.Logger) BuilderOption {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger.With(zap.String("component", "label"))
		}
	}
}
