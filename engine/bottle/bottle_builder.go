package bottle

import (
	"github.com/Carmen-Shannon/oiishi/engine/label"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"go.uber.org/zap"
)

// assembler collects the options of one Assemble call.
type assembler struct {
	logger       *zap.Logger
	texture      material.Texture
	labelOptions []label.BuilderOption
}

// AssemblerOption is a functional option applied during Assemble.
type AssemblerOption func(*assembler)

// WithLogger sets the logger passed down to the label builder.
func WithLogger(logger *zap.Logger) AssemblerOption {
	return func(a *assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLabelTexture uses an existing texture instead of drawing the label.
// The assembly takes ownership of it.
//
// Parameters:
//   - t: the label texture
//
// Returns:
//   - AssemblerOption: a function that applies the texture option
func WithLabelTexture(t material.Texture) AssemblerOption {
	return func(a *assembler) {
		a.texture = t
	}
}

// WithLabelOptions forwards options to label.Build.
func WithLabelOptions(options ...label.BuilderOption) AssemblerOption {
	return func(a *assembler) {
		a.labelOptions = append(a.labelOptions, options...)
	}
}
