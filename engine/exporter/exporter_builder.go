package exporter

import (
	"go.uber.org/zap"
)

// exporter holds the options of one export.
type exporter struct {
	onlyVisible bool
	binary      bool
	fileName    string
	logger      *zap.Logger
}

// ExporterBuilderOption is a functional option applied to an export.
type ExporterBuilderOption func(*exporter)

// WithOnlyVisible skips hidden nodes and their subtrees. Enabled by default.
func WithOnlyVisible(only bool) ExporterBuilderOption {
	return func(e *exporter) {
		e.onlyVisible = only
	}
}

// WithBinary selects GLB (true, the default) or JSON glTF with embedded buffers.
func WithBinary(binary bool) ExporterBuilderOption {
	return func(e *exporter) {
		e.binary = binary
	}
}

// WithFileName overrides the downloaded file name.
func WithFileName(name string) ExporterBuilderOption {
	return func(e *exporter) {
		e.fileName = name
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) ExporterBuilderOption {
	return func(e *exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}
