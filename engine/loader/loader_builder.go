package loader

import (
	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSummary is an option builder that pre-populates the cache with a summary.
//
// Parameters:
//   - key: the cache key for the summary
//   - s: the summary to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the summary option to a loader
func WithSummary(key string, s *Summary) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[key] = s
	}
}
