// Package loader reads glTF and GLB files back into summaries for inspection and
// export verification.
package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	cache   map[string]*Summary
	backend loaderBackend
	logger  *zap.Logger
}

// Loader loads model files and caches their summaries by path or name.
type Loader interface {
	// Load reads a .glb or .gltf file and caches the result by path.
	// A cached summary is returned without touching the file again.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *Summary: the model summary
	//   - error: error if the extension is unsupported or decoding fails
	Load(path string) (*Summary, error)

	// LoadReader decodes a model from r and caches it under name, replacing any
	// previous entry.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing GLB or glTF JSON data
	//
	// Returns:
	//   - *Summary: the model summary
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader) (*Summary, error)

	// Get retrieves a cached summary by name. Returns nil if not found.
	Get(name string) *Summary

	// Summaries returns a copy of the cache keyed by name.
	Summaries() map[string]*Summary
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		cache:  make(map[string]*Summary),
		logger: zap.NewNop(),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	l.logger = l.logger.With(zap.String("component", "loader"))
	return l
}

func (l *loader) Load(path string) (*Summary, error) {
	l.mu.RLock()
	if cached, ok := l.cache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if err := l.checkExtension(path); err != nil {
		return nil, err
	}

	s, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	s.Name = filepath.Base(path)

	l.mu.Lock()
	l.cache[path] = s
	l.mu.Unlock()

	l.logger.Debug("model loaded", zap.String("path", path), zap.Int("meshes", len(s.Meshes)))
	return s, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*Summary, error) {
	s, err := l.backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	s.Name = name

	l.mu.Lock()
	l.cache[name] = s
	l.mu.Unlock()
	return s, nil
}

func (l *loader) Get(name string) *Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[name]
}

func (l *loader) Summaries() map[string]*Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]*Summary, len(l.cache))
	for k, v := range l.cache {
		out[k] = v
	}
	return out
}

func (l *loader) checkExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return nil
	default:
		return fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
}
