package loader

import (
	"io"
)

// loaderBackend reads one model format into a Summary.
type loaderBackend interface {
	// Load decodes the model at path.
	Load(path string) (*Summary, error)

	// LoadReader decodes a model from r.
	LoadReader(r io.Reader) (*Summary, error)
}
