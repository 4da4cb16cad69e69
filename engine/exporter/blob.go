package exporter

import (
	"sync"

	"github.com/google/uuid"
)

// Blob is an in-memory file handed to a Downloader. It carries an object reference,
// a unique "blob:" URL, that is valid until Release.
type Blob struct {
	Name string
	MIME string

	mu       *sync.Mutex
	data     []byte
	url      string
	released bool
}

// NewBlob wraps data under a fresh object reference.
//
// Parameters:
//   - name: the suggested file name
//   - mime: the media type
//   - data: the contents, retained without copying
//
// Returns:
//   - *Blob: the blob
func NewBlob(name, mime string, data []byte) *Blob {
	return &Blob{
		Name: name,
		MIME: mime,
		mu:   &sync.Mutex{},
		data: data,
		url:  "blob:" + uuid.NewString(),
	}
}

// Data returns the contents, or nil after Release.
func (b *Blob) Data() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Size returns the byte length of the contents.
func (b *Blob) Size() int {
	return len(b.Data())
}

// URL returns the object reference, or "" after Release.
func (b *Blob) URL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ""
	}
	return b.url
}

// Release revokes the object reference and drops the contents.
//
// Returns:
//   - bool: true on the first call, false if already released
func (b *Blob) Release() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return false
	}
	b.released = true
	b.data = nil
	return true
}

// Released reports whether Release has been called.
func (b *Blob) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}
