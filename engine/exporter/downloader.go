package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Downloader delivers an exported blob to the user.
type Downloader interface {
	// Download saves or hands off b. The blob is released after Download returns, so
	// implementations that keep the bytes must copy them.
	//
	// Parameters:
	//   - ctx: cancellation for the transfer
	//   - b: the blob to deliver
	//
	// Returns:
	//   - error: an error if delivery failed
	Download(ctx context.Context, b *Blob) error
}

// FileDownloader writes blobs into a directory. Each file is written to a temporary
// name first and renamed into place, so readers never see a partial file.
type FileDownloader struct {
	Dir string
}

var _ Downloader = &FileDownloader{}

// NewFileDownloader creates a FileDownloader for dir. The directory is created on first use.
func NewFileDownloader(dir string) *FileDownloader {
	return &FileDownloader{Dir: dir}
}

func (f *FileDownloader) Download(ctx context.Context, b *Blob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	target := filepath.Join(f.Dir, filepath.Base(b.Name))
	tmp := filepath.Join(f.Dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(b.Name), uuid.NewString()))
	if err := os.WriteFile(tmp, b.Data(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename into %s: %w", target, err)
	}
	return nil
}

// Path returns where a blob named name is saved.
func (f *FileDownloader) Path(name string) string {
	return filepath.Join(f.Dir, filepath.Base(name))
}

// Download is one blob recorded by a MemoryDownloader.
type Download struct {
	Name string
	MIME string
	URL  string
	Data []byte
}

// MemoryDownloader records every blob it receives. Headless hosts and tests use it.
type MemoryDownloader struct {
	mu        *sync.Mutex
	downloads []Download
	err       error
}

var _ Downloader = &MemoryDownloader{}

// NewMemoryDownloader creates an empty MemoryDownloader.
func NewMemoryDownloader() *MemoryDownloader {
	return &MemoryDownloader{mu: &sync.Mutex{}}
}

// FailWith makes subsequent downloads return err without recording. nil restores normal behavior.
func (m *MemoryDownloader) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryDownloader) Download(ctx context.Context, b *Blob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.downloads = append(m.downloads, Download{
		Name: b.Name,
		MIME: b.MIME,
		URL:  b.URL(),
		Data: append([]byte(nil), b.Data()...),
	})
	return nil
}

// Downloads returns a copy of the recorded downloads in arrival order.
func (m *MemoryDownloader) Downloads() []Download {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Download(nil), m.downloads...)
}
