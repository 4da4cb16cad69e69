package main

import (
	"context"

	"github.com/Carmen-Shannon/oiishi/engine/exporter"
)

// recordingDownloader remembers where the last file was written.
type recordingDownloader struct {
	*exporter.FileDownloader
	path string
	size int
}

func (r *recordingDownloader) Download(ctx context.Context, b *exporter.Blob) error {
	if err := r.FileDownloader.Download(ctx, b); err != nil {
		return err
	}
	r.path = r.Path(b.Name)
	r.size = b.Size()
	return nil
}
