// Package exporter serializes a scene graph to glTF 2.0 and hands the result to a
// Downloader as a single named blob.
package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oiishi/engine/scene"
	"github.com/google/uuid"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

const (
	// FileName is the name of the exported binary file.
	FileName = "oishii_bottle.glb"

	// MIMEBinary is the media type of binary glTF.
	MIMEBinary = "model/gltf-binary"

	// MIMEJSON is the media type of JSON glTF.
	MIMEJSON = "model/gltf+json"
)

// ErrNoScene is returned when Export is called without a root node.
var ErrNoScene = errors.New("exporter: no scene")

// Export encodes root and its subtree and triggers exactly one download.
// The blob is released once the download returns, whether it succeeded or not.
//
// Parameters:
//   - ctx: cancellation, checked before encoding and passed to the downloader
//   - root: the node to export, typically the scene root
//   - d: the downloader receiving the file
//   - options: variadic list of ExporterBuilderOption functions
//
// Returns:
//   - error: ErrNoScene, an encoding error or the downloader's error, wrapped
func Export(ctx context.Context, root scene.Node, d Downloader, options ...ExporterBuilderOption) error {
	e := &exporter{
		onlyVisible: true,
		binary:      true,
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		opt(e)
	}
	if root == nil {
		return ErrNoScene
	}
	if d == nil {
		panic("exporter: nil downloader")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger := e.logger.With(zap.String("component", "exporter"), zap.String("export_id", uuid.NewString()))

	data, err := Encode(root, options...)
	if err != nil {
		return fmt.Errorf("encode gltf: %w", err)
	}

	name, mime := e.fileName, MIMEBinary
	if !e.binary {
		mime = MIMEJSON
	}
	if name == "" {
		name = FileName
		if !e.binary {
			name = "oishii_bottle.gltf"
		}
	}

	blob := NewBlob(name, mime, data)
	defer blob.Release()

	if err := d.Download(ctx, blob); err != nil {
		logger.Warn("download failed", zap.String("file", name), zap.Error(err))
		return fmt.Errorf("download %s: %w", name, err)
	}
	logger.Info("scene exported", zap.String("file", name), zap.Int("bytes", len(data)))
	return nil
}

// Encode serializes root and its subtree to glTF bytes without downloading them.
//
// Parameters:
//   - root: the node to export
//   - options: variadic list of ExporterBuilderOption functions; only visibility and format apply
//
// Returns:
//   - []byte: the encoded document
//   - error: an error if a texture or the document could not be encoded
func Encode(root scene.Node, options ...ExporterBuilderOption) ([]byte, error) {
	e := &exporter{onlyVisible: true, binary: true}
	for _, opt := range options {
		opt(e)
	}
	if root == nil {
		return nil, ErrNoScene
	}

	doc, err := newDocumentBuilder(e.onlyVisible).build(root)
	if err != nil {
		return nil, err
	}

	if !e.binary {
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
	}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = e.binary
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
