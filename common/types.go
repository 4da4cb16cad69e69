// Package common contains plain value types and math shared across the engine packages.
package common

import (
	"image"
	"image/draw"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data pending GPU upload.
type TextureStagingData struct {
	// Pixels is tightly packed RGBA, 4 bytes per pixel, row-major.
	Pixels []byte
	Width  uint32
	Height uint32
	// SRGB selects an sRGB texture format on upload.
	SRGB bool
}

// SamplerStagingData holds the configuration of a sampler pending GPU creation.
type SamplerStagingData struct {
	AddressModeU, AddressModeV wgpu.AddressMode
	MagFilter, MinFilter       wgpu.FilterMode
	MipmapFilter               wgpu.MipmapFilterMode
	// MaxAnisotropy is clamped to [1, 16] by the backend.
	MaxAnisotropy uint16
}

// NewTextureStagingData copies any image into tightly packed RGBA staging data.
//
// Parameters:
//   - img: source image (nil yields an empty staging record)
//   - srgb: whether the pixel data is sRGB encoded
//
// Returns:
//   - TextureStagingData: the staged pixels
func NewTextureStagingData(img image.Image, srgb bool) TextureStagingData {
	if img == nil {
		return TextureStagingData{SRGB: srgb}
	}
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		SRGB:   srgb,
	}
}

// DefaultSampler returns linear, clamped sampling with the given anisotropy.
func DefaultSampler(anisotropy uint16) SamplerStagingData {
	return SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		MaxAnisotropy: Clamp(anisotropy, 1, 16),
	}
}
