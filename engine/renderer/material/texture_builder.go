package material

// TextureBuilderOption is a function that configures a texture instance during construction.
type TextureBuilderOption func(*texture)

// WithTextureName sets the texture identifier.
func WithTextureName(name string) TextureBuilderOption {
	return func(t *texture) {
		t.name = name
	}
}

// WithSRGB marks the pixel data as sRGB encoded.
func WithSRGB(srgb bool) TextureBuilderOption {
	return func(t *texture) {
		t.srgb = srgb
	}
}

// WithAnisotropy sets the anisotropic filtering level. Values below 1 are raised to 1.
//
// Parameters:
//   - level: the requested anisotropy, usually the renderer's maximum
//
// Returns:
//   - TextureBuilderOption: option function to apply
func WithAnisotropy(level uint16) TextureBuilderOption {
	return func(t *texture) {
		t.anisotropy = max(level, 1)
	}
}
