package material

import (
	"github.com/Carmen-Shannon/oiishi/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithKind is an option builder that sets the shading model.
//
// Parameters:
//   - kind: the shading model
//
// Returns:
//   - MaterialBuilderOption: a function that applies the kind option to a material
func WithKind(kind Kind) MaterialBuilderOption {
	return func(m *material) {
		m.kind = kind
	}
}

// WithColor is an option builder that sets the sRGB base color.
//
// Parameters:
//   - c: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(c common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.color = c
	}
}

// WithRoughness is an option builder that sets the roughness factor, clamped to [0, 1].
//
// Parameters:
//   - roughness: the roughness factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = common.Clamp(roughness, 0, 1)
	}
}

// WithMetalness is an option builder that sets the metallic factor, clamped to [0, 1].
//
// Parameters:
//   - metalness: the metallic factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metalness option to a material
func WithMetalness(metalness float32) MaterialBuilderOption {
	return func(m *material) {
		m.metalness = common.Clamp(metalness, 0, 1)
	}
}

// WithClearcoat sets the clearcoat intensity and switches the material to KindPhysical.
func WithClearcoat(clearcoat float32) MaterialBuilderOption {
	return func(m *material) {
		m.kind = KindPhysical
		m.clearcoat = common.Clamp(clearcoat, 0, 1)
	}
}

// WithSheen sets the sheen intensity and switches the material to KindPhysical.
func WithSheen(sheen float32) MaterialBuilderOption {
	return func(m *material) {
		m.kind = KindPhysical
		m.sheen = common.Clamp(sheen, 0, 1)
	}
}

// WithOpacity sets the opacity, clamped to [0, 1].
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = common.Clamp(opacity, 0, 1)
	}
}

// WithTransparent enables alpha blending.
func WithTransparent(transparent bool) MaterialBuilderOption {
	return func(m *material) {
		m.transparent = transparent
	}
}

// WithMap sets the base color texture.
//
// Parameters:
//   - tex: the texture sampled for base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the map option to a material
func WithMap(tex Texture) MaterialBuilderOption {
	return func(m *material) {
		m.textureMap = tex
	}
}
