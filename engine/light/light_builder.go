package light

import (
	"github.com/Carmen-Shannon/oiishi/common"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithType is an option builder that sets the kind of light source.
//
// Parameters:
//   - t: the light type
//
// Returns:
//   - LightBuilderOption: a function that applies the type option to a lightImpl
func WithType(t LightType) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightType = t
	}
}

// WithName is an option builder that sets the light identifier.
func WithName(name string) LightBuilderOption {
	return func(l *lightImpl) {
		l.name = name
	}
}

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = common.Vec3{x, y, z}
	}
}

// WithTarget is an option builder that sets the point a directional light shines at.
// Defaults to the origin.
func WithTarget(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = common.Vec3{x, y, z}
	}
}

// WithColor is an option builder that sets the sRGB color (the sky color for hemisphere lights).
//
// Parameters:
//   - c: the light color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithGroundColor is an option builder that sets the hemisphere ground color.
func WithGroundColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.groundColor = c
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
// Negative values are clamped to zero.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = max(intensity, 0)
	}
}

// WithCastsShadows is an option builder that enables shadow map rendering for directional lights.
func WithCastsShadows(casts bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = casts
	}
}

// WithShadowMapSize is an option builder that sets the shadow map resolution in texels.
// Non-positive sizes are ignored.
//
// Parameters:
//   - width: shadow map width
//   - height: shadow map height
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow size option to a lightImpl
func WithShadowMapSize(width, height int) LightBuilderOption {
	return func(l *lightImpl) {
		if width > 0 && height > 0 {
			l.shadow.MapWidth = width
			l.shadow.MapHeight = height
		}
	}
}

// WithShadowHalfExtent sets the half size of the orthographic shadow frustum.
func WithShadowHalfExtent(extent float32) LightBuilderOption {
	return func(l *lightImpl) {
		if extent > 0 {
			l.shadow.HalfExtent = extent
		}
	}
}

// WithEnabled is an option builder that sets whether the light starts enabled.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
