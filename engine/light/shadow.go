package light

// ShadowMapResolution is the default width and height in texels of a directional
// light's shadow depth texture.
const ShadowMapResolution = 1024

// DefaultShadowHalfExtent is the orthographic half-extent (world units) of the
// directional shadow frustum. The three.js-style default camera box is 5 units.
const DefaultShadowHalfExtent float32 = 5.0

// DefaultShadowNear is the near plane of the shadow projection.
const DefaultShadowNear float32 = 0.5

// DefaultShadowFar is the far plane of the shadow projection.
const DefaultShadowFar float32 = 500.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne.
const DefaultShadowBias float32 = 0.002

// Shadow holds per-light shadow map settings.
type Shadow struct {
	MapWidth   int
	MapHeight  int
	HalfExtent float32
	Near       float32
	Far        float32
	Bias       float32
}

// DefaultShadow returns the default shadow settings.
func DefaultShadow() Shadow {
	return Shadow{
		MapWidth:   ShadowMapResolution,
		MapHeight:  ShadowMapResolution,
		HalfExtent: DefaultShadowHalfExtent,
		Near:       DefaultShadowNear,
		Far:        DefaultShadowFar,
		Bias:       DefaultShadowBias,
	}
}
