package light

import (
	"github.com/Carmen-Shannon/oiishi/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeHemisphere is an ambient fill that blends a sky color and a ground color
	// by how much a surface faces up.
	LightTypeHemisphere LightType = iota

	// LightTypeDirectional is a distant light shining from Position toward Target.
	// It is the only type that can cast shadows.
	LightTypeDirectional
)

func (t LightType) String() string {
	switch t {
	case LightTypeHemisphere:
		return "hemisphere"
	case LightTypeDirectional:
		return "directional"
	default:
		return "unknown"
	}
}

type lightImpl struct {
	lightType    LightType
	name         string
	color        common.Color
	groundColor  common.Color
	intensity    float32
	position     common.Vec3
	target       common.Vec3
	castsShadows bool
	shadow       Shadow
	enabled      bool
}

// Light defines a light source in the scene.
//
// Type-specific properties return zero values when not applicable: GroundColor is
// only meaningful for hemisphere lights, Direction and Shadow only for directional lights.
type Light interface {
	// Type returns the kind of light source.
	Type() LightType

	// Name returns the light identifier.
	Name() string

	// Color returns the sRGB light color (the sky color for hemisphere lights).
	Color() common.Color

	// GroundColor returns the sRGB color hemisphere lights apply to downward-facing surfaces.
	GroundColor() common.Color

	// Intensity returns the scalar intensity multiplier.
	Intensity() float32

	// Position returns the world-space position of the light.
	Position() common.Vec3

	// Target returns the point a directional light shines at.
	Target() common.Vec3

	// Direction returns the normalized direction light travels, from Position toward Target.
	//
	// Returns:
	//   - common.Vec3: unit direction
	Direction() common.Vec3

	// CastsShadows returns whether this light renders a shadow map.
	CastsShadows() bool

	// Shadow returns the shadow map settings.
	Shadow() Shadow

	// ShadowViewProjection returns the light-space matrix used to render and sample the shadow map.
	//
	// Returns:
	//   - common.Mat4: orthographic projection * light view
	ShadowViewProjection() common.Mat4

	// Enabled returns whether this light contributes to rendering.
	Enabled() bool

	// SetEnabled toggles the light.
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light with the provided options.
// Defaults: hemisphere type, white, intensity 1, enabled, shadow settings from DefaultShadow.
//
// Parameters:
//   - options: variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the configured light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: LightTypeHemisphere,
		color:     common.Color{1, 1, 1},
		intensity: 1,
		position:  common.Vec3{0, 1, 0},
		shadow:    DefaultShadow(),
		enabled:   true,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) GroundColor() common.Color {
	return l.groundColor
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Position() common.Vec3 {
	return l.position
}

func (l *lightImpl) Target() common.Vec3 {
	return l.target
}

func (l *lightImpl) Direction() common.Vec3 {
	d := l.target.Sub(l.position)
	if d.Len() == 0 {
		return common.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows && l.lightType == LightTypeDirectional
}

func (l *lightImpl) Shadow() Shadow {
	return l.shadow
}

func (l *lightImpl) ShadowViewProjection() common.Mat4 {
	s := l.shadow
	up := common.Vec3{0, 1, 0}
	if d := l.Direction(); d[0] == 0 && d[2] == 0 {
		up = common.Vec3{0, 0, -1}
	}
	view := common.LookAt(l.position, l.target, up)
	proj := common.Orthographic(-s.HalfExtent, s.HalfExtent, -s.HalfExtent, s.HalfExtent, s.Near, s.Far)
	return proj.Mul(view)
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
