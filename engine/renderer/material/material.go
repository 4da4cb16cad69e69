package material

import (
	"sync"

	"github.com/Carmen-Shannon/oiishi/common"
)

// Kind selects the shading model of a material.
type Kind int

const (
	// KindStandard is metallic/roughness PBR shading.
	KindStandard Kind = iota
	// KindPhysical extends KindStandard with clearcoat and sheen.
	KindPhysical
	// KindShadow renders only received shadows, transparent elsewhere.
	KindShadow
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindPhysical:
		return "physical"
	case KindShadow:
		return "shadow"
	default:
		return "unknown"
	}
}

type material struct {
	mu *sync.Mutex

	name        string
	kind        Kind
	color       common.Color
	roughness   float32
	metalness   float32
	clearcoat   float32
	sheen       float32
	opacity     float32
	transparent bool
	textureMap  Texture

	disposed bool
}

// Material is a shading parameter set shared by one or more meshes.
// Disposing a material does not dispose its texture map; textures are released separately.
type Material interface {
	// Name returns the material identifier.
	Name() string

	// Kind returns the shading model.
	Kind() Kind

	// Color returns the sRGB base color.
	Color() common.Color

	// Roughness returns the roughness factor (0 = mirror, 1 = fully diffuse).
	Roughness() float32

	// Metalness returns the metallic factor.
	Metalness() float32

	// Clearcoat returns the clearcoat layer intensity (physical materials only).
	Clearcoat() float32

	// Sheen returns the sheen intensity (physical materials only).
	Sheen() float32

	// Opacity returns the opacity in [0, 1].
	Opacity() float32

	// Transparent reports whether the material blends with what is behind it.
	Transparent() bool

	// Map returns the base color texture, or nil.
	Map() Texture

	// Dispose releases the material.
	//
	// Returns:
	//   - bool: true on the first call, false if already released
	Dispose() bool

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

var _ Material = &material{}

// NewMaterial creates a Material with the provided options.
// Defaults: standard kind, white, roughness 1, metalness 0, opaque.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:        &sync.Mutex{},
		kind:      KindStandard,
		color:     common.Color{1, 1, 1},
		roughness: 1,
		opacity:   1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// NewShadowMaterial creates a material that only shows received shadows at the given opacity.
func NewShadowMaterial(opacity float32, options ...MaterialBuilderOption) Material {
	base := []MaterialBuilderOption{
		WithKind(KindShadow),
		WithColor(common.Color{0, 0, 0}),
		WithOpacity(opacity),
		WithTransparent(true),
	}
	return NewMaterial(append(base, options...)...)
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) Color() common.Color {
	return m.color
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Metalness() float32 {
	return m.metalness
}

func (m *material) Clearcoat() float32 {
	return m.clearcoat
}

func (m *material) Sheen() float32 {
	return m.sheen
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) Map() Texture {
	return m.textureMap
}

func (m *material) Dispose() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return false
	}
	m.disposed = true
	return true
}

func (m *material) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}
