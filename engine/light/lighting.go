package light

import (
	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/chewxy/math32"
)

// Irradiance returns the linear light arriving at a surface with the given world normal.
//
// Hemisphere lights blend ground toward sky by how much the normal points up. Directional
// lights add a Lambert term scaled by visibility, where visibility is 1 for fully lit and 0
// for fully shadowed.
//
// Parameters:
//   - lights: the scene lights
//   - normal: unit world-space surface normal
//   - visibility: shadow visibility for shadow-casting lights
//
// Returns:
//   - common.Color: linear irradiance
func Irradiance(lights []Light, normal common.Vec3, visibility float32) common.Color {
	var out common.Color
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		switch l.Type() {
		case LightTypeHemisphere:
			w := 0.5*normal[1] + 0.5
			sky := l.Color().Linear()
			ground := l.GroundColor().Linear()
			out = out.Add(ground.Lerp(sky, w).Scale(l.Intensity()))
		case LightTypeDirectional:
			ndl := max(normal.Dot(l.Direction().Scale(-1)), 0)
			if l.CastsShadows() {
				ndl *= visibility
			}
			out = out.Add(l.Color().Linear().Scale(l.Intensity() * ndl))
		}
	}
	return out
}

// Specular returns a Blinn-Phong highlight term for directional lights.
//
// Parameters:
//   - lights: the scene lights
//   - normal: unit world-space surface normal
//   - view: unit direction from the surface toward the eye
//   - roughness: material roughness in [0, 1]
//   - visibility: shadow visibility for shadow-casting lights
//
// Returns:
//   - common.Color: linear specular contribution before material tinting
func Specular(lights []Light, normal, view common.Vec3, roughness, visibility float32) common.Color {
	var out common.Color
	shininess := 2 / max(roughness*roughness*roughness*roughness, 1e-3)
	for _, l := range lights {
		if !l.Enabled() || l.Type() != LightTypeDirectional {
			continue
		}
		toLight := l.Direction().Scale(-1)
		if normal.Dot(toLight) <= 0 {
			continue
		}
		h := toLight.Add(view).Normalize()
		s := pow(max(normal.Dot(h), 0), shininess) * (1 - roughness)
		if l.CastsShadows() {
			s *= visibility
		}
		out = out.Add(l.Color().Linear().Scale(l.Intensity() * s))
	}
	return out
}

func pow(x, y float32) float32 {
	if x <= 0 {
		return 0
	}
	return math32.Pow(x, y)
}
