package material

import (
	"encoding/binary"
	"math"
)

// GPUMaterialSize is the byte size of a marshaled GPUMaterial.
const GPUMaterialSize = 48

// GPUMaterial is the per-material uniform block of the lit shader.
//
//	offset  0: color  vec4<f32> linear rgb, a = opacity
//	offset 16: params vec4<f32> roughness, metalness, kind, transparent
//	offset 32: extra  vec4<f32> clearcoat, sheen, has map, map is sRGB
type GPUMaterial struct {
	Color  [4]float32
	Params [4]float32
	Extra  [4]float32
}

// PackMaterial converts a material into its uniform block.
func PackMaterial(m Material) GPUMaterial {
	c := m.Color().Linear()
	g := GPUMaterial{
		Color:  [4]float32{c[0], c[1], c[2], m.Opacity()},
		Params: [4]float32{m.Roughness(), m.Metalness(), float32(m.Kind()), 0},
		Extra:  [4]float32{m.Clearcoat(), m.Sheen(), 0, 0},
	}
	if m.Transparent() {
		g.Params[3] = 1
	}
	if t := m.Map(); t != nil && !t.Disposed() {
		g.Extra[2] = 1
		if t.SRGB() {
			g.Extra[3] = 1
		}
	}
	return g
}

// Marshal serializes the block little-endian for GPU upload.
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, GPUMaterialSize)
	for i, v := range [3][4]float32{g.Color, g.Params, g.Extra} {
		for j, f := range v {
			binary.LittleEndian.PutUint32(buf[i*16+j*4:], math.Float32bits(f))
		}
	}
	return buf
}
