package light

import (
	"encoding/binary"
	"math"
)

// GPUSceneLightsSize is the byte size of a marshaled GPUSceneLights uniform.
const GPUSceneLightsSize = 64

// GPUSceneLights is the uniform block the lit shader reads: one hemisphere fill
// and one directional key light. Colors are linear and premultiplied by intensity.
// Layout (WGSL uniform, 16-byte aligned):
//
//	offset  0: sky       vec4<f32>
//	offset 16: ground    vec4<f32>
//	offset 32: key color vec4<f32>
//	offset 48: key dir   vec4<f32> (w = 1 when the key casts shadows)
type GPUSceneLights struct {
	Sky          [4]float32
	Ground       [4]float32
	KeyColor     [4]float32
	KeyDirection [4]float32
}

// PackSceneLights folds enabled lights into a GPUSceneLights block.
// Multiple lights of one type are summed; the last directional light wins the direction.
//
// Parameters:
//   - lights: the scene lights
//
// Returns:
//   - GPUSceneLights: the packed uniform
func PackSceneLights(lights []Light) GPUSceneLights {
	var g GPUSceneLights
	g.KeyDirection = [4]float32{0, -1, 0, 0}
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		switch l.Type() {
		case LightTypeHemisphere:
			sky := l.Color().Linear().Scale(l.Intensity())
			ground := l.GroundColor().Linear().Scale(l.Intensity())
			for i := 0; i < 3; i++ {
				g.Sky[i] += sky[i]
				g.Ground[i] += ground[i]
			}
		case LightTypeDirectional:
			c := l.Color().Linear().Scale(l.Intensity())
			for i := 0; i < 3; i++ {
				g.KeyColor[i] += c[i]
			}
			d := l.Direction()
			g.KeyDirection = [4]float32{d[0], d[1], d[2], 0}
			if l.CastsShadows() {
				g.KeyDirection[3] = 1
			}
		}
	}
	return g
}

// Marshal serializes the block little-endian for GPU upload.
//
// Returns:
//   - []byte: GPUSceneLightsSize bytes
func (g *GPUSceneLights) Marshal() []byte {
	buf := make([]byte, GPUSceneLightsSize)
	vecs := [4][4]float32{g.Sky, g.Ground, g.KeyColor, g.KeyDirection}
	for i, v := range vecs {
		for j, f := range v {
			off := i*16 + j*4
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
		}
	}
	return buf
}
