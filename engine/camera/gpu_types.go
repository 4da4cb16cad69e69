package camera

import (
	"encoding/binary"
	"math"
)

// GPUCameraUniformSize is the byte size of a marshaled GPUCameraUniform.
const GPUCameraUniformSize = 80

// GPUCameraUniform is the camera uniform block read by the lit shader.
// Layout: mat4x4<f32> view-projection at offset 0, vec4<f32> eye position at offset 64.
type GPUCameraUniform struct {
	ViewProj       [16]float32
	CameraPosition [3]float32
}

// NewGPUCameraUniform snapshots a camera for upload.
func NewGPUCameraUniform(c Camera) GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:       c.ViewProjectionMatrix(),
		CameraPosition: c.Position(),
	}
}

// Marshal serializes the uniform little-endian for GPU upload.
//
// Returns:
//   - []byte: GPUCameraUniformSize bytes
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, GPUCameraUniformSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	return buf
}
