package light

import (
	"encoding/binary"
	"math"
)

// GPULightUniformSize is the byte size of the WGSL LightUniform struct.
const GPULightUniformSize = 32

// GPULightUniform matches the WGSL LightUniform struct: two vec4<f32>, the direction with the
// ambient level in w and the color with the intensity in w.
type GPULightUniform struct {
	Direction [3]float32 // offset  0
	Ambient   float32    // offset 12
	Color     [3]float32 // offset 16
	Intensity float32    // offset 28
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: GPULightUniformSize bytes, little endian
func (g GPULightUniform) Marshal() []byte {
	buf := make([]byte, GPULightUniformSize)
	for i, f := range [8]float32{
		g.Direction[0], g.Direction[1], g.Direction[2], g.Ambient,
		g.Color[0], g.Color[1], g.Color[2], g.Intensity,
	} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
