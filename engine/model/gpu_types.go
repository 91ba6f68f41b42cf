package model

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUModelData is the GPU-aligned per-model transform that precedes the material block in the
// object uniform buffer.
// Size: 64 bytes (mat4x4<f32> = 16 × float32, std140 aligned, no padding required).
type GPUModelData struct {
	Model [16]float32 // offset 0: 4×4 model-to-world transform matrix (64 bytes)
}

// Size returns the size of the GPUModelData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUModelData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo serializes the matrix into the first 64 bytes of buf.
//
// Parameters:
//   - buf: destination, at least 64 bytes
func (g *GPUModelData) MarshalTo(buf []byte) {
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Model[i]))
	}
}
