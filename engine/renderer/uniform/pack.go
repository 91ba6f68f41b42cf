package uniform

import (
	"encoding/binary"
	"math"
)

// SlotSize is the number of bytes one uniform occupies in a packed block (one vec4<f32>).
const SlotSize = 16

// Pack serializes the named uniforms of table into a std140-style block, one 16-byte
// slot per entry of layout in order. Scalars and booleans occupy the first lane,
// vectors and colours the first two or three lanes. Missing uniforms, strings,
// textures and arrays leave their slot zeroed.
//
// Parameters:
//   - table: the uniform table to read
//   - layout: the uniform names in block order
//
// Returns:
//   - []byte: len(layout)*SlotSize bytes ready for GPU upload
func Pack(table Table, layout []string) []byte {
	buf := make([]byte, len(layout)*SlotSize)
	for i, name := range layout {
		slot, ok := table[name]
		if !ok || slot == nil {
			continue
		}
		off := i * SlotSize
		v := slot.value
		switch v.kind {
		case KindScalar:
			putFloat(buf[off:], v.comps[0])
		case KindBool:
			if v.b {
				putFloat(buf[off:], 1)
			}
		case KindVec2:
			putFloat(buf[off:], v.comps[0])
			putFloat(buf[off+4:], v.comps[1])
		case KindVec3, KindColor:
			putFloat(buf[off:], v.comps[0])
			putFloat(buf[off+4:], v.comps[1])
			putFloat(buf[off+8:], v.comps[2])
		}
	}
	return buf
}

func putFloat(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(f))
}
