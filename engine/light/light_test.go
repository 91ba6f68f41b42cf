package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()
	d := l.Direction()
	assert.InDelta(t, 1.0, math.Sqrt(float64(d[0]*d[0]+d[1]*d[1]+d[2]*d[2])), 1e-6)
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color())
	assert.True(t, l.Enabled())
	assert.InDelta(t, 0.25, l.Ambient(), 1e-6)
}

func TestBuilderOptions(t *testing.T) {
	l := NewLight(
		WithDirection(0, 0, 5),
		WithHexColor("#ff8000"),
		WithIntensity(-2),
		WithAmbient(3),
		WithEnabled(false),
	)
	assert.Equal(t, [3]float32{0, 0, 1}, l.Direction())
	c := l.Color()
	assert.InDelta(t, 1.0, c[0], 1e-6)
	assert.InDelta(t, 128.0/255.0, c[1], 1e-6)
	assert.Zero(t, c[2])
	assert.Zero(t, l.Intensity())
	assert.Equal(t, float32(1), l.Ambient())
	assert.False(t, l.Enabled())

	l = NewLight(WithDirection(0, 0, 0), WithHexColor("not a color"))
	assert.Equal(t, NewLight().Direction(), l.Direction())
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color())
}

func TestUniformMarshal(t *testing.T) {
	l := NewLight(WithDirection(0, 1, 0), WithColor(0.5, 0.25, 1), WithIntensity(2), WithAmbient(0.1))
	buf := l.Uniform().Marshal()
	require.Len(t, buf, GPULightUniformSize)

	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	assert.Equal(t, []float32{0, 1, 0, 0.1, 0.5, 0.25, 1, 2}, []float32{f(0), f(1), f(2), f(3), f(4), f(5), f(6), f(7)})

	l.SetEnabled(false)
	assert.Zero(t, l.Uniform().Intensity)
	assert.Equal(t, float32(0.1), l.Uniform().Ambient)
}
