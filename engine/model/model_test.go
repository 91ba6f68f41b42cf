package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-starfield/engine/geometry"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
)

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(WithName("marker"))
	assert.Equal(t, "marker", m.Name())
	assert.True(t, m.Visible())
	assert.Equal(t, [3]float32{1, 1, 1}, m.Scale())
	assert.Equal(t, [3]float32{}, m.Position())
	assert.Zero(t, m.BoundingRadius())
}

func TestModelMatrixAndBounds(t *testing.T) {
	g := geometry.NewGeometry(geometry.WithKind(geometry.KindSphere))
	m := NewModel(
		WithGeometry(g),
		WithPosition([3]float32{1, 2, 3}),
		WithScale([3]float32{1, 4, 2}),
	)
	out := make([]float32, 16)
	m.ModelMatrix(out)
	assert.Equal(t, []float32{1, 2, 3, 1}, out[12:16])
	assert.InDelta(t, 2.0, m.BoundingRadius(), 0.01)

	m.SetRotation([3]float32{0, 1, 0})
	assert.Equal(t, [3]float32{0, 1, 0}, m.Transform().Rotation)
}

func TestSetMaterialSwaps(t *testing.T) {
	a := material.NewMaterial(material.WithName("a"))
	b := material.NewMaterial(material.WithName("b"))
	m := NewModel(WithMaterial(a))
	m.SetMaterial(b)
	assert.Same(t, b, m.Material())
	m.SetVisible(false)
	assert.False(t, m.Visible())
}

func TestGPUModelDataMarshal(t *testing.T) {
	d := GPUModelData{}
	d.Model[15] = 1
	buf := make([]byte, d.Size())
	d.MarshalTo(buf)
	assert.Equal(t, 64, len(buf))
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf[60:64])
}
