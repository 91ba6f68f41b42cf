package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-starfield/common"
)

var _ common.GPUResource = NewBindGroupProvider("resource")

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("backdrop.nebula")
	assert.Equal(t, "backdrop.nebula", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(1))
	assert.Nil(t, p.Sampler(2))
	assert.Zero(t, p.IndexCount())
}

func TestReleaseOnEmptyProviderIsIdempotent(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetIndexBuffer(nil, 36)
	p.SetLineIndexBuffer(nil, 72)

	assert.NotPanics(t, p.Release)
	assert.NotPanics(t, p.Release)
	assert.True(t, p.Released())
	assert.Zero(t, p.IndexCount())
	assert.Zero(t, p.LineIndexCount())
}
