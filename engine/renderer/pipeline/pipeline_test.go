package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/shader"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("object")

	assert.Equal(t, "object", p.PipelineKey())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Nil(t, p.Pipeline())
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))

	target := p.ColorTarget(wgpu.TextureFormatBGRA8Unorm)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, target.Format)
	assert.Equal(t, wgpu.ColorWriteMaskAll, target.WriteMask)
	assert.Nil(t, target.Blend)
}

func TestBackdropOptions(t *testing.T) {
	vs, fs, err := shader.NewStages("backdrop_stars")
	require.NoError(t, err)

	p := NewPipeline("backdrop_stars.additive",
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithBlendMode(BlendModeAdditive),
		WithTopology(wgpu.PrimitiveTopologyTriangleList),
	)

	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.Same(t, fs, p.Shader(shader.ShaderTypeFragment))
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthCompare())
	assert.False(t, p.DepthWriteEnabled())

	target := p.ColorTarget(wgpu.TextureFormatBGRA8Unorm)
	require.NotNil(t, target.Blend)
	assert.Equal(t, wgpu.BlendFactorOne, target.Blend.Color.DstFactor)
}

func TestBlendState(t *testing.T) {
	tests := []struct {
		mode     string
		src, dst wgpu.BlendFactor
	}{
		{BlendModeNormal, wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOneMinusSrcAlpha},
		{BlendModeAdditive, wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOne},
		{BlendModeScreen, wgpu.BlendFactorOne, wgpu.BlendFactorOneMinusSrc},
		{"overlay", wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOneMinusSrcAlpha},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			b := BlendState(tt.mode)
			assert.Equal(t, tt.src, b.Color.SrcFactor)
			assert.Equal(t, tt.dst, b.Color.DstFactor)
			assert.Equal(t, wgpu.BlendOperationAdd, b.Color.Operation)
			assert.Equal(t, wgpu.BlendFactorOne, b.Alpha.SrcFactor)
		})
	}
}

func TestReleaseWithoutGPUPipeline(t *testing.T) {
	p := NewPipeline("object_wireframe", WithTopology(wgpu.PrimitiveTopologyLineList), WithCullMode(wgpu.CullModeBack))
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	p.Release()
	p.Release()
	assert.Nil(t, p.Pipeline())
}
