package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
)

func TestSourceComposesBackdrops(t *testing.T) {
	src, err := Source("backdrop_stars")
	require.NoError(t, err)
	assert.Contains(t, src, "struct FrameUniform")
	assert.Contains(t, src, "struct Stars")
	assert.Less(t, strings.Index(src, "fn vs_main"), strings.Index(src, "fn fs_main"))

	obj, err := Source(material.PipelineObject)
	require.NoError(t, err)
	assert.NotContains(t, obj, "FrameUniform")

	_, err = Source("backdrop_missing")
	assert.Error(t, err)
}

func TestUniformStructsMatchMaterialLayouts(t *testing.T) {
	structs := map[string]string{
		"backdrop_nebula": "Nebula",
		"backdrop_stars":  "Stars",
		"backdrop_clouds": "Clouds",
		"backdrop_planet": "Planet",
	}
	for _, spec := range material.Backdrops() {
		t.Run(spec.Name, func(t *testing.T) {
			src, err := Source(spec.PipelineKey)
			require.NoError(t, err)
			m := material.NewBackdrop(spec, nil)
			defer m.Release()
			assert.Equal(t, m.Layout(), StructFields(src, structs[spec.PipelineKey]))
		})
	}

	src, err := Source(material.PipelineObject)
	require.NoError(t, err)
	m := material.NewFactory(nil).NewMaterial(material.Spec{Geometry: "box", Opacity: 1})
	defer m.Release()
	fields := StructFields(src, "ObjectUniform")
	require.NotEmpty(t, fields)
	assert.Equal(t, "model", fields[0])
	assert.Equal(t, m.Layout(), fields[1:])
}

func TestObjectStages(t *testing.T) {
	vs, fs, err := NewStages(material.PipelineObject)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", vs.EntryPoint())
	assert.Equal(t, "fs_main", fs.EntryPoint())
	assert.Equal(t, ShaderTypeFragment, fs.ShaderType())
	assert.Nil(t, fs.VertexLayouts())

	layouts := vs.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(24), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint32(1), layouts[0].Attributes[1].ShaderLocation)

	groups := MergeBindGroupLayouts(vs, fs)
	require.Len(t, groups, 2)
	camera := groups[0].Entries[0]
	assert.Equal(t, wgpu.BufferBindingTypeUniform, camera.Buffer.Type)
	assert.Equal(t, uint64(80), camera.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, camera.Visibility)
	require.Len(t, groups[0].Entries, 2)
	assert.Equal(t, uint32(1), groups[0].Entries[1].Binding)
	assert.Equal(t, uint64(32), groups[0].Entries[1].Buffer.MinBindingSize)
	assert.Equal(t, []string{"direction", "color"}, StructFields(vs.Source(), "LightUniform"))
	assert.Equal(t, uint64(112), groups[1].Entries[0].Buffer.MinBindingSize)
}

func TestPlanetBindings(t *testing.T) {
	vs, fs, err := NewStages("backdrop_planet")
	require.NoError(t, err)
	assert.Empty(t, vs.VertexLayouts())

	groups := MergeBindGroupLayouts(vs, fs)
	require.Len(t, groups, 2)
	assert.Equal(t, uint64(16), groups[0].Entries[0].Buffer.MinBindingSize)

	entries := groups[1].Entries
	require.Len(t, entries, 3)
	assert.Equal(t, uint64(8*16), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[1].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[1].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[2].Sampler.Type)
}

func TestParserHelpers(t *testing.T) {
	src := `
/* outer /* nested */ still comment */
struct Inner { a: vec3<f32>, b: f32 };
// struct Ghost { x: f32 };
struct Outer { m: mat4x4<f32>, inner: Inner, v: vec2<f32> };
`
	assert.Nil(t, StructFields(src, "Ghost"))
	assert.Equal(t, []string{"m", "inner", "v"}, StructFields(src, "Outer"))

	sizes := computeStructSizes(parseStructBlocks(stripComments(src)))
	assert.Equal(t, typeLayout{16, 16}, sizes["Inner"])
	assert.Equal(t, typeLayout{96, 16}, sizes["Outer"])

	assert.Equal(t, []string{" a: vec3<f32>", " b: array<vec4<f32>, 4>"}, splitAtTopLevelCommas(" a: vec3<f32>, b: array<vec4<f32>, 4>"))
	assert.Equal(t, uint64(32), roundUpAlign(16, 17))
}

func TestNewShaderPanicsOnEmptySource(t *testing.T) {
	assert.Panics(t, func() { NewShader("empty", ShaderTypeVertex, "") })
}
