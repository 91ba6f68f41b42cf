package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
)

type fakeResource struct {
	releases int
}

func (f *fakeResource) Release() { f.releases++ }

func TestFactoryNewMaterial(t *testing.T) {
	tracker := common.NewResourceTracker()
	f := NewFactory(tracker)

	m := f.NewMaterial(Spec{Geometry: "sphere", Color: uniform.RGB{R: 1}, Opacity: 0.8, Transparent: true})
	assert.Equal(t, "sphere", m.Name())
	assert.Equal(t, PipelineObject, m.PipelineKey())
	assert.Equal(t, uniform.RGB{R: 1}, m.Color())
	assert.Equal(t, float32(0.8), m.Opacity())
	assert.True(t, m.Transparent())
	assert.Equal(t, []string{UniformColor, UniformOpacity, UniformTime}, m.Layout())
	assert.Equal(t, 1, tracker.Live(common.ResourceMaterial))

	w := f.NewMaterial(Spec{Name: "highlight", Wireframe: true, Opacity: 1})
	assert.Equal(t, PipelineObjectWireframe, w.PipelineKey())
	assert.True(t, w.Wireframe())
	assert.Same(t, tracker, f.Tracker())
}

func TestMaterialCloneIsIndependent(t *testing.T) {
	tracker := common.NewResourceTracker()
	orig := NewFactory(tracker).NewMaterial(Spec{Color: uniform.RGB{G: 1}, Opacity: 1})
	orig.SetGPUResource(&fakeResource{})

	clone := orig.Clone()
	require.NotEqual(t, orig.ID(), clone.ID())
	assert.Nil(t, clone.GPUResource())

	clone.Uniforms()[UniformColor].Set(uniform.Color(1, 0, 0))
	assert.Equal(t, uniform.RGB{G: 1}, orig.Color())
	assert.Equal(t, uniform.RGB{R: 1}, clone.Color())
	assert.Equal(t, 2, tracker.Live(common.ResourceMaterial))
}

func TestMaterialReleaseOnce(t *testing.T) {
	tracker := common.NewResourceTracker()
	res := &fakeResource{}
	m := NewMaterial(WithTracker(tracker), WithUniform("time", uniform.Scalar(0)))
	m.SetGPUResource(res)

	m.Release()
	m.Release()

	assert.True(t, m.Released())
	assert.Nil(t, m.Uniforms())
	assert.Equal(t, 1, res.releases)
	assert.Equal(t, 1, tracker.Released(common.ResourceMaterial))
	assert.Zero(t, tracker.Live(common.ResourceMaterial))
}

func TestWithoutUniformTable(t *testing.T) {
	m := NewMaterial(WithoutUniformTable())
	assert.Nil(t, m.Uniforms())
	assert.Equal(t, float32(1), m.Opacity())
	assert.Equal(t, uniform.RGB{}, m.Color())
}

func TestBackdropsMatchSchemas(t *testing.T) {
	specs := Backdrops()
	require.Len(t, specs, 4)
	for _, spec := range specs {
		m := NewBackdrop(spec, nil)
		assert.Equal(t, spec.Name, m.Name())
		assert.Len(t, m.Layout(), len(spec.Uniforms))
		assert.Contains(t, m.Uniforms(), UniformTime, spec.Name)
		for _, u := range spec.Uniforms {
			_, ok := spec.Schema[u.Name]
			assert.True(t, ok, "%s.%s has no schema entry", spec.Name, u.Name)
		}
	}
}
