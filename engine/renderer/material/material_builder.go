package material

import (
	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithUniform is an option builder that adds a uniform slot to the material.
// Uniforms are laid out in the GPU block in the order they are added.
//
// Parameters:
//   - name: the uniform name
//   - v: the initial value
//
// Returns:
//   - MaterialBuilderOption: a function that applies the uniform option to a material
func WithUniform(name string, v uniform.Value) MaterialBuilderOption {
	return func(m *material) {
		if m.uniforms == nil {
			m.uniforms = make(uniform.Table)
		}
		if _, exists := m.uniforms[name]; !exists {
			m.layout = append(m.layout, name)
		}
		m.uniforms[name] = uniform.NewSlot(v)
	}
}

// WithTransparent is an option builder that enables alpha blending.
//
// Parameters:
//   - transparent: whether the material blends with what is behind it
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparent(transparent bool) MaterialBuilderOption {
	return func(m *material) {
		m.transparent = transparent
	}
}

// WithWireframe is an option builder that draws the material as edges only.
//
// Parameters:
//   - wireframe: whether the material renders as a wireframe
//
// Returns:
//   - MaterialBuilderOption: a function that applies the wireframe option to a material
func WithWireframe(wireframe bool) MaterialBuilderOption {
	return func(m *material) {
		m.wireframe = wireframe
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key for the material.
//
// Parameters:
//   - key: the pipeline key to associate with the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

// WithTracker is an option builder that counts the material's creation and release.
//
// Parameters:
//   - tracker: the resource tracker, may be nil
//
// Returns:
//   - MaterialBuilderOption: a function that applies the tracker option to a material
func WithTracker(tracker *common.ResourceTracker) MaterialBuilderOption {
	return func(m *material) {
		m.tracker = tracker
	}
}

// WithoutUniformTable is an option builder that leaves the material without a uniform table.
// Such materials cannot be registered with the uniform manager.
//
// Returns:
//   - MaterialBuilderOption: a function that clears the uniform table
func WithoutUniformTable() MaterialBuilderOption {
	return func(m *material) {
		m.uniforms = nil
		m.layout = nil
	}
}
