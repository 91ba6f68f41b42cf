package model

import (
	"github.com/Carmen-Shannon/oxy-starfield/engine/geometry"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithGeometry is an option builder that sets the mesh drawn by the Model.
//
// Parameters:
//   - g: the geometry
//
// Returns:
//   - ModelBuilderOption: a function that applies the geometry option to a model
func WithGeometry(g geometry.Geometry) ModelBuilderOption {
	return func(m *model) {
		m.geometry = g
	}
}

// WithMaterial is an option builder that sets the material applied to the Model.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		m.material = mat
	}
}

// WithPosition is an option builder that sets the initial world position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - ModelBuilderOption: a function that applies the position option to a model
func WithPosition(p [3]float32) ModelBuilderOption {
	return func(m *model) {
		m.transform.Position = p
	}
}

// WithScale is an option builder that sets the initial per-axis scale.
//
// Parameters:
//   - s: the scale
//
// Returns:
//   - ModelBuilderOption: a function that applies the scale option to a model
func WithScale(s [3]float32) ModelBuilderOption {
	return func(m *model) {
		m.transform.Scale = s
	}
}

// WithVisible is an option builder that sets the initial visibility.
//
// Parameters:
//   - v: visibility
//
// Returns:
//   - ModelBuilderOption: a function that applies the visibility option to a model
func WithVisible(v bool) ModelBuilderOption {
	return func(m *model) {
		m.visible = v
	}
}
