// Package model defines the renderable scene node: a geometry drawn with a material at a transform.
package model

import (
	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/geometry"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	name      string
	geometry  geometry.Geometry
	material  material.Material
	transform common.Transform
	visible   bool
}

// Model defines the interface for a renderable node in the scene graph.
// A Model does not own its geometry or material; whoever created them releases them.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Geometry retrieves the mesh drawn by this model.
	//
	// Returns:
	//   - geometry.Geometry: the geometry
	Geometry() geometry.Geometry

	// Material retrieves the material currently applied to this model.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// SetMaterial swaps the material applied to this model.
	//
	// Parameters:
	//   - m: the material to apply
	SetMaterial(m material.Material)

	// Position retrieves the world position.
	//
	// Returns:
	//   - [3]float32: the position
	Position() [3]float32

	// SetPosition sets the world position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p [3]float32)

	// Rotation retrieves the Euler rotation in radians.
	//
	// Returns:
	//   - [3]float32: the rotation around x, y and z
	Rotation() [3]float32

	// SetRotation sets the Euler rotation in radians.
	//
	// Parameters:
	//   - r: the new rotation
	SetRotation(r [3]float32)

	// Scale retrieves the per-axis scale.
	//
	// Returns:
	//   - [3]float32: the scale
	Scale() [3]float32

	// SetScale sets the per-axis scale.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s [3]float32)

	// Visible reports whether the model is drawn.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// SetVisible shows or hides the model.
	//
	// Parameters:
	//   - v: visibility
	SetVisible(v bool)

	// Transform retrieves position, rotation and scale together.
	//
	// Returns:
	//   - common.Transform: the transform
	Transform() common.Transform

	// ModelMatrix writes the column-major model-to-world matrix into out.
	//
	// Parameters:
	//   - out: destination, at least 16 elements
	ModelMatrix(out []float32)

	// BoundingRadius returns the geometry's bounding radius multiplied by the largest scale axis.
	//
	// Returns:
	//   - float32: the world-space bounding radius
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new visible Model at the origin with unit scale
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		transform: common.IdentityTransform(),
		visible:   true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Geometry() geometry.Geometry {
	return m.geometry
}

func (m *model) Material() material.Material {
	return m.material
}

func (m *model) SetMaterial(mat material.Material) {
	m.material = mat
}

func (m *model) Position() [3]float32 {
	return m.transform.Position
}

func (m *model) SetPosition(p [3]float32) {
	m.transform.Position = p
}

func (m *model) Rotation() [3]float32 {
	return m.transform.Rotation
}

func (m *model) SetRotation(r [3]float32) {
	m.transform.Rotation = r
}

func (m *model) Scale() [3]float32 {
	return m.transform.Scale
}

func (m *model) SetScale(s [3]float32) {
	m.transform.Scale = s
}

func (m *model) Visible() bool {
	return m.visible
}

func (m *model) SetVisible(v bool) {
	m.visible = v
}

func (m *model) Transform() common.Transform {
	return m.transform
}

func (m *model) ModelMatrix(out []float32) {
	common.BuildModelMatrix(out, m.transform.Position, m.transform.Rotation, m.transform.Scale)
}

func (m *model) BoundingRadius() float32 {
	if m.geometry == nil {
		return 0
	}
	s := m.transform.Scale
	return m.geometry.BoundingRadius() * math32.Max(math32.Abs(s[0]), math32.Max(math32.Abs(s[1]), math32.Abs(s[2])))
}
