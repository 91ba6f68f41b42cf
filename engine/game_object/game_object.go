package game_object

import (
	"time"

	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
)

type gameObject struct {
	id            string
	typeName      string
	name          string
	mdl           model.Model
	original      material.Material
	rotationSpeed float32
	metadata      map[string]any
	lastSeen      time.Time
	released      bool
}

// GameObject defines the interface for one interactive marker instance in the scene.
// The instance owns its model's geometry and its original material; while selected the
// model borrows the manager's highlight material instead.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - string: the object ID
	ID() string

	// Type returns the name of the type definition the object was built from.
	//
	// Returns:
	//   - string: the type name
	Type() string

	// Name returns the display name.
	//
	// Returns:
	//   - string: the display name
	Name() string

	// Model returns the renderable node attached to the scene.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// OriginalMaterial returns the instance's own material, which the model shows while
	// the object is not selected.
	//
	// Returns:
	//   - material.Material: the original material
	OriginalMaterial() material.Material

	// RotationSpeed returns the rotation speed in radians per second.
	//
	// Returns:
	//   - float32: the rotation speed
	RotationSpeed() float32

	// Position returns the world position.
	//
	// Returns:
	//   - [3]float32: the position
	Position() [3]float32

	// Rotation returns the Euler rotation in radians.
	//
	// Returns:
	//   - [3]float32: the rotation
	Rotation() [3]float32

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - [3]float32: the scale
	Scale() [3]float32

	// Metadata returns a copy of the free-form metadata.
	//
	// Returns:
	//   - map[string]any: the metadata
	Metadata() map[string]any

	// LastSeen returns when the object was last added or refreshed.
	//
	// Returns:
	//   - time.Time: the timestamp
	LastSeen() time.Time

	// Highlighted reports whether the model currently shows a material other than the original.
	//
	// Returns:
	//   - bool: true while selected
	Highlighted() bool

	// Released reports whether the object's resources have been freed.
	//
	// Returns:
	//   - bool: true once released
	Released() bool
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// The model's current material becomes the original material.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	return newGameObject(options...)
}

func newGameObject(options ...GameObjectBuilderOption) *gameObject {
	obj := &gameObject{}
	for _, option := range options {
		option(obj)
	}
	if obj.mdl != nil && obj.original == nil {
		obj.original = obj.mdl.Material()
	}
	if obj.name == "" {
		obj.name = obj.id
	}
	return obj
}

func (g *gameObject) ID() string {
	return g.id
}

func (g *gameObject) Type() string {
	return g.typeName
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) OriginalMaterial() material.Material {
	return g.original
}

func (g *gameObject) RotationSpeed() float32 {
	return g.rotationSpeed
}

func (g *gameObject) Position() [3]float32 {
	return g.mdl.Position()
}

func (g *gameObject) Rotation() [3]float32 {
	return g.mdl.Rotation()
}

func (g *gameObject) Scale() [3]float32 {
	return g.mdl.Scale()
}

func (g *gameObject) Metadata() map[string]any {
	return cloneMetadata(g.metadata)
}

func (g *gameObject) LastSeen() time.Time {
	return g.lastSeen
}

func (g *gameObject) Highlighted() bool {
	return g.mdl != nil && g.mdl.Material() != g.original
}

func (g *gameObject) Released() bool {
	return g.released
}

// restore puts the original material back on the model.
func (g *gameObject) restore() {
	if g.mdl != nil {
		g.mdl.SetMaterial(g.original)
	}
}

// release frees the instance's geometry and original material exactly once. The model is
// pointed back at the original first so it never keeps a borrowed material.
func (g *gameObject) release() {
	if g.released {
		return
	}
	g.released = true
	g.restore()
	if g.mdl != nil && g.mdl.Geometry() != nil {
		g.mdl.Geometry().Release()
	}
	if g.original != nil {
		g.original.Release()
	}
}
