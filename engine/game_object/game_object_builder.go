package game_object

import (
	"time"

	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithType sets the type definition name.
//
// Parameters:
//   - typeName: the type name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the type
func WithType(typeName string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.typeName = typeName
	}
}

// WithName sets the display name. Defaults to the ID.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithModel sets the Model for this GameObject. The GameObject takes ownership of the
// model's geometry and material.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithRotationSpeed sets the rotation speed in radians per second.
//
// Parameters:
//   - speed: the rotation speed
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(speed float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = speed
	}
}

// WithMetadata sets the free-form metadata. The map is stored as given.
//
// Parameters:
//   - metadata: the metadata
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the metadata
func WithMetadata(metadata map[string]any) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.metadata = metadata
	}
}

// WithLastSeen sets the last-seen timestamp.
//
// Parameters:
//   - t: the timestamp
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the timestamp
func WithLastSeen(t time.Time) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.lastSeen = t
	}
}
