package material

import (
	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
)

// Pipeline keys for game object materials.
const (
	PipelineObject          = "object"
	PipelineObjectWireframe = "object_wireframe"
)

// Spec describes a flat-shaded object material.
type Spec struct {
	Name        string
	Geometry    string
	Color       uniform.RGB
	Opacity     float32
	Transparent bool
	Wireframe   bool
}

// factory is the implementation of the Factory interface.
type factory struct {
	tracker *common.ResourceTracker
}

// Factory produces object materials carrying the color, opacity and time uniforms.
type Factory interface {
	// NewMaterial creates a material from a spec.
	//
	// Parameters:
	//   - spec: the material description
	//
	// Returns:
	//   - Material: the new material, owned by the caller
	NewMaterial(spec Spec) Material

	// Tracker retrieves the tracker counting every material this factory creates.
	//
	// Returns:
	//   - *common.ResourceTracker: the tracker, may be nil
	Tracker() *common.ResourceTracker
}

var _ Factory = &factory{}

// NewFactory creates a material Factory.
//
// Parameters:
//   - tracker: resource tracker for created materials and their clones, may be nil
//
// Returns:
//   - Factory: the new factory
func NewFactory(tracker *common.ResourceTracker) Factory {
	return &factory{tracker: tracker}
}

func (f *factory) NewMaterial(spec Spec) Material {
	key := PipelineObject
	if spec.Wireframe {
		key = PipelineObjectWireframe
	}
	name := spec.Name
	if name == "" {
		name = spec.Geometry
	}
	return NewMaterial(
		WithName(name),
		WithPipelineKey(key),
		WithTransparent(spec.Transparent),
		WithWireframe(spec.Wireframe),
		WithTracker(f.tracker),
		WithUniform(UniformColor, uniform.Color(spec.Color.R, spec.Color.G, spec.Color.B)),
		WithUniform(UniformOpacity, uniform.Scalar(spec.Opacity)),
		WithUniform(UniformTime, uniform.Scalar(0)),
	)
}

func (f *factory) Tracker() *common.ResourceTracker {
	return f.tracker
}
