package game_object

import (
	"maps"

	"github.com/jinzhu/copier"

	"github.com/Carmen-Shannon/oxy-starfield/engine/geometry"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
)

// Fixed per-call rotation step and the base opacity of type materials.
const (
	RotationDelta   float32 = 0.016
	TemplateOpacity float32 = 0.8
)

// ObjectConfig describes one object to materialize.
type ObjectConfig struct {
	ID       string         `yaml:"id"`
	Type     string         `yaml:"type"`
	Name     string         `yaml:"name,omitempty"`
	Position *[3]float32    `yaml:"position,omitempty"`
	Rotation [3]float32     `yaml:"rotation,omitempty"`
	Scale    float32        `yaml:"scale,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// TypeDefinition is the shared template for one object type. Instances clone its geometry
// and material; the templates themselves are never attached to the scene.
type TypeDefinition struct {
	Name          string
	Geometry      geometry.Geometry
	Material      material.Material
	RotationSpeed float32
	Scale         float32
}

func (d *TypeDefinition) release() {
	d.Geometry.Release()
	d.Material.Release()
}

// Stats summarizes the current object set.
type Stats struct {
	Total    int
	ByType   map[string]int
	Visible  int
	Selected int
}

// cloneMetadata deep-copies free-form metadata so nested maps and slices are not shared.
func cloneMetadata(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	if err := copier.CopyWithOption(&out, in, copier.Option{DeepCopy: true}); err != nil {
		return maps.Clone(in)
	}
	return out
}
