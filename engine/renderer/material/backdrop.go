package material

import (
	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
)

// Backdrop material names. They double as uniform manager registration ids.
const (
	BackdropNebula = "backdrop.nebula"
	BackdropClouds = "backdrop.clouds"
	BackdropPlanet = "backdrop.planet"
	BackdropStars  = "backdrop.stars"
)

// BlendModes lists the blend modes accepted by the star layer.
var BlendModes = []any{"normal", "additive", "screen"}

// NamedValue is an ordered uniform declaration.
type NamedValue struct {
	Name  string
	Value uniform.Value
}

// BackdropSpec describes one full-screen backdrop layer: its pipeline, uniform block and schema.
type BackdropSpec struct {
	Name        string
	PipelineKey string
	Uniforms    []NamedValue
	Schema      uniform.Schema
}

// Backdrops returns the backdrop layers in draw order (back to front).
//
// Returns:
//   - []BackdropSpec: nebula, stars, clouds and planet specs
func Backdrops() []BackdropSpec {
	return []BackdropSpec{
		{
			Name:        BackdropNebula,
			PipelineKey: "backdrop_nebula",
			Uniforms: []NamedValue{
				{"color1", uniform.Color(0.10, 0.05, 0.30)},
				{"color2", uniform.Color(0.45, 0.10, 0.50)},
				{"color3", uniform.Color(0.05, 0.25, 0.45)},
				{"intensity", uniform.Scalar(0.6)},
				{"scale", uniform.Scalar(2)},
				{"speed", uniform.Scalar(0.02)},
				{"octaves", uniform.Scalar(5)},
				{"opacity", uniform.Scalar(1)},
				{UniformTime, uniform.Scalar(0)},
			},
			Schema: uniform.Schema{
				"color1":    {Type: uniform.FieldColor},
				"color2":    {Type: uniform.FieldColor},
				"color3":    {Type: uniform.FieldColor},
				"intensity": {Type: uniform.FieldIntensity},
				"scale":     {Type: uniform.FieldNumber, Min: uniform.Bounds(0.1), Max: uniform.Bounds(10)},
				"speed":     {Type: uniform.FieldNumber, Min: uniform.Bounds(0), Max: uniform.Bounds(1)},
				"octaves":   {Type: uniform.FieldNumber, Min: uniform.Bounds(1), Max: uniform.Bounds(8)},
				"opacity":   {Type: uniform.FieldIntensity},
				UniformTime: {Type: uniform.FieldNumber},
			},
		},
		{
			Name:        BackdropStars,
			PipelineKey: "backdrop_stars",
			Uniforms: []NamedValue{
				{"density", uniform.Scalar(0.5)},
				{"minSize", uniform.Scalar(0.5)},
				{"maxSize", uniform.Scalar(2)},
				{"twinkle", uniform.Scalar(0.3)},
				{"blendMode", uniform.String("additive")},
				{UniformTime, uniform.Scalar(0)},
			},
			Schema: uniform.Schema{
				"density":   {Type: uniform.FieldIntensity},
				"minSize":   {Type: uniform.FieldNumber, Min: uniform.Bounds(0)},
				"maxSize":   {Type: uniform.FieldNumber, Min: uniform.Bounds(0)},
				"twinkle":   {Type: uniform.FieldIntensity},
				"blendMode": {Type: uniform.FieldBlendMode, Enum: BlendModes},
				UniformTime: {Type: uniform.FieldNumber},
			},
		},
		{
			Name:        BackdropClouds,
			PipelineKey: "backdrop_clouds",
			Uniforms: []NamedValue{
				{"color", uniform.Color(0.6, 0.6, 0.7)},
				{"opacity", uniform.Scalar(0.35)},
				{"scale", uniform.Scalar(1.5)},
				{"speed", uniform.Scalar(0.01)},
				{"coverage", uniform.Scalar(0.4)},
				{UniformTime, uniform.Scalar(0)},
			},
			Schema: uniform.Schema{
				"color":     {Type: uniform.FieldColor},
				"opacity":   {Type: uniform.FieldIntensity},
				"scale":     {Type: uniform.FieldNumber, Min: uniform.Bounds(0.1), Max: uniform.Bounds(10)},
				"speed":     {Type: uniform.FieldNumber, Min: uniform.Bounds(0), Max: uniform.Bounds(1)},
				"coverage":  {Type: uniform.FieldIntensity},
				UniformTime: {Type: uniform.FieldNumber},
			},
		},
		{
			Name:        BackdropPlanet,
			PipelineKey: "backdrop_planet",
			Uniforms: []NamedValue{
				{"atmosphereColor", uniform.Color(0.3, 0.6, 1)},
				{"atmosphereIntensity", uniform.Scalar(0.5)},
				{"position", uniform.Vector3(0.4, 0.2, 0)},
				{"scale", uniform.Scalar(0.25)},
				{"rotationSpeed", uniform.Scalar(0.05)},
				{"visible", uniform.Bool(true)},
				{"texture", uniform.TextureRef(nil)},
				{UniformTime, uniform.Scalar(0)},
			},
			Schema: uniform.Schema{
				"atmosphereColor":     {Type: uniform.FieldColor},
				"atmosphereIntensity": {Type: uniform.FieldIntensity},
				"position":            {Type: uniform.FieldVector3},
				"scale":               {Type: uniform.FieldNumber, Min: uniform.Bounds(0.01), Max: uniform.Bounds(2)},
				"rotationSpeed":       {Type: uniform.FieldNumber},
				"visible":             {Type: uniform.FieldBoolean},
				"texture":             {Type: uniform.FieldTexture},
				UniformTime:           {Type: uniform.FieldNumber},
			},
		},
	}
}

// NewBackdrop creates the material for a backdrop layer with its default uniform values.
//
// Parameters:
//   - spec: the backdrop layer description
//   - tracker: resource tracker, may be nil
//
// Returns:
//   - Material: the backdrop material, owned by the caller
func NewBackdrop(spec BackdropSpec, tracker *common.ResourceTracker) Material {
	opts := []MaterialBuilderOption{
		WithName(spec.Name),
		WithPipelineKey(spec.PipelineKey),
		WithTransparent(spec.Name != BackdropNebula),
		WithTracker(tracker),
	}
	for _, u := range spec.Uniforms {
		opts = append(opts, WithUniform(u.Name, u.Value))
	}
	return NewMaterial(opts...)
}
