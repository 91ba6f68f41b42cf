package material

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
)

// Uniform names every object material carries.
const (
	UniformColor   = "color"
	UniformOpacity = "opacity"
	UniformTime    = "time"
)

var nextMaterialID atomic.Uint64

// material is the implementation of the Material interface.
type material struct {
	id          uint64
	name        string
	pipelineKey string
	transparent bool
	wireframe   bool
	uniforms    uniform.Table
	layout      []string
	gpu         common.GPUResource
	released    bool
	tracker     *common.ResourceTracker
}

// Material defines the interface for a render material: a named uniform table plus the
// render state flags the renderer needs to pick a pipeline.
//
// The uniform table is live state. Writers (the uniform manager, the game object
// manager) mutate slots in place and the renderer packs them for upload.
type Material interface {
	// ID retrieves the process-unique identity of this material instance.
	// Clones receive a new ID.
	//
	// Returns:
	//   - uint64: the material identity
	ID() uint64

	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the flat colour held in the "color" uniform.
	//
	// Returns:
	//   - uniform.RGB: the colour, or black if the material has no colour uniform
	Color() uniform.RGB

	// Opacity retrieves the value of the "opacity" uniform, 1 if absent.
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// Transparent reports whether the material is alpha blended.
	//
	// Returns:
	//   - bool: true if the material uses blending
	Transparent() bool

	// Wireframe reports whether the material is drawn as edges only.
	//
	// Returns:
	//   - bool: true for wireframe materials
	Wireframe() bool

	// Uniforms retrieves the live uniform table.
	//
	// Returns:
	//   - uniform.Table: the material's uniform slots, nil for a released material
	Uniforms() uniform.Table

	// Layout retrieves the uniform names in GPU block order.
	//
	// Returns:
	//   - []string: the block layout
	Layout() []string

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// GPUResource retrieves the renderer allocation attached to this material.
	//
	// Returns:
	//   - common.GPUResource: the attached resource, or nil
	GPUResource() common.GPUResource

	// SetGPUResource attaches a renderer allocation. It is released with the material.
	//
	// Parameters:
	//   - r: the resource to attach
	SetGPUResource(r common.GPUResource)

	// Clone creates an independent copy with a deep-copied uniform table and a new
	// identity. GPU resources are not shared with the copy.
	//
	// Returns:
	//   - Material: the copy
	Clone() Material

	// Release frees the material's GPU resource and drops its uniform table.
	// Calling Release more than once has no further effect.
	Release()

	// Released reports whether Release has been called.
	//
	// Returns:
	//   - bool: true once released
	Released() bool
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		id:       nextMaterialID.Add(1),
		uniforms: make(uniform.Table),
	}
	for _, opt := range options {
		opt(m)
	}
	m.tracker.Acquire(common.ResourceMaterial)
	return m
}

func (m *material) ID() uint64 {
	return m.id
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() uniform.RGB {
	if s, ok := m.uniforms[UniformColor]; ok {
		return s.Value().RGB()
	}
	return uniform.RGB{}
}

func (m *material) Opacity() float32 {
	if s, ok := m.uniforms[UniformOpacity]; ok && s.Kind() == uniform.KindScalar {
		return s.Value().Float()
	}
	return 1
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) Wireframe() bool {
	return m.wireframe
}

func (m *material) Uniforms() uniform.Table {
	return m.uniforms
}

func (m *material) Layout() []string {
	return m.layout
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) GPUResource() common.GPUResource {
	return m.gpu
}

func (m *material) SetGPUResource(r common.GPUResource) {
	m.gpu = r
}

func (m *material) Clone() Material {
	c := &material{
		id:          nextMaterialID.Add(1),
		name:        m.name,
		pipelineKey: m.pipelineKey,
		transparent: m.transparent,
		wireframe:   m.wireframe,
		uniforms:    m.uniforms.Clone(),
		layout:      append([]string(nil), m.layout...),
		tracker:     m.tracker,
	}
	if c.uniforms == nil {
		c.uniforms = make(uniform.Table)
	}
	c.tracker.Acquire(common.ResourceMaterial)
	return c
}

func (m *material) Release() {
	if m.released {
		return
	}
	m.released = true
	if m.gpu != nil {
		m.gpu.Release()
		m.gpu = nil
	}
	m.uniforms = nil
	m.tracker.Release(common.ResourceMaterial)
}

func (m *material) Released() bool {
	return m.released
}
