// Package geometry provides the procedural primitive meshes used for game object markers.
package geometry

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-starfield/common"
)

// Kind names a primitive mesh.
type Kind string

const (
	KindBox         Kind = "box"
	KindSphere      Kind = "sphere"
	KindOctahedron  Kind = "octahedron"
	KindTetrahedron Kind = "tetrahedron"
	KindCone        Kind = "cone"
	KindCylinder    Kind = "cylinder"
	KindTorus       Kind = "torus"
)

var kindAliases = map[string]Kind{
	"box":         KindBox,
	"cube":        KindBox,
	"sphere":      KindSphere,
	"ball":        KindSphere,
	"octahedron":  KindOctahedron,
	"diamond":     KindOctahedron,
	"tetrahedron": KindTetrahedron,
	"pyramid":     KindTetrahedron,
	"cone":        KindCone,
	"cylinder":    KindCylinder,
	"torus":       KindTorus,
	"ring":        KindTorus,
}

// KindForName maps a configured geometry name to a primitive. Unknown names map to KindBox.
//
// Parameters:
//   - name: the geometry name from configuration, case-insensitive
//
// Returns:
//   - Kind: the primitive kind
//   - bool: false when name was not recognized and the box fallback was used
func KindForName(name string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return KindBox, false
	}
	return k, true
}

var nextGeometryID atomic.Uint64

// meshData is the immutable vertex and index data of a primitive, built on first use and
// shared by every clone.
type meshData struct {
	once     sync.Once
	kind     Kind
	vertices []GPUVertex
	indices  []uint32
	radius   float32
}

func (d *meshData) get() *meshData {
	d.once.Do(func() {
		d.vertices, d.indices = buildMesh(d.kind)
		d.radius = boundingRadius(d.vertices)
	})
	return d
}

// geometry is the implementation of the Geometry interface.
type geometry struct {
	id       uint64
	name     string
	mesh     *meshData
	gpu      common.GPUResource
	released bool
	tracker  *common.ResourceTracker
}

// Geometry defines the interface for a primitive mesh owned by exactly one holder.
// Mesh data is shared between clones but each clone carries its own GPU resource
// and must be released by its owner.
type Geometry interface {
	// ID retrieves the process-unique identity of this geometry instance.
	//
	// Returns:
	//   - uint64: the identity
	ID() uint64

	// Name retrieves the geometry name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Kind retrieves the primitive kind.
	//
	// Returns:
	//   - Kind: the primitive
	Kind() Kind

	// Vertices retrieves the vertex data. The slice must not be modified.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices retrieves the triangle indices. The slice must not be modified.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// VertexData serializes the vertices for GPU upload.
	//
	// Returns:
	//   - []byte: VertexStride bytes per vertex
	VertexData() []byte

	// IndexData serializes the indices for GPU upload.
	//
	// Returns:
	//   - []byte: 4 bytes per index
	IndexData() []byte

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// GPUResource retrieves the renderer allocation attached to this geometry.
	//
	// Returns:
	//   - common.GPUResource: the resource, or nil
	GPUResource() common.GPUResource

	// SetGPUResource attaches a renderer allocation. It is released with the geometry.
	//
	// Parameters:
	//   - r: the resource
	SetGPUResource(r common.GPUResource)

	// Clone creates a new geometry sharing this one's mesh data.
	//
	// Returns:
	//   - Geometry: the clone, owned by the caller
	Clone() Geometry

	// Release frees the GPU resource. Calling Release more than once has no further effect.
	Release()

	// Released reports whether Release has been called.
	//
	// Returns:
	//   - bool: true once released
	Released() bool
}

var _ Geometry = &geometry{}

// NewGeometry creates a Geometry configured with the provided options.
//
// Parameters:
//   - options: variadic list of GeometryBuilderOption functions
//
// Returns:
//   - Geometry: the new geometry, a box unless WithKind is given
func NewGeometry(options ...GeometryBuilderOption) Geometry {
	g := &geometry{
		id:   nextGeometryID.Add(1),
		mesh: &meshData{kind: KindBox},
	}
	for _, opt := range options {
		opt(g)
	}
	if g.name == "" {
		g.name = string(g.mesh.kind)
	}
	g.tracker.Acquire(common.ResourceGeometry)
	return g
}

func (g *geometry) ID() uint64 {
	return g.id
}

func (g *geometry) Name() string {
	return g.name
}

func (g *geometry) Kind() Kind {
	return g.mesh.kind
}

func (g *geometry) Vertices() []GPUVertex {
	return g.mesh.get().vertices
}

func (g *geometry) Indices() []uint32 {
	return g.mesh.get().indices
}

func (g *geometry) VertexData() []byte {
	return marshalVertices(g.mesh.get().vertices)
}

func (g *geometry) IndexData() []byte {
	return marshalIndices(g.mesh.get().indices)
}

func (g *geometry) IndexCount() int {
	return len(g.mesh.get().indices)
}

func (g *geometry) BoundingRadius() float32 {
	return g.mesh.get().radius
}

func (g *geometry) GPUResource() common.GPUResource {
	return g.gpu
}

func (g *geometry) SetGPUResource(r common.GPUResource) {
	g.gpu = r
}

func (g *geometry) Clone() Geometry {
	c := &geometry{
		id:      nextGeometryID.Add(1),
		name:    g.name,
		mesh:    g.mesh,
		tracker: g.tracker,
	}
	c.tracker.Acquire(common.ResourceGeometry)
	return c
}

func (g *geometry) Release() {
	if g.released {
		return
	}
	g.released = true
	if g.gpu != nil {
		g.gpu.Release()
		g.gpu = nil
	}
	g.tracker.Release(common.ResourceGeometry)
}

func (g *geometry) Released() bool {
	return g.released
}
