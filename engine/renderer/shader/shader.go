// Package shader loads the embedded WGSL sources and extracts the layout metadata the renderer
// needs to build pipelines from them.
package shader

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

const backdropShared = "backdrop_shared"

//go:embed wgsl/*.wgsl
var sources embed.FS

// Source returns the embedded WGSL source for a pipeline key. Keys starting with "backdrop_"
// are prefixed with the shared full-screen vertex stage and noise helpers.
//
// Parameters:
//   - key: the pipeline key, e.g. "object" or "backdrop_nebula"
//
// Returns:
//   - string: the composed WGSL source
//   - error: when no source is embedded for key
func Source(key string) (string, error) {
	data, err := sources.ReadFile("wgsl/" + key + ".wgsl")
	if err != nil {
		return "", fmt.Errorf("shader: no source for %q: %w", key, err)
	}
	if strings.HasPrefix(key, "backdrop_") && key != backdropShared {
		shared, err := sources.ReadFile("wgsl/" + backdropShared + ".wgsl")
		if err != nil {
			return "", fmt.Errorf("shader: shared backdrop source: %w", err)
		}
		return string(shared) + "\n" + string(data), nil
	}
	return string(data), nil
}

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a parsed WGSL shader stage. It exposes the shader's key,
// source, entry point and the layout metadata needed for pipeline creation.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader's stage.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main"), empty if the stage has none
	EntryPoint() string

	// Module returns the shader module descriptor built from the source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// BindGroupLayoutDescriptors retrieves the bind group layouts declared in the source,
	// visible to this shader's stage.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexLayouts retrieves the vertex buffer layouts of a vertex shader.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, nil for fragment shaders or buffer-less vertex stages
	VertexLayouts() []wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShader creates a new Shader for one stage of a WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage to parse the source for
//   - source: the WGSL source
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key string, shaderType ShaderType, source string) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have a non-empty source", key))
	}
	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
		},
		entryPoint: parseEntryPoint(source, shaderType),
	}
	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(source)
	}
	s.bindGroupLayoutDescriptors = parseBindGroupLayouts(source, visibility)
	return s
}

// NewStages loads the embedded source for key and parses its vertex and fragment stages.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - Shader: the vertex stage
//   - Shader: the fragment stage
//   - error: when no source is embedded for key
func NewStages(key string) (Shader, Shader, error) {
	src, err := Source(key)
	if err != nil {
		return nil, nil, err
	}
	return NewShader(key+".vs", ShaderTypeVertex, src), NewShader(key+".fs", ShaderTypeFragment, src), nil
}

// MergeBindGroupLayouts combines the layouts of several stages, OR-ing the visibility of
// bindings that appear in more than one.
//
// Parameters:
//   - shaders: the stages of one pipeline
//
// Returns:
//   - []wgpu.BindGroupLayoutDescriptor: one descriptor per group index, ordered by index with gaps filled by empty layouts
func MergeBindGroupLayouts(shaders ...Shader) []wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	maxGroup := -1
	for _, s := range shaders {
		if s == nil {
			continue
		}
		for g, desc := range s.BindGroupLayoutDescriptors() {
			if merged[g] == nil {
				merged[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, e := range desc.Entries {
				if prev, ok := merged[g][e.Binding]; ok {
					e.Visibility |= prev.Visibility
				}
				merged[g][e.Binding] = e
			}
			maxGroup = max(maxGroup, g)
		}
	}

	out := make([]wgpu.BindGroupLayoutDescriptor, maxGroup+1)
	for g, entries := range merged {
		list := make([]wgpu.BindGroupLayoutEntry, 0, len(entries))
		for _, e := range entries {
			list = append(list, e)
		}
		sort.Slice(list, func(i, j int) bool {
			return list[i].Binding < list[j].Binding
		})
		out[g] = wgpu.BindGroupLayoutDescriptor{Entries: list}
	}
	return out
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}
