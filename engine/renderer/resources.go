package renderer

import (
	"fmt"
	"hash/fnv"
	"math"
	"path/filepath"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
)

// Planet backdrop bindings in group 1, after the uniform block at 0.
const (
	planetTextureBinding = 1
	planetSamplerBinding = 2
	planetTextureUniform = "texture"

	maxPlanetTextureSize = 2048
)

// providerOf returns the live bind group provider attached to a geometry or material.
func providerOf(res common.GPUResource) (bind_group_provider.BindGroupProvider, bool) {
	if res == nil {
		return nil, false
	}
	p, ok := res.(bind_group_provider.BindGroupProvider)
	if !ok || p.Released() {
		return nil, false
	}
	return p, true
}

// meshProvider uploads a model's geometry on first use and attaches the buffers to it.
func (r *renderer) meshProvider(m model.Model) (bind_group_provider.BindGroupProvider, error) {
	geo := m.Geometry()
	if p, ok := providerOf(geo.GPUResource()); ok {
		return p, nil
	}
	p := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("mesh:%s#%d", geo.Name(), geo.ID()))
	if err := r.backend.InitMeshBuffers(p, geo.VertexData(), geo.Indices(), lineIndices(geo.Indices())); err != nil {
		p.Release()
		return nil, err
	}
	geo.SetGPUResource(p)
	return p, nil
}

// objectProvider creates the per-model uniform buffer and bind group on the model's material.
func (r *renderer) objectProvider(mat material.Material) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := providerOf(mat.GPUResource()); ok {
		return p, nil
	}
	p := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("object:%s#%d", mat.Name(), mat.ID()))
	if err := r.backend.InitBindGroup(p, r.objectLayouts[objectGroup], nil); err != nil {
		p.Release()
		return nil, err
	}
	mat.SetGPUResource(p)
	return p, nil
}

func (r *renderer) backdropProvider(m material.Material) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := providerOf(m.GPUResource()); ok {
		return p, nil
	}
	layouts := r.backdropLayouts[m.PipelineKey()]
	if len(layouts) <= objectGroup {
		return nil, fmt.Errorf("no layout for pipeline %q", m.PipelineKey())
	}

	p := bind_group_provider.NewBindGroupProvider(m.Name())
	if m.Name() == material.BackdropPlanet {
		if err := r.backend.InitSampler(p, planetSamplerBinding, common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeRepeat,
			AddressModeV: wgpu.AddressModeClampToEdge,
		}); err != nil {
			p.Release()
			return nil, err
		}
		name := textureName(m)
		if err := r.backend.InitTextureView(p, planetTextureBinding, r.loadTexture(name)); err != nil {
			p.Release()
			return nil, err
		}
		r.planetTextures[m.ID()] = name
	}
	if err := r.backend.InitBindGroup(p, layouts[objectGroup], nil); err != nil {
		p.Release()
		return nil, err
	}
	m.SetGPUResource(p)
	return p, nil
}

// syncPlanetTexture rebinds the planet surface when the material's texture reference changed.
func (r *renderer) syncPlanetTexture(m material.Material, p bind_group_provider.BindGroupProvider) error {
	name := textureName(m)
	if bound, ok := r.planetTextures[m.ID()]; ok && bound == name {
		return nil
	}
	if err := r.backend.InitTextureView(p, planetTextureBinding, r.loadTexture(name)); err != nil {
		return err
	}
	if err := r.backend.InitBindGroup(p, r.backdropLayouts[m.PipelineKey()][objectGroup], nil); err != nil {
		return err
	}
	r.planetTextures[m.ID()] = name
	r.logger.Debug("Planet texture bound", "texture", name)
	return nil
}

func textureName(m material.Material) string {
	slot := m.Uniforms()[planetTextureUniform]
	if slot == nil {
		return ""
	}
	if t := slot.Value().Texture(); t != nil {
		return t.Name
	}
	return ""
}

// loadTexture decodes a planet image relative to the asset directory. Remote references and
// unreadable files fall back to a procedural surface derived from the name.
func (r *renderer) loadTexture(name string) common.TextureStagingData {
	if t, ok := r.textures[name]; ok {
		return t
	}
	var staged common.TextureStagingData
	switch {
	case name == "" || strings.Contains(name, "://"):
		staged = proceduralTexture(name, r.textureSize)
	default:
		var err error
		staged, err = common.DecodeTexture(filepath.Join(r.assetDir, name), nil, maxPlanetTextureSize)
		if err != nil {
			r.logger.Warn("Planet image unavailable, using procedural surface", "texture", name, "error", err)
			staged = proceduralTexture(name, r.textureSize)
		}
	}
	r.textures[name] = staged
	return staged
}

// proceduralTexture paints banded planet surface colors seeded by a hash of name.
func proceduralTexture(name string, size int) common.TextureStagingData {
	size = max(size, 1)
	h := fnv.New32a()
	h.Write([]byte(name))
	seed := h.Sum32()

	base := colorful.Hcl(float64(seed%360), 0.35, 0.65).Clamped()
	accent := colorful.Hcl(float64((seed/360)%360), 0.45, 0.35).Clamped()
	freq := 3 + float64(seed%5)

	pixels := make([]byte, size*size*4)
	for y := range size {
		v := float64(y) / float64(size)
		for x := range size {
			u := float64(x) / float64(size)
			band := 0.5 + 0.5*math.Sin(v*freq*2*math.Pi+0.4*math.Sin(u*6*math.Pi))
			r, g, b := base.BlendLab(accent, band).Clamped().RGB255()
			i := (y*size + x) * 4
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = r, g, b, 255
		}
	}
	return common.TextureStagingData{Pixels: pixels, Width: uint32(size), Height: uint32(size)}
}

// lineIndices converts a triangle list into a line list with every edge drawn once.
func lineIndices(tris []uint32) []uint32 {
	seen := make(map[uint64]struct{}, len(tris))
	lines := make([]uint32, 0, len(tris)*2)
	for t := 0; t+2 < len(tris); t += 3 {
		for _, e := range [3][2]uint32{{tris[t], tris[t+1]}, {tris[t+1], tris[t+2]}, {tris[t+2], tris[t]}} {
			a, b := min(e[0], e[1]), max(e[0], e[1])
			key := uint64(a)<<32 | uint64(b)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			lines = append(lines, e[0], e[1])
		}
	}
	return lines
}
