// Package renderer draws the starfield with WebGPU: full-screen backdrop layers first, then the
// game object markers of the scene.
package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine"
	"github.com/Carmen-Shannon/oxy-starfield/engine/camera"
	"github.com/Carmen-Shannon/oxy-starfield/engine/light"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
)

// PipelineObjectTransparent is the alpha-blended variant of the object pipeline.
const PipelineObjectTransparent = material.PipelineObject + ".transparent"

const (
	cameraGroup = 0
	objectGroup = 1

	cameraBinding = 0
	lightBinding  = 1
)

// Stats describes the most recent frame.
type Stats struct {
	Frames    uint64
	Drawn     int
	Culled    int
	Backdrops int
}

// Surface is the drawable the renderer presents to. window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// drawItem is one object that survived culling, with its packed uniform block.
type drawItem struct {
	model       model.Model
	mesh        bind_group_provider.BindGroupProvider
	object      bind_group_provider.BindGroupProvider
	pipeline    pipeline.Pipeline
	transparent bool
	distance    float32
	data        []byte
}

type backdropDraw struct {
	pipeline pipeline.Pipeline
	provider bind_group_provider.BindGroupProvider
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu sync.Mutex

	backend   RendererBackend
	pipelines map[string]pipeline.Pipeline

	objectLayouts   []wgpu.BindGroupLayoutDescriptor
	backdropLayouts map[string][]wgpu.BindGroupLayoutDescriptor
	objectSize      int

	cameraProvider bind_group_provider.BindGroupProvider
	frameProvider  bind_group_provider.BindGroupProvider
	light          light.Light

	// textures caches decoded planet surfaces by name; planetTextures records which name each
	// planet material currently has bound.
	textures       map[string]common.TextureStagingData
	planetTextures map[uint64]string
	uploaded       map[uint64]bool

	pool      worker.DynamicWorkerPool
	workers   int
	batchSize int
	taskID    int

	assetDir      string
	textureSize   int
	width, height int
	stats         Stats
	released      bool

	presentMode PresentMode
	msaa        MSAASampleCount
	clearColor  wgpu.Color

	logger *slog.Logger
}

// Renderer defines the interface for the starfield renderer. It implements engine.FrameRenderer
// and attaches its GPU allocations to the geometries and materials it draws, so they are freed
// when their owners release them.
type Renderer interface {
	engine.FrameRenderer

	// Pipeline retrieves a registered pipeline by key.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, or nil if not registered
	Pipeline(key string) pipeline.Pipeline

	// SetPresentMode changes the present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Stats returns counters for the most recent frame.
	//
	// Returns:
	//   - Stats: the frame statistics
	Stats() Stats
}

var _ Renderer = &renderer{}

// NewRenderer creates the WebGPU device for a surface, registers the object and backdrop
// pipelines and configures the surface to its current size.
//
// Parameters:
//   - surface: the window to present to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: error if no adapter, device or pipeline could be created
func NewRenderer(surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		pipelines:       make(map[string]pipeline.Pipeline),
		backdropLayouts: make(map[string][]wgpu.BindGroupLayoutDescriptor),
		textures:        make(map[string]common.TextureStagingData),
		planetTextures:  make(map[uint64]string),
		uploaded:        make(map[uint64]bool),
		workers:         4,
		batchSize:       64,
		textureSize:     256,
		presentMode:     PresentModeVSync,
		msaa:            MSAA4x,
		clearColor:      wgpu.Color{A: 1},
		logger:          slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.light == nil {
		r.light = light.NewLight()
	}
	r.logger = r.logger.With("component", "renderer")

	if r.backend == nil {
		desc := surface.SurfaceDescriptor()
		if desc == nil {
			return nil, errors.New("renderer: surface is not initialized")
		}
		backend, err := newWGPURendererBackend(desc, r.msaa)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = backend
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)
	r.width, r.height = surface.Width(), surface.Height()
	r.backend.ConfigureSurface(r.width, r.height)

	if err := r.registerPipelines(); err != nil {
		r.Release()
		return nil, err
	}
	if err := r.initSharedProviders(); err != nil {
		r.Release()
		return nil, err
	}

	r.pool = worker.NewDynamicWorkerPool(r.workers, 256, time.Second)
	r.logger.Info("Renderer ready", "width", r.width, "height", r.height, "pipelines", len(r.pipelines))
	return r, nil
}

func (r *renderer) registerPipelines() error {
	vs, fs, err := shader.NewStages(material.PipelineObject)
	if err != nil {
		return err
	}
	r.objectLayouts = shader.MergeBindGroupLayouts(vs, fs)
	if len(r.objectLayouts) <= objectGroup || len(r.objectLayouts[objectGroup].Entries) == 0 {
		return errors.New("renderer: object shader declares no object uniform")
	}
	r.objectSize = int(r.objectLayouts[objectGroup].Entries[0].Buffer.MinBindingSize)

	stages := []pipeline.PipelineBuilderOption{pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs)}
	all := []pipeline.Pipeline{
		pipeline.NewPipeline(material.PipelineObject, append(stages,
			pipeline.WithCullMode(wgpu.CullModeBack),
		)...),
		pipeline.NewPipeline(PipelineObjectTransparent, append(stages,
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendMode(pipeline.BlendModeNormal),
		)...),
		pipeline.NewPipeline(material.PipelineObjectWireframe, append(stages,
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
			pipeline.WithBlendMode(pipeline.BlendModeNormal),
		)...),
	}

	for _, spec := range material.Backdrops() {
		bvs, bfs, err := shader.NewStages(spec.PipelineKey)
		if err != nil {
			return err
		}
		r.backdropLayouts[spec.PipelineKey] = shader.MergeBindGroupLayouts(bvs, bfs)
		opts := []pipeline.PipelineBuilderOption{
			pipeline.WithVertexShader(bvs),
			pipeline.WithFragmentShader(bfs),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		}
		if spec.Name == material.BackdropStars {
			for _, mode := range material.BlendModes {
				all = append(all, pipeline.NewPipeline(spec.PipelineKey+"."+mode.(string), append(opts, pipeline.WithBlendMode(mode.(string)))...))
			}
			continue
		}
		all = append(all, pipeline.NewPipeline(spec.PipelineKey, append(opts, pipeline.WithBlendMode(pipeline.BlendModeNormal))...))
	}

	for _, p := range all {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("renderer: pipeline %s: %w", p.PipelineKey(), err)
		}
		r.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (r *renderer) initSharedProviders() error {
	r.cameraProvider = bind_group_provider.NewBindGroupProvider("camera")
	if err := r.backend.InitBindGroup(r.cameraProvider, r.objectLayouts[cameraGroup], nil); err != nil {
		return fmt.Errorf("renderer: camera bind group: %w", err)
	}
	frameLayouts := r.backdropLayouts[material.Backdrops()[0].PipelineKey]
	r.frameProvider = bind_group_provider.NewBindGroupProvider("frame")
	if err := r.backend.InitBindGroup(r.frameProvider, frameLayouts[0], nil); err != nil {
		return fmt.Errorf("renderer: frame bind group: %w", err)
	}
	return nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelines[key]
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	r.backend.ConfigureSurface(r.width, r.height)
}

func (r *renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width <= 0 || height <= 0 || r.released {
		return
	}
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) RenderFrame(frame engine.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return errors.New("renderer: released")
	}
	if frame.Scene == nil || frame.Scene.Camera() == nil {
		return errors.New("renderer: frame has no scene camera")
	}
	cam := frame.Scene.Camera()

	camUniform := cam.Uniform()
	writes := []bind_group_provider.BufferWrite{
		{Provider: r.cameraProvider, Binding: cameraBinding, Data: camUniform.Marshal()},
		{Provider: r.cameraProvider, Binding: lightBinding, Data: r.light.Uniform().Marshal()},
		{Provider: r.frameProvider, Binding: 0, Data: frameUniform(r.width, r.height)},
	}

	backdrops := r.syncBackdrops(frame, &writes)
	items, culled := r.collect(frame, cam)
	r.pack(items, frame.Time)
	for i := range items {
		writes = append(writes, bind_group_provider.BufferWrite{Provider: items[i].object, Binding: 0, Data: items[i].data})
	}
	r.backend.WriteBuffers(writes)

	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("renderer: begin frame: %w", err)
	}
	for _, b := range backdrops {
		r.backend.DrawFullscreen(b.pipeline, []bind_group_provider.BindGroupProvider{r.frameProvider, b.provider})
	}
	for _, it := range items {
		r.backend.DrawCall(it.pipeline, it.mesh, []bind_group_provider.BindGroupProvider{r.cameraProvider, it.object})
	}
	r.backend.EndFrame()
	r.backend.Present()

	r.stats = Stats{Frames: r.stats.Frames + 1, Drawn: len(items), Culled: culled, Backdrops: len(backdrops)}
	return nil
}

// syncBackdrops uploads the uniform block of every backdrop that changed or animates and
// returns the layers in draw order.
func (r *renderer) syncBackdrops(frame engine.Frame, writes *[]bind_group_provider.BufferWrite) []backdropDraw {
	draws := make([]backdropDraw, 0, len(frame.Backdrops))
	for _, m := range frame.Backdrops {
		if m == nil || m.Released() {
			continue
		}
		p, err := r.backdropProvider(m)
		if err != nil {
			r.logger.Warn("Backdrop skipped", "backdrop", m.Name(), "error", err)
			continue
		}
		if m.Name() == material.BackdropPlanet {
			if err := r.syncPlanetTexture(m, p); err != nil {
				r.logger.Warn("Planet texture not updated", "error", err)
			}
		}
		if !r.uploaded[m.ID()] || len(frame.Changed[m.Name()]) > 0 || slices.Contains(m.Layout(), material.UniformTime) {
			*writes = append(*writes, bind_group_provider.BufferWrite{
				Provider: p,
				Binding:  0,
				Data:     uniform.Pack(m.Uniforms(), m.Layout()),
			})
			r.uploaded[m.ID()] = true
		}
		pl := r.backdropPipeline(m)
		if pl == nil {
			continue
		}
		draws = append(draws, backdropDraw{pipeline: pl, provider: p})
	}
	return draws
}

func (r *renderer) backdropPipeline(m material.Material) pipeline.Pipeline {
	key := m.PipelineKey()
	if m.Name() == material.BackdropStars {
		mode := pipeline.BlendModeAdditive
		if slot := m.Uniforms()["blendMode"]; slot != nil && slot.Kind() == uniform.KindString {
			mode = slot.Value().Str()
		}
		if p := r.pipelines[key+"."+mode]; p != nil {
			return p
		}
		return r.pipelines[key+"."+pipeline.BlendModeAdditive]
	}
	return r.pipelines[key]
}

// collect culls the scene's models against the camera frustum and orders the survivors:
// opaque first, then transparent back to front.
func (r *renderer) collect(frame engine.Frame, cam camera.Camera) ([]drawItem, int) {
	frustum := cam.Frustum()
	eye := cam.Eye()
	models := frame.Scene.Models()
	items := make([]drawItem, 0, len(models))
	culled := 0
	for _, m := range models {
		geo, mat := m.Geometry(), m.Material()
		if !m.Visible() || geo == nil || mat == nil || geo.Released() || mat.Released() {
			continue
		}
		pos := m.Position()
		if !frustum.IntersectsSphere(pos, m.BoundingRadius()) {
			culled++
			continue
		}
		mesh, err := r.meshProvider(m)
		if err != nil {
			r.logger.Warn("Mesh upload failed", "model", m.Name(), "error", err)
			continue
		}
		obj, err := r.objectProvider(mat)
		if err != nil {
			r.logger.Warn("Object bind group failed", "model", m.Name(), "error", err)
			continue
		}
		items = append(items, drawItem{
			model:       m,
			mesh:        mesh,
			object:      obj,
			pipeline:    r.objectPipeline(mat),
			transparent: mat.Transparent() || mat.Wireframe(),
			distance:    distanceSquared(eye, pos),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].transparent != items[j].transparent {
			return !items[i].transparent
		}
		if items[i].transparent {
			return items[i].distance > items[j].distance
		}
		return false
	})
	return items, culled
}

func (r *renderer) objectPipeline(m material.Material) pipeline.Pipeline {
	switch {
	case m.Wireframe():
		return r.pipelines[material.PipelineObjectWireframe]
	case m.Transparent():
		return r.pipelines[PipelineObjectTransparent]
	default:
		return r.pipelines[material.PipelineObject]
	}
}

// pack fills every item's uniform block on the worker pool, batchSize items per task.
func (r *renderer) pack(items []drawItem, t float32) {
	var wg sync.WaitGroup
	for start := 0; start < len(items); start += r.batchSize {
		chunk := items[start:min(start+r.batchSize, len(items))]
		wg.Add(1)
		id := r.taskID
		r.taskID++
		r.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := range chunk {
					chunk[i].data = packObject(chunk[i].model, r.objectSize, t)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// packObject lays out the object uniform: the model matrix followed by the material block, with
// the material's time lane set to t.
func packObject(m model.Model, size int, t float32) []byte {
	var gm model.GPUModelData
	m.ModelMatrix(gm.Model[:])
	buf := make([]byte, size)
	gm.MarshalTo(buf)

	mat := m.Material()
	layout := mat.Layout()
	copy(buf[gm.Size():], uniform.Pack(mat.Uniforms(), layout))
	if idx := slices.Index(layout, material.UniformTime); idx >= 0 {
		off := gm.Size() + idx*uniform.SlotSize
		if off+4 <= len(buf) {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(t))
		}
	}
	return buf
}

func frameUniform(width, height int) []byte {
	buf := make([]byte, uniform.SlotSize)
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	for i, v := range []float32{float32(width), float32(height), aspect} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func distanceSquared(a, b [3]float32) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	for _, p := range r.pipelines {
		p.Release()
	}
	for _, p := range []bind_group_provider.BindGroupProvider{r.cameraProvider, r.frameProvider} {
		if p != nil {
			p.Release()
		}
	}
	if r.backend != nil {
		r.backend.Release()
	}
	r.logger.Info("Renderer released", "frames", r.stats.Frames)
}
