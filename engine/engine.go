// Package engine is the starfield host: it owns the scene graph, the backdrop materials and
// the three scene managers, and drives them from a single-threaded frame loop.
package engine

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/camera"
	"github.com/Carmen-Shannon/oxy-starfield/engine/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
	"github.com/Carmen-Shannon/oxy-starfield/engine/profiler"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform_manager"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene_config"
)

// Frame is everything a FrameRenderer needs to draw one frame.
type Frame struct {
	Scene     scene.Scene
	Backdrops []material.Material
	Time      float32
	// Changed lists, per backdrop name, the uniforms written since the previous frame.
	Changed map[string][]string
}

// FrameRenderer draws frames for the engine. Implementations own every GPU resource they
// attach to geometries and materials.
type FrameRenderer interface {
	// RenderFrame uploads changed state and draws one frame.
	//
	// Parameters:
	//   - frame: the frame state
	//
	// Returns:
	//   - error: error if the frame could not be drawn
	RenderFrame(frame Frame) error

	// Resize reconfigures the output surface.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	Resize(width, height int)

	// Release frees every renderer-owned GPU resource.
	Release()
}

// engine implements the Engine interface.
type engine struct {
	cfg      config.Config
	scene    scene.Scene
	camera   camera.Camera
	uniforms uniform_manager.UniformManager
	objects  game_object.Manager
	configs  scene_config.Manager

	backdrops []material.Material
	textures  map[string]*uniform.Texture
	renderer  FrameRenderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	location  string
	elapsed   float32
	lastFrame time.Time
	paused    bool
	closed    bool

	engineTickRate time.Duration
	reloads        chan config.Config
	quitChannel    chan struct{}
	quitOnce       sync.Once

	tracker *common.ResourceTracker
	rng     *rand.Rand
	now     func() time.Time
	base    *slog.Logger
	logger  *slog.Logger
}

// Engine is the main entry point for the starfield host.
// All methods must be called from the frame loop goroutine except Reload and Quit.
type Engine interface {
	// Scene returns the scene graph.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Uniforms returns the uniform manager the backdrops are registered with.
	//
	// Returns:
	//   - uniform_manager.UniformManager: the uniform manager
	Uniforms() uniform_manager.UniformManager

	// Objects returns the game object manager.
	//
	// Returns:
	//   - game_object.Manager: the object manager
	Objects() game_object.Manager

	// SceneConfigs returns the scene configuration manager.
	//
	// Returns:
	//   - scene_config.Manager: the configuration manager
	SceneConfigs() scene_config.Manager

	// Backdrop returns a backdrop material by name.
	//
	// Parameters:
	//   - name: one of the material.Backdrop* names
	//
	// Returns:
	//   - material.Material: the backdrop, or nil
	Backdrop(name string) material.Material

	// EnterLocation prepares the location's variant, queues it onto the backdrops and
	// replaces the object set.
	//
	// Parameters:
	//   - key: the location key
	//   - patch: variant override, may be nil
	//   - objects: the location's objects; entries are completed by GenerateGameObjectConfig
	//
	// Returns:
	//   - scene_config.SceneVariant: the applied variant
	EnterLocation(key string, patch scene_config.Patch, objects []game_object.ObjectConfig) scene_config.SceneVariant

	// EnterNamedLocation applies the full cached configuration of a location, creating and
	// caching it on first visit.
	//
	// Parameters:
	//   - key: the location key
	//   - patch: override used when the configuration is created
	//   - random: merge the override onto a random base instead of the defaults
	//
	// Returns:
	//   - scene_config.SceneConfiguration: the applied configuration
	EnterNamedLocation(key string, patch scene_config.Patch, random bool) scene_config.SceneConfiguration

	// Reroll replaces the current location's cached variant with a fresh random one.
	//
	// Returns:
	//   - scene_config.SceneVariant: the new variant
	Reroll() scene_config.SceneVariant

	// Location returns the current location key.
	//
	// Returns:
	//   - string: the key, empty before the first EnterLocation
	Location() string

	// Tick advances the frame: config reloads, time uniforms, batched writes, rotations,
	// rendering and profiling.
	//
	// Parameters:
	//   - dt: seconds since the previous tick
	Tick(dt float32)

	// Frame calls Tick with the wall-clock time since the previous Frame.
	Frame()

	// SelectNext selects the object after the current selection in insertion order.
	//
	// Returns:
	//   - game_object.GameObject: the selection, or nil when there are no objects
	SelectNext() game_object.GameObject

	// Deselect clears the current selection.
	Deselect()

	// TogglePause stops or resumes object rotation.
	//
	// Returns:
	//   - bool: true when now paused
	TogglePause() bool

	// Resize updates the camera aspect and the renderer surface.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	Resize(width, height int)

	// Reload queues a configuration for the next tick. Safe to call from any goroutine.
	// The objects section, the planet image catalog and the uniform debug flag take effect;
	// window, renderer, logging and history settings need a restart.
	//
	// Parameters:
	//   - cfg: the reloaded configuration
	Reload(cfg config.Config)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Run ticks the engine at the configured rate until ctx is done or Quit is called.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() when cancelled, nil after Quit
	Run(ctx context.Context) error

	// Quit stops Run. Safe to call multiple times.
	Quit()

	// Close releases every object, backdrop and renderer resource. Later calls have no effect.
	Close()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options.
// Builds the scene graph, registers the backdrop materials with the uniform manager and
// creates the object and configuration managers.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		cfg:            config.Default(),
		textures:       make(map[string]*uniform.Texture),
		engineTickRate: time.Second / 60,
		reloads:        make(chan config.Config, 1),
		quitChannel:    make(chan struct{}),
		rng:            rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:            time.Now,
		base:           slog.Default(),
	}
	for _, opt := range options {
		opt(e)
	}
	e.logger = e.base.With("component", "engine")

	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithAspect(float32(e.cfg.Render.Width) / float32(e.cfg.Render.Height)))
	}
	e.scene = scene.NewScene("starfield", e.camera)
	e.uniforms = uniform_manager.NewUniformManager(
		uniform_manager.WithLogger(e.base.With("component", "uniform_manager")),
		uniform_manager.WithClock(e.now),
		uniform_manager.WithDebug(e.cfg.Render.DebugUniforms),
	)
	for _, spec := range material.Backdrops() {
		m := material.NewBackdrop(spec, e.tracker)
		e.uniforms.RegisterMaterial(spec.Name, m, spec.Schema)
		e.backdrops = append(e.backdrops, m)
	}
	e.objects = game_object.NewManager(e.scene, e.cfg.Objects,
		game_object.WithLogger(e.base.With("component", "game_object")),
		game_object.WithRand(rand.New(rand.NewPCG(e.rng.Uint64(), e.rng.Uint64()))),
		game_object.WithClock(e.now),
		game_object.WithTracker(e.tracker),
		game_object.WithMaterialFactory(material.NewFactory(e.tracker)),
	)
	e.configs = scene_config.NewManager(e.cfg.Scene,
		scene_config.WithLogger(e.base.With("component", "scene_config")),
		scene_config.WithRand(rand.New(rand.NewPCG(e.rng.Uint64(), e.rng.Uint64()))),
		scene_config.WithClock(e.now),
	)
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(
			profiler.WithLogger(e.base.With("component", "profiler")),
			profiler.WithClock(e.now),
			profiler.WithSource(e.profilerStats),
		)
	}
	return e
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Uniforms() uniform_manager.UniformManager {
	return e.uniforms
}

func (e *engine) Objects() game_object.Manager {
	return e.objects
}

func (e *engine) SceneConfigs() scene_config.Manager {
	return e.configs
}

func (e *engine) Backdrop(name string) material.Material {
	for _, b := range e.backdrops {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

func (e *engine) EnterLocation(key string, patch scene_config.Patch, objects []game_object.ObjectConfig) scene_config.SceneVariant {
	v := e.configs.PrepareSceneVariant(key, patch)
	e.location = key
	e.queueVariant(v)

	list := make([]game_object.ObjectConfig, len(objects))
	for i, o := range objects {
		list[i] = e.objects.GenerateGameObjectConfig(o)
	}
	e.objects.SetGameObjects(list)
	e.logger.Info("Entered location", "key", key, "objects", len(list))
	return v
}

func (e *engine) EnterNamedLocation(key string, patch scene_config.Patch, random bool) scene_config.SceneConfiguration {
	named, ok := e.configs.NamedConfig(key)
	if !ok {
		named = e.configs.StoreNamedConfig(key, patch, random)
	}
	e.location = key
	e.queueConfiguration(named.Config)
	return named.Config
}

func (e *engine) Reroll() scene_config.SceneVariant {
	v := e.configs.StoreVariant(e.location, e.configs.CreateVariant(nil))
	e.queueVariant(v)
	return v
}

func (e *engine) Location() string {
	return e.location
}

func (e *engine) Tick(dt float32) {
	if e.closed {
		return
	}
	select {
	case cfg := <-e.reloads:
		e.applyReload(cfg)
	default:
	}

	e.elapsed += dt
	e.uniforms.UpdateGlobalTimeUniforms(e.elapsed)
	e.uniforms.ProcessBatchUpdates()
	if !e.paused {
		e.objects.UpdateRotations()
	}

	if e.renderer != nil {
		frame := Frame{
			Scene:     e.scene,
			Backdrops: e.backdrops,
			Time:      e.elapsed,
			Changed:   e.uniforms.ChangeTracking(),
		}
		if err := e.renderer.RenderFrame(frame); err != nil {
			e.logger.Error("Frame failed", "error", err)
		}
	}
	e.uniforms.ClearChangeTracking()

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
}

func (e *engine) Frame() {
	now := e.now()
	var dt float32
	if !e.lastFrame.IsZero() {
		dt = float32(now.Sub(e.lastFrame).Seconds())
	}
	e.lastFrame = now
	e.Tick(dt)
}

func (e *engine) SelectNext() game_object.GameObject {
	all := e.objects.AllObjects()
	if len(all) == 0 {
		return nil
	}
	next := 0
	if sel := e.objects.SelectedObject(); sel != nil {
		for i, o := range all {
			if o.ID() == sel.ID() {
				next = (i + 1) % len(all)
				break
			}
		}
	}
	e.objects.SelectObject(all[next].ID())
	return all[next]
}

func (e *engine) Deselect() {
	e.objects.DeselectObject("")
}

func (e *engine) TogglePause() bool {
	e.paused = !e.paused
	return e.paused
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.camera.SetAspect(float32(width) / float32(height))
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
}

// Reload keeps only the newest pending configuration.
func (e *engine) Reload(cfg config.Config) {
	for {
		select {
		case e.reloads <- cfg:
			return
		default:
			select {
			case <-e.reloads:
			default:
			}
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		case <-ticker.C:
			e.Frame()
		}
	}
}

// Quit signals Run to return.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.objects.Dispose()
	for _, b := range e.backdrops {
		e.uniforms.UnregisterMaterial(b.Name())
		b.Release()
	}
	e.backdrops = nil
	if e.renderer != nil {
		e.renderer.Release()
	}
	e.scene.Clear()
	e.logger.Info("Engine closed")
}

func (e *engine) applyReload(cfg config.Config) {
	e.cfg.Objects = cfg.Objects
	e.cfg.Scene.PlanetImages = cfg.Scene.PlanetImages
	e.cfg.Render.DebugUniforms = cfg.Render.DebugUniforms

	e.objects.Reconfigure(cfg.Objects)
	e.configs.SetPlanetImages(cfg.Scene.PlanetImages)
	e.uniforms.SetDebugMode(cfg.Render.DebugUniforms)
	e.logger.Info("Configuration reloaded",
		"types", len(cfg.Objects.Types),
		"objects_enabled", cfg.Objects.Enabled,
		"planet_images", len(cfg.Scene.PlanetImages),
	)
}

func (e *engine) profilerStats() []slog.Attr {
	u := e.uniforms.PerformanceStats()
	o := e.objects.Stats()
	return []slog.Attr{
		slog.Int("materials", u.Materials),
		slog.Uint64("uniform_writes", u.Applied),
		slog.Uint64("uniform_skips", u.Skipped),
		slog.Int("objects", o.Total),
		slog.Int("visible_objects", o.Visible),
	}
}
