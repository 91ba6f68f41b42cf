// Package game_object manages the interactive 3D markers of a scene: type templates built from
// configuration, per-instance clones attached to the scene graph, selection highlighting and
// the release of every geometry and material the manager creates.
package game_object

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/common/errors"
	"github.com/Carmen-Shannon/oxy-starfield/engine/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/geometry"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
)

const (
	defaultHighlightColor = "#00ff88"
	highlightName         = "highlight"
)

type manager struct {
	mu        sync.RWMutex
	scene     scene.Scene
	cfg       config.ObjectsConfig
	types     map[string]*TypeDefinition
	objects   map[string]*gameObject
	order     []string
	selected  string
	highlight material.Material
	nextID    uint64
	disposed  bool

	factory material.Factory
	tracker *common.ResourceTracker
	rng     *rand.Rand
	now     func() time.Time
	logger  *slog.Logger
}

// Manager owns the game object instances of one scene and every GPU-facing resource they use.
// Each type template, instance clone and the shared highlight material is released exactly once.
type Manager interface {
	// AddGameObject instantiates one object. Adding an existing ID replaces the previous instance.
	//
	// Parameters:
	//   - cfg: the object description; a nil Position is generated from the spawn bounds
	//
	// Returns:
	//   - GameObject: the new object, or nil when objects are disabled or the type is unknown
	AddGameObject(cfg ObjectConfig) GameObject

	// RemoveGameObject detaches and releases one object.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - bool: false when id is not present
	RemoveGameObject(id string) bool

	// SetGameObjects releases every current object and creates one per entry.
	//
	// Parameters:
	//   - list: the authoritative object list
	SetGameObjects(list []ObjectConfig)

	// SelectObject shows the highlight material on the object, restoring any previous selection.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - bool: false when id is not present
	SelectObject(id string) bool

	// DeselectObject restores the original material of the object, or of the current
	// selection when id is empty.
	//
	// Parameters:
	//   - id: the object ID, or ""
	DeselectObject(id string)

	// UpdateRotations advances every object's rotation by a fixed step: the y axis at the
	// object's rotation speed and the x axis at half of it.
	UpdateRotations()

	// Object returns one object.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - GameObject: the object, or nil
	Object(id string) GameObject

	// AllObjects returns every object in insertion order.
	//
	// Returns:
	//   - []GameObject: the objects
	AllObjects() []GameObject

	// ObjectsByType returns the objects of one type in insertion order.
	//
	// Parameters:
	//   - typeName: the type name
	//
	// Returns:
	//   - []GameObject: the objects
	ObjectsByType(typeName string) []GameObject

	// SelectedObject returns the selected object.
	//
	// Returns:
	//   - GameObject: the selection, or nil
	SelectedObject() GameObject

	// Stats summarizes the object set.
	//
	// Returns:
	//   - Stats: counts by type, visible and selected
	Stats() Stats

	// Enabled reports whether objects are enabled by configuration.
	//
	// Returns:
	//   - bool: the enabled flag
	Enabled() bool

	// GenerateGameObjectConfig completes a partial object description: position from the
	// spawn bounds unless set, scale from the type, identity rotation.
	//
	// Parameters:
	//   - base: the partial description
	//
	// Returns:
	//   - ObjectConfig: the completed description
	GenerateGameObjectConfig(base ObjectConfig) ObjectConfig

	// TypeNames lists the configured type names.
	//
	// Returns:
	//   - []string: sorted names
	TypeNames() []string

	// HighlightMaterial returns the shared highlight material.
	//
	// Returns:
	//   - material.Material: the highlight material
	HighlightMaterial() material.Material

	// Reconfigure applies a new objects configuration. The type templates are released and
	// rebuilt while existing instances keep their own clones. The highlight colour is written
	// into the shared highlight material in place and later spawns use the new bounds.
	// Disabling objects releases every current instance.
	//
	// Parameters:
	//   - cfg: the new objects configuration
	Reconfigure(cfg config.ObjectsConfig)

	// Dispose releases every object, type template and the highlight material.
	// Later calls have no effect.
	Dispose()
}

var _ Manager = &manager{}

// NewManager creates a Manager building one type template per entry in cfg.Types.
//
// Parameters:
//   - sc: the scene graph objects are attached to, must not be nil
//   - cfg: objects configuration
//   - options: functional options
//
// Returns:
//   - Manager: the new manager
func NewManager(sc scene.Scene, cfg config.ObjectsConfig, options ...ManagerBuilderOption) Manager {
	if sc == nil {
		panic("game_object: scene must not be nil")
	}
	m := &manager{
		scene:   sc,
		cfg:     cfg,
		objects: make(map[string]*gameObject),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
		logger:  slog.With("component", "game_object"),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.factory == nil {
		m.factory = material.NewFactory(m.tracker)
	}

	m.types = m.buildTypes(cfg.Types)
	m.highlight = m.factory.NewMaterial(material.Spec{
		Name:      highlightName,
		Color:     m.parseColor(common.Coalesce(cfg.HighlightColor, defaultHighlightColor), highlightName),
		Opacity:   1,
		Wireframe: true,
	})
	return m
}

func (m *manager) AddGameObject(cfg ObjectConfig) GameObject {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obj := m.addLocked(cfg); obj != nil {
		return obj
	}
	return nil
}

func (m *manager) RemoveGameObject(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(id)
}

func (m *manager) SetGameObjects(list []ObjectConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	if !m.cfg.Enabled || m.disposed {
		return
	}
	for _, cfg := range list {
		m.addLocked(cfg)
	}
}

func (m *manager) SelectObject(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != "" && m.selected == id {
		return true
	}
	obj, ok := m.objects[id]
	if !ok {
		err := errors.NotFoundf("game object %q not found", id)
		m.logger.Warn("Cannot select object", "object_id", id, "error", err, "error_type", errors.GetType(err))
		return false
	}
	if prev, ok := m.objects[m.selected]; ok {
		prev.restore()
	}
	obj.mdl.SetMaterial(m.highlight)
	m.selected = id
	return true
}

func (m *manager) DeselectObject(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target := common.Coalesce(id, m.selected)
	if target == "" {
		return
	}
	if obj, ok := m.objects[target]; ok {
		obj.restore()
	}
	if m.selected == target {
		m.selected = ""
	}
}

func (m *manager) UpdateRotations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cfg.Enabled {
		return
	}
	for _, id := range m.order {
		obj := m.objects[id]
		step := obj.rotationSpeed * RotationDelta
		rot := obj.mdl.Rotation()
		rot[1] += step
		rot[0] += step * 0.5
		obj.mdl.SetRotation(rot)
	}
}

func (m *manager) Object(id string) GameObject {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if obj, ok := m.objects[id]; ok {
		return obj
	}
	return nil
}

func (m *manager) AllObjects() []GameObject {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]GameObject, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.objects[id])
	}
	return out
}

func (m *manager) ObjectsByType(typeName string) []GameObject {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []GameObject
	for _, id := range m.order {
		if obj := m.objects[id]; obj.typeName == typeName {
			out = append(out, obj)
		}
	}
	return out
}

func (m *manager) SelectedObject() GameObject {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if obj, ok := m.objects[m.selected]; ok {
		return obj
	}
	return nil
}

func (m *manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := Stats{Total: len(m.objects), ByType: make(map[string]int)}
	for _, obj := range m.objects {
		stats.ByType[obj.typeName]++
		if obj.mdl.Visible() {
			stats.Visible++
		}
	}
	if _, ok := m.objects[m.selected]; ok {
		stats.Selected = 1
	}
	return stats
}

func (m *manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Enabled
}

func (m *manager) GenerateGameObjectConfig(base ObjectConfig) ObjectConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generateLocked(base)
}

func (m *manager) TypeNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return common.SortedKeys(m.types)
}

func (m *manager) HighlightMaterial() material.Material {
	return m.highlight
}

func (m *manager) Reconfigure(cfg config.ObjectsConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	for _, def := range m.types {
		def.release()
	}
	m.cfg = cfg
	m.types = m.buildTypes(cfg.Types)

	c := m.parseColor(common.Coalesce(cfg.HighlightColor, defaultHighlightColor), highlightName)
	if slot := m.highlight.Uniforms()[material.UniformColor]; slot != nil {
		slot.Set(uniform.Color(c.R, c.G, c.B))
	}
	if !cfg.Enabled {
		m.clearLocked()
	}
}

func (m *manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.disposed = true
	m.clearLocked()
	for _, def := range m.types {
		def.release()
	}
	m.types = nil
	m.highlight.Release()
	m.logger.Debug("Game object manager disposed")
}

func (m *manager) buildTypes(types map[string]config.ObjectType) map[string]*TypeDefinition {
	out := make(map[string]*TypeDefinition, len(types))
	for _, name := range common.SortedKeys(types) {
		t := types[name]
		kind, ok := geometry.KindForName(t.Geometry)
		if !ok {
			m.logger.Warn("Unknown geometry, using box", "type", name, "geometry", t.Geometry)
		}
		scale := float32(t.Scale)
		if scale <= 0 {
			scale = 1
		}
		out[name] = &TypeDefinition{
			Name:     name,
			Geometry: geometry.NewGeometry(geometry.WithKind(kind), geometry.WithName(name), geometry.WithTracker(m.tracker)),
			Material: m.factory.NewMaterial(material.Spec{
				Name:        name,
				Geometry:    string(kind),
				Color:       m.parseColor(t.Color, name),
				Opacity:     TemplateOpacity,
				Transparent: true,
			}),
			RotationSpeed: float32(t.RotationSpeed),
			Scale:         scale,
		}
	}
	return out
}

func (m *manager) parseColor(hex, owner string) uniform.RGB {
	c, err := uniform.ParseHex(hex)
	if err != nil {
		m.logger.Warn("Invalid colour, using white", "owner", owner, "color", hex, "error", err)
		return uniform.RGB{R: 1, G: 1, B: 1}
	}
	return c.RGB()
}

func (m *manager) addLocked(cfg ObjectConfig) *gameObject {
	if !m.cfg.Enabled || m.disposed {
		return nil
	}
	def, ok := m.types[cfg.Type]
	if !ok {
		err := errors.NotFoundf("game object type %q is not defined", cfg.Type)
		m.logger.Error("Cannot add game object", "object_id", cfg.ID, "type", cfg.Type, "error", err, "error_type", errors.GetType(err))
		return nil
	}

	cfg = m.generateLocked(cfg)
	if cfg.ID == "" {
		m.nextID++
		cfg.ID = fmt.Sprintf("%s-%d", cfg.Type, m.nextID)
	}
	if _, exists := m.objects[cfg.ID]; exists {
		m.removeLocked(cfg.ID)
	}

	mdl := model.NewModel(
		model.WithName(cfg.ID),
		model.WithGeometry(def.Geometry.Clone()),
		model.WithMaterial(def.Material.Clone()),
		model.WithPosition(*cfg.Position),
		model.WithScale([3]float32{cfg.Scale, cfg.Scale, cfg.Scale}),
	)
	mdl.SetRotation(cfg.Rotation)

	obj := newGameObject(
		WithID(cfg.ID),
		WithType(cfg.Type),
		WithName(cfg.Name),
		WithModel(mdl),
		WithRotationSpeed(def.RotationSpeed),
		WithMetadata(cloneMetadata(cfg.Metadata)),
		WithLastSeen(m.now()),
	)
	m.objects[obj.id] = obj
	m.order = append(m.order, obj.id)
	m.scene.Add(mdl)
	return obj
}

func (m *manager) removeLocked(id string) bool {
	obj, ok := m.objects[id]
	if !ok {
		return false
	}
	m.scene.Remove(obj.mdl)
	obj.release()
	delete(m.objects, id)
	m.order = slices.DeleteFunc(m.order, func(o string) bool { return o == id })
	if m.selected == id {
		m.selected = ""
	}
	return true
}

func (m *manager) clearLocked() {
	for _, id := range slices.Clone(m.order) {
		m.removeLocked(id)
	}
}

func (m *manager) generateLocked(base ObjectConfig) ObjectConfig {
	out := base
	if out.Position == nil {
		p := m.spawnPosition()
		out.Position = &p
	}
	if out.Scale <= 0 {
		out.Scale = 1
		if def, ok := m.types[base.Type]; ok {
			out.Scale = def.Scale
		}
	}
	return out
}

// spawnPosition samples the spawn rules envelope when configured, otherwise the spawn box.
// The envelope is centred on the view axis at a random distance down -Z.
func (m *manager) spawnPosition() [3]float32 {
	spawn := m.cfg.Spawn
	if r := spawn.Rules; r != nil {
		return [3]float32{
			float32(common.RandRange(m.rng, -r.Width/2, r.Width/2)),
			float32(common.RandRange(m.rng, -r.Height/2, r.Height/2)),
			-float32(common.RandRange(m.rng, r.MinDistance, r.MaxDistance)),
		}
	}
	return [3]float32{
		float32(common.RandRange(m.rng, spawn.Min.X, spawn.Max.X)),
		float32(common.RandRange(m.rng, spawn.Min.Y, spawn.Max.Y)),
		float32(common.RandRange(m.rng, spawn.Min.Z, spawn.Max.Z)),
	}
}
