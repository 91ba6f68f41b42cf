// Package uniform_manager propagates shader parameter updates into registered materials.
// It validates and normalizes incoming values against a per-material schema, skips writes
// whose value has not changed, and offers a batched path and a validation-free time path.
package uniform_manager

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/common/errors"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
)

// PerformanceStats aggregates the manager's counters.
type PerformanceStats struct {
	Materials    int
	Uniforms     int
	PendingBatch int
	Dirty        int
	Applied      uint64
	Skipped      uint64
	TimeWrites   uint64
}

// registration is the state kept per registered material.
type registration struct {
	material   material.Material
	schema     uniform.Schema
	cache      map[string]uniform.Value
	changed    map[string]struct{}
	dirty      map[string]struct{}
	lastUpdate time.Time
}

type pendingUpdate struct {
	id    string
	name  string
	value any
}

// uniformManager is the implementation of the UniformManager interface.
type uniformManager struct {
	mu         sync.Mutex
	materials  map[string]*registration
	queue      []pendingUpdate
	debug      bool
	applied    uint64
	skipped    uint64
	timeWrites uint64

	logger *slog.Logger
	now    func() time.Time
}

// UniformManager tracks render materials and applies uniform updates to them.
// Updates are diffed against a per-uniform value cache so unchanged values never reach the
// material. The cache is an optimization only: the material's slot is authoritative.
type UniformManager interface {
	// RegisterMaterial stores a material and its validation schema under id.
	// Registering an id again replaces its previous state.
	//
	// Parameters:
	//   - id: the registration id
	//   - mat: the material, must carry a uniform table
	//   - schema: per-uniform validation rules, may be nil
	//
	// Returns:
	//   - bool: false when the material is nil or has no uniform table
	RegisterMaterial(id string, mat material.Material, schema uniform.Schema) bool

	// UnregisterMaterial removes all state for id. Unknown ids are ignored.
	//
	// Parameters:
	//   - id: the registration id
	UnregisterMaterial(id string)

	// UpdateUniform converts, validates and applies a single uniform value.
	// Validation failures are logged and the converted value is applied regardless.
	//
	// Parameters:
	//   - id: the registration id
	//   - name: the uniform name
	//   - value: the new value, any type accepted by uniform.FromAny
	//   - force: apply even when the value equals the cached one
	//
	// Returns:
	//   - bool: true when a write was applied
	UpdateUniform(id, name string, value any, force bool) bool

	// UpdateUniforms applies every entry of values to one material, in name order.
	// Individual failures do not stop the remaining entries.
	//
	// Parameters:
	//   - id: the registration id
	//   - values: uniform name to value
	//   - force: apply even when values equal the cached ones
	//
	// Returns:
	//   - int: the number of writes applied
	UpdateUniforms(id string, values map[string]any, force bool) int

	// UpdateUniformGlobal applies a value to every registered material that has the uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - value: the new value
	//   - force: apply even when the value equals the cached one
	//
	// Returns:
	//   - int: the number of materials written
	UpdateUniformGlobal(name string, value any, force bool) int

	// UpdateGlobalTimeUniforms writes t into every material's time uniform without
	// validation, diffing or change tracking. Called once per frame.
	//
	// Parameters:
	//   - t: the time in seconds
	UpdateGlobalTimeUniforms(t float32)

	// QueueUniformUpdate defers a write until ProcessBatchUpdates and marks the uniform dirty.
	//
	// Parameters:
	//   - id: the registration id
	//   - name: the uniform name
	//   - value: the new value
	QueueUniformUpdate(id, name string, value any)

	// ProcessBatchUpdates flushes the queue grouped by material in first-queued order.
	// Later writes to the same uniform replace earlier ones.
	//
	// Returns:
	//   - int: the number of writes applied
	ProcessBatchUpdates() int

	// UpdateUniformsByPattern applies values to every material whose id matches.
	//
	// Parameters:
	//   - matcher: selects material ids
	//   - values: uniform name to value
	//
	// Returns:
	//   - int: the number of matched materials
	UpdateUniformsByPattern(matcher Matcher, values map[string]any) int

	// CachedUniforms returns a copy of the value cache for id.
	//
	// Parameters:
	//   - id: the registration id
	//
	// Returns:
	//   - map[string]uniform.Value: cached values by uniform name
	//   - bool: false when id is not registered
	CachedUniforms(id string) (map[string]uniform.Value, bool)

	// ChangeTracking returns the uniforms changed since the last clear, per material.
	//
	// Returns:
	//   - map[string][]string: material id to sorted uniform names, only non-empty entries
	ChangeTracking() map[string][]string

	// ClearChangeTracking clears the change sets of the given materials, or of all
	// materials when no id is given.
	//
	// Parameters:
	//   - ids: registration ids
	ClearChangeTracking(ids ...string)

	// PerformanceStats returns aggregate counters.
	//
	// Returns:
	//   - PerformanceStats: the counters
	PerformanceStats() PerformanceStats

	// SetDebugMode toggles debug logging of every applied write.
	//
	// Parameters:
	//   - enabled: the new mode
	SetDebugMode(enabled bool)

	// DebugMode reports whether debug logging is enabled.
	//
	// Returns:
	//   - bool: the current mode
	DebugMode() bool

	// ResetCache clears the value cache of the given materials, or of all materials when no
	// id is given. The next update of any cleared uniform is applied.
	//
	// Parameters:
	//   - ids: registration ids
	ResetCache(ids ...string)

	// HasMaterial reports whether id is registered.
	//
	// Parameters:
	//   - id: the registration id
	//
	// Returns:
	//   - bool: true when registered
	HasMaterial(id string) bool

	// MaterialIDs lists the registered ids.
	//
	// Returns:
	//   - []string: sorted ids
	MaterialIDs() []string

	// Material retrieves a registered material.
	//
	// Parameters:
	//   - id: the registration id
	//
	// Returns:
	//   - material.Material: the material, or nil
	Material(id string) material.Material

	// LastUpdate retrieves the time of the last applied write for id.
	//
	// Parameters:
	//   - id: the registration id
	//
	// Returns:
	//   - time.Time: zero when never written or not registered
	LastUpdate(id string) time.Time
}

var _ UniformManager = &uniformManager{}

// NewUniformManager creates an empty UniformManager.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - UniformManager: the new manager
func NewUniformManager(options ...UniformManagerBuilderOption) UniformManager {
	m := &uniformManager{
		materials: make(map[string]*registration),
		logger:    slog.With("component", "uniform_manager"),
		now:       time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *uniformManager) RegisterMaterial(id string, mat material.Material, schema uniform.Schema) bool {
	if mat == nil || mat.Uniforms() == nil {
		err := errors.Preconditionf("material %q has no uniform table", id)
		m.logger.Error("Failed to register material", "material_id", id, "error", err, "error_type", errors.GetType(err))
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.materials[id] = &registration{
		material: mat,
		schema:   maps.Clone(schema),
		cache:    make(map[string]uniform.Value),
		changed:  make(map[string]struct{}),
		dirty:    make(map[string]struct{}),
	}
	m.logger.Debug("Registered material", "material_id", id, "uniforms", len(mat.Uniforms()))
	return true
}

func (m *uniformManager) UnregisterMaterial(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.materials, id)
}

func (m *uniformManager) UpdateUniform(id, name string, value any, force bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(id, name, value, force)
}

func (m *uniformManager) UpdateUniforms(id string, values map[string]any, force bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateManyLocked(id, values, force)
}

func (m *uniformManager) UpdateUniformGlobal(name string, value any, force bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, id := range common.SortedKeys(m.materials) {
		if _, ok := m.materials[id].material.Uniforms()[name]; !ok {
			continue
		}
		if m.updateLocked(id, name, value, force) {
			count++
		}
	}
	return count
}

func (m *uniformManager) UpdateGlobalTimeUniforms(t float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.materials {
		slot, ok := reg.material.Uniforms()[material.UniformTime]
		if !ok || slot == nil {
			continue
		}
		slot.SetScalar(t)
		reg.cache[material.UniformTime] = uniform.Scalar(t)
		m.timeWrites++
	}
}

func (m *uniformManager) QueueUniformUpdate(id, name string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, pendingUpdate{id: id, name: name, value: value})
	if reg, ok := m.materials[id]; ok {
		reg.dirty[name] = struct{}{}
	}
}

func (m *uniformManager) ProcessBatchUpdates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return 0
	}

	var order []string
	grouped := make(map[string]map[string]any)
	for _, u := range m.queue {
		g, ok := grouped[u.id]
		if !ok {
			g = make(map[string]any)
			grouped[u.id] = g
			order = append(order, u.id)
		}
		g[u.name] = u.value
	}
	m.queue = m.queue[:0]

	applied := 0
	for _, id := range order {
		applied += m.updateManyLocked(id, grouped[id], false)
	}
	return applied
}

func (m *uniformManager) UpdateUniformsByPattern(matcher Matcher, values map[string]any) int {
	if matcher == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := 0
	for _, id := range common.SortedKeys(m.materials) {
		if !matcher.Match(id) {
			continue
		}
		matched++
		m.updateManyLocked(id, values, false)
	}
	return matched
}

func (m *uniformManager) CachedUniforms(id string) (map[string]uniform.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.materials[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]uniform.Value, len(reg.cache))
	for name, v := range reg.cache {
		out[name] = v.Clone()
	}
	return out, true
}

func (m *uniformManager) ChangeTracking() map[string][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]string)
	for id, reg := range m.materials {
		if len(reg.changed) > 0 {
			out[id] = common.SortedKeys(reg.changed)
		}
	}
	return out
}

func (m *uniformManager) ClearChangeTracking(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.selectLocked(ids) {
		clear(reg.changed)
	}
}

func (m *uniformManager) PerformanceStats() PerformanceStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := PerformanceStats{
		Materials:    len(m.materials),
		PendingBatch: len(m.queue),
		Applied:      m.applied,
		Skipped:      m.skipped,
		TimeWrites:   m.timeWrites,
	}
	for _, reg := range m.materials {
		stats.Uniforms += len(reg.material.Uniforms())
		stats.Dirty += len(reg.dirty)
	}
	return stats
}

func (m *uniformManager) SetDebugMode(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debug = enabled
	m.logger.Info("Uniform debug mode changed", "enabled", enabled)
}

func (m *uniformManager) DebugMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.debug
}

func (m *uniformManager) ResetCache(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.selectLocked(ids) {
		clear(reg.cache)
	}
}

func (m *uniformManager) HasMaterial(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.materials[id]
	return ok
}

func (m *uniformManager) MaterialIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return common.SortedKeys(m.materials)
}

func (m *uniformManager) Material(id string) material.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reg, ok := m.materials[id]; ok {
		return reg.material
	}
	return nil
}

func (m *uniformManager) LastUpdate(id string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reg, ok := m.materials[id]; ok {
		return reg.lastUpdate
	}
	return time.Time{}
}

// selectLocked resolves ids to registrations, all registrations when ids is empty.
func (m *uniformManager) selectLocked(ids []string) []*registration {
	if len(ids) == 0 {
		return slices.Collect(maps.Values(m.materials))
	}
	out := make([]*registration, 0, len(ids))
	for _, id := range ids {
		if reg, ok := m.materials[id]; ok {
			out = append(out, reg)
		}
	}
	return out
}

func (m *uniformManager) updateManyLocked(id string, values map[string]any, force bool) int {
	applied := 0
	for _, name := range common.SortedKeys(values) {
		if m.updateLocked(id, name, values[name], force) {
			applied++
		}
	}
	return applied
}

func (m *uniformManager) updateLocked(id, name string, value any, force bool) bool {
	reg, ok := m.materials[id]
	if !ok {
		m.logNotFound(errors.NotFoundf("material %q is not registered", id), id, name)
		return false
	}
	slot, ok := reg.material.Uniforms()[name]
	if !ok || slot == nil {
		m.logNotFound(errors.NotFoundf("material %q has no uniform %q", id, name), id, name)
		return false
	}

	v, err := m.process(reg.schema, name, value)
	if err != nil {
		m.logger.Warn("Rejected uniform value", "material_id", id, "uniform", name, "error", err, "error_type", errors.GetType(err))
		return false
	}

	if cached, ok := reg.cache[name]; ok && !force && cached.Equal(v) {
		m.skipped++
		return false
	}

	slot.Set(v)
	reg.cache[name] = v.Clone()
	reg.changed[name] = struct{}{}
	delete(reg.dirty, name)
	reg.lastUpdate = m.now()
	m.applied++

	if m.debug {
		m.logger.Debug("Applied uniform", "material_id", id, "uniform", name, "value", v.String(), "forced", force)
	}
	return true
}

// process converts value per the schema. Colour and vector fields are coerced to their declared
// kind and input that cannot be coerced is returned as an error, so the slot keeps its kind. Other
// typed fields are validated and a failure is logged while the converted value is still returned.
func (m *uniformManager) process(schema uniform.Schema, name string, value any) (uniform.Value, error) {
	field, typed := schema[name]

	var v uniform.Value
	var err error
	switch {
	case typed && field.Type == uniform.FieldColor:
		v, err = uniform.ColorFromAny(value)
	case typed && field.Type == uniform.FieldVector2:
		v, err = uniform.VectorFromAny(value, uniform.KindVec2)
	case typed && field.Type == uniform.FieldVector3:
		v, err = uniform.VectorFromAny(value, uniform.KindVec3)
	default:
		v, err = uniform.FromAny(value)
	}
	if err != nil {
		return uniform.Value{}, err
	}
	if typed {
		if verr := field.Validate(v); verr != nil {
			m.logger.Warn("Uniform failed validation, applying anyway", "uniform", name, "error", verr, "error_type", errors.GetType(verr))
		}
	}
	return v, nil
}

func (m *uniformManager) logNotFound(err error, id, name string) {
	m.logger.Warn("Uniform update target not found", "material_id", id, "uniform", name, "error", err, "error_type", errors.GetType(err))
}
