// Package scene_config produces, merges and caches the visual configuration of each location.
// Every value stored in or read from the cache is a deep copy, so callers can never mutate
// cached state.
package scene_config

import (
	"log/slog"
	"maps"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/common/errors"
	"github.com/Carmen-Shannon/oxy-starfield/engine/config"
)

const defaultHistoryLimit = 10

type manager struct {
	mu           sync.Mutex
	named        map[string]NamedConfig
	variants     map[string]SceneVariant
	history      []SceneConfiguration
	historyLimit int
	nextID       int
	images       []string

	rng    *rand.Rand
	now    func() time.Time
	logger *slog.Logger
}

// Manager caches scene configurations and variants by location key.
type Manager interface {
	// StoreVariant stores a variant under key.
	//
	// Parameters:
	//   - key: the location key, must not be empty
	//   - v: the variant
	//
	// Returns:
	//   - SceneVariant: v unchanged
	StoreVariant(key string, v SceneVariant) SceneVariant

	// Variant returns a copy of the cached variant for key.
	//
	// Parameters:
	//   - key: the location key
	//
	// Returns:
	//   - SceneVariant: the variant
	//   - bool: false when nothing is cached
	Variant(key string) (SceneVariant, bool)

	// StoreNamedConfig merges patch over a random or default base, stamps it and caches a copy.
	//
	// Parameters:
	//   - key: the location key
	//   - patch: the partial override, may be nil
	//   - mergeWithRandom: use a randomized base instead of the defaults
	//
	// Returns:
	//   - NamedConfig: the stored configuration
	StoreNamedConfig(key string, patch Patch, mergeWithRandom bool) NamedConfig

	// NamedConfig returns a copy of the cached configuration for key.
	//
	// Parameters:
	//   - key: the location key
	//
	// Returns:
	//   - NamedConfig: the configuration
	//   - bool: false when nothing is cached
	NamedConfig(key string) (NamedConfig, bool)

	// HasNamedConfig reports whether a configuration is cached for key.
	//
	// Parameters:
	//   - key: the location key
	//
	// Returns:
	//   - bool: true when cached
	HasNamedConfig(key string) bool

	// NamedConfigKeys lists the keys with a cached configuration.
	//
	// Returns:
	//   - []string: sorted keys
	NamedConfigKeys() []string

	// PrepareSceneVariant returns the variant for a location. A cached variant is returned
	// with patch overlaid; otherwise a new random variant is created, cached and returned.
	// A planetImageIndex in patch is resolved against the image catalog unless planetImageUrl
	// is also given.
	//
	// Parameters:
	//   - key: the location key
	//   - patch: the partial override, may be nil
	//
	// Returns:
	//   - SceneVariant: the variant
	PrepareSceneVariant(key string, patch Patch) SceneVariant

	// CreateVariant draws a random variant and overlays patch.
	//
	// Parameters:
	//   - patch: the partial override, may be nil
	//
	// Returns:
	//   - SceneVariant: the variant
	CreateVariant(patch Patch) SceneVariant

	// Create draws a random configuration, merges patch, assigns the next scene ID and
	// appends it to the bounded history.
	//
	// Parameters:
	//   - patch: the partial override, may be nil
	//
	// Returns:
	//   - SceneConfiguration: the configuration
	Create(patch Patch) SceneConfiguration

	// History returns copies of the retained configurations, oldest first.
	//
	// Returns:
	//   - []SceneConfiguration: the history
	History() []SceneConfiguration

	// ResolvePlanetImage returns a copy of patch with planetImageIndex replaced by
	// planetImageUrl. An explicit planetImageUrl wins and an out-of-range index is dropped.
	//
	// Parameters:
	//   - patch: the partial override
	//
	// Returns:
	//   - Patch: the resolved copy, never containing planetImageIndex
	ResolvePlanetImage(patch Patch) Patch

	// SetPlanetImages replaces the planet image catalog used by index resolution and random
	// generation. Cached variants and configurations keep the image they already resolved.
	//
	// Parameters:
	//   - images: the new catalog
	SetPlanetImages(images []string)

	// Reset clears the scene ID counter, the history and every cache.
	Reset()
}

var _ Manager = &manager{}

// NewManager creates an empty Manager.
//
// Parameters:
//   - cfg: planet image catalog and history limit
//   - options: functional options
//
// Returns:
//   - Manager: the new manager
func NewManager(cfg config.SceneConfig, options ...ManagerBuilderOption) Manager {
	m := &manager{
		named:        make(map[string]NamedConfig),
		variants:     make(map[string]SceneVariant),
		historyLimit: cfg.HistoryLimit,
		images:       append([]string(nil), cfg.PlanetImages...),
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:          time.Now,
		logger:       slog.With("component", "scene_config"),
	}
	if m.historyLimit <= 0 {
		m.historyLimit = defaultHistoryLimit
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *manager) StoreVariant(key string, v SceneVariant) SceneVariant {
	if key == "" {
		err := errors.Validationf("variant key must not be empty")
		m.logger.Warn("Variant not stored", "error", err, "error_type", errors.GetType(err))
		return v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variants[key] = v.Clone()
	return v
}

func (m *manager) Variant(key string) (SceneVariant, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.variants[key]
	if !ok {
		return SceneVariant{}, false
	}
	return v.Clone(), true
}

func (m *manager) StoreNamedConfig(key string, patch Patch, mergeWithRandom bool) NamedConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	base := DefaultConfiguration()
	if mergeWithRandom {
		base = RandomConfiguration(m.rng, m.images)
	}
	merged, err := Merge(base, patch)
	if err != nil {
		m.logger.Warn("Patch fields dropped from named configuration", "key", key, "error", err, "error_type", errors.GetType(err))
	}

	result := NamedConfig{
		Config:           merged,
		SourceKey:        key,
		CreatedAt:        m.now(),
		MergedWithRandom: mergeWithRandom,
	}
	m.named[key] = result.Clone()
	return result
}

func (m *manager) NamedConfig(key string) (NamedConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.named[key]
	if !ok {
		err := errors.NotFoundf("no named configuration for %q", key)
		m.logger.Warn("Named configuration not found", "key", key, "error", err, "error_type", errors.GetType(err))
		return NamedConfig{}, false
	}
	return n.Clone(), true
}

func (m *manager) HasNamedConfig(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.named[key]
	return ok
}

func (m *manager) NamedConfigKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return common.SortedKeys(m.named)
}

func (m *manager) PrepareSceneVariant(key string, patch Patch) SceneVariant {
	m.mu.Lock()
	defer m.mu.Unlock()

	resolved := m.resolvePlanetImage(patch)
	if cached, ok := m.variants[key]; ok {
		out, err := applyVariantPatch(cached, resolved)
		if err != nil {
			m.logger.Warn("Patch fields dropped from cached variant", "key", key, "error", err, "error_type", errors.GetType(err))
		}
		return out
	}

	v := m.createVariantLocked(resolved)
	m.variants[key] = v.Clone()
	m.logger.Debug("Prepared new scene variant", "key", key)
	return v
}

func (m *manager) CreateVariant(patch Patch) SceneVariant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createVariantLocked(patch)
}

func (m *manager) Create(patch Patch) SceneConfiguration {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := Merge(RandomConfiguration(m.rng, m.images), patch)
	if err != nil {
		m.logger.Warn("Patch fields dropped from new configuration", "error", err, "error_type", errors.GetType(err))
	}
	m.nextID++
	cfg.ID = m.nextID

	m.history = append(m.history, cfg.Clone())
	if over := len(m.history) - m.historyLimit; over > 0 {
		m.history = append([]SceneConfiguration(nil), m.history[over:]...)
	}
	return cfg
}

func (m *manager) History() []SceneConfiguration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SceneConfiguration, len(m.history))
	for i, c := range m.history {
		out[i] = c.Clone()
	}
	return out
}

func (m *manager) ResolvePlanetImage(patch Patch) Patch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolvePlanetImage(patch)
}

func (m *manager) SetPlanetImages(images []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = append([]string(nil), images...)
}

func (m *manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = 0
	m.history = nil
	clear(m.named)
	clear(m.variants)
}

func (m *manager) createVariantLocked(patch Patch) SceneVariant {
	v, err := applyVariantPatch(RandomVariant(m.rng, m.images), patch)
	if err != nil {
		m.logger.Warn("Patch fields dropped from new variant", "error", err, "error_type", errors.GetType(err))
	}
	return v
}

func (m *manager) resolvePlanetImage(patch Patch) Patch {
	if patch == nil {
		return nil
	}
	out := maps.Clone(patch)
	raw, hasIndex := out[PlanetImageIndexKey]
	if !hasIndex {
		return out
	}
	delete(out, PlanetImageIndexKey)
	if url, ok := out[PlanetImageURLKey].(string); ok && url != "" {
		return out
	}

	idx, ok := toIndex(raw)
	if !ok || idx < 0 || idx >= len(m.images) {
		err := errors.NotFoundf("planet image index %v outside catalog of %d", raw, len(m.images))
		m.logger.Warn("Planet image index dropped", "index", raw, "error", err, "error_type", errors.GetType(err))
		return out
	}
	out[PlanetImageURLKey] = m.images[idx]
	return out
}

func toIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case float32:
		return int(n), float32(int(n)) == n
	case float64:
		return int(n), float64(int(n)) == n
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
