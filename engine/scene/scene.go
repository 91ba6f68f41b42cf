package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-starfield/engine/camera"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
)

// Scene is the scene graph handle: an ordered set of renderable models plus the camera
// they are viewed through. The scene never owns the geometry or materials of its models;
// detaching a model does not release anything.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Add attaches a model to the scene graph.
	//
	// Parameters:
	//   - m: the model to attach
	//
	// Returns:
	//   - bool: false if m is nil or already attached
	Add(m model.Model) bool

	// Remove detaches a model from the scene graph.
	//
	// Parameters:
	//   - m: the model to detach
	//
	// Returns:
	//   - bool: false if m was not attached
	Remove(m model.Model) bool

	// Contains reports whether a model is attached.
	//
	// Parameters:
	//   - m: the model to look for
	//
	// Returns:
	//   - bool: true if attached
	Contains(m model.Model) bool

	// Models returns the attached models in attachment order.
	//
	// Returns:
	//   - []model.Model: a snapshot of the attached models
	Models() []model.Model

	// Count returns the number of attached models.
	//
	// Returns:
	//   - int: the model count
	Count() int

	// Clear detaches every model.
	Clear()
}

type scene struct {
	mu     sync.RWMutex
	name   string
	active bool
	camera camera.Camera
	models []model.Model
	index  map[model.Model]struct{}
}

var _ Scene = &scene{}

// NewScene creates a new Scene.
// Panics if cam is nil.
//
// Parameters:
//   - name: the scene's identifier
//   - cam: the camera the scene is viewed through
//   - options: functional options
//
// Returns:
//   - Scene: the new scene, active by default
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: camera must not be nil")
	}
	s := &scene{
		name:   name,
		active: true,
		camera: cam,
		index:  make(map[model.Model]struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera
}

func (s *scene) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = cam
}

func (s *scene) Add(m model.Model) bool {
	if m == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(m)
}

func (s *scene) addLocked(m model.Model) bool {
	if _, ok := s.index[m]; ok {
		return false
	}
	s.index[m] = struct{}{}
	s.models = append(s.models, m)
	return true
}

func (s *scene) Remove(m model.Model) bool {
	if m == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[m]; !ok {
		return false
	}
	delete(s.index, m)
	if i := slices.Index(s.models, m); i >= 0 {
		s.models = slices.Delete(s.models, i, i+1)
	}
	return true
}

func (s *scene) Contains(m model.Model) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[m]
	return ok
}

func (s *scene) Models() []model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.models)
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = nil
	clear(s.index)
}
