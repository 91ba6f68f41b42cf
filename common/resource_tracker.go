package common

import "sync"

// Resource kinds counted by a ResourceTracker.
const (
	ResourceGeometry = "geometry"
	ResourceMaterial = "material"
)

// ResourceTracker counts GPU-facing resources as they are created and released.
// A nil *ResourceTracker is valid and ignores every call, so components can
// carry one unconditionally.
type ResourceTracker struct {
	mu       sync.Mutex
	created  map[string]int
	released map[string]int
}

// NewResourceTracker creates an empty tracker.
//
// Returns:
//   - *ResourceTracker: the new tracker
func NewResourceTracker() *ResourceTracker {
	return &ResourceTracker{
		created:  make(map[string]int),
		released: make(map[string]int),
	}
}

// Acquire records the creation of one resource of the given kind.
//
// Parameters:
//   - kind: the resource kind (ResourceGeometry, ResourceMaterial, ...)
func (t *ResourceTracker) Acquire(kind string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.created[kind]++
}

// Release records the release of one resource of the given kind.
//
// Parameters:
//   - kind: the resource kind
func (t *ResourceTracker) Release(kind string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.released[kind]++
}

// Created returns how many resources of kind were acquired.
func (t *ResourceTracker) Created(kind string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.created[kind]
}

// Released returns how many resources of kind were released.
func (t *ResourceTracker) Released(kind string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released[kind]
}

// Live returns the number of acquired-but-not-released resources of kind.
// A negative value means something was released more than once.
func (t *ResourceTracker) Live(kind string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.created[kind] - t.released[kind]
}
