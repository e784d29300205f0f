package editor

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateID is returned when an instance ID is registered twice.
var ErrDuplicateID = errors.New("instance id already registered")

// Registry maps instance identifiers to live editors. It is an
// explicit object injected into instances rather than ambient state;
// Instances is the process-wide default.
type Registry struct {
	mu sync.RWMutex
	m  map[string]*Editor
}

// Instances is the default process-wide instance registry.
var Instances = NewRegistry()

// NewRegistry creates an empty instance registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[string]*Editor)}
}

// Register adds an instance under its identifier.
func (r *Registry) Register(id string, e *Editor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.m[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	r.m[id] = e
	return nil
}

// Unregister removes an instance. Unknown IDs are a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
}

// Get returns the instance registered under the identifier.
func (r *Registry) Get(id string) (*Editor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m[id]
	return e, ok
}

// ForEach visits every registered instance until the visitor returns
// false. Iteration order is unspecified.
func (r *Registry) ForEach(visit func(id string, e *Editor) bool) {
	r.mu.RLock()
	snapshot := make(map[string]*Editor, len(r.m))
	for id, e := range r.m {
		snapshot[id] = e
	}
	r.mu.RUnlock()

	for id, e := range snapshot {
		if !visit(id, e) {
			return
		}
	}
}

// Len returns the number of registered instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}
