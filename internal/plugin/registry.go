package plugin

import (
	"fmt"
	"sync"
)

// Registry holds the plugins known to the process. It is constructed
// once and injected into editor instances; Default is provided for the
// common single-registry case.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string // registration order, for deterministic resolution
}

// Default is the process-wide registry editor instances use unless
// given another one.
var Default = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds a named plugin. Names are unique; registering the same
// name twice returns ErrDuplicate.
func (r *Registry) Register(name string, p Plugin) error {
	if name == "" {
		return ErrEmptyName
	}
	if p == nil {
		return ErrNilPlugin
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.plugins[name] = p
	r.order = append(r.order, name)
	return nil
}

// Get returns a registered plugin by name.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns all registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Named pairs a plugin with its registered name.
type Named struct {
	Name   string
	Plugin Plugin
}

// Resolve expands the requested names into a dependency-ordered list:
// every plugin appears after everything it requires, transitively, and
// each plugin appears once. An empty request resolves every registered
// plugin in registration order. Unknown names return ErrUnknown,
// requirement cycles ErrCycle.
func (r *Registry) Resolve(names []string) ([]Named, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(names) == 0 {
		names = r.order
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(names))
	var resolved []Named

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrCycle, name)
		}

		p, ok := r.plugins[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknown, name)
		}

		state[name] = visiting
		if req, ok := p.(Requirer); ok {
			for _, dep := range req.Requires() {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		state[name] = done
		resolved = append(resolved, Named{Name: name, Plugin: p})
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}
