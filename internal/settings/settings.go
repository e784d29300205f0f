// Package settings provides the key/value store the engine uses for
// persisting small pieces of state across sessions, such as the last
// editing mode. The Store contract is deliberately tiny so embedders can
// supply their own backend; Memory and Bolt are the bundled ones.
package settings

import "sync"

// Store is an opaque get/set/clear capability.
type Store interface {
	// Get returns the value for a key, and whether it was present.
	Get(key string) (string, bool)

	// Set stores a value under a key.
	Set(key, value string) error

	// Clear removes every stored key.
	Clear() error
}

// Memory is a non-persistent in-process Store.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

// Get returns the value for a key.
func (s *Memory) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

// Set stores a value under a key.
func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

// Clear removes every stored key.
func (s *Memory) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]string)
	return nil
}
