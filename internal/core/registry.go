package core

import (
	"fmt"
	"sync"
)

// Registry maps operation identifiers to capabilities. Identifiers match
// exactly (case and spacing included). Names are reported in registration
// order so listings stay stable.
type Registry struct {
	mu    sync.RWMutex
	caps  map[string]Capability
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]Capability)}
}

// Register adds a capability under name.
// Panics if the name is empty, the capability is nil, or the name is
// already registered.
func (r *Registry) Register(name string, c Capability) {
	if name == "" {
		panic("capability name must not be empty")
	}
	if c == nil {
		panic(fmt.Sprintf("nil capability: %s", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.caps[name]; exists {
		panic(fmt.Sprintf("capability already registered: %s", name))
	}

	r.caps[name] = c
	r.order = append(r.order, name)
}

// Lookup returns the capability registered under name.
// Returns false if not found.
func (r *Registry) Lookup(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.caps[name]
	return c, ok
}

// Names returns all registered operation names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.caps)
}
