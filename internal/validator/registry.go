package validator

import (
	"fmt"
	"sync"
)

// Registry holds validator units in registration order.
type Registry struct {
	mu     sync.RWMutex
	units  []Unit
	byName map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a unit. It fails on malformed units and duplicate names.
func (r *Registry) Register(u Unit) error {
	if err := u.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[u.Name]; exists {
		return fmt.Errorf("validator already registered: %s", u.Name)
	}
	r.byName[u.Name] = len(r.units)
	r.units = append(r.units, u)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(u Unit) {
	if err := r.Register(u); err != nil {
		panic(err)
	}
}

// Units returns all units in registration order.
func (r *Registry) Units() []Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Unit, len(r.units))
	copy(out, r.units)
	return out
}

// Lookup returns a unit by name.
func (r *Registry) Lookup(name string) (Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byName[name]
	if !ok {
		return Unit{}, false
	}
	return r.units[i], true
}

// Names returns unit names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.units))
	for i, u := range r.units {
		out[i] = u.Name
	}
	return out
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}

var defaultRegistry = NewRegistry()

// Register adds a unit to the process registry. Rule packages call it from
// init; it panics on error.
func Register(u Unit) {
	defaultRegistry.MustRegister(u)
}

// Default returns the process registry.
func Default() *Registry {
	return defaultRegistry
}
