// Package registry provides a concurrency-safe, named registry of values.
// Content tables register their definitions by id at load time and the
// simulation registers per-hero ultimate strategies, so lookups never need
// hardcoded switch statements.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps string ids to values of type V.
// The zero value is not usable; create registries with New.
type Registry[V any] struct {
	kind  string
	items map[string]V
	mu    sync.RWMutex
}

// New creates an empty registry. The kind names the registered values in
// error and panic messages (e.g. "tower", "ultimate").
func New[V any](kind string) *Registry[V] {
	return &Registry[V]{
		kind:  kind,
		items: make(map[string]V),
	}
}

// Register adds a value under id.
// Panics if a value with the same id is already registered.
func (r *Registry[V]) Register(id string, v V) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; exists {
		panic(fmt.Sprintf("registry: %s %q already registered", r.kind, id))
	}
	r.items[id] = v
}

// Get returns the value registered under id.
// Returns an error if the id is not registered.
func (r *Registry[V]) Get(id string) (V, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[id]
	if !ok {
		var zero V
		return zero, fmt.Errorf("registry: unknown %s %q", r.kind, id)
	}
	return v, nil
}

// MustGet returns the value registered under id and panics on a miss.
// Used for lookups against tables that were validated at load time.
func (r *Registry[V]) MustGet(id string) V {
	v, err := r.Get(id)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// Exists checks if a value with the given id is registered.
func (r *Registry[V]) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[id]
	return ok
}

// IDs returns all registered ids, sorted.
func (r *Registry[V]) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered values.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
