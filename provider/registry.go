package provider

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrUnknown is wrapped by Resolve when no factory has the requested name.
var ErrUnknown = errors.New("unknown provider")

// Registry maps backend names to factories. Resolve builds each backend at
// most once; later calls with the same name share the instance.
type Registry[T Provider] struct {
	mu        sync.Mutex
	factories map[string]Factory[T]
	built     map[string]T
}

// NewRegistry returns an empty registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{
		factories: make(map[string]Factory[T]),
		built:     make(map[string]T),
	}
}

// RegisterFactory binds name to factory, replacing any earlier binding and
// dropping an instance already built under that name.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	delete(r.built, name)
}

// Has reports whether a factory is bound to name.
func (r *Registry[T]) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.factories[name]
	return ok
}

// Resolve returns the backend bound to name, building it from cfg on first
// use. A failed build is not cached.
func (r *Registry[T]) Resolve(name string, cfg map[string]any) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.built[name]; ok {
		return inst, nil
	}
	factory, ok := r.factories[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w %q (registered: %s)", ErrUnknown, name, strings.Join(r.names(), ", "))
	}
	inst, err := factory(cfg)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("build %s: %w", name, err)
	}
	r.built[name] = inst
	return inst, nil
}

// List returns the registered names in sorted order.
func (r *Registry[T]) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names()
}

func (r *Registry[T]) names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
