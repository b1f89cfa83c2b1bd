package ecs

import (
	"fmt"
	"reflect"
	"sort"
)

// Factory constructs a fresh component instance with its documented defaults
// set. Prefab loading decodes the YAML config into the instance afterwards,
// then validates it.
type Factory func() Component

// Registry maps string component names to factories and runtime types. It is
// instance-owned and threaded through the simulation; nothing here is a
// package-level global.
type Registry struct {
	factories map[string]Factory
	types     map[string]reflect.Type
	names     map[reflect.Type]string
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		types:     make(map[string]reflect.Type),
		names:     make(map[reflect.Type]string),
	}
}

// Register binds a name to a component factory. Re-registering a name
// replaces the previous binding.
func (r *Registry) Register(name string, f Factory) {
	t := reflect.TypeOf(f())
	r.factories[name] = f
	r.types[name] = t
	r.names[t] = name
}

// New constructs a component by registered name.
func (r *Registry) New(name string) (Component, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFactoryNotFound, name)
	}
	return f(), nil
}

// Type returns the runtime type registered under name.
func (r *Registry) Type(name string) (reflect.Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFactoryNotFound, name)
	}
	return t, nil
}

// Name returns the registered name for a component's runtime type, falling
// back to the type string for unregistered components.
func (r *Registry) Name(c Component) string {
	if n, ok := r.names[reflect.TypeOf(c)]; ok {
		return n
	}
	return reflect.TypeOf(c).Elem().Name()
}

// Names lists all registered component names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.factories))
	for n := range r.factories {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
