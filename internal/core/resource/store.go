// Package resource holds the process-wide typed singletons a simulation
// depends on: configuration, the shared RNG, the clock, and the content
// libraries. At most one live instance per type.
package resource

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

var ErrResourceNotFound = errors.New("resource not found")

// Store is a typed singleton registry keyed by the resource's runtime type.
// Lifecycle is bound to the owning simulation; replacing an existing
// resource overwrites silently apart from a logged warning, so plugins may
// re-register during setup without crashing.
type Store struct {
	log   *zap.Logger
	items map[reflect.Type]any
}

func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		log:   log,
		items: make(map[reflect.Type]any),
	}
}

// Add registers a resource under its runtime type, overwriting any existing
// instance of the same type.
func (s *Store) Add(v any) {
	t := reflect.TypeOf(v)
	if _, exists := s.items[t]; exists {
		s.log.Warn("resource overwritten", zap.Stringer("type", t))
	}
	s.items[t] = v
}

// Lookup returns the resource of the given type or ErrResourceNotFound.
func (s *Store) Lookup(t reflect.Type) (any, error) {
	v, ok := s.items[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, t)
	}
	return v, nil
}

// Remove drops the resource of the given type; absent is an error.
func (s *Store) Remove(t reflect.Type) error {
	if _, ok := s.items[t]; !ok {
		return fmt.Errorf("%w: %s", ErrResourceNotFound, t)
	}
	delete(s.items, t)
	return nil
}

// Get returns the stored *T or ErrResourceNotFound.
func Get[T any](s *Store) (*T, error) {
	v, err := s.Lookup(reflect.TypeOf((*T)(nil)))
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// TryGet is Get without the error for callers that treat absence as normal.
func TryGet[T any](s *Store) (*T, bool) {
	v, err := s.Lookup(reflect.TypeOf((*T)(nil)))
	if err != nil {
		return nil, false
	}
	return v.(*T), true
}

// Remove drops the stored *T.
func Remove[T any](s *Store) error {
	return s.Remove(reflect.TypeOf((*T)(nil)))
}
