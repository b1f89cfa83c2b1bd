package ecs

import "reflect"

// Component is plain data attached to exactly one entity at a time. Concrete
// components are pointer types embedding BaseComponent, which supplies the
// owner back-reference that the world maintains on attach/detach.
type Component interface {
	Entity() EntityID
	setEntity(EntityID)
}

// BaseComponent carries the owning-entity back-reference. Embed it by value;
// the world sets it on attach and zeroes it on detach.
type BaseComponent struct {
	owner EntityID
}

func (b *BaseComponent) Entity() EntityID      { return b.owner }
func (b *BaseComponent) setEntity(id EntityID) { b.owner = id }

// Snapshotter is implemented by components and resources that contribute to
// the debug snapshot. The returned map must be plain scalars, slices, and
// nested maps only.
type Snapshotter interface {
	Snapshot() map[string]any
}

// Validator is implemented by components whose loaded configuration needs
// checking before the prefab is usable.
type Validator interface {
	Validate() error
}

// TypeOf returns the store key for component type T. Components are stored
// under their pointer type, matching reflect.TypeOf on a live instance.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil))
}
