package ecs

// Typed accessors over the reflect-keyed tables. No interface assertions in
// caller code; the cast is centralized here.

// Get returns the entity's component of type T, distinguishing a missing
// entity from a missing component.
func Get[T any](w *World, id EntityID) (*T, error) {
	c, err := w.Component(id, TypeOf[T]())
	if err != nil {
		return nil, err
	}
	return any(c).(*T), nil
}

// TryGet returns the component and false instead of an error when either
// the entity or the component is absent.
func TryGet[T any](w *World, id EntityID) (*T, bool) {
	c, err := w.Component(id, TypeOf[T]())
	if err != nil {
		return nil, false
	}
	return any(c).(*T), true
}

func Has[T any](w *World, id EntityID) bool {
	return w.Has(id, TypeOf[T]())
}

func Remove[T any](w *World, id EntityID) error {
	return w.RemoveComponent(id, TypeOf[T]())
}

// Added returns entities that gained a T since the last tick boundary.
func Added[T any](w *World) []EntityID {
	return w.Added(TypeOf[T]())
}

// Removed returns entities that lost a T since the last tick boundary.
func Removed[T any](w *World) []EntityID {
	return w.Removed(TypeOf[T]())
}

// Each calls fn for every entity carrying a T, in ascending id order.
func Each[T any](w *World, fn func(EntityID, *T)) {
	for _, m := range w.Query(TypeOf[T]()) {
		fn(m.ID, any(m.Components[0]).(*T))
	}
}

// Each2 calls fn for every entity carrying both A and B.
func Each2[A, B any](w *World, fn func(EntityID, *A, *B)) {
	for _, m := range w.Query(TypeOf[A](), TypeOf[B]()) {
		fn(m.ID, any(m.Components[0]).(*A), any(m.Components[1]).(*B))
	}
}
