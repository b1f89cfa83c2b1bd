package ecs

import (
	"reflect"
	"sort"
)

// World is the entity store. It owns entity identity, per-type component
// tables, parent/child links, the deferred destruction queue, and the
// added/removed tracking sets systems use for reactivity.
//
// Single-threaded by design: the simulation step is the only caller.
type World struct {
	ids      *idAllocator
	tables   map[reflect.Type]map[EntityID]Component
	parents  map[EntityID]EntityID
	children map[EntityID][]EntityID
	inactive map[EntityID]struct{}
	pending  map[EntityID]struct{} // marked for deletion, purged at next tick start
	added    map[reflect.Type]map[EntityID]struct{}
	removed  map[reflect.Type]map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		ids:      newIDAllocator(),
		tables:   make(map[reflect.Type]map[EntityID]Component),
		parents:  make(map[EntityID]EntityID),
		children: make(map[EntityID][]EntityID),
		inactive: make(map[EntityID]struct{}),
		pending:  make(map[EntityID]struct{}),
		added:    make(map[reflect.Type]map[EntityID]struct{}),
		removed:  make(map[reflect.Type]map[EntityID]struct{}),
	}
}

// Spawn allocates a new entity and attaches the given components.
func (w *World) Spawn(components ...Component) EntityID {
	id := w.ids.allocate()
	for _, c := range components {
		w.attach(id, c)
	}
	return id
}

// Alive reports whether the id resolves to a live entity. Entities marked
// for deletion remain alive until the purge at the next tick boundary.
func (w *World) Alive(id EntityID) bool {
	return w.ids.alive(id)
}

// Active reports whether the entity participates in queries that require
// active status. Deletion marks an entity inactive immediately.
func (w *World) Active(id EntityID) bool {
	if !w.ids.alive(id) {
		return false
	}
	_, off := w.inactive[id]
	return !off
}

// PendingDeletion reports whether the entity is marked for removal at the
// next purge. Such entities are excluded from queries.
func (w *World) PendingDeletion(id EntityID) bool {
	_, marked := w.pending[id]
	return marked
}

func (w *World) SetActive(id EntityID, active bool) error {
	if !w.ids.alive(id) {
		return entityNotFound(id)
	}
	if active {
		delete(w.inactive, id)
	} else {
		w.inactive[id] = struct{}{}
	}
	return nil
}

// AddComponent attaches a component under its runtime type, overwriting any
// existing component of that type, and records the entity in the added set.
func (w *World) AddComponent(id EntityID, c Component) error {
	if !w.ids.alive(id) {
		return entityNotFound(id)
	}
	w.attach(id, c)
	return nil
}

func (w *World) attach(id EntityID, c Component) {
	t := reflect.TypeOf(c)
	table := w.tables[t]
	if table == nil {
		table = make(map[EntityID]Component)
		w.tables[t] = table
	}
	if old, ok := table[id]; ok {
		old.setEntity(0)
	}
	table[id] = c
	c.setEntity(id)
	w.track(w.added, t, id)
}

// RemoveComponent detaches the component of the given type. Removing a type
// the entity does not carry is a no-op, not an error; the removed set is
// only touched when something was actually detached.
func (w *World) RemoveComponent(id EntityID, t reflect.Type) error {
	if !w.ids.alive(id) {
		return entityNotFound(id)
	}
	w.detach(id, t)
	return nil
}

func (w *World) detach(id EntityID, t reflect.Type) {
	table := w.tables[t]
	c, ok := table[id]
	if !ok {
		return
	}
	c.setEntity(0)
	delete(table, id)
	w.track(w.removed, t, id)
}

// Component looks up the component of the given type on the entity. The two
// failure modes are distinct: ErrEntityNotFound vs ErrComponentNotFound.
func (w *World) Component(id EntityID, t reflect.Type) (Component, error) {
	if !w.ids.alive(id) {
		return nil, entityNotFound(id)
	}
	c, ok := w.tables[t][id]
	if !ok {
		return nil, componentNotFound(id, t)
	}
	return c, nil
}

func (w *World) Has(id EntityID, t reflect.Type) bool {
	_, ok := w.tables[t][id]
	return ok
}

// Components returns every component attached to the entity, ordered by
// type name for determinism. Used by the snapshot exporter.
func (w *World) Components(id EntityID) []Component {
	var out []Component
	names := make([]string, 0, 4)
	byName := make(map[string]Component, 4)
	for t, table := range w.tables {
		if c, ok := table[id]; ok {
			names = append(names, t.String())
			byName[t.String()] = c
		}
	}
	sort.Strings(names)
	for _, n := range names {
		out = append(out, byName[n])
	}
	return out
}

// SetParent links child under parent. Children are destroyed transitively
// with their parent.
func (w *World) SetParent(child, parent EntityID) error {
	if !w.ids.alive(child) {
		return entityNotFound(child)
	}
	if !w.ids.alive(parent) {
		return entityNotFound(parent)
	}
	if old, ok := w.parents[child]; ok {
		w.unlinkChild(old, child)
	}
	w.parents[child] = parent
	w.children[parent] = append(w.children[parent], child)
	return nil
}

func (w *World) Parent(id EntityID) (EntityID, bool) {
	p, ok := w.parents[id]
	return p, ok
}

func (w *World) Children(id EntityID) []EntityID {
	kids := w.children[id]
	out := make([]EntityID, len(kids))
	copy(out, kids)
	return out
}

func (w *World) unlinkChild(parent, child EntityID) {
	kids := w.children[parent]
	for i, k := range kids {
		if k == child {
			w.children[parent] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	if len(w.children[parent]) == 0 {
		delete(w.children, parent)
	}
}

// Delete marks the entity and all of its descendants for deferred removal.
// The entities go inactive immediately and drop out of queries, but their
// storage is freed only by the purge at the next tick boundary.
func (w *World) Delete(id EntityID) error {
	if !w.ids.alive(id) {
		return entityNotFound(id)
	}
	w.mark(id)
	return nil
}

func (w *World) mark(id EntityID) {
	if _, done := w.pending[id]; done {
		return
	}
	w.pending[id] = struct{}{}
	w.inactive[id] = struct{}{}
	for _, child := range w.children[id] {
		w.mark(child)
	}
}

// Purge physically removes every entity marked for deletion: component
// storage is freed (observable through the removed sets), parent/child links
// are unwound, and the id slots are recycled. Runs first in the tick.
func (w *World) Purge() {
	if len(w.pending) == 0 {
		return
	}
	ids := make([]EntityID, 0, len(w.pending))
	for id := range w.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		for t := range w.tables {
			w.detach(id, t)
		}
		if p, ok := w.parents[id]; ok {
			w.unlinkChild(p, id)
			delete(w.parents, id)
		}
		delete(w.children, id)
		delete(w.inactive, id)
		w.ids.release(id)
	}
	w.pending = make(map[EntityID]struct{})
}

// Match is one row of a query result: the entity id plus its components in
// the order the types were requested.
type Match struct {
	ID         EntityID
	Components []Component
}

// Query returns all entities carrying every requested component type,
// excluding entities marked for deletion. Results are ordered by entity id,
// which keeps iteration stable within a tick.
func (w *World) Query(types ...reflect.Type) []Match {
	if len(types) == 0 {
		return nil
	}
	// Scan the smallest table and probe the rest.
	smallest := types[0]
	for _, t := range types[1:] {
		if len(w.tables[t]) < len(w.tables[smallest]) {
			smallest = t
		}
	}
	ids := make([]EntityID, 0, len(w.tables[smallest]))
candidates:
	for id := range w.tables[smallest] {
		if _, gone := w.pending[id]; gone {
			continue
		}
		for _, t := range types {
			if t == smallest {
				continue
			}
			if _, ok := w.tables[t][id]; !ok {
				continue candidates
			}
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Match, 0, len(ids))
	for _, id := range ids {
		row := Match{ID: id, Components: make([]Component, len(types))}
		for i, t := range types {
			row.Components[i] = w.tables[t][id]
		}
		out = append(out, row)
	}
	return out
}

// Entities returns all live, non-deleted entity ids in ascending order.
func (w *World) Entities() []EntityID {
	seen := make(map[EntityID]struct{})
	for _, table := range w.tables {
		for id := range table {
			if _, gone := w.pending[id]; gone {
				continue
			}
			seen[id] = struct{}{}
		}
	}
	ids := make([]EntityID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Added returns the entities that gained a component of the given type since
// the last tick boundary, in ascending id order.
func (w *World) Added(t reflect.Type) []EntityID {
	return sortedIDs(w.added[t])
}

// Removed returns the entities that lost a component of the given type since
// the last tick boundary, in ascending id order.
func (w *World) Removed(t reflect.Type) []EntityID {
	return sortedIDs(w.removed[t])
}

// ClearTracking resets the added/removed sets. Runs last in the tick, after
// every system has had its one consistent look at the sets.
func (w *World) ClearTracking() {
	for t := range w.added {
		delete(w.added, t)
	}
	for t := range w.removed {
		delete(w.removed, t)
	}
}

func (w *World) track(sets map[reflect.Type]map[EntityID]struct{}, t reflect.Type, id EntityID) {
	set := sets[t]
	if set == nil {
		set = make(map[EntityID]struct{})
		sets[t] = set
	}
	set[id] = struct{}{}
}

func sortedIDs(set map[EntityID]struct{}) []EntityID {
	if len(set) == 0 {
		return nil
	}
	ids := make([]EntityID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
