package relationship

import (
	"fmt"

	"github.com/storyloom/loom/internal/core/ecs"
)

// Manager is the component holding an entity's outgoing relationships,
// keyed by target entity id.
type Manager struct {
	ecs.BaseComponent
	outgoing map[ecs.EntityID]*Relationship
	targets  []ecs.EntityID // creation order, for deterministic iteration
}

func NewManager() *Manager {
	return &Manager{outgoing: make(map[ecs.EntityID]*Relationship)}
}

// Get returns the relationship toward target, or a not-found error carrying
// the target id.
func (m *Manager) Get(target ecs.EntityID) (*Relationship, error) {
	r, ok := m.outgoing[target]
	if !ok {
		return nil, fmt.Errorf("%w: %d -> %d", ErrRelationshipNotFound, m.Entity(), target)
	}
	return r, nil
}

func (m *Manager) Has(target ecs.EntityID) bool {
	_, ok := m.outgoing[target]
	return ok
}

// Targets returns all relationship targets in creation order.
func (m *Manager) Targets() []ecs.EntityID {
	out := make([]ecs.EntityID, len(m.targets))
	copy(out, m.targets)
	return out
}

func (m *Manager) add(target ecs.EntityID, r *Relationship) {
	if _, exists := m.outgoing[target]; !exists {
		m.targets = append(m.targets, target)
	}
	m.outgoing[target] = r
}

func (m *Manager) Snapshot() map[string]any {
	rels := make([]any, 0, len(m.targets))
	for _, target := range m.targets {
		rels = append(rels, m.outgoing[target].Snapshot())
	}
	return map[string]any{"relationships": rels}
}

// Add creates (or returns the existing) directed relationship subject ->
// target, stamping schema stats and applying every active social rule whose
// precondition holds. Rules run exactly once here; this is the only place
// they are ever evaluated. A subject without a Manager component gets one
// attached on the spot, so any live entity can form relationships.
func Add(w *ecs.World, book *RuleBook, schema *Schema, subject, target ecs.EntityID) (*Relationship, error) {
	mgr, ok := ecs.TryGet[Manager](w, subject)
	if !ok {
		if !w.Alive(subject) {
			return nil, fmt.Errorf("relationship subject: %w: %d", ecs.ErrEntityNotFound, subject)
		}
		mgr = NewManager()
		if err := w.AddComponent(subject, mgr); err != nil {
			return nil, err
		}
	}
	if r, ok := mgr.outgoing[target]; ok {
		return r, nil
	}
	if !w.Alive(target) {
		return nil, fmt.Errorf("relationship target: %w: %d", ecs.ErrEntityNotFound, target)
	}

	r := newRelationship(subject, target, schema)
	mgr.add(target, r)

	if book != nil {
		for _, rule := range book.Active() {
			if rule.Precondition != nil && !rule.Precondition(w, subject, target) {
				continue
			}
			for _, mod := range rule.Modifiers {
				if err := r.Apply(mod); err != nil {
					return nil, fmt.Errorf("social rule %q: %w", rule.Name, err)
				}
			}
		}
	}
	return r, nil
}

// Get resolves the directed relationship subject -> target, distinguishing
// a missing manager component from a missing relationship.
func Get(w *ecs.World, subject, target ecs.EntityID) (*Relationship, error) {
	mgr, err := ecs.Get[Manager](w, subject)
	if err != nil {
		return nil, err
	}
	return mgr.Get(target)
}
