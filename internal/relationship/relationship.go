// Package relationship models directed social ties between entities: named
// stats with base/modifier decomposition, named modifiers applied by social
// rules, and the per-entity relationship manager component.
package relationship

import (
	"errors"
	"fmt"

	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/stat"
)

// InteractionStat is present on every relationship, bounded [-5, 5].
const InteractionStat = "Interaction"

var (
	ErrStatNotFound         = errors.New("relationship stat not found")
	ErrRelationshipNotFound = errors.New("relationship not found")
	ErrModifierNotActive    = errors.New("modifier not active")
	ErrModifierActive       = errors.New("modifier already active")
)

// Modifier is a named bundle of per-stat deltas. Activation adds each delta
// to the stat's modifier counter; deactivation subtracts it. The two must be
// paired exactly once.
type Modifier struct {
	Name   string
	Deltas map[string]int
}

// Relationship is a directed tie owned by the subject entity, pointing at
// the target entity. It always carries the Interaction stat.
type Relationship struct {
	subject ecs.EntityID
	target  ecs.EntityID

	stats     map[string]*stat.Stat
	statOrder []string
	modifiers []*Modifier
}

func newRelationship(subject, target ecs.EntityID, schema *Schema) *Relationship {
	r := &Relationship{
		subject: subject,
		target:  target,
		stats:   make(map[string]*stat.Stat),
	}
	r.addStat(InteractionStat, stat.New(-5, 5, false))
	if schema != nil {
		for _, def := range schema.Stats {
			if def.Name == InteractionStat {
				continue
			}
			r.addStat(def.Name, stat.New(def.Min, def.Max, def.ChangesWithTime))
		}
	}
	return r
}

func (r *Relationship) addStat(name string, s *stat.Stat) {
	r.stats[name] = s
	r.statOrder = append(r.statOrder, name)
}

func (r *Relationship) Subject() ecs.EntityID { return r.subject }
func (r *Relationship) Target() ecs.EntityID  { return r.target }

// Stat looks up a stat by name. Absence is a not-found error carrying the
// name, never a silent nil: every relationship must keep its schema intact.
func (r *Relationship) Stat(name string) (*stat.Stat, error) {
	s, ok := r.stats[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (relationship %d->%d)", ErrStatNotFound, name, r.subject, r.target)
	}
	return s, nil
}

// StatNames returns the stat names in schema order.
func (r *Relationship) StatNames() []string {
	out := make([]string, len(r.statOrder))
	copy(out, r.statOrder)
	return out
}

// Apply activates a modifier, adding each delta to the matching stat's
// modifier counter. Applying a name that is already active is an
// unpaired activation and an error.
func (r *Relationship) Apply(m *Modifier) error {
	if r.findModifier(m.Name) >= 0 {
		return fmt.Errorf("%w: %q", ErrModifierActive, m.Name)
	}
	for name, delta := range m.Deltas {
		s, err := r.Stat(name)
		if err != nil {
			return err
		}
		s.ApplyModifier(delta)
	}
	r.modifiers = append(r.modifiers, m)
	return nil
}

// Remove deactivates a modifier by name, subtracting its deltas. Removing a
// modifier that is not active is an error.
func (r *Relationship) Remove(name string) error {
	i := r.findModifier(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrModifierNotActive, name)
	}
	m := r.modifiers[i]
	for statName, delta := range m.Deltas {
		s, err := r.Stat(statName)
		if err != nil {
			return err
		}
		s.RemoveModifier(delta)
	}
	r.modifiers = append(r.modifiers[:i], r.modifiers[i+1:]...)
	return nil
}

func (r *Relationship) findModifier(name string) int {
	for i, m := range r.modifiers {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// Modifiers returns the active modifiers in activation order.
func (r *Relationship) Modifiers() []*Modifier {
	out := make([]*Modifier, len(r.modifiers))
	copy(out, r.modifiers)
	return out
}

func (r *Relationship) Snapshot() map[string]any {
	stats := make(map[string]any, len(r.stats))
	for _, name := range r.statOrder {
		stats[name] = r.stats[name].Snapshot()
	}
	mods := make([]string, len(r.modifiers))
	for i, m := range r.modifiers {
		mods[i] = m.Name
	}
	return map[string]any{
		"target":    uint64(r.target),
		"stats":     stats,
		"modifiers": mods,
	}
}
