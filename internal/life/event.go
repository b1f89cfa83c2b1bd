// Package life implements the life-event machinery: named event templates
// whose roles are discovered by the role-binding query engine, probabilistic
// trial-and-execute, and the append-only event history other systems react
// to.
package life

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/query"
	"github.com/storyloom/loom/internal/simtime"
)

// Probability yields the chance in [0,1] that a bound event executes. It may
// inspect the bound roles, so frequency can depend on the participants.
type Probability func(w *ecs.World, ev *Event) float64

// Effect applies the event's consequences to the world. It runs only after
// the probability draw succeeds; an error is an invariant violation that
// aborts the step.
type Effect func(w *ecs.World, ev *Event) error

// Const is the fixed-probability case.
func Const(p float64) Probability {
	return func(*ecs.World, *Event) float64 { return p }
}

// EventType is an unbound template: a role pattern plus probability and
// effect. Actions are the same mechanism executed unconditionally.
type EventType struct {
	Name        string
	Roles       *query.Query
	Probability Probability
	Effect      Effect
}

// Event is a bound instance. Roles are immutable once bound; ID and
// Timestamp are assigned when the event commits to history.
type Event struct {
	ID        uint64
	Type      string
	Timestamp simtime.DateTime
	roles     map[string]ecs.EntityID
}

// NewEvent builds a bound instance directly, for systems that synthesize
// events without going through a role-binding template.
func NewEvent(eventType string, roles map[string]ecs.EntityID) *Event {
	copied := make(map[string]ecs.EntityID, len(roles))
	for k, v := range roles {
		copied[k] = v
	}
	return &Event{Type: eventType, roles: copied}
}

// Role returns the entity bound to the named role.
func (e *Event) Role(name string) (ecs.EntityID, bool) {
	id, ok := e.roles[name]
	return id, ok
}

// Roles returns a copy of the role bindings.
func (e *Event) Roles() map[string]ecs.EntityID {
	out := make(map[string]ecs.EntityID, len(e.roles))
	for k, v := range e.roles {
		out[k] = v
	}
	return out
}

// RoleNames returns the bound role names, sorted.
func (e *Event) RoleNames() []string {
	out := make([]string, 0, len(e.roles))
	for name := range e.roles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Participants returns the distinct bound entities in role-name order.
func (e *Event) Participants() []ecs.EntityID {
	seen := make(map[ecs.EntityID]struct{}, len(e.roles))
	out := make([]ecs.EntityID, 0, len(e.roles))
	for _, name := range e.RoleNames() {
		id := e.roles[name]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (e *Event) String() string {
	return fmt.Sprintf("%s#%d", e.Type, e.ID)
}

// Instantiate binds concrete entities to the template's roles, choosing
// uniformly among satisfying tuples. ok is false when no binding exists —
// the event simply does not apply right now. Partial bindings in fixed
// restrict the search.
func (t *EventType) Instantiate(w *ecs.World, rng *rand.Rand, fixed map[string]ecs.EntityID) (*Event, bool, error) {
	if t.Roles == nil {
		return nil, false, fmt.Errorf("life event %q has no role pattern", t.Name)
	}
	binding, ok, err := t.Roles.One(w, rng, fixed)
	if err != nil {
		return nil, false, fmt.Errorf("life event %q: %w", t.Name, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Event{Type: t.Name, roles: binding}, true, nil
}

// TryExecute draws uniform random in [0,1): on success the effect runs and
// the event commits to history; on rejection the instance is discarded with
// no history entry.
func (t *EventType) TryExecute(w *ecs.World, h *History, rng *rand.Rand, now simtime.DateTime, ev *Event) (bool, error) {
	p := 1.0
	if t.Probability != nil {
		p = t.Probability(w, ev)
	}
	if rng.Float64() >= p {
		return false, nil
	}
	return true, t.commit(w, h, now, ev)
}

// Execute runs the event unconditionally, the action path.
func (t *EventType) Execute(w *ecs.World, h *History, now simtime.DateTime, ev *Event) error {
	return t.commit(w, h, now, ev)
}

func (t *EventType) commit(w *ecs.World, h *History, now simtime.DateTime, ev *Event) error {
	if t.Effect != nil {
		if err := t.Effect(w, ev); err != nil {
			return fmt.Errorf("life event %q effect: %w", t.Name, err)
		}
	}
	ev.Timestamp = now
	h.Append(ev)
	return nil
}
