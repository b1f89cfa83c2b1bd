package life

import (
	"github.com/storyloom/loom/internal/core/ecs"
)

// Handler is a named-event callback. Handlers fire exactly once per matching
// event, after the event is committed to history, in registration order.
type Handler func(*Event)

// History is the append-only event log: globally ordered by a monotonically
// increasing id, indexed by participant entity and by event type, with a
// per-tick buffer for listeners that process one tick's events before the
// buffer clears at the boundary.
type History struct {
	log      []*Event
	nextID   uint64
	byEntity map[ecs.EntityID][]*Event
	byType   map[string][]*Event
	tick     []*Event
	handlers map[string][]Handler
}

func NewHistory() *History {
	return &History{
		nextID:   1,
		byEntity: make(map[ecs.EntityID][]*Event),
		byType:   make(map[string][]*Event),
		handlers: make(map[string][]Handler),
	}
}

// OnEvent registers a callback for events of the named type.
func (h *History) OnEvent(name string, fn Handler) {
	h.handlers[name] = append(h.handlers[name], fn)
}

// Append commits the event: assigns the next id, indexes it, adds it to the
// tick buffer, and then notifies the type's handlers in registration order.
func (h *History) Append(ev *Event) {
	ev.ID = h.nextID
	h.nextID++

	h.log = append(h.log, ev)
	h.byType[ev.Type] = append(h.byType[ev.Type], ev)
	for _, id := range ev.Participants() {
		h.byEntity[id] = append(h.byEntity[id], ev)
	}
	h.tick = append(h.tick, ev)

	for _, fn := range h.handlers[ev.Type] {
		fn(ev)
	}
}

// All returns the full log in commit order.
func (h *History) All() []*Event {
	out := make([]*Event, len(h.log))
	copy(out, h.log)
	return out
}

func (h *History) Len() int { return len(h.log) }

// ForEntity returns every event the entity filled any role in.
func (h *History) ForEntity(id ecs.EntityID) []*Event {
	evs := h.byEntity[id]
	out := make([]*Event, len(evs))
	copy(out, evs)
	return out
}

// OfType returns every committed event of the named type.
func (h *History) OfType(name string) []*Event {
	evs := h.byType[name]
	out := make([]*Event, len(evs))
	copy(out, evs)
	return out
}

// TickBuffer returns the events committed since the last boundary.
func (h *History) TickBuffer() []*Event {
	out := make([]*Event, len(h.tick))
	copy(out, h.tick)
	return out
}

// ClearTickBuffer resets the per-tick buffer. Runs at the tick boundary;
// the append-only log and its indexes are untouched.
func (h *History) ClearTickBuffer() {
	h.tick = h.tick[:0]
}

func (h *History) Snapshot() map[string]any {
	events := make([]any, 0, len(h.log))
	for _, ev := range h.log {
		roles := make(map[string]any, len(ev.roles))
		for name, id := range ev.roles {
			roles[name] = uint64(id)
		}
		events = append(events, map[string]any{
			"id":        ev.ID,
			"type":      ev.Type,
			"timestamp": ev.Timestamp.String(),
			"roles":     roles,
		})
	}
	return map[string]any{"events": events}
}
