package life

import (
	"errors"
	"fmt"
)

var ErrEventTypeNotFound = errors.New("life event type not found")

// Library is the instance-owned registry of event templates, threaded
// through the simulation rather than shared at package level so separate
// simulations (and tests) never leak templates into each other.
type Library struct {
	types map[string]*EventType
	order []string // registration order drives per-tick trial order
}

func NewLibrary() *Library {
	return &Library{types: make(map[string]*EventType)}
}

// Register adds a template. Re-registering a name replaces the template but
// keeps its original position in the trial order.
func (l *Library) Register(t *EventType) {
	if _, exists := l.types[t.Name]; !exists {
		l.order = append(l.order, t.Name)
	}
	l.types[t.Name] = t
}

// Get returns the template by name.
func (l *Library) Get(name string) (*EventType, error) {
	t, ok := l.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEventTypeNotFound, name)
	}
	return t, nil
}

// Types returns all templates in registration order.
func (l *Library) Types() []*EventType {
	out := make([]*EventType, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.types[name])
	}
	return out
}

func (l *Library) Len() int { return len(l.types) }
