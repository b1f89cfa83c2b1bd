package query

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"

	"github.com/storyloom/loom/internal/core/ecs"
)

// ErrUnboundVariable reports a filter or derivation referencing a variable
// that no earlier clause has bound. Evaluating a predicate over an unbound
// variable must refuse, never silently pass.
var ErrUnboundVariable = errors.New("unbound query variable")

// FilterFunc is a predicate over already-bound variables, in clause order.
type FilterFunc func(w *ecs.World, ids ...ecs.EntityID) bool

// DeriveFunc enumerates candidate ids connected to one bound id — e.g. the
// relationship targets of a bound subject meeting a stat threshold.
type DeriveFunc func(w *ecs.World, id ecs.EntityID) []ecs.EntityID

// Clause is one step of a role-binding pattern.
type Clause interface {
	apply(w *ecs.World, state *Relation, fixed map[string]ecs.EntityID) (*Relation, error)
}

// With constrains a variable to entities carrying every listed component
// type. Multiple With clauses over the same variable intersect.
func With(variable string, types ...reflect.Type) Clause {
	return &withClause{variable: variable, types: types}
}

// Where selects rows for which the predicate holds over the named variables.
// Every variable must already be bound.
func Where(fn FilterFunc, variables ...string) Clause {
	return &filterClause{fn: fn, vars: variables}
}

// Derive binds a new variable from an already-bound column: for every
// distinct value of from, fn enumerates candidates for to. If to is already
// bound the derivation acts as a further restriction.
func Derive(from, to string, fn DeriveFunc) Clause {
	return &deriveClause{from: from, to: to, fn: fn}
}

type withClause struct {
	variable string
	types    []reflect.Type
}

func (c *withClause) apply(w *ecs.World, state *Relation, fixed map[string]ecs.EntityID) (*Relation, error) {
	var rows [][]ecs.EntityID
	if id, pinned := fixed[c.variable]; pinned {
		// A caller-fixed variable restricts the search: check the one id
		// against the constraint instead of re-deriving the whole column.
		if w.Alive(id) && !w.PendingDeletion(id) && hasAll(w, id, c.types) {
			rows = append(rows, []ecs.EntityID{id})
		}
	} else {
		for _, m := range w.Query(c.types...) {
			rows = append(rows, []ecs.EntityID{m.ID})
		}
	}
	base := NewRelation([]string{c.variable}, rows...)
	if base.IsEmpty() {
		return Empty(), nil
	}
	if state == nil {
		return base, nil
	}
	return state.Unify(base), nil
}

func hasAll(w *ecs.World, id ecs.EntityID, types []reflect.Type) bool {
	for _, t := range types {
		if !w.Has(id, t) {
			return false
		}
	}
	return true
}

type filterClause struct {
	fn   FilterFunc
	vars []string
}

func (c *filterClause) apply(w *ecs.World, state *Relation, _ map[string]ecs.EntityID) (*Relation, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: filter before any binding clause", ErrUnboundVariable)
	}
	idx := make([]int, len(c.vars))
	for i, v := range c.vars {
		j, ok := state.index[v]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnboundVariable, v)
		}
		idx[i] = j
	}

	out := NewRelation(state.symbols)
	args := make([]ecs.EntityID, len(idx))
	for _, row := range state.rows {
		for i, j := range idx {
			args[i] = row[j]
		}
		if c.fn(w, args...) {
			out.rows = append(out.rows, row)
		}
	}
	if out.IsEmpty() {
		return Empty(), nil
	}
	return out, nil
}

type deriveClause struct {
	from string
	to   string
	fn   DeriveFunc
}

func (c *deriveClause) apply(w *ecs.World, state *Relation, fixed map[string]ecs.EntityID) (*Relation, error) {
	if state == nil || !state.Has(c.from) {
		return nil, fmt.Errorf("%w: %q", ErrUnboundVariable, c.from)
	}

	sources, _ := state.Column(c.from)
	derived := NewRelation([]string{c.from, c.to})
	pin, pinned := fixed[c.to]
	for _, src := range sources {
		for _, candidate := range c.fn(w, src) {
			if pinned && candidate != pin {
				continue
			}
			derived.rows = append(derived.rows, []ecs.EntityID{src, candidate})
		}
	}
	if derived.IsEmpty() {
		return Empty(), nil
	}
	// Unify covers both cases: a fresh variable expands the tuples, an
	// already-bound one is restricted by the join.
	return state.Unify(derived), nil
}

// Query is a reusable role-binding pattern: an ordered list of clauses.
type Query struct {
	clauses []Clause
}

func New(clauses ...Clause) *Query {
	return &Query{clauses: clauses}
}

// Execute enumerates every tuple satisfying all clauses. fixed pins
// variables to caller-supplied ids; a pinned id that fails its own
// constraints yields an empty result, not an error. An empty intermediate
// relation short-circuits the remaining clauses.
func (q *Query) Execute(w *ecs.World, fixed map[string]ecs.EntityID) (*Relation, error) {
	var state *Relation
	for _, c := range q.clauses {
		if state != nil && state.IsEmpty() {
			return Empty(), nil
		}
		next, err := c.apply(w, state, fixed)
		if err != nil {
			return nil, err
		}
		state = next
	}
	if state == nil {
		return Empty(), nil
	}
	return state, nil
}

// One picks a single satisfying binding uniformly at random with the shared
// simulation RNG. ok is false when no tuple satisfies the pattern — an
// expected outcome, not an error.
func (q *Query) One(w *ecs.World, rng *rand.Rand, fixed map[string]ecs.EntityID) (map[string]ecs.EntityID, bool, error) {
	rel, err := q.Execute(w, fixed)
	if err != nil {
		return nil, false, err
	}
	if rel.IsEmpty() {
		return nil, false, nil
	}
	return rel.Binding(rng.Intn(rel.Len())), true, nil
}
