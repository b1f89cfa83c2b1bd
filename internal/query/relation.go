// Package query implements the role-binding engine: declarative patterns
// over component sets, filters, and derived columns, evaluated by natural
// joins over relations of entity-id tuples. All scans are linear; there is
// no indexing beyond what the entity store provides.
package query

import (
	"fmt"

	"github.com/storyloom/loom/internal/core/ecs"
)

// Relation is a table of entity-id tuples under an ordered list of symbols
// (variable names). The empty relation carries no symbols at all, which is
// how failure propagates through unification.
type Relation struct {
	symbols []string
	index   map[string]int
	rows    [][]ecs.EntityID
}

// NewRelation builds a relation; every row must match the symbol count.
func NewRelation(symbols []string, rows ...[]ecs.EntityID) *Relation {
	r := &Relation{
		symbols: append([]string(nil), symbols...),
		index:   make(map[string]int, len(symbols)),
		rows:    rows,
	}
	for i, s := range symbols {
		r.index[s] = i
	}
	for _, row := range rows {
		if len(row) != len(symbols) {
			panic(fmt.Sprintf("query: row width %d != symbol count %d", len(row), len(symbols)))
		}
	}
	return r
}

// Empty returns the failure relation: no rows and no symbols.
func Empty() *Relation {
	return &Relation{index: make(map[string]int)}
}

func (r *Relation) IsEmpty() bool     { return len(r.rows) == 0 }
func (r *Relation) Symbols() []string { return append([]string(nil), r.symbols...) }
func (r *Relation) Len() int          { return len(r.rows) }

func (r *Relation) Has(symbol string) bool {
	_, ok := r.index[symbol]
	return ok
}

// Rows returns the tuples in insertion order.
func (r *Relation) Rows() [][]ecs.EntityID {
	out := make([][]ecs.EntityID, len(r.rows))
	for i, row := range r.rows {
		out[i] = append([]ecs.EntityID(nil), row...)
	}
	return out
}

// Binding converts one row into a symbol -> id map.
func (r *Relation) Binding(row int) map[string]ecs.EntityID {
	out := make(map[string]ecs.EntityID, len(r.symbols))
	for i, s := range r.symbols {
		out[s] = r.rows[row][i]
	}
	return out
}

// Column returns the distinct values of one symbol, in first-seen order.
func (r *Relation) Column(symbol string) ([]ecs.EntityID, bool) {
	i, ok := r.index[symbol]
	if !ok {
		return nil, false
	}
	seen := make(map[ecs.EntityID]struct{}, len(r.rows))
	out := make([]ecs.EntityID, 0, len(r.rows))
	for _, row := range r.rows {
		if _, dup := seen[row[i]]; dup {
			continue
		}
		seen[row[i]] = struct{}{}
		out = append(out, row[i])
	}
	return out, true
}

// Unify natural-joins two relations. If either side is empty the result is
// the empty relation with no symbols. Otherwise rows pair up wherever every
// shared symbol agrees, and the result's symbols are the ordered union:
// the left side's symbols followed by the right side's unseen ones.
func (r *Relation) Unify(o *Relation) *Relation {
	if r.IsEmpty() || o.IsEmpty() {
		return Empty()
	}

	shared := make([][2]int, 0, 2) // (left idx, right idx) per shared symbol
	extra := make([]int, 0, len(o.symbols))
	merged := append([]string(nil), r.symbols...)
	for j, s := range o.symbols {
		if i, ok := r.index[s]; ok {
			shared = append(shared, [2]int{i, j})
		} else {
			extra = append(extra, j)
			merged = append(merged, s)
		}
	}

	out := NewRelation(merged)
	for _, left := range r.rows {
		for _, right := range o.rows {
			match := true
			for _, pair := range shared {
				if left[pair[0]] != right[pair[1]] {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			row := make([]ecs.EntityID, 0, len(merged))
			row = append(row, left...)
			for _, j := range extra {
				row = append(row, right[j])
			}
			out.rows = append(out.rows, row)
		}
	}
	if out.IsEmpty() {
		return Empty()
	}
	return out
}
