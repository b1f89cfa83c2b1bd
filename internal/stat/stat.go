// Package stat implements the dirty-flag lazily-recomputed scalar used by
// relationship stats. Mutations are O(1) counter adjustments; the derived
// raw/scaled/normalized values are recomputed at most once per mutation
// batch, on the first read after a mutation.
package stat

import (
	"fmt"
	"math"
)

// Counter is a pair of non-negative absolute tallies: how many times a
// positive delta and how many times a negative delta was ever applied. It is
// not a running sum — neither side can go below zero.
type Counter struct {
	increments int
	decrements int
}

// NewCounter builds a counter from explicit tallies. Negative tallies are a
// programmer error and panic.
func NewCounter(increments, decrements int) Counter {
	if increments < 0 || decrements < 0 {
		panic(fmt.Sprintf("stat: negative counter (inc=%d, dec=%d)", increments, decrements))
	}
	return Counter{increments: increments, decrements: decrements}
}

func (c Counter) Increments() int { return c.increments }
func (c Counter) Decrements() int { return c.decrements }

// apply records a delta: positive deltas raise the increment tally, negative
// deltas raise the decrement tally by their absolute value.
func (c *Counter) apply(delta int) {
	if delta >= 0 {
		c.increments += delta
	} else {
		c.decrements += -delta
	}
}

// unapply reverses a previous apply of the same delta. Driving a tally below
// zero means an unpaired removal, which is a programmer error.
func (c *Counter) unapply(delta int) {
	if delta >= 0 {
		c.increments -= delta
		if c.increments < 0 {
			panic(fmt.Sprintf("stat: increment tally below zero (delta=%d)", delta))
		}
	} else {
		c.decrements -= -delta
		if c.decrements < 0 {
			panic(fmt.Sprintf("stat: decrement tally below zero (delta=%d)", delta))
		}
	}
}

// Stat decomposes a relationship scalar into a base counter (direct
// adjustments) and a modifier counter (social-rule modifiers), with cached
// derived values guarded by a dirty flag.
//
// Raw = (base.inc + mod.inc) − (base.dec + mod.dec).
// Normalized = inc / (inc + dec), exactly 0.5 when nothing was ever applied.
// Scaled = ceil(clamp(raw, min, max)).
type Stat struct {
	base     Counter
	modifier Counter

	min, max        int
	changesWithTime bool

	dirty      bool
	raw        int
	scaled     int
	normalized float64
}

// New builds a stat bounded to [min, max]. The zero state is clean: raw 0,
// scaled clamp(0), normalized 0.5.
func New(min, max int, changesWithTime bool) *Stat {
	if min > max {
		panic(fmt.Sprintf("stat: min %d > max %d", min, max))
	}
	s := &Stat{min: min, max: max, changesWithTime: changesWithTime, dirty: true}
	s.recompute()
	return s
}

func (s *Stat) Min() int              { return s.min }
func (s *Stat) Max() int              { return s.max }
func (s *Stat) ChangesWithTime() bool { return s.changesWithTime }
func (s *Stat) Base() Counter         { return s.base }
func (s *Stat) Modifier() Counter     { return s.modifier }

// Adjust records a direct delta to the base counter.
func (s *Stat) Adjust(delta int) {
	s.base.apply(delta)
	s.dirty = true
}

// ApplyModifier records a modifier delta.
func (s *Stat) ApplyModifier(delta int) {
	s.modifier.apply(delta)
	s.dirty = true
}

// RemoveModifier reverses a previously applied modifier delta. Must be
// paired with exactly one ApplyModifier of the same delta.
func (s *Stat) RemoveModifier(delta int) {
	s.modifier.unapply(delta)
	s.dirty = true
}

// Raw returns the signed sum of all applied deltas, unclamped.
func (s *Stat) Raw() int {
	s.refresh()
	return s.raw
}

// Scaled returns ceil(clamp(raw, min, max)). Always within [min, max].
func (s *Stat) Scaled() int {
	s.refresh()
	return s.scaled
}

// Normalized returns increments/(increments+decrements) in [0,1], defined as
// exactly 0.5 for a stat with no recorded changes.
func (s *Stat) Normalized() float64 {
	s.refresh()
	return s.normalized
}

func (s *Stat) refresh() {
	if s.dirty {
		s.recompute()
	}
}

func (s *Stat) recompute() {
	inc := s.base.increments + s.modifier.increments
	dec := s.base.decrements + s.modifier.decrements

	s.raw = inc - dec
	s.scaled = int(math.Ceil(clamp(float64(s.raw), float64(s.min), float64(s.max))))
	if inc+dec == 0 {
		s.normalized = 0.5
	} else {
		s.normalized = float64(inc) / float64(inc+dec)
	}
	s.dirty = false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Stat) Snapshot() map[string]any {
	return map[string]any{
		"raw":        s.Raw(),
		"scaled":     s.Scaled(),
		"normalized": s.Normalized(),
		"min":        s.min,
		"max":        s.max,
	}
}
