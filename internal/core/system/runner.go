package system

import (
	"fmt"
	"sort"
)

// Runner executes systems in (phase, priority) order each tick. The order is
// fixed for a given registration sequence, which is what makes a run
// reproducible for a fixed seed.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every system once. The first system error aborts the step.
func (r *Runner) Tick() error {
	r.ensureSorted()
	for _, s := range r.systems {
		if err := s.Update(); err != nil {
			return fmt.Errorf("system %T: %w", s, err)
		}
	}
	return nil
}

// TickPhase runs only the systems of one phase. Used by hosts that interleave
// their own work between phases.
func (r *Runner) TickPhase(phase Phase) error {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() != phase {
			continue
		}
		if err := s.Update(); err != nil {
			return fmt.Errorf("system %T: %w", s, err)
		}
	}
	return nil
}

func (r *Runner) ensureSorted() {
	if r.sorted {
		return
	}
	sort.SliceStable(r.systems, func(i, j int) bool {
		if r.systems[i].Phase() != r.systems[j].Phase() {
			return r.systems[i].Phase() < r.systems[j].Phase()
		}
		return priorityOf(r.systems[i]) > priorityOf(r.systems[j])
	})
	r.sorted = true
}

func priorityOf(s System) int {
	if p, ok := s.(Prioritized); ok {
		return p.Priority()
	}
	return 0
}
