// Package system holds the built-in per-tick systems. Each system gets its
// collaborators by constructor injection and implements the core system
// interface; the runner orders them by phase.
package system

import (
	coresys "github.com/storyloom/loom/internal/core/system"
	"github.com/storyloom/loom/internal/simtime"
)

// TimeSystem advances the shared clock. Phase 0, so every later system in
// the tick observes the new date.
type TimeSystem struct {
	clock *simtime.Clock
}

func NewTimeSystem(clock *simtime.Clock) *TimeSystem {
	return &TimeSystem{clock: clock}
}

func (s *TimeSystem) Phase() coresys.Phase { return coresys.PhaseTime }

func (s *TimeSystem) Update() error {
	s.clock.Advance()
	return nil
}
