package system

import (
	"github.com/storyloom/loom/internal/core/ecs"
	coresys "github.com/storyloom/loom/internal/core/system"
	"github.com/storyloom/loom/internal/life"
)

// CleanupSystem closes the tick: the added/removed tracking sets and the
// event tick buffer are cleared so the next tick starts with a clean view.
// Deferred entity purging happens at tick start, not here, so every system
// this tick observed the removal sets the purge produced.
type CleanupSystem struct {
	world   *ecs.World
	history *life.History
}

func NewCleanupSystem(world *ecs.World, history *life.History) *CleanupSystem {
	return &CleanupSystem{world: world, history: history}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update() error {
	s.world.ClearTracking()
	s.history.ClearTickBuffer()
	return nil
}
