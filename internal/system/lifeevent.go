package system

import (
	"math/rand"

	"github.com/storyloom/loom/internal/core/ecs"
	coresys "github.com/storyloom/loom/internal/core/system"
	"github.com/storyloom/loom/internal/life"
	"github.com/storyloom/loom/internal/simtime"
)

// LifeEventSystem gives every registered event template one trial per tick:
// bind roles, draw against the probability, commit on success. A failed
// binding just means the event does not apply this tick.
type LifeEventSystem struct {
	world   *ecs.World
	library *life.Library
	history *life.History
	clock   *simtime.Clock
	rng     *rand.Rand
}

func NewLifeEventSystem(world *ecs.World, library *life.Library, history *life.History, clock *simtime.Clock, rng *rand.Rand) *LifeEventSystem {
	return &LifeEventSystem{
		world:   world,
		library: library,
		history: history,
		clock:   clock,
		rng:     rng,
	}
}

func (s *LifeEventSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *LifeEventSystem) Update() error {
	now := s.clock.Now()
	for _, template := range s.library.Types() {
		ev, ok, err := template.Instantiate(s.world, s.rng, nil)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, err := template.TryExecute(s.world, s.history, s.rng, now, ev); err != nil {
			return err
		}
	}
	return nil
}
