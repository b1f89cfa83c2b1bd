package system

import (
	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/core/ecs"
	coresys "github.com/storyloom/loom/internal/core/system"
	"github.com/storyloom/loom/internal/life"
	"github.com/storyloom/loom/internal/simtime"
)

// LifeStageEvent is committed whenever aging carries a character into a new
// life stage.
const LifeStageEvent = "life-stage-change"

// AgingSystem ages every active character by the tick's elapsed days and
// commits a history event on life-stage transitions.
type AgingSystem struct {
	world   *ecs.World
	clock   *simtime.Clock
	history *life.History
}

func NewAgingSystem(world *ecs.World, clock *simtime.Clock, history *life.History) *AgingSystem {
	return &AgingSystem{world: world, clock: clock, history: history}
}

func (s *AgingSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Priority keeps aging ahead of the life-event trials in the same phase, so
// events observe up-to-date ages.
func (s *AgingSystem) Priority() int { return 10 }

func (s *AgingSystem) Update() error {
	elapsed := float64(s.clock.DaysPerTick()) / simtime.DaysPerYear
	now := s.clock.Now()

	var stageEvents []*life.Event
	ecs.Each2(s.world, func(id ecs.EntityID, c *component.GameCharacter, _ *component.Active) {
		before := c.Stage()
		c.Age += elapsed
		if after := c.Stage(); after != before {
			ev := life.NewEvent(LifeStageEvent, map[string]ecs.EntityID{"Character": id})
			stageEvents = append(stageEvents, ev)
		}
	})

	for _, ev := range stageEvents {
		ev.Timestamp = now
		s.history.Append(ev)
	}
	return nil
}
