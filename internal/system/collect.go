package system

import (
	"github.com/storyloom/loom/internal/collect"
	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/core/ecs"
	coresys "github.com/storyloom/loom/internal/core/system"
	"github.com/storyloom/loom/internal/life"
	"github.com/storyloom/loom/internal/relationship"
	"github.com/storyloom/loom/internal/simtime"
)

// CollectSystem flushes per-tick aggregates and the tick's committed events
// to the analytics sink. It runs in the collect phase, after all mutations
// but before the tick buffer clears.
type CollectSystem struct {
	world     *ecs.World
	history   *life.History
	clock     *simtime.Clock
	collector *collect.Collector
	tick      uint64
}

func NewCollectSystem(world *ecs.World, history *life.History, clock *simtime.Clock, collector *collect.Collector) *CollectSystem {
	return &CollectSystem{world: world, history: history, clock: clock, collector: collector}
}

func (s *CollectSystem) Phase() coresys.Phase { return coresys.PhaseCollect }

func (s *CollectSystem) Update() error {
	s.tick++

	var metrics collect.TickMetrics
	metrics.Characters = len(s.world.Query(ecs.TypeOf[component.GameCharacter]()))
	metrics.Settlements = len(s.world.Query(ecs.TypeOf[component.Settlement]()))
	ecs.Each(s.world, func(_ ecs.EntityID, m *relationship.Manager) {
		metrics.Relationships += len(m.Targets())
	})
	buffered := s.history.TickBuffer()
	metrics.Events = len(buffered)

	date := s.clock.Now().String()
	if err := s.collector.RecordTick(s.tick, date, metrics); err != nil {
		return err
	}
	for _, ev := range buffered {
		if err := s.collector.RecordEvent(s.tick, ev); err != nil {
			return err
		}
	}
	return nil
}
