package system

import (
	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/core/ecs"
	coresys "github.com/storyloom/loom/internal/core/system"
)

// SettlementCensusSystem maintains settlement populations reactively from
// the Resident add/remove tracking sets: it runs early in the tick, before
// the sets are cleared at the boundary.
type SettlementCensusSystem struct {
	world *ecs.World

	// residence per entity as of the last census, so a removal can still
	// be attributed after the component is gone.
	lastKnown map[ecs.EntityID]ecs.EntityID
}

func NewSettlementCensusSystem(world *ecs.World) *SettlementCensusSystem {
	return &SettlementCensusSystem{
		world:     world,
		lastKnown: make(map[ecs.EntityID]ecs.EntityID),
	}
}

func (s *SettlementCensusSystem) Phase() coresys.Phase { return coresys.PhaseEarly }

func (s *SettlementCensusSystem) Update() error {
	for _, id := range ecs.Removed[component.Resident](s.world) {
		residenceID, known := s.lastKnown[id]
		if !known {
			continue
		}
		delete(s.lastKnown, id)
		if dwelling, ok := ecs.TryGet[component.Residence](s.world, residenceID); ok {
			dwelling.RemoveResident(id)
		}
		s.adjustPopulation(residenceID, -1)
	}

	for _, id := range ecs.Added[component.Resident](s.world) {
		res, ok := ecs.TryGet[component.Resident](s.world, id)
		if !ok {
			continue // added and removed within the same tick
		}
		if dwelling, ok := ecs.TryGet[component.Residence](s.world, res.Residence); ok {
			dwelling.AddResident(id)
		}
		s.lastKnown[id] = res.Residence
		s.adjustPopulation(res.Residence, +1)
	}
	return nil
}

func (s *SettlementCensusSystem) adjustPopulation(residenceID ecs.EntityID, delta int) {
	dwelling, ok := ecs.TryGet[component.Residence](s.world, residenceID)
	if !ok {
		return
	}
	settlement, ok := ecs.TryGet[component.Settlement](s.world, dwelling.Settlement)
	if !ok {
		return
	}
	settlement.Population += delta
}
