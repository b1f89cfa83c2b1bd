package component

import (
	"fmt"

	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/simtime"
)

// Business is a commercial venture owned by a character.
type Business struct {
	ecs.BaseComponent
	Name    string           `yaml:"name"`
	Owner   ecs.EntityID     `yaml:"-"`
	Founded simtime.DateTime `yaml:"-"`
}

// YearsInBusiness measures whole years since founding. Life event
// probabilities use it to make closure odds grow with age.
func (b *Business) YearsInBusiness(now simtime.DateTime) int {
	days := now.Sub(b.Founded)
	if days < 0 {
		return 0
	}
	return days / simtime.DaysPerYear
}

func (b *Business) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("business with empty name")
	}
	return nil
}

func (b *Business) Snapshot() map[string]any {
	return map[string]any{
		"name":    b.Name,
		"owner":   uint64(b.Owner),
		"founded": b.Founded.String(),
	}
}

// Occupation ties a character to a business with a title.
type Occupation struct {
	ecs.BaseComponent
	Title    string           `yaml:"title"`
	Business ecs.EntityID     `yaml:"-"`
	Started  simtime.DateTime `yaml:"-"`
}

func (o *Occupation) Snapshot() map[string]any {
	return map[string]any{
		"title":    o.Title,
		"business": uint64(o.Business),
		"started":  o.Started.String(),
	}
}

// Residence is a dwelling within a settlement.
type Residence struct {
	ecs.BaseComponent
	Settlement ecs.EntityID   `yaml:"-"`
	Residents  []ecs.EntityID `yaml:"-"`
}

func (r *Residence) AddResident(id ecs.EntityID) {
	for _, existing := range r.Residents {
		if existing == id {
			return
		}
	}
	r.Residents = append(r.Residents, id)
}

func (r *Residence) RemoveResident(id ecs.EntityID) {
	for i, existing := range r.Residents {
		if existing == id {
			r.Residents = append(r.Residents[:i], r.Residents[i+1:]...)
			return
		}
	}
}

func (r *Residence) Snapshot() map[string]any {
	residents := make([]uint64, len(r.Residents))
	for i, id := range r.Residents {
		residents[i] = uint64(id)
	}
	return map[string]any{
		"settlement": uint64(r.Settlement),
		"residents":  residents,
	}
}

// Resident marks a character as living in a residence.
type Resident struct {
	ecs.BaseComponent
	Residence ecs.EntityID `yaml:"-"`
}

func (r *Resident) Snapshot() map[string]any {
	return map[string]any{"residence": uint64(r.Residence)}
}

// Settlement groups residences and tracks its population, maintained
// reactively from Resident add/remove tracking.
type Settlement struct {
	ecs.BaseComponent
	Name       string `yaml:"name"`
	Population int    `yaml:"-"`
}

func (s *Settlement) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("settlement with empty name")
	}
	return nil
}

func (s *Settlement) Snapshot() map[string]any {
	return map[string]any{
		"name":       s.Name,
		"population": s.Population,
	}
}
