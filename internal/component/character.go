// Package component defines the built-in domain components: characters,
// businesses, residences, and settlements. All are plain data registered
// with the factory registry under stable string names for prefab spawning.
package component

import (
	"fmt"

	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/simtime"
)

// LifeStage buckets a character's age for rules and life events.
type LifeStage int

const (
	Child LifeStage = iota
	Adolescent
	YoungAdult
	Adult
	Senior
)

var lifeStageNames = [...]string{"child", "adolescent", "young_adult", "adult", "senior"}

func (s LifeStage) String() string {
	if s < Child || s > Senior {
		return fmt.Sprintf("LifeStage(%d)", int(s))
	}
	return lifeStageNames[s]
}

// Life stage thresholds in years.
const (
	AdolescentAge = 13
	YoungAdultAge = 18
	AdultAge      = 30
	SeniorAge     = 65
)

// StageForAge maps an age in years to its life stage.
func StageForAge(years float64) LifeStage {
	switch {
	case years < AdolescentAge:
		return Child
	case years < YoungAdultAge:
		return Adolescent
	case years < AdultAge:
		return YoungAdult
	case years < SeniorAge:
		return Adult
	default:
		return Senior
	}
}

// GameCharacter is a simulated person.
type GameCharacter struct {
	ecs.BaseComponent
	FirstName string  `yaml:"first_name"`
	LastName  string  `yaml:"last_name"`
	Age       float64 `yaml:"age"`
}

func (c *GameCharacter) FullName() string {
	return c.FirstName + " " + c.LastName
}

func (c *GameCharacter) Stage() LifeStage {
	return StageForAge(c.Age)
}

func (c *GameCharacter) Validate() error {
	if c.Age < 0 {
		return fmt.Errorf("character %q: negative age %v", c.FullName(), c.Age)
	}
	return nil
}

func (c *GameCharacter) Snapshot() map[string]any {
	return map[string]any{
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"age":        c.Age,
		"life_stage": c.Stage().String(),
	}
}

// Active marks an entity as participating in the simulation. Queries that
// require active status include this tag in their component set.
type Active struct {
	ecs.BaseComponent
}

func (a *Active) Snapshot() map[string]any { return map[string]any{} }

// Deceased replaces Active when a character dies; systems reacting to
// death key off this component being added.
type Deceased struct {
	ecs.BaseComponent
	DeathDate simtime.DateTime
}

func (d *Deceased) Snapshot() map[string]any {
	return map[string]any{"death_date": d.DeathDate.String()}
}
