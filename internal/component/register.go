package component

import (
	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/relationship"
)

// RegisterAll binds every built-in component to its prefab name.
func RegisterAll(reg *ecs.Registry) {
	reg.Register("GameCharacter", func() ecs.Component { return &GameCharacter{} })
	reg.Register("Active", func() ecs.Component { return &Active{} })
	reg.Register("Deceased", func() ecs.Component { return &Deceased{} })
	reg.Register("Business", func() ecs.Component { return &Business{} })
	reg.Register("Occupation", func() ecs.Component { return &Occupation{} })
	reg.Register("Residence", func() ecs.Component { return &Residence{} })
	reg.Register("Resident", func() ecs.Component { return &Resident{} })
	reg.Register("Settlement", func() ecs.Component { return &Settlement{} })
	reg.Register("Virtues", func() ecs.Component { return &Virtues{} })
	reg.Register("Relationships", func() ecs.Component { return relationship.NewManager() })
}
