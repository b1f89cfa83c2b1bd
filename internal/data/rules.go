package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/life"
	"github.com/storyloom/loom/internal/relationship"
)

// Hooks resolves script-backed functions referenced by content files. A nil
// Hooks makes any "script" reference a load error.
type Hooks interface {
	Precondition(fnName string) relationship.Precondition
	Probability(fnName string) life.Probability
	Effect(fnName string) life.Effect
	HasFunction(name string) bool
}

type preconditionDef struct {
	Kind             string  `yaml:"kind"` // always, subject_min_age, compatibility_at_least, script
	MinAge           float64 `yaml:"min_age"`
	MinCompatibility float64 `yaml:"min_compatibility"`
	Script           string  `yaml:"script"`
}

type modifierDef struct {
	Name   string         `yaml:"name"`
	Deltas map[string]int `yaml:"deltas"`
}

type ruleEntry struct {
	Name         string          `yaml:"name"`
	Precondition preconditionDef `yaml:"precondition"`
	Modifiers    []modifierDef   `yaml:"modifiers"`
}

type ruleListFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

// LoadRules loads social rules from a YAML file into the rule book.
func LoadRules(path string, book *relationship.RuleBook, hooks Hooks) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rule_list: %w", err)
	}
	var f ruleListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse rule_list: %w", err)
	}
	for i := range f.Rules {
		entry := &f.Rules[i]
		if entry.Name == "" {
			return fmt.Errorf("rule %d: missing name", i)
		}
		pre, err := buildPrecondition(entry.Precondition, hooks)
		if err != nil {
			return fmt.Errorf("rule %q: %w", entry.Name, err)
		}
		mods := make([]*relationship.Modifier, 0, len(entry.Modifiers))
		for _, m := range entry.Modifiers {
			if m.Name == "" {
				return fmt.Errorf("rule %q: modifier missing name", entry.Name)
			}
			mods = append(mods, &relationship.Modifier{Name: m.Name, Deltas: m.Deltas})
		}
		book.Register(&relationship.SocialRule{
			Name:         entry.Name,
			Precondition: pre,
			Modifiers:    mods,
		})
	}
	return nil
}

func buildPrecondition(def preconditionDef, hooks Hooks) (relationship.Precondition, error) {
	switch def.Kind {
	case "", "always":
		return func(*ecs.World, ecs.EntityID, ecs.EntityID) bool { return true }, nil
	case "subject_min_age":
		minAge := def.MinAge
		return func(w *ecs.World, subject, _ ecs.EntityID) bool {
			c, ok := ecs.TryGet[component.GameCharacter](w, subject)
			return ok && c.Age >= minAge
		}, nil
	case "compatibility_at_least":
		threshold := def.MinCompatibility
		return func(w *ecs.World, subject, target ecs.EntityID) bool {
			a, okA := ecs.TryGet[component.Virtues](w, subject)
			b, okB := ecs.TryGet[component.Virtues](w, target)
			return okA && okB && component.Compatibility(a, b) >= threshold
		}, nil
	case "script":
		if hooks == nil {
			return nil, fmt.Errorf("script precondition %q: no script engine", def.Script)
		}
		if !hooks.HasFunction(def.Script) {
			return nil, fmt.Errorf("script precondition %q: function not defined", def.Script)
		}
		return hooks.Precondition(def.Script), nil
	default:
		return nil, fmt.Errorf("unknown precondition kind %q", def.Kind)
	}
}
