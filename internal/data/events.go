package data

import (
	"fmt"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/life"
	"github.com/storyloom/loom/internal/query"
	"github.com/storyloom/loom/internal/relationship"
)

type roleDef struct {
	Name       string   `yaml:"name"`
	Components []string `yaml:"components"`
}

type filterDef struct {
	Kind             string   `yaml:"kind"` // distinct, compatibility_at_least, script
	Roles            []string `yaml:"roles"`
	MinCompatibility float64  `yaml:"min_compatibility"`
	Script           string   `yaml:"script"`
}

type deriveDef struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Stat    string `yaml:"stat"`
	AtLeast int    `yaml:"at_least"`
}

type probabilityDef struct {
	Const  *float64 `yaml:"const"`
	Script string   `yaml:"script"`
}

type effectDef struct {
	Kind        string `yaml:"kind"` // adjust_stat, script
	SubjectRole string `yaml:"subject_role"`
	TargetRole  string `yaml:"target_role"`
	Stat        string `yaml:"stat"`
	Delta       int    `yaml:"delta"`
	Mutual      bool   `yaml:"mutual"`
	Script      string `yaml:"script"`
}

type eventEntry struct {
	Name        string         `yaml:"name"`
	Roles       []roleDef      `yaml:"roles"`
	Derives     []deriveDef    `yaml:"derives"`
	Filters     []filterDef    `yaml:"filters"`
	Probability probabilityDef `yaml:"probability"`
	Effect      effectDef      `yaml:"effect"`
}

type eventListFile struct {
	Events []eventEntry `yaml:"events"`
}

// LoadEvents loads life-event definitions from a YAML file into the
// library. Role component names resolve against the registry; stat-based
// effects need the rule book and schema to create relationships on demand.
func LoadEvents(path string, lib *life.Library, registry *ecs.Registry, book *relationship.RuleBook, schema *relationship.Schema, hooks Hooks) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read event_list: %w", err)
	}
	var f eventListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse event_list: %w", err)
	}
	for i := range f.Events {
		entry := &f.Events[i]
		if entry.Name == "" {
			return fmt.Errorf("event %d: missing name", i)
		}
		et, err := buildEventType(entry, registry, book, schema, hooks)
		if err != nil {
			return fmt.Errorf("event %q: %w", entry.Name, err)
		}
		lib.Register(et)
	}
	return nil
}

func buildEventType(entry *eventEntry, registry *ecs.Registry, book *relationship.RuleBook, schema *relationship.Schema, hooks Hooks) (*life.EventType, error) {
	if len(entry.Roles) == 0 {
		return nil, fmt.Errorf("no roles")
	}
	clauses := make([]query.Clause, 0, len(entry.Roles)+len(entry.Derives)+len(entry.Filters))
	for _, role := range entry.Roles {
		if role.Name == "" {
			return nil, fmt.Errorf("role missing name")
		}
		types := make([]reflect.Type, 0, len(role.Components))
		for _, compName := range role.Components {
			ct, err := registry.Type(compName)
			if err != nil {
				return nil, fmt.Errorf("role %q: %w", role.Name, err)
			}
			types = append(types, ct)
		}
		clauses = append(clauses, query.With(role.Name, types...))
	}
	for _, d := range entry.Derives {
		if d.From == "" || d.To == "" {
			return nil, fmt.Errorf("derive needs from and to")
		}
		clauses = append(clauses, query.Derive(d.From, d.To, relationship.TargetsWithStatAtLeast(d.Stat, d.AtLeast)))
	}
	for _, fd := range entry.Filters {
		clause, err := buildFilter(fd, hooks)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}

	prob, err := buildProbability(entry.Probability, hooks)
	if err != nil {
		return nil, err
	}
	effect, err := buildEffect(entry.Effect, book, schema, hooks)
	if err != nil {
		return nil, err
	}
	return &life.EventType{
		Name:        entry.Name,
		Roles:       query.New(clauses...),
		Probability: prob,
		Effect:      effect,
	}, nil
}

func buildFilter(def filterDef, hooks Hooks) (query.Clause, error) {
	switch def.Kind {
	case "distinct":
		if len(def.Roles) < 2 {
			return nil, fmt.Errorf("distinct filter needs at least two roles")
		}
		return query.Where(func(_ *ecs.World, ids ...ecs.EntityID) bool {
			seen := make(map[ecs.EntityID]struct{}, len(ids))
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					return false
				}
				seen[id] = struct{}{}
			}
			return true
		}, def.Roles...), nil
	case "compatibility_at_least":
		if len(def.Roles) != 2 {
			return nil, fmt.Errorf("compatibility filter needs exactly two roles")
		}
		threshold := def.MinCompatibility
		return query.Where(func(w *ecs.World, ids ...ecs.EntityID) bool {
			a, okA := ecs.TryGet[component.Virtues](w, ids[0])
			b, okB := ecs.TryGet[component.Virtues](w, ids[1])
			return okA && okB && component.Compatibility(a, b) >= threshold
		}, def.Roles...), nil
	case "script":
		if len(def.Roles) != 2 {
			return nil, fmt.Errorf("script filter needs exactly two roles")
		}
		if hooks == nil {
			return nil, fmt.Errorf("script filter %q: no script engine", def.Script)
		}
		if !hooks.HasFunction(def.Script) {
			return nil, fmt.Errorf("script filter %q: function not defined", def.Script)
		}
		pre := hooks.Precondition(def.Script)
		return query.Where(func(w *ecs.World, ids ...ecs.EntityID) bool {
			return pre(w, ids[0], ids[1])
		}, def.Roles...), nil
	default:
		return nil, fmt.Errorf("unknown filter kind %q", def.Kind)
	}
}

func buildProbability(def probabilityDef, hooks Hooks) (life.Probability, error) {
	switch {
	case def.Script != "":
		if hooks == nil {
			return nil, fmt.Errorf("script probability %q: no script engine", def.Script)
		}
		if !hooks.HasFunction(def.Script) {
			return nil, fmt.Errorf("script probability %q: function not defined", def.Script)
		}
		return hooks.Probability(def.Script), nil
	case def.Const != nil:
		p := *def.Const
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("probability %v out of range", p)
		}
		return life.Const(p), nil
	default:
		return nil, fmt.Errorf("probability needs const or script")
	}
}

func buildEffect(def effectDef, book *relationship.RuleBook, schema *relationship.Schema, hooks Hooks) (life.Effect, error) {
	switch def.Kind {
	case "adjust_stat":
		if def.SubjectRole == "" || def.TargetRole == "" || def.Stat == "" {
			return nil, fmt.Errorf("adjust_stat effect needs subject_role, target_role and stat")
		}
		return adjustStatEffect(def, book, schema), nil
	case "script":
		if hooks == nil {
			return nil, fmt.Errorf("script effect %q: no script engine", def.Script)
		}
		if !hooks.HasFunction(def.Script) {
			return nil, fmt.Errorf("script effect %q: function not defined", def.Script)
		}
		return hooks.Effect(def.Script), nil
	default:
		return nil, fmt.Errorf("unknown effect kind %q", def.Kind)
	}
}

func adjustStatEffect(def effectDef, book *relationship.RuleBook, schema *relationship.Schema) life.Effect {
	adjust := func(w *ecs.World, subject, target ecs.EntityID) error {
		r, err := relationship.Add(w, book, schema, subject, target)
		if err != nil {
			return err
		}
		s, err := r.Stat(def.Stat)
		if err != nil {
			return err
		}
		s.Adjust(def.Delta)
		return nil
	}
	return func(w *ecs.World, ev *life.Event) error {
		subject, ok := ev.Role(def.SubjectRole)
		if !ok {
			return fmt.Errorf("role %q not bound", def.SubjectRole)
		}
		target, ok := ev.Role(def.TargetRole)
		if !ok {
			return fmt.Errorf("role %q not bound", def.TargetRole)
		}
		if err := adjust(w, subject, target); err != nil {
			return err
		}
		if def.Mutual {
			return adjust(w, target, subject)
		}
		return nil
	}
}
