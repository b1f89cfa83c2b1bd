// Package data loads simulation content from YAML files: entity prefabs,
// the relationship stat schema, social rules, and life-event definitions.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/storyloom/loom/internal/core/ecs"
)

// Prefab is a named bundle of pre-configured components. Component payloads
// stay as raw YAML nodes until instantiation so each spawn gets a fresh
// decode.
type Prefab struct {
	Name       string
	components map[string]yaml.Node
}

type prefabEntry struct {
	Name       string               `yaml:"name"`
	Components map[string]yaml.Node `yaml:"components"`
}

type prefabListFile struct {
	Prefabs []prefabEntry `yaml:"prefabs"`
}

// PrefabTable holds all prefabs indexed by name.
type PrefabTable struct {
	prefabs  map[string]*Prefab
	registry *ecs.Registry
}

// LoadPrefabTable loads prefabs from a YAML file. Every component name must
// be registered, and every decoded payload must validate; a bad prefab fails
// the whole load.
func LoadPrefabTable(path string, registry *ecs.Registry) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab_list: %w", err)
	}
	var f prefabListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse prefab_list: %w", err)
	}
	t := &PrefabTable{
		prefabs:  make(map[string]*Prefab, len(f.Prefabs)),
		registry: registry,
	}
	for i := range f.Prefabs {
		entry := &f.Prefabs[i]
		if entry.Name == "" {
			return nil, fmt.Errorf("prefab %d: missing name", i)
		}
		for compName, node := range entry.Components {
			if _, err := decodeComponent(registry, compName, node); err != nil {
				return nil, fmt.Errorf("prefab %q: %w", entry.Name, err)
			}
		}
		t.prefabs[entry.Name] = &Prefab{
			Name:       entry.Name,
			components: entry.Components,
		}
	}
	return t, nil
}

// Get returns a prefab by name, or nil if not found.
func (t *PrefabTable) Get(name string) *Prefab {
	return t.prefabs[name]
}

// Count returns the number of loaded prefabs.
func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

// Instantiate spawns a new entity carrying fresh copies of the prefab's
// components.
func (t *PrefabTable) Instantiate(w *ecs.World, name string) (ecs.EntityID, error) {
	p := t.prefabs[name]
	if p == nil {
		return 0, fmt.Errorf("prefab %q not found", name)
	}
	id := w.Spawn()
	for compName, node := range p.components {
		c, err := decodeComponent(t.registry, compName, node)
		if err != nil {
			return 0, fmt.Errorf("prefab %q: %w", name, err)
		}
		if err := w.AddComponent(id, c); err != nil {
			return 0, fmt.Errorf("prefab %q: %w", name, err)
		}
	}
	return id, nil
}

func decodeComponent(registry *ecs.Registry, name string, node yaml.Node) (ecs.Component, error) {
	c, err := registry.New(name)
	if err != nil {
		return nil, err
	}
	if node.Kind != 0 {
		if err := node.Decode(c); err != nil {
			return nil, fmt.Errorf("component %q: %w", name, err)
		}
	}
	if v, ok := c.(ecs.Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("component %q: %w", name, err)
		}
	}
	return c, nil
}
