// Package export renders the live world state as a YAML debug snapshot:
// every entity with its components, snapshot-capable resources, and run
// metadata.
package export

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/simtime"
)

// Snapshot is the serialized form of one world at one instant.
type Snapshot struct {
	RunID     string                    `yaml:"run_id"`
	Date      string                    `yaml:"date"`
	Entities  []EntitySnapshot          `yaml:"entities"`
	Resources map[string]map[string]any `yaml:"resources,omitempty"`
}

// EntitySnapshot is one entity's contribution: its id, activity, hierarchy
// links and component payloads keyed by registry name.
type EntitySnapshot struct {
	ID         ecs.EntityID              `yaml:"id"`
	Active     bool                      `yaml:"active"`
	Parent     ecs.EntityID              `yaml:"parent,omitempty"`
	Components map[string]map[string]any `yaml:"components"`
}

// Capture walks every live entity and builds the snapshot. Components that
// do not implement Snapshotter appear by name with a nil payload, so the
// entity's shape is still visible. The run id ties the snapshot to the
// simulation's collector rows; an empty one gets a fresh uuid.
func Capture(w *ecs.World, registry *ecs.Registry, runID string, now simtime.DateTime, extra map[string]map[string]any) *Snapshot {
	if runID == "" {
		runID = uuid.NewString()
	}
	snap := &Snapshot{
		RunID:     runID,
		Date:      now.String(),
		Resources: extra,
	}
	ids := w.Entities()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		es := EntitySnapshot{
			ID:         id,
			Active:     w.Active(id),
			Components: make(map[string]map[string]any),
		}
		if parent, ok := w.Parent(id); ok {
			es.Parent = parent
		}
		for _, c := range w.Components(id) {
			name := registry.Name(c)
			if name == "" {
				name = fmt.Sprintf("%T", c)
			}
			if s, ok := c.(ecs.Snapshotter); ok {
				es.Components[name] = s.Snapshot()
			} else {
				es.Components[name] = nil
			}
		}
		snap.Entities = append(snap.Entities, es)
	}
	return snap
}

// WriteFile captures the world and writes the snapshot as YAML.
func WriteFile(path string, w *ecs.World, registry *ecs.Registry, runID string, now simtime.DateTime, extra map[string]map[string]any) error {
	snap := Capture(w, registry, runID, now, extra)
	raw, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
