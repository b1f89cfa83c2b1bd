package sim

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/config"
	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/core/resource"
	"github.com/storyloom/loom/internal/simtime"
	"github.com/storyloom/loom/internal/system"
)

const testSchema = `
stats:
  - name: Friendship
    min: -50
    max: 50
`

const testPrefabs = `
prefabs:
  - name: villager
    components:
      GameCharacter:
        first_name: Ada
        last_name: Miller
        age: 30
      Active: {}
      Virtues: {}
  - name: village
    components:
      Settlement:
        name: Greenfield
`

const testEvents = `
events:
  - name: chat
    roles:
      - name: a
        components: [GameCharacter, Active]
      - name: b
        components: [GameCharacter, Active]
    filters:
      - kind: distinct
        roles: [a, b]
    probability:
      const: 1.0
    effect:
      kind: adjust_stat
      subject_role: a
      target_role: b
      stat: Friendship
      delta: 1
      mutual: true
`

func writeContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"stat_schema.yaml": testSchema,
		"prefabs.yaml":     testPrefabs,
		"events.yaml":      testEvents,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newTestSim(t *testing.T, seed int64, dataDir string) *Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.Simulation.Seed = seed
	cfg.Content.DataDir = dataDir
	s, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStepAdvancesClock(t *testing.T) {
	s := newTestSim(t, 1, "")
	start := s.Clock().Now()
	require.NoError(t, s.Step())
	assert.Equal(t, 1, s.Clock().Now().Sub(start))
	assert.Equal(t, uint64(1), s.Tick())
}

func TestSharedResourcesRegistered(t *testing.T) {
	s := newTestSim(t, 1, "")

	rng, err := resource.Get[rand.Rand](s.Resources())
	require.NoError(t, err)
	assert.Same(t, s.RNG(), rng)

	clock, err := resource.Get[simtime.Clock](s.Resources())
	require.NoError(t, err)
	assert.Same(t, s.Clock(), clock)
}

func TestContentDrivenEvents(t *testing.T) {
	s := newTestSim(t, 42, writeContent(t))

	a, err := s.SpawnPrefab("villager")
	require.NoError(t, err)
	b, err := s.SpawnPrefab("villager")
	require.NoError(t, err)

	require.NoError(t, s.Run(3))

	events := s.History().OfType("chat")
	assert.Len(t, events, 3)
	for _, ev := range events {
		assert.ElementsMatch(t, []ecs.EntityID{a, b}, ev.Participants())
	}
}

func TestSameSeedSameStory(t *testing.T) {
	dir := writeContent(t)
	run := func(seed int64) []uint64 {
		s := newTestSim(t, seed, dir)
		for i := 0; i < 4; i++ {
			_, err := s.SpawnPrefab("villager")
			require.NoError(t, err)
		}
		require.NoError(t, s.Run(10))
		var ids []uint64
		for _, ev := range s.History().All() {
			ids = append(ids, uint64(ev.Participants()[0]))
		}
		return ids
	}
	assert.Equal(t, run(7), run(7))
}

func TestDeferredDeletionAcrossSteps(t *testing.T) {
	s := newTestSim(t, 1, "")
	w := s.World()

	town := w.Spawn()
	w.AddComponent(town, &component.Settlement{Name: "Drowned Hollow"})
	person := w.Spawn()
	w.AddComponent(person, &component.GameCharacter{FirstName: "Ada", Age: 30})
	w.AddComponent(person, &component.Active{})
	require.NoError(t, w.SetParent(person, town))

	require.NoError(t, w.Delete(town))
	// Marked entities stay resident until the next step begins.
	assert.True(t, w.Alive(town))
	assert.True(t, w.Alive(person))
	assert.False(t, w.Active(person))

	require.NoError(t, s.Step())
	assert.False(t, w.Alive(town))
	assert.False(t, w.Alive(person))
}

func TestTrackingClearedByEndOfStep(t *testing.T) {
	s := newTestSim(t, 1, "")
	w := s.World()

	id := w.Spawn()
	w.AddComponent(id, &component.GameCharacter{FirstName: "Kit", Age: 12})
	charType := ecs.TypeOf[component.GameCharacter]()
	assert.Contains(t, w.Added(charType), id)

	require.NoError(t, s.Step())
	assert.Empty(t, w.Added(charType))
	assert.Empty(t, s.History().TickBuffer())
}

func TestAgingEmitsLifeStageEvents(t *testing.T) {
	s := newTestSim(t, 1, "")
	w := s.World()

	id := w.Spawn()
	// One day short of adolescence; a single tick crosses the threshold.
	w.AddComponent(id, &component.GameCharacter{FirstName: "Kit", Age: 12.999})
	w.AddComponent(id, &component.Active{})

	require.NoError(t, s.Step())

	events := s.History().ForEntity(id)
	require.NotEmpty(t, events)
	assert.Equal(t, system.LifeStageEvent, events[0].Type)
}

func TestExportWritesSnapshot(t *testing.T) {
	s := newTestSim(t, 1, writeContent(t))
	_, err := s.SpawnPrefab("villager")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, s.Export(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Ada")
	assert.Contains(t, string(raw), s.RunID())
}
