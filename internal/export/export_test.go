package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/simtime"
)

func TestCapture(t *testing.T) {
	w := ecs.NewWorld()
	reg := ecs.NewRegistry()
	component.RegisterAll(reg)

	town := w.Spawn()
	w.AddComponent(town, &component.Settlement{Name: "Greenfield"})

	person := w.Spawn()
	w.AddComponent(person, &component.GameCharacter{FirstName: "Ada", LastName: "Miller", Age: 34})
	w.AddComponent(person, &component.Active{})
	require.NoError(t, w.SetParent(person, town))

	snap := Capture(w, reg, "run-7", simtime.New(12, 3, 4), nil)
	assert.Equal(t, "run-7", snap.RunID)
	assert.Equal(t, "0012-03-04", snap.Date)
	require.Len(t, snap.Entities, 2)

	var personSnap *EntitySnapshot
	for i := range snap.Entities {
		if snap.Entities[i].ID == person {
			personSnap = &snap.Entities[i]
		}
	}
	require.NotNil(t, personSnap)
	assert.Equal(t, town, personSnap.Parent)
	assert.Equal(t, "Ada", personSnap.Components["GameCharacter"]["first_name"])
	assert.Contains(t, personSnap.Components, "Active")

	assert.NotEmpty(t, Capture(w, reg, "", simtime.New(12, 3, 4), nil).RunID)
}

func TestWriteFileRoundTrip(t *testing.T) {
	w := ecs.NewWorld()
	reg := ecs.NewRegistry()
	component.RegisterAll(reg)
	id := w.Spawn()
	w.AddComponent(id, &component.GameCharacter{FirstName: "Kit", Age: 9})

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	extra := map[string]map[string]any{
		"clock": {"date": "0001-01-01"},
	}
	require.NoError(t, WriteFile(path, w, reg, "run-9", simtime.New(1, 1, 1), extra))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, yaml.Unmarshal(raw, &snap))
	require.Len(t, snap.Entities, 1)
	assert.Equal(t, "run-9", snap.RunID)
	assert.Equal(t, "Kit", snap.Entities[0].Components["GameCharacter"]["first_name"])
	assert.Equal(t, "0001-01-01", snap.Resources["clock"]["date"])
}
