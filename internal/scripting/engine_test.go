package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/life"
	"github.com/storyloom/loom/internal/relationship"
	"github.com/storyloom/loom/internal/simtime"
)

const testScript = `
function is_adult(subject, target)
	local age = loom.age(subject)
	return age ~= nil and age >= 18
end

function always(event)
	return 1.0
end

function boost_friendship(event)
	loom.adjust_stat(event.roles.a, event.roles.b, "Friendship", 2)
end
`

func newTestEngine(t *testing.T) (*Engine, *ecs.World, *relationship.Schema, *relationship.RuleBook) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hooks.lua"), []byte(testScript), 0o644))

	e, err := NewEngine(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(e.Close)

	w := ecs.NewWorld()
	schema := &relationship.Schema{Stats: []relationship.StatDef{
		{Name: "Friendship", Min: -10, Max: 10},
	}}
	require.NoError(t, schema.Validate())
	book := relationship.NewRuleBook()
	clock := simtime.NewClock(simtime.New(1, 1, 1), 1)
	e.Bind(w, book, schema, clock)
	return e, w, schema, book
}

func TestEngineLoadsFunctions(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	assert.True(t, e.HasFunction("is_adult"))
	assert.True(t, e.HasFunction("always"))
	assert.False(t, e.HasFunction("missing"))
}

func TestPreconditionReadsWorld(t *testing.T) {
	e, w, _, _ := newTestEngine(t)

	adult := w.Spawn()
	w.AddComponent(adult, &component.GameCharacter{FirstName: "Ada", Age: 30})
	child := w.Spawn()
	w.AddComponent(child, &component.GameCharacter{FirstName: "Kit", Age: 9})
	other := w.Spawn()

	pre := e.Precondition("is_adult")
	assert.True(t, pre(w, adult, other))
	assert.False(t, pre(w, child, other))
}

func TestPreconditionMissingFunctionFailsClosed(t *testing.T) {
	e, w, _, _ := newTestEngine(t)
	a, b := w.Spawn(), w.Spawn()
	assert.False(t, e.Precondition("missing")(w, a, b))
}

func TestProbabilityAndEffect(t *testing.T) {
	e, w, _, _ := newTestEngine(t)

	a, b := w.Spawn(), w.Spawn()
	ev := life.NewEvent("meet", map[string]ecs.EntityID{"a": a, "b": b})

	assert.Equal(t, 1.0, e.Probability("always")(w, ev))

	require.NoError(t, e.Effect("boost_friendship")(w, ev))
	rel, err := relationship.Get(w, a, b)
	require.NoError(t, err)
	s, err := rel.Stat("Friendship")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Raw())
}

func TestEffectErrorSurfaces(t *testing.T) {
	e, w, _, _ := newTestEngine(t)
	ev := life.NewEvent("meet", map[string]ecs.EntityID{})
	assert.Error(t, e.Effect("missing")(w, ev))
}
