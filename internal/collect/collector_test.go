package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/life"
	"github.com/storyloom/loom/internal/simtime"
)

func openTestCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := Open(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.BeginRun("run-1", 42, "0001-01-01"))
	return c
}

func TestRecordTick(t *testing.T) {
	c := openTestCollector(t)
	require.NoError(t, c.RecordTick(1, "0001-01-02", TickMetrics{
		Characters:    12,
		Settlements:   2,
		Relationships: 7,
		Events:        3,
	}))

	var characters, relationships int
	row := c.db.QueryRow(`SELECT characters, relationships FROM tick_metrics WHERE run_id = ? AND tick = 1`, "run-1")
	require.NoError(t, row.Scan(&characters, &relationships))
	assert.Equal(t, 12, characters)
	assert.Equal(t, 7, relationships)
}

func TestRecordTickRejectsDuplicate(t *testing.T) {
	c := openTestCollector(t)
	require.NoError(t, c.RecordTick(1, "0001-01-02", TickMetrics{}))
	assert.Error(t, c.RecordTick(1, "0001-01-02", TickMetrics{}))
}

func TestRecordEvent(t *testing.T) {
	c := openTestCollector(t)
	ev := life.NewEvent("chat", map[string]ecs.EntityID{"a": 3, "b": 9})
	ev.ID = 1
	ev.Timestamp = simtime.New(1, 1, 2)
	require.NoError(t, c.RecordEvent(1, ev))

	var typ, roles string
	row := c.db.QueryRow(`SELECT type, roles FROM events WHERE run_id = ? AND event_id = 1`, "run-1")
	require.NoError(t, row.Scan(&typ, &roles))
	assert.Equal(t, "chat", typ)
	assert.JSONEq(t, `{"a":3,"b":9}`, roles)
}

func TestBeginRunRejectsDuplicateID(t *testing.T) {
	c := openTestCollector(t)
	assert.Error(t, c.BeginRun("run-1", 7, "0001-01-01"))
}
