// Package collect is the opt-in analytics sink: per-tick population metrics
// and the committed event stream, written to an embedded sqlite database
// for offline analysis. It is not a save format; a simulation never reads
// anything back.
package collect

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/storyloom/loom/internal/life"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	seed       INTEGER NOT NULL,
	start_date TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tick_metrics (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	tick          INTEGER NOT NULL,
	date          TEXT NOT NULL,
	characters    INTEGER NOT NULL,
	settlements   INTEGER NOT NULL,
	relationships INTEGER NOT NULL,
	events        INTEGER NOT NULL,
	PRIMARY KEY (run_id, tick)
);
CREATE TABLE IF NOT EXISTS events (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	event_id INTEGER NOT NULL,
	tick     INTEGER NOT NULL,
	type     TEXT NOT NULL,
	date     TEXT NOT NULL,
	roles    TEXT NOT NULL,
	PRIMARY KEY (run_id, event_id)
);
`

// TickMetrics is one row of per-tick aggregates.
type TickMetrics struct {
	Characters    int
	Settlements   int
	Relationships int
	Events        int
}

// Collector owns the sqlite handle for one simulation run.
type Collector struct {
	db    *sql.DB
	log   *zap.Logger
	runID string
}

// Open creates or opens the database at path (":memory:" for ephemeral)
// and ensures the schema exists.
func Open(path string, log *zap.Logger) (*Collector, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open collect db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init collect schema: %w", err)
	}
	return &Collector{db: db, log: log}, nil
}

// BeginRun registers the run every subsequent row hangs off.
func (c *Collector) BeginRun(runID string, seed int64, startDate string) error {
	if _, err := c.db.Exec(
		`INSERT INTO runs (id, seed, start_date) VALUES (?, ?, ?)`,
		runID, seed, startDate,
	); err != nil {
		return fmt.Errorf("begin run %s: %w", runID, err)
	}
	c.runID = runID
	c.log.Info("data collection started", zap.String("run", runID), zap.String("path", "sqlite"))
	return nil
}

// RecordTick writes one metrics row for the finished tick.
func (c *Collector) RecordTick(tick uint64, date string, m TickMetrics) error {
	_, err := c.db.Exec(
		`INSERT INTO tick_metrics (run_id, tick, date, characters, settlements, relationships, events)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.runID, tick, date, m.Characters, m.Settlements, m.Relationships, m.Events,
	)
	if err != nil {
		return fmt.Errorf("record tick %d: %w", tick, err)
	}
	return nil
}

// RecordEvent writes one committed event with its role bindings as JSON.
func (c *Collector) RecordEvent(tick uint64, ev *life.Event) error {
	roles := make(map[string]uint64)
	for name, id := range ev.Roles() {
		roles[name] = uint64(id)
	}
	encoded, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("encode roles for %s: %w", ev, err)
	}
	if _, err := c.db.Exec(
		`INSERT INTO events (run_id, event_id, tick, type, date, roles) VALUES (?, ?, ?, ?, ?, ?)`,
		c.runID, ev.ID, tick, ev.Type, ev.Timestamp.String(), string(encoded),
	); err != nil {
		return fmt.Errorf("record event %s: %w", ev, err)
	}
	return nil
}

func (c *Collector) Close() error {
	return c.db.Close()
}
