// Package sim assembles a full simulation: world, resources, content,
// scripting, systems and the tick loop.
package sim

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storyloom/loom/internal/collect"
	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/config"
	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/core/resource"
	coresys "github.com/storyloom/loom/internal/core/system"
	"github.com/storyloom/loom/internal/data"
	"github.com/storyloom/loom/internal/export"
	"github.com/storyloom/loom/internal/life"
	"github.com/storyloom/loom/internal/relationship"
	"github.com/storyloom/loom/internal/scripting"
	"github.com/storyloom/loom/internal/simtime"
	"github.com/storyloom/loom/internal/system"
)

// Content file names looked up under content.data_dir. Missing files are
// skipped, not errors, so a content pack can supply any subset.
const (
	schemaFile = "stat_schema.yaml"
	prefabFile = "prefabs.yaml"
	ruleFile   = "rules.yaml"
	eventFile  = "events.yaml"
)

// Simulation owns one world and everything driving it.
type Simulation struct {
	cfg *config.Config
	log *zap.Logger

	world     *ecs.World
	registry  *ecs.Registry
	resources *resource.Store
	runner    *coresys.Runner

	rng     *rand.Rand
	clock   *simtime.Clock
	schema  *relationship.Schema
	book    *relationship.RuleBook
	library *life.Library
	history *life.History

	engine    *scripting.Engine
	collector *collect.Collector
	prefabs   *data.PrefabTable

	runID string
	tick  uint64
}

// New builds a simulation from the config: loads content and scripts,
// registers the default systems and opens the collector when enabled.
func New(cfg *config.Config, log *zap.Logger) (*Simulation, error) {
	s := &Simulation{
		cfg:       cfg,
		log:       log,
		world:     ecs.NewWorld(),
		registry:  ecs.NewRegistry(),
		resources: resource.NewStore(log),
		runner:    coresys.NewRunner(),
		runID:     uuid.NewString(),
	}
	component.RegisterAll(s.registry)

	sc := cfg.Simulation
	s.rng = rand.New(rand.NewSource(sc.Seed))
	s.clock = simtime.NewClock(simtime.New(sc.StartYear, sc.StartMonth, sc.StartDay), sc.DaysPerTick)
	s.schema = &relationship.Schema{}
	s.book = relationship.NewRuleBook()
	s.library = life.NewLibrary()
	s.history = life.NewHistory()

	if dir := cfg.Content.ScriptsDir; dir != "" {
		engine, err := scripting.NewEngine(dir, log)
		if err != nil {
			return nil, fmt.Errorf("scripting: %w", err)
		}
		s.engine = engine
	}

	if err := s.loadContent(cfg.Content.DataDir); err != nil {
		s.closePartial()
		return nil, err
	}
	if s.engine != nil {
		s.engine.Bind(s.world, s.book, s.schema, s.clock)
	}

	if len(sc.ActiveRulePatterns) > 0 {
		if err := s.book.SetActivePatterns(sc.ActiveRulePatterns); err != nil {
			s.closePartial()
			return nil, err
		}
	}

	if cfg.Collect.Enabled {
		collector, err := collect.Open(cfg.Collect.Path, log)
		if err != nil {
			s.closePartial()
			return nil, fmt.Errorf("collector: %w", err)
		}
		startDate := s.clock.Now().String()
		if err := collector.BeginRun(s.runID, sc.Seed, startDate); err != nil {
			collector.Close()
			s.closePartial()
			return nil, fmt.Errorf("collector: %w", err)
		}
		s.collector = collector
	}

	for _, v := range []any{s.rng, s.clock, s.schema, s.book, s.library, s.history} {
		s.resources.Add(v)
	}

	s.runner.Register(system.NewTimeSystem(s.clock))
	s.runner.Register(system.NewSettlementCensusSystem(s.world))
	s.runner.Register(system.NewAgingSystem(s.world, s.clock, s.history))
	s.runner.Register(system.NewLifeEventSystem(s.world, s.library, s.history, s.clock, s.rng))
	if s.collector != nil {
		s.runner.Register(system.NewCollectSystem(s.world, s.history, s.clock, s.collector))
	}
	s.runner.Register(system.NewCleanupSystem(s.world, s.history))

	s.log.Info("simulation ready",
		zap.String("run_id", s.runID),
		zap.Int64("seed", sc.Seed),
		zap.String("start", s.clock.Now().String()),
		zap.Int("prefabs", s.prefabCount()),
		zap.Int("event_types", s.library.Len()),
		zap.Int("active_rules", len(s.book.Active())))
	return s, nil
}

func (s *Simulation) loadContent(dir string) error {
	if dir == "" {
		return nil
	}
	var hooks data.Hooks
	if s.engine != nil {
		hooks = s.engine
	}

	if path, ok := contentPath(dir, schemaFile); ok {
		schema, err := data.LoadSchema(path)
		if err != nil {
			return err
		}
		*s.schema = *schema
	}
	if path, ok := contentPath(dir, prefabFile); ok {
		prefabs, err := data.LoadPrefabTable(path, s.registry)
		if err != nil {
			return err
		}
		s.prefabs = prefabs
	}
	if path, ok := contentPath(dir, ruleFile); ok {
		if err := data.LoadRules(path, s.book, hooks); err != nil {
			return err
		}
	}
	if path, ok := contentPath(dir, eventFile); ok {
		if err := data.LoadEvents(path, s.library, s.registry, s.book, s.schema, hooks); err != nil {
			return err
		}
	}
	return nil
}

func contentPath(dir, name string) (string, bool) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func (s *Simulation) prefabCount() int {
	if s.prefabs == nil {
		return 0
	}
	return s.prefabs.Count()
}

// Step runs one tick: deferred deletions purge first, then every phase in
// order. Change tracking and the event tick buffer survive until the
// cleanup phase at the end of the same tick.
func (s *Simulation) Step() error {
	s.world.Purge()
	if err := s.runner.Tick(); err != nil {
		return fmt.Errorf("tick %d: %w", s.tick+1, err)
	}
	s.tick++
	return nil
}

// Run advances the simulation n ticks, stopping at the first error.
func (s *Simulation) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	s.log.Info("run complete",
		zap.Uint64("ticks", s.tick),
		zap.String("date", s.clock.Now().String()),
		zap.Int("events", len(s.history.All())))
	return nil
}

// SpawnPrefab instantiates a loaded prefab into the world.
func (s *Simulation) SpawnPrefab(name string) (ecs.EntityID, error) {
	if s.prefabs == nil {
		return 0, fmt.Errorf("no prefabs loaded")
	}
	return s.prefabs.Instantiate(s.world, name)
}

// Export writes a YAML snapshot of the current world state.
func (s *Simulation) Export(path string) error {
	extra := map[string]map[string]any{
		"clock": s.clock.Snapshot(),
		"history": {
			"events": len(s.history.All()),
		},
	}
	return export.WriteFile(path, s.world, s.registry, s.runID, s.clock.Now(), extra)
}

// Close releases the collector and the script VM. The simulation is not
// usable afterwards.
func (s *Simulation) Close() error {
	var first error
	if s.collector != nil {
		if err := s.collector.Close(); err != nil {
			first = err
		}
		s.collector = nil
	}
	s.closePartial()
	return first
}

func (s *Simulation) closePartial() {
	if s.engine != nil {
		s.engine.Close()
		s.engine = nil
	}
}

func (s *Simulation) RunID() string                    { return s.runID }
func (s *Simulation) Tick() uint64                     { return s.tick }
func (s *Simulation) World() *ecs.World                { return s.world }
func (s *Simulation) Registry() *ecs.Registry          { return s.registry }
func (s *Simulation) Resources() *resource.Store       { return s.resources }
func (s *Simulation) Clock() *simtime.Clock            { return s.clock }
func (s *Simulation) Schema() *relationship.Schema     { return s.schema }
func (s *Simulation) RuleBook() *relationship.RuleBook { return s.book }
func (s *Simulation) Library() *life.Library           { return s.library }
func (s *Simulation) History() *life.History           { return s.history }
func (s *Simulation) RNG() *rand.Rand                  { return s.rng }
