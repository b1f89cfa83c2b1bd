package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Content    ContentConfig    `toml:"content"`
	Collect    CollectConfig    `toml:"collect"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	Seed        int64 `toml:"seed"`
	Ticks       int   `toml:"ticks"`
	DaysPerTick int   `toml:"days_per_tick"`
	StartYear   int   `toml:"start_year"`
	StartMonth  int   `toml:"start_month"`
	StartDay    int   `toml:"start_day"`

	// Regex name filters selecting the active social rules. Empty keeps
	// the default match-everything pattern.
	ActiveRulePatterns []string `toml:"active_rule_patterns"`
}

type ContentConfig struct {
	DataDir    string `toml:"data_dir"`    // YAML prefabs, schemas, rules, events
	ScriptsDir string `toml:"scripts_dir"` // Lua hooks; empty disables scripting
}

type CollectConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // sqlite file, ":memory:" for ephemeral
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Seed:        1,
			Ticks:       336,
			DaysPerTick: 1,
			StartYear:   1,
			StartMonth:  1,
			StartDay:    1,
		},
		Collect: CollectConfig{
			Path: "loom.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) Validate() error {
	s := c.Simulation
	if s.Ticks < 0 {
		return fmt.Errorf("simulation.ticks must be >= 0, got %d", s.Ticks)
	}
	if s.DaysPerTick < 1 {
		return fmt.Errorf("simulation.days_per_tick must be >= 1, got %d", s.DaysPerTick)
	}
	if s.StartYear < 1 || s.StartMonth < 1 || s.StartMonth > 12 || s.StartDay < 1 || s.StartDay > 28 {
		return fmt.Errorf("invalid simulation start date %04d-%02d-%02d", s.StartYear, s.StartMonth, s.StartDay)
	}
	if c.Collect.Enabled && c.Collect.Path == "" {
		return fmt.Errorf("collect.path required when collection is enabled")
	}
	return nil
}
