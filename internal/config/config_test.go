package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loom.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
seed = 42
ticks = 10
start_year = 3
active_rule_patterns = ["^family/"]

[logging]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, 10, cfg.Simulation.Ticks)
	assert.Equal(t, 3, cfg.Simulation.StartYear)
	assert.Equal(t, []string{"^family/"}, cfg.Simulation.ActiveRulePatterns)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 1, cfg.Simulation.DaysPerTick)
	assert.Equal(t, 1, cfg.Simulation.StartMonth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Simulation.StartMonth = 13
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Simulation.DaysPerTick = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Collect.Enabled = true
	cfg.Collect.Path = ""
	assert.Error(t, cfg.Validate())
}
