package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSystem struct {
	name     string
	phase    Phase
	priority int
	trace    *[]string
	err      error
}

func (s *recordingSystem) Phase() Phase  { return s.phase }
func (s *recordingSystem) Priority() int { return s.priority }

func (s *recordingSystem) Update() error {
	*s.trace = append(*s.trace, s.name)
	return s.err
}

func TestRunnerOrdersByPhaseThenPriority(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "cleanup", phase: PhaseCleanup, trace: &trace})
	r.Register(&recordingSystem{name: "update-low", phase: PhaseUpdate, priority: 0, trace: &trace})
	r.Register(&recordingSystem{name: "time", phase: PhaseTime, trace: &trace})
	r.Register(&recordingSystem{name: "update-high", phase: PhaseUpdate, priority: 10, trace: &trace})

	require.NoError(t, r.Tick())
	assert.Equal(t, []string{"time", "update-high", "update-low", "cleanup"}, trace)
}

func TestRunnerOrderIsStableAcrossTicks(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "a", phase: PhaseUpdate, trace: &trace})
	r.Register(&recordingSystem{name: "b", phase: PhaseUpdate, trace: &trace})

	require.NoError(t, r.Tick())
	require.NoError(t, r.Tick())
	assert.Equal(t, []string{"a", "b", "a", "b"}, trace, "ties keep registration order")
}

func TestRunnerStopsOnFirstError(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	r := NewRunner()
	r.Register(&recordingSystem{name: "first", phase: PhaseTime, trace: &trace})
	r.Register(&recordingSystem{name: "broken", phase: PhaseUpdate, trace: &trace, err: boom})
	r.Register(&recordingSystem{name: "never", phase: PhaseCleanup, trace: &trace})

	err := r.Tick()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "broken"}, trace)
}

func TestTickPhaseRunsOnlyThatPhase(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "time", phase: PhaseTime, trace: &trace})
	r.Register(&recordingSystem{name: "update", phase: PhaseUpdate, trace: &trace})

	require.NoError(t, r.TickPhase(PhaseUpdate))
	assert.Equal(t, []string{"update"}, trace)
}
