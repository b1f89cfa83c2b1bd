package stat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshStatIsNeutral(t *testing.T) {
	s := New(-5, 5, false)
	assert.Equal(t, 0, s.Raw())
	assert.Equal(t, 0, s.Scaled())
	assert.Equal(t, 0.5, s.Normalized(), "no recorded changes means exactly 0.5")
}

func TestAccumulation(t *testing.T) {
	// min=-5, max=5; +1 three times, -1 once.
	s := New(-5, 5, false)
	s.Adjust(1)
	s.Adjust(1)
	s.Adjust(1)
	s.Adjust(-1)

	assert.Equal(t, 2, s.Raw())
	assert.Equal(t, 2, s.Scaled())
	assert.Equal(t, 0.75, s.Normalized())
}

func TestNegativeDeltaRaisesDecrementTally(t *testing.T) {
	s := New(0, 100, false)
	s.Adjust(5)
	s.Adjust(-2)

	assert.Equal(t, 5, s.Base().Increments())
	assert.Equal(t, 2, s.Base().Decrements())
	assert.Equal(t, 3, s.Raw())
	assert.InDelta(t, 5.0/7.0, s.Normalized(), 1e-12)
}

func TestScaledAlwaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		min := rng.Intn(21) - 10
		max := min + rng.Intn(20)
		s := New(min, max, false)
		for i := 0; i < 200; i++ {
			s.Adjust(rng.Intn(11) - 5)
			v := s.Scaled()
			require.GreaterOrEqual(t, v, min)
			require.LessOrEqual(t, v, max)
		}
	}
}

func TestClampingAtBounds(t *testing.T) {
	s := New(-5, 5, false)
	s.Adjust(40)
	assert.Equal(t, 40, s.Raw(), "raw is unclamped")
	assert.Equal(t, 5, s.Scaled())

	s.Adjust(-100)
	assert.Equal(t, -60, s.Raw())
	assert.Equal(t, -5, s.Scaled())
}

func TestModifierCountersAreSeparateFromBase(t *testing.T) {
	s := New(-5, 5, false)
	s.Adjust(2)
	s.ApplyModifier(3)

	assert.Equal(t, 5, s.Raw())
	assert.Equal(t, 2, s.Base().Increments())
	assert.Equal(t, 3, s.Modifier().Increments())

	s.RemoveModifier(3)
	assert.Equal(t, 2, s.Raw(), "removal reverses exactly the applied delta")
	assert.Equal(t, 0, s.Modifier().Increments())
}

func TestRecomputeIsLazy(t *testing.T) {
	s := New(-5, 5, false)
	s.Adjust(1)
	assert.True(t, s.dirty)

	_ = s.Raw()
	assert.False(t, s.dirty, "first read after a mutation recomputes")

	_ = s.Scaled()
	_ = s.Normalized()
	assert.False(t, s.dirty, "further reads reuse the cache")
}

func TestUnpairedRemovalPanics(t *testing.T) {
	s := New(-5, 5, false)
	s.ApplyModifier(2)
	s.RemoveModifier(2)
	assert.Panics(t, func() { s.RemoveModifier(2) })
}

func TestNegativeCounterConstructionPanics(t *testing.T) {
	assert.Panics(t, func() { NewCounter(-1, 0) })
	assert.Panics(t, func() { NewCounter(0, -1) })
	assert.Panics(t, func() { New(5, -5, false) })
}
