package component

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompatibilityIdenticalVectors(t *testing.T) {
	a := &Virtues{Values: [VirtueCount]float64{10, -20, 30, 5, 0, 15, -10, 40}}
	b := &Virtues{Values: a.Values}

	// cos = 1, distance = 0, so the average is exactly 1.
	assert.InDelta(t, 1.0, Compatibility(a, b), 1e-12)
}

func TestCompatibilityOppositeExtremes(t *testing.T) {
	var a, b Virtues
	for i := 0; i < VirtueCount; i++ {
		a.Values[i] = VirtueMax
		b.Values[i] = VirtueMin
	}

	// cos = -1 and distance = maxVirtueDistance, so the average is -0.5.
	assert.InDelta(t, -0.5, Compatibility(&a, &b), 1e-12)
}

func TestCompatibilityZeroVectorDropsCosineTerm(t *testing.T) {
	var zero Virtues
	b := &Virtues{Values: [VirtueCount]float64{10, 10, 10, 10, 10, 10, 10, 10}}

	got := Compatibility(&zero, b)
	want := (0.0 + (1 - euclid(&zero, b)/maxVirtueDistance)) / 2
	assert.InDelta(t, want, got, 1e-12)
}

func TestCompatibilityIsSymmetric(t *testing.T) {
	a := &Virtues{Values: [VirtueCount]float64{1, 2, 3, 4, 5, 6, 7, 8}}
	b := &Virtues{Values: [VirtueCount]float64{-8, 7, -6, 5, -4, 3, -2, 1}}
	assert.Equal(t, Compatibility(a, b), Compatibility(b, a))
}

func TestVirtuesValidateRange(t *testing.T) {
	v := &Virtues{}
	assert.NoError(t, v.Validate())

	v.Values[VirtueHonor] = VirtueMax + 1
	err := v.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "honor")
}

func TestStageForAge(t *testing.T) {
	assert.Equal(t, Child, StageForAge(0))
	assert.Equal(t, Child, StageForAge(12.9))
	assert.Equal(t, Adolescent, StageForAge(13))
	assert.Equal(t, YoungAdult, StageForAge(18))
	assert.Equal(t, Adult, StageForAge(30))
	assert.Equal(t, Senior, StageForAge(65))
	assert.Equal(t, Senior, StageForAge(100))
}

func euclid(a, b *Virtues) float64 {
	var distSq float64
	for i := 0; i < VirtueCount; i++ {
		d := a.Values[i] - b.Values[i]
		distSq += d * d
	}
	return math.Sqrt(distSq)
}
