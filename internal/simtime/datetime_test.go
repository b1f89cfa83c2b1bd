package simtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdinalRoundTrip(t *testing.T) {
	// Every ordinal across ten full years survives the round trip.
	for n := 0; n < 10*DaysPerYear; n++ {
		d := FromOrdinal(n)
		assert.Equal(t, n, d.ToOrdinal())
		rebuilt := New(d.Year(), d.Month(), d.Day())
		require.True(t, d.Equal(rebuilt), "ordinal %d rebuilt as %s", n, rebuilt)
	}
}

func TestCalendarFields(t *testing.T) {
	d := New(1, 1, 1)
	assert.Equal(t, 0, d.ToOrdinal())
	assert.Equal(t, Sunday, d.Weekday())

	d = New(2, 3, 15)
	assert.Equal(t, 2, d.Year())
	assert.Equal(t, 3, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, DaysPerYear+2*DaysPerMonth+14, d.ToOrdinal())
	assert.Equal(t, "0002-03-15", d.String())
}

func TestAddDelta(t *testing.T) {
	d := New(1, 1, 1)
	got := d.Add(TimeDelta{Years: 2, Months: 3, Days: 4})
	assert.Equal(t, New(3, 4, 5), got)

	// Month rollover: 28-day months, no irregular lengths.
	assert.Equal(t, New(1, 2, 1), New(1, 1, 28).AddDays(1))
	assert.Equal(t, New(2, 1, 1), New(1, 12, 28).AddDays(1))
}

func TestSubAndOrdering(t *testing.T) {
	a := New(1, 1, 1)
	b := New(1, 2, 1)
	assert.Equal(t, DaysPerMonth, b.Sub(a))
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
}

func TestInvalidDatePanics(t *testing.T) {
	assert.Panics(t, func() { New(0, 1, 1) })
	assert.Panics(t, func() { New(1, 13, 1) })
	assert.Panics(t, func() { New(1, 1, 29) })
	assert.Panics(t, func() { FromOrdinal(-1) })
}

func TestClockAdvances(t *testing.T) {
	c := NewClock(New(1, 1, 1), 1)
	c.Advance()
	c.Advance()
	assert.Equal(t, New(1, 1, 3), c.Now())
}
