package simtime

// Clock is the shared simulation time resource. One tick advances it by a
// fixed number of days; systems read Now and never mutate it directly.
type Clock struct {
	now         DateTime
	daysPerTick int
}

func NewClock(start DateTime, daysPerTick int) *Clock {
	if daysPerTick < 1 {
		daysPerTick = 1
	}
	return &Clock{now: start, daysPerTick: daysPerTick}
}

func (c *Clock) Now() DateTime    { return c.now }
func (c *Clock) DaysPerTick() int { return c.daysPerTick }

// Advance moves the clock forward one tick.
func (c *Clock) Advance() {
	c.now = c.now.AddDays(c.daysPerTick)
}

func (c *Clock) Snapshot() map[string]any {
	return map[string]any{
		"date":          c.now.String(),
		"ordinal":       c.now.ToOrdinal(),
		"days_per_tick": c.daysPerTick,
	}
}
