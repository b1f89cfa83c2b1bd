// Package simtime implements the simplified simulation calendar: 12 months
// of exactly 4 weeks (28 days) each, 336 days per year. A DateTime is an
// immutable point represented as a day count since the epoch, year 1
// month 1 day 1.
package simtime

import "fmt"

const (
	DaysPerWeek   = 7
	WeeksPerMonth = 4
	DaysPerMonth  = DaysPerWeek * WeeksPerMonth // 28
	MonthsPerYear = 12
	DaysPerYear   = DaysPerMonth * MonthsPerYear // 336
)

// Weekday is a day of the simulation week, Sunday = 0.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func (d Weekday) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// DateTime is an immutable calendar point. The zero value is the epoch.
type DateTime struct {
	ordinal int
}

// New builds a DateTime from 1-based year, month (1-12), and day (1-28).
// Out-of-range fields panic: dates are constructed from validated config or
// arithmetic, never from untrusted input.
func New(year, month, day int) DateTime {
	if year < 1 || month < 1 || month > MonthsPerYear || day < 1 || day > DaysPerMonth {
		panic(fmt.Sprintf("simtime: invalid date %04d-%02d-%02d", year, month, day))
	}
	return DateTime{ordinal: (year-1)*DaysPerYear + (month-1)*DaysPerMonth + (day - 1)}
}

// FromOrdinal reconstructs a DateTime from a day count since the epoch.
func FromOrdinal(n int) DateTime {
	if n < 0 {
		panic(fmt.Sprintf("simtime: negative ordinal %d", n))
	}
	return DateTime{ordinal: n}
}

func (d DateTime) ToOrdinal() int { return d.ordinal }

func (d DateTime) Year() int  { return d.ordinal/DaysPerYear + 1 }
func (d DateTime) Month() int { return d.ordinal%DaysPerYear/DaysPerMonth + 1 }
func (d DateTime) Day() int   { return d.ordinal%DaysPerMonth + 1 }

func (d DateTime) Weekday() Weekday {
	return Weekday(d.ordinal % DaysPerWeek)
}

func (d DateTime) Before(o DateTime) bool { return d.ordinal < o.ordinal }
func (d DateTime) After(o DateTime) bool  { return d.ordinal > o.ordinal }
func (d DateTime) Equal(o DateTime) bool  { return d.ordinal == o.ordinal }

// Add returns the DateTime shifted by the delta. Negative results panic via
// FromOrdinal.
func (d DateTime) Add(delta TimeDelta) DateTime {
	return FromOrdinal(d.ordinal + delta.TotalDays())
}

// AddDays is Add for the common single-unit case.
func (d DateTime) AddDays(days int) DateTime {
	return FromOrdinal(d.ordinal + days)
}

// Sub returns the number of days from o to d.
func (d DateTime) Sub(o DateTime) int { return d.ordinal - o.ordinal }

func (d DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.Month(), d.Day())
}

// TimeDelta is a span of calendar time. The fixed calendar makes the
// conversion to days exact: no month-length or leap arithmetic exists.
type TimeDelta struct {
	Years  int
	Months int
	Days   int
}

func (t TimeDelta) TotalDays() int {
	return t.Years*DaysPerYear + t.Months*DaysPerMonth + t.Days
}
