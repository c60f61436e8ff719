/*
date.go - Calendar date abstraction for the maintenance engine

PURPOSE:
  Every computation in this engine is over calendar dates, not instants.
  Date wraps time.Time normalized to midnight UTC so that comparisons and
  day arithmetic never depend on wall-clock time or timezones. Callers
  supply "now" explicitly on every invocation; the engine never reads the
  system clock.

MONTH/YEAR ARITHMETIC:
  AddMonths and AddYears clamp the day-of-month to the last valid day of
  the target month (Jan 31 + 1 month = Feb 28, or Feb 29 in a leap year).
  time.Time.AddDate normalizes instead (Jan 31 + 1 month = Mar 3), which
  is never what a maintenance cadence means.

SEE ALSO:
  - rule.go: Recurrence arithmetic built on these primitives
  - calendar.go: Month grid construction
*/
package engine

import "time"

// =============================================================================
// DATE - Day-granularity point on the calendar
// =============================================================================

// Date is a calendar date with no time-of-day component.
// The zero value is the zero date (IsZero reports true).
type Date struct {
	Time time.Time
}

// NewDate constructs a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses the ISO form "2006-01-02", the format Date.String
// emits and the stores persist.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.normalize().AddDate(0, 0, n)}
}

// AddMonths returns the date n calendar months later, clamping the
// day-of-month to the last valid day of the target month.
func (d Date) AddMonths(n int) Date {
	year, month, day := d.Year(), d.Month(), d.Day()

	// Normalize target month into [January, December] with year carry.
	total := int(month) - 1 + n
	targetYear := year + total/12
	targetMonth := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero; fix up negative months.
		targetYear = year + (total-11)/12
		targetMonth = time.Month((total%12+12)%12 + 1)
	}

	if max := DaysInMonth(targetYear, targetMonth); day > max {
		day = max
	}
	return NewDate(targetYear, targetMonth, day)
}

// AddYears returns the date n calendar years later, clamping Feb 29 to
// Feb 28 in non-leap target years.
func (d Date) AddYears(n int) Date {
	return d.AddMonths(n * 12)
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

// DaysBetween returns the signed number of days from `from` to `to`.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// DaysInMonth returns the number of days in a month, leap-year aware.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }

func EndOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, DaysInMonth(year, month))
}
