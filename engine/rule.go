/*
rule.go - Recurrence rules and next-occurrence arithmetic

PURPOSE:
  A Rule describes how often a maintainable item recurs. The engine supports
  a fixed, small vocabulary of recurrence shapes - this is deliberately NOT
  a cron parser:

    FixedInterval   every N days/weeks/months/years from the last occurrence
    WeeklyOnWeekday every occurrence of a named weekday on/after a reference
    MonthlyOnDay    a specific day-of-month, clamped to short months
    CustomDays      every N days from the last occurrence

CLOSED UNION:
  The original system stored recurrence as a loose (count, unit string) pair
  with ad hoc conversions scattered across views. Here the shapes form a
  closed tagged union with one arithmetic function per variant, so a switch
  over Kind is exhaustive and a malformed rule fails fast at the boundary.

REFERENCE VS LAST OCCURRENCE:
  FixedInterval and CustomDays compute from the last occurrence and ignore
  the reference date. WeeklyOnWeekday and MonthlyOnDay anchor on the
  reference date (the rendering "now"), because they describe positions on
  the calendar rather than elapsed time.

SEE ALSO:
  - date.go: Clamping month/year arithmetic
  - factory/rule.go: Conversion from persisted columns to Rule
*/
package engine

import "time"

// =============================================================================
// RULE - Closed union of recurrence shapes
// =============================================================================

// Unit is the calendar unit of a fixed-interval rule.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

// RuleKind tags the active variant of a Rule.
type RuleKind string

const (
	KindFixedInterval   RuleKind = "fixed_interval"
	KindWeeklyOnWeekday RuleKind = "weekly_on_weekday"
	KindMonthlyOnDay    RuleKind = "monthly_on_day"
	KindCustomDays      RuleKind = "custom_days"
)

// Rule is a tagged union; only the fields of the active Kind are meaningful.
type Rule struct {
	Kind RuleKind

	// FixedInterval
	Amount int
	Unit   Unit

	// WeeklyOnWeekday
	Weekday time.Weekday

	// MonthlyOnDay
	DayOfMonth int

	// CustomDays
	Every int
}

// Constructors

func FixedInterval(amount int, unit Unit) Rule {
	return Rule{Kind: KindFixedInterval, Amount: amount, Unit: unit}
}

func WeeklyOnWeekday(weekday time.Weekday) Rule {
	return Rule{Kind: KindWeeklyOnWeekday, Weekday: weekday}
}

func MonthlyOnDay(dayOfMonth int) Rule {
	return Rule{Kind: KindMonthlyOnDay, DayOfMonth: dayOfMonth}
}

func CustomDays(every int) Rule {
	return Rule{Kind: KindCustomDays, Every: every}
}

// Validate checks rule parameters before any date arithmetic.
func (r Rule) Validate() error {
	switch r.Kind {
	case KindFixedInterval:
		if r.Amount <= 0 {
			return &InvalidRuleError{Field: "amount", Reason: "must be positive"}
		}
		switch r.Unit {
		case UnitDay, UnitWeek, UnitMonth, UnitYear:
			return nil
		default:
			return &InvalidRuleError{Field: "unit", Reason: "must be day, week, month, or year"}
		}
	case KindWeeklyOnWeekday:
		if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
			return &InvalidRuleError{Field: "weekday", Reason: "must be in [0,6]"}
		}
		return nil
	case KindMonthlyOnDay:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return &InvalidRuleError{Field: "day_of_month", Reason: "must be in [1,31]"}
		}
		return nil
	case KindCustomDays:
		if r.Every <= 0 {
			return &InvalidRuleError{Field: "interval_days", Reason: "must be positive"}
		}
		return nil
	default:
		return &InvalidRuleError{Field: "kind", Reason: "unknown rule kind"}
	}
}

// =============================================================================
// NEXT OCCURRENCE
// =============================================================================

// NextOccurrence computes the rule's next occurrence date.
//
// For FixedInterval and CustomDays the result is strictly after `last` and
// independent of `reference`. For WeeklyOnWeekday and MonthlyOnDay the
// result is on/after `reference` and independent of `last`.
func (r Rule) NextOccurrence(last, reference Date) (Date, error) {
	if err := r.Validate(); err != nil {
		return Date{}, err
	}

	switch r.Kind {
	case KindFixedInterval:
		switch r.Unit {
		case UnitDay:
			return last.AddDays(r.Amount), nil
		case UnitWeek:
			return last.AddDays(7 * r.Amount), nil
		case UnitMonth:
			return last.AddMonths(r.Amount), nil
		default: // UnitYear, per Validate
			return last.AddYears(r.Amount), nil
		}

	case KindWeeklyOnWeekday:
		offset := (int(r.Weekday) - int(reference.Weekday()) + 7) % 7
		return reference.AddDays(offset), nil

	case KindMonthlyOnDay:
		day := clampDay(r.DayOfMonth, reference.Year(), reference.Month())
		if reference.Day() <= day {
			return NewDate(reference.Year(), reference.Month(), day), nil
		}
		next := StartOfMonth(reference.Year(), reference.Month()).AddMonths(1)
		day = clampDay(r.DayOfMonth, next.Year(), next.Month())
		return NewDate(next.Year(), next.Month(), day), nil

	default: // KindCustomDays, per Validate
		return last.AddDays(r.Every), nil
	}
}

// OccurrencesWithin expands a rule into every occurrence in [from, to].
// Used by calendar annotation, where a month view needs all positions of a
// rule rather than the single next due date. `last` anchors the elapsed-time
// variants and is ignored by the calendar-position ones.
func (r Rule) OccurrencesWithin(last, from, to Date) ([]Date, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, &InvalidDateRangeError{Reason: "end before start"}
	}

	var out []Date
	switch r.Kind {
	case KindWeeklyOnWeekday:
		first, _ := r.NextOccurrence(last, from)
		for cur := first; cur.BeforeOrEqual(to); cur = cur.AddDays(7) {
			out = append(out, cur)
		}

	case KindMonthlyOnDay:
		cur, _ := r.NextOccurrence(last, from)
		for cur.BeforeOrEqual(to) {
			out = append(out, cur)
			cur, _ = r.NextOccurrence(last, cur.AddDays(1))
		}

	default: // FixedInterval, CustomDays: walk forward from the anchor
		cur := last
		for {
			next, err := r.NextOccurrence(cur, from)
			if err != nil {
				return nil, err
			}
			if next.After(to) {
				break
			}
			if next.AfterOrEqual(from) {
				out = append(out, next)
			}
			cur = next
		}
	}
	return out, nil
}

func clampDay(day, year int, month time.Month) int {
	if max := DaysInMonth(year, month); day > max {
		return max
	}
	return day
}
