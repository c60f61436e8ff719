/*
Package factory converts stored recurrence fields into engine rules.

PURPOSE:
  Parts and audit tasks persist their recurrence as loose columns: a
  schedule type string plus whichever of interval count, unit, weekday,
  and day-of-month that type needs. The factory turns those columns (or
  their JSON form, for the admin API) into the closed engine.Rule union,
  so every conversion and default lives in one place.

SCHEDULE TYPES:
  - "interval":     interval_count + interval_unit (day|week|month|year)
  - "weekly":       weekday 0..6 (Sunday = 0)
  - "monthly":      day_of_month 1..31
  - "custom_days":  interval_count, always in days

JSON SCHEMA:
  {
    "schedule_type": "interval",
    "interval_count": 90,
    "interval_unit": "day"
  }

USAGE:
  rule, err := factory.RuleFromRecord(factory.RuleRecord{
      ScheduleType:  "weekly",
      Weekday:       2,
  })

SEE ALSO:
  - engine/rule.go: The rule union and its validation
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/warp/upkeep-engine/engine"
)

// =============================================================================
// RECORD SCHEMA
// =============================================================================

// Schedule type strings as persisted.
const (
	TypeInterval   = "interval"
	TypeWeekly     = "weekly"
	TypeMonthly    = "monthly"
	TypeCustomDays = "custom_days"
)

// RuleRecord is the loose persisted form of a recurrence rule. Only the
// fields the schedule type needs are meaningful; the rest are ignored.
type RuleRecord struct {
	ScheduleType  string `json:"schedule_type"`
	IntervalCount int    `json:"interval_count,omitempty"`
	IntervalUnit  string `json:"interval_unit,omitempty"`
	Weekday       int    `json:"weekday,omitempty"`
	DayOfMonth    int    `json:"day_of_month,omitempty"`
}

// =============================================================================
// CONVERSION
// =============================================================================

// RuleFromRecord converts persisted fields into an engine rule. The
// result is validated, so a malformed record surfaces as an
// engine.InvalidRuleError rather than bad arithmetic later.
func RuleFromRecord(record RuleRecord) (engine.Rule, error) {
	var rule engine.Rule

	switch record.ScheduleType {
	case TypeInterval:
		unit, err := unitFromString(record.IntervalUnit)
		if err != nil {
			return engine.Rule{}, err
		}
		rule = engine.FixedInterval(record.IntervalCount, unit)

	case TypeWeekly:
		rule = engine.WeeklyOnWeekday(time.Weekday(record.Weekday))

	case TypeMonthly:
		rule = engine.MonthlyOnDay(record.DayOfMonth)

	case TypeCustomDays:
		rule = engine.CustomDays(record.IntervalCount)

	default:
		return engine.Rule{}, &engine.InvalidRuleError{
			Field:  "schedule_type",
			Reason: fmt.Sprintf("unknown schedule type %q", record.ScheduleType),
		}
	}

	if err := rule.Validate(); err != nil {
		return engine.Rule{}, err
	}
	return rule, nil
}

// ParseRule converts the JSON form used by the admin API.
func ParseRule(jsonStr string) (engine.Rule, error) {
	var record RuleRecord
	if err := json.Unmarshal([]byte(jsonStr), &record); err != nil {
		return engine.Rule{}, &engine.InvalidRuleError{
			Field:  "schedule_type",
			Reason: fmt.Sprintf("invalid rule JSON: %v", err),
		}
	}
	return RuleFromRecord(record)
}

// RecordFromRule is the inverse: the loose column values for a rule,
// used when writing a part or task back to the store.
func RecordFromRule(rule engine.Rule) RuleRecord {
	switch rule.Kind {
	case engine.KindWeeklyOnWeekday:
		return RuleRecord{ScheduleType: TypeWeekly, Weekday: int(rule.Weekday)}
	case engine.KindMonthlyOnDay:
		return RuleRecord{ScheduleType: TypeMonthly, DayOfMonth: rule.DayOfMonth}
	case engine.KindCustomDays:
		return RuleRecord{ScheduleType: TypeCustomDays, IntervalCount: rule.Every}
	default:
		return RuleRecord{
			ScheduleType:  TypeInterval,
			IntervalCount: rule.Amount,
			IntervalUnit:  string(rule.Unit),
		}
	}
}

func unitFromString(raw string) (engine.Unit, error) {
	switch engine.Unit(raw) {
	case engine.UnitDay, engine.UnitWeek, engine.UnitMonth, engine.UnitYear:
		return engine.Unit(raw), nil
	default:
		return "", &engine.InvalidRuleError{
			Field:  "interval_unit",
			Reason: fmt.Sprintf("unknown unit %q", raw),
		}
	}
}
