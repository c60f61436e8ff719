package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/upkeep-engine/engine"
	"github.com/warp/upkeep-engine/factory"
)

func TestRuleFromRecord_AllScheduleTypes(t *testing.T) {
	cases := []struct {
		name   string
		record factory.RuleRecord
		want   engine.Rule
	}{
		{
			"interval in days",
			factory.RuleRecord{ScheduleType: factory.TypeInterval, IntervalCount: 90, IntervalUnit: "day"},
			engine.FixedInterval(90, engine.UnitDay),
		},
		{
			"interval in months",
			factory.RuleRecord{ScheduleType: factory.TypeInterval, IntervalCount: 6, IntervalUnit: "month"},
			engine.FixedInterval(6, engine.UnitMonth),
		},
		{
			"weekly on Tuesday",
			factory.RuleRecord{ScheduleType: factory.TypeWeekly, Weekday: 2},
			engine.WeeklyOnWeekday(time.Tuesday),
		},
		{
			"monthly on the 31st",
			factory.RuleRecord{ScheduleType: factory.TypeMonthly, DayOfMonth: 31},
			engine.MonthlyOnDay(31),
		},
		{
			"custom days",
			factory.RuleRecord{ScheduleType: factory.TypeCustomDays, IntervalCount: 14},
			engine.CustomDays(14),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := factory.RuleFromRecord(tc.record)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rule)
		})
	}
}

func TestRuleFromRecord_RejectsMalformedRecords(t *testing.T) {
	cases := []struct {
		name   string
		record factory.RuleRecord
	}{
		{"unknown type", factory.RuleRecord{ScheduleType: "fortnightly"}},
		{"unknown unit", factory.RuleRecord{ScheduleType: factory.TypeInterval, IntervalCount: 1, IntervalUnit: "decade"}},
		{"zero interval", factory.RuleRecord{ScheduleType: factory.TypeInterval, IntervalUnit: "day"}},
		{"day of month zero", factory.RuleRecord{ScheduleType: factory.TypeMonthly}},
		{"weekday out of range", factory.RuleRecord{ScheduleType: factory.TypeWeekly, Weekday: 9}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := factory.RuleFromRecord(tc.record)
			assert.ErrorIs(t, err, engine.ErrInvalidRule)
		})
	}
}

func TestParseRule_JSONForm(t *testing.T) {
	rule, err := factory.ParseRule(`{"schedule_type":"monthly","day_of_month":15}`)
	require.NoError(t, err)
	assert.Equal(t, engine.MonthlyOnDay(15), rule)

	_, err = factory.ParseRule(`{"schedule_type":`)
	assert.ErrorIs(t, err, engine.ErrInvalidRule)
}

func TestRecordFromRule_RoundTrips(t *testing.T) {
	rules := []engine.Rule{
		engine.FixedInterval(90, engine.UnitDay),
		engine.WeeklyOnWeekday(time.Friday),
		engine.MonthlyOnDay(1),
		engine.CustomDays(10),
	}

	for _, rule := range rules {
		back, err := factory.RuleFromRecord(factory.RecordFromRule(rule))
		require.NoError(t, err)
		assert.Equal(t, rule, back)
	}
}
