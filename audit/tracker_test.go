package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/upkeep-engine/audit"
	"github.com/warp/upkeep-engine/engine"
	"github.com/warp/upkeep-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestTracker() *audit.Tracker {
	return audit.NewTracker(memory.New())
}

func weeklyTuesdayTask() audit.Task {
	return audit.Task{
		ID:    "task-lube",
		Name:  "Lubrication round",
		Color: "#43a047",
		Rule:  engine.WeeklyOnWeekday(time.Tuesday),
	}
}

func date(y int, m time.Month, d int) engine.Date { return engine.NewDate(y, m, d) }

// =============================================================================
// ELIGIBILITY STATES
// =============================================================================

func TestEvaluate_NeverCompleted_Eligible(t *testing.T) {
	// GIVEN: No completion history for the task/machine pair
	// WHEN: Evaluating on any day
	// THEN: Eligible, next eligible today

	tracker := newTestTracker()
	today := date(2025, time.June, 10)

	elig, err := tracker.Evaluate(context.Background(), weeklyTuesdayTask(), "machine-1", today)
	require.NoError(t, err)
	assert.Equal(t, audit.StateEligible, elig.State)
	assert.True(t, elig.NextEligible.Equal(today))
}

func TestEvaluate_CompletedToday(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	today := date(2025, time.June, 10)
	task := weeklyTuesdayTask()

	_, err := tracker.Checkoff(ctx, task, "machine-1", today, "inspector-a", time.Now())
	require.NoError(t, err)

	elig, err := tracker.Evaluate(ctx, task, "machine-1", today)
	require.NoError(t, err)
	assert.Equal(t, audit.StateCompleted, elig.State)
	require.NotNil(t, elig.Record)
	assert.Equal(t, "inspector-a", elig.Record.CompletedBy)
}

func TestEvaluate_WeeklyCadence_EligibleNextWeek(t *testing.T) {
	// GIVEN: Weekly-Tuesday task last completed Tuesday 2025-06-03
	// WHEN: Evaluating on Tuesday 2025-06-10
	// THEN: Eligible again

	tracker := newTestTracker()
	ctx := context.Background()
	task := weeklyTuesdayTask()

	_, err := tracker.Checkoff(ctx, task, "machine-1", date(2025, time.June, 3), "inspector-a", time.Now())
	require.NoError(t, err)

	elig, err := tracker.Evaluate(ctx, task, "machine-1", date(2025, time.June, 10))
	require.NoError(t, err)
	assert.Equal(t, audit.StateEligible, elig.State)
}

func TestEvaluate_NotYetEligible_MidCycle(t *testing.T) {
	// GIVEN: Weekly-Tuesday task completed on Tuesday
	// WHEN: Evaluating two days later (Thursday)
	// THEN: NotYetEligible with next eligible the following Tuesday

	tracker := newTestTracker()
	ctx := context.Background()
	task := weeklyTuesdayTask()

	_, err := tracker.Checkoff(ctx, task, "machine-1", date(2025, time.June, 3), "inspector-a", time.Now())
	require.NoError(t, err)

	elig, err := tracker.Evaluate(ctx, task, "machine-1", date(2025, time.June, 5))
	require.NoError(t, err)
	assert.Equal(t, audit.StateNotYetEligible, elig.State)
	assert.Equal(t, "2025-06-10", elig.NextEligible.String())
}

func TestEvaluate_CustomDaysCadence(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	task := audit.Task{ID: "task-filter", Name: "Filter check", Rule: engine.CustomDays(14)}

	_, err := tracker.Checkoff(ctx, task, "machine-2", date(2025, time.June, 1), "inspector-b", time.Now())
	require.NoError(t, err)

	mid, err := tracker.Evaluate(ctx, task, "machine-2", date(2025, time.June, 10))
	require.NoError(t, err)
	assert.Equal(t, audit.StateNotYetEligible, mid.State)
	assert.Equal(t, "2025-06-15", mid.NextEligible.String())

	due, err := tracker.Evaluate(ctx, task, "machine-2", date(2025, time.June, 15))
	require.NoError(t, err)
	assert.Equal(t, audit.StateEligible, due.State)
}

func TestEvaluate_InvalidRule_Rejected(t *testing.T) {
	tracker := newTestTracker()
	task := audit.Task{ID: "task-bad", Rule: engine.CustomDays(0)}

	_, err := tracker.Evaluate(context.Background(), task, "machine-1", date(2025, time.June, 1))
	assert.ErrorIs(t, err, engine.ErrInvalidRule)
}

// =============================================================================
// CHECK-OFF IMMUTABILITY
// =============================================================================

func TestCheckoff_SecondAttempt_RejectedAndUnchanged(t *testing.T) {
	// GIVEN: A completed record for (task, machine, today)
	// WHEN: Checking off again
	// THEN: IneligibleCheckoffError, record unchanged

	tracker := newTestTracker()
	ctx := context.Background()
	today := date(2025, time.June, 10)
	task := weeklyTuesdayTask()

	first, err := tracker.Checkoff(ctx, task, "machine-1", today, "inspector-a", time.Now())
	require.NoError(t, err)

	_, err = tracker.Checkoff(ctx, task, "machine-1", today, "inspector-b", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, audit.ErrIneligibleCheckoff)
	var inelig *audit.IneligibleCheckoffError
	require.ErrorAs(t, err, &inelig)
	assert.Equal(t, audit.StateCompleted, inelig.State)

	elig, err := tracker.Evaluate(ctx, task, "machine-1", today)
	require.NoError(t, err)
	require.NotNil(t, elig.Record)
	assert.Equal(t, first.CompletedBy, elig.Record.CompletedBy, "record must not be overwritten")
}

func TestCheckoff_NotYetEligible_Rejected(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	task := weeklyTuesdayTask()

	_, err := tracker.Checkoff(ctx, task, "machine-1", date(2025, time.June, 3), "inspector-a", time.Now())
	require.NoError(t, err)

	_, err = tracker.Checkoff(ctx, task, "machine-1", date(2025, time.June, 5), "inspector-a", time.Now())
	require.Error(t, err)
	var inelig *audit.IneligibleCheckoffError
	require.ErrorAs(t, err, &inelig)
	assert.Equal(t, audit.StateNotYetEligible, inelig.State)
	assert.Equal(t, "2025-06-10", inelig.NextEligible.String())
}

func TestCheckoff_MachinesAreIndependent(t *testing.T) {
	// The same task on a different machine has its own ledger key.
	tracker := newTestTracker()
	ctx := context.Background()
	today := date(2025, time.June, 10)
	task := weeklyTuesdayTask()

	_, err := tracker.Checkoff(ctx, task, "machine-1", today, "inspector-a", time.Now())
	require.NoError(t, err)

	_, err = tracker.Checkoff(ctx, task, "machine-2", today, "inspector-a", time.Now())
	assert.NoError(t, err)
}

// =============================================================================
// HISTORY AND CALENDAR MARKERS
// =============================================================================

func TestHistory_OrderedByDate(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	task := audit.Task{ID: "task-belt", Name: "Belt check", Rule: engine.CustomDays(7)}

	for _, d := range []engine.Date{
		date(2025, time.June, 1),
		date(2025, time.June, 8),
		date(2025, time.June, 15),
	} {
		_, err := tracker.Checkoff(ctx, task, "machine-1", d, "inspector-a", time.Now())
		require.NoError(t, err)
	}

	history, err := tracker.History(ctx, "task-belt", "machine-1", date(2025, time.June, 1), date(2025, time.June, 30))
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2025-06-01", history[0].Key.Date.String())
	assert.Equal(t, "2025-06-15", history[2].Key.Date.String())
}

func TestHistory_EndBeforeStart(t *testing.T) {
	tracker := newTestTracker()
	_, err := tracker.History(context.Background(), "task-belt", "machine-1",
		date(2025, time.June, 30), date(2025, time.June, 1))
	assert.ErrorIs(t, err, engine.ErrInvalidDateRange)
}

func TestCalendarOccurrences_ForwardsTaskMetadata(t *testing.T) {
	// GIVEN: A weekly task with display metadata
	// WHEN: Expanding occurrences over a month
	// THEN: Every marker carries the task's opaque color/category/name

	tracker := newTestTracker()
	ctx := context.Background()
	task := audit.Task{
		ID:       "task-lube",
		Name:     "Lubrication round",
		Color:    "#43a047",
		Category: "mechanical",
		Rule:     engine.WeeklyOnWeekday(time.Monday),
	}

	occs, err := tracker.CalendarOccurrences(ctx, []audit.Task{task}, "machine-1",
		date(2025, time.June, 1), date(2025, time.June, 30))
	require.NoError(t, err)
	require.Len(t, occs, 5, "June 2025 has five Mondays")

	for _, occ := range occs {
		assert.Equal(t, "task-lube", occ.Marker.ID)
		assert.Equal(t, "Lubrication round", occ.Marker.Label)
		assert.Equal(t, "#43a047", occ.Marker.Color)
		assert.Equal(t, "mechanical", occ.Marker.Category)
		assert.Equal(t, time.Monday, occ.Date.Weekday())
	}
}
