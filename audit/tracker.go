/*
tracker.go - Check-off eligibility decisions

PURPOSE:
  For a (task, machine, today) triple, decide one of three states:

    Completed       a completed record exists for today
    NotYetEligible  today precedes the task's next occurrence, computed by
                    applying its recurrence rule to the latest completion
    Eligible        check-off is permitted

  Checkoff submits in the Eligible state only; any other state is a no-op
  failure so history cannot be silently rewritten.

STATELESSNESS:
  The tracker holds only its ledger handle. Every decision is a pure
  function of the ledger snapshot and the explicit `today` the caller
  supplies; evaluating twice with consistent inputs gives the same answer.
  Cascading deletion when a task is removed belongs to the persistence
  collaborator, not here.

SEE ALSO:
  - ledger.go: The completion ledger and IneligibleCheckoffError
  - engine/calendar.go: Grid annotation consuming the markers built here
*/
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/upkeep-engine/engine"
)

// =============================================================================
// TRACKER
// =============================================================================

// Tracker evaluates check-off eligibility for audit tasks.
type Tracker struct {
	ledger *CompletionLedger
}

// NewTracker wires a tracker over a completion store.
func NewTracker(store CompletionStore) *Tracker {
	return &Tracker{ledger: NewCompletionLedger(store)}
}

// Evaluate decides the eligibility state for a task/machine pair on `today`.
func (t *Tracker) Evaluate(ctx context.Context, task Task, machineID string, today engine.Date) (Eligibility, error) {
	if err := task.Rule.Validate(); err != nil {
		return Eligibility{}, err
	}

	key := CompletionKey{TaskID: task.ID, MachineID: machineID, Date: today}

	rec, err := t.ledger.Get(ctx, key)
	if err != nil {
		return Eligibility{}, fmt.Errorf("failed to read completion ledger: %w", err)
	}
	if rec != nil && rec.Completed {
		return Eligibility{State: StateCompleted, NextEligible: today, Record: rec}, nil
	}

	latest, err := t.ledger.Latest(ctx, task.ID, machineID, today)
	if err != nil {
		return Eligibility{}, fmt.Errorf("failed to read completion history: %w", err)
	}

	// Never completed: eligible immediately.
	if latest == nil {
		return Eligibility{State: StateEligible, NextEligible: today}, nil
	}

	next, err := task.Rule.NextOccurrence(latest.Key.Date, latest.Key.Date.AddDays(1))
	if err != nil {
		return Eligibility{}, err
	}
	if today.Before(next) {
		return Eligibility{State: StateNotYetEligible, NextEligible: next}, nil
	}
	return Eligibility{State: StateEligible, NextEligible: today}, nil
}

// Checkoff records a completion for today when the state is Eligible.
// In any other state it returns IneligibleCheckoffError and leaves the
// ledger unchanged.
func (t *Tracker) Checkoff(ctx context.Context, task Task, machineID string, today engine.Date, completedBy string, at time.Time) (CompletionRecord, error) {
	elig, err := t.Evaluate(ctx, task, machineID, today)
	if err != nil {
		return CompletionRecord{}, err
	}

	key := CompletionKey{TaskID: task.ID, MachineID: machineID, Date: today}
	if elig.State != StateEligible {
		return CompletionRecord{}, &IneligibleCheckoffError{
			Key:          key,
			State:        elig.State,
			NextEligible: elig.NextEligible,
		}
	}

	return t.ledger.Record(ctx, key, completedBy, at)
}

// History exposes the ledger history for report views.
func (t *Tracker) History(ctx context.Context, taskID, machineID string, from, to engine.Date) ([]CompletionRecord, error) {
	return t.ledger.History(ctx, taskID, machineID, from, to)
}

// =============================================================================
// CALENDAR MARKERS
// =============================================================================

// CalendarOccurrences expands each task's rule across [from, to] and pairs
// every occurrence with the task's marker, for grid annotation. The anchor
// for elapsed-time rules is the latest completion before the window, or the
// window start when the task has never been completed.
func (t *Tracker) CalendarOccurrences(ctx context.Context, tasks []Task, machineID string, from, to engine.Date) ([]engine.Occurrence, error) {
	var out []engine.Occurrence
	for _, task := range tasks {
		anchor := from
		latest, err := t.ledger.Latest(ctx, task.ID, machineID, from)
		if err != nil {
			return nil, fmt.Errorf("failed to read completion history: %w", err)
		}
		if latest != nil {
			anchor = latest.Key.Date
		}

		dates, err := task.Rule.OccurrencesWithin(anchor, from, to)
		if err != nil {
			return nil, err
		}
		marker := task.Marker()
		for _, d := range dates {
			out = append(out, engine.Occurrence{Date: d, Marker: marker})
		}
	}
	return out, nil
}
