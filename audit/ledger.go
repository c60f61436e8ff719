/*
ledger.go - Completion ledger with once-per-day enforcement

PURPOSE:
  Wraps a CompletionStore with the audit-specific business rule: a
  (task, machine, date) check-off happens at most once, and a completed
  record is never modified afterward. The check-off UI relies on this to
  guarantee history cannot be retroactively altered.

INVARIANT:
  At most one completed CompletionRecord per (TaskID, MachineID, Date).

WHY A WRAPPER?
  The store only knows about rows and unique indexes. This wrapper turns a
  constraint violation into a domain error the tracker and handlers can
  branch on, and performs the read-before-write so most duplicate attempts
  are rejected without touching the index at all.

SEE ALSO:
  - store.go: CompletionStore interface and one-writer-wins contract
  - tracker.go: Eligibility decisions built on this ledger
*/
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warp/upkeep-engine/engine"
)

// =============================================================================
// COMPLETION LEDGER
// =============================================================================

// CompletionLedger enforces completion immutability over a CompletionStore.
type CompletionLedger struct {
	store CompletionStore
}

// NewCompletionLedger wraps a store with the once-per-key rule.
func NewCompletionLedger(store CompletionStore) *CompletionLedger {
	return &CompletionLedger{store: store}
}

// Record writes a completed record for the key. If a completed record
// already exists the ledger is untouched and the existing record is
// returned inside the error.
func (l *CompletionLedger) Record(ctx context.Context, key CompletionKey, completedBy string, at time.Time) (CompletionRecord, error) {
	existing, err := l.store.GetCompletion(ctx, key)
	if err != nil {
		return CompletionRecord{}, fmt.Errorf("failed to check existing completion: %w", err)
	}
	if existing != nil && existing.Completed {
		return CompletionRecord{}, &IneligibleCheckoffError{
			Key:   key,
			State: StateCompleted,
		}
	}

	rec := CompletionRecord{
		Key:         key,
		Completed:   true,
		CompletedBy: completedBy,
		CreatedAt:   at,
	}
	if err := l.store.PutCompletion(ctx, rec); err != nil {
		// A concurrent writer won the race; surface it as the same
		// domain error the read path produces.
		if errors.Is(err, ErrDuplicateCompletion) {
			return CompletionRecord{}, &IneligibleCheckoffError{Key: key, State: StateCompleted}
		}
		return CompletionRecord{}, err
	}
	return rec, nil
}

// Get returns today's record for a key, or nil.
func (l *CompletionLedger) Get(ctx context.Context, key CompletionKey) (*CompletionRecord, error) {
	return l.store.GetCompletion(ctx, key)
}

// Latest returns the most recent completion on/before a date, or nil.
func (l *CompletionLedger) Latest(ctx context.Context, taskID, machineID string, onOrBefore engine.Date) (*CompletionRecord, error) {
	return l.store.LatestCompletion(ctx, taskID, machineID, onOrBefore)
}

// History returns completions for a task/machine pair in [from, to].
func (l *CompletionLedger) History(ctx context.Context, taskID, machineID string, from, to engine.Date) ([]CompletionRecord, error) {
	if to.Before(from) {
		return nil, &engine.InvalidDateRangeError{Reason: "end before start"}
	}
	return l.store.ListCompletions(ctx, taskID, machineID, from, to)
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrIneligibleCheckoff is the sentinel for rejected check-off attempts.
var ErrIneligibleCheckoff = errors.New("check-off not permitted")

// IneligibleCheckoffError reports a check-off attempted outside the Eligible
// state. State carries the blocking state; NextEligible is set when the
// block is a not-yet-due rule rather than an existing record.
type IneligibleCheckoffError struct {
	Key          CompletionKey
	State        EligibilityState
	NextEligible engine.Date
}

func (e *IneligibleCheckoffError) Error() string {
	switch e.State {
	case StateCompleted:
		return fmt.Sprintf("check-off already recorded for task %s machine %s on %s",
			e.Key.TaskID, e.Key.MachineID, e.Key.Date)
	case StateNotYetEligible:
		return fmt.Sprintf("task %s machine %s not eligible until %s",
			e.Key.TaskID, e.Key.MachineID, e.NextEligible)
	default:
		return "check-off not permitted"
	}
}

func (e *IneligibleCheckoffError) Unwrap() error { return ErrIneligibleCheckoff }
