/*
Package audit provides check-off eligibility tracking for recurring audit tasks.

PURPOSE:
  An audit task (a recurring inspection) applies to one or more machines.
  For each (task, machine, day) the application must decide whether the
  check-off form is enabled, already satisfied, or locked because the task
  is not yet due again. This package combines the recurrence engine with a
  completion ledger to make that decision, and guards the ledger so history
  cannot be rewritten.

KEY CONCEPTS IN THIS FILE (types.go):
  - Task: recurring audit definition with opaque display metadata
  - CompletionKey / CompletionRecord: the ledger entry, unique per key
  - EligibilityState: Completed / NotYetEligible / Eligible
  - Eligibility: the full decision handed to the check-off form

DESIGN PRINCIPLES:
  1. Statelessness: the tracker holds no state beyond what it is given
  2. Immutability: a completed record is never overwritten
  3. Determinism: "today" is an explicit parameter, never the system clock

SEE ALSO:
  - ledger.go: Completion ledger wrapper with the immutability invariant
  - tracker.go: Eligibility evaluation and check-off submission
*/
package audit

import (
	"time"

	"github.com/warp/upkeep-engine/engine"
)

// =============================================================================
// TASK - Recurring audit definition
// =============================================================================

// Task defines a recurring audit. Color, Category, and Name are opaque
// display metadata owned by the task editor; the tracker only forwards them
// into calendar markers.
type Task struct {
	ID       string
	Name     string
	Color    string
	Category string
	Rule     engine.Rule
}

// Marker converts the task's display metadata into a calendar marker.
func (t Task) Marker() engine.Marker {
	return engine.Marker{ID: t.ID, Label: t.Name, Color: t.Color, Category: t.Category}
}

// =============================================================================
// COMPLETION LEDGER ENTRIES
// =============================================================================

// CompletionKey uniquely identifies a check-off: one per task, machine, day.
type CompletionKey struct {
	TaskID    string
	MachineID string
	Date      engine.Date
}

// CompletionRecord is a ledger entry for a check-off.
// Once Completed is true the record is immutable.
type CompletionRecord struct {
	Key         CompletionKey
	Completed   bool
	CompletedBy string
	CreatedAt   time.Time
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// EligibilityState is the check-off decision for a (task, machine, day).
type EligibilityState string

const (
	// StateCompleted: a completed record exists for today; controls disabled.
	StateCompleted EligibilityState = "completed"
	// StateNotYetEligible: today precedes the next occurrence computed from
	// the most recent completion; controls disabled.
	StateNotYetEligible EligibilityState = "not_yet_eligible"
	// StateEligible: check-off is permitted.
	StateEligible EligibilityState = "eligible"
)

// Eligibility is the full decision, including the next eligible date for
// display and today's record when one exists.
type Eligibility struct {
	State        EligibilityState
	NextEligible engine.Date
	Record       *CompletionRecord
}
