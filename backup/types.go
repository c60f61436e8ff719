/*
Package backup computes when scheduled backups should run and which old
backup files to prune afterwards.

PURPOSE:
  A Spec describes a recurring backup slot (frequency plus time of day)
  and a retention policy. The functions in schedule.go answer the two
  questions a polling invoker needs: "when is the next run?" and "is one
  due right now?". Pruning selection is pure as well; the Runner in
  runner.go is the only piece that performs I/O.

KEY CONCEPTS IN THIS FILE (types.go):
  - Frequency: daily, weekly, monthly
  - Spec: the persisted schedule fields the engine reads
  - Schedule: a stored spec with identity, as the Runner sees it
  - File: one historical backup artifact, input to pruning

SEE ALSO:
  - schedule.go: NextRun / IsDue / SelectForPruning
  - runner.go: The polling goroutine that executes due schedules
*/
package backup

import "time"

// =============================================================================
// FREQUENCY
// =============================================================================

// Frequency is how often a schedule fires.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// =============================================================================
// SCHEDULE SPEC
// =============================================================================

// UnlimitedRetention marks a schedule whose history is never pruned.
// Any Retention at or above this value means "keep everything".
const UnlimitedRetention = 999

// Spec is the recurrence and retention description of one backup schedule.
//
// DayOfWeek numbers Monday as 0 through Sunday as 6, which is how the
// schedules are stored. DayOfMonth is clamped to the month length at
// computation time, so 31 is valid for every month.
type Spec struct {
	Frequency  Frequency
	Hour       int // 0..23
	Minute     int // 0..59
	DayOfWeek  int // 0..6, Monday = 0; weekly only
	DayOfMonth int // 1..31; monthly only
	Retention  int // >= 1; >= UnlimitedRetention disables pruning
	Enabled    bool
	LastRun    *time.Time // nil when never run
}

// Schedule is a persisted spec with identity, as stored and as the
// Runner iterates them.
type Schedule struct {
	ID   string
	Name string
	Spec Spec
}

// =============================================================================
// BACKUP HISTORY
// =============================================================================

// File is one historical backup artifact.
type File struct {
	Name      string
	CreatedAt time.Time
	SizeBytes int64
}
