/*
status.go - Compliance classification against a due date

PURPOSE:
  One boundary rule, called everywhere. The original application re-derived
  the overdue/due-soon/ok branching independently in several presentation
  contexts; this file consolidates it so every dashboard, report, and badge
  agrees on where the boundaries sit.

BOUNDARY LAW:
  delta = due - now (signed days)
  delta < 0               -> Overdue(-delta)
  0 <= delta <= threshold -> DueSoon(delta)   (threshold day itself is DueSoon)
  delta > threshold       -> Ok(delta)

  Classify is pure and total; there are no error conditions.

AGGREGATION:
  A site's or machine's overall status is the worst status among its
  children, ordered Overdue > DueSoon > Ok.

SEE ALSO:
  - rule.go: Produces the due dates this classifies
  - maintenance/service.go: Per-part and per-site rollups
*/
package engine

// =============================================================================
// STATUS - Derived compliance state, never stored
// =============================================================================

// StatusKind identifies the compliance classification of an item.
type StatusKind string

const (
	StatusOverdue StatusKind = "overdue"
	StatusDueSoon StatusKind = "due_soon"
	StatusOk      StatusKind = "ok"
)

// Status is the classification of a due date relative to "now".
// Exactly one of DaysOverdue / DaysRemaining is meaningful per Kind:
// Overdue carries DaysOverdue, DueSoon and Ok carry DaysRemaining.
type Status struct {
	Kind          StatusKind
	DaysOverdue   int
	DaysRemaining int
}

// DaysUntil returns the signed day delta due - now.
func DaysUntil(due, now Date) int {
	return DaysBetween(now, due)
}

// Classify determines the compliance status of a due date.
// thresholdDays is the site-specific due-soon window; zero means an item is
// DueSoon only on its due date.
func Classify(due, now Date, thresholdDays int) Status {
	delta := DaysUntil(due, now)
	switch {
	case delta < 0:
		return Status{Kind: StatusOverdue, DaysOverdue: -delta}
	case delta <= thresholdDays:
		return Status{Kind: StatusDueSoon, DaysRemaining: delta}
	default:
		return Status{Kind: StatusOk, DaysRemaining: delta}
	}
}

// =============================================================================
// AGGREGATION
// =============================================================================

var statusRank = map[StatusKind]int{
	StatusOverdue: 0,
	StatusDueSoon: 1,
	StatusOk:      2,
}

// Worst returns the most severe status among the given ones.
// With no arguments it returns Ok, matching an empty site.
func Worst(statuses ...Status) Status {
	worst := Status{Kind: StatusOk}
	first := true
	for _, s := range statuses {
		if first || statusRank[s.Kind] < statusRank[worst.Kind] {
			worst = s
			first = false
			continue
		}
		if s.Kind != worst.Kind {
			continue
		}
		// Same kind: keep the more urgent instance for display.
		switch s.Kind {
		case StatusOverdue:
			if s.DaysOverdue > worst.DaysOverdue {
				worst = s
			}
		default:
			if s.DaysRemaining < worst.DaysRemaining {
				worst = s
			}
		}
	}
	return worst
}
