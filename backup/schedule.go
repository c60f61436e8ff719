/*
schedule.go - Next-run computation and pruning selection

PURPOSE:
  Pure functions over a Spec and a caller-supplied clock reading. The
  schedule math never reads time.Now itself, so every path here is
  deterministic under test.

DESIGN:
  - NextRun returns nil for disabled or invalid schedules; otherwise
    the first slot strictly after the given instant.
  - IsDue anchors on LastRun (epoch when never run): a schedule is due
    once the slot after its last run has passed.
  - SelectForPruning keeps the Retention newest files and returns the
    rest; creation-time ties fall back to filename so repeated runs
    delete the same files.

SEE ALSO:
  - types.go: Spec field ranges and the UnlimitedRetention sentinel
  - runner.go: The caller that serializes execution
*/
package backup

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// VALIDATION
// =============================================================================

// Validate rejects a malformed spec before any schedule math runs.
func Validate(spec Spec) error {
	switch spec.Frequency {
	case Daily, Weekly, Monthly:
	default:
		return fmt.Errorf("unknown frequency %q", spec.Frequency)
	}
	if spec.Hour < 0 || spec.Hour > 23 {
		return fmt.Errorf("hour %d out of range [0,23]", spec.Hour)
	}
	if spec.Minute < 0 || spec.Minute > 59 {
		return fmt.Errorf("minute %d out of range [0,59]", spec.Minute)
	}
	if spec.Frequency == Weekly && (spec.DayOfWeek < 0 || spec.DayOfWeek > 6) {
		return fmt.Errorf("day_of_week %d out of range [0,6]", spec.DayOfWeek)
	}
	if spec.Frequency == Monthly && (spec.DayOfMonth < 1 || spec.DayOfMonth > 31) {
		return fmt.Errorf("day_of_month %d out of range [1,31]", spec.DayOfMonth)
	}
	if spec.Retention < 1 {
		return fmt.Errorf("retention %d must be at least 1", spec.Retention)
	}
	return nil
}

// =============================================================================
// NEXT RUN
// =============================================================================

// NextRun returns the first slot strictly after now, or nil when the
// schedule is disabled or the spec fails Validate.
func NextRun(spec Spec, now time.Time) *time.Time {
	if !spec.Enabled || Validate(spec) != nil {
		return nil
	}
	next := nextSlotAfter(spec, now)
	return &next
}

// IsDue reports whether a run is owed: the slot following the last run
// (or the epoch, when the schedule has never run) is at or before now.
// A spec that fails Validate is never due.
func IsDue(spec Spec, now time.Time) bool {
	if !spec.Enabled || Validate(spec) != nil {
		return false
	}
	anchor := time.Unix(0, 0).UTC()
	if spec.LastRun != nil {
		anchor = *spec.LastRun
	}
	return !now.Before(nextSlotAfter(spec, anchor))
}

// nextSlotAfter walks forward from ref to the first hour:minute slot
// the spec names that is strictly after ref. The spec has already
// passed Validate, so the frequency is one of the three known values.
func nextSlotAfter(spec Spec, ref time.Time) time.Time {
	loc := ref.Location()

	switch spec.Frequency {
	case Daily:
		slot := time.Date(ref.Year(), ref.Month(), ref.Day(), spec.Hour, spec.Minute, 0, 0, loc)
		if !slot.After(ref) {
			slot = slot.AddDate(0, 0, 1)
		}
		return slot

	case Weekly:
		// Spec weekdays number Monday as 0; time.Weekday numbers Sunday as 0.
		target := time.Weekday((spec.DayOfWeek + 1) % 7)
		ahead := (int(target) - int(ref.Weekday()) + 7) % 7
		slot := time.Date(ref.Year(), ref.Month(), ref.Day()+ahead, spec.Hour, spec.Minute, 0, 0, loc)
		if !slot.After(ref) {
			slot = slot.AddDate(0, 0, 7)
		}
		return slot

	case Monthly:
		slot := monthlySlot(ref.Year(), ref.Month(), spec, loc)
		if !slot.After(ref) {
			slot = monthlySlot(ref.Year(), ref.Month()+1, spec, loc)
		}
		return slot
	}

	return time.Time{}
}

// monthlySlot places the spec's day-of-month in the given month, clamped
// to the month's length.
func monthlySlot(year int, month time.Month, spec Spec, loc *time.Location) time.Time {
	// Normalize month overflow before measuring the month length.
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := first.AddDate(0, 1, -1).Day()
	day := spec.DayOfMonth
	if day > days {
		day = days
	}
	return time.Date(first.Year(), first.Month(), day, spec.Hour, spec.Minute, 0, 0, loc)
}

// =============================================================================
// PRUNING
// =============================================================================

// SelectForPruning returns the files beyond the Retention most recent,
// oldest last. A retention at or above UnlimitedRetention prunes
// nothing; a retention below one selects every file. Creation-time ties
// are broken by filename so selection is stable.
func SelectForPruning(files []File, retention int) []File {
	if retention >= UnlimitedRetention {
		return nil
	}
	if retention < 0 {
		retention = 0
	}
	if len(files) <= retention {
		return nil
	}

	ordered := make([]File, len(files))
	copy(ordered, files)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].Name < ordered[j].Name
	})

	return ordered[retention:]
}
