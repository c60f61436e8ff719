/*
errors.go - Centralized error types for the maintenance engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Rule errors  - Malformed recurrence parameters
  2. Range errors - Invalid calendar ranges (bad month, end before start)

PROPAGATION POLICY:
  Every error here is a caller-correctable input problem. The engine never
  logs, retries, or swallows errors; validation happens at the boundary of
  each public contract, before any date arithmetic.

USAGE:
  Callers can test categories with errors.Is:

    if errors.Is(err, engine.ErrInvalidRule) {
        // flash a form-level message
    }

SEE ALSO:
  - rule.go: Returns InvalidRuleError from Validate and NextOccurrence
  - calendar.go: Returns InvalidDateRangeError from grid builders
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRule is returned when recurrence parameters are malformed:
	// zero or negative amounts, out-of-range weekday or day-of-month.
	ErrInvalidRule = errors.New("invalid recurrence rule")

	// ErrInvalidDateRange is returned when a calendar range is malformed:
	// month outside [1,12] or an end date before the start date.
	ErrInvalidDateRange = errors.New("invalid date range")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRuleError describes which rule parameter failed validation.
type InvalidRuleError struct {
	Field  string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid recurrence rule: %s %s", e.Field, e.Reason)
}

func (e *InvalidRuleError) Unwrap() error { return ErrInvalidRule }

// InvalidDateRangeError describes a malformed calendar range request.
type InvalidDateRangeError struct {
	Reason string
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("invalid date range: %s", e.Reason)
}

func (e *InvalidDateRangeError) Unwrap() error { return ErrInvalidDateRange }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
// Every engine error qualifies; collaborators add their own kinds.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRule) || errors.Is(err, ErrInvalidDateRange)
}
