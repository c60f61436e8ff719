/*
Package maintenance computes due dates and compliance rollups for parts.

PURPOSE:
  A Part is the canonical ScheduledItem: it carries a last-maintenance date
  and a recurrence rule, and every dashboard render asks "when is it next
  due, and how bad is it?". This package answers per part and rolls the
  answers up per site, against the site's notification threshold.

KEY CONCEPTS IN THIS FILE (types.go):
  - Site: owns the notification threshold the classifier uses
  - Machine / Part: the entity fields the engine reads (never persists)
  - ItemStatus: one part's due date and classification
  - SiteOverview: worst-status rollup with a compliance rate

SEE ALSO:
  - service.go: The computations
  - engine/status.go: The single boundary rule all of this defers to
*/
package maintenance

import (
	"github.com/shopspring/decimal"
	"github.com/warp/upkeep-engine/engine"
)

// =============================================================================
// ENTITIES (read-only from the engine's perspective)
// =============================================================================

// Site groups machines and owns the due-soon threshold for its dashboard.
type Site struct {
	ID                    string
	Name                  string
	NotificationThreshold int // days; non-negative
}

// Machine belongs to a site and carries parts.
type Machine struct {
	ID     string
	SiteID string
	Name   string
}

// Part is a maintainable item: last occurrence plus recurrence rule.
type Part struct {
	ID              string
	MachineID       string
	Name            string
	LastMaintenance engine.Date
	Rule            engine.Rule
}

// =============================================================================
// DERIVED VIEWS (computed, never stored)
// =============================================================================

// ItemStatus is one part's computed due date and classification.
type ItemStatus struct {
	Part    Part
	DueDate engine.Date
	Status  engine.Status
}

// SiteOverview is the per-site dashboard rollup.
type SiteOverview struct {
	Site         Site
	Worst        engine.Status
	Items        []ItemStatus
	OverdueCount int
	DueSoonCount int
	OkCount      int

	// ComplianceRate is the share of items not overdue, as a fraction in
	// [0,1] with four decimal places. Reports print it as a percentage.
	ComplianceRate decimal.Decimal
}
