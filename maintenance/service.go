/*
service.go - Due-date and rollup computations for parts

PURPOSE:
  Pure functions from (parts, now, threshold) to the derived views the
  dashboard and PDF reports render. All status decisions defer to
  engine.Classify so the boundary rule lives in exactly one place.

SEE ALSO:
  - types.go: Entity and view definitions
  - engine/rule.go: NextOccurrence semantics per rule kind
*/
package maintenance

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/upkeep-engine/engine"
)

// =============================================================================
// PER-PART
// =============================================================================

// DueDate computes when a part is next due from its last maintenance.
func DueDate(part Part, now engine.Date) (engine.Date, error) {
	return part.Rule.NextOccurrence(part.LastMaintenance, now)
}

// StatusOf classifies one part against a site threshold.
func StatusOf(part Part, now engine.Date, thresholdDays int) (ItemStatus, error) {
	due, err := DueDate(part, now)
	if err != nil {
		return ItemStatus{}, err
	}
	return ItemStatus{
		Part:    part,
		DueDate: due,
		Status:  engine.Classify(due, now, thresholdDays),
	}, nil
}

// =============================================================================
// PER-SITE ROLLUP
// =============================================================================

var statusSortRank = map[engine.StatusKind]int{
	engine.StatusOverdue: 0,
	engine.StatusDueSoon: 1,
	engine.StatusOk:      2,
}

// Overview rolls a site's parts up into the dashboard view. Items are
// sorted worst-first, then by due date, so templates render them directly.
func Overview(site Site, parts []Part, now engine.Date) (SiteOverview, error) {
	overview := SiteOverview{Site: site, ComplianceRate: decimal.NewFromInt(1)}

	statuses := make([]engine.Status, 0, len(parts))
	for _, part := range parts {
		item, err := StatusOf(part, now, site.NotificationThreshold)
		if err != nil {
			return SiteOverview{}, err
		}
		overview.Items = append(overview.Items, item)
		statuses = append(statuses, item.Status)

		switch item.Status.Kind {
		case engine.StatusOverdue:
			overview.OverdueCount++
		case engine.StatusDueSoon:
			overview.DueSoonCount++
		default:
			overview.OkCount++
		}
	}

	overview.Worst = engine.Worst(statuses...)

	sort.SliceStable(overview.Items, func(i, j int) bool {
		a, b := overview.Items[i], overview.Items[j]
		if ra, rb := statusSortRank[a.Status.Kind], statusSortRank[b.Status.Kind]; ra != rb {
			return ra < rb
		}
		return a.DueDate.Before(b.DueDate)
	})

	if len(parts) > 0 {
		compliant := int64(len(parts) - overview.OverdueCount)
		overview.ComplianceRate = decimal.NewFromInt(compliant).
			Div(decimal.NewFromInt(int64(len(parts)))).
			Round(4)
	}

	return overview, nil
}

// WorstAcrossSites is the fleet-level rollup shown on the landing page.
func WorstAcrossSites(overviews []SiteOverview) engine.Status {
	statuses := make([]engine.Status, len(overviews))
	for i, o := range overviews {
		statuses[i] = o.Worst
	}
	return engine.Worst(statuses...)
}
