/*
calendar.go - Month grid construction for calendar views

PURPOSE:
  Builds the week-by-week day grid that calendar templates render: full
  Sunday-first weeks covering a month, with leading/trailing days from
  adjacent months flagged as padding, and an optional "today" flag. The
  grid is purely for rendering and is never written back.

ANNOTATION:
  Annotate attaches dated markers (task occurrences, part due dates) to
  in-month days. Markers are opaque pass-through values - color, category,
  and label belong to the calling collaborator. Multiple markers on a day
  are preserved in insertion order; dedup by marker identity is the
  caller's responsibility, since two distinct tasks may land on one day.

RANGE GRIDS:
  BuildRangeGrid supports the audit-history report, where start and end
  fall in the same month. It renders the month containing the start date
  and does not span multiple months; that single-month behavior is a
  preserved limitation of the original report, not an oversight.

SEE ALSO:
  - status.go: Status badges rendered alongside grids
  - audit/tracker.go: Produces task markers for annotation
*/
package engine

import "time"

// =============================================================================
// GRID TYPES
// =============================================================================

// Marker is an opaque occurrence annotation on a calendar day.
type Marker struct {
	ID       string
	Label    string
	Color    string
	Category string
}

// Occurrence pairs a marker with the date it falls on.
type Occurrence struct {
	Date   Date
	Marker Marker
}

// Day is a single slot in a calendar grid. Padding days carry their real
// date but are flagged out-of-month and never annotated.
type Day struct {
	Date    Date
	InMonth bool
	Today   bool
	Markers []Marker
}

// Week is exactly seven day slots, Sunday first.
type Week [7]Day

// MonthGrid is an ordered sequence of whole weeks covering one month.
type MonthGrid struct {
	Year  int
	Month time.Month
	Weeks []Week
}

// =============================================================================
// GRID CONSTRUCTION
// =============================================================================

// BuildMonthGrid produces full Sunday-first weeks covering the 1st through
// the last day of the month. The day equal to `now`, if in the month, is
// flagged today.
func BuildMonthGrid(year int, month time.Month, now Date) (MonthGrid, error) {
	if month < time.January || month > time.December {
		return MonthGrid{}, &InvalidDateRangeError{Reason: "month must be in [1,12]"}
	}

	first := StartOfMonth(year, month)
	last := EndOfMonth(year, month)

	// Back up to the Sunday on/before the 1st.
	cur := first.AddDays(-int(first.Weekday()))

	grid := MonthGrid{Year: year, Month: month}
	for cur.BeforeOrEqual(last) {
		var week Week
		for i := 0; i < 7; i++ {
			inMonth := cur.Month() == month && cur.Year() == year
			week[i] = Day{
				Date:    cur,
				InMonth: inMonth,
				Today:   inMonth && cur.Equal(now),
			}
			cur = cur.AddDays(1)
		}
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid, nil
}

// BuildRangeGrid renders the month containing the start date. It covers the
// common report case where start and end fall in the same month; a wider
// range is accepted but only the first month is rendered.
func BuildRangeGrid(start, end Date, now Date) (MonthGrid, error) {
	if end.Before(start) {
		return MonthGrid{}, &InvalidDateRangeError{Reason: "end before start"}
	}
	return BuildMonthGrid(start.Year(), start.Month(), now)
}

// =============================================================================
// ANNOTATION
// =============================================================================

// Annotate attaches each occurrence to the in-month day matching its date.
// Occurrences outside the grid's month are ignored. Order of markers on a
// day follows the order of the occurrences slice.
func (g *MonthGrid) Annotate(occurrences []Occurrence) {
	if len(occurrences) == 0 {
		return
	}

	index := make(map[string][2]int, 31)
	for wi := range g.Weeks {
		for di := range g.Weeks[wi] {
			if g.Weeks[wi][di].InMonth {
				index[g.Weeks[wi][di].Date.String()] = [2]int{wi, di}
			}
		}
	}

	for _, occ := range occurrences {
		pos, ok := index[occ.Date.String()]
		if !ok {
			continue
		}
		day := &g.Weeks[pos[0]][pos[1]]
		day.Markers = append(day.Markers, occ.Marker)
	}
}

// InMonthDays returns the grid's in-month days in calendar order.
// Convenience for templates that render a flat list next to the grid.
func (g *MonthGrid) InMonthDays() []Day {
	var days []Day
	for _, week := range g.Weeks {
		for _, day := range week {
			if day.InMonth {
				days = append(days, day)
			}
		}
	}
	return days
}
