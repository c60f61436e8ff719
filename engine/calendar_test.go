package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/upkeep-engine/engine"
)

func TestBuildMonthGrid_Completeness(t *testing.T) {
	// GIVEN: Any month
	// THEN: Whole Sunday-first weeks whose in-month days are exactly
	//       1..daysInMonth with no duplicates or gaps

	months := []struct {
		year  int
		month time.Month
	}{
		{2025, time.February},  // starts on a Saturday
		{2024, time.February},  // leap year
		{2025, time.June},      // starts on a Sunday
		{2025, time.December},  // ends mid-week
		{2026, time.March},     // 5 weeks
	}

	for _, m := range months {
		grid, err := engine.BuildMonthGrid(m.year, m.month, engine.Date{})
		if err != nil {
			t.Fatalf("%d-%s: unexpected error: %v", m.year, m.month, err)
		}

		seen := make(map[int]bool)
		for wi, week := range grid.Weeks {
			for di, day := range week {
				if want := time.Weekday(di); day.Date.Weekday() != want {
					t.Errorf("%d-%s week %d slot %d: weekday %s, want %s",
						m.year, m.month, wi, di, day.Date.Weekday(), want)
				}
				if !day.InMonth {
					continue
				}
				if seen[day.Date.Day()] {
					t.Errorf("%d-%s: duplicate in-month day %d", m.year, m.month, day.Date.Day())
				}
				seen[day.Date.Day()] = true
			}
		}

		if want := engine.DaysInMonth(m.year, m.month); len(seen) != want {
			t.Errorf("%d-%s: %d in-month days, want %d", m.year, m.month, len(seen), want)
		}
	}
}

func TestBuildMonthGrid_FlagsToday(t *testing.T) {
	now := engine.NewDate(2025, time.June, 9)
	grid, err := engine.BuildMonthGrid(2025, time.June, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var todays int
	for _, week := range grid.Weeks {
		for _, day := range week {
			if day.Today {
				todays++
				if !day.Date.Equal(now) {
					t.Errorf("today flag on %s, want %s", day.Date, now)
				}
			}
		}
	}
	if todays != 1 {
		t.Errorf("expected exactly one today flag, got %d", todays)
	}
}

func TestBuildMonthGrid_TodayOutsideMonthNotFlagged(t *testing.T) {
	now := engine.NewDate(2025, time.July, 1)
	grid, err := engine.BuildMonthGrid(2025, time.June, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, week := range grid.Weeks {
		for _, day := range week {
			if day.Today {
				t.Errorf("unexpected today flag on %s", day.Date)
			}
		}
	}
}

func TestBuildMonthGrid_InvalidMonth(t *testing.T) {
	for _, month := range []time.Month{0, 13} {
		_, err := engine.BuildMonthGrid(2025, month, engine.Date{})
		if !errors.Is(err, engine.ErrInvalidDateRange) {
			t.Errorf("month %d: expected ErrInvalidDateRange, got %v", month, err)
		}
	}
}

func TestAnnotate_PreservesInsertionOrder(t *testing.T) {
	// GIVEN: Two distinct task markers on the same day
	// THEN: Both are kept, in the order they were supplied

	grid, err := engine.BuildMonthGrid(2025, time.June, engine.Date{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day := engine.NewDate(2025, time.June, 10)
	grid.Annotate([]engine.Occurrence{
		{Date: day, Marker: engine.Marker{ID: "task-a", Label: "Filter swap", Color: "#e53935"}},
		{Date: day, Marker: engine.Marker{ID: "task-b", Label: "Belt check", Color: "#1e88e5"}},
	})

	var markers []engine.Marker
	for _, week := range grid.Weeks {
		for _, d := range week {
			if d.InMonth && d.Date.Equal(day) {
				markers = d.Markers
			}
		}
	}

	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}
	if markers[0].ID != "task-a" || markers[1].ID != "task-b" {
		t.Errorf("markers out of order: %v", markers)
	}
}

func TestAnnotate_IgnoresOutOfMonthDates(t *testing.T) {
	grid, err := engine.BuildMonthGrid(2025, time.June, engine.Date{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	grid.Annotate([]engine.Occurrence{
		{Date: engine.NewDate(2025, time.May, 31), Marker: engine.Marker{ID: "stray"}},
	})

	for _, week := range grid.Weeks {
		for _, d := range week {
			if len(d.Markers) != 0 {
				t.Errorf("unexpected marker on %s", d.Date)
			}
		}
	}
}

func TestBuildRangeGrid_SingleMonthBehavior(t *testing.T) {
	// The range builder renders the month containing the start date even
	// when the range nominally spans further.

	start := engine.NewDate(2025, time.June, 5)
	end := engine.NewDate(2025, time.August, 20)

	grid, err := engine.BuildRangeGrid(start, end, engine.Date{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if grid.Year != 2025 || grid.Month != time.June {
		t.Errorf("expected June 2025 grid, got %s %d", grid.Month, grid.Year)
	}
}

func TestBuildRangeGrid_EndBeforeStart(t *testing.T) {
	_, err := engine.BuildRangeGrid(
		engine.NewDate(2025, time.June, 10),
		engine.NewDate(2025, time.June, 9),
		engine.Date{},
	)
	if !errors.Is(err, engine.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}
