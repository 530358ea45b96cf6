package occupancy

import (
	"testing"
	"time"
)

func mustDay(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func TestDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("JST", 9*60*60)
	stamp := time.Date(2026, time.March, 2, 23, 45, 12, 999, loc)

	got := Day(stamp)
	want := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", got.Location())
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	aStart := mustDay(2026, time.March, 2)
	aEnd := mustDay(2026, time.March, 6)

	cases := []struct {
		name           string
		bStart, bEnd   time.Time
		expectsOverlap bool
	}{
		{"identical", aStart, aEnd, true},
		{"contained", mustDay(2026, time.March, 3), mustDay(2026, time.March, 5), true},
		{"containing", mustDay(2026, time.March, 1), mustDay(2026, time.March, 7), true},
		{"shares start boundary", mustDay(2026, time.February, 25), aStart, true},
		{"shares end boundary", aEnd, mustDay(2026, time.March, 10), true},
		{"single shared day", aEnd, aEnd, true},
		{"day before", mustDay(2026, time.February, 25), mustDay(2026, time.March, 1), false},
		{"day after", mustDay(2026, time.March, 7), mustDay(2026, time.March, 10), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(aStart, aEnd, tc.bStart, tc.bEnd); got != tc.expectsOverlap {
				t.Fatalf("Overlaps(%v-%v, %v-%v) = %v, want %v", aStart, aEnd, tc.bStart, tc.bEnd, got, tc.expectsOverlap)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, aStart, aEnd); got != tc.expectsOverlap {
				t.Fatalf("expected symmetric result for %s", tc.name)
			}
		})
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	start := mustDay(2026, time.March, 2)
	end := mustDay(2026, time.March, 6)

	if !Contains(start, end, start) || !Contains(start, end, end) {
		t.Fatal("expected boundary days to be contained")
	}
	if !Contains(start, end, mustDay(2026, time.March, 4)) {
		t.Fatal("expected interior day to be contained")
	}
	if Contains(start, end, mustDay(2026, time.March, 1)) || Contains(start, end, mustDay(2026, time.March, 7)) {
		t.Fatal("expected days outside the interval to be excluded")
	}
}

func TestActiveCoverage(t *testing.T) {
	t.Parallel()

	first := Coverage{ID: "c1", DeskID: "d1", StartDay: mustDay(2026, time.March, 2), EndDay: mustDay(2026, time.March, 6), TempOccupant: "First"}
	other := Coverage{ID: "c2", DeskID: "d2", StartDay: mustDay(2026, time.March, 2), EndDay: mustDay(2026, time.March, 6), TempOccupant: "Other"}
	coverages := []Coverage{first, other}

	t.Run("matches the desk and day", func(t *testing.T) {
		t.Parallel()

		active, ok := ActiveCoverage(coverages, "d1", mustDay(2026, time.March, 4))
		if !ok || active.ID != "c1" {
			t.Fatalf("expected c1, got %+v ok=%v", active, ok)
		}
	})

	t.Run("no match outside the period", func(t *testing.T) {
		t.Parallel()

		if _, ok := ActiveCoverage(coverages, "d1", mustDay(2026, time.March, 7)); ok {
			t.Fatal("expected no active coverage after the end day")
		}
	})

	t.Run("no match for another desk", func(t *testing.T) {
		t.Parallel()

		if _, ok := ActiveCoverage(coverages, "d3", mustDay(2026, time.March, 4)); ok {
			t.Fatal("expected no coverage for an uncovered desk")
		}
	})
}

func TestHasOverlap(t *testing.T) {
	t.Parallel()

	existing := Coverage{ID: "c1", DeskID: "d1", StartDay: mustDay(2026, time.March, 2), EndDay: mustDay(2026, time.March, 6)}
	coverages := []Coverage{existing}

	if !HasOverlap(coverages, "d1", mustDay(2026, time.March, 6), mustDay(2026, time.March, 9), "") {
		t.Fatal("expected overlap on a shared boundary day")
	}
	if HasOverlap(coverages, "d1", mustDay(2026, time.March, 7), mustDay(2026, time.March, 9), "") {
		t.Fatal("expected no overlap for an adjacent period")
	}
	if HasOverlap(coverages, "d2", mustDay(2026, time.March, 2), mustDay(2026, time.March, 6), "") {
		t.Fatal("expected no overlap across desks")
	}
	// The excluded ID allows an update to keep its own slot.
	if HasOverlap(coverages, "d1", mustDay(2026, time.March, 2), mustDay(2026, time.March, 6), "c1") {
		t.Fatal("expected the excluded coverage to be ignored")
	}
}

func TestCurrentOccupant(t *testing.T) {
	t.Parallel()

	coverages := []Coverage{{
		ID: "c1", DeskID: "d1",
		StartDay: mustDay(2026, time.March, 2), EndDay: mustDay(2026, time.March, 6),
		TempOccupant: "Visiting Fellow",
	}}

	if got := CurrentOccupant("Dr. Smith", coverages, "d1", mustDay(2026, time.March, 4)); got != "Visiting Fellow" {
		t.Fatalf("expected the stand-in during coverage, got %q", got)
	}
	if got := CurrentOccupant("Dr. Smith", coverages, "d1", mustDay(2026, time.March, 7)); got != "Dr. Smith" {
		t.Fatalf("expected the holder outside coverage, got %q", got)
	}
	if got := CurrentOccupant("Dr. Jones", coverages, "d2", mustDay(2026, time.March, 4)); got != "Dr. Jones" {
		t.Fatalf("expected the holder on an uncovered desk, got %q", got)
	}
}
