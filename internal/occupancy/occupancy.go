// Package occupancy implements the coverage-interval rules that decide who
// occupies a staff desk on a given day. All intervals are closed: both
// endpoints belong to the interval, so touching periods overlap.
package occupancy

import "time"

// Coverage is a period during which a desk's holder is substituted by a
// temporary occupant. Days carry date precision only.
type Coverage struct {
	ID           string
	DeskID       string
	StartDay     time.Time
	EndDay       time.Time
	TempOccupant string
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Contains reports whether day falls inside the closed interval [start, end].
func Contains(start, end, day time.Time) bool {
	day = Day(day)
	return !day.Before(Day(start)) && !day.After(Day(end))
}

// Overlaps reports whether the closed intervals [aStart, aEnd] and
// [bStart, bEnd] intersect. Intervals that merely touch at an endpoint
// count as overlapping.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !Day(aEnd).Before(Day(bStart)) && !Day(aStart).After(Day(bEnd))
}

// ActiveCoverage returns the coverage for deskID whose interval contains
// day. Overlap prevention at creation time means at most one match is
// expected; should the data be inconsistent the first match wins and no
// error is reported.
func ActiveCoverage(coverages []Coverage, deskID string, day time.Time) (Coverage, bool) {
	for _, c := range coverages {
		if c.DeskID != deskID {
			continue
		}
		if Contains(c.StartDay, c.EndDay, day) {
			return c, true
		}
	}
	return Coverage{}, false
}

// HasOverlap reports whether any coverage for deskID, other than excludeID,
// intersects [start, end].
func HasOverlap(coverages []Coverage, deskID string, start, end time.Time, excludeID string) bool {
	for _, c := range coverages {
		if c.DeskID != deskID {
			continue
		}
		if excludeID != "" && c.ID == excludeID {
			continue
		}
		if Overlaps(start, end, c.StartDay, c.EndDay) {
			return true
		}
	}
	return false
}

// CurrentOccupant resolves the name occupying a staff desk on day: the
// temporary occupant when a coverage is active, otherwise holderName.
func CurrentOccupant(holderName string, coverages []Coverage, deskID string, day time.Time) string {
	if c, ok := ActiveCoverage(coverages, deskID, day); ok {
		return c.TempOccupant
	}
	return holderName
}
