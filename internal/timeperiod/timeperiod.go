// Package timeperiod evaluates recurring downtime rules.
//
// A rule is a pair of strings: a day specification selecting calendar days
// ("monday", "day 15", "day -1", "2026-12-24", "cron:0 0 * * MON") and a
// ranges value listing time-of-day spans on those days
// ("00:00-08:00" or "02:00-04:00,22:00-24:00").
//
// NextSegment resolves a rule against a reference time into the next concrete
// [begin, end) segment. Evaluation is deterministic and side-effect free; all
// times are computed in the reference time's location.
package timeperiod

import (
	"fmt"
	"time"
)

// maxScanDays bounds the day-by-day search for the next matching day. A year
// covers the sparsest expressible recurrence (a month day absent from most
// months); explicit dates are resolved directly and ignore this bound.
const maxScanDays = 366

// Segment is one concrete [Begin, End) window on the timeline
type Segment struct {
	Begin time.Time
	End   time.Time
}

// Duration returns the segment length
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Begin)
}

// ParseDaySpec validates a day specification
func ParseDaySpec(day string) error {
	_, err := parseDaySpec(day)
	return err
}

// ParseTimeRanges validates a time ranges value
func ParseTimeRanges(value string) error {
	_, err := parseTimeRanges(value)
	return err
}

// NextSegment returns the earliest segment of the rule whose begin is at or
// after ref, or ok=false when the rule yields no further occurrence.
func NextSegment(day, times string, ref time.Time) (Segment, bool, error) {
	spec, err := parseDaySpec(day)
	if err != nil {
		return Segment{}, false, fmt.Errorf("invalid day specification %q: %w", day, err)
	}
	ranges, err := parseTimeRanges(times)
	if err != nil {
		return Segment{}, false, fmt.Errorf("invalid time ranges %q: %w", times, err)
	}

	loc := ref.Location()

	// An explicit date either yields a segment on that day or nothing at all
	if spec.kind == dayKindDate {
		day := time.Date(spec.year, spec.month, spec.day, 0, 0, 0, 0, loc)
		if seg, ok := earliestFrom(day, ranges, ref); ok {
			return seg, true, nil
		}
		return Segment{}, false, nil
	}

	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	for i := 0; i < maxScanDays; i++ {
		day := start.AddDate(0, 0, i)
		if !spec.matches(day) {
			continue
		}
		if seg, ok := earliestFrom(day, ranges, ref); ok {
			return seg, true, nil
		}
	}

	return Segment{}, false, nil
}

// earliestFrom materializes the ranges on the given day and returns the
// earliest segment beginning at or after ref. Ranges need not be sorted.
func earliestFrom(day time.Time, ranges []timeRange, ref time.Time) (Segment, bool) {
	var best Segment
	found := false
	for _, r := range ranges {
		seg := r.on(day)
		if seg.Begin.Before(ref) {
			continue
		}
		if !found || seg.Begin.Before(best.Begin) {
			best = seg
			found = true
		}
	}
	return best, found
}
