package timeperiod

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeRange is one time-of-day span, in minutes from midnight.
// end may be 1440 ("24:00"), meaning midnight of the following day.
type timeRange struct {
	begin int
	end   int
}

// parseTimeRanges parses a comma-separated list of "HH:MM-HH:MM" spans
func parseTimeRanges(value string) ([]timeRange, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, errors.New("empty time ranges")
	}

	parts := strings.Split(v, ",")
	ranges := make([]timeRange, 0, len(parts))
	for _, part := range parts {
		r, err := parseTimeRange(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func parseTimeRange(part string) (timeRange, error) {
	begin, end, ok := strings.Cut(part, "-")
	if !ok {
		return timeRange{}, fmt.Errorf("malformed range %q, expected HH:MM-HH:MM", part)
	}

	b, err := parseMinutes(strings.TrimSpace(begin))
	if err != nil {
		return timeRange{}, err
	}
	e, err := parseMinutes(strings.TrimSpace(end))
	if err != nil {
		return timeRange{}, err
	}
	if b >= minutesPerDay {
		return timeRange{}, fmt.Errorf("range begin %q must be before 24:00", begin)
	}
	if e <= b {
		return timeRange{}, fmt.Errorf("range end %q must be after begin %q", end, begin)
	}
	return timeRange{begin: b, end: e}, nil
}

const minutesPerDay = 24 * 60

func parseMinutes(clock string) (int, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("malformed time %q, expected HH:MM", clock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	total := h*60 + m
	if total > minutesPerDay {
		return 0, fmt.Errorf("time %q is past 24:00", clock)
	}
	return total, nil
}

// on materializes the range on the calendar day starting at day (midnight in
// the evaluation location). Minute offsets convert through time.Date so the
// wall clock stays right across DST changes, and 24:00 lands on the next
// day's midnight.
func (r timeRange) on(day time.Time) Segment {
	return Segment{
		Begin: time.Date(day.Year(), day.Month(), day.Day(), 0, r.begin, 0, 0, day.Location()),
		End:   time.Date(day.Year(), day.Month(), day.Day(), 0, r.end, 0, 0, day.Location()),
	}
}
