package timeperiod

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type dayKind int

const (
	dayKindWeekday dayKind = iota
	dayKindMonthDay
	dayKindDate
	dayKindCron
)

// daySpec is a parsed day specification
type daySpec struct {
	kind     dayKind
	weekday  time.Weekday
	monthDay int // 1..31, or negative counting from the month's end
	year     int
	month    time.Month
	day      int
	cron     cron.Schedule
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseDaySpec parses one of the accepted day specification forms:
// a weekday name, "day N" / "day -N", an ISO date, or "cron:<expr>"
// where the cron expression selects the days it fires on.
func parseDaySpec(spec string) (*daySpec, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return nil, errors.New("empty day specification")
	}

	if expr, ok := strings.CutPrefix(s, "cron:"); ok {
		sched, err := cron.ParseStandard(strings.TrimSpace(expr))
		if err != nil {
			return nil, fmt.Errorf("invalid cron expression: %w", err)
		}
		return &daySpec{kind: dayKindCron, cron: sched}, nil
	}

	lower := strings.ToLower(s)

	if wd, ok := weekdays[lower]; ok {
		return &daySpec{kind: dayKindWeekday, weekday: wd}, nil
	}

	if fields := strings.Fields(lower); len(fields) == 2 && fields[0] == "day" {
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid month day %q", fields[1])
		}
		if n == 0 || n > 31 || n < -31 {
			return nil, fmt.Errorf("month day %d out of range", n)
		}
		return &daySpec{kind: dayKindMonthDay, monthDay: n}, nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &daySpec{kind: dayKindDate, year: t.Year(), month: t.Month(), day: t.Day()}, nil
	}

	return nil, errors.New("unknown day specification")
}

// matches reports whether the spec selects the calendar day starting at day.
// The argument must be midnight in the evaluation location.
func (d *daySpec) matches(day time.Time) bool {
	switch d.kind {
	case dayKindWeekday:
		return day.Weekday() == d.weekday
	case dayKindMonthDay:
		if d.monthDay > 0 {
			return day.Day() == d.monthDay
		}
		return day.Day() == daysInMonth(day)+d.monthDay+1
	case dayKindDate:
		return day.Year() == d.year && day.Month() == d.month && day.Day() == d.day
	case dayKindCron:
		// The expression matches the day when it fires somewhere within it
		next := d.cron.Next(day.Add(-time.Second))
		return !next.IsZero() && !next.Before(day) && next.Before(day.AddDate(0, 0, 1))
	}
	return false
}

func daysInMonth(day time.Time) int {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return first.AddDate(0, 1, -1).Day()
}
