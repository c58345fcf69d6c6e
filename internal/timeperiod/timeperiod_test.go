package timeperiod

import (
	"testing"
	"time"
)

func TestParseDaySpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "weekday", spec: "monday", wantErr: false},
		{name: "weekday mixed case", spec: "Sunday", wantErr: false},
		{name: "weekday padded", spec: "  friday ", wantErr: false},
		{name: "month day", spec: "day 15", wantErr: false},
		{name: "month day from end", spec: "day -1", wantErr: false},
		{name: "iso date", spec: "2026-12-24", wantErr: false},
		{name: "cron selector", spec: "cron:0 0 * * MON", wantErr: false},
		{name: "cron descriptor", spec: "cron:@weekly", wantErr: false},
		{name: "empty", spec: "", wantErr: true},
		{name: "unknown word", spec: "frday", wantErr: true},
		{name: "day zero", spec: "day 0", wantErr: true},
		{name: "day out of range", spec: "day 32", wantErr: true},
		{name: "day not a number", spec: "day x", wantErr: true},
		{name: "bad iso date", spec: "2026-13-01", wantErr: true},
		{name: "bad cron", spec: "cron:not a cron", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseDaySpec(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDaySpec(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestParseTimeRanges(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "single range", value: "00:00-08:00", wantErr: false},
		{name: "multiple ranges", value: "02:00-04:00,22:00-24:00", wantErr: false},
		{name: "padded", value: " 09:00 - 17:00 ", wantErr: false},
		{name: "padded around comma", value: "02:00-04:00, 22:00-23:00", wantErr: false},
		{name: "midnight end", value: "22:00-24:00", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "missing dash", value: "00:00", wantErr: true},
		{name: "end before begin", value: "08:00-06:00", wantErr: true},
		{name: "equal bounds", value: "08:00-08:00", wantErr: true},
		{name: "begin at midnight end", value: "24:00-24:00", wantErr: true},
		{name: "past midnight", value: "23:00-25:00", wantErr: true},
		{name: "bad minute", value: "10:61-12:00", wantErr: true},
		{name: "not a time", value: "morning-noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseTimeRanges(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimeRanges(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestNextSegment(t *testing.T) {
	// 2026-08-24 is a Monday
	tuesday := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		day       string
		times     string
		ref       time.Time
		wantBegin time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{
			name:      "weekday from following day",
			day:       "monday",
			times:     "00:00-08:00",
			ref:       tuesday,
			wantBegin: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "begin equal to reference is kept",
			day:       "monday",
			times:     "00:00-08:00",
			ref:       time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			wantBegin: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "in-progress segment is skipped",
			day:       "monday",
			times:     "00:00-08:00",
			ref:       time.Date(2026, 8, 24, 6, 0, 0, 0, time.UTC),
			wantBegin: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "later span on the same day",
			day:       "monday",
			times:     "02:00-04:00,22:00-24:00",
			ref:       time.Date(2026, 8, 24, 5, 0, 0, 0, time.UTC),
			wantBegin: time.Date(2026, 8, 24, 22, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "unsorted spans pick the earliest",
			day:       "monday",
			times:     "22:00-23:00,06:00-08:00",
			ref:       tuesday,
			wantBegin: time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "month day in next month",
			day:       "day 15",
			times:     "09:00-17:00",
			ref:       time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			wantBegin: time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 15, 17, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "last day of month",
			day:       "day -1",
			times:     "00:00-01:00",
			ref:       time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			wantBegin: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "last day of february",
			day:       "day -1",
			times:     "00:00-01:00",
			ref:       time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			wantBegin: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 28, 1, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "future iso date",
			day:       "2026-12-24",
			times:     "18:00-24:00",
			ref:       tuesday,
			wantBegin: time.Date(2026, 12, 24, 18, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:   "past iso date yields nothing",
			day:    "2024-01-01",
			times:  "00:00-08:00",
			ref:    tuesday,
			wantOK: false,
		},
		{
			name:      "cron weekday selector",
			day:       "cron:0 0 * * MON",
			times:     "00:00-08:00",
			ref:       tuesday,
			wantBegin: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "cron day of month selector keeps range times",
			day:       "cron:0 12 1 * *",
			times:     "09:00-17:00",
			ref:       time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			wantBegin: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg, ok, err := NextSegment(tt.day, tt.times, tt.ref)
			if err != nil {
				t.Fatalf("NextSegment(%q, %q) unexpected error: %v", tt.day, tt.times, err)
			}
			if ok != tt.wantOK {
				t.Fatalf("NextSegment(%q, %q) ok = %v, want %v", tt.day, tt.times, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !seg.Begin.Equal(tt.wantBegin) {
				t.Errorf("begin = %v, want %v", seg.Begin, tt.wantBegin)
			}
			if !seg.End.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", seg.End, tt.wantEnd)
			}
		})
	}
}

func TestNextSegmentParseErrors(t *testing.T) {
	ref := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	if _, _, err := NextSegment("frday", "00:00-08:00", ref); err == nil {
		t.Error("expected error for bad day specification")
	}
	if _, _, err := NextSegment("monday", "junk", ref); err == nil {
		t.Error("expected error for bad time ranges")
	}
}
