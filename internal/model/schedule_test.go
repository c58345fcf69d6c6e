package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchedule() *DowntimeSchedule {
	return &DowntimeSchedule{
		HostName:  "web-01",
		ShortName: "nightly",
		Ranges: []RangeRule{
			{Day: "monday", Times: "00:00-08:00"},
		},
		Fixed:   true,
		Enabled: true,
	}
}

func TestComposeName(t *testing.T) {
	s := &DowntimeSchedule{HostName: "web-01", ShortName: "nightly"}
	assert.Equal(t, "web-01!nightly", s.ComposeName())

	s.ServiceName = "http"
	assert.Equal(t, "web-01!http!nightly", s.ComposeName())
}

func TestScheduleValidate_Valid(t *testing.T) {
	s := validSchedule()
	s.Duration = 3600 // Ignored for fixed schedules

	require.NoError(t, s.Validate())

	assert.Zero(t, s.Duration)
	assert.False(t, s.Metadata.CreatedAt.IsZero())
	assert.False(t, s.Metadata.UpdatedAt.IsZero())
}

func TestScheduleValidate_TrimsWhitespace(t *testing.T) {
	s := validSchedule()
	s.HostName = "  web-01  "
	s.ShortName = " nightly "

	require.NoError(t, s.Validate())

	assert.Equal(t, "web-01", s.HostName)
	assert.Equal(t, "web-01!nightly", s.ComposeName())
}

func TestScheduleValidate_AggregatesRuleErrors(t *testing.T) {
	s := validSchedule()
	s.Ranges = []RangeRule{
		{Day: "someday", Times: "09:00-10:00"},
		{Day: "monday", Times: "25:00-26:00"},
		{Day: "funday", Times: "whenever"},
	}

	err := s.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))

	// One bad day, one bad range, and a rule with both wrong
	require.Len(t, verrs.Errors, 4)
	assert.Contains(t, verrs.Errors[0].Message, "invalid time specification 'someday'")
	assert.Contains(t, verrs.Errors[1].Message, "invalid time range definition '25:00-26:00'")
	assert.Contains(t, verrs.Errors[2].Message, "invalid time specification 'funday'")
	assert.Contains(t, verrs.Errors[3].Message, "invalid time range definition 'whenever'")
}

func TestScheduleValidate_StructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DowntimeSchedule)
	}{
		{"missing host name", func(s *DowntimeSchedule) { s.HostName = "" }},
		{"host name with separator", func(s *DowntimeSchedule) { s.HostName = "web!01" }},
		{"service name with separator", func(s *DowntimeSchedule) { s.ServiceName = "ht!tp" }},
		{"missing short name", func(s *DowntimeSchedule) { s.ShortName = "" }},
		{"short name with separator", func(s *DowntimeSchedule) { s.ShortName = "night!ly" }},
		{"no range rules", func(s *DowntimeSchedule) { s.Ranges = nil }},
		{"flexible without duration", func(s *DowntimeSchedule) { s.Fixed = false; s.Duration = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchedule()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}
