package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestScheduleCoversDateRecurring(t *testing.T) {
	until := date("2025-06-30")
	s := Schedule{
		IsRecurring:    true,
		RecurrenceDays: "Mon,Tue,Wed",
		Until:          &until,
		Exceptions:     []ScheduleException{{Date: "2025-06-10"}},
	}

	assert.True(t, s.CoversDate(date("2025-06-09")))  // Monday
	assert.True(t, s.CoversDate(date("2025-06-11")))  // Wednesday
	assert.False(t, s.CoversDate(date("2025-06-12"))) // Thursday, not in rule
	assert.False(t, s.CoversDate(date("2025-06-10"))) // Tuesday, but excepted
	assert.False(t, s.CoversDate(date("2025-07-01"))) // Tuesday, past until
}

func TestScheduleCoversDateOneOff(t *testing.T) {
	s := Schedule{IsRecurring: false, Date: "2025-06-10"}

	assert.True(t, s.CoversDate(date("2025-06-10")))
	assert.False(t, s.CoversDate(date("2025-06-11")))
}

func TestScheduleExpired(t *testing.T) {
	until := date("2025-06-30")
	cases := []struct {
		name    string
		s       Schedule
		today   string
		expired bool
	}{
		{"one-off in future", Schedule{Date: "2025-06-10"}, "2025-06-01", false},
		{"one-off same day", Schedule{Date: "2025-06-10"}, "2025-06-10", false},
		{"one-off past", Schedule{Date: "2025-06-10"}, "2025-06-11", true},
		{"recurring no until", Schedule{IsRecurring: true, RecurrenceDays: "Fri"}, "2030-01-01", false},
		{"recurring until future", Schedule{IsRecurring: true, Until: &until}, "2025-06-15", false},
		{"recurring until past", Schedule{IsRecurring: true, Until: &until}, "2025-07-01", true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.s.Expired(date(tt.today)))
		})
	}
}
