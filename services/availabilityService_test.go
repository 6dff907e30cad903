package services

import (
	"TeleClinic/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondaySchedule() *models.Schedule {
	return &models.Schedule{
		DoctorID:       "DR-000001",
		IsRecurring:    true,
		RecurrenceDays: "Mon,Wed,Fri",
		StartTime:      "09:00",
		EndTime:        "12:00",
		SlotDuration:   30,
		Active:         true,
	}
}

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestBuildSlotsGeneratesWorkingWindow(t *testing.T) {
	now := monday.Add(-24 * time.Hour)
	slots := BuildSlots(mondaySchedule(), monday, time.UTC, nil, now)

	require.Len(t, slots, 6)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "11:30", slots[5].Time)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), slots[0].StartAt)
}

func TestBuildSlotsSkipsBreaks(t *testing.T) {
	s := mondaySchedule()
	s.Breaks = []models.ScheduleBreak{{StartTime: "10:00", EndTime: "11:00"}}

	slots := BuildSlots(s, monday, time.UTC, nil, monday.Add(-time.Hour))

	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.Time)
	}
	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, times)
}

func TestBuildSlotsExcludesBookedInstants(t *testing.T) {
	booked := []time.Time{time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)}

	slots := BuildSlots(mondaySchedule(), monday, time.UTC, booked, monday.Add(-time.Hour))

	for _, slot := range slots {
		assert.NotEqual(t, "09:30", slot.Time)
	}
	assert.Len(t, slots, 5)
}

func TestBuildSlotsExcludesPastTimes(t *testing.T) {
	// It is already 10:15 on the requested day.
	now := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)

	slots := BuildSlots(mondaySchedule(), monday, time.UTC, nil, now)

	require.NotEmpty(t, slots)
	assert.Equal(t, "10:30", slots[0].Time)
}

func TestBuildSlotsOffDay(t *testing.T) {
	tuesday := monday.Add(24 * time.Hour)
	assert.Empty(t, BuildSlots(mondaySchedule(), tuesday, time.UTC, nil, monday))
}

func TestBuildSlotsExceptionDateWins(t *testing.T) {
	s := mondaySchedule()
	s.Exceptions = []models.ScheduleException{{Date: "2026-03-02"}}
	assert.Empty(t, BuildSlots(s, monday, time.UTC, nil, monday.Add(-time.Hour)))
}

func TestBuildSlotsOneOffSchedule(t *testing.T) {
	s := &models.Schedule{
		DoctorID:     "DR-000001",
		IsRecurring:  false,
		Date:         "2026-03-02",
		StartTime:    "14:00",
		EndTime:      "15:00",
		SlotDuration: 20,
		Active:       true,
	}

	slots := BuildSlots(s, monday, time.UTC, nil, monday)
	require.Len(t, slots, 3)
	assert.Equal(t, "14:00", slots[0].Time)

	// The day after, the one-off schedule produces nothing.
	assert.Empty(t, BuildSlots(s, monday.Add(24*time.Hour), time.UTC, nil, monday))
}

func TestBuildSlotsRespectsUntil(t *testing.T) {
	s := mondaySchedule()
	until := monday.Add(-7 * 24 * time.Hour)
	s.Until = &until
	assert.Empty(t, BuildSlots(s, monday, time.UTC, nil, monday.Add(-time.Hour)))
}

func TestBuildSlotsClinicTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	slots := BuildSlots(mondaySchedule(), day, loc, nil, day.Add(-time.Hour))

	require.NotEmpty(t, slots)
	// 09:00 IST is 03:30 UTC; StartAt is always the canonical UTC instant.
	assert.Equal(t, time.Date(2026, 3, 2, 3, 30, 0, 0, time.UTC), slots[0].StartAt)
	assert.Equal(t, "09:00", slots[0].Time)
}
