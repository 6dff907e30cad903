package models

import (
	"strings"
	"time"
)

// Schedule model. A doctor has at most one active, non-expired schedule; the
// repository rejects creating a second one.
type Schedule struct {
	ID             uint                `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	DoctorID       string              `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	IsRecurring    bool                `gorm:"column:is_recurring;not null" json:"is_recurring"`
	RecurrenceDays string              `gorm:"column:recurrence_days" json:"recurrence_days"`
	Until          *time.Time          `gorm:"column:until" json:"until,omitempty"`
	Date           string              `gorm:"column:date" json:"date,omitempty"`
	StartTime      string              `gorm:"column:start_time;not null" json:"start_time"`
	EndTime        string              `gorm:"column:end_time;not null" json:"end_time"`
	SlotDuration   int                 `gorm:"column:slot_duration;not null" json:"slot_duration"`
	Active         bool                `gorm:"column:active;not null;default:true;index" json:"active"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Breaks         []ScheduleBreak     `gorm:"foreignKey:ScheduleID;references:ID" json:"breaks"`
	Exceptions     []ScheduleException `gorm:"foreignKey:ScheduleID;references:ID" json:"exceptions"`
	Doctor         Doctor              `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

func (Schedule) TableName() string {
	return "schedule"
}

// ScheduleBreak model: a daily window excluded from slot generation.
type ScheduleBreak struct {
	ID         uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ScheduleID uint   `gorm:"column:schedule_id;not null;index" json:"schedule_id"`
	StartTime  string `gorm:"column:start_time;not null" json:"start_time"`
	EndTime    string `gorm:"column:end_time;not null" json:"end_time"`
}

func (ScheduleBreak) TableName() string {
	return "schedule_break"
}

// ScheduleException model: a calendar date the doctor is unavailable despite
// the recurrence rule.
type ScheduleException struct {
	ID         uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ScheduleID uint   `gorm:"column:schedule_id;not null;index" json:"schedule_id"`
	Date       string `gorm:"column:date;not null" json:"date"`
}

func (ScheduleException) TableName() string {
	return "schedule_exception"
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for times of day.
const TimeLayout = "15:04"

// Expired reports whether the schedule can no longer produce slots on or after
// the given day.
func (s *Schedule) Expired(today time.Time) bool {
	day := today.Format(DateLayout)
	if !s.IsRecurring {
		return s.Date < day
	}
	if s.Until == nil {
		return false
	}
	return s.Until.Format(DateLayout) < day
}

// CoversDate reports whether the schedule produces slots on the given date,
// before booked-slot exclusion.
func (s *Schedule) CoversDate(date time.Time) bool {
	day := date.Format(DateLayout)
	for _, ex := range s.Exceptions {
		if ex.Date == day {
			return false
		}
	}
	if !s.IsRecurring {
		return s.Date == day
	}
	if s.Until != nil && s.Until.Format(DateLayout) < day {
		return false
	}
	weekday := date.Weekday().String()[:3]
	for _, d := range strings.Split(s.RecurrenceDays, ",") {
		if strings.EqualFold(strings.TrimSpace(d), weekday) {
			return true
		}
	}
	return false
}
