package services

import (
	"TeleClinic/models"
	"TeleClinic/repositories"
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrScheduleWindow means the end time does not come after the start time.
var ErrScheduleWindow = errors.New("schedule end time must be after start time")

// ScheduleBreakInput is a daily window excluded from slot generation.
type ScheduleBreakInput struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ScheduleInput is the doctor-supplied working pattern.
type ScheduleInput struct {
	IsRecurring    bool                 `json:"is_recurring"`
	RecurrenceDays string               `json:"recurrence_days"`
	Until          string               `json:"until"`
	Date           string               `json:"date"`
	StartTime      string               `json:"start_time"`
	EndTime        string               `json:"end_time"`
	SlotDuration   int                  `json:"slot_duration"`
	Breaks         []ScheduleBreakInput `json:"breaks"`
}

// Validate applies the structural rules; the window ordering is checked
// separately because ozzo rules cannot compare two fields.
func (in ScheduleInput) Validate() error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.StartTime, validation.Required, validation.Date(models.TimeLayout)),
		validation.Field(&in.EndTime, validation.Required, validation.Date(models.TimeLayout)),
		validation.Field(&in.SlotDuration, validation.Required, validation.Min(5), validation.Max(240)),
		validation.Field(&in.RecurrenceDays, validation.Required.When(in.IsRecurring)),
		validation.Field(&in.Date, validation.Required.When(!in.IsRecurring), validation.Date(models.DateLayout)),
		validation.Field(&in.Until, validation.Date(models.DateLayout)),
	); err != nil {
		return err
	}
	if in.EndTime <= in.StartTime {
		return ErrScheduleWindow
	}
	for _, b := range in.Breaks {
		if err := validation.ValidateStruct(&b,
			validation.Field(&b.StartTime, validation.Required, validation.Date(models.TimeLayout)),
			validation.Field(&b.EndTime, validation.Required, validation.Date(models.TimeLayout)),
		); err != nil {
			return err
		}
		if b.EndTime <= b.StartTime {
			return ErrScheduleWindow
		}
	}
	return nil
}

// ScheduleService manages doctor availability schedules.
type ScheduleService struct {
	scheduleRepo *repositories.ScheduleRepository
}

func NewScheduleService(scheduleRepo *repositories.ScheduleRepository) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo}
}

// Create activates a new schedule for the doctor.
func (s *ScheduleService) Create(ctx context.Context, doctorID string, in ScheduleInput) (*models.Schedule, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		DoctorID:       doctorID,
		IsRecurring:    in.IsRecurring,
		RecurrenceDays: in.RecurrenceDays,
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		SlotDuration:   in.SlotDuration,
		Active:         true,
	}
	if in.Until != "" {
		until, err := time.Parse(models.DateLayout, in.Until)
		if err == nil {
			schedule.Until = &until
		}
	}
	for _, b := range in.Breaks {
		schedule.Breaks = append(schedule.Breaks, models.ScheduleBreak{
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *ScheduleService) GetActive(ctx context.Context, doctorID string) (*models.Schedule, error) {
	return s.scheduleRepo.GetActive(ctx, doctorID)
}

func (s *ScheduleService) ListByDoctor(ctx context.Context, doctorID string) ([]models.Schedule, error) {
	return s.scheduleRepo.ListByDoctor(ctx, doctorID)
}

func (s *ScheduleService) Deactivate(ctx context.Context, doctorID string, scheduleID uint) error {
	return s.scheduleRepo.Deactivate(ctx, doctorID, scheduleID)
}

// BlockDate marks a calendar date as unavailable on the active schedule.
func (s *ScheduleService) BlockDate(ctx context.Context, doctorID, date string) error {
	if err := validation.Validate(date, validation.Required, validation.Date(models.DateLayout)); err != nil {
		return err
	}
	schedule, err := s.scheduleRepo.GetActive(ctx, doctorID)
	if err != nil {
		return err
	}
	return s.scheduleRepo.AddException(ctx, &models.ScheduleException{
		ScheduleID: schedule.ID,
		Date:       date,
	})
}
