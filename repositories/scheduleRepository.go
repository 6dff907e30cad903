package repositories

import (
	"TeleClinic/cache"
	"TeleClinic/database"
	"TeleClinic/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

const ScheduleCacheExpiry = 24 * time.Hour

type ScheduleRepository struct {
	cache *cache.Cache
}

func NewScheduleRepository(cache *cache.Cache) *ScheduleRepository {
	return &ScheduleRepository{cache: cache}
}

func scheduleLockKey(doctorID string) string {
	return fmt.Sprintf("schedule_lock:%s", doctorID)
}

// Create stores a new schedule. A doctor holds at most one active schedule;
// a second active one is refused with ErrActiveScheduleExists.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	release, err := acquireLock(ctx, scheduleLockKey(schedule.DoctorID))
	if err != nil {
		return err
	}
	defer release()

	if schedule.Active {
		var count int64
		err := database.DB.WithContext(ctx).Model(&models.Schedule{}).
			Where("doctor_id = ? AND active = ?", schedule.DoctorID, true).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check active schedules: %w", err)
		}
		if count > 0 {
			return ErrActiveScheduleExists
		}
	}

	if err := database.DB.WithContext(ctx).Create(schedule).Error; err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	r.invalidate(ctx, schedule.DoctorID)
	return nil
}

// GetActive returns the doctor's active schedule with breaks and exceptions.
func (r *ScheduleRepository) GetActive(ctx context.Context, doctorID string) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getScheduleCacheKey(doctorID)
	var cached models.Schedule
	if found, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		log.Printf("Failed to get schedule from cache: %v", err)
	}

	var schedule models.Schedule
	err := database.DB.WithContext(ctx).
		Preload("Breaks").
		Preload("Exceptions").
		Where("doctor_id = ? AND active = ?", doctorID, true).
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, schedule, ScheduleCacheExpiry); err != nil {
		log.Printf("Failed to set schedule in cache: %v", err)
	}
	return &schedule, nil
}

// ListByDoctor returns every schedule of a doctor, active or not.
func (r *ScheduleRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := database.DB.WithContext(ctx).
		Preload("Breaks").
		Preload("Exceptions").
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// Update replaces the mutable fields of a schedule.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	release, err := acquireLock(ctx, scheduleLockKey(schedule.DoctorID))
	if err != nil {
		return err
	}
	defer release()

	if schedule.Active {
		var count int64
		err := database.DB.WithContext(ctx).Model(&models.Schedule{}).
			Where("doctor_id = ? AND active = ? AND id <> ?", schedule.DoctorID, true, schedule.ID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check active schedules: %w", err)
		}
		if count > 0 {
			return ErrActiveScheduleExists
		}
	}

	err = database.DB.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).
		Save(schedule).Error
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	r.invalidate(ctx, schedule.DoctorID)
	return nil
}

// Deactivate turns a schedule off without deleting its history.
func (r *ScheduleRepository) Deactivate(ctx context.Context, doctorID string, scheduleID uint) error {
	res := database.DB.WithContext(ctx).Model(&models.Schedule{}).
		Where("id = ? AND doctor_id = ?", scheduleID, doctorID).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate schedule: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx, doctorID)
	return nil
}

// AddException blocks or opens a single date on the schedule.
func (r *ScheduleRepository) AddException(ctx context.Context, exception *models.ScheduleException) error {
	if err := database.DB.WithContext(ctx).Create(exception).Error; err != nil {
		return fmt.Errorf("failed to add schedule exception: %w", err)
	}
	var schedule models.Schedule
	if err := database.DB.WithContext(ctx).Select("doctor_id").First(&schedule, exception.ScheduleID).Error; err == nil {
		r.invalidate(ctx, schedule.DoctorID)
	}
	return nil
}

func (r *ScheduleRepository) invalidate(ctx context.Context, doctorID string) {
	if err := r.cache.Delete(ctx, r.getScheduleCacheKey(doctorID)); err != nil {
		log.Printf("Failed to delete schedule cache: %v", err)
	}
	if err := r.cache.DeleteAll(ctx, fmt.Sprintf("slots_cache:%s_*", doctorID)); err != nil {
		log.Printf("Failed to invalidate slot caches: %v", err)
	}
}

func (r *ScheduleRepository) getScheduleCacheKey(doctorID string) string {
	return fmt.Sprintf("schedule_cache:%s", doctorID)
}
