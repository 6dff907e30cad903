package repositories

import (
	"TeleClinic/cache"
	"TeleClinic/database"
	"TeleClinic/models"
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

type PrescriptionRepository struct {
	cache *cache.Cache
}

func NewPrescriptionRepository(cache *cache.Cache) *PrescriptionRepository {
	return &PrescriptionRepository{cache: cache}
}

// Create attaches a prescription and its medicines to an appointment in one
// transaction. An appointment carries at most one prescription; a second
// attach returns ErrPrescriptionExists.
func (r *PrescriptionRepository) Create(ctx context.Context, prescription *models.Prescription, appointmentCode string) error {
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Prescription{}).
			Where("appointment_id = ?", prescription.AppointmentID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing prescription: %w", err)
		}
		if count > 0 {
			return ErrPrescriptionExists
		}
		if err := tx.Create(prescription).Error; err != nil {
			return fmt.Errorf("failed to create prescription: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, fmt.Sprintf("appointment_cache:%s", appointmentCode)); err != nil {
		log.Printf("Failed to delete appointment cache: %v", err)
	}
	return nil
}

// GetByAppointment loads the prescription attached to an appointment.
func (r *PrescriptionRepository) GetByAppointment(ctx context.Context, appointmentID uint) (*models.Prescription, error) {
	var prescription models.Prescription
	err := database.DB.WithContext(ctx).
		Preload("Medicines").
		First(&prescription, "appointment_id = ?", appointmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}
