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

type MedicalRecordRepository struct {
	cache *cache.Cache
}

func NewMedicalRecordRepository(cache *cache.Cache) *MedicalRecordRepository {
	return &MedicalRecordRepository{cache: cache}
}

// Create adds a medical record to an appointment.
func (r *MedicalRecordRepository) Create(ctx context.Context, record *models.MedicalRecord, appointmentCode string) error {
	if err := database.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	if err := r.cache.Delete(ctx, fmt.Sprintf("appointment_cache:%s", appointmentCode)); err != nil {
		log.Printf("Failed to delete appointment cache: %v", err)
	}
	return nil
}

// ListByPatient returns a patient's medical history, newest first.
func (r *MedicalRecordRepository) ListByPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	var records []models.MedicalRecord
	err := database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("record_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

// Get loads a single record.
func (r *MedicalRecordRepository) Get(ctx context.Context, id uint) (*models.MedicalRecord, error) {
	var record models.MedicalRecord
	err := database.DB.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return &record, nil
}

// Delete removes a record.
func (r *MedicalRecordRepository) Delete(ctx context.Context, id uint) error {
	res := database.DB.WithContext(ctx).Delete(&models.MedicalRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete medical record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
