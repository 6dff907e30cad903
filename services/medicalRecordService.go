package services

import (
	"TeleClinic/models"
	"TeleClinic/repositories"
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MedicalRecordInput is a patient-supplied history entry for an upcoming
// appointment.
type MedicalRecordInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	RecordDate    string `json:"record_date"`
	AttachmentURL string `json:"attachment_url"`
}

func (in MedicalRecordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.RecordDate, validation.Date(models.DateLayout)),
	)
}

// MedicalRecordService lets patients attach history to their appointments so
// the doctor can prepare.
type MedicalRecordService struct {
	recordRepo      *repositories.MedicalRecordRepository
	appointmentRepo *repositories.AppointmentRepository
}

func NewMedicalRecordService(
	recordRepo *repositories.MedicalRecordRepository,
	appointmentRepo *repositories.AppointmentRepository,
) *MedicalRecordService {
	return &MedicalRecordService{
		recordRepo:      recordRepo,
		appointmentRepo: appointmentRepo,
	}
}

// Attach adds a record to an appointment that has not been held yet.
func (s *MedicalRecordService) Attach(ctx context.Context, code, patientID string, in MedicalRecordInput) (*models.MedicalRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, ErrNotParticipant
	}
	if appointment.Status != models.StatusPending && appointment.Status != models.StatusAccepted {
		return nil, ErrForbiddenTransition
	}

	record := &models.MedicalRecord{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		Title:         in.Title,
		Description:   in.Description,
		RecordDate:    in.RecordDate,
		AttachmentURL: in.AttachmentURL,
	}
	if err := s.recordRepo.Create(ctx, record, appointment.Code); err != nil {
		return nil, err
	}
	return record, nil
}

// History returns a patient's records, visible to the patient themselves and
// to admins.
func (s *MedicalRecordService) History(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	return s.recordRepo.ListByPatient(ctx, patientID)
}

// Delete removes a record the patient attached.
func (s *MedicalRecordService) Delete(ctx context.Context, id uint, patientID string) error {
	record, err := s.recordRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if record.PatientID != patientID {
		return ErrNotParticipant
	}
	return s.recordRepo.Delete(ctx, id)
}
