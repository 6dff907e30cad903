package services

import (
	"TeleClinic/models"
	"TeleClinic/repositories"
	"TeleClinic/utils"
	"context"
	"strings"
	"time"
)

// PrescriptionService attaches prescriptions to completed appointments.
type PrescriptionService struct {
	prescriptionRepo *repositories.PrescriptionRepository
	appointmentRepo  *repositories.AppointmentRepository
}

func NewPrescriptionService(
	prescriptionRepo *repositories.PrescriptionRepository,
	appointmentRepo *repositories.AppointmentRepository,
) *PrescriptionService {
	return &PrescriptionService{
		prescriptionRepo: prescriptionRepo,
		appointmentRepo:  appointmentRepo,
	}
}

// Attach writes the prescription for a completed appointment. The attach
// happens at most once; there is no update or delete path.
func (s *PrescriptionService) Attach(ctx context.Context, code, doctorID string, in utils.PrescriptionInput) (*models.Prescription, error) {
	if err := utils.ValidatePrescriptionInput(in); err != nil {
		return nil, err
	}

	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotParticipant
	}
	if appointment.Status != models.StatusCompleted {
		return nil, ErrForbiddenTransition
	}

	prescription := &models.Prescription{
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		PatientID:     appointment.PatientID,
		Diagnosis:     in.Diagnosis,
		LabTests:      strings.Join(in.LabTests, ", "),
		Advice:        in.Advice,
		Notes:         in.Notes,
		SignatureURL:  in.SignatureURL,
	}
	if in.FollowUpDate != "" {
		followUp, err := time.Parse(models.DateLayout, in.FollowUpDate)
		if err == nil {
			prescription.FollowUpDate = &followUp
		}
	}
	for _, med := range in.Medicines {
		prescription.Medicines = append(prescription.Medicines, models.Medicine{
			Name:         med.Name,
			Dosage:       med.Dosage,
			Frequency:    med.Frequency,
			Duration:     med.Duration,
			Instructions: med.Instructions,
		})
	}

	if err := s.prescriptionRepo.Create(ctx, prescription, appointment.Code); err != nil {
		return nil, err
	}

	utils.NotifyAppointment(appointment.Patient.Email, "Prescription ready",
		"Your prescription for appointment "+appointment.Code+" is ready.")
	return prescription, nil
}

// GetForAppointment loads the prescription of an appointment, restricted to
// its participants.
func (s *PrescriptionService) GetForAppointment(ctx context.Context, code, actorRole, actorProfileID string) (*models.Prescription, error) {
	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := requireAppointmentAccess(appointment, actorRole, actorProfileID); err != nil {
		return nil, err
	}
	return s.prescriptionRepo.GetByAppointment(ctx, appointment.ID)
}

func requireAppointmentAccess(appointment *models.Appointment, actorRole, actorProfileID string) error {
	switch actorRole {
	case models.ActorAdmin:
		return nil
	case models.ActorDoctor:
		if appointment.DoctorID == actorProfileID {
			return nil
		}
	case models.ActorPatient:
		if appointment.PatientID == actorProfileID {
			return nil
		}
	}
	return ErrNotParticipant
}
