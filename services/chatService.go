package services

import (
	"TeleClinic/models"
	"TeleClinic/repositories"
	"context"
	"errors"
	"strings"
)

// ChatAccessService authorizes websocket chat joins. A chat belongs to one
// appointment; only its patient, its doctor, and admins may join, and only
// while the appointment is still live.
type ChatAccessService struct {
	appointmentRepo *repositories.AppointmentRepository
	doctorRepo      *repositories.DoctorRepository
	patientRepo     *repositories.PatientRepository
}

func NewChatAccessService(
	appointmentRepo *repositories.AppointmentRepository,
	doctorRepo *repositories.DoctorRepository,
	patientRepo *repositories.PatientRepository,
) *ChatAccessService {
	return &ChatAccessService{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
	}
}

// CanAccessChat implements chat.Authorizer.
func (s *ChatAccessService) CanAccessChat(ctx context.Context, chatID string, userID int64, role string) (bool, error) {
	code := strings.TrimPrefix(chatID, "appointment:")
	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !appointment.HoldsSlot() {
		return false, nil
	}

	switch role {
	case models.ActorAdmin:
		return true, nil
	case models.ActorDoctor:
		doctor, err := s.doctorRepo.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return doctor.ID == appointment.DoctorID, nil
	case models.ActorPatient:
		patient, err := s.patientRepo.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return patient.ID == appointment.PatientID, nil
	}
	return false, nil
}
