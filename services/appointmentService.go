package services

import (
	"TeleClinic/models"
	"TeleClinic/payments"
	"TeleClinic/repositories"
	"TeleClinic/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	// ErrForbiddenTransition means the action is not legal for this actor in
	// the appointment's current status.
	ErrForbiddenTransition = errors.New("action not allowed in current status")
	// ErrPaymentIncomplete blocks accepting a booking that was never paid.
	ErrPaymentIncomplete = errors.New("appointment payment is not settled")
	// ErrNotParticipant means the caller is neither side of the appointment.
	ErrNotParticipant = errors.New("not a participant of this appointment")
)

// AppointmentService drives the lifecycle of booked appointments: accept,
// cancel, complete, reschedule, and review.
type AppointmentService struct {
	appointmentRepo *repositories.AppointmentRepository
	availability    *AvailabilityService
	gateway         *payments.Client
}

func NewAppointmentService(
	appointmentRepo *repositories.AppointmentRepository,
	availability *AvailabilityService,
	gateway *payments.Client,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		availability:    availability,
		gateway:         gateway,
	}
}

func (s *AppointmentService) GetByCode(ctx context.Context, code string) (*models.Appointment, error) {
	return s.appointmentRepo.GetByCode(ctx, code)
}

// GetForActor loads an appointment only if the actor is one of its
// participants or an admin.
func (s *AppointmentService) GetForActor(ctx context.Context, code, actorRole, actorProfileID string) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := requireAppointmentAccess(appointment, actorRole, actorProfileID); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentService) List(ctx context.Context, filter repositories.ListFilter) ([]models.Appointment, error) {
	return s.appointmentRepo.List(ctx, filter)
}

// Accept confirms a paid pending booking. Only the appointment's own doctor
// may accept, and only once the payment settled.
func (s *AppointmentService) Accept(ctx context.Context, code, doctorID string) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotParticipant
	}
	if !models.CanTransition(appointment.Status, models.ActionAccept, models.ActorDoctor) {
		return nil, ErrForbiddenTransition
	}
	if appointment.PaymentStatus != models.PaymentCompleted && appointment.PaymentStatus != models.PaymentAnonymous {
		return nil, ErrPaymentIncomplete
	}

	err = s.appointmentRepo.UpdateStatus(ctx, appointment, models.StatusPending, models.StatusAccepted, nil)
	if err != nil {
		return nil, err
	}

	utils.NotifyAppointment(appointment.Patient.Email, "Appointment confirmed",
		fmt.Sprintf("Your appointment %s on %s at %s has been confirmed.",
			appointment.Code, appointment.Date, appointment.Time))
	return appointment, nil
}

// Cancel cancels a pending or accepted appointment on behalf of a patient,
// the doctor, or an admin. A settled payment is refunded.
func (s *AppointmentService) Cancel(ctx context.Context, code, actorRole, actorProfileID, reason string) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := requireAppointmentAccess(appointment, actorRole, actorProfileID); err != nil {
		return nil, err
	}
	if !models.CanTransition(appointment.Status, models.ActionCancel, actorRole) {
		return nil, ErrForbiddenTransition
	}

	err = s.appointmentRepo.UpdateStatus(ctx, appointment, appointment.Status, models.StatusCancelled,
		map[string]interface{}{"cancel_reason": reason})
	if err != nil {
		return nil, err
	}

	s.refundIfPaid(ctx, appointment)
	utils.NotifyAppointment(appointment.Patient.Email, "Appointment cancelled",
		fmt.Sprintf("Appointment %s on %s at %s was cancelled.",
			appointment.Code, appointment.Date, appointment.Time))
	return appointment, nil
}

// CancelByProvider is the doctor backing out of an accepted appointment. It
// is tracked separately from a plain cancellation and always refunds.
func (s *AppointmentService) CancelByProvider(ctx context.Context, code, doctorID, reason string) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotParticipant
	}
	if !models.CanTransition(appointment.Status, models.ActionCancelByProvider, models.ActorDoctor) {
		return nil, ErrForbiddenTransition
	}

	err = s.appointmentRepo.UpdateStatus(ctx, appointment, models.StatusAccepted, models.StatusCancelledByProvider,
		map[string]interface{}{"cancel_reason": reason})
	if err != nil {
		return nil, err
	}

	s.refundIfPaid(ctx, appointment)
	utils.NotifyAppointment(appointment.Patient.Email, "Appointment cancelled by the doctor",
		fmt.Sprintf("Your appointment %s on %s at %s was cancelled by the doctor. Any payment will be refunded.",
			appointment.Code, appointment.Date, appointment.Time))
	return appointment, nil
}

// Complete marks an accepted appointment as held.
func (s *AppointmentService) Complete(ctx context.Context, code, doctorID string) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotParticipant
	}
	if !models.CanTransition(appointment.Status, models.ActionComplete, models.ActorDoctor) {
		return nil, ErrForbiddenTransition
	}
	err = s.appointmentRepo.UpdateStatus(ctx, appointment, models.StatusAccepted, models.StatusCompleted, nil)
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// Reschedule moves an accepted appointment to a new future slot. The status
// does not change and the payment is untouched.
func (s *AppointmentService) Reschedule(ctx context.Context, code, doctorID string, in utils.RescheduleInput) (*models.Appointment, error) {
	if err := utils.ValidateRescheduleInput(in); err != nil {
		return nil, err
	}

	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotParticipant
	}
	if appointment.Status != models.StatusAccepted {
		return nil, ErrForbiddenTransition
	}

	startAt, err := s.availability.ResolveSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	if !startAt.After(time.Now()) {
		return nil, ErrSlotInPast
	}

	err = s.appointmentRepo.Reschedule(ctx, appointment, in.Date, in.Time, startAt, in.Reason)
	if err != nil {
		return nil, err
	}

	utils.NotifyAppointment(appointment.Patient.Email, "Appointment rescheduled",
		fmt.Sprintf("Appointment %s was moved to %s at %s. Reason: %s",
			appointment.Code, in.Date, in.Time, in.Reason))
	return appointment, nil
}

// Review attaches the patient's rating to a completed appointment.
func (s *AppointmentService) Review(ctx context.Context, code, patientID string, in utils.ReviewInput) (*models.Appointment, error) {
	if err := utils.ValidateReviewInput(in); err != nil {
		return nil, err
	}

	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, ErrNotParticipant
	}
	if appointment.Status != models.StatusCompleted {
		return nil, ErrForbiddenTransition
	}

	if err := s.appointmentRepo.SetReview(ctx, appointment, in.Rating, in.Description); err != nil {
		return nil, err
	}
	appointment.ReviewRating = in.Rating
	appointment.ReviewComment = in.Description
	return appointment, nil
}

// refundIfPaid reverses a settled payment after a cancellation. A gateway
// failure is logged for manual follow-up; the cancellation itself stands.
func (s *AppointmentService) refundIfPaid(ctx context.Context, appointment *models.Appointment) {
	if appointment.PaymentStatus != models.PaymentCompleted || appointment.PaymentID == "" {
		return
	}
	if err := s.gateway.Refund(ctx, appointment.PaymentID, appointment.NetFees()); err != nil {
		log.Printf("Failed to refund payment for %s: %v", appointment.Code, err)
		return
	}
	err := s.appointmentRepo.UpdatePayment(ctx, appointment, map[string]interface{}{
		"payment_status": models.PaymentRefunded,
	})
	if err != nil {
		log.Printf("Failed to record refund for %s: %v", appointment.Code, err)
		return
	}
	appointment.PaymentStatus = models.PaymentRefunded
}
