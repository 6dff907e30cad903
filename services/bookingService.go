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
	ErrDoctorUnavailable = errors.New("doctor is not accepting appointments")
	ErrCouponNotUsable   = errors.New("coupon is expired or inactive")
	ErrSlotInPast        = errors.New("slot is in the past")
	ErrSlotNotOffered    = errors.New("slot is not on the doctor's schedule")
	ErrInvalidSignature  = errors.New("payment signature verification failed")
	ErrPaymentNotPending = errors.New("appointment has no pending payment")
)

// BookingService runs the booking transaction: hold a slot, open a payment
// order, and settle the payment through the gateway callback or webhook.
type BookingService struct {
	appointmentRepo *repositories.AppointmentRepository
	doctorRepo      *repositories.DoctorRepository
	couponRepo      *repositories.CouponRepository
	availability    *AvailabilityService
	gateway         *payments.Client
	currency        string
	paymentExpiry   time.Duration
}

func NewBookingService(
	appointmentRepo *repositories.AppointmentRepository,
	doctorRepo *repositories.DoctorRepository,
	couponRepo *repositories.CouponRepository,
	availability *AvailabilityService,
	gateway *payments.Client,
	currency string,
	paymentExpiry time.Duration,
) *BookingService {
	return &BookingService{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		couponRepo:      couponRepo,
		availability:    availability,
		gateway:         gateway,
		currency:        currency,
		paymentExpiry:   paymentExpiry,
	}
}

// Book creates a pending appointment holding the requested slot and opens a
// payment order for the net fee. The appointment survives a gateway failure;
// the payment can be retried until the expiry sweeper collects it.
func (s *BookingService) Book(ctx context.Context, in utils.BookingInput) (*models.Appointment, *payments.Order, error) {
	if err := utils.ValidateBookingInput(in); err != nil {
		return nil, nil, err
	}

	doctor, err := s.doctorRepo.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, nil, err
	}
	if !doctor.Available {
		return nil, nil, ErrDoctorUnavailable
	}

	startAt, err := s.availability.ResolveSlot(in.Date, in.Time)
	if err != nil {
		return nil, nil, err
	}
	if !startAt.After(time.Now()) {
		return nil, nil, ErrSlotInPast
	}
	offered, err := s.availability.SlotOffered(ctx, in.DoctorID, in.Date, startAt)
	if err != nil {
		return nil, nil, err
	}
	if !offered {
		return nil, nil, ErrSlotNotOffered
	}

	appointment := &models.Appointment{
		Code:          models.NewAppointmentCode(),
		PatientID:     in.PatientID,
		DoctorID:      in.DoctorID,
		Date:          in.Date,
		Time:          in.Time,
		StartAt:       startAt,
		Status:        models.StatusPending,
		Reason:        in.Reason,
		Fees:          doctor.Fees,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentPending,
	}

	if in.CouponCode != "" {
		coupon, err := s.couponRepo.GetByCode(ctx, in.CouponCode)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, nil, ErrCouponNotUsable
			}
			return nil, nil, err
		}
		if !coupon.Usable(time.Now()) {
			return nil, nil, ErrCouponNotUsable
		}
		appointment.CouponCode = coupon.Code
		appointment.CouponDiscount = coupon.Discount
		appointment.CouponApplied = true
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, nil, err
	}

	// A fully discounted booking never touches the gateway.
	if appointment.NetFees() == 0 {
		err := s.appointmentRepo.UpdatePayment(ctx, appointment, map[string]interface{}{
			"payment_status": models.PaymentCompleted,
		})
		if err != nil {
			return nil, nil, err
		}
		appointment.PaymentStatus = models.PaymentCompleted
		return appointment, nil, nil
	}

	s.appointmentRepo.MarkPendingBooking(ctx, appointment.PatientID, appointment.Code)

	order, err := s.openOrder(ctx, appointment)
	if err != nil {
		// The slot stays held; the client retries the payment or the
		// sweeper fails the booking.
		return appointment, nil, err
	}
	return appointment, order, nil
}

func (s *BookingService) openOrder(ctx context.Context, appointment *models.Appointment) (*payments.Order, error) {
	order, err := s.gateway.CreateOrder(ctx, appointment.NetFees(), s.currency, appointment.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to open payment order: %w", err)
	}
	err = s.appointmentRepo.UpdatePayment(ctx, appointment, map[string]interface{}{
		"payment_order_id": order.ID,
	})
	if err != nil {
		return nil, err
	}
	appointment.PaymentOrderID = order.ID
	return order, nil
}

// RetryPayment opens a fresh payment order for a booking whose previous
// checkout never settled. A booking already failed for non-payment is
// reopened first, which re-holds its slot; losing that race surfaces as
// ErrSlotTaken.
func (s *BookingService) RetryPayment(ctx context.Context, code, patientID string) (*payments.Order, error) {
	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, repositories.ErrNotFound
	}

	switch {
	case appointment.Status == models.StatusPending && appointment.PaymentStatus == models.PaymentPending:
	case appointment.Status == models.StatusFailed && appointment.PaymentStatus == models.PaymentFailed:
		if err := s.appointmentRepo.ReopenPayment(ctx, appointment); err != nil {
			return nil, err
		}
		s.appointmentRepo.MarkPendingBooking(ctx, appointment.PatientID, appointment.Code)
	default:
		return nil, ErrPaymentNotPending
	}
	return s.openOrder(ctx, appointment)
}

// PendingBooking resolves the patient's in-flight checkout so a returning
// client can resume or retry it.
func (s *BookingService) PendingBooking(ctx context.Context, patientID string) (*models.Appointment, error) {
	code, err := s.appointmentRepo.PendingBooking(ctx, patientID)
	if err != nil {
		return nil, err
	}
	appointment, err := s.appointmentRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, repositories.ErrNotFound
	}
	return appointment, nil
}

// SettleCallback applies a signed gateway result. A failed or forged callback
// fails the booking and releases its slot. patientID is the caller's profile
// when the result arrives through the checkout widget; the booking must be
// theirs. The gateway webhook settles with an empty patientID.
func (s *BookingService) SettleCallback(ctx context.Context, cb payments.Callback, patientID string) (*models.Appointment, error) {
	appointment, err := s.findByOrder(ctx, cb.OrderID)
	if err != nil {
		return nil, err
	}
	if patientID != "" && appointment.PatientID != patientID {
		return nil, repositories.ErrNotFound
	}
	if appointment.PaymentStatus != models.PaymentPending {
		// Settled already; callbacks and webhooks may race.
		return appointment, nil
	}

	if !cb.Success {
		return appointment, s.failBooking(ctx, appointment)
	}
	if !s.gateway.VerifySignature(cb.OrderID, cb.PaymentID, cb.Signature) {
		if err := s.failBooking(ctx, appointment); err != nil {
			log.Printf("Failed to fail booking %s after bad signature: %v", appointment.Code, err)
		}
		return nil, ErrInvalidSignature
	}

	err = s.appointmentRepo.UpdatePayment(ctx, appointment, map[string]interface{}{
		"payment_status": models.PaymentCompleted,
		"payment_id":     cb.PaymentID,
	})
	if err != nil {
		return nil, err
	}
	appointment.PaymentStatus = models.PaymentCompleted
	appointment.PaymentID = cb.PaymentID
	s.appointmentRepo.ClearPendingBooking(ctx, appointment.PatientID)

	utils.NotifyAppointment(appointment.Patient.Email, "Payment received",
		fmt.Sprintf("Your payment for appointment %s on %s at %s was received. The doctor will confirm shortly.",
			appointment.Code, appointment.Date, appointment.Time))
	return appointment, nil
}

// failBooking moves an unpaid pending booking to failed, releasing its slot.
func (s *BookingService) failBooking(ctx context.Context, appointment *models.Appointment) error {
	if !models.CanTransition(appointment.Status, models.ActionFail, models.ActorSystem) {
		return ErrPaymentNotPending
	}
	return s.appointmentRepo.UpdateStatus(ctx, appointment, models.StatusPending, models.StatusFailed,
		map[string]interface{}{"payment_status": models.PaymentFailed})
}

func (s *BookingService) findByOrder(ctx context.Context, orderID string) (*models.Appointment, error) {
	code, err := s.appointmentRepo.CodeByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.appointmentRepo.GetByCode(ctx, code)
}

// ExpireStalePayments fails pending bookings whose checkout was abandoned.
// Runs on a timer from main.
func (s *BookingService) ExpireStalePayments(ctx context.Context) {
	cutoff := time.Now().Add(-s.paymentExpiry)
	codes, err := s.appointmentRepo.FailStalePayments(ctx, cutoff)
	if err != nil {
		log.Printf("Failed to expire stale bookings: %v", err)
		return
	}
	if len(codes) > 0 {
		log.Printf("Expired %d unpaid bookings: %v", len(codes), codes)
	}
}
