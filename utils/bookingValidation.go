package utils

import (
	"TeleClinic/models"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Business-rule errors surfaced before anything touches the database.
var (
	ErrExpirationNotFuture = errors.New("Expiration date should be in the future.")
	ErrNoMedicines         = errors.New("a prescription requires at least one medicine")
)

// BookingInput is the patient-supplied booking request.
type BookingInput struct {
	PatientID     string `json:"patient_id"`
	DoctorID      string `json:"doctor_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PaymentMethod string `json:"payment_method"`
	Reason        string `json:"reason"`
	CouponCode    string `json:"coupon_code"`
}

// ValidateBookingInput checks a booking request before any slot lock or
// database write happens.
func ValidateBookingInput(in BookingInput) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DoctorID, validation.Required),
		validation.Field(&in.Date, validation.Required, validation.Date(models.DateLayout)),
		validation.Field(&in.Time, validation.Required, validation.Date(models.TimeLayout)),
		validation.Field(&in.PaymentMethod, validation.Required, validation.In("card", "upi", "netbanking", "wallet")),
		validation.Field(&in.Reason, validation.Required, validation.Length(1, 500)),
	)
}

// RescheduleInput moves an accepted appointment to a new slot.
type RescheduleInput struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

// ValidateRescheduleInput rejects a reschedule without a reason or target slot
// before any network or database call.
func ValidateRescheduleInput(in RescheduleInput) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Date, validation.Required, validation.Date(models.DateLayout)),
		validation.Field(&in.Time, validation.Required, validation.Date(models.TimeLayout)),
		validation.Field(&in.Reason, validation.Required, validation.Length(1, 500)),
	)
}

// MedicineInput is one prescribed item in a prescription request.
type MedicineInput struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

// Validate implements the required-field rules for a single medicine.
func (m MedicineInput) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.Dosage, validation.Required),
		validation.Field(&m.Frequency, validation.Required),
		validation.Field(&m.Duration, validation.Required),
	)
}

// PrescriptionInput is the doctor-supplied prescription for a completed
// appointment.
type PrescriptionInput struct {
	Diagnosis    string          `json:"diagnosis"`
	Medicines    []MedicineInput `json:"medicines"`
	LabTests     []string        `json:"lab_tests"`
	Advice       string          `json:"advice"`
	FollowUpDate string          `json:"follow_up_date"`
	Notes        string          `json:"notes"`
	SignatureURL string          `json:"signature_url"`
}

// ValidatePrescriptionInput fails closed: any missing required field blocks
// the attach before a record is written.
func ValidatePrescriptionInput(in PrescriptionInput) error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Diagnosis, validation.Required),
		validation.Field(&in.FollowUpDate, validation.Date(models.DateLayout)),
	); err != nil {
		return err
	}
	if len(in.Medicines) == 0 {
		return ErrNoMedicines
	}
	for _, med := range in.Medicines {
		if err := med.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CouponInput creates or updates a discount coupon.
type CouponInput struct {
	Code           string    `json:"code"`
	Discount       float64   `json:"discount"`
	ExpirationDate time.Time `json:"expiration_date"`
	IsActive       bool      `json:"is_active"`
}

// ValidateCouponInput enforces the discount and expiration rules.
func ValidateCouponInput(in CouponInput, now time.Time) error {
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Code, validation.Required, validation.Length(3, 30)),
		validation.Field(&in.Discount, validation.Required, validation.Min(0.01), validation.Max(100.0)),
		validation.Field(&in.ExpirationDate, validation.Required),
	); err != nil {
		return err
	}
	if !in.ExpirationDate.After(now) {
		return ErrExpirationNotFuture
	}
	return nil
}

// ReviewInput is a patient's rating of a completed appointment.
type ReviewInput struct {
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

// ValidateReviewInput bounds the rating and description.
func ValidateReviewInput(in ReviewInput) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&in.Description, validation.Length(0, 1000)),
	)
}
