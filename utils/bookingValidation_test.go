package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking() BookingInput {
	return BookingInput{
		PatientID:     "P1",
		DoctorID:      "D1",
		Date:          "2025-06-10",
		Time:          "10:00",
		PaymentMethod: "card",
		Reason:        "Persistent headaches",
	}
}

func TestValidateBookingInput(t *testing.T) {
	require.NoError(t, ValidateBookingInput(validBooking()))

	cases := []struct {
		name   string
		mutate func(*BookingInput)
	}{
		{"missing doctor", func(in *BookingInput) { in.DoctorID = "" }},
		{"missing date", func(in *BookingInput) { in.Date = "" }},
		{"bad date format", func(in *BookingInput) { in.Date = "10-06-2025" }},
		{"bad time format", func(in *BookingInput) { in.Time = "10:00AM" }},
		{"unknown payment method", func(in *BookingInput) { in.PaymentMethod = "cheque" }},
		{"missing reason", func(in *BookingInput) { in.Reason = "" }},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			in := validBooking()
			tt.mutate(&in)
			assert.Error(t, ValidateBookingInput(in))
		})
	}
}

func TestValidateRescheduleInputRequiresReason(t *testing.T) {
	in := RescheduleInput{Date: "2025-06-12", Time: "11:00", Reason: "Clinic closed for maintenance"}
	require.NoError(t, ValidateRescheduleInput(in))

	in.Reason = ""
	assert.Error(t, ValidateRescheduleInput(in))
}

func TestValidatePrescriptionInput(t *testing.T) {
	valid := PrescriptionInput{
		Diagnosis: "Migraine",
		Medicines: []MedicineInput{
			{Name: "Sumatriptan", Dosage: "50mg", Frequency: "On onset", Duration: "As needed"},
		},
	}
	require.NoError(t, ValidatePrescriptionInput(valid))

	noMeds := valid
	noMeds.Medicines = nil
	assert.ErrorIs(t, ValidatePrescriptionInput(noMeds), ErrNoMedicines)

	missingDosage := valid
	missingDosage.Medicines = []MedicineInput{{Name: "Sumatriptan", Frequency: "Daily", Duration: "5 days"}}
	assert.Error(t, ValidatePrescriptionInput(missingDosage))

	noDiagnosis := valid
	noDiagnosis.Diagnosis = ""
	assert.Error(t, ValidatePrescriptionInput(noDiagnosis))

	optionalInstructions := valid
	optionalInstructions.Medicines[0].Instructions = ""
	assert.NoError(t, ValidatePrescriptionInput(optionalInstructions))
}

func TestValidateCouponInput(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	valid := CouponInput{Code: "SAVE10", Discount: 10, ExpirationDate: now.Add(48 * time.Hour), IsActive: true}
	require.NoError(t, ValidateCouponInput(valid, now))

	expired := valid
	expired.ExpirationDate = now.Add(-24 * time.Hour)
	err := ValidateCouponInput(expired, now)
	require.Error(t, err)
	assert.Equal(t, "Expiration date should be in the future.", err.Error())

	zeroDiscount := valid
	zeroDiscount.Discount = 0
	assert.Error(t, ValidateCouponInput(zeroDiscount, now))

	tooBig := valid
	tooBig.Discount = 150
	assert.Error(t, ValidateCouponInput(tooBig, now))
}

func TestValidateReviewInput(t *testing.T) {
	require.NoError(t, ValidateReviewInput(ReviewInput{Rating: 4, Description: "Helpful and on time"}))
	assert.Error(t, ValidateReviewInput(ReviewInput{Rating: 0}))
	assert.Error(t, ValidateReviewInput(ReviewInput{Rating: 6}))
}
