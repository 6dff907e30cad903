package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoldsSlot(t *testing.T) {
	holding := []AppointmentStatus{StatusPending, StatusAccepted, StatusCompleted}
	released := []AppointmentStatus{StatusCancelled, StatusCancelledByProvider, StatusFailed}

	for _, s := range holding {
		a := Appointment{Status: s}
		assert.Truef(t, a.HoldsSlot(), "status %q should hold its slot", s)
	}
	for _, s := range released {
		a := Appointment{Status: s}
		assert.Falsef(t, a.HoldsSlot(), "status %q should release its slot", s)
	}
}

func TestNetFees(t *testing.T) {
	plain := Appointment{Fees: 500}
	assert.Equal(t, 500.0, plain.NetFees())

	discounted := Appointment{Fees: 500, CouponApplied: true, CouponDiscount: 10}
	assert.Equal(t, 450.0, discounted.NetFees())

	unapplied := Appointment{Fees: 500, CouponDiscount: 10}
	assert.Equal(t, 500.0, unapplied.NetFees())

	full := Appointment{Fees: 500, CouponApplied: true, CouponDiscount: 100}
	assert.Equal(t, 0.0, full.NetFees())
}

func TestNewAppointmentCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewAppointmentCode()
		assert.True(t, strings.HasPrefix(code, AppointmentCodePrefix))
		assert.Len(t, code, len(AppointmentCodePrefix)+10)
		assert.False(t, seen[code], "codes must not repeat")
		seen[code] = true
	}
}

func TestCouponUsable(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	active := Coupon{IsActive: true, ExpirationDate: now.Add(24 * time.Hour)}
	assert.True(t, active.Usable(now))

	inactive := Coupon{IsActive: false, ExpirationDate: now.Add(24 * time.Hour)}
	assert.False(t, inactive.Usable(now))

	// Expiration wins regardless of the active flag.
	expired := Coupon{IsActive: true, ExpirationDate: now.Add(-24 * time.Hour)}
	assert.False(t, expired.Usable(now))

	boundary := Coupon{IsActive: true, ExpirationDate: now}
	assert.False(t, boundary.Usable(now))
}
