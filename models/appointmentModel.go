package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending             AppointmentStatus = "pending"
	StatusAccepted            AppointmentStatus = "accepted"
	StatusCompleted           AppointmentStatus = "completed"
	StatusCancelled           AppointmentStatus = "cancelled"
	StatusCancelledByProvider AppointmentStatus = "cancelledByProvider"
	StatusFailed              AppointmentStatus = "failed"
)

// PaymentStatus is the payment state of an appointment, written only by the
// booking/verification/refund flows.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentAnonymous PaymentStatus = "anonymous"
)

// AppointmentCodePrefix prefixes every human-readable appointment code.
const AppointmentCodePrefix = "APT-"

// Appointment model
type Appointment struct {
	ID               uint              `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Code             string            `gorm:"column:code;not null;uniqueIndex" json:"appointment_id"`
	PatientID        string            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID         string            `gorm:"column:doctor_id;not null;index:idx_doctor_start,priority:1" json:"doctor_id"`
	Date             string            `gorm:"column:date;not null;index" json:"date"`
	Time             string            `gorm:"column:time;not null" json:"time"`
	StartAt          time.Time         `gorm:"column:start_at;not null;index:idx_doctor_start,priority:2" json:"start_at"`
	Status           AppointmentStatus `gorm:"column:status;check:status IN ('pending', 'accepted', 'completed', 'cancelled', 'cancelledByProvider', 'failed');not null" json:"status"`
	Reason           string            `gorm:"type:text;column:reason" json:"reason"`
	Fees             float64           `gorm:"column:fees;not null" json:"fees"`
	PaymentMethod    string            `gorm:"column:payment_method" json:"payment_method"`
	PaymentStatus    PaymentStatus     `gorm:"column:payment_status;check:payment_status IN ('pending', 'completed', 'failed', 'refunded', 'anonymous');not null" json:"payment_status"`
	PaymentOrderID   string            `gorm:"column:payment_order_id;index" json:"payment_order_id,omitempty"`
	PaymentID        string            `gorm:"column:payment_id" json:"payment_id,omitempty"`
	CouponCode       string            `gorm:"column:coupon_code" json:"coupon_code,omitempty"`
	CouponDiscount   float64           `gorm:"column:coupon_discount" json:"coupon_discount,omitempty"`
	CouponApplied    bool              `gorm:"column:coupon_applied;not null;default:false" json:"is_applied"`
	CancelReason     string            `gorm:"type:text;column:cancel_reason" json:"cancel_reason,omitempty"`
	RescheduleReason string            `gorm:"type:text;column:reschedule_reason" json:"reschedule_reason,omitempty"`
	ReviewRating     int               `gorm:"column:review_rating" json:"review_rating,omitempty"`
	ReviewComment    string            `gorm:"type:text;column:review_comment" json:"review_comment,omitempty"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient          Patient           `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Doctor           Doctor            `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
	Prescription     *Prescription     `gorm:"foreignKey:AppointmentID;references:ID" json:"prescription,omitempty"`
	MedicalRecords   []MedicalRecord   `gorm:"foreignKey:AppointmentID;references:ID" json:"medical_records,omitempty"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// HoldsSlot reports whether the appointment still occupies its (doctor, start_at)
// slot. Cancelled and failed appointments release the slot.
func (a *Appointment) HoldsSlot() bool {
	switch a.Status {
	case StatusCancelled, StatusCancelledByProvider, StatusFailed:
		return false
	}
	return true
}

// NetFees returns the payable amount after the coupon discount, if one applied.
func (a *Appointment) NetFees() float64 {
	if !a.CouponApplied || a.CouponDiscount <= 0 {
		return a.Fees
	}
	net := a.Fees * (1 - a.CouponDiscount/100)
	if net < 0 {
		return 0
	}
	return net
}

// NewAppointmentCode generates a human-readable appointment code.
func NewAppointmentCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:10]
	return AppointmentCodePrefix + suffix
}
