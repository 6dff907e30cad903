package repositories

import (
	"TeleClinic/cache"
	"TeleClinic/database"
	"TeleClinic/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	AppointmentCacheExpiry = 24 * time.Hour
)

// releasedStatuses no longer hold their slot.
var releasedStatuses = []models.AppointmentStatus{
	models.StatusCancelled,
	models.StatusCancelledByProvider,
	models.StatusFailed,
}

type AppointmentRepository struct {
	cache *cache.Cache
}

func NewAppointmentRepository(cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{cache: cache}
}

// slotLockKey serializes every write that contends on one bookable slot.
func slotLockKey(doctorID string, startAt time.Time) string {
	return fmt.Sprintf("slot_lock:%s_%d", doctorID, startAt.Unix())
}

// Create books a slot. It holds the slot lock while re-checking that no live
// appointment occupies (doctor, start_at); a losing racer gets ErrSlotTaken so
// the client re-polls availability.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	release, err := acquireLock(ctx, slotLockKey(appointment.DoctorID, appointment.StartAt))
	if err != nil {
		return err
	}
	defer release()

	taken, err := r.slotTaken(ctx, appointment.DoctorID, appointment.StartAt, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	if err := database.DB.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	r.invalidate(ctx, appointment)
	return nil
}

// slotTaken reports whether a live appointment other than excludeID occupies
// the slot.
func (r *AppointmentRepository) slotTaken(ctx context.Context, doctorID string, startAt time.Time, excludeID uint) (bool, error) {
	var count int64
	q := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND start_at = ?", doctorID, startAt).
		Where("status NOT IN ?", releasedStatuses)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slot occupancy: %w", err)
	}
	return count > 0, nil
}

// GetByCode loads an appointment with its relations by human-readable code.
func (r *AppointmentRepository) GetByCode(ctx context.Context, code string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getAppointmentCacheKey(code)
	var cached models.Appointment
	if found, err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		log.Printf("Failed to get appointment from cache: %v", err)
	}

	var appointment models.Appointment
	err := database.DB.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Prescription").
		Preload("Prescription.Medicines").
		Preload("MedicalRecords").
		First(&appointment, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, appointment, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointment in cache: %v", err)
	}
	return &appointment, nil
}

// ListFilter scopes appointment listings per actor.
type ListFilter struct {
	PatientID string
	DoctorID  string
	Status    models.AppointmentStatus
	Limit     int
	Offset    int
}

// List returns appointments newest-first, scoped by the filter.
func (r *AppointmentRepository) List(ctx context.Context, filter ListFilter) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Preload("Patient").
		Preload("Doctor").
		Order("created_at DESC")
	if filter.PatientID != "" {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.DoctorID != "" {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var appointments []models.Appointment
	if err := q.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// BookedTimes returns the canonical instants held by live appointments of a
// doctor on a date; the availability resolver excludes them.
func (r *AppointmentRepository) BookedTimes(ctx context.Context, doctorID, date string) ([]time.Time, error) {
	var times []time.Time
	err := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Where("status NOT IN ?", releasedStatuses).
		Pluck("start_at", &times).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slots: %w", err)
	}
	return times, nil
}

// CodeByOrderID resolves the appointment that owns a payment order.
func (r *AppointmentRepository) CodeByOrderID(ctx context.Context, orderID string) (string, error) {
	var code string
	err := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("payment_order_id = ?", orderID).
		Limit(1).
		Pluck("code", &code).Error
	if err != nil {
		return "", fmt.Errorf("failed to resolve payment order: %w", err)
	}
	if code == "" {
		return "", ErrNotFound
	}
	return code, nil
}

// UpdateStatus applies a status transition optimistically: the row is only
// written if it is still in the expected status. A stale transition returns
// ErrConflict.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, appointment *models.Appointment, from, to models.AppointmentStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	res := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointment.ID, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update appointment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	appointment.Status = to
	r.invalidate(ctx, appointment)
	return nil
}

// UpdatePayment writes the payment fields after order creation, verification,
// or refund.
func (r *AppointmentRepository) UpdatePayment(ctx context.Context, appointment *models.Appointment, updates map[string]interface{}) error {
	err := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", appointment.ID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update payment fields: %w", err)
	}
	r.invalidate(ctx, appointment)
	return nil
}

// Reschedule moves an accepted appointment to a new slot. The status never
// changes; only the slot and the recorded reason do.
func (r *AppointmentRepository) Reschedule(ctx context.Context, appointment *models.Appointment, date, timeOfDay string, startAt time.Time, reason string) error {
	release, err := acquireLock(ctx, slotLockKey(appointment.DoctorID, startAt))
	if err != nil {
		return err
	}
	defer release()

	taken, err := r.slotTaken(ctx, appointment.DoctorID, startAt, appointment.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	oldDate := appointment.Date
	res := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointment.ID, models.StatusAccepted).
		Updates(map[string]interface{}{
			"date":              date,
			"time":              timeOfDay,
			"start_at":          startAt,
			"reschedule_reason": reason,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reschedule appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	appointment.Date = date
	appointment.Time = timeOfDay
	appointment.StartAt = startAt
	r.invalidate(ctx, appointment)
	// The vacated slot becomes available again.
	if err := r.cache.Delete(ctx, SlotsCacheKey(appointment.DoctorID, oldDate)); err != nil {
		log.Printf("Failed to delete slots cache: %v", err)
	}
	return nil
}

// SetReview stores or replaces the patient's review of a completed
// appointment.
func (r *AppointmentRepository) SetReview(ctx context.Context, appointment *models.Appointment, rating int, comment string) error {
	res := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointment.ID, models.StatusCompleted).
		Updates(map[string]interface{}{
			"review_rating":  rating,
			"review_comment": comment,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to set review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	r.invalidate(ctx, appointment)
	return nil
}

// ReopenPayment re-holds the slot of a failed unpaid booking so its payment
// can be retried under the same code. The slot may have been taken by someone
// else in the meantime, in which case the retry loses with ErrSlotTaken.
func (r *AppointmentRepository) ReopenPayment(ctx context.Context, appointment *models.Appointment) error {
	release, err := acquireLock(ctx, slotLockKey(appointment.DoctorID, appointment.StartAt))
	if err != nil {
		return err
	}
	defer release()

	taken, err := r.slotTaken(ctx, appointment.DoctorID, appointment.StartAt, appointment.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	res := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointment.ID, models.StatusFailed).
		Updates(map[string]interface{}{
			"status":         models.StatusPending,
			"payment_status": models.PaymentPending,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to reopen booking payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	appointment.Status = models.StatusPending
	appointment.PaymentStatus = models.PaymentPending
	r.invalidate(ctx, appointment)
	return nil
}

func pendingBookingKey(patientID string) string {
	return "pending_booking:" + patientID
}

// MarkPendingBooking records the patient's single in-flight checkout; a newer
// booking overwrites it.
func (r *AppointmentRepository) MarkPendingBooking(ctx context.Context, patientID, code string) {
	if err := r.cache.Set(ctx, pendingBookingKey(patientID), code, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to mark pending booking: %v", err)
	}
}

// ClearPendingBooking removes the marker once the checkout settles.
func (r *AppointmentRepository) ClearPendingBooking(ctx context.Context, patientID string) {
	if err := r.cache.Delete(ctx, pendingBookingKey(patientID)); err != nil {
		log.Printf("Failed to clear pending booking: %v", err)
	}
}

// PendingBooking resolves the patient's in-flight checkout, if any.
func (r *AppointmentRepository) PendingBooking(ctx context.Context, patientID string) (string, error) {
	code, err := r.cache.Get(ctx, pendingBookingKey(patientID))
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load pending booking: %w", err)
	}
	return code, nil
}

// FailStalePayments fails pending, unpaid bookings created before the cutoff
// and returns the affected codes. It backs the abandoned-checkout sweeper.
func (r *AppointmentRepository) FailStalePayments(ctx context.Context, cutoff time.Time) ([]string, error) {
	var codes []string
	err := database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			models.StatusPending, models.PaymentPending, cutoff).
		Pluck("code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stale bookings: %w", err)
	}
	if len(codes) == 0 {
		return nil, nil
	}

	err = database.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("code IN ?", codes).
		Updates(map[string]interface{}{
			"status":         models.StatusFailed,
			"payment_status": models.PaymentFailed,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to expire stale bookings: %w", err)
	}

	for _, code := range codes {
		if err := r.cache.Delete(ctx, r.getAppointmentCacheKey(code)); err != nil {
			log.Printf("Failed to delete appointment cache: %v", err)
		}
	}
	if err := r.cache.DeleteAll(ctx, "slots_cache:*"); err != nil {
		log.Printf("Failed to invalidate slot caches: %v", err)
	}
	return codes, nil
}

// invalidate drops the caches a mutation may have stamped stale: the
// appointment itself and the doctor's slot availability for that date.
func (r *AppointmentRepository) invalidate(ctx context.Context, appointment *models.Appointment) {
	if err := r.cache.Delete(ctx, r.getAppointmentCacheKey(appointment.Code)); err != nil {
		log.Printf("Failed to delete appointment cache: %v", err)
	}
	if err := r.cache.Delete(ctx, SlotsCacheKey(appointment.DoctorID, appointment.Date)); err != nil {
		log.Printf("Failed to delete slots cache: %v", err)
	}
}

func (r *AppointmentRepository) getAppointmentCacheKey(code string) string {
	return fmt.Sprintf("appointment_cache:%s", code)
}

// SlotsCacheKey caches the availability view for a doctor and date.
func SlotsCacheKey(doctorID, date string) string {
	return fmt.Sprintf("slots_cache:%s_%s", doctorID, date)
}
