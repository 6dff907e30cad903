package repositories

import (
	"TeleClinic/database"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Conflict errors are mapped to HTTP 409 by handlers; callers must not retry
// them automatically.
var (
	ErrNotFound             = errors.New("record not found")
	ErrSlotTaken            = errors.New("slot is already booked")
	ErrConflict             = errors.New("record changed concurrently")
	ErrActiveScheduleExists = errors.New("an active schedule already exists for this doctor")
	ErrPrescriptionExists   = errors.New("a prescription is already attached to this appointment")
	ErrCouponCodeExists     = errors.New("a coupon with this code already exists")
)

// acquireLock takes a Redis lock with retries and returns its release
// function. Writers that contend on a shared key (a bookable slot, a doctor's
// schedule) serialize through it.
func acquireLock(ctx context.Context, lockKey string) (func(), error) {
	lockValue := uuid.New().String()
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return nil, fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	release := func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock %s: %v", lockKey, err)
		}
	}
	return release, nil
}
