package services

import (
	"TeleClinic/cache"
	"TeleClinic/models"
	"TeleClinic/repositories"
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrNoSchedule means the doctor has no active schedule covering the requested
// date, which the API reports as an empty day rather than a failure.
var ErrNoSchedule = errors.New("no active schedule for this doctor")

// Slot is one bookable opening on a doctor's calendar.
type Slot struct {
	Time    string    `json:"time"`
	StartAt time.Time `json:"start_at"`
}

// SlotsCacheExpiry is short: past slots fall off as the clock moves, so the
// availability view cannot be cached for long.
const SlotsCacheExpiry = 5 * time.Minute

type AvailabilityService struct {
	scheduleRepo    *repositories.ScheduleRepository
	appointmentRepo *repositories.AppointmentRepository
	cache           *cache.Cache
	location        *time.Location
}

func NewAvailabilityService(
	scheduleRepo *repositories.ScheduleRepository,
	appointmentRepo *repositories.AppointmentRepository,
	cache *cache.Cache,
	location *time.Location,
) *AvailabilityService {
	return &AvailabilityService{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		cache:           cache,
		location:        location,
	}
}

// GetSlots resolves the open slots of a doctor on a date.
func (s *AvailabilityService) GetSlots(ctx context.Context, doctorID, date string) ([]Slot, error) {
	day, err := time.ParseInLocation(models.DateLayout, date, s.location)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	cacheKey := repositories.SlotsCacheKey(doctorID, date)
	var cached []Slot
	if found, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && found {
		return filterPast(cached, time.Now()), nil
	} else if err != nil {
		log.Printf("Failed to get slots from cache: %v", err)
	}

	schedule, err := s.scheduleRepo.GetActive(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoSchedule
		}
		return nil, err
	}

	booked, err := s.appointmentRepo.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	slots := BuildSlots(schedule, day, s.location, booked, time.Now())
	if err := s.cache.SetJSON(ctx, cacheKey, slots, SlotsCacheExpiry); err != nil {
		log.Printf("Failed to set slots in cache: %v", err)
	}
	return slots, nil
}

// SlotOffered reports whether startAt is one of the doctor's open slots on
// date. A doctor with no active schedule offers nothing.
func (s *AvailabilityService) SlotOffered(ctx context.Context, doctorID, date string, startAt time.Time) (bool, error) {
	slots, err := s.GetSlots(ctx, doctorID, date)
	if err != nil {
		if errors.Is(err, ErrNoSchedule) {
			return false, nil
		}
		return false, err
	}
	for _, slot := range slots {
		if slot.StartAt.Equal(startAt) {
			return true, nil
		}
	}
	return false, nil
}

// ResolveSlot maps a (date, time) pair to its canonical UTC instant.
func (s *AvailabilityService) ResolveSlot(date, timeOfDay string) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout+" "+models.TimeLayout, date+" "+timeOfDay, s.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot %q %q: %w", date, timeOfDay, err)
	}
	return t.UTC(), nil
}

// BuildSlots generates the open slots of a schedule on a day. It walks the
// working window in slot-duration steps, skipping breaks, already-booked
// instants, and times that have already passed.
func BuildSlots(schedule *models.Schedule, day time.Time, loc *time.Location, booked []time.Time, now time.Time) []Slot {
	if schedule.Expired(day) || !schedule.CoversDate(day) {
		return nil
	}

	start, err := atTime(day, schedule.StartTime, loc)
	if err != nil {
		return nil
	}
	end, err := atTime(day, schedule.EndTime, loc)
	if err != nil || !end.After(start) {
		return nil
	}

	bookedSet := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		bookedSet[b.Unix()] = struct{}{}
	}

	step := time.Duration(schedule.SlotDuration) * time.Minute
	if step <= 0 {
		return nil
	}

	var slots []Slot
	for cur := start; cur.Add(step).Before(end) || cur.Add(step).Equal(end); cur = cur.Add(step) {
		if !cur.After(now) {
			continue
		}
		if inBreak(cur, cur.Add(step), schedule.Breaks, day, loc) {
			continue
		}
		if _, taken := bookedSet[cur.Unix()]; taken {
			continue
		}
		slots = append(slots, Slot{
			Time:    cur.In(loc).Format(models.TimeLayout),
			StartAt: cur.UTC(),
		})
	}
	return slots
}

func atTime(day time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(models.TimeLayout, timeOfDay, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// inBreak reports whether the slot overlaps any break window.
func inBreak(slotStart, slotEnd time.Time, breaks []models.ScheduleBreak, day time.Time, loc *time.Location) bool {
	for _, b := range breaks {
		bs, err := atTime(day, b.StartTime, loc)
		if err != nil {
			continue
		}
		be, err := atTime(day, b.EndTime, loc)
		if err != nil {
			continue
		}
		if slotStart.Before(be) && slotEnd.After(bs) {
			return true
		}
	}
	return false
}

func filterPast(slots []Slot, now time.Time) []Slot {
	out := slots[:0]
	for _, slot := range slots {
		if slot.StartAt.After(now) {
			out = append(out, slot)
		}
	}
	return out
}
