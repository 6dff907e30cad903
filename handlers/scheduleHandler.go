package handlers

import (
	"TeleClinic/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	schedules *services.ScheduleService
	doctors   *services.DoctorService
}

func NewScheduleHandler(schedules *services.ScheduleService, doctors *services.DoctorService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, doctors: doctors}
}

func (h *ScheduleHandler) ownDoctorID(c *gin.Context) (string, bool) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return "", false
	}
	doctor, err := h.doctors.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return doctor.ID, true
}

// CreateSchedule activates a new working pattern for the calling doctor.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	doctorID, ok := h.ownDoctorID(c)
	if !ok {
		return
	}

	var in services.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	schedule, err := h.schedules.Create(c.Request.Context(), doctorID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, schedule)
}

// GetActiveSchedule returns the doctor's currently active working pattern.
func (h *ScheduleHandler) GetActiveSchedule(c *gin.Context) {
	doctorID, ok := h.ownDoctorID(c)
	if !ok {
		return
	}

	schedule, err := h.schedules.GetActive(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, schedule)
}

// ListSchedules returns the calling doctor's schedules.
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	doctorID, ok := h.ownDoctorID(c)
	if !ok {
		return
	}

	schedules, err := h.schedules.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, schedules)
}

// DeactivateSchedule turns a schedule off.
func (h *ScheduleHandler) DeactivateSchedule(c *gin.Context) {
	doctorID, ok := h.ownDoctorID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("schedule_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid schedule ID"})
		return
	}

	if err := h.schedules.Deactivate(c.Request.Context(), doctorID, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Schedule deactivated"})
}

// BlockDate marks a date as unavailable on the active schedule.
func (h *ScheduleHandler) BlockDate(c *gin.Context) {
	doctorID, ok := h.ownDoctorID(c)
	if !ok {
		return
	}

	var body struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.schedules.BlockDate(c.Request.Context(), doctorID, body.Date); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Date blocked"})
}
