package handlers

import (
	"TeleClinic/middlewares"
	"TeleClinic/models"
	"TeleClinic/services"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability *services.AvailabilityService
}

func NewAvailabilityHandler(availability *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// GetSlots returns the open slots of a doctor on a date. A doctor without a
// schedule simply has no openings.
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	doctorID := c.Param("doctor_id")
	date := c.Query("date")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		c.JSON(400, gin.H{"error": "date must be provided as YYYY-MM-DD"})
		return
	}

	slots, err := h.availability.GetSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		if errors.Is(err, services.ErrNoSchedule) {
			middlewares.RespondJSON(c, gin.H{"slots": []services.Slot{}}, 200)
			return
		}
		respondError(c, err)
		return
	}
	if slots == nil {
		slots = []services.Slot{}
	}
	middlewares.RespondJSON(c, gin.H{"slots": slots}, 200)
}
