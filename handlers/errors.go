package handlers

import (
	"TeleClinic/middlewares"
	"TeleClinic/repositories"
	"TeleClinic/services"
	"TeleClinic/utils"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

// respondError maps service and repository errors onto HTTP statuses:
// validation problems are 400, missing records 404, ownership violations 403,
// and state conflicts (lost slot races, illegal transitions, duplicates) 409.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(404, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrNotParticipant):
		c.JSON(403, gin.H{"error": "Forbidden"})
	case errors.Is(err, repositories.ErrSlotTaken),
		errors.Is(err, repositories.ErrConflict),
		errors.Is(err, repositories.ErrActiveScheduleExists),
		errors.Is(err, repositories.ErrPrescriptionExists),
		errors.Is(err, repositories.ErrCouponCodeExists),
		errors.Is(err, services.ErrForbiddenTransition),
		errors.Is(err, services.ErrPaymentIncomplete),
		errors.Is(err, services.ErrPaymentNotPending):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrExpirationNotFuture),
		errors.Is(err, utils.ErrNoMedicines),
		errors.Is(err, services.ErrDoctorUnavailable),
		errors.Is(err, services.ErrCouponNotUsable),
		errors.Is(err, services.ErrSlotInPast),
		errors.Is(err, services.ErrSlotNotOffered),
		errors.Is(err, services.ErrInvalidSignature),
		errors.Is(err, services.ErrScheduleWindow),
		isValidationError(err):
		c.JSON(400, gin.H{"error": err.Error()})
	default:
		middlewares.HttpError(c, "Internal server error", 500, err)
	}
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.Error
	return errors.As(err, &verr)
}
