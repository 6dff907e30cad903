package handlers

import (
	"TeleClinic/models"
	"TeleClinic/payments"
	"TeleClinic/repositories"
	"TeleClinic/services"
	"TeleClinic/utils"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	appointments *services.AppointmentService
	booking      *services.BookingService
	doctors      *services.DoctorService
	patients     *services.PatientService
}

func NewAppointmentHandler(
	appointments *services.AppointmentService,
	booking *services.BookingService,
	doctors *services.DoctorService,
	patients *services.PatientService,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointments: appointments,
		booking:      booking,
		doctors:      doctors,
		patients:     patients,
	}
}

// profileID resolves the caller's doctor or patient profile ID. Admins act
// without one.
func (h *AppointmentHandler) profileID(c *gin.Context, role string, userID int64) (string, error) {
	switch role {
	case models.ActorDoctor:
		doctor, err := h.doctors.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			return "", err
		}
		return doctor.ID, nil
	case models.ActorPatient:
		patient, err := h.patients.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			return "", err
		}
		return patient.ID, nil
	}
	return "", nil
}

func (h *AppointmentHandler) caller(c *gin.Context) (role, profileID string, ok bool) {
	role, err := callerRole(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	profileID, err = h.profileID(c, role, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(403, gin.H{"error": "No profile for this account"})
		} else {
			c.JSON(500, gin.H{"error": err.Error()})
		}
		return "", "", false
	}
	return role, profileID, true
}

// Book creates a pending appointment and opens its payment order.
func (h *AppointmentHandler) Book(c *gin.Context) {
	_, patientID, ok := h.caller(c)
	if !ok {
		return
	}

	var in utils.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	in.PatientID = patientID

	appointment, order, err := h.booking.Book(c.Request.Context(), in)
	if err != nil {
		if appointment != nil {
			// The booking holds its slot; only the payment order failed.
			c.JSON(502, gin.H{
				"error":       "Payment order could not be opened; retry the payment",
				"appointment": appointment,
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(201, gin.H{"appointment": appointment, "order": order})
}

// RetryPayment opens a fresh order for an unsettled booking.
func (h *AppointmentHandler) RetryPayment(c *gin.Context) {
	_, patientID, ok := h.caller(c)
	if !ok {
		return
	}

	order, err := h.booking.RetryPayment(c.Request.Context(), c.Param("code"), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"order": order})
}

// PendingBooking returns the caller's in-flight checkout, if any, so a
// returning client can resume it.
func (h *AppointmentHandler) PendingBooking(c *gin.Context) {
	_, patientID, ok := h.caller(c)
	if !ok {
		return
	}

	appointment, err := h.booking.PendingBooking(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// PaymentCallback settles the signed result the checkout widget posts back.
// Only the booking's own patient may post it.
func (h *AppointmentHandler) PaymentCallback(c *gin.Context) {
	_, patientID, ok := h.caller(c)
	if !ok {
		return
	}

	var cb payments.Callback
	if err := c.ShouldBindJSON(&cb); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.booking.SettleCallback(c.Request.Context(), cb, patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// PaymentWebhook is the gateway's server-to-server settlement path, guarded
// by the shared bearer token.
func (h *AppointmentHandler) PaymentWebhook(c *gin.Context) {
	var cb payments.Callback
	if err := c.ShouldBindJSON(&cb); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if _, err := h.booking.SettleCallback(c.Request.Context(), cb, ""); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"status": "ok"})
}

// GetAppointment returns one appointment to its participants.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	role, profileID, ok := h.caller(c)
	if !ok {
		return
	}

	appointment, err := h.appointments.GetForActor(c.Request.Context(), c.Param("code"), role, profileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// ListAppointments lists appointments scoped to the caller: patients and
// doctors see their own, admins see everything.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	role, profileID, ok := h.caller(c)
	if !ok {
		return
	}

	filter := repositories.ListFilter{
		Status: models.AppointmentStatus(c.Query("status")),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}
	switch role {
	case models.ActorPatient:
		filter.PatientID = profileID
	case models.ActorDoctor:
		filter.DoctorID = profileID
	}

	appointments, err := h.appointments.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointments)
}

// Accept confirms a paid booking (doctor only).
func (h *AppointmentHandler) Accept(c *gin.Context) {
	_, doctorID, ok := h.caller(c)
	if !ok {
		return
	}

	appointment, err := h.appointments.Accept(c.Request.Context(), c.Param("code"), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// Cancel cancels a pending or accepted appointment.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	role, profileID, ok := h.caller(c)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.appointments.Cancel(c.Request.Context(), c.Param("code"), role, profileID, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// CancelByProvider is the doctor backing out of an accepted appointment.
func (h *AppointmentHandler) CancelByProvider(c *gin.Context) {
	_, doctorID, ok := h.caller(c)
	if !ok {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.appointments.CancelByProvider(c.Request.Context(), c.Param("code"), doctorID, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// Complete marks an accepted appointment as held (doctor only).
func (h *AppointmentHandler) Complete(c *gin.Context) {
	_, doctorID, ok := h.caller(c)
	if !ok {
		return
	}

	appointment, err := h.appointments.Complete(c.Request.Context(), c.Param("code"), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// Reschedule moves an accepted appointment to a new slot (doctor only).
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	_, doctorID, ok := h.caller(c)
	if !ok {
		return
	}

	var in utils.RescheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.appointments.Reschedule(c.Request.Context(), c.Param("code"), doctorID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}

// Review rates a completed appointment (patient only).
func (h *AppointmentHandler) Review(c *gin.Context) {
	_, patientID, ok := h.caller(c)
	if !ok {
		return
	}

	var in utils.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	appointment, err := h.appointments.Review(c.Request.Context(), c.Param("code"), patientID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, appointment)
}
