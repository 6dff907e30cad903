package handlers

import (
	"TeleClinic/models"
	"TeleClinic/services"
	"TeleClinic/utils"

	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	prescriptions *services.PrescriptionService
	doctors       *services.DoctorService
	patients      *services.PatientService
}

func NewPrescriptionHandler(
	prescriptions *services.PrescriptionService,
	doctors *services.DoctorService,
	patients *services.PatientService,
) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptions: prescriptions,
		doctors:       doctors,
		patients:      patients,
	}
}

// AttachPrescription writes the prescription for a completed appointment
// (doctor only, at most once).
func (h *PrescriptionHandler) AttachPrescription(c *gin.Context) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}
	doctor, err := h.doctors.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var in utils.PrescriptionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}
	if in.SignatureURL == "" {
		in.SignatureURL = doctor.SignatureURL
	}

	prescription, err := h.prescriptions.Attach(c.Request.Context(), c.Param("code"), doctor.ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, prescription)
}

// GetPrescription returns the prescription of an appointment to its
// participants.
func (h *PrescriptionHandler) GetPrescription(c *gin.Context) {
	role, err := callerRole(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}

	var profileID string
	switch role {
	case models.ActorDoctor:
		doctor, err := h.doctors.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		profileID = doctor.ID
	case models.ActorPatient:
		patient, err := h.patients.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		profileID = patient.ID
	}

	prescription, err := h.prescriptions.GetForAppointment(c.Request.Context(), c.Param("code"), role, profileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, prescription)
}
