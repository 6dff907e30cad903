package handlers

import (
	"TeleClinic/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MedicalRecordHandler struct {
	records  *services.MedicalRecordService
	patients *services.PatientService
}

func NewMedicalRecordHandler(records *services.MedicalRecordService, patients *services.PatientService) *MedicalRecordHandler {
	return &MedicalRecordHandler{records: records, patients: patients}
}

func (h *MedicalRecordHandler) ownPatientID(c *gin.Context) (string, bool) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return "", false
	}
	patient, err := h.patients.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return patient.ID, true
}

// AttachRecord adds a history entry to an upcoming appointment.
func (h *MedicalRecordHandler) AttachRecord(c *gin.Context) {
	patientID, ok := h.ownPatientID(c)
	if !ok {
		return
	}

	var in services.MedicalRecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	record, err := h.records.Attach(c.Request.Context(), c.Param("code"), patientID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(201, record)
}

// OwnHistory lists the caller's medical records.
func (h *MedicalRecordHandler) OwnHistory(c *gin.Context) {
	patientID, ok := h.ownPatientID(c)
	if !ok {
		return
	}

	records, err := h.records.History(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, records)
}

// DeleteRecord removes a record the caller attached.
func (h *MedicalRecordHandler) DeleteRecord(c *gin.Context) {
	patientID, ok := h.ownPatientID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("record_id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid record ID"})
		return
	}

	if err := h.records.Delete(c.Request.Context(), uint(id), patientID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Record deleted"})
}
