package handlers

import (
	"TeleClinic/models"
	"TeleClinic/services"
	"TeleClinic/storage"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service  *services.PatientService
	uploader *storage.Uploader
}

func NewPatientHandler(service *services.PatientService, uploader *storage.Uploader) *PatientHandler {
	return &PatientHandler{service: service, uploader: uploader}
}

// CreateProfile registers the caller's patient profile.
func (h *PatientHandler) CreateProfile(c *gin.Context) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}

	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	patient.UserID = userID

	if err := h.service.Create(c.Request.Context(), &patient); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, patient)
}

// GetOwnProfile returns the caller's patient profile.
func (h *PatientHandler) GetOwnProfile(c *gin.Context) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}
	patient, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, patient)
}

// UpdateOwnProfile edits the caller's patient profile.
func (h *PatientHandler) UpdateOwnProfile(c *gin.Context) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}
	patient, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var in struct {
		FirstName   string `json:"first_name"`
		MiddleName  string `json:"middle_name"`
		LastName    string `json:"last_name"`
		Sex         string `json:"sex"`
		DateOfBirth string `json:"date_of_birth"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		Address     string `json:"address"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	patient.FirstName = in.FirstName
	patient.MiddleName = in.MiddleName
	patient.LastName = in.LastName
	patient.Sex = in.Sex
	patient.DateOfBirth = in.DateOfBirth
	patient.Phone = in.Phone
	patient.Email = in.Email
	patient.Address = in.Address

	if err := h.service.Update(c.Request.Context(), patient); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, patient)
}

// UploadProfileImage stores the patient's profile picture.
func (h *PatientHandler) UploadProfileImage(c *gin.Context) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}
	patient, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"error": "file form field is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(),
		storage.ProfileImageKey("patient", patient.ID), fileHeader.Filename, file,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(500, gin.H{"error": "Upload failed"})
		return
	}

	patient.ImageURL = url
	if err := h.service.Update(c.Request.Context(), patient); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"url": url})
}

// GetPatient returns a patient by ID (admin only).
func (h *PatientHandler) GetPatient(c *gin.Context) {
	patient, err := h.service.GetByID(c.Request.Context(), c.Param("patient_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, patient)
}

// GetAllPatients lists every patient (admin only).
func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, patients)
}

// DeletePatient removes a profile (admin only).
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("patient_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Patient deleted"})
}
