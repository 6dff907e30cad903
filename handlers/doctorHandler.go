package handlers

import (
	"TeleClinic/models"
	"TeleClinic/services"
	"TeleClinic/storage"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service  *services.DoctorService
	uploader *storage.Uploader
}

func NewDoctorHandler(service *services.DoctorService, uploader *storage.Uploader) *DoctorHandler {
	return &DoctorHandler{service: service, uploader: uploader}
}

// CreateDoctor registers a doctor profile for an existing user account
// (admin only).
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c.Request.Context(), &doctor); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(201, doctor)
}

// Directory is the patient-facing listing of available doctors.
func (h *DoctorHandler) Directory(c *gin.Context) {
	doctors, err := h.service.Directory(c.Request.Context(), c.Query("specialty"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, doctors)
}

func (h *DoctorHandler) GetDoctor(c *gin.Context) {
	doctor, err := h.service.GetByID(c.Request.Context(), c.Param("doctor_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, doctor)
}

// GetAllDoctors returns every profile, available or not (admin only).
func (h *DoctorHandler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, doctors)
}

// UpdateProfile lets a doctor edit their own profile.
func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}
	doctor, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var in struct {
		Specialty  string  `json:"specialty"`
		Degree     string  `json:"degree"`
		Experience int     `json:"experience"`
		About      string  `json:"about"`
		Fees       float64 `json:"fees"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	doctor.Specialty = in.Specialty
	doctor.Degree = in.Degree
	doctor.Experience = in.Experience
	doctor.About = in.About
	doctor.Fees = in.Fees

	if err := h.service.Update(c.Request.Context(), doctor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, doctor)
}

// SetAvailability toggles whether the doctor appears in the directory.
func (h *DoctorHandler) SetAvailability(c *gin.Context) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}
	doctor, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var body struct {
		Available bool `json:"available"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.service.SetAvailability(c.Request.Context(), doctor.ID, body.Available); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"available": body.Available})
}

// UploadCertificate stores the doctor's license document and records its URL.
func (h *DoctorHandler) UploadCertificate(c *gin.Context) {
	h.uploadDoctorFile(c, func(doctor *models.Doctor, url string) {
		doctor.CertificateURL = url
	}, storage.DoctorCertificateKey)
}

// UploadSignature stores the signature image stamped onto prescriptions.
func (h *DoctorHandler) UploadSignature(c *gin.Context) {
	h.uploadDoctorFile(c, func(doctor *models.Doctor, url string) {
		doctor.SignatureURL = url
	}, storage.DoctorSignatureKey)
}

func (h *DoctorHandler) uploadDoctorFile(c *gin.Context, apply func(*models.Doctor, string), keyFn func(string) string) {
	userID, err := callerUserID(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Unauthorized"})
		return
	}
	doctor, err := h.service.GetByUserID(c.Request.Context(), userID)
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

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.uploader.Upload(c.Request.Context(), keyFn(doctor.ID), fileHeader.Filename, file, contentType)
	if err != nil {
		c.JSON(500, gin.H{"error": "Upload failed"})
		return
	}

	apply(doctor, url)
	if err := h.service.Update(c.Request.Context(), doctor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"url": url})
}

// DeleteDoctor removes a profile (admin only).
func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("doctor_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(204, gin.H{"message": "Doctor deleted"})
}
