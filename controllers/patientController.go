package controllers

import (
	"TeleClinic/handlers"
	"TeleClinic/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupPatientRoutes wires the public directory and the patient-facing
// surface: profile management, medical history and coupon lookups.
func SetupPatientRoutes(
	router *gin.Engine,
	patientHandler *handlers.PatientHandler,
	doctorHandler *handlers.DoctorHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	appointmentHandler *handlers.AppointmentHandler,
	medicalRecordHandler *handlers.MedicalRecordHandler,
	couponHandler *handlers.CouponHandler,
) {
	// Public discovery routes used by the booking page before login.
	router.GET("/doctors", doctorHandler.Directory)
	router.GET("/doctors/:doctor_id", doctorHandler.GetDoctor)
	router.GET("/doctors/:doctor_id/slots", availabilityHandler.GetSlots)

	patient := router.Group("/patients").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware("Patient"),
	)
	{
		patient.POST("/profile", patientHandler.CreateProfile)
		patient.GET("/profile", patientHandler.GetOwnProfile)
		patient.PUT("/profile", patientHandler.UpdateOwnProfile)
		patient.POST("/profile/image", patientHandler.UploadProfileImage)
		patient.GET("/pending-booking", appointmentHandler.PendingBooking)
		patient.GET("/records", medicalRecordHandler.OwnHistory)
		patient.DELETE("/records/:record_id", medicalRecordHandler.DeleteRecord)
		patient.GET("/coupons/:code", couponHandler.CheckCoupon)
	}
}
