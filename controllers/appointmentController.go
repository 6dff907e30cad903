package controllers

import (
	"TeleClinic/handlers"
	"TeleClinic/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupAppointmentRoutes wires the booking and lifecycle surface. Routes
// shared by all roles scope access inside the service layer; role-specific
// operations are gated by role middleware.
func SetupAppointmentRoutes(
	router *gin.Engine,
	appointmentHandler *handlers.AppointmentHandler,
	prescriptionHandler *handlers.PrescriptionHandler,
	medicalRecordHandler *handlers.MedicalRecordHandler,
) {
	shared := router.Group("/appointments").Use(middlewares.TokenAuthMiddleware())
	{
		shared.GET("", appointmentHandler.ListAppointments)
		shared.GET("/:code", appointmentHandler.GetAppointment)
		shared.POST("/:code/cancel", appointmentHandler.Cancel)
		shared.GET("/:code/prescription", prescriptionHandler.GetPrescription)
	}

	patient := router.Group("/appointments").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware("Patient"),
	)
	{
		patient.POST("", appointmentHandler.Book)
		patient.POST("/:code/payment/retry", appointmentHandler.RetryPayment)
		patient.POST("/:code/review", appointmentHandler.Review)
		patient.POST("/:code/records", medicalRecordHandler.AttachRecord)
	}

	doctor := router.Group("/appointments").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware("Doctor"),
	)
	{
		doctor.POST("/:code/accept", appointmentHandler.Accept)
		doctor.POST("/:code/complete", appointmentHandler.Complete)
		doctor.POST("/:code/cancel-by-provider", appointmentHandler.CancelByProvider)
		doctor.POST("/:code/reschedule", appointmentHandler.Reschedule)
		doctor.POST("/:code/prescription", prescriptionHandler.AttachPrescription)
	}

	// The checkout widget posts its signed result here after payment.
	router.POST("/payments/callback",
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware("Patient"),
		appointmentHandler.PaymentCallback)
}
