package controllers

import (
	"TeleClinic/handlers"
	"TeleClinic/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupDoctorRoutes wires the doctor self-service surface: profile,
// availability toggle, document uploads and working schedules. The singular
// /doctor prefix keeps these apart from the public /doctors directory.
func SetupDoctorRoutes(
	router *gin.Engine,
	doctorHandler *handlers.DoctorHandler,
	scheduleHandler *handlers.ScheduleHandler,
) {
	doctor := router.Group("/doctor").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware("Doctor"),
	)
	{
		doctor.PUT("/profile", doctorHandler.UpdateProfile)
		doctor.PUT("/availability", doctorHandler.SetAvailability)
		doctor.POST("/certificate", doctorHandler.UploadCertificate)
		doctor.POST("/signature", doctorHandler.UploadSignature)

		doctor.POST("/schedules", scheduleHandler.CreateSchedule)
		doctor.GET("/schedules", scheduleHandler.ListSchedules)
		doctor.GET("/schedules/active", scheduleHandler.GetActiveSchedule)
		doctor.DELETE("/schedules/:schedule_id", scheduleHandler.DeactivateSchedule)
		doctor.POST("/schedules/block-date", scheduleHandler.BlockDate)
	}
}
