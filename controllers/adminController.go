package controllers

import (
	"TeleClinic/handlers"
	"TeleClinic/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes wires the back-office surface: provider onboarding,
// patient administration and coupon management.
func SetupAdminRoutes(
	router *gin.Engine,
	doctorHandler *handlers.DoctorHandler,
	patientHandler *handlers.PatientHandler,
	couponHandler *handlers.CouponHandler,
) {
	admin := router.Group("/admin").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware("Admin"),
	)
	{
		admin.POST("/doctors", doctorHandler.CreateDoctor)
		admin.GET("/doctors", doctorHandler.GetAllDoctors)
		admin.DELETE("/doctors/:doctor_id", doctorHandler.DeleteDoctor)

		admin.GET("/patients", patientHandler.GetAllPatients)
		admin.GET("/patients/:patient_id", patientHandler.GetPatient)
		admin.DELETE("/patients/:patient_id", patientHandler.DeletePatient)

		admin.POST("/coupons", couponHandler.CreateCoupon)
		admin.GET("/coupons", couponHandler.ListCoupons)
		admin.PUT("/coupons/:code/active", couponHandler.SetCouponActive)
		admin.DELETE("/coupons/:code", couponHandler.DeleteCoupon)
	}
}
