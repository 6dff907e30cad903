package routes

import (
	"TeleClinic/cache"
	"TeleClinic/chat"
	"TeleClinic/config"
	"TeleClinic/controllers"
	"TeleClinic/handlers"
	"TeleClinic/middlewares"
	"TeleClinic/payments"
	"TeleClinic/repositories"
	"TeleClinic/services"
	"TeleClinic/storage"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server. The
// booking service is returned alongside the handler so main can run the
// payment expiry sweeper against it.
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) (http.Handler, *services.BookingService, error) {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.teleclinic.example", "https://teleclinic-dev.example"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	location, err := config.Location()
	if err != nil {
		return nil, nil, err
	}
	uploader, err := storage.NewUploader(context.Background(), config.S3Bucket, config.S3Region)
	if err != nil {
		return nil, nil, err
	}
	gateway := payments.NewClient(config.PaymentBaseURL, config.PaymentKeyID, config.PaymentSecret)

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(db, cache)
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	scheduleRepo := repositories.NewScheduleRepository(cache)
	couponRepo := repositories.NewCouponRepository(cache)
	prescriptionRepo := repositories.NewPrescriptionRepository(cache)
	medicalRecordRepo := repositories.NewMedicalRecordRepository(cache)
	messageRepo := repositories.NewMessageRepository()
	doctorRepo := repositories.NewDoctorRepository(cache)
	patientRepo := repositories.NewPatientRepository(cache)

	userService := services.NewUserService(userRepo)
	doctorService := services.NewDoctorService(doctorRepo)
	patientService := services.NewPatientService(patientRepo)
	availabilityService := services.NewAvailabilityService(scheduleRepo, appointmentRepo, cache, location)
	bookingService := services.NewBookingService(appointmentRepo, doctorRepo, couponRepo, availabilityService, gateway, config.Currency, config.PaymentExpiry)
	appointmentService := services.NewAppointmentService(appointmentRepo, availabilityService, gateway)
	scheduleService := services.NewScheduleService(scheduleRepo)
	couponService := services.NewCouponService(couponRepo)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, appointmentRepo)
	medicalRecordService := services.NewMedicalRecordService(medicalRecordRepo, appointmentRepo)
	chatAccessService := services.NewChatAccessService(appointmentRepo, doctorRepo, patientRepo)

	authHandler := handlers.NewAuthHandler(userService)
	doctorHandler := handlers.NewDoctorHandler(doctorService, uploader)
	patientHandler := handlers.NewPatientHandler(patientService, uploader)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, bookingService, doctorService, patientService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, doctorService)
	couponHandler := handlers.NewCouponHandler(couponService)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService, doctorService, patientService)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(medicalRecordService, patientService)

	// Register routes
	controllers.SetupPatientRoutes(
		router,
		patientHandler,
		doctorHandler,
		availabilityHandler,
		appointmentHandler,
		medicalRecordHandler,
		couponHandler,
	)
	controllers.SetupDoctorRoutes(router, doctorHandler, scheduleHandler)
	controllers.SetupAdminRoutes(router, doctorHandler, patientHandler, couponHandler)
	controllers.SetupAppointmentRoutes(router, appointmentHandler, prescriptionHandler, medicalRecordHandler)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	// The gateway's server-to-server webhook authenticates with the shared
	// bearer secret instead of a user token.
	router.POST("/webhooks/payment",
		middlewares.ValidateBearerToken(config.GetWebhookToken()),
		appointmentHandler.PaymentWebhook)

	// Websocket chat between the two sides of an appointment.
	chatHandler := chat.NewHandler(chat.NewHub(), messageRepo, chatAccessService)
	router.GET("/ws/chat", gin.WrapF(chatHandler.ServeWS))

	return router, bookingService, nil
}
