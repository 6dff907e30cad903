package main

import (
	"TeleClinic/cache"
	"TeleClinic/config"
	"TeleClinic/database"
	"TeleClinic/routes"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// sweepInterval is how often pending unpaid bookings are checked for expiry.
const sweepInterval = time.Minute

func main() {
	// Load configuration from config package
	config, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize the database
	db, err := database.InitDB(context.Background(), config.DBURL)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Initialize Redis
	if err := database.InitializeRedis(); err != nil {
		log.Fatalf("failed to initialize Redis client: %v", err)
	}

	// Initialize the cache utility
	cache, err := cache.NewCache()
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}

	// Pass the config to SetupRoutes
	handler, bookingService, err := routes.SetupRoutes(cache, config, db)
	if err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}

	// Configure and start the server
	srv := &http.Server{
		Addr:           ":8930",
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		log.Println("Starting server on :8930")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listenAndServe(): %v", err)
		}
	}()

	// Sweep bookings whose payment never arrived so their slots free up.
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				bookingService.ExpireStalePayments(sweepCtx)
			}
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	// Create a context with a timeout for shutdown
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	log.Println("Shutting down server...")
	cancelSweep()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %+v", err)
	}

	wg.Wait() // Wait for all goroutines to finish before exiting
	log.Println("Server exited gracefully")
}

// loadConfig loads configuration from environment variables.
func loadConfig() (*config.AppConfig, error) {
	// Get the database URL
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return nil, errors.New("missing DB_URL environment variable")
	}

	// Get the Redis URL
	redisAddress := os.Getenv("REDIS_URL")
	if redisAddress == "" {
		return nil, errors.New("missing REDIS_URL environment variable")
	}

	// Get the webhook shared secret
	webhookToken := os.Getenv("WEBHOOK_TOKEN")
	if webhookToken == "" {
		return nil, errors.New("missing WEBHOOK_TOKEN environment variable")
	}

	// Payment gateway credentials
	paymentBaseURL := os.Getenv("PAYMENT_BASE_URL")
	paymentKeyID := os.Getenv("PAYMENT_KEY_ID")
	paymentSecret := os.Getenv("PAYMENT_SECRET")
	if paymentBaseURL == "" || paymentKeyID == "" || paymentSecret == "" {
		return nil, errors.New("missing PAYMENT_BASE_URL, PAYMENT_KEY_ID or PAYMENT_SECRET environment variable")
	}

	currency := os.Getenv("PAYMENT_CURRENCY")
	if currency == "" {
		currency = "INR"
	}

	paymentExpiry := 30 * time.Minute
	if raw := os.Getenv("PAYMENT_EXPIRY"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.New("invalid PAYMENT_EXPIRY duration")
		}
		paymentExpiry = parsed
	}

	// Object storage
	s3Bucket := os.Getenv("S3_BUCKET")
	s3Region := os.Getenv("S3_REGION")
	if s3Bucket == "" || s3Region == "" {
		return nil, errors.New("missing S3_BUCKET or S3_REGION environment variable")
	}

	// Returning the AppConfig assembled from the environment
	return &config.AppConfig{
		DBURL:          dbURL,
		RedisAddress:   redisAddress,
		WebhookToken:   webhookToken,
		PaymentBaseURL: paymentBaseURL,
		PaymentKeyID:   paymentKeyID,
		PaymentSecret:  paymentSecret,
		Currency:       currency,
		S3Bucket:       s3Bucket,
		S3Region:       s3Region,
		ClinicTimezone: os.Getenv("CLINIC_TIMEZONE"),
		PaymentExpiry:  paymentExpiry,
	}, nil
}
