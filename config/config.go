package config

import (
	"time"

	"github.com/pkg/errors"
)

// AppConfig holds the application configuration
type AppConfig struct {
	DBURL        string
	RedisAddress string

	// Shared secret the payment provider presents on webhook calls.
	WebhookToken string

	// Payment gateway credentials.
	PaymentBaseURL string
	PaymentKeyID   string
	PaymentSecret  string
	Currency       string

	// Object storage.
	S3Bucket string
	S3Region string

	// Clinic time zone; schedule times are interpreted in this location and
	// slot instants are stored in UTC.
	ClinicTimezone string

	// Pending unpaid bookings older than this are failed by the sweeper.
	PaymentExpiry time.Duration
}

// GetWebhookToken returns the webhook shared secret from the config
func (c *AppConfig) GetWebhookToken() string {
	return c.WebhookToken
}

// Location resolves the configured clinic time zone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.ClinicTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid clinic time zone %q", c.ClinicTimezone)
	}
	return loc, nil
}
