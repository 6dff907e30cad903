package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendAppointmentEmail sends a plain-text appointment notification.
// Callers fire it from a goroutine; a delivery failure is logged, never fatal
// to the triggering operation.
func SendAppointmentEmail(to, subject, body string) error {
	fromEmail := os.Getenv("SMTP_USER")

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpPass := os.Getenv("SMTP_PASS")

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT value: %w", err)
	}

	d := gomail.NewDialer(smtpHost, smtpPort, fromEmail, smtpPass)
	return d.DialAndSend(m)
}

// NotifyAppointment formats and sends a lifecycle notification in the
// background.
func NotifyAppointment(to, subject, body string) {
	if to == "" {
		return
	}
	go func() {
		if err := SendAppointmentEmail(to, subject, body); err != nil {
			log.Printf("Failed to send appointment email to %s: %v", to, err)
		}
	}()
}
