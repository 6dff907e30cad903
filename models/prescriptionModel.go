package models

import (
	"time"
)

// Prescription model. Attached exactly once to a completed appointment and
// immutable afterwards; no update path exists anywhere in the service.
type Prescription struct {
	ID            uint       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID uint       `gorm:"column:appointment_id;not null;uniqueIndex" json:"appointment_id"`
	DoctorID      string     `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	PatientID     string     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Diagnosis     string     `gorm:"type:text;column:diagnosis;not null" json:"diagnosis"`
	LabTests      string     `gorm:"type:text;column:lab_tests" json:"lab_tests,omitempty"`
	Advice        string     `gorm:"type:text;column:advice" json:"advice,omitempty"`
	FollowUpDate  *time.Time `gorm:"column:follow_up_date" json:"follow_up_date,omitempty"`
	Notes         string     `gorm:"type:text;column:notes" json:"notes,omitempty"`
	SignatureURL  string     `gorm:"column:signature_url" json:"signature_url,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Medicines     []Medicine `gorm:"foreignKey:PrescriptionID;references:ID" json:"medicines"`
}

func (Prescription) TableName() string {
	return "prescription"
}

// Medicine model: one prescribed item. Name, dosage, frequency and duration
// are required; instructions are optional.
type Medicine struct {
	ID             uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PrescriptionID uint   `gorm:"column:prescription_id;not null;index" json:"prescription_id"`
	Name           string `gorm:"column:name;not null" json:"name"`
	Dosage         string `gorm:"column:dosage;not null" json:"dosage"`
	Frequency      string `gorm:"column:frequency;not null" json:"frequency"`
	Duration       string `gorm:"column:duration;not null" json:"duration"`
	Instructions   string `gorm:"type:text;column:instructions" json:"instructions,omitempty"`
}

func (Medicine) TableName() string {
	return "medicine"
}

// MedicalRecord model: a patient-supplied history entry attached while the
// appointment is still pending.
type MedicalRecord struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID uint      `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	PatientID     string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Description   string    `gorm:"type:text;column:description" json:"description"`
	RecordDate    string    `gorm:"column:record_date" json:"record_date"`
	AttachmentURL string    `gorm:"column:attachment_url" json:"attachment_url,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (MedicalRecord) TableName() string {
	return "medical_record"
}
