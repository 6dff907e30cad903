package models

import (
	"time"
)

// Doctor model
type Doctor struct {
	ID             string        `gorm:"primaryKey;column:id" json:"id"`
	UserID         int64         `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	FirstName      string        `gorm:"column:first_name;not null" json:"first_name"`
	LastName       string        `gorm:"column:last_name;not null;index" json:"last_name"`
	Specialty      string        `gorm:"column:specialty;not null;index" json:"specialty"`
	Degree         string        `gorm:"column:degree" json:"degree"`
	Experience     int           `gorm:"column:experience" json:"experience"`
	About          string        `gorm:"type:text;column:about" json:"about"`
	Fees           float64       `gorm:"column:fees;not null" json:"fees"`
	ImageURL       string        `gorm:"column:image_url" json:"image_url"`
	CertificateURL string        `gorm:"column:certificate_url" json:"certificate_url"`
	SignatureURL   string        `gorm:"column:signature_url" json:"signature_url"`
	Available      bool          `gorm:"column:available;not null;default:true" json:"available"`
	CreatedAt      time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Appointments   []Appointment `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
	Schedules      []Schedule    `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

func (Doctor) TableName() string {
	return "doctor"
}

// Patient model
type Patient struct {
	ID           string        `gorm:"primaryKey;column:id" json:"id"`
	UserID       int64         `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	FirstName    string        `gorm:"column:first_name;not null" json:"first_name"`
	MiddleName   string        `gorm:"column:middle_name" json:"middle_name"`
	LastName     string        `gorm:"column:last_name;not null;index" json:"last_name"`
	Sex          string        `gorm:"column:sex;check:sex IN ('Male', 'Female', 'Other');not null" json:"sex"`
	DateOfBirth  string        `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Phone        string        `gorm:"column:phone" json:"phone"`
	Email        string        `gorm:"column:email" json:"email"`
	Address      string        `gorm:"column:address" json:"address"`
	ImageURL     string        `gorm:"column:image_url" json:"image_url"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Appointments []Appointment `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}
