package models

import (
	"time"
)

// Coupon model. A coupon is usable only while active and before its
// expiration date, checked at the moment of use.
type Coupon struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Code           string    `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Discount       float64   `gorm:"column:discount;not null" json:"discount"`
	ExpirationDate time.Time `gorm:"column:expiration_date;not null" json:"expiration_date"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Coupon) TableName() string {
	return "coupon"
}

// Usable reports whether the coupon may be applied at the given time.
// Expiration wins over the active flag.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.ExpirationDate.After(now) {
		return false
	}
	return c.IsActive
}
