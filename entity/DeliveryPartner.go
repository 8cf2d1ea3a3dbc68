package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DeliveryPartner struct {
	gorm.Model
	VehicleType   string `json:"vehicle_type"`
	VehicleNumber string `json:"vehicle_number"`
	LicenseNumber string `json:"license_number"`

	// set by an admin; inactive partners cannot take orders
	IsActive    bool `gorm:"not null" json:"is_active"`
	IsAvailable bool `gorm:"not null" json:"is_available"`

	CurrentLatitude  *float64 `json:"current_latitude,omitempty"`
	CurrentLongitude *float64 `json:"current_longitude,omitempty"`

	Rating       decimal.Decimal `gorm:"type:decimal(3,1);not null;default:0" json:"rating"`
	TotalRatings int64           `gorm:"not null;default:0" json:"total_ratings"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `json:"-"`
}
