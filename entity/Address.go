package entity

import "gorm.io/gorm"

type Address struct {
	gorm.Model
	Label        string `json:"label"`
	AddressLine1 string `gorm:"not null" json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `gorm:"not null" json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	IsDefault    bool   `gorm:"not null;default:false" json:"is_default"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `json:"-"`
}
