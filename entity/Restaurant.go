package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `gorm:"index" json:"city"`
	Phone       string `json:"phone"`
	CuisineType string `json:"cuisine_type"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	ImageURL    string `json:"image_url"`

	// IsActive is set by an admin; IsOpen by the owner. Orders need both.
	IsActive bool `gorm:"not null;default:false;index" json:"is_active"`
	IsOpen   bool `gorm:"not null" json:"is_open"`

	// derived from reviews, recomputed in the same transaction as every review write
	Rating       decimal.Decimal `gorm:"type:decimal(3,1);not null;default:0" json:"rating"`
	TotalRatings int64           `gorm:"not null;default:0" json:"total_ratings"`

	UserID uint `gorm:"index" json:"user_id"` // owner (users.id)
	User   User `json:"-"`

	MenuItems []MenuItem `json:"-"`
	Orders    []Order    `json:"-"`
}
