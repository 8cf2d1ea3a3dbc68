package entity

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	OrderID uint  `gorm:"index;not null" json:"order_id"`
	Order   Order `json:"-"`

	UserID       uint `gorm:"index;not null" json:"user_id"`
	RestaurantID uint `gorm:"index;not null" json:"restaurant_id"`

	DeliveryPartnerID *uint `gorm:"index" json:"delivery_partner_id"`

	RestaurantRating *int    `json:"restaurant_rating"`
	RestaurantReview *string `json:"restaurant_review"`
	DeliveryRating   *int    `json:"delivery_rating"`
	DeliveryReview   *string `json:"delivery_review"`
}
