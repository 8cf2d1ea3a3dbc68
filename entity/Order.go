package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order rows are never deleted; cancellation is a status.
type Order struct {
	gorm.Model
	CustomerID uint `gorm:"index;not null" json:"customer_id"`
	Customer   User `gorm:"foreignKey:CustomerID" json:"-"`

	RestaurantID uint       `gorm:"index;not null" json:"restaurant_id"`
	Restaurant   Restaurant `json:"-"`

	DeliveryPartnerID *uint            `gorm:"index" json:"delivery_partner_id"`
	DeliveryPartner   *DeliveryPartner `json:"-"`

	DeliveryAddressID *uint    `json:"delivery_address_id"`
	DeliveryAddress   *Address `json:"-"`

	// frozen at creation: total_amount = subtotal + delivery_fee + tax
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	Tax         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`

	Status              OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus       string      `gorm:"type:varchar(20);not null" json:"payment_status"`
	PaymentMethod       string      `gorm:"type:varchar(20);not null" json:"payment_method"`
	SpecialInstructions string      `json:"special_instructions"`
	ActualDeliveryTime  *time.Time  `json:"actual_delivery_time"`

	Items []OrderItem `json:"-"`
}
