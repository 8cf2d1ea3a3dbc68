package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction records one settled gateway payment. Append-only; at most one per order.
type Transaction struct {
	gorm.Model
	OrderID          uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	GatewayOrderID   string          `gorm:"not null" json:"gateway_order_id"`
	PaymentGatewayID string          `gorm:"uniqueIndex;not null" json:"payment_gateway_id"`
	Amount           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency         string          `gorm:"type:varchar(3);not null" json:"currency"`
	PaymentMethod    string          `gorm:"not null" json:"payment_method"`
	Status           string          `gorm:"not null" json:"status"`
}
