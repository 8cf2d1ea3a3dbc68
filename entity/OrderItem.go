package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem snapshots name and price at order time so later menu edits never reprice history.
type OrderItem struct {
	gorm.Model
	ItemName string          `gorm:"not null" json:"item_name"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity int             `gorm:"not null" json:"quantity"`

	OrderID    uint `gorm:"index;not null" json:"order_id"`
	MenuItemID uint `gorm:"not null" json:"menu_item_id"`
}
