package entity

import "time"

// OrderStatusEvent is an append-only audit row written with every status change.
type OrderStatusEvent struct {
	ID         uint        `gorm:"primarykey" json:"id"`
	OrderID    uint        `gorm:"index;not null" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	ActorID    uint        `json:"actor_id"`
	ActorRole  string      `json:"actor_role"`
	CreatedAt  time.Time   `json:"created_at"`
}
