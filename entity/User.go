package entity

import (
	"gorm.io/gorm"
)

const (
	RoleCustomer        = "customer"
	RoleRestaurant      = "restaurant"
	RoleDeliveryPartner = "delivery_partner"
	RoleAdmin           = "admin"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Phone        string `json:"phone"`
	Role         string `gorm:"not null;default:customer;index" json:"role"`

	// preload only when needed
	RestaurantsOwned []Restaurant     `gorm:"foreignKey:UserID" json:"-"`
	Addresses        []Address        `json:"-"`
	Orders           []Order          `gorm:"foreignKey:CustomerID" json:"-"`
	PartnerProfile   *DeliveryPartner `gorm:"foreignKey:UserID" json:"-"`
}
