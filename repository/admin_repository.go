package repository

import (
	"time"

	"ahara/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminRepository holds the platform-wide read models behind the admin panel.
type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

type PlatformOverview struct {
	TotalUsers         int64           `json:"total_users"`
	TotalRestaurants   int64           `json:"total_restaurants"`
	ActiveRestaurants  int64           `json:"active_restaurants"`
	PendingRestaurants int64           `json:"pending_restaurants"`
	TotalOrders        int64           `json:"total_orders"`
	OrdersToday        int64           `json:"orders_today"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
}

type StatusCount struct {
	Status entity.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

// Overview counts users, restaurants and orders; revenue only includes settled payments.
func (r *AdminRepository) Overview(since time.Time) (PlatformOverview, error) {
	var out PlatformOverview
	if err := r.DB.Model(&entity.User{}).Count(&out.TotalUsers).Error; err != nil {
		return out, err
	}
	if err := r.DB.Model(&entity.Restaurant{}).Count(&out.TotalRestaurants).Error; err != nil {
		return out, err
	}
	if err := r.DB.Model(&entity.Restaurant{}).Where("is_active = ?", true).Count(&out.ActiveRestaurants).Error; err != nil {
		return out, err
	}
	out.PendingRestaurants = out.TotalRestaurants - out.ActiveRestaurants
	if err := r.DB.Model(&entity.Order{}).Count(&out.TotalOrders).Error; err != nil {
		return out, err
	}
	if err := r.DB.Model(&entity.Order{}).Where("created_at >= ?", since).Count(&out.OrdersToday).Error; err != nil {
		return out, err
	}
	var rev struct{ Revenue decimal.Decimal }
	if err := r.DB.Model(&entity.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue").
		Where("payment_status = ?", entity.PaymentSuccess).
		Scan(&rev).Error; err != nil {
		return out, err
	}
	out.TotalRevenue = rev.Revenue
	return out, nil
}

func (r *AdminRepository) OrdersByStatus() ([]StatusCount, error) {
	out := []StatusCount{}
	err := r.DB.Model(&entity.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").Order("status").
		Scan(&out).Error
	return out, err
}

type AdminOrderRow struct {
	ID             uint               `json:"id"`
	CustomerID     uint               `json:"customer_id"`
	CustomerName   string             `json:"customer_name"`
	CustomerEmail  string             `json:"customer_email"`
	RestaurantID   uint               `json:"restaurant_id"`
	RestaurantName string             `json:"restaurant_name"`
	Status         entity.OrderStatus `json:"status"`
	PaymentStatus  string             `json:"payment_status"`
	PaymentMethod  string             `json:"payment_method"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ListOrders returns orders across the platform, newest first, plus the filtered total.
func (r *AdminRepository) ListOrders(status string, limit, offset int) ([]AdminOrderRow, int64, error) {
	base := func() *gorm.DB {
		q := r.DB.Table("orders AS o").
			Joins("LEFT JOIN users u ON u.id = o.customer_id").
			Joins("LEFT JOIN restaurants r ON r.id = o.restaurant_id").
			Where("o.deleted_at IS NULL")
		if status != "" {
			q = q.Where("o.status = ?", status)
		}
		return q
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []AdminOrderRow{}
	err := base().
		Select(`o.id, o.customer_id, u.name AS customer_name, u.email AS customer_email, o.restaurant_id,
			r.name AS restaurant_name, o.status, o.payment_status, o.payment_method, o.total_amount, o.created_at`).
		Order("o.created_at DESC, o.id DESC").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, total, err
}

type AdminRestaurantRow struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	City         string          `json:"city"`
	CuisineType  string          `json:"cuisine_type"`
	OwnerID      uint            `json:"owner_id"`
	OwnerEmail   string          `json:"owner_email"`
	IsActive     bool            `json:"is_active"`
	IsOpen       bool            `json:"is_open"`
	Rating       decimal.Decimal `json:"rating"`
	TotalRatings int64           `json:"total_ratings"`
	TotalOrders  int64           `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ListRestaurants filters by approval: "pending", "active" or "" for all.
func (r *AdminRepository) ListRestaurants(status string, limit, offset int) ([]AdminRestaurantRow, int64, error) {
	base := func() *gorm.DB {
		q := r.DB.Table("restaurants AS r").
			Joins("LEFT JOIN users u ON u.id = r.user_id").
			Where("r.deleted_at IS NULL")
		switch status {
		case "pending":
			q = q.Where("r.is_active = ?", false)
		case "active":
			q = q.Where("r.is_active = ?", true)
		}
		return q
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []AdminRestaurantRow{}
	err := base().
		Select(`r.id, r.name, r.city, r.cuisine_type, r.user_id AS owner_id, u.email AS owner_email,
			r.is_active, r.is_open, r.rating, r.total_ratings,
			(SELECT COUNT(*) FROM orders o WHERE o.restaurant_id = r.id AND o.deleted_at IS NULL) AS total_orders,
			(SELECT COALESCE(SUM(o.total_amount), 0) FROM orders o
				WHERE o.restaurant_id = r.id AND o.payment_status = ? AND o.deleted_at IS NULL) AS total_revenue,
			r.created_at`, entity.PaymentSuccess).
		Order("r.created_at DESC, r.id DESC").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, total, err
}

type AdminCustomerRow struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	TotalOrders int64           `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ListCustomers ranks customers by what they have spent on settled orders.
func (r *AdminRepository) ListCustomers(limit, offset int) ([]AdminCustomerRow, int64, error) {
	var total int64
	if err := r.DB.Model(&entity.User{}).Where("role = ?", entity.RoleCustomer).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []AdminCustomerRow{}
	err := r.DB.Table("users AS u").
		Select(`u.id, u.name, u.email, u.phone, u.created_at,
			(SELECT COUNT(*) FROM orders o WHERE o.customer_id = u.id AND o.deleted_at IS NULL) AS total_orders,
			(SELECT COALESCE(SUM(o.total_amount), 0) FROM orders o
				WHERE o.customer_id = u.id AND o.payment_status = ? AND o.deleted_at IS NULL) AS total_spent`,
			entity.PaymentSuccess).
		Where("u.role = ? AND u.deleted_at IS NULL", entity.RoleCustomer).
		Order("total_spent DESC, u.id").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, total, err
}

type AdminPartnerRow struct {
	ID              uint            `json:"id"`
	UserID          uint            `json:"user_id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	VehicleType     string          `json:"vehicle_type"`
	VehicleNumber   string          `json:"vehicle_number"`
	IsActive        bool            `json:"is_active"`
	IsAvailable     bool            `json:"is_available"`
	Rating          decimal.Decimal `json:"rating"`
	TotalRatings    int64           `json:"total_ratings"`
	TotalDeliveries int64           `json:"total_deliveries"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ListPartners filters by approval like ListRestaurants. Deliveries and earnings count delivered orders.
func (r *AdminRepository) ListPartners(status string, limit, offset int) ([]AdminPartnerRow, int64, error) {
	base := func() *gorm.DB {
		q := r.DB.Table("delivery_partners AS dp").
			Joins("JOIN users u ON u.id = dp.user_id").
			Where("dp.deleted_at IS NULL AND u.deleted_at IS NULL")
		switch status {
		case "pending":
			q = q.Where("dp.is_active = ?", false)
		case "active":
			q = q.Where("dp.is_active = ?", true)
		}
		return q
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []AdminPartnerRow{}
	err := base().
		Select(`dp.id, dp.user_id, u.name, u.email, u.phone, dp.vehicle_type, dp.vehicle_number,
			dp.is_active, dp.is_available, dp.rating, dp.total_ratings,
			(SELECT COUNT(*) FROM orders o WHERE o.delivery_partner_id = dp.id AND o.status = ?) AS total_deliveries,
			(SELECT COALESCE(SUM(o.delivery_fee), 0) FROM orders o
				WHERE o.delivery_partner_id = dp.id AND o.status = ?) AS total_earnings,
			dp.created_at`, entity.StatusDelivered, entity.StatusDelivered).
		Order("dp.created_at DESC, dp.id DESC").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, total, err
}

// RecentOrders is the dashboard's latest-activity list.
func (r *AdminRepository) RecentOrders(n int) ([]AdminOrderRow, error) {
	rows, _, err := r.ListOrders("", n, 0)
	return rows, err
}
