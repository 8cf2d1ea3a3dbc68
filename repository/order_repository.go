package repository

import (
	"time"

	"ahara/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) CreateOrderItems(tx *gorm.DB, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *OrderRepository) CreateStatusEvent(tx *gorm.DB, ev *entity.OrderStatusEvent) error {
	return tx.Create(ev).Error
}

// GetOrder loads an order with no ownership scope (admin reads, websocket checks).
func (r *OrderRepository) GetOrder(tx *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForCustomer(tx *gorm.DB, orderID, customerID uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.Where("id = ? AND customer_id = ?", orderID, customerID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderForOwner scopes to restaurants owned by the restaurant account.
func (r *OrderRepository) GetOrderForOwner(tx *gorm.DB, orderID, ownerID uint) (*entity.Order, error) {
	var o entity.Order
	err := tx.Where("id = ? AND restaurant_id IN (SELECT id FROM restaurants WHERE user_id = ? AND deleted_at IS NULL)", orderID, ownerID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrderForPartner returns orders assigned to the partner, or unassigned orders that are ready for pickup.
func (r *OrderRepository) GetOrderForPartner(tx *gorm.DB, orderID, partnerID uint) (*entity.Order, error) {
	var o entity.Order
	err := tx.Where("id = ? AND (delivery_partner_id = ? OR (delivery_partner_id IS NULL AND status = ?))",
		orderID, partnerID, entity.StatusReady).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderItems(tx *gorm.DB, orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := tx.Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

// ---------------- Guarded writes ----------------

// UpdateStatusGuard moves an order from -> to only if it is still in `from`.
// Zero rows affected means another request changed it first.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus, extra map[string]any) (int64, error) {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// AcceptGuard assigns the partner and marks the order picked up in one conditional statement.
func (r *OrderRepository) AcceptGuard(tx *gorm.DB, orderID, partnerID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ? AND (delivery_partner_id IS NULL OR delivery_partner_id = ?)",
			orderID, entity.StatusReady, partnerID).
		Updates(map[string]any{
			"delivery_partner_id": partnerID,
			"status":              entity.StatusPickedUp,
		})
	return res.RowsAffected, res.Error
}

// MarkPaidGuard sets payment_status=success once on a live order; a pending order is confirmed in the same statement.
func (r *OrderRepository) MarkPaidGuard(tx *gorm.DB, orderID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND payment_status <> ? AND status <> ?", orderID, entity.PaymentSuccess, entity.StatusCancelled).
		Updates(map[string]any{
			"payment_status": entity.PaymentSuccess,
			"status":         gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END", entity.StatusPending, entity.StatusConfirmed),
		})
	return res.RowsAffected, res.Error
}

// MarkPaymentFailed records a rejected payment attempt on the customer's still-unpaid order.
// A later successful verification can still settle it.
func (r *OrderRepository) MarkPaymentFailed(tx *gorm.DB, orderID, customerID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND customer_id = ? AND payment_status = ?", orderID, customerID, entity.PaymentPending).
		Update("payment_status", entity.PaymentFailed)
	return res.RowsAffected, res.Error
}

// ---------------- Listings ----------------

type CustomerOrderSummary struct {
	ID             uint               `json:"id"`
	RestaurantID   uint               `json:"restaurant_id"`
	RestaurantName string             `json:"restaurant_name"`
	Status         entity.OrderStatus `json:"status"`
	PaymentStatus  string             `json:"payment_status"`
	PaymentMethod  string             `json:"payment_method"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	ItemCount      int64              `json:"item_count"`
	CreatedAt      time.Time          `json:"created_at"`
}

// GET /orders/my-orders
func (r *OrderRepository) ListForCustomer(customerID uint, status string, limit, offset int) ([]CustomerOrderSummary, error) {
	q := r.DB.Table("orders AS o").
		Select(`o.id, o.restaurant_id, r.name AS restaurant_name, o.status, o.payment_status, o.payment_method,
			o.total_amount, o.created_at,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id AND oi.deleted_at IS NULL) AS item_count`).
		Joins("JOIN restaurants r ON r.id = o.restaurant_id").
		Where("o.customer_id = ? AND o.deleted_at IS NULL", customerID)
	if status != "" {
		q = q.Where("o.status = ?", status)
	}
	out := []CustomerOrderSummary{}
	err := q.Order("o.created_at DESC, o.id DESC").Limit(limit).Offset(offset).Scan(&out).Error
	return out, err
}

type OwnerOrderSummary struct {
	ID                  uint               `json:"id"`
	CustomerID          uint               `json:"customer_id"`
	CustomerName        string             `json:"customer_name"`
	CustomerPhone       string             `json:"customer_phone"`
	RestaurantID        uint               `json:"restaurant_id"`
	RestaurantName      string             `json:"restaurant_name"`
	Status              entity.OrderStatus `json:"status"`
	PaymentStatus       string             `json:"payment_status"`
	TotalAmount         decimal.Decimal    `json:"total_amount"`
	SpecialInstructions string             `json:"special_instructions"`
	CreatedAt           time.Time          `json:"created_at"`
}

// GET /orders/restaurant/orders → orders across every restaurant the account owns
func (r *OrderRepository) ListForOwner(ownerID uint, status string, limit, offset int) ([]OwnerOrderSummary, int64, error) {
	base := func() *gorm.DB {
		q := r.DB.Table("orders AS o").
			Joins("JOIN restaurants r ON r.id = o.restaurant_id").
			Joins("JOIN users u ON u.id = o.customer_id").
			Where("r.user_id = ? AND r.deleted_at IS NULL AND o.deleted_at IS NULL", ownerID)
		if status != "" {
			q = q.Where("o.status = ?", status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	out := []OwnerOrderSummary{}
	err := base().
		Select(`o.id, o.customer_id, u.name AS customer_name, u.phone AS customer_phone, o.restaurant_id,
			r.name AS restaurant_name, o.status, o.payment_status, o.total_amount, o.special_instructions, o.created_at`).
		Order("o.created_at DESC, o.id DESC").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, total, err
}

// DeliveryOrderRow is what a delivery partner sees for pickup and drop-off.
type DeliveryOrderRow struct {
	ID                 uint               `json:"id"`
	Status             entity.OrderStatus `json:"status"`
	RestaurantName     string             `json:"restaurant_name"`
	RestaurantAddress  string             `json:"restaurant_address"`
	RestaurantPhone    string             `json:"restaurant_phone"`
	CustomerName       string             `json:"customer_name"`
	CustomerPhone      string             `json:"customer_phone"`
	DeliveryAddress    string             `json:"delivery_address"`
	DeliveryCity       string             `json:"delivery_city"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	DeliveryFee        decimal.Decimal    `json:"delivery_fee"`
	CreatedAt          time.Time          `json:"created_at"`
	ActualDeliveryTime *time.Time         `json:"actual_delivery_time,omitempty"`
}

func (r *OrderRepository) deliveryRows() *gorm.DB {
	return r.DB.Table("orders AS o").
		Select(`o.id, o.status, r.name AS restaurant_name, r.address AS restaurant_address, r.phone AS restaurant_phone,
			u.name AS customer_name, u.phone AS customer_phone, a.address_line1 AS delivery_address, a.city AS delivery_city,
			o.total_amount, o.delivery_fee, o.created_at, o.actual_delivery_time`).
		Joins("JOIN restaurants r ON r.id = o.restaurant_id").
		Joins("JOIN users u ON u.id = o.customer_id").
		Joins("LEFT JOIN addresses a ON a.id = o.delivery_address_id").
		Where("o.deleted_at IS NULL")
}

// ListAvailableForPartner returns ready orders nobody else holds, oldest first.
func (r *OrderRepository) ListAvailableForPartner(partnerID uint, limit int) ([]DeliveryOrderRow, error) {
	out := []DeliveryOrderRow{}
	err := r.deliveryRows().
		Where("o.status = ? AND (o.delivery_partner_id IS NULL OR o.delivery_partner_id = ?)", entity.StatusReady, partnerID).
		Order("o.created_at ASC, o.id ASC").Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *OrderRepository) ListActiveForPartner(partnerID uint) ([]DeliveryOrderRow, error) {
	out := []DeliveryOrderRow{}
	err := r.deliveryRows().
		Where("o.delivery_partner_id = ? AND o.status IN ?", partnerID,
			[]entity.OrderStatus{entity.StatusPickedUp, entity.StatusInTransit}).
		Order("o.updated_at DESC").
		Scan(&out).Error
	return out, err
}

func (r *OrderRepository) ListDeliveredForPartner(partnerID uint, limit, offset int) ([]DeliveryOrderRow, error) {
	out := []DeliveryOrderRow{}
	err := r.deliveryRows().
		Where("o.delivery_partner_id = ? AND o.status = ?", partnerID, entity.StatusDelivered).
		Order("o.actual_delivery_time DESC, o.id DESC").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, err
}

type DeliveryTotals struct {
	Deliveries int64           `json:"deliveries"`
	Earnings   decimal.Decimal `json:"earnings"`
}

// PartnerTotals sums delivered orders; since filters on delivery time when non-nil.
func (r *OrderRepository) PartnerTotals(partnerID uint, since *time.Time) (DeliveryTotals, error) {
	q := r.DB.Model(&entity.Order{}).
		Select("COUNT(*) AS deliveries, COALESCE(SUM(delivery_fee), 0) AS earnings").
		Where("delivery_partner_id = ? AND status = ?", partnerID, entity.StatusDelivered)
	if since != nil {
		q = q.Where("actual_delivery_time >= ?", *since)
	}
	var out DeliveryTotals
	err := q.Scan(&out).Error
	return out, err
}
