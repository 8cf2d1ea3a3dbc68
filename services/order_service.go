package services

import (
	"context"
	"time"

	"ahara/entity"
	"ahara/pkg/events"
	"ahara/pkg/logger"
	"ahara/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	MenuRepo    *repository.MenuRepository
	RestRepo    *repository.RestaurantRepository
	AddressRepo *repository.AddressRepository
	PartnerRepo *repository.DeliveryPartnerRepository
	Access      *OrderAccess
	Events      events.Publisher
	Log         *zap.Logger

	tracer trace.Tracer
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	menuRepo *repository.MenuRepository,
	restRepo *repository.RestaurantRepository,
	addressRepo *repository.AddressRepository,
	partnerRepo *repository.DeliveryPartnerRepository,
	pub events.Publisher,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, MenuRepo: menuRepo, RestRepo: restRepo, AddressRepo: addressRepo,
		PartnerRepo: partnerRepo, Access: NewOrderAccess(db, repo, partnerRepo), Events: pub, Log: log,
		tracer: otel.Tracer("ahara/services/order"),
	}
}

// ----- DTOs -----

type OrderItemIn struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderReq struct {
	RestaurantID        uint          `json:"restaurant_id" binding:"required"`
	Items               []OrderItemIn `json:"items" binding:"required,min=1,dive"`
	DeliveryAddressID   *uint         `json:"delivery_address_id"`
	SpecialInstructions string        `json:"special_instructions" binding:"max=500"`
	PaymentMethod       string        `json:"payment_method" binding:"omitempty,oneof=online cod"`
}

type UpdateStatusReq struct {
	Status    string   `json:"status" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

type OrderItemOut struct {
	MenuItemID uint   `json:"menu_item_id"`
	ItemName   string `json:"item_name"`
	Price      string `json:"price"`
	Quantity   int    `json:"quantity"`
	LineTotal  string `json:"line_total"`
}

type OrderDetail struct {
	ID                  uint               `json:"id"`
	CustomerID          uint               `json:"customer_id"`
	RestaurantID        uint               `json:"restaurant_id"`
	DeliveryPartnerID   *uint              `json:"delivery_partner_id"`
	DeliveryAddressID   *uint              `json:"delivery_address_id"`
	Status              entity.OrderStatus `json:"status"`
	PaymentStatus       string             `json:"payment_status"`
	PaymentMethod       string             `json:"payment_method"`
	Subtotal            string             `json:"subtotal"`
	DeliveryFee         string             `json:"delivery_fee"`
	Tax                 string             `json:"tax"`
	TotalAmount         string             `json:"total_amount"`
	SpecialInstructions string             `json:"special_instructions"`
	CreatedAt           time.Time          `json:"created_at"`
	ActualDeliveryTime  *time.Time         `json:"actual_delivery_time,omitempty"`
	Items               []OrderItemOut     `json:"items"`
	// statuses the caller may move the order to next
	NextStatuses []entity.OrderStatus `json:"next_statuses,omitempty"`
}

func toOrderDetail(o *entity.Order, items []entity.OrderItem) *OrderDetail {
	out := &OrderDetail{
		ID: o.ID, CustomerID: o.CustomerID, RestaurantID: o.RestaurantID,
		DeliveryPartnerID: o.DeliveryPartnerID, DeliveryAddressID: o.DeliveryAddressID,
		Status: o.Status, PaymentStatus: o.PaymentStatus, PaymentMethod: o.PaymentMethod,
		Subtotal: money(o.Subtotal), DeliveryFee: money(o.DeliveryFee), Tax: money(o.Tax),
		TotalAmount: money(o.TotalAmount), SpecialInstructions: o.SpecialInstructions,
		CreatedAt: o.CreatedAt, ActualDeliveryTime: o.ActualDeliveryTime,
		Items: make([]OrderItemOut, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemOut{
			MenuItemID: it.MenuItemID, ItemName: it.ItemName, Price: money(it.Price), Quantity: it.Quantity,
			LineTotal: money(it.Price.Mul(decimalFromInt(it.Quantity))),
		})
	}
	return out
}

func validateCreate(req *CreateOrderReq) error {
	if req.RestaurantID == 0 {
		return validationErr("Restaurant ID is required")
	}
	if len(req.Items) == 0 {
		return validationErr("Order must contain at least one item")
	}
	seen := make(map[uint]bool, len(req.Items))
	for _, it := range req.Items {
		if it.MenuItemID == 0 {
			return validationErr("Menu item ID is required")
		}
		if it.Quantity < 1 {
			return validationErr("Quantity must be at least 1")
		}
		if seen[it.MenuItemID] {
			return validationErr("Duplicate menu item in order")
		}
		seen[it.MenuItemID] = true
	}
	switch req.PaymentMethod {
	case "", entity.PaymentMethodOnline, entity.PaymentMethodCOD:
	default:
		return validationErr("Invalid payment method")
	}
	return nil
}

// ----- Create -----

func (s *OrderService) Create(ctx context.Context, customerID uint, req *CreateOrderReq) (*OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Create")
	defer span.End()

	if err := validateCreate(req); err != nil {
		return nil, err
	}
	method := req.PaymentMethod
	if method == "" {
		method = entity.PaymentMethodOnline
	}

	var out *OrderDetail
	var order entity.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rest, err := s.RestRepo.FindByID(tx, req.RestaurantID)
		if err != nil {
			return notFoundOr(err, "Restaurant not found")
		}
		if !rest.IsActive || !rest.IsOpen {
			return stateErr("Restaurant is not accepting orders")
		}
		if req.DeliveryAddressID != nil {
			ok, err := s.AddressRepo.BelongsTo(tx, *req.DeliveryAddressID, customerID)
			if err != nil {
				return err
			}
			if !ok {
				return notFoundErr("Delivery address not found")
			}
		}

		ids := make([]uint, 0, len(req.Items))
		for _, it := range req.Items {
			ids = append(ids, it.MenuItemID)
		}
		menu, err := s.MenuRepo.FindByIDs(tx, ids)
		if err != nil {
			return err
		}
		if len(menu) != len(ids) {
			return notFoundErr("One or more menu items not found")
		}

		byID := make(map[uint]entity.MenuItem, len(menu))
		var unavailable []string
		for _, m := range menu {
			if m.RestaurantID != req.RestaurantID {
				return consistencyErr("All items must be from the same restaurant")
			}
			if !m.IsAvailable {
				unavailable = append(unavailable, m.Name)
			}
			byID[m.ID] = m
		}
		if len(unavailable) > 0 {
			return &UnavailableItemsError{Names: unavailable}
		}

		lines := make([]PriceLine, 0, len(req.Items))
		items := make([]entity.OrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			m := byID[it.MenuItemID]
			lines = append(lines, PriceLine{Price: m.Price, Quantity: it.Quantity})
			items = append(items, entity.OrderItem{
				MenuItemID: m.ID, ItemName: m.Name, Price: m.Price, Quantity: it.Quantity,
			})
		}
		b := Price(lines).Rounded()

		order = entity.Order{
			CustomerID:          customerID,
			RestaurantID:        req.RestaurantID,
			DeliveryAddressID:   req.DeliveryAddressID,
			Subtotal:            b.Subtotal,
			DeliveryFee:         b.DeliveryFee,
			Tax:                 b.Tax,
			TotalAmount:         b.Total,
			Status:              entity.StatusPending,
			PaymentStatus:       entity.PaymentPending,
			PaymentMethod:       method,
			SpecialInstructions: req.SpecialInstructions,
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.Repo.CreateOrderItems(tx, items); err != nil {
			return err
		}
		if err := s.Repo.CreateStatusEvent(tx, &entity.OrderStatusEvent{
			OrderID: order.ID, ToStatus: entity.StatusPending, ActorID: customerID, ActorRole: entity.RoleCustomer,
		}); err != nil {
			return err
		}

		out = toOrderDetail(&order, items)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("order.id", int64(order.ID)))
	logger.Info(ctx, s.Log, "order created",
		zap.Uint("order_id", order.ID), zap.Uint("customer_id", customerID), zap.String("total", out.TotalAmount))
	publish(ctx, s.Events, s.Log, events.Event{
		Type: events.OrderCreated, OrderID: order.ID, CustomerID: customerID, RestaurantID: order.RestaurantID,
		Status: string(order.Status), PaymentStatus: order.PaymentStatus,
	})
	return out, nil
}

// ----- Status transitions -----

// UpdateStatus applies one transition from the shared table for a restaurant or delivery partner.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, orderID uint, req UpdateStatusReq) (*OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	to, err := CheckTarget(actor.Role, req.Status)
	if err != nil {
		return nil, err
	}

	var out *OrderDetail
	var from entity.OrderStatus
	var updated *entity.Order
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o *entity.Order
		var partner *entity.DeliveryPartner
		var err error
		switch actor.Role {
		case entity.RoleRestaurant:
			o, err = s.Repo.GetOrderForOwner(tx, orderID, actor.UserID)
		case entity.RoleDeliveryPartner:
			partner, err = s.activePartner(tx, actor.UserID)
			if err != nil {
				return err
			}
			o, err = s.Repo.GetOrderForPartner(tx, orderID, partner.ID)
		default:
			return notFoundErr("Order not found")
		}
		if err != nil {
			return notFoundOr(err, "Order not found")
		}

		if err := CheckTransition(actor.Role, o.Status, to); err != nil {
			return err
		}
		from = o.Status

		extra := map[string]any{}
		if to == entity.StatusDelivered {
			extra["actual_delivery_time"] = time.Now()
		}
		var n int64
		if partner != nil && o.DeliveryPartnerID == nil {
			// claiming an unassigned ready order follows the same rules as AcceptOrder
			if !partner.IsAvailable {
				return stateErr("Go online before accepting orders")
			}
			n, err = s.Repo.AcceptGuard(tx, o.ID, partner.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				return conflictErr("Order already taken by another delivery partner")
			}
		} else {
			n, err = s.Repo.UpdateStatusGuard(tx, o.ID, from, to, extra)
			if err != nil {
				return err
			}
			if n == 0 {
				return conflictErr("Order status changed concurrently, please retry")
			}
		}

		if err := s.Repo.CreateStatusEvent(tx, &entity.OrderStatusEvent{
			OrderID: o.ID, FromStatus: from, ToStatus: to, ActorID: actor.UserID, ActorRole: actor.Role,
		}); err != nil {
			return err
		}

		if partner != nil && req.Latitude != nil && req.Longitude != nil {
			if err := s.PartnerRepo.UpdateLocation(tx, partner.ID, *req.Latitude, *req.Longitude); err != nil {
				return err
			}
		}

		updated, err = s.Repo.GetOrder(tx, o.ID)
		if err != nil {
			return err
		}
		items, err := s.Repo.GetOrderItems(tx, o.ID)
		if err != nil {
			return err
		}
		out = toOrderDetail(updated, items)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Info(ctx, s.Log, "order status changed",
		zap.Uint("order_id", orderID), zap.String("from", string(from)), zap.String("to", string(to)),
		zap.String("actor_role", actor.Role), zap.Uint("actor_id", actor.UserID))
	publish(ctx, s.Events, s.Log, statusEvent(updated))
	return out, nil
}

// AcceptOrder assigns a ready order to the calling partner. Exactly one of several
// concurrent callers wins; the rest get a conflict.
func (s *OrderService) AcceptOrder(ctx context.Context, partnerUserID, orderID uint) (*OrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AcceptOrder")
	defer span.End()

	var out *OrderDetail
	var updated *entity.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.activePartner(tx, partnerUserID)
		if err != nil {
			return err
		}
		if !p.IsAvailable {
			return stateErr("Go online before accepting orders")
		}

		o, err := s.Repo.GetOrder(tx, orderID)
		if err != nil {
			return notFoundOr(err, "Order not found")
		}
		if o.DeliveryPartnerID != nil && *o.DeliveryPartnerID != p.ID {
			return conflictErr("Order already taken by another delivery partner")
		}
		if o.Status != entity.StatusReady {
			return stateErr("Order is not ready for pickup")
		}

		n, err := s.Repo.AcceptGuard(tx, o.ID, p.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return conflictErr("Order already taken by another delivery partner")
		}
		if err := s.Repo.CreateStatusEvent(tx, &entity.OrderStatusEvent{
			OrderID: o.ID, FromStatus: entity.StatusReady, ToStatus: entity.StatusPickedUp,
			ActorID: partnerUserID, ActorRole: entity.RoleDeliveryPartner,
		}); err != nil {
			return err
		}

		updated, err = s.Repo.GetOrder(tx, o.ID)
		if err != nil {
			return err
		}
		items, err := s.Repo.GetOrderItems(tx, o.ID)
		if err != nil {
			return err
		}
		out = toOrderDetail(updated, items)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Info(ctx, s.Log, "order accepted",
		zap.Uint("order_id", orderID), zap.Uint("partner_id", *updated.DeliveryPartnerID))
	publish(ctx, s.Events, s.Log, statusEvent(updated))
	return out, nil
}

func (s *OrderService) activePartner(tx *gorm.DB, userID uint) (*entity.DeliveryPartner, error) {
	p, err := s.PartnerRepo.GetByUserID(tx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Delivery partner profile not found")
	}
	if !p.IsActive {
		return nil, stateErr("Delivery partner account is not active")
	}
	return p, nil
}

// ----- Reads -----

// Detail returns the order if the actor is allowed to see it.
func (s *OrderService) Detail(ctx context.Context, actor Actor, orderID uint) (*OrderDetail, error) {
	db := s.DB.WithContext(ctx)
	o, err := s.Access.Find(db, actor, orderID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	items, err := s.Repo.GetOrderItems(db, o.ID)
	if err != nil {
		return nil, err
	}
	out := toOrderDetail(o, items)
	out.NextStatuses = AllowedTargets(actor.Role, o.Status)
	return out, nil
}

func parseStatusFilter(status string) (string, error) {
	if status == "" {
		return "", nil
	}
	if _, ok := entity.ParseOrderStatus(status); !ok {
		return "", validationErr("Invalid status filter")
	}
	return status, nil
}

func (s *OrderService) ListMine(customerID uint, status string, limit, offset int) ([]repository.CustomerOrderSummary, error) {
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListForCustomer(customerID, st, limit, offset)
}

type OwnerOrderListOut struct {
	Items  []repository.OwnerOrderSummary `json:"items"`
	Total  int64                          `json:"total"`
	Limit  int                            `json:"limit"`
	Offset int                            `json:"offset"`
}

func (s *OrderService) ListForRestaurant(ownerID uint, status string, limit, offset int) (*OwnerOrderListOut, error) {
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	items, total, err := s.Repo.ListForOwner(ownerID, st, limit, offset)
	if err != nil {
		return nil, err
	}
	return &OwnerOrderListOut{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// ----- helpers -----

func statusEvent(o *entity.Order) events.Event {
	return events.Event{
		Type: events.OrderStatusChanged, OrderID: o.ID, CustomerID: o.CustomerID, RestaurantID: o.RestaurantID,
		DeliveryPartnerID: o.DeliveryPartnerID, Status: string(o.Status), PaymentStatus: o.PaymentStatus,
	}
}
