package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ahara/entity"
	"ahara/pkg/events"
	"ahara/pkg/gateway"
	"ahara/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testGatewaySecret = "test_secret"

// newTestDB opens a private in-memory database. One connection keeps every
// transaction on the same memory database and serializes writers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{}, &entity.Restaurant{}, &entity.MenuItem{}, &entity.Address{},
		&entity.DeliveryPartner{}, &entity.Order{}, &entity.OrderItem{}, &entity.OrderStatusEvent{},
		&entity.Transaction{}, &entity.Review{},
	))
	return db
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeGateway keeps the orders it opened so FetchOrder can hand them back.
type fakeGateway struct {
	mu       sync.Mutex
	calls    int
	err      error
	fetchErr error
	orders   map[string]gateway.Order
}

func (g *fakeGateway) CreateOrder(_ context.Context, req gateway.CreateOrderReq) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	o := gateway.Order{
		ID: fmt.Sprintf("order_test_%d", g.calls), Amount: req.Amount, Currency: req.Currency,
		Receipt: req.Receipt, Status: "created",
	}
	if g.orders == nil {
		g.orders = map[string]gateway.Order{}
	}
	g.orders[o.ID] = o
	return &o, nil
}

func (g *fakeGateway) FetchOrder(_ context.Context, id string) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	o, ok := g.orders[id]
	if !ok {
		return nil, &gateway.APIError{StatusCode: 400, Code: "BAD_REQUEST_ERROR", Description: "The id provided does not exist"}
	}
	return &o, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return gateway.VerifySignature(testGatewaySecret, orderID, paymentID, signature)
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

// fixture wires every service over one test database.
type fixture struct {
	db  *gorm.DB
	pub *recordingPublisher
	gw  *fakeGateway

	orders   *OrderService
	payments *PaymentService
	reviews  *ReviewService
	delivery *DeliveryService
	auth     *AuthService
	rests    *RestaurantService
	menus    *MenuService
	admin    *AdminService
	apps     *RestaurantApplicationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()
	pub := &recordingPublisher{}
	gw := &fakeGateway{}

	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	addrRepo := repository.NewAddressRepository(db)
	partnerRepo := repository.NewDeliveryPartnerRepository(db)
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	auth := NewAuthService(db, userRepo, partnerRepo, restRepo, "jwt-test-secret", time.Hour, log)

	return &fixture{
		db: db, pub: pub, gw: gw,
		orders:   NewOrderService(db, orderRepo, menuRepo, restRepo, addrRepo, partnerRepo, pub, log),
		payments: NewPaymentService(db, orderRepo, repository.NewTransactionRepository(db), gw, pub, log),
		reviews:  NewReviewService(db, repository.NewReviewRepository(db), orderRepo, restRepo, partnerRepo, nil, pub, log),
		delivery: NewDeliveryService(db, partnerRepo, orderRepo, log),
		auth:     auth,
		rests:    NewRestaurantService(db, restRepo, menuRepo, addrRepo, log),
		menus:    NewMenuService(db, menuRepo, restRepo, log),
		admin:    NewAdminService(db, adminRepo, userRepo, partnerRepo, restRepo, log),
		apps:     NewRestaurantApplicationService(db, auth, restRepo, adminRepo, log),
	}
}

func (f *fixture) user(t *testing.T, role string) *entity.User {
	t.Helper()
	u := &entity.User{Name: role + " user", Email: uuid.NewString() + "@test.local", PasswordHash: "x", Role: role}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) restaurant(t *testing.T, ownerID uint) *entity.Restaurant {
	t.Helper()
	r := &entity.Restaurant{Name: "Resto", Address: "1 Main St", City: "Pune", IsOpen: true, IsActive: true, UserID: ownerID}
	require.NoError(t, f.db.Create(r).Error)
	return r
}

func (f *fixture) menuItem(t *testing.T, restID uint, name, price string, available bool) *entity.MenuItem {
	t.Helper()
	m := &entity.MenuItem{Name: name, Price: decimal.RequireFromString(price), IsAvailable: true, RestaurantID: restID}
	require.NoError(t, f.db.Create(m).Error)
	if !available {
		require.NoError(t, f.db.Model(m).Update("is_available", false).Error)
		m.IsAvailable = false
	}
	return m
}

func (f *fixture) partner(t *testing.T, active, available bool) (*entity.User, *entity.DeliveryPartner) {
	t.Helper()
	u := f.user(t, entity.RoleDeliveryPartner)
	p := &entity.DeliveryPartner{UserID: u.ID, VehicleType: "scooter"}
	require.NoError(t, f.db.Create(p).Error)
	require.NoError(t, f.db.Model(p).Updates(map[string]any{"is_active": active, "is_available": available}).Error)
	p.IsActive, p.IsAvailable = active, available
	return u, p
}

// world is a customer, an owner with one restaurant and two menu items.
type world struct {
	customer *entity.User
	owner    *entity.User
	rest     *entity.Restaurant
	dosa     *entity.MenuItem // 100.00
	lassi    *entity.MenuItem // 150.00
}

func (f *fixture) world(t *testing.T) *world {
	t.Helper()
	w := &world{customer: f.user(t, entity.RoleCustomer), owner: f.user(t, entity.RoleRestaurant)}
	w.rest = f.restaurant(t, w.owner.ID)
	w.dosa = f.menuItem(t, w.rest.ID, "Masala Dosa", "100.00", true)
	w.lassi = f.menuItem(t, w.rest.ID, "Mango Lassi", "150.00", true)
	return w
}

func (f *fixture) placeOrder(t *testing.T, w *world, method string) *OrderDetail {
	t.Helper()
	out, err := f.orders.Create(context.Background(), w.customer.ID, &CreateOrderReq{
		RestaurantID:  w.rest.ID,
		Items:         []OrderItemIn{{MenuItemID: w.dosa.ID, Quantity: 2}, {MenuItemID: w.lassi.ID, Quantity: 2}},
		PaymentMethod: method,
	})
	require.NoError(t, err)
	return out
}

// makeReady moves an order through the restaurant steps up to ready.
func (f *fixture) makeReady(t *testing.T, w *world, orderID uint) {
	t.Helper()
	owner := Actor{UserID: w.owner.ID, Role: entity.RoleRestaurant}
	for _, st := range []entity.OrderStatus{entity.StatusConfirmed, entity.StatusPreparing, entity.StatusReady} {
		_, err := f.orders.UpdateStatus(context.Background(), owner, orderID, UpdateStatusReq{Status: string(st)})
		require.NoError(t, err)
	}
}

// deliver takes an order all the way to delivered with the given partner.
func (f *fixture) deliver(t *testing.T, w *world, orderID uint, partnerUser *entity.User) {
	t.Helper()
	f.makeReady(t, w, orderID)
	_, err := f.orders.AcceptOrder(context.Background(), partnerUser.ID, orderID)
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(context.Background(),
		Actor{UserID: partnerUser.ID, Role: entity.RoleDeliveryPartner}, orderID,
		UpdateStatusReq{Status: string(entity.StatusDelivered)})
	require.NoError(t, err)
}

// gatewayOrder opens a gateway order for the order's frozen total, bypassing the intent checks.
func (f *fixture) gatewayOrder(t *testing.T, orderID uint) string {
	t.Helper()
	var o entity.Order
	require.NoError(t, f.db.First(&o, orderID).Error)
	gw, err := f.gw.CreateOrder(context.Background(), gateway.CreateOrderReq{
		Amount: MinorUnits(o.TotalAmount), Currency: Currency, Receipt: receipt(o.ID),
	})
	require.NoError(t, err)
	return gw.ID
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
