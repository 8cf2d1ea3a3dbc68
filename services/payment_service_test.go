package services

import (
	"context"
	"errors"
	"testing"

	"ahara/entity"
	"ahara/pkg/events"
	"ahara/pkg/gateway"

	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	suite.Suite
	f   *fixture
	w   *world
	ctx context.Context
}

func (s *PaymentServiceSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.w = s.f.world(s.T())
	s.ctx = context.Background()
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) signed(orderID uint, gwOrder, paymentID string) VerifyPaymentReq {
	return VerifyPaymentReq{
		OrderID:           orderID,
		RazorpayOrderID:   gwOrder,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: gateway.Sign(testGatewaySecret, gwOrder, paymentID),
	}
}

// verifyReq signs a payment against a gateway order opened for this very order.
func (s *PaymentServiceSuite) verifyReq(orderID uint, paymentID string) VerifyPaymentReq {
	return s.signed(orderID, s.f.gatewayOrder(s.T(), orderID), paymentID)
}

func (s *PaymentServiceSuite) TestCreateIntentUsesMinorUnits() {
	o := s.f.placeOrder(s.T(), s.w, "")

	intent, err := s.f.payments.CreateIntent(s.ctx, s.w.customer.ID, o.ID)
	s.Require().NoError(err)
	s.Equal(int64(56500), intent.Amount)
	s.Equal("INR", intent.Currency)
	s.Equal("rzp_test_key", intent.KeyID)
	s.NotEmpty(intent.RazorpayOrderID)

	got, err := s.f.orders.Repo.GetOrder(s.f.db, o.ID)
	s.Require().NoError(err)
	s.Equal(entity.StatusPending, got.Status, "intent leaves local state untouched")
	s.Equal(entity.PaymentPending, got.PaymentStatus)
}

func (s *PaymentServiceSuite) TestCreateIntentRejections() {
	o := s.f.placeOrder(s.T(), s.w, "")
	stranger := s.f.user(s.T(), entity.RoleCustomer)

	_, err := s.f.payments.CreateIntent(s.ctx, stranger.ID, o.ID)
	s.ErrorIs(err, ErrNotFound)

	cod := s.f.placeOrder(s.T(), s.w, entity.PaymentMethodCOD)
	_, err = s.f.payments.CreateIntent(s.ctx, s.w.customer.ID, cod.ID)
	s.ErrorIs(err, ErrState)

	s.f.gw.err = errors.New("connection reset")
	_, err = s.f.payments.CreateIntent(s.ctx, s.w.customer.ID, o.ID)
	s.ErrorIs(err, ErrGateway)
	s.NotContains(err.Error(), "connection reset")
}

func (s *PaymentServiceSuite) TestVerifyConfirmsOrderOnce() {
	o := s.f.placeOrder(s.T(), s.w, "")
	req := s.verifyReq(o.ID, "pay_1")

	first, err := s.f.payments.Verify(s.ctx, s.w.customer.ID, req)
	s.Require().NoError(err)
	s.False(first.AlreadyProcessed)
	s.Equal(entity.StatusConfirmed, first.Status)
	s.Equal(entity.PaymentSuccess, first.PaymentStatus)
	s.Equal("565.00", first.Amount)
	s.Equal("pay_1", first.PaymentGatewayID)

	second, err := s.f.payments.Verify(s.ctx, s.w.customer.ID, req)
	s.Require().NoError(err)
	s.True(second.AlreadyProcessed)
	s.Equal(first.TransactionID, second.TransactionID)

	s.Equal(int64(1), s.f.count(s.T(), &entity.Transaction{}))
	var confirmations int64
	s.Require().NoError(s.f.db.Model(&entity.OrderStatusEvent{}).
		Where("order_id = ? AND to_status = ?", o.ID, entity.StatusConfirmed).Count(&confirmations).Error)
	s.Equal(int64(1), confirmations)

	s.Equal([]string{events.OrderCreated, events.PaymentSucceeded}, s.f.pub.Types())
}

func (s *PaymentServiceSuite) TestVerifyRejectsTamperedSignature() {
	o := s.f.placeOrder(s.T(), s.w, "")
	good := s.verifyReq(o.ID, "pay_1")
	bad := good
	bad.RazorpayPaymentID = "pay_2"

	_, err := s.f.payments.Verify(s.ctx, s.w.customer.ID, bad)
	s.ErrorIs(err, ErrSignature)
	s.Zero(s.f.count(s.T(), &entity.Transaction{}))

	got, err := s.f.orders.Repo.GetOrder(s.f.db, o.ID)
	s.Require().NoError(err)
	s.Equal(entity.PaymentFailed, got.PaymentStatus)
	s.Equal(entity.StatusPending, got.Status)

	out, err := s.f.payments.Verify(s.ctx, s.w.customer.ID, good)
	s.Require().NoError(err, "a failed attempt does not block a genuine payment")
	s.Equal(entity.PaymentSuccess, out.PaymentStatus)
}

func (s *PaymentServiceSuite) TestFailedAttemptOnlyMarksOwnOrder() {
	o := s.f.placeOrder(s.T(), s.w, "")
	stranger := s.f.user(s.T(), entity.RoleCustomer)
	bad := s.verifyReq(o.ID, "pay_1")
	bad.RazorpaySignature = "00"

	_, err := s.f.payments.Verify(s.ctx, stranger.ID, bad)
	s.ErrorIs(err, ErrSignature)

	got, err := s.f.orders.Repo.GetOrder(s.f.db, o.ID)
	s.Require().NoError(err)
	s.Equal(entity.PaymentPending, got.PaymentStatus)
}

func (s *PaymentServiceSuite) TestVerifyRejectsGatewayOrderOfAnotherOrder() {
	cheap, err := s.f.orders.Create(s.ctx, s.w.customer.ID, &CreateOrderReq{
		RestaurantID: s.w.rest.ID,
		Items:        []OrderItemIn{{MenuItemID: s.w.dosa.ID, Quantity: 1}},
	})
	s.Require().NoError(err)
	s.Equal("145.00", cheap.TotalAmount)
	pricey := s.f.placeOrder(s.T(), s.w, "")

	intent, err := s.f.payments.CreateIntent(s.ctx, s.w.customer.ID, cheap.ID)
	s.Require().NoError(err)
	s.Equal(int64(14500), intent.Amount)

	// a genuine signature for the cheap intent presented against the expensive order
	_, err = s.f.payments.Verify(s.ctx, s.w.customer.ID, s.signed(pricey.ID, intent.RazorpayOrderID, "pay_cheap"))
	s.ErrorIs(err, ErrSignature)
	s.Equal("Payment does not match this order", err.Error())

	got, err := s.f.orders.Repo.GetOrder(s.f.db, pricey.ID)
	s.Require().NoError(err)
	s.Equal(entity.PaymentPending, got.PaymentStatus)
	s.Equal(entity.StatusPending, got.Status)
	s.Zero(s.f.count(s.T(), &entity.Transaction{}))

	out, err := s.f.payments.Verify(s.ctx, s.w.customer.ID, s.signed(cheap.ID, intent.RazorpayOrderID, "pay_cheap"))
	s.Require().NoError(err)
	s.Equal("145.00", out.Amount)
}

func (s *PaymentServiceSuite) TestVerifyRejectsAmountMismatch() {
	o := s.f.placeOrder(s.T(), s.w, "")
	short, err := s.f.gw.CreateOrder(s.ctx, gateway.CreateOrderReq{Amount: 100, Currency: Currency, Receipt: receipt(o.ID)})
	s.Require().NoError(err)

	_, err = s.f.payments.Verify(s.ctx, s.w.customer.ID, s.signed(o.ID, short.ID, "pay_short"))
	s.ErrorIs(err, ErrSignature)

	_, err = s.f.payments.Verify(s.ctx, s.w.customer.ID, s.signed(o.ID, "order_never_opened", "pay_x"))
	s.ErrorIs(err, ErrSignature)
	s.Zero(s.f.count(s.T(), &entity.Transaction{}))
}

func (s *PaymentServiceSuite) TestVerifyGatewayOutage() {
	o := s.f.placeOrder(s.T(), s.w, "")
	req := s.verifyReq(o.ID, "pay_1")
	s.f.gw.fetchErr = errors.New("dial tcp: i/o timeout")

	_, err := s.f.payments.Verify(s.ctx, s.w.customer.ID, req)
	s.ErrorIs(err, ErrGateway)
	s.NotContains(err.Error(), "i/o timeout")

	s.f.gw.fetchErr = nil
	_, err = s.f.payments.Verify(s.ctx, s.w.customer.ID, req)
	s.NoError(err)
}

func (s *PaymentServiceSuite) TestVerifyKeepsLaterStatus() {
	o := s.f.placeOrder(s.T(), s.w, "")
	_, err := s.f.orders.UpdateStatus(s.ctx, Actor{UserID: s.w.owner.ID, Role: entity.RoleRestaurant}, o.ID,
		UpdateStatusReq{Status: "preparing"})
	s.Require().NoError(err)

	out, err := s.f.payments.Verify(s.ctx, s.w.customer.ID, s.verifyReq(o.ID, "pay_1"))
	s.Require().NoError(err)
	s.Equal(entity.StatusPreparing, out.Status)
	s.Equal(entity.PaymentSuccess, out.PaymentStatus)
}

func (s *PaymentServiceSuite) TestVerifyRejections() {
	cancelled := s.f.placeOrder(s.T(), s.w, "")
	_, err := s.f.orders.UpdateStatus(s.ctx, Actor{UserID: s.w.owner.ID, Role: entity.RoleRestaurant}, cancelled.ID,
		UpdateStatusReq{Status: "cancelled"})
	s.Require().NoError(err)
	_, err = s.f.payments.Verify(s.ctx, s.w.customer.ID, s.verifyReq(cancelled.ID, "pay_1"))
	s.ErrorIs(err, ErrState)

	cod := s.f.placeOrder(s.T(), s.w, entity.PaymentMethodCOD)
	_, err = s.f.payments.Verify(s.ctx, s.w.customer.ID, s.verifyReq(cod.ID, "pay_2"))
	s.ErrorIs(err, ErrState)

	paid := s.f.placeOrder(s.T(), s.w, "")
	_, err = s.f.payments.Verify(s.ctx, s.w.customer.ID, s.verifyReq(paid.ID, "pay_3"))
	s.Require().NoError(err)

	other := s.f.placeOrder(s.T(), s.w, "")
	_, err = s.f.payments.Verify(s.ctx, s.w.customer.ID, s.verifyReq(other.ID, "pay_3"))
	s.ErrorIs(err, ErrConflict, "a payment id settles one order only")

	stranger := s.f.user(s.T(), entity.RoleCustomer)
	_, err = s.f.payments.Verify(s.ctx, stranger.ID, s.verifyReq(other.ID, "pay_4"))
	s.ErrorIs(err, ErrNotFound)

	_, err = s.f.payments.CreateIntent(s.ctx, s.w.customer.ID, paid.ID)
	s.ErrorIs(err, ErrState, "already paid")
}
