package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"ahara/entity"
	"ahara/pkg/events"
	"ahara/pkg/gateway"
	"ahara/pkg/logger"
	"ahara/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrGateway marks a failure talking to the payment provider.
var ErrGateway = errors.New("payment gateway")

type PaymentService struct {
	DB        *gorm.DB
	OrderRepo *repository.OrderRepository
	TxnRepo   *repository.TransactionRepository
	Gateway   gateway.Gateway
	Events    events.Publisher
	Log       *zap.Logger

	tracer trace.Tracer
}

func NewPaymentService(
	db *gorm.DB,
	orderRepo *repository.OrderRepository,
	txnRepo *repository.TransactionRepository,
	gw gateway.Gateway,
	pub events.Publisher,
	log *zap.Logger,
) *PaymentService {
	return &PaymentService{
		DB: db, OrderRepo: orderRepo, TxnRepo: txnRepo, Gateway: gw, Events: pub, Log: log,
		tracer: otel.Tracer("ahara/services/payment"),
	}
}

type CreatePaymentReq struct {
	OrderID uint `json:"order_id" binding:"required"`
}

type PaymentIntent struct {
	OrderID         uint   `json:"order_id"`
	RazorpayOrderID string `json:"razorpay_order_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	KeyID           string `json:"key_id"`
}

type VerifyPaymentReq struct {
	OrderID           uint   `json:"order_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

type PaymentConfirmation struct {
	OrderID          uint               `json:"order_id"`
	Status           entity.OrderStatus `json:"status"`
	PaymentStatus    string             `json:"payment_status"`
	TransactionID    uint               `json:"transaction_id"`
	PaymentGatewayID string             `json:"payment_gateway_id"`
	Amount           string             `json:"amount"`
	AlreadyProcessed bool               `json:"already_processed"`
}

// CreateIntent opens a gateway order for the customer's pending order. Local state is untouched.
func (s *PaymentService) CreateIntent(ctx context.Context, customerID, orderID uint) (*PaymentIntent, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.CreateIntent")
	defer span.End()

	o, err := s.OrderRepo.GetOrderForCustomer(s.DB.WithContext(ctx), orderID, customerID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if o.PaymentStatus == entity.PaymentSuccess {
		return nil, stateErr("Order is already paid")
	}
	if o.Status != entity.StatusPending {
		return nil, stateErr("Order is not awaiting payment")
	}
	if o.PaymentMethod == entity.PaymentMethodCOD {
		return nil, stateErr("Cash on delivery orders are not paid online")
	}

	amount := MinorUnits(o.TotalAmount)
	gwOrder, err := s.Gateway.CreateOrder(ctx, gateway.CreateOrderReq{
		Amount:   amount,
		Currency: Currency,
		Receipt:  receipt(o.ID),
		Notes: map[string]string{
			"order_id":    strconv.FormatUint(uint64(o.ID), 10),
			"customer_id": strconv.FormatUint(uint64(customerID), 10),
		},
	})
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, s.Log, "create gateway order failed", zap.Uint("order_id", o.ID), zap.Error(err))
		return nil, newErr(ErrGateway, "Failed to create payment order")
	}

	logger.Info(ctx, s.Log, "payment intent created",
		zap.Uint("order_id", o.ID), zap.String("gateway_order_id", gwOrder.ID), zap.Int64("amount", amount))
	return &PaymentIntent{
		OrderID:         o.ID,
		RazorpayOrderID: gwOrder.ID,
		Amount:          amount,
		Currency:        Currency,
		KeyID:           s.Gateway.KeyID(),
	}, nil
}

// Verify checks the gateway signature and settles the order once. The gateway order must be the
// one opened for this order and amount. Repeating a successful verification returns the existing
// confirmation without writing anything.
func (s *PaymentService) Verify(ctx context.Context, customerID uint, req VerifyPaymentReq) (*PaymentConfirmation, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.Verify")
	defer span.End()

	if !s.Gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		logger.Warn(ctx, s.Log, "payment signature mismatch",
			zap.Uint("order_id", req.OrderID), zap.String("gateway_order_id", req.RazorpayOrderID))
		if _, err := s.OrderRepo.MarkPaymentFailed(s.DB.WithContext(ctx), req.OrderID, customerID); err != nil {
			logger.Error(ctx, s.Log, "record failed payment", zap.Uint("order_id", req.OrderID), zap.Error(err))
		}
		return nil, newErr(ErrSignature, "Payment verification failed")
	}

	o, err := s.OrderRepo.GetOrderForCustomer(s.DB.WithContext(ctx), req.OrderID, customerID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if o.PaymentStatus != entity.PaymentSuccess && o.Status != entity.StatusCancelled &&
		o.PaymentMethod != entity.PaymentMethodCOD {
		if err := s.matchGatewayOrder(ctx, o, req.RazorpayOrderID); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	var out *PaymentConfirmation
	var settled *entity.Order
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.OrderRepo.GetOrderForCustomer(tx, req.OrderID, customerID)
		if err != nil {
			return notFoundOr(err, "Order not found")
		}
		if o.PaymentStatus == entity.PaymentSuccess {
			out, err = s.existing(tx, o)
			return err
		}
		if o.Status == entity.StatusCancelled {
			return stateErr("Order has been cancelled")
		}
		if o.PaymentMethod == entity.PaymentMethodCOD {
			return stateErr("Cash on delivery orders are not paid online")
		}
		used, err := s.TxnRepo.ExistsByGatewayPaymentID(tx, req.RazorpayPaymentID)
		if err != nil {
			return err
		}
		if used {
			return conflictErr("Payment has already been applied to another order")
		}

		n, err := s.OrderRepo.MarkPaidGuard(tx, o.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			// settled or cancelled by a concurrent request
			o, err = s.OrderRepo.GetOrder(tx, o.ID)
			if err != nil {
				return err
			}
			if o.PaymentStatus != entity.PaymentSuccess {
				return stateErr("Order has been cancelled")
			}
			out, err = s.existing(tx, o)
			return err
		}

		txn := entity.Transaction{
			OrderID:          o.ID,
			GatewayOrderID:   req.RazorpayOrderID,
			PaymentGatewayID: req.RazorpayPaymentID,
			Amount:           o.TotalAmount,
			Currency:         Currency,
			PaymentMethod:    "razorpay",
			Status:           entity.PaymentSuccess,
		}
		if err := s.TxnRepo.Create(tx, &txn); err != nil {
			return err
		}
		if o.Status == entity.StatusPending {
			if err := s.OrderRepo.CreateStatusEvent(tx, &entity.OrderStatusEvent{
				OrderID: o.ID, FromStatus: entity.StatusPending, ToStatus: entity.StatusConfirmed,
				ActorID: customerID, ActorRole: entity.RoleCustomer,
			}); err != nil {
				return err
			}
		}

		settled, err = s.OrderRepo.GetOrder(tx, o.ID)
		if err != nil {
			return err
		}
		out = &PaymentConfirmation{
			OrderID: settled.ID, Status: settled.Status, PaymentStatus: settled.PaymentStatus,
			TransactionID: txn.ID, PaymentGatewayID: txn.PaymentGatewayID, Amount: money(txn.Amount),
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if settled != nil {
		logger.Info(ctx, s.Log, "payment verified",
			zap.Uint("order_id", settled.ID), zap.String("payment_id", req.RazorpayPaymentID))
		e := statusEvent(settled)
		e.Type = events.PaymentSucceeded
		publish(ctx, s.Events, s.Log, e)
	}
	return out, nil
}

// matchGatewayOrder rejects a signed payment whose gateway order was opened for another order
// or another amount.
func (s *PaymentService) matchGatewayOrder(ctx context.Context, o *entity.Order, gatewayOrderID string) error {
	gwOrder, err := s.Gateway.FetchOrder(ctx, gatewayOrderID)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			logger.Warn(ctx, s.Log, "unknown gateway order",
				zap.Uint("order_id", o.ID), zap.String("gateway_order_id", gatewayOrderID))
			return newErr(ErrSignature, "Payment does not match this order")
		}
		logger.Error(ctx, s.Log, "fetch gateway order failed", zap.Uint("order_id", o.ID), zap.Error(err))
		return newErr(ErrGateway, "Failed to confirm payment with gateway")
	}
	if gwOrder.Receipt != receipt(o.ID) || gwOrder.Amount != MinorUnits(o.TotalAmount) {
		logger.Warn(ctx, s.Log, "gateway order mismatch",
			zap.Uint("order_id", o.ID), zap.String("gateway_order_id", gatewayOrderID),
			zap.String("receipt", gwOrder.Receipt), zap.Int64("amount", gwOrder.Amount))
		return newErr(ErrSignature, "Payment does not match this order")
	}
	return nil
}

func receipt(orderID uint) string {
	return "order_" + strconv.FormatUint(uint64(orderID), 10)
}

func (s *PaymentService) existing(tx *gorm.DB, o *entity.Order) (*PaymentConfirmation, error) {
	out := &PaymentConfirmation{
		OrderID: o.ID, Status: o.Status, PaymentStatus: o.PaymentStatus, AlreadyProcessed: true,
	}
	txn, err := s.TxnRepo.GetByOrderID(tx, o.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.TransactionID = txn.ID
	out.PaymentGatewayID = txn.PaymentGatewayID
	out.Amount = money(txn.Amount)
	return out, nil
}
