package controllers

import (
	"ahara/pkg/resp"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentController struct {
	Svc *services.PaymentService
	Log *zap.Logger
}

func NewPaymentController(s *services.PaymentService, log *zap.Logger) *PaymentController {
	return &PaymentController{Svc: s, Log: log}
}

// POST /api/orders/payment/create
func (h *PaymentController) Create(c *gin.Context) {
	var req services.CreatePaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	out, err := h.Svc.CreateIntent(c.Request.Context(), utils.CurrentUserID(c), req.OrderID)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OK(c, out)
}

// POST /api/orders/payment/verify
func (h *PaymentController) Verify(c *gin.Context) {
	var req services.VerifyPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	out, err := h.Svc.Verify(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	msg := "Payment verified successfully"
	if out.AlreadyProcessed {
		msg = "Payment already verified"
	}
	resp.OKMsg(c, msg, out)
}
