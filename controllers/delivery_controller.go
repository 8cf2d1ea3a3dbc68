package controllers

import (
	"ahara/pkg/resp"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DeliveryController struct {
	Svc *services.DeliveryService
	Log *zap.Logger
}

func NewDeliveryController(s *services.DeliveryService, log *zap.Logger) *DeliveryController {
	return &DeliveryController{Svc: s, Log: log}
}

// PATCH /api/delivery/toggle-availability
func (h *DeliveryController) ToggleAvailability(c *gin.Context) {
	available, err := h.Svc.ToggleAvailability(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	msg := "You are now offline"
	if available {
		msg = "You are now online"
	}
	resp.OKMsg(c, msg, gin.H{"is_available": available})
}

// GET /api/delivery/available-orders
func (h *DeliveryController) AvailableOrders(c *gin.Context) {
	list, err := h.Svc.AvailableOrders(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.List(c, list, len(list))
}

// GET /api/delivery/my-deliveries
func (h *DeliveryController) MyDeliveries(c *gin.Context) {
	list, err := h.Svc.MyDeliveries(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.List(c, list, len(list))
}

// GET /api/delivery/history?limit=&offset=
func (h *DeliveryController) History(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.Svc.History(c.Request.Context(), utils.CurrentUserID(c), limit, offset)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.List(c, list, len(list))
}

// GET /api/delivery/stats
func (h *DeliveryController) Stats(c *gin.Context) {
	out, err := h.Svc.Stats(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OK(c, out)
}
