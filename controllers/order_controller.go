package controllers

import (
	"ahara/pkg/resp"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderController struct {
	Svc *services.OrderService
	Log *zap.Logger
}

func NewOrderController(s *services.OrderService, log *zap.Logger) *OrderController {
	return &OrderController{Svc: s, Log: log}
}

func actorOf(c *gin.Context) services.Actor {
	return services.Actor{UserID: utils.CurrentUserID(c), Role: utils.CurrentRole(c)}
}

// POST /api/orders/create
func (h *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), utils.CurrentUserID(c), &req)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.Created(c, "Order created successfully", out)
}

// GET /api/orders/my-orders?status=&limit=&offset=
func (h *OrderController) MyOrders(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.Svc.ListMine(utils.CurrentUserID(c), c.Query("status"), limit, offset)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.List(c, list, len(list))
}

// GET /api/orders/:id
func (h *OrderController) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	out, err := h.Svc.Detail(c.Request.Context(), actorOf(c), id)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OK(c, out)
}

// POST /api/delivery/orders/:id/accept
func (h *OrderController) Accept(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	out, err := h.Svc.AcceptOrder(c.Request.Context(), utils.CurrentUserID(c), id)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OKMsg(c, "Order accepted successfully", out)
}
