package controllers

import (
	"ahara/pkg/resp"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/orders/restaurant/orders?status=&limit=&offset=
func (h *OrderController) RestaurantOrders(c *gin.Context) {
	limit, offset := pagination(c)
	out, err := h.Svc.ListForRestaurant(utils.CurrentUserID(c), c.Query("status"), limit, offset)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.List(c, out, len(out.Items))
}

// PATCH /api/orders/:id/status (restaurant) and PATCH /api/delivery/orders/:id/status (partner)
func (h *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	out, err := h.Svc.UpdateStatus(c.Request.Context(), actorOf(c), id, req)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OKMsg(c, "Order status updated successfully", out)
}
