// controllers/restaurant_application_controller.go
package controllers

import (
	"ahara/pkg/resp"
	"ahara/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RestaurantApplicationController struct {
	Svc *services.RestaurantApplicationService
	Log *zap.Logger
}

func NewRestaurantApplicationController(s *services.RestaurantApplicationService, log *zap.Logger) *RestaurantApplicationController {
	return &RestaurantApplicationController{Svc: s, Log: log}
}

// POST /api/auth/restaurant/signup
func (ctl *RestaurantApplicationController) Apply(c *gin.Context) {
	var req services.RestaurantSignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	out, err := ctl.Svc.Apply(c.Request.Context(), req)
	if err != nil {
		respondErr(c, ctl.Log, err)
		return
	}
	resp.Created(c, "Restaurant registered. Awaiting admin approval.", out)
}

// GET /api/admin/restaurants?status=pending|active
func (ctl *RestaurantApplicationController) List(c *gin.Context) {
	limit, offset := pagination(c)
	rows, total, err := ctl.Svc.List(c.Query("status"), limit, offset)
	if err != nil {
		respondErr(c, ctl.Log, err)
		return
	}
	resp.OK(c, paged(rows, total, limit, offset))
}

// PATCH /api/admin/restaurants/:id/approve
func (ctl *RestaurantApplicationController) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rest, err := ctl.Svc.Approve(c.Request.Context(), id)
	if err != nil {
		respondErr(c, ctl.Log, err)
		return
	}
	resp.OKMsg(c, "Restaurant approved", rest)
}

// PATCH /api/admin/restaurants/:id/deactivate
func (ctl *RestaurantApplicationController) Deactivate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rest, err := ctl.Svc.Deactivate(c.Request.Context(), id)
	if err != nil {
		respondErr(c, ctl.Log, err)
		return
	}
	resp.OKMsg(c, "Restaurant deactivated", rest)
}
