package controllers

import (
	"ahara/pkg/resp"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Svc *services.AdminService
	Log *zap.Logger
}

func NewAdminController(s *services.AdminService, log *zap.Logger) *AdminController {
	return &AdminController{Svc: s, Log: log}
}

// GET /api/admin/stats
func (ac *AdminController) Stats(c *gin.Context) {
	out, err := ac.Svc.Stats()
	if err != nil {
		respondErr(c, ac.Log, err)
		return
	}
	resp.OK(c, out)
}

// GET /api/admin/orders?status=&limit=&offset=
func (ac *AdminController) Orders(c *gin.Context) {
	limit, offset := pagination(c)
	rows, total, err := ac.Svc.Orders(c.Query("status"), limit, offset)
	if err != nil {
		respondErr(c, ac.Log, err)
		return
	}
	resp.OK(c, paged(rows, total, limit, offset))
}

// GET /api/admin/customers
func (ac *AdminController) Customers(c *gin.Context) {
	limit, offset := pagination(c)
	rows, total, err := ac.Svc.Customers(limit, offset)
	if err != nil {
		respondErr(c, ac.Log, err)
		return
	}
	resp.OK(c, paged(rows, total, limit, offset))
}

// GET /api/admin/delivery-partners?status=pending|active
func (ac *AdminController) Partners(c *gin.Context) {
	limit, offset := pagination(c)
	rows, total, err := ac.Svc.Partners(c.Query("status"), limit, offset)
	if err != nil {
		respondErr(c, ac.Log, err)
		return
	}
	resp.OK(c, paged(rows, total, limit, offset))
}

// PATCH /api/admin/delivery-partners/:id/approve
func (ac *AdminController) ApprovePartner(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ac.Svc.ApprovePartner(c.Request.Context(), id); err != nil {
		respondErr(c, ac.Log, err)
		return
	}
	resp.OKMsg(c, "Delivery partner approved", gin.H{"id": id, "is_active": true})
}

// PATCH /api/admin/delivery-partners/:id/deactivate
func (ac *AdminController) DeactivatePartner(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ac.Svc.DeactivatePartner(c.Request.Context(), id); err != nil {
		respondErr(c, ac.Log, err)
		return
	}
	resp.OKMsg(c, "Delivery partner deactivated", gin.H{"id": id, "is_active": false})
}

// DELETE /api/admin/users/:id
func (ac *AdminController) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := ac.Svc.DeleteUser(c.Request.Context(), utils.CurrentUserID(c), id); err != nil {
		respondErr(c, ac.Log, err)
		return
	}
	resp.OKMsg(c, "User deleted successfully", gin.H{"id": id})
}
