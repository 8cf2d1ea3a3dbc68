package controllers

import (
	"ahara/pkg/resp"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MenuController struct {
	Svc *services.MenuService
	Log *zap.Logger
}

func NewMenuController(s *services.MenuService, log *zap.Logger) *MenuController {
	return &MenuController{Svc: s, Log: log}
}

// GET /api/menu/my-menu
func (ctl *MenuController) MyMenu(c *gin.Context) {
	out, err := ctl.Svc.MyMenu(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, ctl.Log, err)
		return
	}
	resp.OK(c, out)
}

// POST /api/menu
func (ctl *MenuController) Create(c *gin.Context) {
	var req services.MenuItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	item, err := ctl.Svc.Create(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		respondErr(c, ctl.Log, err)
		return
	}
	resp.Created(c, "Menu item created successfully", item)
}

// PUT /api/menu/:item_id
func (ctl *MenuController) Update(c *gin.Context) {
	id, ok := idParam(c, "item_id")
	if !ok {
		return
	}
	var req services.MenuItemPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	item, err := ctl.Svc.Update(c.Request.Context(), utils.CurrentUserID(c), id, req)
	if err != nil {
		respondErr(c, ctl.Log, err)
		return
	}
	resp.OKMsg(c, "Menu item updated successfully", item)
}

// DELETE /api/menu/:item_id
func (ctl *MenuController) Delete(c *gin.Context) {
	id, ok := idParam(c, "item_id")
	if !ok {
		return
	}
	if err := ctl.Svc.Delete(c.Request.Context(), utils.CurrentUserID(c), id); err != nil {
		respondErr(c, ctl.Log, err)
		return
	}
	resp.OKMsg(c, "Menu item deleted successfully", gin.H{"id": id})
}

// PATCH /api/menu/:item_id/toggle-availability
func (ctl *MenuController) ToggleAvailability(c *gin.Context) {
	id, ok := idParam(c, "item_id")
	if !ok {
		return
	}
	item, err := ctl.Svc.ToggleAvailability(c.Request.Context(), utils.CurrentUserID(c), id)
	if err != nil {
		respondErr(c, ctl.Log, err)
		return
	}
	msg := "Menu item is now unavailable"
	if item.IsAvailable {
		msg = "Menu item is now available"
	}
	resp.OKMsg(c, msg, gin.H{"id": item.ID, "is_available": item.IsAvailable})
}
