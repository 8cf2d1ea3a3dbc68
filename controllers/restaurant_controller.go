package controllers

import (
	"strconv"

	"ahara/pkg/resp"
	"ahara/repository"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RestaurantController struct {
	Svc *services.RestaurantService
	Log *zap.Logger
}

func NewRestaurantController(s *services.RestaurantService, log *zap.Logger) *RestaurantController {
	return &RestaurantController{Svc: s, Log: log}
}

// boolQuery reads an optional true/false query flag; absent means no filter.
func boolQuery(c *gin.Context, name string) (*bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		resp.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// GET /api/restaurants?city=&cuisine=&search=&min_rating=&limit=&offset=
func (h *RestaurantController) List(c *gin.Context) {
	limit, offset := pagination(c)
	f := repository.RestaurantFilter{
		City:    c.Query("city"),
		Cuisine: c.Query("cuisine"),
		Search:  c.Query("search"),
		Limit:   limit,
		Offset:  offset,
	}
	if raw := c.Query("min_rating"); raw != "" {
		r, err := decimal.NewFromString(raw)
		if err != nil {
			resp.BadRequest(c, "Invalid min_rating")
			return
		}
		f.MinRating = &r
	}
	out, err := h.Svc.List(f)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OK(c, out)
}

// GET /api/restaurants/:id
func (h *RestaurantController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rest, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OK(c, rest)
}

// GET /api/restaurants/:id/menu?category=&is_vegetarian=&is_available=
func (h *RestaurantController) Menu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	veg, ok := boolQuery(c, "is_vegetarian")
	if !ok {
		return
	}
	avail, ok := boolQuery(c, "is_available")
	if !ok {
		return
	}
	out, err := h.Svc.Menu(c.Request.Context(), id, repository.MenuFilter{
		Category: c.Query("category"), IsVegetarian: veg, IsAvailable: avail,
	})
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OK(c, out)
}

// GET /api/restaurants/me/profile
func (h *RestaurantController) MyProfile(c *gin.Context) {
	rest, err := h.Svc.MyProfile(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OK(c, rest)
}

// PUT /api/restaurants/me/profile
func (h *RestaurantController) UpdateProfile(c *gin.Context) {
	var req services.RestaurantProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	rest, err := h.Svc.UpdateProfile(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OKMsg(c, "Restaurant profile updated successfully", rest)
}

// POST /api/addresses
func (h *RestaurantController) AddAddress(c *gin.Context) {
	var req services.AddressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	a, err := h.Svc.AddAddress(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.Created(c, "Address added", a)
}

// GET /api/addresses
func (h *RestaurantController) Addresses(c *gin.Context) {
	list, err := h.Svc.Addresses(utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.List(c, list, len(list))
}

// PUT /api/addresses/:id
func (h *RestaurantController) UpdateAddress(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.AddressPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	a, err := h.Svc.UpdateAddress(c.Request.Context(), utils.CurrentUserID(c), id, req)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OKMsg(c, "Address updated", a)
}

// DELETE /api/addresses/:id
func (h *RestaurantController) DeleteAddress(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteAddress(c.Request.Context(), utils.CurrentUserID(c), id); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OKMsg(c, "Address deleted", gin.H{"id": id})
}
