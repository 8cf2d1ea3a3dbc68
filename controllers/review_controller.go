package controllers

import (
	"ahara/pkg/resp"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewController struct {
	Svc *services.ReviewService
	Log *zap.Logger
}

func NewReviewController(s *services.ReviewService, log *zap.Logger) *ReviewController {
	return &ReviewController{Svc: s, Log: log}
}

// POST /api/reviews
func (h *ReviewController) Submit(c *gin.Context) {
	var req services.SubmitReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	rv, err := h.Svc.Submit(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.Created(c, "Review submitted successfully", rv)
}

// PUT /api/reviews/:id
func (h *ReviewController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	rv, err := h.Svc.Update(c.Request.Context(), utils.CurrentUserID(c), id, req)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OKMsg(c, "Review updated successfully", rv)
}

// DELETE /api/reviews/:id
func (h *ReviewController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), utils.CurrentUserID(c), id); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OKMsg(c, "Review deleted successfully", nil)
}

// GET /api/reviews/restaurant/:id
func (h *ReviewController) RestaurantReviews(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	out, err := h.Svc.RestaurantReviews(c.Request.Context(), id, limit, offset)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.List(c, out, len(out.Reviews))
}

// GET /api/reviews/delivery-partner/:id
func (h *ReviewController) PartnerReviews(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	limit, offset := pagination(c)
	out, err := h.Svc.PartnerReviews(c.Request.Context(), id, limit, offset)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.List(c, out, len(out.Reviews))
}

// GET /api/reviews/my-reviews
func (h *ReviewController) MyReviews(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.Svc.MyReviews(utils.CurrentUserID(c), limit, offset)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.List(c, list, len(list))
}

// GET /api/reviews/can-review/:orderId
func (h *ReviewController) CanReview(c *gin.Context) {
	id, ok := idParam(c, "orderId")
	if !ok {
		return
	}
	out, err := h.Svc.CanReview(c.Request.Context(), utils.CurrentUserID(c), id)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	resp.OK(c, out)
}
