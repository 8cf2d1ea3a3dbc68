package controllers

import (
	"ahara/pkg/resp"
	"ahara/services"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	Svc *services.AuthService
	Log *zap.Logger
}

func NewAuthController(s *services.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{Svc: s, Log: log}
}

// POST /api/auth/signup
func (a *AuthController) Register(c *gin.Context) {
	var req services.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	out, err := a.Svc.Register(c.Request.Context(), req)
	if err != nil {
		respondErr(c, a.Log, err)
		return
	}
	resp.Created(c, "User registered successfully", out)
}

// POST /api/delivery/signup
func (a *AuthController) RegisterPartner(c *gin.Context) {
	var req services.PartnerSignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	out, err := a.Svc.RegisterPartner(c.Request.Context(), req)
	if err != nil {
		respondErr(c, a.Log, err)
		return
	}
	resp.Created(c, "Delivery partner registered. Awaiting approval.", out)
}

// POST /api/auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req services.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	out, err := a.Svc.Login(c.Request.Context(), req)
	if err != nil {
		respondErr(c, a.Log, err)
		return
	}
	resp.OKMsg(c, "Login successful", out)
}

// POST /api/auth/restaurant/login
func (a *AuthController) LoginRestaurant(c *gin.Context) {
	var req services.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BindError(c, err)
		return
	}
	out, err := a.Svc.LoginRestaurant(c.Request.Context(), req)
	if err != nil {
		respondErr(c, a.Log, err)
		return
	}
	resp.OKMsg(c, "Login successful", out)
}

// GET /api/auth/me
func (a *AuthController) Me(c *gin.Context) {
	u, err := a.Svc.Me(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, a.Log, err)
		return
	}
	resp.OK(c, u)
}
