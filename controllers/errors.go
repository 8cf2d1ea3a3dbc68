package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"ahara/pkg/logger"
	"ahara/pkg/resp"
	"ahara/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondErr maps service error kinds to HTTP. Unknown errors are logged and answered generically
// so database text never reaches the client.
func respondErr(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrConsistency),
		errors.Is(err, services.ErrAvailability),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrState),
		errors.Is(err, services.ErrSignature):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		resp.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrGateway):
		resp.Fail(c, http.StatusBadGateway, err.Error())
	default:
		logger.Error(c.Request.Context(), log, "request failed", zap.String("path", c.FullPath()), zap.Error(err))
		resp.ServerError(c)
	}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		resp.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// pagination reads ?limit=&offset= with a default page of 20 and a ceiling of 100.
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// paged wraps one page of rows with the unpaginated total.
func paged(items any, total int64, limit, offset int) gin.H {
	return gin.H{"items": items, "total": total, "limit": limit, "offset": offset}
}
