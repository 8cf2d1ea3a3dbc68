package middlewares

import (
	"time"

	"ahara/pkg/logger"
	"ahara/pkg/resp"
	"ahara/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates or mints a request id and stores it on the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if uid, ok := c.Get(utils.CtxUserID); ok {
			fields = append(fields, zap.Any("user_id", uid))
		}
		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= 500:
			logger.Error(ctx, l, "request", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn(ctx, l, "request", fields...)
		default:
			logger.Info(ctx, l, "request", fields...)
		}
	}
}

// Recovery turns a panic into the generic 500 envelope.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context(), l, "panic recovered", zap.Any("panic", rec), zap.Stack("stack"))
				resp.ServerError(c)
			}
		}()
		c.Next()
	}
}
