package middlewares

import (
	"strings"

	"ahara/pkg/resp"
	"ahara/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the bearer token and, when roles are given, that the caller has one of them.
func AuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			resp.Unauthorized(c, "Access denied. No token provided.")
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(h, "Bearer "), secret)
		if err != nil {
			resp.Unauthorized(c, "Invalid or expired token")
			return
		}
		setClaims(c, claims)

		if len(requiredRoles) > 0 && !hasRole(claims.Role, requiredRoles) {
			resp.Forbidden(c, "Access denied. Insufficient permissions.")
			return
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *utils.Claims) {
	c.Set(utils.CtxUserID, claims.ID)
	c.Set(utils.CtxRole, claims.Role)
	c.Set(utils.CtxClaims, claims)
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
