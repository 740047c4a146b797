package middleware

import (
	"main/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole gates role-restricted views. Must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			role = "user"
		}

		if !allowed[role] {
			utils.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
