package middleware

import (
	"time"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware applies the security service's fixed-window limiter
// per client IP.
func RateLimitMiddleware(security *services.SecurityService, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := utils.WithUserAgent(c.Request.Context(), c.Request.UserAgent())
		key := "ip:" + c.ClientIP()

		if !security.CheckRateLimit(ctx, key, limit, window) {
			utils.TooManyRequests(c, "Too many requests. Please slow down.")
			c.Abort()
			return
		}

		c.Next()
	}
}
