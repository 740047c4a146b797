package middleware

import (
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestTracingMiddleware assigns each request an id, echoes it in the
// X-Request-ID header, and threads it through the request context so
// security events can carry it. An id supplied by an upstream proxy is
// reused.
func RequestTracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(utils.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}
