package middleware

import (
	"net/http"

	"main/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimiter rejects oversized bodies before a handler reads
// them. Declared lengths over the limit are refused outright; chunked
// bodies are capped by the reader.
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.TrackError("http", "request_too_large")
			utils.RequestEntityTooLarge(c, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
