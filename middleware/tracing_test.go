package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"main/utils"

	"github.com/gin-gonic/gin"
)

func tracingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestTracingMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, utils.RequestIDFromContext(c.Request.Context()))
	})
	return router
}

func TestTracingAssignsRequestID(t *testing.T) {
	router := tracingRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	header := w.Header().Get("X-Request-ID")
	if header == "" {
		t.Fatal("no request id assigned")
	}
	if w.Body.String() != header {
		t.Errorf("context id %q does not match header %q", w.Body.String(), header)
	}
}

func TestTracingReusesUpstreamRequestID(t *testing.T) {
	router := tracingRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "upstream-id-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "upstream-id-123" {
		t.Errorf("header = %q, want upstream id", got)
	}
	if w.Body.String() != "upstream-id-123" {
		t.Errorf("context id = %q, want upstream id", w.Body.String())
	}
}
