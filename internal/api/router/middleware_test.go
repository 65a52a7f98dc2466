package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newMiddlewareRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.Use(CORSMiddleware())
	r.POST("/submit-work-order/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestCORSMiddleware(t *testing.T) {
	r := newMiddlewareRouter()

	t.Run("headers set on normal request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/submit-work-order/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/submit-work-order/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newMiddlewareRouter()

	t.Run("generates request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/submit-work-order/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("preserves client request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/submit-work-order/", nil)
		req.Header.Set("X-Request-ID", "client-id-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "client-id-123", w.Header().Get("X-Request-ID"))
	})
}
