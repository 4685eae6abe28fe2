package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"accommodation_portal/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware(), LoggingMiddleware())
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetRequestID(c.Request.Context()))
	})

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", incoming)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, incoming, w.Body.String())
	assert.Equal(t, incoming, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid\nInjected: yes")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err, "a malformed id is replaced")
	assert.NotEqual(t, "not-a-uuid\nInjected: yes", w.Body.String())
}
