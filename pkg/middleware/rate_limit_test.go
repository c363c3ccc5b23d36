package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubegrab/internal/model"
	"tubegrab/internal/service"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rls := service.NewRateLimitService(&model.RateLimitConfig{Enabled: true, RequestsPerMinute: 1})
	defer rls.Stop()

	r := gin.New()
	r.Use(RateLimitMiddleware(rls))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestQuotaCheckMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	qs, err := service.NewQuotaService(&model.QuotaConfig{Enabled: true, DailyDownloads: 1})
	require.NoError(t, err)
	defer qs.Stop()

	r := gin.New()
	r.Use(QuotaCheckMiddleware(qs))
	r.POST("/api/download", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/download", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	ok, _ := qs.Reserve("192.0.2.1")
	require.True(t, ok)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/download", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "quota_exhausted")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code, "other routes are not metered")
}
