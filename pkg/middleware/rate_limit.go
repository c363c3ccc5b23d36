package middleware

import (
	"net/http"
	"strconv"

	"tubegrab/internal/model"
	"tubegrab/internal/service"
	"tubegrab/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware rejects requests from IPs over their rate limit
func RateLimitMiddleware(rateLimitService *service.RateLimitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !rateLimitService.Allow(ip) {
			logger.LogWarn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many requests. Please try again later.",
				Code:    http.StatusTooManyRequests,
			})
			return
		}

		if remaining := rateLimitService.GetRemaining(ip); remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		c.Next()
	}
}

// QuotaCheckMiddleware turns away download requests from IPs whose daily
// quota is already used up. The handler reserves the actual download.
func QuotaCheckMiddleware(quotaService *service.QuotaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/download" && c.Request.Method == http.MethodPost {
			ip := c.ClientIP()
			if allowed, _ := quotaService.CheckQuota(ip); !allowed {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
					Error:   "quota_exhausted",
					Message: "Daily download quota exhausted. Please try again after quota reset.",
					Code:    http.StatusTooManyRequests,
				})
				return
			}
		}

		c.Next()
	}
}
