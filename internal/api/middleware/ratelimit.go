package middleware

import (
	"net/http"
	"time"

	"adspark/internal/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// NewLimiter allows perMinute events per minute with an equal burst.
// Zero or negative disables limiting.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// RateLimit rejects requests once the shared limiter is exhausted.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			metrics.IncRateLimitExceeded()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many generation requests, try again shortly"})
			return
		}
		c.Next()
	}
}
