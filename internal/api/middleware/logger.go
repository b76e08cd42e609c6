package middleware

import (
	"strconv"
	"time"

	"adspark/internal/logger"
	"adspark/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Logger writes one access line per request and records request metrics
// under the route pattern, not the raw path.
func Logger(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		metrics.ObserveAPIRequest(c.Request.Method, route, strconv.Itoa(status), latency.Seconds())
		logger.Info("%s %s %d %s %s", c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
	}
}
