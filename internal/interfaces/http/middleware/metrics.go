package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count and latency per route pattern.
// Unmatched paths share one label so scanners cannot blow up cardinality.
func HTTPMetrics(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		start := time.Now()

		c.Next()

		metrics.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
