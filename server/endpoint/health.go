package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/audiovault/observability"
)

// HealthChecker returns health status for the service's dependencies.
type HealthChecker func(ctx context.Context) []observability.Health

// Health returns a handler that reports service health including component
// statuses. Any component down makes the response 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.NewServiceHealth(serviceName, "")
		if checker != nil {
			for _, ch := range checker(c.Request.Context()) {
				sh.AddComponent(ch)
			}
		}

		httpStatus := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     sh.Status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": sh.Components,
		})
	}
}
