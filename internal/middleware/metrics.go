package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/damoang/eventhub-backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// API surfaces reported on every HTTP metric
const (
	SurfaceAdmin   = "admin"
	SurfaceMember  = "member"
	SurfaceWebhook = "webhook"
	SurfaceSystem  = "system"
)

// unmatched keeps 404 scans out of the route label
const unmatchedRoute = "unmatched"

// SurfaceOf maps a route template to the API surface that served it
func SurfaceOf(route string) string {
	switch {
	case strings.HasPrefix(route, "/api/admin"):
		return SurfaceAdmin
	case strings.HasSuffix(route, "/webhook"):
		return SurfaceWebhook
	case strings.HasPrefix(route, "/api/v1"):
		return SurfaceMember
	default:
		return SurfaceSystem
	}
}

// Metrics records request count, latency and in-flight gauges per surface.
// The push channel is skipped: an upgraded connection would count as one
// request lasting for the whole session.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" || isUpgrade(c) {
			c.Next()
			return
		}

		route := c.FullPath()
		surface := SurfaceOf(route)
		if route == "" {
			route = unmatchedRoute
		}

		inFlight := metrics.HTTPInFlight.WithLabelValues(surface)
		inFlight.Inc()
		start := time.Now()

		c.Next()

		inFlight.Dec()
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequests.WithLabelValues(surface, c.Request.Method, route, status).Inc()
		metrics.HTTPDuration.WithLabelValues(surface, route).Observe(time.Since(start).Seconds())
	}
}
