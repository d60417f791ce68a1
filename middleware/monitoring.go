// middleware/monitoring.go - Prometheus request metrics
package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)
)

// InitPrometheus registers the metrics. Call this from main.go
func InitPrometheus() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(authRejections)
}

// MonitorMiddleware tracks request counts and latency per route.
func MonitorMiddleware(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	// Use the route pattern, not the raw path, so /activities/123 does not
	// fan out into per-ID series.
	path := c.Route().Path
	method := c.Method()
	status := strconv.Itoa(c.Response().StatusCode())

	httpRequestsTotal.WithLabelValues(path, method, status).Inc()
	httpRequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())

	return err
}

// RecordAuthRejection counts a rejected authentication attempt.
func RecordAuthRejection(reason string) {
	authRejections.WithLabelValues(reason).Inc()
}
