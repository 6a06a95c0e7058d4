// Package metrics defines the Prometheus metrics of the review API and the
// gin middleware that records request metrics.
//
// All metrics register with the default registry on import; serve them with
// Handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reviewhub"

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: matched route template (e.g. "/items/:item_id"), "unmatched" otherwise
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// AuthFailuresTotal counts rejected credentials.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_token", "bad_login"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed authentication attempts.",
	},
	[]string{"reason"},
)

// AuthzDenialsTotal counts requests rejected by an authorization policy.
// Label:
//   - policy: "admin" or "owner"
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by an authorization policy.",
	},
	[]string{"policy"},
)

// WritesTotal counts successful catalog writes.
// Labels:
//   - entity: "user", "genre", "item", "review"
//   - op: "create", "update", "delete"
var WritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_total",
		Help:      "Total number of successful writes, by entity and operation.",
	},
	[]string{"entity", "op"},
)

// Middleware records HTTPRequestsTotal and HTTPRequestDuration.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
