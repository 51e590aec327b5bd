// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ls_http_requests_total",
			Help: "HTTP requests served, by route and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ls_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ls_operations_total",
			Help: "Settlement operations by component, operation and outcome code.",
		},
		[]string{"component", "operation", "outcome"},
	)

	valueMoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ls_value_moved_total",
			Help: "Native value moved between accounts, by operation.",
		},
		[]string{"operation"},
	)
)

// Middleware records request totals and latency keyed by the route template,
// so path parameters never become label values.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			httpRequestsTotal.WithLabelValues(c.Request().Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// Operation counts one settlement call; outcome is "OK" or an error code.
func Operation(component, operation, outcome string) {
	operationsTotal.WithLabelValues(component, operation, outcome).Inc()
}

func ValueMoved(operation string, amount decimal.Decimal) {
	valueMoved.WithLabelValues(operation).Add(amount.InexactFloat64())
}
