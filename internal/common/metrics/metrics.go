// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "route"},
	)

	PurchasesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_created_total",
			Help: "Total number of purchases created, by initial status",
		},
		[]string{"status"},
	)

	CreditLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cashback_credit_lookups_total",
			Help: "Total number of outbound cashback credit lookups",
		},
		[]string{"result"},
	)
)

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
