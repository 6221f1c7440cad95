package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every metric exported by the service.
const namespace = "shiftsurge"

// Collectors are registered at import time so recording is safe from any
// code path without a setup call.
var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    namespace + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Domain metrics
	ClaimsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: namespace + "_claims_created_total",
			Help: "Total number of claims issued to workers",
		},
	)

	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: namespace + "_redemptions_total",
			Help: "Redemption attempts by outcome",
		},
		[]string{"outcome"}, // success, invalid, already_redeemed, expired
	)

	ImpressionsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: namespace + "_impressions_recorded_total",
			Help: "Total number of promotion impressions recorded",
		},
	)

	PromotionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: namespace + "_promotions_expired_total",
			Help: "Promotions moved to expired by the sweep job",
		},
	)
)

// Middleware tracks request counts and latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)
	}
}
