package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pos_active_sessions",
			Help: "Number of open cart sessions",
		},
	)

	CartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_cart_mutations_total",
			Help: "Total number of cart mutations",
		},
		[]string{"operation"},
	)

	CheckoutAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_checkout_attempts_total",
			Help: "Total number of checkout attempts",
		},
	)

	CheckoutSuccessTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_checkout_success_total",
			Help: "Total number of finalized checkouts",
		},
	)

	CheckoutFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_checkout_failure_total",
			Help: "Total number of rejected checkouts",
		},
		[]string{"reason"},
	)

	SaleLinesPersistedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_sale_lines_persisted_total",
			Help: "Total number of sale lines written to storage",
		},
	)

	SaleHandOffFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_sale_handoff_failures_total",
			Help: "Total number of failed background sale hand-offs",
		},
	)

	SnapshotRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_snapshot_refresh_total",
			Help: "Total number of product snapshot refreshes",
		},
		[]string{"result"},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var (
	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)
)

func TimeHTTPRequest(handler, method string) func(statusCode string) {
	start := time.Now()
	return func(statusCode string) {
		duration := time.Since(start).Seconds()
		HTTPRequestDuration.WithLabelValues(handler, method, statusCode).Observe(duration)
		HTTPRequestsTotal.WithLabelValues(handler, method, statusCode).Inc()
	}
}

func TimeDBQuery(queryType, table string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start).Seconds()
		DBQueryDuration.WithLabelValues(queryType, table).Observe(duration)
	}
}

func TimeRedisCommand(command string) func() {
	start := time.Now()
	return func() {
		duration := time.Since(start).Seconds()
		RedisCommandDuration.WithLabelValues(command).Observe(duration)
	}
}

func RecordCartMutation(operation string) {
	CartMutationsTotal.WithLabelValues(operation).Inc()
}

func RecordCheckoutAttempt() {
	CheckoutAttemptsTotal.Inc()
}

func RecordCheckoutSuccess() {
	CheckoutSuccessTotal.Inc()
}

func RecordCheckoutFailure(reason string) {
	CheckoutFailureTotal.WithLabelValues(reason).Inc()
}

func RecordSaleLinesPersisted(count int) {
	SaleLinesPersistedTotal.Add(float64(count))
}

func RecordSaleHandOffFailure() {
	SaleHandOffFailuresTotal.Inc()
}

func RecordSnapshotRefresh(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SnapshotRefreshTotal.WithLabelValues(result).Inc()
}

func SetActiveSessions(count int) {
	ActiveSessions.Set(float64(count))
}
