// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"studiodesk/pkg/contracts"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studiodesk"

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	ReservationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservations created, by kind",
		},
		[]string{"kind"},
	)
	ReservationsRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_removed_total",
			Help:      "Reservations cancelled or hidden, by kind and action",
		},
		[]string{"kind", "action"},
	)
	ReservationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_rejections_total",
			Help:      "Rejected reservation operations, by operation and error code",
		},
		[]string{"operation", "code"},
	)
	SweepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_transitions_total",
			Help:      "Reservations resolved by the expiry sweep, by resulting status",
		},
		[]string{"status"},
	)
	LockContention = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_lock_retries_total",
			Help:      "Advisory lock acquisitions that found the key held",
		},
	)
	LedgerMovements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_movements_total",
			Help:      "Ticket units moved through the ledger, by ticket and reason",
		},
		[]string{"ticket", "reason"},
	)
	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dispatched_total",
			Help:      "Notifications stored for recipients, by kind",
		},
		[]string{"kind"},
	)
	IdempotentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_requests_total",
			Help:      "Keyed write requests, by outcome (stored, replayed, in_progress)",
		},
		[]string{"outcome"},
	)
	PanicsRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_panics_recovered_total",
			Help:      "Handler panics turned into 500 responses",
		},
	)
	KafkaMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Kafka messages handled, by direction and outcome",
		},
		[]string{"direction", "outcome"},
	)
	KafkaDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_operation_duration_seconds",
			Help:      "Duration of Kafka publish and handle operations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Routes exposes Handler at GET /metrics.
func Routes() contracts.Handler {
	return contracts.RouteFunc(func(router *httprouter.Router) {
		router.Handler(http.MethodGet, "/metrics", Handler())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware records request counts and latencies. pathLabel maps the
// request to a bounded label value, typically the matched route pattern.
func HTTPMiddleware(pathLabel func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			status := strconv.Itoa(rec.status)
			path := pathLabel(r)
			httpRequestTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}
