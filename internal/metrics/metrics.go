package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notekeeper_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notekeeper_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notekeeper_auth_events_total",
		Help: "Signup, login and token checks by result",
	}, []string{"event", "result"})

	noteOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notekeeper_note_operations_total",
		Help: "Note store operations by result",
	}, []string{"operation", "result"})

	exportJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notekeeper_export_jobs_total",
		Help: "Export jobs by stage and result",
	}, []string{"stage", "result"})
)

// ObserveHTTPRequest records an HTTP request. route is the matched pattern,
// never the raw path, so ids do not blow up label cardinality.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveAuth counts an auth event such as "login" with its result.
func ObserveAuth(event, result string) {
	authEvents.WithLabelValues(event, result).Inc()
}

// ObserveNote counts a note operation with its result.
func ObserveNote(operation, result string) {
	noteOperations.WithLabelValues(operation, result).Inc()
}

// ObserveExport counts an export job at stage "requested" or "processed".
func ObserveExport(stage, result string) {
	exportJobs.WithLabelValues(stage, result).Inc()
}
