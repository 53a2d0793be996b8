package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// StoriesTotal is the number of stored stories by status, refreshed by the scheduler.
	StoriesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stories_total",
			Help: "Number of stories by status",
		},
		[]string{"status"},
	)

	// LoginsTotal counts Google sign-in attempts by result (success, failure).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of sign-in attempts by result",
		},
		[]string{"result"},
	)
)

var (
	uuidPathSegment = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
	initOnce        sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, StoriesTotal, LoginsTotal)
	})
}

// NormalizePath reduces cardinality by replacing uuid path segments with {id}.
// E.g. /stories/6f1c...e2 -> /stories/{id}, /stories/user/6f1c...e2 -> /stories/user/{id}.
func NormalizePath(path string) string {
	return uuidPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// SetStoryCounts replaces the stories_total gauge values. Statuses missing from counts are set to 0.
func SetStoryCounts(counts map[string]int) {
	for _, status := range []string{"public", "private"} {
		StoriesTotal.WithLabelValues(status).Set(float64(counts[status]))
	}
}

// IncLogins increments the sign-in counter for result (success, failure).
func IncLogins(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}
