// Package metrics holds the prometheus collectors of the API server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Auth event label values
const (
	EventRegister       = "register"
	EventLogin          = "login"
	EventLogout         = "logout"
	EventLogoutAll      = "logout_all"
	EventRefresh        = "refresh"
	EventRefreshReuse   = "refresh_reuse"
	EventChangePassword = "change_password"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidhub_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidhub_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidhub_auth_events_total",
			Help: "Authentication events by type and outcome",
		},
		[]string{"event", "outcome"},
	)

	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidhub_media_uploads_total",
			Help: "Media uploads by outcome",
		},
		[]string{"outcome"},
	)

	SessionsPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vidhub_sessions_purged_total",
			Help: "Expired sessions removed by the background cleanup",
		},
	)
)

// RecordHTTPRequest records one served request. route is the chi route
// pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackInFlight increments or decrements the in-flight gauge
func TrackInFlight(inc bool) {
	if inc {
		HTTPRequestsInFlight.Inc()
	} else {
		HTTPRequestsInFlight.Dec()
	}
}

// RecordAuthEvent counts an auth use-case outcome
func RecordAuthEvent(event string, err error) {
	AuthEventsTotal.WithLabelValues(event, outcome(err)).Inc()
}

// RecordMediaUpload counts an upload attempt
func RecordMediaUpload(err error) {
	MediaUploadsTotal.WithLabelValues(outcome(err)).Inc()
}

// RecordSessionsPurged adds n to the purged sessions counter
func RecordSessionsPurged(n int) {
	if n > 0 {
		SessionsPurgedTotal.Add(float64(n))
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
