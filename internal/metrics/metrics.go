// Package metrics exposes Prometheus collectors for the matching service
// and the HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchesProposedTotal counts Propose calls by outcome
	// (created, conflict, invalid, error).
	MatchesProposedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lovebridge_matches_proposed_total",
			Help: "Total number of match proposals by outcome",
		},
		[]string{"outcome"},
	)

	// MatchResponsesTotal counts applied accept and reject decisions.
	MatchResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lovebridge_match_responses_total",
			Help: "Total number of match responses by action",
		},
		[]string{"action"},
	)

	// UnmatchesTotal counts deleted matches.
	UnmatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lovebridge_unmatches_total",
			Help: "Total number of removed matches",
		},
	)

	// MatchScore observes the compatibility score of created matches.
	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lovebridge_match_score",
			Help:    "Compatibility score of proposed matches",
			Buckets: prometheus.LinearBuckets(0.5, 0.05, 11),
		},
	)

	// DiscoveryCandidates observes how many candidates a discovery call returned.
	DiscoveryCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lovebridge_discovery_candidates",
			Help:    "Number of candidates returned per discovery request",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// NotificationFailuresTotal counts notifications that could not be
	// delivered. The triggering change is kept regardless.
	NotificationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lovebridge_notification_failures_total",
			Help: "Total number of failed notification deliveries by kind",
		},
		[]string{"kind"},
	)

	// HTTPRequestsTotal counts handled requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lovebridge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lovebridge_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordHTTPRequest records one completed request.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
