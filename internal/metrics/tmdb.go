package metrics

import "github.com/prometheus/client_golang/prometheus"

// TMDB metadata provider metrics.
var (
	TMDBRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinephile",
			Name:      "tmdb_requests_total",
			Help:      "Total number of TMDB API requests",
		},
		[]string{"endpoint", "status"},
	)

	TMDBRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cinephile",
			Name:      "tmdb_request_duration_seconds",
			Help:      "TMDB API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
)

var tmdbMetricsRegistered bool

// RegisterTMDBMetrics registers TMDB provider metrics. Must be called once from main.
func RegisterTMDBMetrics() {
	if tmdbMetricsRegistered {
		return
	}
	prometheus.MustRegister(TMDBRequestsTotal)
	prometheus.MustRegister(TMDBRequestDuration)
	tmdbMetricsRegistered = true
}
