package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds the Prometheus collectors for the application.
type Service struct {
	TokensIssued       prometheus.Counter
	AuthFailures       prometheus.Counter
	ScoreSubmissions   prometheus.Counter
	ScoresRejected     prometheus.Counter
	RankingQueries     prometheus.Counter
	RankingDuration    prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}
