package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		TokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archive_tokens_issued_total",
			Help: "The total number of player bearer tokens issued.",
		}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archive_auth_failures_total",
			Help: "The total number of rejected token or credential checks.",
		}),
		ScoreSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archive_score_submissions_total",
			Help: "The total number of accepted score submission batches.",
		}),
		ScoresRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archive_score_submissions_rejected_total",
			Help: "The total number of rejected score submission batches.",
		}),
		RankingQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archive_ranking_queries_total",
			Help: "The total number of leaderboard ranking queries served.",
		}),
		RankingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "archive_ranking_query_duration_seconds",
			Help:    "The duration of individual leaderboard ranking queries.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "archive_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.TokensIssued,
		s.AuthFailures,
		s.ScoreSubmissions,
		s.ScoresRejected,
		s.RankingQueries,
		s.RankingDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncTokensIssued() {
	s.TokensIssued.Inc()
}

func (s *Service) IncAuthFailures() {
	s.AuthFailures.Inc()
}

func (s *Service) IncScoreSubmissions() {
	s.ScoreSubmissions.Inc()
}

func (s *Service) IncScoresRejected() {
	s.ScoresRejected.Inc()
}

func (s *Service) IncRankingQueries() {
	s.RankingQueries.Inc()
}

func (s *Service) ObserveRankingDuration(seconds float64) {
	s.RankingDuration.Observe(seconds)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
