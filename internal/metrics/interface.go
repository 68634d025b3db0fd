package metrics

// Metrics defines the counters the rest of the application reports into.
type Metrics interface {
	IncTokensIssued()
	IncAuthFailures()
	IncScoreSubmissions()
	IncScoresRejected()
	IncRankingQueries()
	ObserveRankingDuration(seconds float64)
	SetStartupTime(seconds float64)
}
