package metrics

import "sync"

var _ Metrics = (*MockMetrics)(nil)

// MockMetrics is a mock implementation of the Metrics interface for testing.
type MockMetrics struct {
	mu sync.Mutex

	TokensIssuedCount     int
	AuthFailuresCount     int
	ScoreSubmissionsCount int
	ScoresRejectedCount   int
	RankingQueriesCount   int
	RankingDurations      []float64
	StartupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncTokensIssued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TokensIssuedCount++
}

func (m *MockMetrics) IncAuthFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AuthFailuresCount++
}

func (m *MockMetrics) IncScoreSubmissions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoreSubmissionsCount++
}

func (m *MockMetrics) IncScoresRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoresRejectedCount++
}

func (m *MockMetrics) IncRankingQueries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RankingQueriesCount++
}

func (m *MockMetrics) ObserveRankingDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RankingDurations = append(m.RankingDurations, seconds)
}

func (m *MockMetrics) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = seconds
}
