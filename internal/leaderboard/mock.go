package leaderboard

import "sync"

// MockStore is a mock implementation of the LeaderboardStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateDimensionFunc func(mapID, name string, unit *string, sortOrder SortOrder) (*Dimension, error)
	GetDimensionFunc    func(id string) (*Dimension, error)
	ListDimensionsFunc  func(mapID string) ([]Dimension, error)
	DeleteDimensionFunc func(id string) error
	SubmitScoresFunc    func(archiveID, callerPlayerID string, scores []ScoreInput) ([]Entry, error)
	RankFunc            func(mapID, dimensionID string, mode Mode, page, limit int) (*Board, error)
	RankOfFunc          func(mapID, dimensionID, playerID string) (*PlayerRank, error)

	// Call records
	SubmitScoresCalls []struct {
		ArchiveID      string
		CallerPlayerID string
		Scores         []ScoreInput
	}
	RankCalls []struct {
		MapID       string
		DimensionID string
		Mode        Mode
		Page        int
		Limit       int
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreateDimension(mapID, name string, unit *string, sortOrder SortOrder) (*Dimension, error) {
	if m.CreateDimensionFunc != nil {
		return m.CreateDimensionFunc(mapID, name, unit, sortOrder)
	}
	return nil, nil
}

func (m *MockStore) GetDimension(id string) (*Dimension, error) {
	if m.GetDimensionFunc != nil {
		return m.GetDimensionFunc(id)
	}
	return nil, nil
}

func (m *MockStore) ListDimensions(mapID string) ([]Dimension, error) {
	if m.ListDimensionsFunc != nil {
		return m.ListDimensionsFunc(mapID)
	}
	return nil, nil
}

func (m *MockStore) DeleteDimension(id string) error {
	if m.DeleteDimensionFunc != nil {
		return m.DeleteDimensionFunc(id)
	}
	return nil
}

func (m *MockStore) SubmitScores(archiveID, callerPlayerID string, scores []ScoreInput) ([]Entry, error) {
	m.mu.Lock()
	m.SubmitScoresCalls = append(m.SubmitScoresCalls, struct {
		ArchiveID      string
		CallerPlayerID string
		Scores         []ScoreInput
	}{archiveID, callerPlayerID, scores})
	m.mu.Unlock()
	if m.SubmitScoresFunc != nil {
		return m.SubmitScoresFunc(archiveID, callerPlayerID, scores)
	}
	return nil, nil
}

func (m *MockStore) Rank(mapID, dimensionID string, mode Mode, page, limit int) (*Board, error) {
	m.mu.Lock()
	m.RankCalls = append(m.RankCalls, struct {
		MapID       string
		DimensionID string
		Mode        Mode
		Page        int
		Limit       int
	}{mapID, dimensionID, mode, page, limit})
	m.mu.Unlock()
	if m.RankFunc != nil {
		return m.RankFunc(mapID, dimensionID, mode, page, limit)
	}
	return nil, nil
}

func (m *MockStore) RankOf(mapID, dimensionID, playerID string) (*PlayerRank, error) {
	if m.RankOfFunc != nil {
		return m.RankOfFunc(mapID, dimensionID, playerID)
	}
	return nil, nil
}
