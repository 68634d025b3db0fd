package atlas

import (
	"encoding/json"
	"sync"
)

// MockStore is a mock implementation of the AtlasStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertPlayerFunc          func(externalID, name string) (*Player, error)
	GetPlayerFunc             func(id string) (*Player, error)
	GetPlayerByExternalIDFunc func(externalID string) (*Player, error)
	CreateMapFunc             func(name string, description *string, config json.RawMessage) (*Map, error)
	GetMapFunc                func(id string) (*Map, error)
	ListMapsFunc              func(page, limit int) ([]MapSummary, int, error)
	UpdateMapFunc             func(id string, name, description *string, config json.RawMessage) (*Map, error)
	DeleteMapFunc             func(id string) error
	JoinMapFunc               func(mapID, playerID string) (*MapPlayer, error)
	ListMembersFunc           func(mapID string, page, limit int) ([]Member, int, error)
	CreateArchiveFunc         func(mapID, playerID, name string, data json.RawMessage) (*Archive, error)
	GetArchiveFunc            func(id, callerPlayerID string) (*ArchiveDetail, error)
	ListArchivesFunc          func(mapID, playerID string, page, limit int) ([]Archive, int, error)
	UpdateArchiveFunc         func(id, callerPlayerID string, name *string, data json.RawMessage) (*Archive, error)
	DeleteArchiveFunc         func(id, callerPlayerID string) error
	SummaryFunc               func() (*Summary, error)

	// Call records
	UpsertPlayerCalls []struct {
		ExternalID string
		Name       string
	}
	JoinMapCalls []struct {
		MapID    string
		PlayerID string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertPlayer(externalID, name string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayerCalls = append(m.UpsertPlayerCalls, struct {
		ExternalID string
		Name       string
	}{externalID, name})
	if m.UpsertPlayerFunc != nil {
		return m.UpsertPlayerFunc(externalID, name)
	}
	return &Player{ID: "mock-" + externalID, PlayerID: externalID, PlayerName: name}, nil
}

func (m *MockStore) GetPlayer(id string) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetPlayerByExternalID(externalID string) (*Player, error) {
	if m.GetPlayerByExternalIDFunc != nil {
		return m.GetPlayerByExternalIDFunc(externalID)
	}
	return nil, nil
}

func (m *MockStore) CreateMap(name string, description *string, config json.RawMessage) (*Map, error) {
	if m.CreateMapFunc != nil {
		return m.CreateMapFunc(name, description, config)
	}
	return nil, nil
}

func (m *MockStore) GetMap(id string) (*Map, error) {
	if m.GetMapFunc != nil {
		return m.GetMapFunc(id)
	}
	return nil, nil
}

func (m *MockStore) ListMaps(page, limit int) ([]MapSummary, int, error) {
	if m.ListMapsFunc != nil {
		return m.ListMapsFunc(page, limit)
	}
	return nil, 0, nil
}

func (m *MockStore) UpdateMap(id string, name, description *string, config json.RawMessage) (*Map, error) {
	if m.UpdateMapFunc != nil {
		return m.UpdateMapFunc(id, name, description, config)
	}
	return nil, nil
}

func (m *MockStore) DeleteMap(id string) error {
	if m.DeleteMapFunc != nil {
		return m.DeleteMapFunc(id)
	}
	return nil
}

func (m *MockStore) JoinMap(mapID, playerID string) (*MapPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JoinMapCalls = append(m.JoinMapCalls, struct {
		MapID    string
		PlayerID string
	}{mapID, playerID})
	if m.JoinMapFunc != nil {
		return m.JoinMapFunc(mapID, playerID)
	}
	return nil, nil
}

func (m *MockStore) ListMembers(mapID string, page, limit int) ([]Member, int, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(mapID, page, limit)
	}
	return nil, 0, nil
}

func (m *MockStore) CreateArchive(mapID, playerID, name string, data json.RawMessage) (*Archive, error) {
	if m.CreateArchiveFunc != nil {
		return m.CreateArchiveFunc(mapID, playerID, name, data)
	}
	return nil, nil
}

func (m *MockStore) GetArchive(id, callerPlayerID string) (*ArchiveDetail, error) {
	if m.GetArchiveFunc != nil {
		return m.GetArchiveFunc(id, callerPlayerID)
	}
	return nil, nil
}

func (m *MockStore) ListArchives(mapID, playerID string, page, limit int) ([]Archive, int, error) {
	if m.ListArchivesFunc != nil {
		return m.ListArchivesFunc(mapID, playerID, page, limit)
	}
	return nil, 0, nil
}

func (m *MockStore) UpdateArchive(id, callerPlayerID string, name *string, data json.RawMessage) (*Archive, error) {
	if m.UpdateArchiveFunc != nil {
		return m.UpdateArchiveFunc(id, callerPlayerID, name, data)
	}
	return nil, nil
}

func (m *MockStore) DeleteArchive(id, callerPlayerID string) error {
	if m.DeleteArchiveFunc != nil {
		return m.DeleteArchiveFunc(id, callerPlayerID)
	}
	return nil
}

func (m *MockStore) Summary() (*Summary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc()
	}
	return nil, nil
}
