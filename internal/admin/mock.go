package admin

import "sync"

// MockStore is a mock implementation of the AdminStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	BootstrapFunc         func(username, password string) (*AdminUser, error)
	GetFunc               func(id string) (*AdminUser, error)
	GetByUsernameFunc     func(username string) (*AdminUser, error)
	VerifyCredentialsFunc func(username, password string) (*AdminUser, error)
	UpdateCredentialsFunc func(adminID string, update CredentialUpdate) (*AdminUser, error)

	// Call records
	GetCalls               []string
	VerifyCredentialsCalls []struct {
		Username string
		Password string
	}
	UpdateCredentialsCalls []struct {
		AdminID string
		Update  CredentialUpdate
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Bootstrap(username, password string) (*AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BootstrapFunc != nil {
		return m.BootstrapFunc(username, password)
	}
	return nil, nil
}

func (m *MockStore) Get(id string) (*AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, id)
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetByUsername(username string) (*AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(username)
	}
	return nil, nil
}

func (m *MockStore) VerifyCredentials(username, password string) (*AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerifyCredentialsCalls = append(m.VerifyCredentialsCalls, struct {
		Username string
		Password string
	}{username, password})
	if m.VerifyCredentialsFunc != nil {
		return m.VerifyCredentialsFunc(username, password)
	}
	return nil, nil
}

func (m *MockStore) UpdateCredentials(adminID string, update CredentialUpdate) (*AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCredentialsCalls = append(m.UpdateCredentialsCalls, struct {
		AdminID string
		Update  CredentialUpdate
	}{adminID, update})
	if m.UpdateCredentialsFunc != nil {
		return m.UpdateCredentialsFunc(adminID, update)
	}
	return nil, nil
}
