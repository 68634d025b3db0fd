package admin

// AdminStore defines the interface for administrator account operations.
type AdminStore interface {
	// Bootstrap creates the first admin account from the configured
	// credentials if no account exists yet. It is a no-op when an account
	// already exists or when the credentials are empty.
	Bootstrap(username, password string) (*AdminUser, error)
	Get(id string) (*AdminUser, error)
	GetByUsername(username string) (*AdminUser, error)
	// VerifyCredentials checks username/password and returns the account.
	// A wrong username and a wrong password are indistinguishable to the
	// caller (both Unauthorized).
	VerifyCredentials(username, password string) (*AdminUser, error)
	// UpdateCredentials applies a credentials change and increments the
	// session version, revoking all previously issued sessions.
	UpdateCredentials(adminID string, update CredentialUpdate) (*AdminUser, error)
}
