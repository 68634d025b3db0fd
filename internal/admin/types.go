package admin

import "database/sql"

// store handles all database operations for admin accounts.
type store struct {
	db *sql.DB
}

// AdminUser is a stored administrator account. SessionVersion is a monotonic
// counter; incrementing it invalidates every previously issued session token.
type AdminUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	PasswordHash   string `json:"-"`
	SessionVersion int64  `json:"sessionVersion"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt"`
}

// CredentialUpdate describes a credentials change. Nil fields are left
// unchanged; at least one must be set.
type CredentialUpdate struct {
	CurrentPassword string
	NewUsername     *string
	NewPassword     *string
}
