package admin

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/super-palm-tree/internal/apperr"
)

// New creates a new AdminStore.
func New(db *sql.DB) AdminStore {
	return &store{
		db: db,
	}
}

func (s *store) Bootstrap(username, password string) (*AdminUser, error) {
	existing := &AdminUser{}
	err := s.db.QueryRow(`SELECT id, username, password_hash, session_version, created_at, updated_at FROM admin_users LIMIT 1`).
		Scan(&existing.ID, &existing.Username, &existing.PasswordHash, &existing.SessionVersion, &existing.CreatedAt, &existing.UpdatedAt)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Internal(err)
	}

	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, nil
	}

	// The password hashing below is CPU-bound; no transaction is open while
	// it runs.
	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := time.Now().UnixMilli()
	created := &AdminUser{
		ID:             uuid.New().String(),
		Username:       username,
		PasswordHash:   hash,
		SessionVersion: 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err = s.db.Exec(`INSERT INTO admin_users (id, username, password_hash, session_version, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID, created.Username, created.PasswordHash, created.SessionVersion, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	log.Info("Bootstrapped initial admin account", "username", username)
	return created, nil
}

func (s *store) Get(id string) (*AdminUser, error) {
	return s.getBy("id", id)
}

func (s *store) GetByUsername(username string) (*AdminUser, error) {
	return s.getBy("username", username)
}

func (s *store) getBy(column, value string) (*AdminUser, error) {
	a := &AdminUser{}
	err := s.db.QueryRow(`SELECT id, username, password_hash, session_version, created_at, updated_at FROM admin_users WHERE `+column+` = ?`, value).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.SessionVersion, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("admin account")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return a, nil
}

func (s *store) VerifyCredentials(username, password string) (*AdminUser, error) {
	a, err := s.getBy("username", username)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("wrong username or password")
		}
		return nil, err
	}
	if !VerifyPassword(password, a.PasswordHash) {
		return nil, apperr.Unauthorized("wrong username or password")
	}
	return a, nil
}

func (s *store) UpdateCredentials(adminID string, update CredentialUpdate) (*AdminUser, error) {
	a, err := s.getBy("id", adminID)
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(update.CurrentPassword, a.PasswordHash) {
		return nil, apperr.Unauthorized("current password is wrong")
	}
	if update.NewUsername == nil && update.NewPassword == nil {
		return nil, apperr.Invalid("nothing to update")
	}

	nextUsername := a.Username
	if update.NewUsername != nil {
		nextUsername = strings.TrimSpace(*update.NewUsername)
		if nextUsername == "" {
			return nil, apperr.Invalid("username must not be empty")
		}
		if nextUsername != a.Username {
			if _, err := s.getBy("username", nextUsername); err == nil {
				return nil, apperr.Invalid("username already taken")
			} else if !apperr.IsKind(err, apperr.KindNotFound) {
				return nil, err
			}
		}
	}

	nextHash := a.PasswordHash
	if update.NewPassword != nil {
		pw := strings.TrimSpace(*update.NewPassword)
		if len(pw) < 8 {
			return nil, apperr.Invalid("new password must be at least 8 characters")
		}
		nextHash, err = HashPassword(pw)
		if err != nil {
			return nil, apperr.Internal(err)
		}
	}

	// Bumping session_version on every credentials change revokes all
	// previously issued session tokens.
	now := time.Now().UnixMilli()
	_, err = s.db.Exec(`UPDATE admin_users SET username = ?, password_hash = ?, session_version = session_version + 1, updated_at = ? WHERE id = ?`,
		nextUsername, nextHash, now, adminID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.getBy("id", adminID)
}
