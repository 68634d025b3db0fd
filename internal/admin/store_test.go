package admin_test

import (
	"database/sql"
	"testing"

	"github.com/mauv0809/super-palm-tree/internal/admin"
	"github.com/mauv0809/super-palm-tree/internal/apperr"
	"github.com/mauv0809/super-palm-tree/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "Failed to initialize in-memory database")
	t.Cleanup(teardown)
	return db
}

func strPtr(s string) *string { return &s }

func TestBootstrap(t *testing.T) {
	store := admin.New(setupTestDB(t))

	created, err := store.Bootstrap("root", "hunter22-hunter22")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "root", created.Username)
	assert.Equal(t, int64(1), created.SessionVersion)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotContains(t, created.PasswordHash, "hunter22", "password must not be stored in the clear")

	// A second bootstrap is a no-op and returns the existing account.
	again, err := store.Bootstrap("someone-else", "other-password")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "root", again.Username)
}

func TestBootstrapWithoutCredentials(t *testing.T) {
	store := admin.New(setupTestDB(t))

	created, err := store.Bootstrap("", "")
	require.NoError(t, err)
	assert.Nil(t, created)
}

func TestVerifyCredentials(t *testing.T) {
	store := admin.New(setupTestDB(t))
	created, err := store.Bootstrap("root", "hunter22-hunter22")
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		a, err := store.VerifyCredentials("root", "hunter22-hunter22")
		require.NoError(t, err)
		assert.Equal(t, created.ID, a.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := store.VerifyCredentials("root", "nope")
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := store.VerifyCredentials("nobody", "hunter22-hunter22")
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})
}

func TestUpdateCredentials(t *testing.T) {
	store := admin.New(setupTestDB(t))
	created, err := store.Bootstrap("root", "hunter22-hunter22")
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		_, err := store.UpdateCredentials(created.ID, admin.CredentialUpdate{
			CurrentPassword: "wrong",
			NewPassword:     strPtr("a-new-password"),
		})
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("nothing to update", func(t *testing.T) {
		_, err := store.UpdateCredentials(created.ID, admin.CredentialUpdate{
			CurrentPassword: "hunter22-hunter22",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})

	t.Run("new password too short", func(t *testing.T) {
		_, err := store.UpdateCredentials(created.ID, admin.CredentialUpdate{
			CurrentPassword: "hunter22-hunter22",
			NewPassword:     strPtr("short"),
		})
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})

	t.Run("change bumps session version", func(t *testing.T) {
		updated, err := store.UpdateCredentials(created.ID, admin.CredentialUpdate{
			CurrentPassword: "hunter22-hunter22",
			NewUsername:     strPtr("overlord"),
			NewPassword:     strPtr("a-new-password"),
		})
		require.NoError(t, err)
		assert.Equal(t, "overlord", updated.Username)
		assert.Equal(t, created.SessionVersion+1, updated.SessionVersion)

		_, err = store.VerifyCredentials("root", "hunter22-hunter22")
		assert.Error(t, err, "old credentials must stop working")

		a, err := store.VerifyCredentials("overlord", "a-new-password")
		require.NoError(t, err)
		assert.Equal(t, created.ID, a.ID)
	})
}

func TestGet(t *testing.T) {
	store := admin.New(setupTestDB(t))
	created, err := store.Bootstrap("root", "hunter22-hunter22")
	require.NoError(t, err)

	a, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "root", a.Username)

	_, err = store.Get("missing-id")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
