package identity_test

import (
	"testing"
	"time"

	"github.com/mauv0809/super-palm-tree/internal/admin"
	"github.com/mauv0809/super-palm-tree/internal/apperr"
	"github.com/mauv0809/super-palm-tree/internal/atlas"
	"github.com/mauv0809/super-palm-tree/internal/identity"
	"github.com/mauv0809/super-palm-tree/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec("player-secret", "admin-secret")
	require.NoError(t, err)
	return codec
}

func TestResolvePlayer(t *testing.T) {
	codec := newTestCodec(t)
	atlasMock := atlas.NewMock()
	resolver := identity.NewResolver(codec, atlasMock, admin.NewMock())

	bearer, err := codec.IssuePlayerToken("ext-42", "Luna", time.Hour)
	require.NoError(t, err)

	player, err := resolver.ResolvePlayer(bearer)
	require.NoError(t, err)
	assert.Equal(t, "ext-42", player.PlayerID)
	assert.Equal(t, "Luna", player.PlayerName)

	// Resolving provisions the account from the claims.
	require.Len(t, atlasMock.UpsertPlayerCalls, 1)
	assert.Equal(t, "ext-42", atlasMock.UpsertPlayerCalls[0].ExternalID)
	assert.Equal(t, "Luna", atlasMock.UpsertPlayerCalls[0].Name)
}

func TestResolvePlayerRejectsBadTokens(t *testing.T) {
	codec := newTestCodec(t)
	atlasMock := atlas.NewMock()
	resolver := identity.NewResolver(codec, atlasMock, admin.NewMock())

	t.Run("empty", func(t *testing.T) {
		_, err := resolver.ResolvePlayer("")
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := resolver.ResolvePlayer("not-a-token")
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		bearer, err := codec.IssuePlayerToken("ext-42", "Luna", time.Millisecond)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		_, err = resolver.ResolvePlayer(bearer)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	assert.Empty(t, atlasMock.UpsertPlayerCalls, "no account may be touched for a rejected token")
}

func TestResolveAdmin(t *testing.T) {
	codec := newTestCodec(t)
	adminMock := admin.NewMock()
	adminMock.GetFunc = func(id string) (*admin.AdminUser, error) {
		return &admin.AdminUser{ID: id, Username: "root", SessionVersion: 2}, nil
	}
	resolver := identity.NewResolver(codec, atlas.NewMock(), adminMock)

	session, err := codec.IssueAdminSession("admin-1", 2, time.Hour)
	require.NoError(t, err)

	account, err := resolver.ResolveAdmin(session)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", account.ID)
	assert.Equal(t, "root", account.Username)
}

func TestResolveAdminRevokedSession(t *testing.T) {
	codec := newTestCodec(t)
	adminMock := admin.NewMock()
	adminMock.GetFunc = func(id string) (*admin.AdminUser, error) {
		return &admin.AdminUser{ID: id, Username: "root", SessionVersion: 3}, nil
	}
	resolver := identity.NewResolver(codec, atlas.NewMock(), adminMock)

	// Issued at version 2, but the stored account has moved to version 3
	// after a credentials change.
	session, err := codec.IssueAdminSession("admin-1", 2, time.Hour)
	require.NoError(t, err)

	_, err = resolver.ResolveAdmin(session)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestResolveAdminDeletedAccount(t *testing.T) {
	codec := newTestCodec(t)
	adminMock := admin.NewMock()
	adminMock.GetFunc = func(id string) (*admin.AdminUser, error) {
		return nil, apperr.NotFound("admin account")
	}
	resolver := identity.NewResolver(codec, atlas.NewMock(), adminMock)

	session, err := codec.IssueAdminSession("admin-1", 1, time.Hour)
	require.NoError(t, err)

	_, err = resolver.ResolveAdmin(session)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestResolveAdminRejectsPlayerToken(t *testing.T) {
	codec := newTestCodec(t)
	resolver := identity.NewResolver(codec, atlas.NewMock(), admin.NewMock())

	bearer, err := codec.IssuePlayerToken("ext-42", "Luna", time.Hour)
	require.NoError(t, err)

	_, err = resolver.ResolveAdmin(bearer)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}
