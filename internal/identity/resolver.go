package identity

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/super-palm-tree/internal/admin"
	"github.com/mauv0809/super-palm-tree/internal/apperr"
	"github.com/mauv0809/super-palm-tree/internal/atlas"
	"github.com/mauv0809/super-palm-tree/internal/token"
)

// Resolver turns an incoming token into a verified identity. Player tokens
// provision the account on first use; admin tokens are checked against the
// stored session version.
type Resolver struct {
	codec  *token.Codec
	atlas  atlas.AtlasStore
	admins admin.AdminStore
}

// NewResolver creates a new Resolver.
func NewResolver(codec *token.Codec, atlasStore atlas.AtlasStore, adminStore admin.AdminStore) *Resolver {
	return &Resolver{
		codec:  codec,
		atlas:  atlasStore,
		admins: adminStore,
	}
}

// ResolvePlayer verifies a player bearer token and upserts the player row,
// refreshing the display name. The token is a capability: holding a valid
// one is sufficient to act as that external player.
func (r *Resolver) ResolvePlayer(bearer string) (*atlas.Player, error) {
	if bearer == "" {
		return nil, apperr.Unauthorized("missing bearer token")
	}
	claims, err := r.codec.VerifyPlayerToken(bearer)
	if err != nil {
		return nil, apperr.Unauthorized("invalid bearer token")
	}
	player, err := r.atlas.UpsertPlayer(claims.PlayerID, claims.PlayerName)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// ResolveAdmin verifies an admin session token and checks the claim's
// session version against the stored one. A mismatch means the credentials
// changed after issuance, so the session is revoked even though the
// signature still checks out.
func (r *Resolver) ResolveAdmin(tokenString string) (*admin.AdminUser, error) {
	if tokenString == "" {
		return nil, apperr.Unauthorized("not logged in")
	}
	claims, err := r.codec.VerifyAdminSession(tokenString)
	if err != nil {
		return nil, apperr.Unauthorized("session is no longer valid")
	}
	account, err := r.admins.Get(claims.AdminID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("session is no longer valid")
		}
		return nil, err
	}
	if account.SessionVersion != claims.SessionVersion {
		log.Debug("Rejecting admin session with stale version", "admin", account.Username)
		return nil, apperr.Unauthorized("session is no longer valid")
	}
	return account, nil
}
