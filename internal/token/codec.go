package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default lifetimes for the two token kinds.
const (
	DefaultPlayerTTL       = 30 * 24 * time.Hour
	DefaultAdminSessionTTL = 7 * 24 * time.Hour
)

// PlayerClaims is the payload of a player bearer token. The token is a
// capability: anyone holding a valid one can act as PlayerID.
type PlayerClaims struct {
	jwt.RegisteredClaims
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// AdminSessionClaims is the payload of an admin session token. The token is
// only accepted while SessionVersion matches the stored admin row, which is
// how sessions are revoked without a blacklist.
type AdminSessionClaims struct {
	jwt.RegisteredClaims
	AdminID        string `json:"adminId"`
	SessionVersion int64  `json:"sessionVersion"`
}

// Codec signs and verifies the two token kinds. Each kind uses its own
// secret, so a token of one kind never verifies as the other.
type Codec struct {
	playerSecret []byte
	adminSecret  []byte
}

// NewCodec builds a codec from the two signing secrets. An empty secret is
// a configuration error and should abort startup.
func NewCodec(playerSecret, adminSecret string) (*Codec, error) {
	if playerSecret == "" || adminSecret == "" {
		return nil, ErrMissingSecret
	}
	return &Codec{
		playerSecret: []byte(playerSecret),
		adminSecret:  []byte(adminSecret),
	}, nil
}

// IssuePlayerToken creates a signed bearer token for the given external
// player identity.
func (c *Codec) IssuePlayerToken(playerID, playerName string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultPlayerTTL
	}
	now := time.Now()
	claims := &PlayerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		PlayerID:   playerID,
		PlayerName: playerName,
	}
	return c.sign(claims, c.playerSecret)
}

// VerifyPlayerToken validates a player bearer token and returns its claims.
func (c *Codec) VerifyPlayerToken(tokenString string) (*PlayerClaims, error) {
	claims := &PlayerClaims{}
	if err := c.verify(tokenString, claims, c.playerSecret); err != nil {
		return nil, err
	}
	if claims.PlayerID == "" || claims.PlayerName == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssueAdminSession creates a signed session token bound to the admin's
// current session version.
func (c *Codec) IssueAdminSession(adminID string, sessionVersion int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultAdminSessionTTL
	}
	now := time.Now()
	claims := &AdminSessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AdminID:        adminID,
		SessionVersion: sessionVersion,
	}
	return c.sign(claims, c.adminSecret)
}

// VerifyAdminSession validates an admin session token structurally. The
// session-version comparison against the stored admin row is the caller's
// responsibility.
func (c *Codec) VerifyAdminSession(tokenString string) (*AdminSessionClaims, error) {
	claims := &AdminSessionClaims{}
	if err := c.verify(tokenString, claims, c.adminSecret); err != nil {
		return nil, err
	}
	if claims.AdminID == "" || claims.SessionVersion == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (c *Codec) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return ErrInvalidSignature
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
