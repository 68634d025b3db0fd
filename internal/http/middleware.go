package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/super-palm-tree/internal/admin"
	"github.com/mauv0809/super-palm-tree/internal/atlas"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	playerKey contextKey = "player"
	adminKey  contextKey = "admin"
)

// adminSessionCookie is the cookie carrying the admin session token.
const adminSessionCookie = "archive_admin_session"

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		next.ServeHTTP(w, r)
	})
}

// playerAuth requires a valid player bearer token. Resolving the token
// upserts the player, so the identity placed in the context always exists in
// the store.
func (s *Server) playerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			s.Metrics.IncAuthFailures()
			writeErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		bearer := strings.TrimSpace(header[len("bearer "):])

		player, err := s.Resolver.ResolvePlayer(bearer)
		if err != nil {
			s.Metrics.IncAuthFailures()
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), playerKey, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminAuth requires a valid, non-revoked admin session cookie.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(adminSessionCookie)
		if err != nil {
			s.Metrics.IncAuthFailures()
			writeErrorMessage(w, http.StatusUnauthorized, "not logged in")
			return
		}

		account, err := s.Resolver.ResolveAdmin(cookie.Value)
		if err != nil {
			s.Metrics.IncAuthFailures()
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), adminKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// playerFromContext retrieves the authenticated player set by playerAuth.
func playerFromContext(r *http.Request) *atlas.Player {
	player, _ := r.Context().Value(playerKey).(*atlas.Player)
	return player
}

// adminFromContext retrieves the authenticated admin set by adminAuth.
func adminFromContext(r *http.Request) *admin.AdminUser {
	account, _ := r.Context().Value(adminKey).(*admin.AdminUser)
	return account
}
