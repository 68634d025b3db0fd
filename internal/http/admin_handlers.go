package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mauv0809/super-palm-tree/internal/admin"
	"github.com/mauv0809/super-palm-tree/internal/apperr"
	"github.com/mauv0809/super-palm-tree/internal/leaderboard"
	"github.com/mauv0809/super-palm-tree/internal/token"
)

func (s *Server) setAdminSessionCookie(w http.ResponseWriter, signed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminSessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(token.DefaultAdminSessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAdminSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// AdminLoginHandler verifies admin credentials and issues a session token
// bound to the account's current session version. The very first login
// bootstraps the account from the configured credentials.
func (s *Server) AdminLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		username := strings.TrimSpace(body.Username)
		password := strings.TrimSpace(body.Password)
		if username == "" || password == "" {
			writeError(w, apperr.Invalid("username and password are required"))
			return
		}

		bootstrapped, err := s.Admins.Bootstrap(s.Cfg.Admin.Username, s.Cfg.Admin.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		if bootstrapped == nil {
			writeError(w, apperr.Internal(errors.New("admin account not initialized: set ADMIN_USERNAME and ADMIN_PASSWORD")))
			return
		}

		account, err := s.Admins.VerifyCredentials(username, password)
		if err != nil {
			s.Metrics.IncAuthFailures()
			writeError(w, err)
			return
		}

		signed, err := s.Codec.IssueAdminSession(account.ID, account.SessionVersion, 0)
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}

		s.setAdminSessionCookie(w, signed)
		writeJSON(w, http.StatusOK, map[string]any{
			"admin": map[string]string{"id": account.ID, "username": account.Username},
		})
	}
}

func (s *Server) AdminLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearAdminSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

// UpdateCredentialsHandler changes the admin's username and/or password.
// The change bumps the session version, so every other session is revoked;
// the current one is re-issued against the new version.
func (s *Server) UpdateCredentialsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := adminFromContext(r)
		var body struct {
			CurrentPassword string  `json:"currentPassword"`
			Username        *string `json:"username"`
			Password        *string `json:"password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		if strings.TrimSpace(body.CurrentPassword) == "" {
			writeError(w, apperr.Invalid("currentPassword is required"))
			return
		}

		updated, err := s.Admins.UpdateCredentials(account.ID, admin.CredentialUpdate{
			CurrentPassword: strings.TrimSpace(body.CurrentPassword),
			NewUsername:     body.Username,
			NewPassword:     body.Password,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		signed, err := s.Codec.IssueAdminSession(updated.ID, updated.SessionVersion, 0)
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}

		s.setAdminSessionCookie(w, signed)
		writeJSON(w, http.StatusOK, map[string]any{
			"admin": map[string]string{"id": updated.ID, "username": updated.Username},
		})
	}
}

func (s *Server) AdminSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.Atlas.Summary()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) CreateMapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name        string          `json:"name"`
			Description *string         `json:"description"`
			Config      json.RawMessage `json:"config"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		m, err := s.Atlas.CreateMap(body.Name, body.Description, body.Config)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) UpdateMapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name        *string         `json:"name"`
			Description *string         `json:"description"`
			Config      json.RawMessage `json:"config"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		m, err := s.Atlas.UpdateMap(r.PathValue("mapId"), body.Name, body.Description, body.Config)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) DeleteMapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Atlas.DeleteMap(r.PathValue("mapId")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "map deleted"})
	}
}

func (s *Server) CreateDimensionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name      string  `json:"name"`
			Unit      *string `json:"unit"`
			SortOrder string  `json:"sortOrder"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		if body.SortOrder == "" {
			body.SortOrder = string(leaderboard.SortDescending)
		}
		sortOrder, ok := leaderboard.ParseSortOrder(strings.ToUpper(body.SortOrder))
		if !ok {
			writeError(w, apperr.Invalid("sortOrder must be ASC or DESC"))
			return
		}
		dim, err := s.Boards.CreateDimension(r.PathValue("mapId"), body.Name, body.Unit, sortOrder)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, dim)
	}
}

func (s *Server) DeleteDimensionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dim, err := s.Boards.GetDimension(r.PathValue("dimensionId"))
		if err != nil {
			writeError(w, err)
			return
		}
		if dim.MapID != r.PathValue("mapId") {
			writeError(w, apperr.NotFound("leaderboard dimension"))
			return
		}
		if err := s.Boards.DeleteDimension(dim.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "dimension deleted"})
	}
}
