package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/super-palm-tree/internal/apperr"
	"github.com/mauv0809/super-palm-tree/internal/leaderboard"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("request body must be valid JSON")
	}
	return nil
}

// IssuePlayerTokenHandler signs a player bearer token and provisions the
// player account in the same call.
func (s *Server) IssuePlayerTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PlayerID   string `json:"playerId"`
			PlayerName string `json:"playerName"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		playerID := strings.TrimSpace(body.PlayerID)
		playerName := strings.TrimSpace(body.PlayerName)
		if playerID == "" {
			writeError(w, apperr.Invalid("playerId must not be empty"))
			return
		}
		if playerName == "" {
			writeError(w, apperr.Invalid("playerName must not be empty"))
			return
		}

		player, err := s.Atlas.UpsertPlayer(playerID, playerName)
		if err != nil {
			writeError(w, err)
			return
		}
		signed, err := s.Codec.IssuePlayerToken(playerID, playerName, 0)
		if err != nil {
			writeError(w, apperr.Internal(err))
			return
		}

		s.Metrics.IncTokensIssued()
		writeJSON(w, http.StatusOK, map[string]any{
			"token":  signed,
			"player": player,
		})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, playerFromContext(r))
	}
}

func (s *Server) ListMapsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := paginationParams(r)
		maps, total, err := s.Atlas.ListMaps(page, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paginatedResponse(maps, total, page, limit))
	}
}

func (s *Server) GetMapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Atlas.GetMap(r.PathValue("mapId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func (s *Server) JoinMapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r)
		mp, err := s.Atlas.JoinMap(r.PathValue("mapId"), player.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, mp)
	}
}

func (s *Server) ListMembersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := paginationParams(r)
		members, total, err := s.Atlas.ListMembers(r.PathValue("mapId"), page, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paginatedResponse(members, total, page, limit))
	}
}

func (s *Server) ListArchivesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r)
		page, limit := paginationParams(r)
		archives, total, err := s.Atlas.ListArchives(r.PathValue("mapId"), player.ID, page, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paginatedResponse(archives, total, page, limit))
	}
}

func (s *Server) CreateArchiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r)
		var body struct {
			Name string          `json:"name"`
			Data json.RawMessage `json:"data"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		archive, err := s.Atlas.CreateArchive(r.PathValue("mapId"), player.ID, body.Name, body.Data)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, archive)
	}
}

func (s *Server) GetArchiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r)
		archive, err := s.Atlas.GetArchive(r.PathValue("archiveId"), player.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, archive)
	}
}

func (s *Server) UpdateArchiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r)
		var body struct {
			Name *string         `json:"name"`
			Data json.RawMessage `json:"data"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		archive, err := s.Atlas.UpdateArchive(r.PathValue("archiveId"), player.ID, body.Name, body.Data)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, archive)
	}
}

func (s *Server) DeleteArchiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r)
		if err := s.Atlas.DeleteArchive(r.PathValue("archiveId"), player.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "archive deleted"})
	}
}

func (s *Server) ListDimensionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.Atlas.GetMap(r.PathValue("mapId")); err != nil {
			writeError(w, err)
			return
		}
		dimensions, err := s.Boards.ListDimensions(r.PathValue("mapId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dimensions)
	}
}

func (s *Server) SubmitScoresHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r)
		var body struct {
			Scores []leaderboard.ScoreInput `json:"scores"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		if body.Scores == nil {
			writeError(w, apperr.Invalid("scores array is required"))
			return
		}

		entries, err := s.Boards.SubmitScores(r.PathValue("archiveId"), player.ID, body.Scores)
		if err != nil {
			s.Metrics.IncScoresRejected()
			writeError(w, err)
			return
		}

		s.Metrics.IncScoreSubmissions()
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "scores submitted",
			"updated": len(entries),
			"entries": entries,
		})
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modeParam := r.URL.Query().Get("mode")
		if modeParam == "" {
			modeParam = string(leaderboard.ModePlayer)
		}
		mode, ok := leaderboard.ParseMode(strings.ToLower(modeParam))
		if !ok {
			writeError(w, apperr.Invalid("mode must be player or archive"))
			return
		}
		page, limit := paginationParams(r)

		start := time.Now()
		board, err := s.Boards.Rank(r.PathValue("mapId"), r.PathValue("dimensionId"), mode, page, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		s.Metrics.IncRankingQueries()
		s.Metrics.ObserveRankingDuration(time.Since(start).Seconds())

		writeJSON(w, http.StatusOK, board)
	}
}

func (s *Server) MyRankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFromContext(r)
		rank, err := s.Boards.RankOf(r.PathValue("mapId"), r.PathValue("dimensionId"), player.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if rank == nil {
			writeJSON(w, http.StatusOK, map[string]any{"rank": nil, "entry": nil})
			return
		}
		writeJSON(w, http.StatusOK, rank)
	}
}
