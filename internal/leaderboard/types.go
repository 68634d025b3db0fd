package leaderboard

import (
	"database/sql"
	"encoding/json"
)

// store handles all database operations for dimensions, entries and
// rankings.
type store struct {
	db *sql.DB
}

// SortOrder governs which direction of a dimension's values ranks first. It
// is fixed at dimension creation; changing it retroactively would change the
// meaning of "best" for every existing entry.
type SortOrder string

const (
	SortAscending  SortOrder = "ASC"
	SortDescending SortOrder = "DESC"
)

// ParseSortOrder validates a sort order literal.
func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(s) {
	case SortAscending, SortDescending:
		return SortOrder(s), true
	default:
		return "", false
	}
}

// Mode selects how a leaderboard page is built: one row per entry, or one
// best row per player.
type Mode string

const (
	ModePlayer  Mode = "player"
	ModeArchive Mode = "archive"
)

// ParseMode validates a leaderboard mode literal.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModePlayer, ModeArchive:
		return Mode(s), true
	default:
		return "", false
	}
}

// Dimension is a named, independently sorted leaderboard axis scoped to one
// map.
type Dimension struct {
	ID        string    `json:"id"`
	MapID     string    `json:"mapId"`
	Name      string    `json:"name"`
	Unit      *string   `json:"unit"`
	SortOrder SortOrder `json:"sortOrder"`
	CreatedAt int64     `json:"createdAt"`
}

// ScoreInput is one dimension score inside a submission batch.
type ScoreInput struct {
	DimensionID string          `json:"dimensionId"`
	Value       float64         `json:"value"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// Entry is the current value of one archive on one dimension. There is at
// most one per (dimension, archive) pair; submissions overwrite it.
type Entry struct {
	ID          string          `json:"id"`
	DimensionID string          `json:"dimensionId"`
	ArchiveID   string          `json:"archiveId"`
	Value       float64         `json:"value"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   int64           `json:"createdAt"`
	UpdatedAt   int64           `json:"updatedAt"`
}

// RankedRow is one row of a leaderboard page. PlayerID is the external
// player id.
type RankedRow struct {
	Rank        int64   `json:"rank"`
	PlayerID    string  `json:"playerId"`
	PlayerName  string  `json:"playerName"`
	ArchiveID   string  `json:"archiveId"`
	ArchiveName string  `json:"archiveName"`
	Value       float64 `json:"value"`
	UpdatedAt   int64   `json:"updatedAt"`
}

// Page describes pagination of a result set. TotalPages is never zero, so
// callers can clamp a requested page to [1, TotalPages] without a special
// case for empty boards.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds pagination metadata for a total row count.
func NewPage(page, limit, total int) Page {
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return Page{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Board is one ranked, paginated leaderboard view.
type Board struct {
	Dimension  Dimension   `json:"dimension"`
	Mode       Mode        `json:"mode"`
	Rows       []RankedRow `json:"rows"`
	Pagination Page        `json:"pagination"`
}

// PlayerRank is a single player's position in the player-mode ranking.
type PlayerRank struct {
	Rank  int64     `json:"rank"`
	Entry RankedRow `json:"entry"`
}
