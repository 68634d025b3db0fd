package atlas

import (
	"database/sql"
	"encoding/json"
)

// store handles all database operations for maps, players, map membership
// and archives.
type store struct {
	db *sql.DB
}

// Map is the root scope for dimensions and player participation. Deleting a
// map cascades to its members, archives and leaderboard entries.
type Map struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Config      json.RawMessage `json:"config"`
	CreatedAt   int64           `json:"createdAt"`
	UpdatedAt   int64           `json:"updatedAt"`
}

// MapSummary is a map row with membership counts for list views.
type MapSummary struct {
	Map
	PlayerCount    int `json:"playerCount"`
	DimensionCount int `json:"dimensionCount"`
}

// Player is an account provisioned lazily on first authenticated contact.
// PlayerID is the caller-supplied external identity; ID is internal.
type Player struct {
	ID         string `json:"id"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	CreatedAt  int64  `json:"createdAt"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// MapPlayer joins a player to a map, created lazily when the player first
// touches the map.
type MapPlayer struct {
	ID        string `json:"id"`
	MapID     string `json:"mapId"`
	PlayerID  string `json:"playerId"`
	CreatedAt int64  `json:"createdAt"`
}

// Member is a map member with the joined player identity.
type Member struct {
	MapPlayer
	ExternalPlayerID string `json:"externalPlayerId"`
	PlayerName       string `json:"playerName"`
}

// Archive is a player's save-game record within one map. Data is an opaque
// JSON blob; the core never interprets it.
type Archive struct {
	ID          string          `json:"id"`
	MapPlayerID string          `json:"mapPlayerId"`
	Name        string          `json:"name"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   int64           `json:"createdAt"`
	UpdatedAt   int64           `json:"updatedAt"`
}

// ArchiveDetail is an archive row with its owner and map resolved, enough
// for ownership checks without a second query.
type ArchiveDetail struct {
	Archive
	MapID            string `json:"mapId"`
	OwnerID          string `json:"ownerId"`
	ExternalPlayerID string `json:"externalPlayerId"`
	PlayerName       string `json:"playerName"`
}

// Summary is the admin overview of stored entities.
type Summary struct {
	Maps     int64 `json:"maps"`
	Players  int64 `json:"players"`
	Archives int64 `json:"archives"`
	Entries  int64 `json:"entries"`
}
