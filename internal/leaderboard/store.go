package leaderboard

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/super-palm-tree/internal/apperr"
)

// New creates a new LeaderboardStore.
func New(db *sql.DB) LeaderboardStore {
	return &store{
		db: db,
	}
}

func now() int64 {
	return time.Now().UnixMilli()
}

func (s *store) CreateDimension(mapID, name string, unit *string, sortOrder SortOrder) (*Dimension, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("dimension name must not be empty")
	}
	if _, ok := ParseSortOrder(string(sortOrder)); !ok {
		return nil, apperr.Invalidf("sortOrder must be %s or %s", SortAscending, SortDescending)
	}

	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM maps WHERE id = ?`, mapID).Scan(&exists)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if exists == 0 {
		return nil, apperr.NotFound("map")
	}

	var unitValue any
	if unit != nil {
		if trimmed := strings.TrimSpace(*unit); trimmed != "" {
			unitValue = trimmed
		}
	}

	id := uuid.New().String()
	_, err = s.db.Exec(`INSERT INTO leaderboard_dimensions (id, map_id, name, unit, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, mapID, name, unitValue, string(sortOrder), now())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, apperr.Invalidf("dimension %q already exists in this map", name)
		}
		return nil, apperr.Internal(err)
	}
	return s.GetDimension(id)
}

func (s *store) GetDimension(id string) (*Dimension, error) {
	d := &Dimension{}
	var unit sql.NullString
	err := s.db.QueryRow(`SELECT id, map_id, name, unit, sort_order, created_at FROM leaderboard_dimensions WHERE id = ?`, id).
		Scan(&d.ID, &d.MapID, &d.Name, &unit, &d.SortOrder, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("leaderboard dimension")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if unit.Valid {
		d.Unit = &unit.String
	}
	return d, nil
}

func (s *store) ListDimensions(mapID string) ([]Dimension, error) {
	rows, err := s.db.Query(`SELECT id, map_id, name, unit, sort_order, created_at FROM leaderboard_dimensions WHERE map_id = ? ORDER BY created_at ASC, id ASC`, mapID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	dimensions := []Dimension{}
	for rows.Next() {
		var d Dimension
		var unit sql.NullString
		if err := rows.Scan(&d.ID, &d.MapID, &d.Name, &unit, &d.SortOrder, &d.CreatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		if unit.Valid {
			d.Unit = &unit.String
		}
		dimensions = append(dimensions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return dimensions, nil
}

func (s *store) DeleteDimension(id string) error {
	res, err := s.db.Exec(`DELETE FROM leaderboard_dimensions WHERE id = ?`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err)
	}
	if affected == 0 {
		return apperr.NotFound("leaderboard dimension")
	}
	return nil
}

func (s *store) SubmitScores(archiveID, callerPlayerID string, scores []ScoreInput) ([]Entry, error) {
	if len(scores) == 0 {
		return nil, apperr.Invalid("scores must not be empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer tx.Rollback()

	// Preconditions in order: archive exists, caller owns it, every
	// dimension belongs to the archive's map, every value is finite.
	// Any failure rejects the whole batch.
	var ownerID, mapID string
	err = tx.QueryRow(`
		SELECT mp.player_id, mp.map_id
		FROM archives a
		JOIN map_players mp ON mp.id = a.map_player_id
		WHERE a.id = ?
	`, archiveID).Scan(&ownerID, &mapID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("archive")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if ownerID != callerPlayerID {
		return nil, apperr.Forbidden("archive belongs to another player")
	}

	dimRows, err := tx.Query(`SELECT id FROM leaderboard_dimensions WHERE map_id = ?`, mapID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	mapDimensions := map[string]bool{}
	for dimRows.Next() {
		var id string
		if err := dimRows.Scan(&id); err != nil {
			dimRows.Close()
			return nil, apperr.Internal(err)
		}
		mapDimensions[id] = true
	}
	if err := dimRows.Err(); err != nil {
		dimRows.Close()
		return nil, apperr.Internal(err)
	}
	dimRows.Close()

	for _, score := range scores {
		if score.DimensionID == "" {
			return nil, apperr.Invalid("dimensionId must not be empty")
		}
		if !mapDimensions[score.DimensionID] {
			return nil, apperr.Invalidf("dimension %s does not belong to this map", score.DimensionID)
		}
		if math.IsNaN(score.Value) || math.IsInf(score.Value, 0) {
			return nil, apperr.Invalidf("value for dimension %s must be a finite number", score.DimensionID)
		}
	}

	ts := now()
	entries := make([]Entry, 0, len(scores))
	for _, score := range scores {
		var metadata any
		if len(score.Metadata) > 0 {
			metadata = string(score.Metadata)
		}
		_, err := tx.Exec(`
			INSERT INTO leaderboard_entries (id, dimension_id, archive_id, value, metadata_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(dimension_id, archive_id) DO UPDATE SET
				value = excluded.value,
				metadata_json = excluded.metadata_json,
				updated_at = excluded.updated_at;
		`, uuid.New().String(), score.DimensionID, archiveID, score.Value, metadata, ts, ts)
		if err != nil {
			return nil, apperr.Internal(err)
		}

		entry, err := scanEntry(tx.QueryRow(`
			SELECT id, dimension_id, archive_id, value, metadata_json, created_at, updated_at
			FROM leaderboard_entries
			WHERE dimension_id = ? AND archive_id = ?
		`, score.DimensionID, archiveID))
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

func scanEntry(scanner interface{ Scan(...any) error }) (*Entry, error) {
	var e Entry
	var metadata sql.NullString
	err := scanner.Scan(&e.ID, &e.DimensionID, &e.ArchiveID, &e.Value, &metadata, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if metadata.Valid {
		e.Metadata = []byte(metadata.String)
	}
	return &e, nil
}

// dimensionForMap loads a dimension and checks it belongs to the stated map.
func (s *store) dimensionForMap(mapID, dimensionID string) (*Dimension, error) {
	dim, err := s.GetDimension(dimensionID)
	if err != nil {
		return nil, err
	}
	if dim.MapID != mapID {
		return nil, apperr.NotFound("leaderboard dimension")
	}
	return dim, nil
}

func (s *store) Rank(mapID, dimensionID string, mode Mode, page, limit int) (*Board, error) {
	dim, err := s.dimensionForMap(mapID, dimensionID)
	if err != nil {
		return nil, err
	}
	if _, ok := ParseMode(string(mode)); !ok {
		return nil, apperr.Invalid("mode must be player or archive")
	}

	// The sort direction is a validated enum, never caller input, so it is
	// safe to splice into the query text.
	dir := string(dim.SortOrder)
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	switch mode {
	case ModeArchive:
		return s.rankArchives(dim, dir, page, limit, offset)
	default:
		return s.rankPlayers(dim, dir, page, limit, offset)
	}
}

// rankArchives pages over raw entries. Rank is positional: ties get distinct
// consecutive ranks, further ordered by recency then entry id for
// determinism.
func (s *store) rankArchives(dim *Dimension, dir string, page, limit, offset int) (*Board, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM leaderboard_entries WHERE dimension_id = ?`, dim.ID).Scan(&total); err != nil {
		return nil, apperr.Internal(err)
	}

	query := fmt.Sprintf(`
		SELECT p.player_id, p.player_name, a.id, a.name, le.value, le.updated_at
		FROM leaderboard_entries le
		JOIN archives a ON a.id = le.archive_id
		JOIN map_players mp ON mp.id = a.map_player_id
		JOIN players p ON p.id = mp.player_id
		WHERE le.dimension_id = ?
		ORDER BY le.value %s, le.updated_at DESC, le.id DESC
		LIMIT ? OFFSET ?
	`, dir)
	rows, err := s.db.Query(query, dim.ID, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	ranked, err := collectRows(rows, offset)
	if err != nil {
		return nil, err
	}
	return &Board{Dimension: *dim, Mode: ModeArchive, Rows: ranked, Pagination: NewPage(page, limit, total)}, nil
}

// rankPlayers reduces each player to their single best entry, then pages
// over the reduced set. The reduction comparator (value by sort order, then
// recency, then entry id) picks a deterministic winner even when a player's
// archives tie exactly.
func (s *store) rankPlayers(dim *Dimension, dir string, page, limit, offset int) (*Board, error) {
	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(DISTINCT mp.player_id)
		FROM leaderboard_entries le
		JOIN archives a ON a.id = le.archive_id
		JOIN map_players mp ON mp.id = a.map_player_id
		WHERE le.dimension_id = ? AND mp.map_id = ?
	`, dim.ID, dim.MapID).Scan(&total)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	query := fmt.Sprintf(`
		WITH ranked AS (
			SELECT
				p.player_id AS player_id,
				p.player_name AS player_name,
				a.id AS archive_id,
				a.name AS archive_name,
				le.value AS value,
				le.updated_at AS updated_at,
				ROW_NUMBER() OVER (
					PARTITION BY p.id
					ORDER BY le.value %[1]s, le.updated_at DESC, le.id DESC
				) AS rn
			FROM leaderboard_entries le
			JOIN archives a ON a.id = le.archive_id
			JOIN map_players mp ON mp.id = a.map_player_id
			JOIN players p ON p.id = mp.player_id
			WHERE le.dimension_id = ? AND mp.map_id = ?
		)
		SELECT player_id, player_name, archive_id, archive_name, value, updated_at
		FROM ranked
		WHERE rn = 1
		ORDER BY value %[1]s, updated_at DESC, player_id ASC
		LIMIT ? OFFSET ?
	`, dir)
	rows, err := s.db.Query(query, dim.ID, dim.MapID, limit, offset)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	ranked, err := collectRows(rows, offset)
	if err != nil {
		return nil, err
	}
	return &Board{Dimension: *dim, Mode: ModePlayer, Rows: ranked, Pagination: NewPage(page, limit, total)}, nil
}

func collectRows(rows *sql.Rows, offset int) ([]RankedRow, error) {
	ranked := []RankedRow{}
	for rows.Next() {
		var r RankedRow
		if err := rows.Scan(&r.PlayerID, &r.PlayerName, &r.ArchiveID, &r.ArchiveName, &r.Value, &r.UpdatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		r.Rank = int64(offset + len(ranked) + 1)
		ranked = append(ranked, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return ranked, nil
}

func (s *store) RankOf(mapID, dimensionID, playerID string) (*PlayerRank, error) {
	dim, err := s.dimensionForMap(mapID, dimensionID)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		WITH best AS (
			SELECT
				p.id AS player_db_id,
				p.player_id AS player_id,
				p.player_name AS player_name,
				a.id AS archive_id,
				a.name AS archive_name,
				le.value AS value,
				le.updated_at AS updated_at,
				ROW_NUMBER() OVER (
					PARTITION BY p.id
					ORDER BY le.value %[1]s, le.updated_at DESC, le.id DESC
				) AS rn
			FROM leaderboard_entries le
			JOIN archives a ON a.id = le.archive_id
			JOIN map_players mp ON mp.id = a.map_player_id
			JOIN players p ON p.id = mp.player_id
			WHERE le.dimension_id = ? AND mp.map_id = ?
		),
		best_only AS (
			SELECT * FROM best WHERE rn = 1
		),
		ranked AS (
			SELECT
				DENSE_RANK() OVER (ORDER BY value %[1]s, updated_at DESC, player_id ASC) AS rank,
				player_db_id, player_id, player_name, archive_id, archive_name, value, updated_at
			FROM best_only
		)
		SELECT rank, player_id, player_name, archive_id, archive_name, value, updated_at
		FROM ranked
		WHERE player_db_id = ?
		LIMIT 1
	`, string(dim.SortOrder))

	var r RankedRow
	err = s.db.QueryRow(query, dim.ID, dim.MapID, playerID).
		Scan(&r.Rank, &r.PlayerID, &r.PlayerName, &r.ArchiveID, &r.ArchiveName, &r.Value, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// No entry in this dimension is "none", not an error.
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &PlayerRank{Rank: r.Rank, Entry: r}, nil
}
