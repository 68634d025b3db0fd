package atlas

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/super-palm-tree/internal/apperr"
)

// New creates a new AtlasStore.
func New(db *sql.DB) AtlasStore {
	return &store{
		db: db,
	}
}

func now() int64 {
	return time.Now().UnixMilli()
}

func offsetFor(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// nullable maps an absent or empty optional string to NULL so that "missing"
// is stored uniformly.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return trimmed
}

func configText(config json.RawMessage) any {
	if len(config) == 0 {
		return nil
	}
	return string(config)
}

func (s *store) UpsertPlayer(externalID, name string) (*Player, error) {
	externalID = strings.TrimSpace(externalID)
	name = strings.TrimSpace(name)
	if externalID == "" {
		return nil, apperr.Invalid("playerId must not be empty")
	}
	if name == "" {
		return nil, apperr.Invalid("playerName must not be empty")
	}

	ts := now()
	_, err := s.db.Exec(`
		INSERT INTO players (id, player_id, player_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			player_name = excluded.player_name,
			updated_at = excluded.updated_at;
	`, uuid.New().String(), externalID, name, ts, ts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.GetPlayerByExternalID(externalID)
}

func (s *store) GetPlayer(id string) (*Player, error) {
	return s.playerBy("id", id)
}

func (s *store) GetPlayerByExternalID(externalID string) (*Player, error) {
	return s.playerBy("player_id", externalID)
}

func (s *store) playerBy(column, value string) (*Player, error) {
	p := &Player{}
	err := s.db.QueryRow(`SELECT id, player_id, player_name, created_at, updated_at FROM players WHERE `+column+` = ?`, value).
		Scan(&p.ID, &p.PlayerID, &p.PlayerName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("player")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func (s *store) CreateMap(name string, description *string, config json.RawMessage) (*Map, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("map name must not be empty")
	}

	id := uuid.New().String()
	ts := now()
	_, err := s.db.Exec(`INSERT INTO maps (id, name, description, config_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, nullable(description), configText(config), ts, ts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.GetMap(id)
}

func (s *store) GetMap(id string) (*Map, error) {
	m := &Map{}
	var description sql.NullString
	var config sql.NullString
	err := s.db.QueryRow(`SELECT id, name, description, config_json, created_at, updated_at FROM maps WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &description, &config, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("map")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if description.Valid {
		m.Description = &description.String
	}
	if config.Valid {
		m.Config = json.RawMessage(config.String)
	}
	return m, nil
}

func (s *store) ListMaps(page, limit int) ([]MapSummary, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM maps`).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(err)
	}

	rows, err := s.db.Query(`
		SELECT m.id, m.name, m.description, m.config_json, m.created_at, m.updated_at,
			(SELECT COUNT(*) FROM map_players mp WHERE mp.map_id = m.id),
			(SELECT COUNT(*) FROM leaderboard_dimensions d WHERE d.map_id = m.id)
		FROM maps m
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ? OFFSET ?
	`, limit, offsetFor(page, limit))
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	defer rows.Close()

	maps := []MapSummary{}
	for rows.Next() {
		var m MapSummary
		var description, config sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &description, &config, &m.CreatedAt, &m.UpdatedAt, &m.PlayerCount, &m.DimensionCount); err != nil {
			return nil, 0, apperr.Internal(err)
		}
		if description.Valid {
			m.Description = &description.String
		}
		if config.Valid {
			m.Config = json.RawMessage(config.String)
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return maps, total, nil
}

func (s *store) UpdateMap(id string, name, description *string, config json.RawMessage) (*Map, error) {
	existing, err := s.GetMap(id)
	if err != nil {
		return nil, err
	}

	nextName := existing.Name
	if name != nil {
		nextName = strings.TrimSpace(*name)
		if nextName == "" {
			return nil, apperr.Invalid("map name must not be empty")
		}
	}
	nextDescription := nullable(description)
	if description == nil && existing.Description != nil {
		nextDescription = *existing.Description
	}
	nextConfig := configText(config)
	if config == nil && existing.Config != nil {
		nextConfig = string(existing.Config)
	}

	_, err = s.db.Exec(`UPDATE maps SET name = ?, description = ?, config_json = ?, updated_at = ? WHERE id = ?`,
		nextName, nextDescription, nextConfig, now(), id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.GetMap(id)
}

func (s *store) DeleteMap(id string) error {
	// Members, archives, dimensions and entries go with the map via
	// ON DELETE CASCADE.
	res, err := s.db.Exec(`DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err)
	}
	if affected == 0 {
		return apperr.NotFound("map")
	}
	return nil
}

func (s *store) JoinMap(mapID, playerID string) (*MapPlayer, error) {
	if _, err := s.GetMap(mapID); err != nil {
		return nil, err
	}

	_, err := s.db.Exec(`
		INSERT INTO map_players (id, map_id, player_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(map_id, player_id) DO NOTHING;
	`, uuid.New().String(), mapID, playerID, now())
	if err != nil {
		return nil, apperr.Internal(err)
	}

	mp := &MapPlayer{}
	err = s.db.QueryRow(`SELECT id, map_id, player_id, created_at FROM map_players WHERE map_id = ? AND player_id = ?`, mapID, playerID).
		Scan(&mp.ID, &mp.MapID, &mp.PlayerID, &mp.CreatedAt)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return mp, nil
}

func (s *store) ListMembers(mapID string, page, limit int) ([]Member, int, error) {
	if _, err := s.GetMap(mapID); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM map_players WHERE map_id = ?`, mapID).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(err)
	}

	rows, err := s.db.Query(`
		SELECT mp.id, mp.map_id, mp.player_id, mp.created_at, p.player_id, p.player_name
		FROM map_players mp
		JOIN players p ON p.id = mp.player_id
		WHERE mp.map_id = ?
		ORDER BY mp.created_at ASC, mp.id ASC
		LIMIT ? OFFSET ?
	`, mapID, limit, offsetFor(page, limit))
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.MapID, &m.PlayerID, &m.CreatedAt, &m.ExternalPlayerID, &m.PlayerName); err != nil {
			return nil, 0, apperr.Internal(err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return members, total, nil
}

func (s *store) CreateArchive(mapID, playerID, name string, data json.RawMessage) (*Archive, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("archive name must not be empty")
	}

	mp, err := s.JoinMap(mapID, playerID)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	id := uuid.New().String()
	ts := now()
	_, err = s.db.Exec(`INSERT INTO archives (id, map_player_id, name, data_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, mp.ID, name, string(data), ts, ts)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	a := &Archive{ID: id, MapPlayerID: mp.ID, Name: name, Data: data, CreatedAt: ts, UpdatedAt: ts}
	return a, nil
}

// getArchiveDetail loads an archive with its owner resolved, without any
// ownership check.
func (s *store) getArchiveDetail(id string) (*ArchiveDetail, error) {
	d := &ArchiveDetail{}
	var data string
	err := s.db.QueryRow(`
		SELECT a.id, a.map_player_id, a.name, a.data_json, a.created_at, a.updated_at,
			mp.map_id, mp.player_id, p.player_id, p.player_name
		FROM archives a
		JOIN map_players mp ON mp.id = a.map_player_id
		JOIN players p ON p.id = mp.player_id
		WHERE a.id = ?
	`, id).Scan(&d.ID, &d.MapPlayerID, &d.Name, &data, &d.CreatedAt, &d.UpdatedAt,
		&d.MapID, &d.OwnerID, &d.ExternalPlayerID, &d.PlayerName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("archive")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	d.Data = json.RawMessage(data)
	return d, nil
}

func (s *store) GetArchive(id, callerPlayerID string) (*ArchiveDetail, error) {
	d, err := s.getArchiveDetail(id)
	if err != nil {
		return nil, err
	}
	if d.OwnerID != callerPlayerID {
		return nil, apperr.Forbidden("archive belongs to another player")
	}
	return d, nil
}

func (s *store) ListArchives(mapID, playerID string, page, limit int) ([]Archive, int, error) {
	var mapPlayerID string
	err := s.db.QueryRow(`SELECT id FROM map_players WHERE map_id = ? AND player_id = ?`, mapID, playerID).Scan(&mapPlayerID)
	if errors.Is(err, sql.ErrNoRows) {
		// Not a member yet: no archives, not an error.
		return []Archive{}, 0, nil
	}
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM archives WHERE map_player_id = ?`, mapPlayerID).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(err)
	}

	rows, err := s.db.Query(`
		SELECT id, map_player_id, name, data_json, created_at, updated_at
		FROM archives
		WHERE map_player_id = ?
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, mapPlayerID, limit, offsetFor(page, limit))
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	defer rows.Close()

	archives := []Archive{}
	for rows.Next() {
		var a Archive
		var data string
		if err := rows.Scan(&a.ID, &a.MapPlayerID, &a.Name, &data, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, apperr.Internal(err)
		}
		a.Data = json.RawMessage(data)
		archives = append(archives, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return archives, total, nil
}

func (s *store) UpdateArchive(id, callerPlayerID string, name *string, data json.RawMessage) (*Archive, error) {
	d, err := s.GetArchive(id, callerPlayerID)
	if err != nil {
		return nil, err
	}

	nextName := d.Name
	if name != nil {
		nextName = strings.TrimSpace(*name)
		if nextName == "" {
			return nil, apperr.Invalid("archive name must not be empty")
		}
	}
	nextData := d.Data
	if len(data) > 0 {
		nextData = data
	}

	ts := now()
	_, err = s.db.Exec(`UPDATE archives SET name = ?, data_json = ?, updated_at = ? WHERE id = ?`,
		nextName, string(nextData), ts, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Archive{ID: d.ID, MapPlayerID: d.MapPlayerID, Name: nextName, Data: nextData, CreatedAt: d.CreatedAt, UpdatedAt: ts}, nil
}

func (s *store) DeleteArchive(id, callerPlayerID string) error {
	if _, err := s.GetArchive(id, callerPlayerID); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM archives WHERE id = ?`, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *store) Summary() (*Summary, error) {
	sum := &Summary{}
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM maps),
			(SELECT COUNT(*) FROM players),
			(SELECT COUNT(*) FROM archives),
			(SELECT COUNT(*) FROM leaderboard_entries)
	`).Scan(&sum.Maps, &sum.Players, &sum.Archives, &sum.Entries)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return sum, nil
}
