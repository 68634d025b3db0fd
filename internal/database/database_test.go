package database_test

import (
	"testing"

	"github.com/mauv0809/super-palm-tree/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBAppliesMigrations(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	for _, table := range []string{"maps", "players", "map_players", "archives", "leaderboard_dimensions", "leaderboard_entries", "admin_users"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "expected table %s to exist", table)
	}
}

func TestInitDBEnablesForeignKeys(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	var enabled int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)

	// An orphan membership row must be rejected.
	_, err = db.Exec(`INSERT INTO map_players (id, map_id, player_id, created_at) VALUES ('x', 'missing-map', 'missing-player', 0)`)
	assert.Error(t, err)
}
