package leaderboard_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/mauv0809/super-palm-tree/internal/apperr"
	"github.com/mauv0809/super-palm-tree/internal/atlas"
	"github.com/mauv0809/super-palm-tree/internal/database"
	"github.com/mauv0809/super-palm-tree/internal/leaderboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wires a map with one descending "score" dimension and two players
// with one archive each, which most ranking tests start from.
type fixture struct {
	db     *sql.DB
	atlas  atlas.AtlasStore
	boards leaderboard.LeaderboardStore

	mapID    string
	scoreDim *leaderboard.Dimension

	playerA  *atlas.Player
	archiveA *atlas.Archive
	playerB  *atlas.Player
	archiveB *atlas.Archive
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "Failed to initialize in-memory database")
	t.Cleanup(teardown)

	f := &fixture{db: db, atlas: atlas.New(db), boards: leaderboard.New(db)}

	m, err := f.atlas.CreateMap("arena", nil, nil)
	require.NoError(t, err)
	f.mapID = m.ID

	f.scoreDim, err = f.boards.CreateDimension(m.ID, "score", nil, leaderboard.SortDescending)
	require.NoError(t, err)

	f.playerA, err = f.atlas.UpsertPlayer("ext-a", "Alice")
	require.NoError(t, err)
	f.archiveA, err = f.atlas.CreateArchive(m.ID, f.playerA.ID, "a1", nil)
	require.NoError(t, err)

	f.playerB, err = f.atlas.UpsertPlayer("ext-b", "Bob")
	require.NoError(t, err)
	f.archiveB, err = f.atlas.CreateArchive(m.ID, f.playerB.ID, "b1", nil)
	require.NoError(t, err)

	return f
}

func (f *fixture) submit(t *testing.T, archiveID, playerID, dimensionID string, value float64) {
	t.Helper()
	_, err := f.boards.SubmitScores(archiveID, playerID, []leaderboard.ScoreInput{
		{DimensionID: dimensionID, Value: value},
	})
	require.NoError(t, err)
}

func (f *fixture) entryCount(t *testing.T) int {
	t.Helper()
	var count int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM leaderboard_entries`).Scan(&count))
	return count
}

func strPtr(s string) *string { return &s }

func TestCreateDimension(t *testing.T) {
	f := setupFixture(t)

	t.Run("with unit", func(t *testing.T) {
		dim, err := f.boards.CreateDimension(f.mapID, "best-time", strPtr("seconds"), leaderboard.SortAscending)
		require.NoError(t, err)
		assert.Equal(t, leaderboard.SortAscending, dim.SortOrder)
		require.NotNil(t, dim.Unit)
		assert.Equal(t, "seconds", *dim.Unit)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := f.boards.CreateDimension(f.mapID, "  ", nil, leaderboard.SortDescending)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})

	t.Run("bad sort order", func(t *testing.T) {
		_, err := f.boards.CreateDimension(f.mapID, "kills", nil, leaderboard.SortOrder("sideways"))
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})

	t.Run("missing map", func(t *testing.T) {
		_, err := f.boards.CreateDimension("no-such-map", "kills", nil, leaderboard.SortDescending)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("duplicate name in map", func(t *testing.T) {
		_, err := f.boards.CreateDimension(f.mapID, "score", nil, leaderboard.SortAscending)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})

	t.Run("same name in another map", func(t *testing.T) {
		other, err := f.atlas.CreateMap("other", nil, nil)
		require.NoError(t, err)
		_, err = f.boards.CreateDimension(other.ID, "score", nil, leaderboard.SortAscending)
		assert.NoError(t, err)
	})
}

func TestListDimensions(t *testing.T) {
	f := setupFixture(t)

	_, err := f.boards.CreateDimension(f.mapID, "best-time", strPtr("seconds"), leaderboard.SortAscending)
	require.NoError(t, err)

	dims, err := f.boards.ListDimensions(f.mapID)
	require.NoError(t, err)
	assert.Len(t, dims, 2)

	dims, err = f.boards.ListDimensions("no-such-map")
	require.NoError(t, err)
	assert.Empty(t, dims)
}

func TestDeleteDimension(t *testing.T) {
	f := setupFixture(t)
	f.submit(t, f.archiveA.ID, f.playerA.ID, f.scoreDim.ID, 100)

	require.NoError(t, f.boards.DeleteDimension(f.scoreDim.ID))
	assert.Equal(t, 0, f.entryCount(t), "entries must be removed with their dimension")

	err := f.boards.DeleteDimension(f.scoreDim.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSubmitScores(t *testing.T) {
	f := setupFixture(t)

	t.Run("creates entries", func(t *testing.T) {
		entries, err := f.boards.SubmitScores(f.archiveA.ID, f.playerA.ID, []leaderboard.ScoreInput{
			{DimensionID: f.scoreDim.ID, Value: 1500, Metadata: json.RawMessage(`{"combo":12}`)},
		})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 1500.0, entries[0].Value)
		assert.JSONEq(t, `{"combo":12}`, string(entries[0].Metadata))
	})

	t.Run("resubmission overwrites in place", func(t *testing.T) {
		first, err := f.boards.SubmitScores(f.archiveA.ID, f.playerA.ID, []leaderboard.ScoreInput{
			{DimensionID: f.scoreDim.ID, Value: 2000},
		})
		require.NoError(t, err)

		second, err := f.boards.SubmitScores(f.archiveA.ID, f.playerA.ID, []leaderboard.ScoreInput{
			{DimensionID: f.scoreDim.ID, Value: 2000},
		})
		require.NoError(t, err)

		assert.Equal(t, first[0].ID, second[0].ID, "one entry per (dimension, archive)")
		assert.Equal(t, 1, f.entryCount(t))
	})

	t.Run("missing archive", func(t *testing.T) {
		_, err := f.boards.SubmitScores("no-such-archive", f.playerA.ID, []leaderboard.ScoreInput{
			{DimensionID: f.scoreDim.ID, Value: 1},
		})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("someone else's archive", func(t *testing.T) {
		_, err := f.boards.SubmitScores(f.archiveA.ID, f.playerB.ID, []leaderboard.ScoreInput{
			{DimensionID: f.scoreDim.ID, Value: 1},
		})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := f.boards.SubmitScores(f.archiveA.ID, f.playerA.ID, nil)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})

	t.Run("non-finite value", func(t *testing.T) {
		_, err := f.boards.SubmitScores(f.archiveA.ID, f.playerA.ID, []leaderboard.ScoreInput{
			{DimensionID: f.scoreDim.ID, Value: math.NaN()},
		})
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
	})
}

func TestSubmitScoresBatchIsAtomic(t *testing.T) {
	f := setupFixture(t)
	f.submit(t, f.archiveA.ID, f.playerA.ID, f.scoreDim.ID, 500)

	// A dimension from another map poisons the whole batch; the valid item
	// alongside it must not be applied either.
	other, err := f.atlas.CreateMap("other", nil, nil)
	require.NoError(t, err)
	foreignDim, err := f.boards.CreateDimension(other.ID, "score", nil, leaderboard.SortDescending)
	require.NoError(t, err)

	_, err = f.boards.SubmitScores(f.archiveA.ID, f.playerA.ID, []leaderboard.ScoreInput{
		{DimensionID: f.scoreDim.ID, Value: 9999},
		{DimensionID: foreignDim.ID, Value: 1},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

	board, err := f.boards.Rank(f.mapID, f.scoreDim.ID, leaderboard.ModePlayer, 1, 20)
	require.NoError(t, err)
	require.Len(t, board.Rows, 1)
	assert.Equal(t, 500.0, board.Rows[0].Value, "a rejected batch must leave existing entries unchanged")
}

func TestRankPlayerModePicksBestPerPlayer(t *testing.T) {
	f := setupFixture(t)

	// Bob plays two archives; only his best one may appear on the board.
	archiveB2, err := f.atlas.CreateArchive(f.mapID, f.playerB.ID, "b2", nil)
	require.NoError(t, err)

	f.submit(t, f.archiveA.ID, f.playerA.ID, f.scoreDim.ID, 1500)
	f.submit(t, f.archiveB.ID, f.playerB.ID, f.scoreDim.ID, 3200)
	f.submit(t, archiveB2.ID, f.playerB.ID, f.scoreDim.ID, 100)

	board, err := f.boards.Rank(f.mapID, f.scoreDim.ID, leaderboard.ModePlayer, 1, 20)
	require.NoError(t, err)

	require.Len(t, board.Rows, 2)
	assert.Equal(t, 2, board.Pagination.Total)

	assert.Equal(t, int64(1), board.Rows[0].Rank)
	assert.Equal(t, "ext-b", board.Rows[0].PlayerID)
	assert.Equal(t, "b1", board.Rows[0].ArchiveName)
	assert.Equal(t, 3200.0, board.Rows[0].Value)

	assert.Equal(t, int64(2), board.Rows[1].Rank)
	assert.Equal(t, "ext-a", board.Rows[1].PlayerID)
	assert.Equal(t, 1500.0, board.Rows[1].Value)
}

func TestRankArchiveModeShowsEveryEntry(t *testing.T) {
	f := setupFixture(t)

	archiveB2, err := f.atlas.CreateArchive(f.mapID, f.playerB.ID, "b2", nil)
	require.NoError(t, err)

	f.submit(t, f.archiveA.ID, f.playerA.ID, f.scoreDim.ID, 1500)
	f.submit(t, f.archiveB.ID, f.playerB.ID, f.scoreDim.ID, 3200)
	f.submit(t, archiveB2.ID, f.playerB.ID, f.scoreDim.ID, 100)

	board, err := f.boards.Rank(f.mapID, f.scoreDim.ID, leaderboard.ModeArchive, 1, 20)
	require.NoError(t, err)

	require.Len(t, board.Rows, 3)
	assert.Equal(t, 3, board.Pagination.Total)
	assert.Equal(t, []float64{3200, 1500, 100}, []float64{board.Rows[0].Value, board.Rows[1].Value, board.Rows[2].Value})
	assert.Equal(t, int64(3), board.Rows[2].Rank)
}

func TestRankAscendingDimension(t *testing.T) {
	f := setupFixture(t)

	timeDim, err := f.boards.CreateDimension(f.mapID, "best-time", strPtr("seconds"), leaderboard.SortAscending)
	require.NoError(t, err)

	f.submit(t, f.archiveA.ID, f.playerA.ID, timeDim.ID, 92.5)
	f.submit(t, f.archiveB.ID, f.playerB.ID, timeDim.ID, 61.0)

	board, err := f.boards.Rank(f.mapID, timeDim.ID, leaderboard.ModePlayer, 1, 20)
	require.NoError(t, err)

	require.Len(t, board.Rows, 2)
	assert.Equal(t, "ext-b", board.Rows[0].PlayerID, "lower is better on an ascending dimension")
	assert.Equal(t, 61.0, board.Rows[0].Value)
}

func TestRankPagination(t *testing.T) {
	f := setupFixture(t)

	for i := 0; i < 5; i++ {
		player, err := f.atlas.UpsertPlayer(fmt.Sprintf("ext-extra-%d", i), "Player")
		require.NoError(t, err)
		archive, err := f.atlas.CreateArchive(f.mapID, player.ID, "slot", nil)
		require.NoError(t, err)
		f.submit(t, archive.ID, player.ID, f.scoreDim.ID, float64(100*(i+1)))
	}

	page1, err := f.boards.Rank(f.mapID, f.scoreDim.ID, leaderboard.ModePlayer, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page1.Rows, 2)
	assert.Equal(t, 5, page1.Pagination.Total)
	assert.Equal(t, 3, page1.Pagination.TotalPages)
	assert.Equal(t, int64(1), page1.Rows[0].Rank)

	page2, err := f.boards.Rank(f.mapID, f.scoreDim.ID, leaderboard.ModePlayer, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2.Rows, 2)
	assert.Equal(t, int64(3), page2.Rows[0].Rank, "ranks continue across pages")

	// Beyond the last page is empty rows, not an error.
	page9, err := f.boards.Rank(f.mapID, f.scoreDim.ID, leaderboard.ModePlayer, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page9.Rows)
	assert.Equal(t, 5, page9.Pagination.Total)
}

func TestRankEmptyBoard(t *testing.T) {
	f := setupFixture(t)

	board, err := f.boards.Rank(f.mapID, f.scoreDim.ID, leaderboard.ModePlayer, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, board.Rows)
	assert.Equal(t, 0, board.Pagination.Total)
	assert.Equal(t, 1, board.Pagination.TotalPages, "an empty board still has one page")
}

func TestRankDimensionFromAnotherMap(t *testing.T) {
	f := setupFixture(t)

	other, err := f.atlas.CreateMap("other", nil, nil)
	require.NoError(t, err)

	_, err = f.boards.Rank(other.ID, f.scoreDim.ID, leaderboard.ModePlayer, 1, 20)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRankRejectsUnknownMode(t *testing.T) {
	f := setupFixture(t)

	_, err := f.boards.Rank(f.mapID, f.scoreDim.ID, leaderboard.Mode("teams"), 1, 20)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))
}

func TestRankOf(t *testing.T) {
	f := setupFixture(t)

	archiveB2, err := f.atlas.CreateArchive(f.mapID, f.playerB.ID, "b2", nil)
	require.NoError(t, err)

	f.submit(t, f.archiveA.ID, f.playerA.ID, f.scoreDim.ID, 1500)
	f.submit(t, f.archiveB.ID, f.playerB.ID, f.scoreDim.ID, 3200)
	f.submit(t, archiveB2.ID, f.playerB.ID, f.scoreDim.ID, 100)

	t.Run("best archive decides the rank", func(t *testing.T) {
		rank, err := f.boards.RankOf(f.mapID, f.scoreDim.ID, f.playerB.ID)
		require.NoError(t, err)
		require.NotNil(t, rank)
		assert.Equal(t, int64(1), rank.Rank)
		assert.Equal(t, "b1", rank.Entry.ArchiveName)
		assert.Equal(t, 3200.0, rank.Entry.Value)
	})

	t.Run("second place", func(t *testing.T) {
		rank, err := f.boards.RankOf(f.mapID, f.scoreDim.ID, f.playerA.ID)
		require.NoError(t, err)
		require.NotNil(t, rank)
		assert.Equal(t, int64(2), rank.Rank)
	})

	t.Run("player with no entry", func(t *testing.T) {
		outsider, err := f.atlas.UpsertPlayer("ext-outside", "Outsider")
		require.NoError(t, err)

		rank, err := f.boards.RankOf(f.mapID, f.scoreDim.ID, outsider.ID)
		require.NoError(t, err)
		assert.Nil(t, rank)
	})
}

func TestDeleteArchiveRemovesItsEntries(t *testing.T) {
	f := setupFixture(t)

	f.submit(t, f.archiveA.ID, f.playerA.ID, f.scoreDim.ID, 1500)
	f.submit(t, f.archiveB.ID, f.playerB.ID, f.scoreDim.ID, 3200)

	require.NoError(t, f.atlas.DeleteArchive(f.archiveB.ID, f.playerB.ID))

	board, err := f.boards.Rank(f.mapID, f.scoreDim.ID, leaderboard.ModePlayer, 1, 20)
	require.NoError(t, err)
	require.Len(t, board.Rows, 1)
	assert.Equal(t, "ext-a", board.Rows[0].PlayerID)
}
