package leaderboard

// LeaderboardStore defines the interface for dimensions, score submission
// and ranking.
type LeaderboardStore interface {
	// CreateDimension adds a leaderboard axis to a map. The sort order is
	// immutable once created.
	CreateDimension(mapID, name string, unit *string, sortOrder SortOrder) (*Dimension, error)
	GetDimension(id string) (*Dimension, error)
	ListDimensions(mapID string) ([]Dimension, error)
	DeleteDimension(id string) error

	// SubmitScores upserts one entry per score item for the archive, all
	// in one transaction. The whole batch is rejected when the archive is
	// missing (NotFound), owned by another player (Forbidden), or any item
	// names a dimension outside the archive's map or a non-finite value
	// (InvalidArgument). Submitting the same batch twice yields the same
	// entries.
	SubmitScores(archiveID, callerPlayerID string, scores []ScoreInput) ([]Entry, error)

	// Rank returns one ranked page of the dimension's board. In archive
	// mode every entry is a row; in player mode each player is reduced to
	// their best entry first. An out-of-range page yields empty rows, not
	// an error.
	Rank(mapID, dimensionID string, mode Mode, page, limit int) (*Board, error)

	// RankOf computes the player's dense rank inside the player-mode
	// ordering without materializing the board. A player with no entry
	// yields (nil, nil).
	RankOf(mapID, dimensionID, playerID string) (*PlayerRank, error)
}
