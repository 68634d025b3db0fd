package atlas

import "encoding/json"

// AtlasStore defines the interface for map, player, membership and archive
// data.
type AtlasStore interface {
	// UpsertPlayer creates the player on first contact or refreshes the
	// display name on later contact, keyed by the external player id.
	UpsertPlayer(externalID, name string) (*Player, error)
	GetPlayer(id string) (*Player, error)
	GetPlayerByExternalID(externalID string) (*Player, error)

	CreateMap(name string, description *string, config json.RawMessage) (*Map, error)
	GetMap(id string) (*Map, error)
	ListMaps(page, limit int) ([]MapSummary, int, error)
	UpdateMap(id string, name, description *string, config json.RawMessage) (*Map, error)
	DeleteMap(id string) error

	// JoinMap makes the player a member of the map. Joining twice is a
	// no-op returning the existing membership.
	JoinMap(mapID, playerID string) (*MapPlayer, error)
	ListMembers(mapID string, page, limit int) ([]Member, int, error)

	// CreateArchive joins the player to the map if needed, then creates
	// the archive.
	CreateArchive(mapID, playerID, name string, data json.RawMessage) (*Archive, error)
	// GetArchive returns the archive when callerPlayerID owns it.
	GetArchive(id, callerPlayerID string) (*ArchiveDetail, error)
	ListArchives(mapID, playerID string, page, limit int) ([]Archive, int, error)
	UpdateArchive(id, callerPlayerID string, name *string, data json.RawMessage) (*Archive, error)
	DeleteArchive(id, callerPlayerID string) error

	Summary() (*Summary, error)
}
