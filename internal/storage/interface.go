package storage

import (
	"context"

	"github.com/tuannh/noichu/internal/model"
)

// Storage defines the interface for data persistence.
//
// Game writes are optimistic: SaveGame succeeds only when the stored
// record's version matches the version the caller read, and returns
// model.ErrConcurrentModification otherwise. Backends hand out clones so
// a held *Game never aliases persisted state.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.PlayerID) (*model.User, error)

	// Registered user operations
	SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error
	GetRegisteredUser(ctx context.Context, playerID model.PlayerID) (*model.RegisteredUser, error)
	GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error)

	// Game operations
	CreateGame(ctx context.Context, game *model.Game) error
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	// ListOpenGameIDs returns ids of games that are not finished, for the
	// turn reaper and lobby listings.
	ListOpenGameIDs(ctx context.Context) ([]model.GameID, error)

	// Word history audit log (append-only)
	AppendWordRecord(ctx context.Context, rec *model.WordRecord) error
	GetWordHistory(ctx context.Context, gameID model.GameID) ([]model.WordRecord, error)

	// Cross-game player statistics
	GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error)
	SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error
	TopPlayerStats(ctx context.Context, limit int) ([]model.PlayerStats, error)
}
