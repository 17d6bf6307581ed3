package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Client exposes the underlying client so the relay can share the connection.
func (s *Storage) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Apply TTL only for guest users
	var ttl time.Duration
	if user.IsGuest {
		ttl = s.cfg.GuestUserTTL
	}

	return s.client.Set(ctx, userKey(user.ID), data, ttl).Err()
}

func (s *Storage) GetUser(ctx context.Context, id model.PlayerID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	data, err := json.Marshal(ru)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredUserKey(ru.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(ru.Username), string(ru.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredUser(ctx context.Context, playerID model.PlayerID) (*model.RegisteredUser, error) {
	data, err := s.client.Get(ctx, registeredUserKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var ru model.RegisteredUser
	if err := json.Unmarshal(data, &ru); err != nil {
		return nil, err
	}
	return &ru, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetRegisteredUser(ctx, model.PlayerID(playerIDStr))
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	game.Version = 1
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	key := gameKey(game.ID)
	ok, err := s.client.SetNX(ctx, key, data, s.cfg.GameTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrConcurrentModification
	}

	return s.client.SAdd(ctx, openGamesKey(), string(game.ID)).Err()
}

// SaveGame writes the game under WATCH so a concurrent writer fails the
// transaction instead of silently losing the race.
func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	key := gameKey(game.ID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrGameNotFound
			}
			return err
		}

		var stored model.Game
		if err := json.Unmarshal(data, &stored); err != nil {
			return err
		}
		if stored.Version != game.Version {
			return model.ErrConcurrentModification
		}

		next := game.Clone()
		next.Version = game.Version + 1
		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.cfg.GameTTL)
			if next.Status == model.GameStatusFinished {
				pipe.SRem(ctx, openGamesKey(), string(next.ID))
			}
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrConcurrentModification
	}
	if err != nil {
		return err
	}

	game.Version++
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) ListOpenGameIDs(ctx context.Context) ([]model.GameID, error) {
	members, err := s.client.SMembers(ctx, openGamesKey()).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]model.GameID, 0, len(members))
	for _, m := range members {
		ids = append(ids, model.GameID(m))
	}
	return ids, nil
}

// Word history operations

func (s *Storage) AppendWordRecord(ctx context.Context, rec *model.WordRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	key := wordHistoryKey(rec.GameID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.cfg.HistoryTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetWordHistory(ctx context.Context, gameID model.GameID) ([]model.WordRecord, error) {
	entries, err := s.client.LRange(ctx, wordHistoryKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.WordRecord, 0, len(entries))
	for _, e := range entries {
		var rec model.WordRecord
		if err := json.Unmarshal([]byte(e), &rec); err != nil {
			continue // Skip invalid data
		}
		records = append(records, rec)
	}
	return records, nil
}

// Player statistics operations

func (s *Storage) GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	data, err := s.client.Get(ctx, statsKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var stats model.PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Storage) SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	// Keep the leaderboard ZSET in sync with the stats record
	pipe := s.client.Pipeline()
	pipe.Set(ctx, statsKey(stats.PlayerID), data, 0)
	pipe.ZAdd(ctx, leaderboardKey(), redis.Z{
		Score:  float64(stats.TotalScore),
		Member: string(stats.PlayerID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) TopPlayerStats(ctx context.Context, limit int) ([]model.PlayerStats, error) {
	if limit <= 0 {
		limit = 50
	}

	ids, err := s.client.ZRevRange(ctx, leaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	result := make([]model.PlayerStats, 0, len(ids))
	for _, id := range ids {
		stats, err := s.GetPlayerStats(ctx, model.PlayerID(id))
		if err != nil {
			continue // Stats record may have expired
		}
		result = append(result, *stats)
	}
	return result, nil
}
