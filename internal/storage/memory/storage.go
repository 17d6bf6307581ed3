package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users           map[model.PlayerID]*model.User
	registeredUsers map[model.PlayerID]*model.RegisteredUser
	usernameIndex   map[string]model.PlayerID
	games           map[model.GameID]*model.Game
	wordHistory     map[model.GameID][]model.WordRecord
	stats           map[model.PlayerID]*model.PlayerStats
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:           make(map[model.PlayerID]*model.User),
		registeredUsers: make(map[model.PlayerID]*model.RegisteredUser),
		usernameIndex:   make(map[string]model.PlayerID),
		games:           make(map[model.GameID]*model.Game),
		wordHistory:     make(map[model.GameID][]model.WordRecord),
		stats:           make(map[model.PlayerID]*model.PlayerStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.PlayerID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// Registered user operations

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *ru
	s.registeredUsers[ru.PlayerID] = &r
	s.usernameIndex[ru.Username] = ru.PlayerID
	return nil
}

func (s *Storage) GetRegisteredUser(ctx context.Context, playerID model.PlayerID) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ru, ok := s.registeredUsers[playerID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	r := *ru
	return &r, nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	ru, ok := s.registeredUsers[playerID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	r := *ru
	return &r, nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[game.ID]; exists {
		return model.ErrConcurrentModification
	}
	game.Version = 1
	s.games[game.ID] = game.Clone()
	return nil
}

// SaveGame persists the game only if no other writer has saved since the
// caller read it, then bumps the version on both sides.
func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.games[game.ID]
	if !ok {
		return model.ErrGameNotFound
	}
	if stored.Version != game.Version {
		return model.ErrConcurrentModification
	}
	game.Version++
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) ListOpenGameIDs(ctx context.Context) ([]model.GameID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []model.GameID
	for id, g := range s.games {
		if g.Status != model.GameStatusFinished {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Word history operations

func (s *Storage) AppendWordRecord(ctx context.Context, rec *model.WordRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wordHistory[rec.GameID] = append(s.wordHistory[rec.GameID], *rec)
	return nil
}

func (s *Storage) GetWordHistory(ctx context.Context, gameID model.GameID) ([]model.WordRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.wordHistory[gameID]
	result := make([]model.WordRecord, len(history))
	copy(result, history)
	return result, nil
}

// Player statistics operations

func (s *Storage) GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *Storage) SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *stats
	s.stats[stats.PlayerID] = &cp
	return nil
}

func (s *Storage) TopPlayerStats(ctx context.Context, limit int) ([]model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]model.PlayerStats, 0, len(s.stats))
	for _, st := range s.stats {
		all = append(all, *st)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].TotalScore != all[j].TotalScore {
			return all[i].TotalScore > all[j].TotalScore
		}
		return all[i].PlayerID < all[j].PlayerID
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
