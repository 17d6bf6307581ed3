package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/tuannh/noichu/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestUserTTL = time.Hour
	cfg.GameTTL = time.Hour
	cfg.HistoryTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newGame(id model.GameID) *model.Game {
	return &model.Game{
		ID:     id,
		Status: model.GameStatusWaiting,
		HostID: "host-1",
		Players: []model.Player{
			{ID: "host-1", Name: "Anh", IsActive: true},
		},
		Settings:  model.DefaultGameSettings(),
		CreatedAt: time.Now().UTC(),
	}
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:        "player-1",
		Name:      "Anh",
		IsGuest:   false,
		CreatedAt: time.Now().UTC(),
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)
	s.Equal(user.Name, retrieved.Name)
}

func (s *StorageSuite) TestGuestUserExpires() {
	user := &model.User{ID: "guest-1", Name: "Ba", IsGuest: true}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetUser(s.ctx, "guest-1")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Registered user tests

func (s *StorageSuite) TestSaveAndGetRegisteredUser() {
	ru := &model.RegisteredUser{
		PlayerID:     "player-1",
		Username:     "anh",
		PasswordHash: "hash123",
		CreatedAt:    time.Now().UTC(),
	}

	err := s.storage.SaveRegisteredUser(s.ctx, ru)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRegisteredUser(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(ru.Username, retrieved.Username)

	byUsername, err := s.storage.GetRegisteredUserByUsername(s.ctx, "anh")
	s.Require().NoError(err)
	s.Equal("player-1", string(byUsername.PlayerID))
}

func (s *StorageSuite) TestGetRegisteredUserByUsernameNotFound() {
	_, err := s.storage.GetRegisteredUserByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Game tests

func (s *StorageSuite) TestCreateAndGetGame() {
	game := s.newGame("GAME1")

	err := s.storage.CreateGame(s.ctx, game)
	s.Require().NoError(err)
	s.Equal(int64(1), game.Version)

	retrieved, err := s.storage.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(int64(1), retrieved.Version)
}

func (s *StorageSuite) TestCreateGameDuplicateID() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("GAME1")))

	err := s.storage.CreateGame(s.ctx, s.newGame("GAME1"))
	s.ErrorIs(err, model.ErrConcurrentModification)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveGameBumpsVersion() {
	game := s.newGame("GAME1")
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	game.Status = model.GameStatusPlaying
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	s.Equal(int64(2), game.Version)

	retrieved, err := s.storage.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(model.GameStatusPlaying, retrieved.Status)
	s.Equal(int64(2), retrieved.Version)
}

func (s *StorageSuite) TestSaveGameNotFound() {
	err := s.storage.SaveGame(s.ctx, s.newGame("nonexistent"))
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveGameConcurrentModification() {
	game := s.newGame("GAME1")
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	first, err := s.storage.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	second, err := s.storage.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)

	first.Status = model.GameStatusPlaying
	s.Require().NoError(s.storage.SaveGame(s.ctx, first))

	second.Status = model.GameStatusFinished
	err = s.storage.SaveGame(s.ctx, second)
	s.ErrorIs(err, model.ErrConcurrentModification)
}

func (s *StorageSuite) TestListOpenGameIDsExcludesFinished() {
	open := s.newGame("OPEN1")
	s.Require().NoError(s.storage.CreateGame(s.ctx, open))

	done := s.newGame("DONE1")
	s.Require().NoError(s.storage.CreateGame(s.ctx, done))
	done.Status = model.GameStatusFinished
	s.Require().NoError(s.storage.SaveGame(s.ctx, done))

	ids, err := s.storage.ListOpenGameIDs(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.GameID{"OPEN1"}, ids)
}

// Word history tests

func (s *StorageSuite) TestAppendAndGetWordHistory() {
	rec1 := &model.WordRecord{ID: "r1", GameID: "GAME1", PlayerID: "p1", Word: "hoa", Score: 30}
	rec2 := &model.WordRecord{ID: "r2", GameID: "GAME1", PlayerID: "p2", Word: "anh", Score: 30}

	s.Require().NoError(s.storage.AppendWordRecord(s.ctx, rec1))
	s.Require().NoError(s.storage.AppendWordRecord(s.ctx, rec2))

	history, err := s.storage.GetWordHistory(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal("hoa", history[0].Word)
	s.Equal("anh", history[1].Word)
}

func (s *StorageSuite) TestGetWordHistoryEmpty() {
	history, err := s.storage.GetWordHistory(s.ctx, "nonexistent")
	s.Require().NoError(err)
	s.Empty(history)
}

// Player stats tests

func (s *StorageSuite) TestSaveAndGetPlayerStats() {
	stats := &model.PlayerStats{
		PlayerID:   "player-1",
		Name:       "Anh",
		TotalGames: 2,
		Wins:       1,
		TotalScore: 250,
	}

	err := s.storage.SavePlayerStats(s.ctx, stats)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayerStats(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(2, retrieved.TotalGames)
	s.Equal(250, retrieved.TotalScore)
}

func (s *StorageSuite) TestGetPlayerStatsNotFound() {
	_, err := s.storage.GetPlayerStats(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestTopPlayerStatsOrdersByScore() {
	_ = s.storage.SavePlayerStats(s.ctx, &model.PlayerStats{PlayerID: "p1", TotalScore: 100})
	_ = s.storage.SavePlayerStats(s.ctx, &model.PlayerStats{PlayerID: "p2", TotalScore: 300})
	_ = s.storage.SavePlayerStats(s.ctx, &model.PlayerStats{PlayerID: "p3", TotalScore: 200})

	top, err := s.storage.TopPlayerStats(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(model.PlayerID("p2"), top[0].PlayerID)
	s.Equal(model.PlayerID("p3"), top[1].PlayerID)
}

func (s *StorageSuite) TestTopPlayerStatsReflectsUpdatedScore() {
	_ = s.storage.SavePlayerStats(s.ctx, &model.PlayerStats{PlayerID: "p1", TotalScore: 100})
	_ = s.storage.SavePlayerStats(s.ctx, &model.PlayerStats{PlayerID: "p2", TotalScore: 50})
	_ = s.storage.SavePlayerStats(s.ctx, &model.PlayerStats{PlayerID: "p2", TotalScore: 400})

	top, err := s.storage.TopPlayerStats(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(model.PlayerID("p2"), top[0].PlayerID)
}
