// Package stats maintains cross-game player statistics and the leaderboard.
package stats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tuannh/noichu/internal/dependencies/clock"
	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/storage"
)

// DefaultLeaderboardLimit caps a leaderboard request that gives no limit
const DefaultLeaderboardLimit = 50

// Service aggregates per-player results as games finish.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a stats Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// RecordFinishedGame folds a finished game into each player's lifetime
// totals. Per-player failures are logged and skipped so one bad record
// does not lose the rest.
func (s *Service) RecordFinishedGame(ctx context.Context, game *model.Game) error {
	if game.Status != model.GameStatusFinished {
		return model.ErrGameNotPlaying
	}

	now := s.clock.Now()
	for _, p := range game.Players {
		st, err := s.storage.GetPlayerStats(ctx, p.ID)
		if errors.Is(err, model.ErrUserNotFound) {
			st = &model.PlayerStats{PlayerID: p.ID}
		} else if err != nil {
			s.logger.Error("failed to load player stats",
				slog.String("player_id", string(p.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}

		st.Name = p.Name
		st.TotalGames++
		st.TotalScore += p.Score
		if p.ID == game.WinnerID {
			st.Wins++
		}
		st.LastPlayed = now

		if err := s.storage.SavePlayerStats(ctx, st); err != nil {
			s.logger.Error("failed to save player stats",
				slog.String("player_id", string(p.ID)),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// PlayerStats returns one player's lifetime totals, or zeroed stats for a
// player who has never finished a game.
func (s *Service) PlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	st, err := s.storage.GetPlayerStats(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return &model.PlayerStats{PlayerID: id}, nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Leaderboard returns the top players by total score with derived ratios.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	rows, err := s.storage.TopPlayerStats(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for _, st := range rows {
		e := model.LeaderboardEntry{PlayerStats: st}
		if st.TotalGames > 0 {
			e.WinRate = float64(st.Wins) / float64(st.TotalGames)
			e.AverageScore = float64(st.TotalScore) / float64(st.TotalGames)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
