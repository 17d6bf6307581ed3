// Package game implements the Nối Chữ state machine and turn flow.
package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tuannh/noichu/internal/dependencies/clock"
	"github.com/tuannh/noichu/internal/dependencies/random"
	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/relay"
	"github.com/tuannh/noichu/internal/services/chain"
	"github.com/tuannh/noichu/internal/services/oracle"
	"github.com/tuannh/noichu/internal/services/scoring"
	"github.com/tuannh/noichu/internal/services/stats"
	"github.com/tuannh/noichu/internal/services/turn"
	"github.com/tuannh/noichu/internal/storage"
)

const (
	gameIDLength   = 8
	gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// minPlayersToStart is the floor for StartGame
	minPlayersToStart = 2

	// casRetries is how many times a transition re-reads and re-applies
	// after losing a compare-and-swap race to another process
	casRetries = 2
)

// Controller runs every game transition. Each transition loads the game,
// applies the change, and saves with compare-and-swap; a per-game lock
// serialises transitions within this process and keeps relay publishes
// in commit order.
type Controller struct {
	storage   storage.Storage
	validator *chain.Validator
	scoring   *scoring.Service
	oracle    oracle.Oracle
	relay     relay.Relay
	stats     *stats.Service
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
	locks     gameLocks
}

// NewController creates a game Controller
func NewController(
	storage storage.Storage,
	validator *chain.Validator,
	scoringService *scoring.Service,
	o oracle.Oracle,
	r relay.Relay,
	statsService *stats.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		validator: validator,
		scoring:   scoringService,
		oracle:    o,
		relay:     r,
		stats:     statsService,
		clock:     clock,
		random:    random,
		logger:    logger.With(slog.String("component", "game")),
	}
}

// CreateGame opens a new room with the given host. A nil settings uses
// the defaults. The oracle is asked for an opening word; if it cannot
// supply one the chain simply starts empty and the first player may play
// any word.
func (c *Controller) CreateGame(ctx context.Context, hostID model.PlayerID, hostName string, settings *model.GameSettings) (*model.Game, error) {
	s := model.DefaultGameSettings()
	if settings != nil {
		s = *settings
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:     model.GameID(c.random.String(gameIDLength, gameIDAlphabet)),
		Status: model.GameStatusWaiting,
		HostID: hostID,
		Players: []model.Player{{
			ID:       hostID,
			Name:     hostName,
			IsActive: true,
		}},
		Settings:  s,
		CreatedAt: now,
		UpdatedAt: now,
	}

	opening, err := c.oracle.SuggestOpeningWord(ctx, s.Language)
	if err != nil {
		c.logger.Warn("no opening word available",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
	} else if opening != "" {
		game.Words = append(game.Words, model.Word{
			Text:      opening,
			Timestamp: now,
			IsValid:   true,
		})
	}
	game.Round = len(game.Words)

	if err := c.storage.CreateGame(ctx, game); err != nil {
		c.logger.Error("failed to create game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("host_id", string(hostID)),
		slog.String("language", s.Language),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetWordHistory returns the audit log of accepted words for a game.
func (c *Controller) GetWordHistory(ctx context.Context, gameID model.GameID) ([]model.WordRecord, error) {
	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return c.storage.GetWordHistory(ctx, gameID)
}

// JoinGame adds a player to a waiting room.
func (c *Controller) JoinGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID, name string) (*model.Game, error) {
	return c.transition(ctx, gameID, func(game *model.Game) (model.EventType, error) {
		if game.Status != model.GameStatusWaiting {
			return "", model.ErrGameNotWaiting
		}
		if game.HasPlayer(playerID) {
			return "", model.ErrAlreadyJoined
		}
		if len(game.Players) >= game.Settings.MaxPlayers {
			return "", model.ErrGameFull
		}

		game.Players = append(game.Players, model.Player{
			ID:       playerID,
			Name:     name,
			IsActive: true,
		})
		return model.EventPlayerJoined, nil
	})
}

// StartGame moves a waiting room into play. Only the host may start, and
// only with at least two players. The first turn goes to the player after
// the host in join order.
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID, callerID model.PlayerID) (*model.Game, error) {
	return c.transition(ctx, gameID, func(game *model.Game) (model.EventType, error) {
		if game.Status != model.GameStatusWaiting {
			return "", model.ErrGameNotWaiting
		}
		if callerID != game.HostID {
			return "", model.ErrNotHost
		}
		if len(game.Players) < minPlayersToStart {
			return "", model.ErrNotEnoughPlayers
		}

		game.Status = model.GameStatusPlaying
		game.CurrentPlayerID = turn.NextPlayer(game.Players, game.HostID).ID
		game.LastWordAt = c.clock.Now()
		return model.EventGameStarted, nil
	})
}

// SubmitWord plays a word for the current player. The word is trimmed and
// lowercased before any check. On acceptance the word is scored and
// appended, the turn advances, and the game finishes if the player has
// reached the winning score.
func (c *Controller) SubmitWord(ctx context.Context, gameID model.GameID, playerID model.PlayerID, word string) (*model.Game, error) {
	candidate := strings.ToLower(strings.TrimSpace(word))

	var record *model.WordRecord
	game, err := c.transition(ctx, gameID, func(game *model.Game) (model.EventType, error) {
		if game.Status != model.GameStatusPlaying {
			return "", model.ErrGameNotPlaying
		}
		if !game.HasPlayer(playerID) {
			return "", model.ErrNotYourTurn
		}
		if game.CurrentPlayerID != playerID {
			return "", model.ErrNotYourTurn
		}

		if err := c.validator.Validate(ctx, candidate, game.Words, game.Settings); err != nil {
			return "", err
		}

		now := c.clock.Now()
		elapsed := now.Sub(game.LastWordAt).Seconds()
		score := c.scoring.Score(candidate, elapsed, game.Settings, game.Words)

		game.Words = append(game.Words, model.Word{
			Text:      candidate,
			PlayerID:  playerID,
			Timestamp: now,
			IsValid:   true,
			Score:     score,
		})
		game.Round = len(game.Words)

		player := game.Player(playerID)
		player.RecordWord(candidate, score, now)

		record = &model.WordRecord{
			ID:           c.random.UUID(),
			GameID:       game.ID,
			PlayerID:     playerID,
			Word:         candidate,
			Score:        score,
			ResponseTime: int(elapsed),
			PlayedAt:     now,
		}

		if player.Score >= game.Settings.WinPoints {
			game.Status = model.GameStatusFinished
			game.WinnerID = c.scoring.DetermineWinner(game.Players)
			return model.EventGameEnded, nil
		}

		game.CurrentPlayerID = turn.NextPlayer(game.Players, playerID).ID
		game.LastWordAt = now
		return model.EventWordPlayed, nil
	})
	if err != nil {
		return nil, err
	}

	// The audit log and stats are best-effort side effects of a committed
	// transition; their failure never rolls the game back.
	if record != nil {
		if err := c.storage.AppendWordRecord(ctx, record); err != nil {
			c.logger.Error("failed to append word record",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
		}
	}
	if game.Status == model.GameStatusFinished {
		if err := c.stats.RecordFinishedGame(ctx, game); err != nil {
			c.logger.Error("failed to record game stats",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
		}
		c.logger.Info("game finished",
			slog.String("game_id", string(gameID)),
			slog.String("winner_id", string(game.WinnerID)),
			slog.Int("rounds", game.Round),
		)
	}

	return game, nil
}

// TimeoutTurn skips the current player after the turn time limit has
// passed without a word. Any caller may request it; the deadline check is
// authoritative here, not on the client.
func (c *Controller) TimeoutTurn(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.transition(ctx, gameID, func(game *model.Game) (model.EventType, error) {
		if game.Status != model.GameStatusPlaying {
			return "", model.ErrGameNotPlaying
		}

		elapsed := c.clock.Since(game.LastWordAt)
		if elapsed.Seconds() < float64(game.Settings.TimeLimit) {
			return "", model.ErrTurnNotExpired
		}

		skipped := game.CurrentPlayerID
		game.CurrentPlayerID = turn.NextPlayer(game.Players, skipped).ID
		game.LastWordAt = c.clock.Now()

		c.logger.Info("turn timed out",
			slog.String("game_id", string(game.ID)),
			slog.String("skipped_player_id", string(skipped)),
		)
		return model.EventTurnTimeout, nil
	})
}

// transition loads, mutates, and saves one game under its lock, retrying
// the whole read-apply-save cycle when a peer process wins the
// compare-and-swap. The mutation must be pure apart from the game itself
// so a retry can rerun it safely. On commit the new state is published.
func (c *Controller) transition(ctx context.Context, gameID model.GameID, apply func(*model.Game) (model.EventType, error)) (*model.Game, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt <= casRetries; attempt++ {
		game, err := c.storage.GetGame(ctx, gameID)
		if err != nil {
			return nil, err
		}

		event, err := apply(game)
		if err != nil {
			return nil, err
		}

		game.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveGame(ctx, game); err != nil {
			if errors.Is(err, model.ErrConcurrentModification) {
				lastErr = err
				continue
			}
			c.logger.Error("failed to save game",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
			return nil, err
		}

		c.publish(ctx, event, game)
		return game, nil
	}
	return nil, lastErr
}

func (c *Controller) publish(ctx context.Context, event model.EventType, game *model.Game) {
	snap := relay.Snapshot{
		Event: event,
		Game:  game,
		At:    c.clock.Now(),
	}
	if err := c.relay.Publish(ctx, snap); err != nil {
		c.logger.Error("failed to publish game event",
			slog.String("game_id", string(game.ID)),
			slog.String("event", string(event)),
			slog.String("error", err.Error()),
		)
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, hostID model.PlayerID, hostName string, settings *model.GameSettings) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetWordHistory(ctx context.Context, gameID model.GameID) ([]model.WordRecord, error)
	JoinGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID, name string) (*model.Game, error)
	StartGame(ctx context.Context, gameID model.GameID, callerID model.PlayerID) (*model.Game, error)
	SubmitWord(ctx context.Context, gameID model.GameID, playerID model.PlayerID, word string) (*model.Game, error)
	TimeoutTurn(ctx context.Context, gameID model.GameID) (*model.Game, error)
}

var _ ControllerInterface = (*Controller)(nil)
