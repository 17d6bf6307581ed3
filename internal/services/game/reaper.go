package game

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tuannh/noichu/internal/model"
)

const (
	// DefaultReaperInterval is how often the reaper sweeps open games
	DefaultReaperInterval = 5 * time.Second

	// reaperGrace is added to the turn time limit before the server
	// forces a timeout, leaving room for an in-flight submission
	reaperGrace = 2 * time.Second
)

// RunReaper sweeps open games on a fixed interval and times out overdue
// turns, so a turn expires even when every client has gone away. It
// returns when ctx is cancelled.
func (c *Controller) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultReaperInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.Info("turn reaper started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("turn reaper stopped")
			return
		case <-ticker.C:
			c.ExpireOverdueTurns(ctx)
		}
	}
}

// ExpireOverdueTurns runs one reaper sweep.
func (c *Controller) ExpireOverdueTurns(ctx context.Context) {
	ids, err := c.storage.ListOpenGameIDs(ctx)
	if err != nil {
		c.logger.Error("reaper failed to list open games",
			slog.String("error", err.Error()),
		)
		return
	}

	for _, id := range ids {
		game, err := c.storage.GetGame(ctx, id)
		if err != nil {
			if !errors.Is(err, model.ErrGameNotFound) {
				c.logger.Error("reaper failed to load game",
					slog.String("game_id", string(id)),
					slog.String("error", err.Error()),
				)
			}
			continue
		}

		if game.Status != model.GameStatusPlaying {
			continue
		}
		deadline := time.Duration(game.Settings.TimeLimit)*time.Second + reaperGrace
		if c.clock.Since(game.LastWordAt) < deadline {
			continue
		}

		if _, err := c.TimeoutTurn(ctx, id); err != nil {
			// A submission or a peer's reaper beat this sweep to it
			if errors.Is(err, model.ErrTurnNotExpired) ||
				errors.Is(err, model.ErrGameNotPlaying) ||
				errors.Is(err, model.ErrConcurrentModification) {
				continue
			}
			c.logger.Error("reaper failed to time out turn",
				slog.String("game_id", string(id)),
				slog.String("error", err.Error()),
			)
		}
	}
}
