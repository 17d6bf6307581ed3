package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/tuannh/noichu/internal/model"
)

// RedisRelay propagates snapshots through Redis pub/sub so every server
// process sees transitions committed by its peers. The dedupe gate runs
// on the subscriber side, where cross-process duplicates can appear.
type RedisRelay struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Relay = (*RedisRelay)(nil)

func NewRedisRelay(client *redis.Client, logger *slog.Logger) *RedisRelay {
	return &RedisRelay{
		client: client,
		logger: logger.With("component", "relay_redis"),
	}
}

func gameChannel(gameID model.GameID) string {
	return fmt.Sprintf("noichu:events:%s", gameID)
}

func (r *RedisRelay) Publish(ctx context.Context, snap Snapshot) error {
	if snap.Game == nil {
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	if err := r.client.Publish(ctx, gameChannel(snap.Game.ID), payload).Err(); err != nil {
		return fmt.Errorf("publishing snapshot: %w", err)
	}
	return nil
}

func (r *RedisRelay) Subscribe(ctx context.Context, gameID model.GameID) (*Subscription, error) {
	pubsub := r.client.Subscribe(ctx, gameChannel(gameID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribing to game channel: %w", err)
	}

	out := make(chan Snapshot, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		var g gate
		for {
			select {
			case <-done:
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				var snap Snapshot
				if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
					r.logger.Warn("Discarding malformed snapshot",
						"game_id", gameID,
						"error", err)
					continue
				}
				if !g.admit(snap) {
					continue
				}
				select {
				case out <- snap:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}

	return &Subscription{C: out, cancel: cancel}, nil
}
