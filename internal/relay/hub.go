package relay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tuannh/noichu/internal/model"
)

const subscriberBuffer = 16

// Hub is an in-process relay. Each game gets a room holding the dedupe
// gate and the set of subscriber channels; rooms are created lazily and
// torn down when the last subscriber leaves.
type Hub struct {
	mu     sync.Mutex
	rooms  map[model.GameID]*room
	logger *slog.Logger
}

type room struct {
	gate gate
	subs map[*hubSub]struct{}
}

type hubSub struct {
	ch chan Snapshot
}

var _ Relay = (*Hub)(nil)

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[model.GameID]*room),
		logger: logger.With("component", "relay_hub"),
	}
}

func (h *Hub) Publish(_ context.Context, snap Snapshot) error {
	if snap.Game == nil {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[snap.Game.ID]
	if !ok {
		// Nobody watching; nothing to retain
		return nil
	}
	if !r.gate.admit(snap) {
		return nil
	}

	for sub := range r.subs {
		select {
		case sub.ch <- snap:
		default:
			// Slow consumer; drop rather than stall the game
			h.logger.Warn("Dropping snapshot for slow subscriber",
				"game_id", snap.Game.ID,
				"event", snap.Event)
		}
	}
	return nil
}

func (h *Hub) Subscribe(_ context.Context, gameID model.GameID) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[gameID]
	if !ok {
		r = &room{subs: make(map[*hubSub]struct{})}
		h.rooms[gameID] = r
	}

	sub := &hubSub{ch: make(chan Snapshot, subscriberBuffer)}
	r.subs[sub] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(r.subs, sub)
			if len(r.subs) == 0 {
				delete(h.rooms, gameID)
			}
			close(sub.ch)
		})
	}

	return &Subscription{C: sub.ch, cancel: cancel}, nil
}
