// Package relay propagates committed game transitions to observers.
//
// Delivery guarantees: for a single game, observers see snapshots in
// commit order, each change at most once. The transport underneath may
// duplicate or reorder; the gate filters that out using the game's
// storage version, which every committed transition increments.
package relay

import (
	"context"
	"time"

	"github.com/tuannh/noichu/internal/model"
)

// Snapshot is one committed game state, tagged with the transition that
// produced it.
type Snapshot struct {
	Event model.EventType `json:"event"`
	Game  *model.Game     `json:"game"`
	At    time.Time       `json:"at"`
}

// Subscription is a live stream of snapshots for one game. Close releases
// the stream; C is closed afterwards.
type Subscription struct {
	C      <-chan Snapshot
	cancel func()
}

// Close releases the subscription
func (s *Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Relay fans out committed transitions to everyone watching a game.
type Relay interface {
	Publish(ctx context.Context, snap Snapshot) error
	Subscribe(ctx context.Context, gameID model.GameID) (*Subscription, error)
}

// gate admits each committed state once, in order. Versions are strictly
// increasing per game, so anything at or below the last admitted version
// is a duplicate or a stale reordering.
type gate struct {
	lastVersion int64
}

func (g *gate) admit(snap Snapshot) bool {
	if snap.Game == nil {
		return false
	}
	if snap.Game.Version <= g.lastVersion {
		return false
	}
	g.lastVersion = snap.Game.Version
	return true
}
