package game

import (
	"sync"

	"github.com/tuannh/noichu/internal/model"
)

// gameLocks hands out one mutex per game id. Entries are reference
// counted and removed once nothing holds or waits on them, so the map
// does not grow with the lifetime total of games.
type gameLocks struct {
	mu    sync.Mutex
	locks map[model.GameID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until the caller holds the game's mutex and returns the
// matching unlock.
func (l *gameLocks) lock(id model.GameID) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[model.GameID]*lockEntry)
	}
	e, ok := l.locks[id]
	if !ok {
		e = &lockEntry{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
