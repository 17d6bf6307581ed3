package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the current phase of a game.
// Transitions are strictly forward: waiting -> playing -> finished.
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"  // Host created the room, players joining
	GameStatusPlaying  GameStatus = "playing"  // Chain in progress
	GameStatusFinished GameStatus = "finished" // Terminal; read-only from here
)

// Word is an immutable entry in the chain. Rejected submissions never
// become Word entries, so IsValid is true for every persisted word.
type Word struct {
	Text      string
	PlayerID  PlayerID // empty for the server-seeded opening word
	Timestamp time.Time
	IsValid   bool
	Score     int
}

// BonusPoints holds the bonus values awarded on top of the per-letter base.
type BonusPoints struct {
	LongWord    int
	QuickAnswer int
	Streak      int
}

// GameSettings is the per-game configuration, fixed at creation.
type GameSettings struct {
	MaxPlayers       int
	TimeLimit        int // seconds per turn
	MinWordLength    int
	MaxWordLength    int // 0 means unbounded
	Language         string
	AllowRepeatWords bool
	PointsPerLetter  int
	BonusPoints      BonusPoints
	WinPoints        int // first player to reach this total wins
}

// DefaultGameSettings returns the standard Nối Chữ configuration.
func DefaultGameSettings() GameSettings {
	return GameSettings{
		MaxPlayers:       4,
		TimeLimit:        30,
		MinWordLength:    2,
		MaxWordLength:    10,
		Language:         "vi",
		AllowRepeatWords: false,
		PointsPerLetter:  10,
		BonusPoints: BonusPoints{
			LongWord:    20,
			QuickAnswer: 15,
			Streak:      25,
		},
		WinPoints: 1000,
	}
}

// Game is the root aggregate: one instance per room. All mutation goes
// through the game controller's transitions; Version backs the storage
// layer's compare-and-swap.
type Game struct {
	ID              GameID
	Status          GameStatus
	HostID          PlayerID
	Players         []Player // insertion order == turn order
	Words           []Word   // append-only chain history
	CurrentPlayerID PlayerID // meaningful only while playing
	LastWordAt      time.Time
	Settings        GameSettings
	WinnerID        PlayerID // set only on transition to finished
	Round           int      // invariant: Round == len(Words)

	Version   int64 // optimistic concurrency token, managed by storage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Player returns the player with the given id, or nil.
func (g *Game) Player(id PlayerID) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// HasPlayer reports whether the given id is a member of this game.
func (g *Game) HasPlayer(id PlayerID) bool {
	return g.Player(id) != nil
}

// LastWord returns the most recent chain entry, or nil for an empty chain.
func (g *Game) LastWord() *Word {
	if len(g.Words) == 0 {
		return nil
	}
	return &g.Words[len(g.Words)-1]
}

// Clone returns a deep copy. Storage backends hand out clones so callers
// can never mutate a persisted record outside a transition.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		c.Players[i] = p
		c.Players[i].RecentWords = append([]string(nil), p.RecentWords...)
	}
	c.Words = append([]Word(nil), g.Words...)
	return &c
}

// WordRecord is an append-only audit entry for the word history log,
// kept separately from the Game aggregate.
type WordRecord struct {
	ID           string
	GameID       GameID
	PlayerID     PlayerID
	Word         string
	Score        int
	ResponseTime int // whole seconds from turn start to submission
	PlayedAt     time.Time
}
