package model

import "time"

// PlayerID uniquely identifies a player across the system. Account ids
// and in-game player ids are the same value: the identity provider
// resolves a person to a PlayerID before any transition runs.
type PlayerID string

// RecentWordLimit bounds the per-player ring of recently played words.
const RecentWordLimit = 3

// Player is a member of a single Game. Score is non-negative and only
// ever increases within a game. IsActive is tracked but not consulted by
// turn rotation.
type Player struct {
	ID           PlayerID
	Name         string
	Score        int
	IsActive     bool
	LastPlayedAt time.Time
	RecentWords  []string // most recent first, at most RecentWordLimit
}

// RecordWord updates the player's per-game bookkeeping for an accepted word.
func (p *Player) RecordWord(word string, score int, playedAt time.Time) {
	p.Score += score
	p.LastPlayedAt = playedAt
	p.RecentWords = append([]string{word}, p.RecentWords...)
	if len(p.RecentWords) > RecentWordLimit {
		p.RecentWords = p.RecentWords[:RecentWordLimit]
	}
}

// User is an account known to the identity provider, independent of any
// particular game.
type User struct {
	ID        PlayerID
	Name      string
	IsGuest   bool // true for unregistered players
	CreatedAt time.Time
}

// RegisteredUser extends User with authentication data.
// Stored separately so password hashes never travel with sessions.
type RegisteredUser struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PlayerStats aggregates a player's results across games.
type PlayerStats struct {
	PlayerID   PlayerID
	Name       string
	TotalGames int
	Wins       int
	TotalScore int
	LastPlayed time.Time
}

// LeaderboardEntry is a stats row with derived ratios, ordered by total score.
type LeaderboardEntry struct {
	PlayerStats
	WinRate      float64
	AverageScore float64
}
