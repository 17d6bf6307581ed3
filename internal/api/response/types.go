package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/services/auth"
	"github.com/tuannh/noichu/internal/services/chain"
)

// JSON writes data as a JSON body with the given status
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// NoContent replies 204 with an empty body
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// User represents an account in API responses
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsGuest bool   `json:"is_guest"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:      string(u.ID),
		Name:    u.Name,
		IsGuest: u.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// Player represents a game member in API responses
type Player struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Score        int        `json:"score"`
	IsActive     bool       `json:"is_active"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
	RecentWords  []string   `json:"recent_words,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	out := Player{
		ID:          string(p.ID),
		Name:        p.Name,
		Score:       p.Score,
		IsActive:    p.IsActive,
		RecentWords: p.RecentWords,
	}
	if !p.LastPlayedAt.IsZero() {
		t := p.LastPlayedAt
		out.LastPlayedAt = &t
	}
	return out
}

// Word represents a chain entry in API responses
type Word struct {
	Text      string    `json:"text"`
	PlayerID  string    `json:"player_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
}

// WordFromModel converts a model.Word
func WordFromModel(w model.Word) Word {
	return Word{
		Text:      w.Text,
		PlayerID:  string(w.PlayerID),
		Timestamp: w.Timestamp,
		Score:     w.Score,
	}
}

// GameSettings represents game settings in API responses
type GameSettings struct {
	MaxPlayers       int    `json:"max_players"`
	TimeLimit        int    `json:"time_limit"`
	MinWordLength    int    `json:"min_word_length"`
	MaxWordLength    int    `json:"max_word_length"`
	Language         string `json:"language"`
	AllowRepeatWords bool   `json:"allow_repeat_words"`
	PointsPerLetter  int    `json:"points_per_letter"`
	WinPoints        int    `json:"win_points"`
}

// GameSettingsFromModel converts model.GameSettings
func GameSettingsFromModel(s model.GameSettings) GameSettings {
	return GameSettings{
		MaxPlayers:       s.MaxPlayers,
		TimeLimit:        s.TimeLimit,
		MinWordLength:    s.MinWordLength,
		MaxWordLength:    s.MaxWordLength,
		Language:         s.Language,
		AllowRepeatWords: s.AllowRepeatWords,
		PointsPerLetter:  s.PointsPerLetter,
		WinPoints:        s.WinPoints,
	}
}

// Game represents a game in API responses
type Game struct {
	ID              string       `json:"id"`
	Status          string       `json:"status"`
	HostID          string       `json:"host_id"`
	Players         []Player     `json:"players"`
	Words           []Word       `json:"words"`
	CurrentPlayerID string       `json:"current_player_id,omitempty"`
	RequiredStart   string       `json:"required_start,omitempty"`
	LastWordAt      *time.Time   `json:"last_word_at,omitempty"`
	Settings        GameSettings `json:"settings"`
	WinnerID        string       `json:"winner_id,omitempty"`
	Round           int          `json:"round"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	players := make([]Player, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerFromModel(p)
	}
	words := make([]Word, len(g.Words))
	for i, w := range g.Words {
		words[i] = WordFromModel(w)
	}

	out := Game{
		ID:              string(g.ID),
		Status:          string(g.Status),
		HostID:          string(g.HostID),
		Players:         players,
		Words:           words,
		CurrentPlayerID: string(g.CurrentPlayerID),
		RequiredStart:   chain.RequiredStart(g.Words),
		Settings:        GameSettingsFromModel(g.Settings),
		WinnerID:        string(g.WinnerID),
		Round:           g.Round,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
	if !g.LastWordAt.IsZero() {
		t := g.LastWordAt
		out.LastWordAt = &t
	}
	return out
}

// WordRecord represents one audit log entry
type WordRecord struct {
	ID           string    `json:"id"`
	GameID       string    `json:"game_id"`
	PlayerID     string    `json:"player_id"`
	Word         string    `json:"word"`
	Score        int       `json:"score"`
	ResponseTime int       `json:"response_time"`
	PlayedAt     time.Time `json:"played_at"`
}

// WordRecordFromModel converts model.WordRecord
func WordRecordFromModel(r model.WordRecord) WordRecord {
	return WordRecord{
		ID:           r.ID,
		GameID:       string(r.GameID),
		PlayerID:     string(r.PlayerID),
		Word:         r.Word,
		Score:        r.Score,
		ResponseTime: r.ResponseTime,
		PlayedAt:     r.PlayedAt,
	}
}

// WordHistory is the response for the word history endpoint
type WordHistory struct {
	GameID  string       `json:"game_id"`
	Records []WordRecord `json:"records"`
}

// LeaderboardEntry represents one leaderboard row
type LeaderboardEntry struct {
	PlayerID     string     `json:"player_id"`
	Name         string     `json:"name"`
	TotalGames   int        `json:"total_games"`
	Wins         int        `json:"wins"`
	TotalScore   int        `json:"total_score"`
	WinRate      float64    `json:"win_rate"`
	AverageScore float64    `json:"average_score"`
	LastPlayed   *time.Time `json:"last_played,omitempty"`
}

// LeaderboardEntryFromModel converts model.LeaderboardEntry
func LeaderboardEntryFromModel(e model.LeaderboardEntry) LeaderboardEntry {
	out := LeaderboardEntry{
		PlayerID:     string(e.PlayerID),
		Name:         e.Name,
		TotalGames:   e.TotalGames,
		Wins:         e.Wins,
		TotalScore:   e.TotalScore,
		WinRate:      e.WinRate,
		AverageScore: e.AverageScore,
	}
	if !e.LastPlayed.IsZero() {
		t := e.LastPlayed
		out.LastPlayed = &t
	}
	return out
}

// Leaderboard is the response for the leaderboard endpoint
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// GameEvent is one SSE payload for the game event stream
type GameEvent struct {
	Event string    `json:"event"`
	Game  Game      `json:"game"`
	At    time.Time `json:"at"`
}
