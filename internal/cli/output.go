package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case WordHistory:
		o.printWordHistory(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsGuest bool   `json:"is_guest"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// Player response type
type Player struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Score       int      `json:"score"`
	IsActive    bool     `json:"is_active"`
	RecentWords []string `json:"recent_words,omitempty"`
}

// Word response type
type Word struct {
	Text      string    `json:"text"`
	PlayerID  string    `json:"player_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
}

// GameSettings response type
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

// Game response type
type Game struct {
	ID              string       `json:"id"`
	Status          string       `json:"status"`
	HostID          string       `json:"host_id"`
	Players         []Player     `json:"players"`
	Words           []Word       `json:"words"`
	CurrentPlayerID string       `json:"current_player_id,omitempty"`
	RequiredStart   string       `json:"required_start,omitempty"`
	Settings        GameSettings `json:"settings"`
	WinnerID        string       `json:"winner_id,omitempty"`
	Round           int          `json:"round"`
}

// WordRecord response type
type WordRecord struct {
	ID           string    `json:"id"`
	GameID       string    `json:"game_id"`
	PlayerID     string    `json:"player_id"`
	Word         string    `json:"word"`
	Score        int       `json:"score"`
	ResponseTime int       `json:"response_time"`
	PlayedAt     time.Time `json:"played_at"`
}

// WordHistory response type
type WordHistory struct {
	GameID  string       `json:"game_id"`
	Records []WordRecord `json:"records"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	TotalGames   int     `json:"total_games"`
	Wins         int     `json:"wins"`
	TotalScore   int     `json:"total_score"`
	WinRate      float64 `json:"win_rate"`
	AverageScore float64 `json:"average_score"`
}

// Leaderboard response type
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	guestStr := "no"
	if u.IsGuest {
		guestStr = "yes"
	}
	fmt.Printf("User: %s (%s)\n", u.Name, u.ID)
	fmt.Printf("Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Round: %d\n", g.Round)
	fmt.Printf("Language: %s\n", g.Settings.Language)

	if g.CurrentPlayerID != "" {
		fmt.Printf("Current Turn: %s\n", g.CurrentPlayerID)
	}
	if g.RequiredStart != "" {
		fmt.Printf("Next word starts with: %s\n", g.RequiredStart)
	}

	fmt.Printf("Players (%d/%d):\n", len(g.Players), g.Settings.MaxPlayers)
	for _, p := range g.Players {
		hostStr := ""
		if p.ID == g.HostID {
			hostStr = " [host]"
		}
		fmt.Printf("  - %s (%s) - %d points%s\n", p.Name, p.ID, p.Score, hostStr)
	}

	if len(g.Words) > 0 {
		// Show the tail of a long chain
		words := g.Words
		if len(words) > 10 {
			fmt.Printf("Chain (last 10 of %d):\n", len(words))
			words = words[len(words)-10:]
		} else {
			fmt.Println("Chain:")
		}
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = w.Text
		}
		fmt.Printf("  %s\n", strings.Join(parts, " -> "))
	}

	if g.WinnerID != "" {
		fmt.Printf("Winner: %s\n", g.WinnerID)
	}
}

func (o *Output) printWordHistory(h WordHistory) {
	fmt.Printf("Word history for game %s (%d words):\n", h.GameID, len(h.Records))
	for _, r := range h.Records {
		fmt.Printf("  %s  %-15s %4d pts  %ds  (%s)\n",
			r.PlayedAt.Format("15:04:05"), r.Word, r.Score, r.ResponseTime, r.PlayerID)
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Printf("%-4s %-20s %6s %6s %8s %8s\n", "#", "Player", "Games", "Wins", "Score", "WinRate")
	for i, e := range l.Entries {
		fmt.Printf("%-4d %-20s %6d %6d %8d %7.0f%%\n",
			i+1, e.Name, e.TotalGames, e.Wins, e.TotalScore, e.WinRate*100)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
