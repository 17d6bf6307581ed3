package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	Name string `json:"name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GameSettings carries optional setting overrides when creating a game.
// Nil fields keep the default.
type GameSettings struct {
	MaxPlayers       *int    `json:"max_players,omitempty"`
	TimeLimit        *int    `json:"time_limit,omitempty"`
	MinWordLength    *int    `json:"min_word_length,omitempty"`
	MaxWordLength    *int    `json:"max_word_length,omitempty"`
	Language         *string `json:"language,omitempty"`
	AllowRepeatWords *bool   `json:"allow_repeat_words,omitempty"`
	PointsPerLetter  *int    `json:"points_per_letter,omitempty"`
	WinPoints        *int    `json:"win_points,omitempty"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Settings *GameSettings `json:"settings,omitempty"`
}

// SubmitWordRequest is the request body for playing a word
type SubmitWordRequest struct {
	Word string `json:"word"`
}
