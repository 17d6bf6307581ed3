package model

// EventType identifies the kind of transition a notification describes.
type EventType string

const (
	EventPlayerJoined EventType = "PLAYER_JOINED"
	EventGameStarted  EventType = "GAME_STARTED"
	EventWordPlayed   EventType = "WORD_PLAYED"
	EventTurnTimeout  EventType = "TURN_TIMEOUT"
	EventGameEnded    EventType = "GAME_ENDED"
)
