package redis

import (
	"fmt"

	"github.com/tuannh/noichu/internal/model"
)

// Key prefix for all Nối Chữ data
const keyPrefix = "noichu"

// userKey returns the Redis key for a User
func userKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// registeredUserKey returns the Redis key for a RegisteredUser
func registeredUserKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_user:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// openGamesKey returns the Redis key for the SET of unfinished game ids
func openGamesKey() string {
	return fmt.Sprintf("%s:idx:open_games", keyPrefix)
}

// wordHistoryKey returns the Redis key for a game's word audit LIST
func wordHistoryKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:history:%s", keyPrefix, gameID)
}

// statsKey returns the Redis key for a player's aggregate stats
func statsKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, id)
}

// leaderboardKey returns the Redis key for the total-score ZSET index
func leaderboardKey() string {
	return fmt.Sprintf("%s:idx:leaderboard", keyPrefix)
}
