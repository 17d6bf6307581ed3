// Package turn decides who plays next.
package turn

import "github.com/tuannh/noichu/internal/model"

// NextPlayer returns the player after currentID in strict round-robin
// order over the stored player sequence. Inactive players are not
// skipped. If currentID is not a member the first player is returned,
// matching the -1 result of an index search.
func NextPlayer(players []model.Player, currentID model.PlayerID) model.Player {
	idx := -1
	for i := range players {
		if players[i].ID == currentID {
			idx = i
			break
		}
	}
	return players[(idx+1)%len(players)]
}
