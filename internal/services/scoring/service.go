// Package scoring computes points for accepted words.
package scoring

import (
	"unicode/utf8"

	"github.com/tuannh/noichu/internal/model"
)

const (
	// longWordRunes is the rune count above which the long-word bonus applies
	longWordRunes = 5
	// quickAnswerSeconds is the response window for the quick-answer bonus
	quickAnswerSeconds = 5.0
	// streakThreshold is the consecutive-valid-word count that earns the streak bonus
	streakThreshold = 3
)

// Service computes scores for accepted words and decides winners.
type Service struct{}

// New creates a new scoring Service
func New() *Service {
	return &Service{}
}

// Score returns the points for an accepted word: a per-letter base plus
// bonuses for long words, quick answers, and streaks.
func (s *Service) Score(word string, elapsedSeconds float64, settings model.GameSettings, previousWords []model.Word) int {
	length := utf8.RuneCountInString(word)
	score := length * settings.PointsPerLetter

	if length > longWordRunes {
		score += settings.BonusPoints.LongWord
	}

	if elapsedSeconds < quickAnswerSeconds {
		score += settings.BonusPoints.QuickAnswer
	}

	if s.Streak(previousWords) >= streakThreshold {
		score += settings.BonusPoints.Streak
	}

	return score
}

// Streak counts the run of valid words ending at the newest chain entry,
// including the word being scored. Every persisted word is valid today,
// but the scan still stops at the first invalid entry so a future policy
// that records rejected attempts keeps working.
func (s *Service) Streak(previousWords []model.Word) int {
	streak := 1
	for i := len(previousWords) - 1; i >= 0; i-- {
		if !previousWords[i].IsValid {
			break
		}
		streak++
	}
	return streak
}

// DetermineWinner returns the player with the highest score. Ties break
// toward the earliest-joined player, which is deterministic because
// Players preserves join order.
func (s *Service) DetermineWinner(players []model.Player) model.PlayerID {
	if len(players) == 0 {
		return ""
	}
	winner := players[0]
	for _, p := range players[1:] {
		if p.Score > winner.Score {
			winner = p
		}
	}
	return winner.ID
}
