// Package chain implements word acceptance for the Nối Chữ chain.
package chain

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/services/oracle"
)

// DefaultOracleTimeout bounds the semantic validity check. An oracle that
// does not answer in time rejects the word; it never blocks a game.
const DefaultOracleTimeout = 8 * time.Second

// Validator checks candidate words against the chain rules. The length,
// repeat and chain checks are pure; only the final semantic check calls
// out through the oracle.
type Validator struct {
	oracle        oracle.Oracle
	oracleTimeout time.Duration
	logger        *slog.Logger
}

// NewValidator creates a Validator
func NewValidator(o oracle.Oracle, logger *slog.Logger) *Validator {
	return &Validator{
		oracle:        o,
		oracleTimeout: DefaultOracleTimeout,
		logger:        logger.With(slog.String("component", "validator")),
	}
}

// Validate runs all acceptance checks in order; the first failure wins.
// Check order is part of the contract: players see the same error for the
// same mistake every time.
func (v *Validator) Validate(ctx context.Context, candidate string, previousWords []model.Word, settings model.GameSettings) error {
	if err := CheckSyntax(candidate, previousWords, settings); err != nil {
		return err
	}

	oracleCtx, cancel := context.WithTimeout(ctx, v.oracleTimeout)
	defer cancel()

	ok, err := v.oracle.IsValidWord(oracleCtx, candidate, settings.Language)
	if err != nil {
		// Fail closed: an unreachable oracle rejects the word rather
		// than waving through unchecked text.
		v.logger.Warn("oracle check failed",
			slog.String("word", candidate),
			slog.String("error", err.Error()),
		)
		return model.ErrOracleUnavailable
	}
	if !ok {
		return model.ErrInvalidWord
	}
	return nil
}

// CheckSyntax runs the pure acceptance checks: length bounds, repeat
// policy, then the chain rule. It is deterministic and needs no network.
func CheckSyntax(candidate string, previousWords []model.Word, settings model.GameSettings) error {
	length := utf8.RuneCountInString(candidate)
	if length < settings.MinWordLength {
		return model.ErrWordTooShort
	}
	if settings.MaxWordLength > 0 && length > settings.MaxWordLength {
		return model.ErrWordTooLong
	}

	if !settings.AllowRepeatWords {
		for _, w := range previousWords {
			if strings.EqualFold(w.Text, candidate) {
				return model.ErrWordAlreadyUsed
			}
		}
	}

	if len(previousWords) > 0 {
		last := previousWords[len(previousWords)-1].Text
		if !strings.EqualFold(firstRune(candidate), lastRune(last)) {
			return model.ErrInvalidChainStart
		}
	}

	return nil
}

// RequiredStart returns the letter the next word must begin with, or ""
// for an empty chain.
func RequiredStart(previousWords []model.Word) string {
	if len(previousWords) == 0 {
		return ""
	}
	return lastRune(previousWords[len(previousWords)-1].Text)
}

func firstRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}

func lastRune(s string) string {
	r, _ := utf8.DecodeLastRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}
