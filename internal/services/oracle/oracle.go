// Package oracle answers semantic word-validity questions. It is the only
// part of word acceptance that may leave the process; everything treats it
// as slow and unreliable.
package oracle

import "context"

// Oracle checks whether a word is a real word in the given language, and
// can suggest a word to open a chain with.
type Oracle interface {
	IsValidWord(ctx context.Context, word, language string) (bool, error)
	SuggestOpeningWord(ctx context.Context, language string) (string, error)
}
