package oracle

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/tuannh/noichu/internal/dependencies/random"
)

// ErrWordlistEmpty is returned when an opening word is requested before
// any words have been loaded.
var ErrWordlistEmpty = errors.New("wordlist is empty")

// Static is a wordlist-backed oracle for development and tests. It never
// leaves the process, so validation is fast and deterministic.
type Static struct {
	random random.Random

	mu    sync.RWMutex
	words map[string]struct{}
	list  []string
}

var _ Oracle = (*Static)(nil)

// NewStatic creates a Static oracle with no words loaded.
func NewStatic(rnd random.Random) *Static {
	return &Static{
		random: rnd,
		words:  make(map[string]struct{}),
	}
}

// LoadWords replaces the wordlist.
func (s *Static) LoadWords(words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.words = make(map[string]struct{}, len(words))
	s.list = s.list[:0]
	for _, w := range words {
		lower := strings.ToLower(strings.TrimSpace(w))
		if lower == "" {
			continue
		}
		if _, ok := s.words[lower]; ok {
			continue
		}
		s.words[lower] = struct{}{}
		s.list = append(s.list, lower)
	}
}

// LoadFromFile loads a wordlist file, one word per line.
func (s *Static) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	s.LoadWords(words)
	return nil
}

// WordCount returns the number of loaded words.
func (s *Static) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// IsValidWord reports whether the word is in the loaded list. Language is
// ignored: the list is assumed to match the configured game language.
func (s *Static) IsValidWord(_ context.Context, word, _ string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.words[strings.ToLower(word)]
	return ok, nil
}

// SuggestOpeningWord returns a random word from the list.
func (s *Static) SuggestOpeningWord(_ context.Context, _ string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.list) == 0 {
		return "", ErrWordlistEmpty
	}
	return s.list[s.random.Intn(len(s.list))], nil
}
