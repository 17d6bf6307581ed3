package oracle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tuannh/noichu/internal/dependencies/mocks"
)

type StaticSuite struct {
	suite.Suite
	random *mocks.MockRandom
	oracle *Static
	ctx    context.Context
}

func TestStaticSuite(t *testing.T) {
	suite.Run(t, new(StaticSuite))
}

func (s *StaticSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.oracle = NewStatic(s.random)
	s.ctx = context.Background()
}

func (s *StaticSuite) TestLoadWordsNormalizes() {
	s.oracle.LoadWords([]string{" Hoa ", "anh", "HOA", "", "ba"})

	s.Equal(3, s.oracle.WordCount())

	ok, err := s.oracle.IsValidWord(s.ctx, "hoa", "vi")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *StaticSuite) TestIsValidWordCaseInsensitive() {
	s.oracle.LoadWords([]string{"hoa"})

	ok, err := s.oracle.IsValidWord(s.ctx, "HOA", "vi")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.oracle.IsValidWord(s.ctx, "anh", "vi")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StaticSuite) TestSuggestOpeningWord() {
	s.oracle.LoadWords([]string{"hoa", "anh", "ba"})
	s.random.QueueIntn(1)

	word, err := s.oracle.SuggestOpeningWord(s.ctx, "vi")
	s.Require().NoError(err)
	s.Equal("anh", word)
}

func (s *StaticSuite) TestSuggestOpeningWordEmptyList() {
	_, err := s.oracle.SuggestOpeningWord(s.ctx, "vi")
	s.ErrorIs(err, ErrWordlistEmpty)
}

func (s *StaticSuite) TestLoadWordsReplacesList() {
	s.oracle.LoadWords([]string{"hoa", "anh"})
	s.oracle.LoadWords([]string{"ba"})

	s.Equal(1, s.oracle.WordCount())

	ok, err := s.oracle.IsValidWord(s.ctx, "hoa", "vi")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StaticSuite) TestLoadFromFile() {
	path := filepath.Join(s.T().TempDir(), "words.txt")
	err := os.WriteFile(path, []byte("hoa\nAnh\n\nba\n"), 0o644)
	s.Require().NoError(err)

	s.Require().NoError(s.oracle.LoadFromFile(path))
	s.Equal(3, s.oracle.WordCount())

	ok, err := s.oracle.IsValidWord(s.ctx, "anh", "vi")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *StaticSuite) TestLoadFromFileMissing() {
	err := s.oracle.LoadFromFile(filepath.Join(s.T().TempDir(), "missing.txt"))
	s.Error(err)
}
