package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/services/oracle"
	"github.com/tuannh/noichu/internal/testutil"
)

// stubOracle gives canned answers for validator tests.
type stubOracle struct {
	valid bool
	err   error
	asked []string
}

var _ oracle.Oracle = (*stubOracle)(nil)

func (o *stubOracle) IsValidWord(_ context.Context, word, _ string) (bool, error) {
	o.asked = append(o.asked, word)
	return o.valid, o.err
}

func (o *stubOracle) SuggestOpeningWord(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

type ValidatorSuite struct {
	suite.Suite
	oracle    *stubOracle
	validator *Validator
	settings  model.GameSettings
	ctx       context.Context
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	s.oracle = &stubOracle{valid: true}
	s.validator = NewValidator(s.oracle, testutil.NopLogger())
	s.settings = model.DefaultGameSettings()
	s.ctx = context.Background()
}

func (s *ValidatorSuite) chain(words ...string) []model.Word {
	out := make([]model.Word, len(words))
	for i, w := range words {
		out[i] = model.Word{Text: w, IsValid: true, Timestamp: time.Now()}
	}
	return out
}

func (s *ValidatorSuite) TestAcceptsChainedWord() {
	err := s.validator.Validate(s.ctx, "àng", s.chain("hoa", "anh", "hát", "tà"), s.settings)
	s.NoError(err)
	s.Equal([]string{"àng"}, s.oracle.asked)
}

func (s *ValidatorSuite) TestChainCompareDistinguishesDiacritics() {
	// 'á' and 'à' are different runes; tone marks are significant
	err := s.validator.Validate(s.ctx, "ánh", s.chain("tà"), s.settings)
	s.ErrorIs(err, model.ErrInvalidChainStart)
	s.Empty(s.oracle.asked)
}

func (s *ValidatorSuite) TestAcceptsAnyWordOnEmptyChain() {
	err := s.validator.Validate(s.ctx, "hoa", nil, s.settings)
	s.NoError(err)
}

func (s *ValidatorSuite) TestRejectsTooShort() {
	err := s.validator.Validate(s.ctx, "a", s.chain("hoa"), s.settings)
	s.ErrorIs(err, model.ErrWordTooShort)
	s.Empty(s.oracle.asked, "length failures must not reach the oracle")
}

func (s *ValidatorSuite) TestRejectsTooLong() {
	err := s.validator.Validate(s.ctx, "aaaaaaaaaaaa", s.chain("hoa"), s.settings)
	s.ErrorIs(err, model.ErrWordTooLong)
}

func (s *ValidatorSuite) TestUnboundedMaxLength() {
	s.settings.MaxWordLength = 0
	err := s.validator.Validate(s.ctx, "aaaaaaaaaaaa", nil, s.settings)
	s.NoError(err)
}

func (s *ValidatorSuite) TestRejectsRepeatBeforeChainCheck() {
	// "hoa" is both a repeat and a chain break; repeat must win
	err := s.validator.Validate(s.ctx, "hoa", s.chain("hoa", "anh"), s.settings)
	s.ErrorIs(err, model.ErrWordAlreadyUsed)
}

func (s *ValidatorSuite) TestRepeatCheckIgnoresCase() {
	err := s.validator.Validate(s.ctx, "HOA", s.chain("anh", "hoa"), s.settings)
	s.ErrorIs(err, model.ErrWordAlreadyUsed)
}

func (s *ValidatorSuite) TestAllowRepeatWords() {
	s.settings.AllowRepeatWords = true
	err := s.validator.Validate(s.ctx, "anh", s.chain("hoa", "anh", "hoa"), s.settings)
	s.NoError(err)
}

func (s *ValidatorSuite) TestRejectsChainBreak() {
	err := s.validator.Validate(s.ctx, "bò", s.chain("hoa"), s.settings)
	s.ErrorIs(err, model.ErrInvalidChainStart)
	s.Empty(s.oracle.asked)
}

func (s *ValidatorSuite) TestChainCompareUsesRunesNotBytes() {
	// "mà" ends in the multi-byte rune 'à'; the next word must start
	// with 'à', not with the last byte
	err := s.validator.Validate(s.ctx, "ào", s.chain("mà"), s.settings)
	s.NoError(err)

	err = s.validator.Validate(s.ctx, "ao", s.chain("mà"), s.settings)
	s.ErrorIs(err, model.ErrInvalidChainStart)
}

func (s *ValidatorSuite) TestChainCompareIgnoresCase() {
	err := s.validator.Validate(s.ctx, "Anh", s.chain("hoA"), s.settings)
	s.NoError(err)
}

func (s *ValidatorSuite) TestOracleRejection() {
	s.oracle.valid = false
	err := s.validator.Validate(s.ctx, "anh", s.chain("hoa"), s.settings)
	s.ErrorIs(err, model.ErrInvalidWord)
}

func (s *ValidatorSuite) TestOracleFailureRejectsClosed() {
	s.oracle.err = errors.New("connection refused")
	err := s.validator.Validate(s.ctx, "anh", s.chain("hoa"), s.settings)
	s.ErrorIs(err, model.ErrOracleUnavailable)
}

func (s *ValidatorSuite) TestRequiredStart() {
	s.Equal("", RequiredStart(nil))
	s.Equal("a", RequiredStart(s.chain("hoa")))
	s.Equal("à", RequiredStart(s.chain("hoa", "mà")))
}

func (s *ValidatorSuite) TestCheckSyntaxIsPure() {
	err := CheckSyntax("anh", s.chain("hoa"), s.settings)
	s.NoError(err)
	s.Empty(s.oracle.asked)
}
