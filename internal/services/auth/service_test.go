package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tuannh/noichu/internal/dependencies/mocks"
	"github.com/tuannh/noichu/internal/storage/memory"
)

type AuthSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

func (s *AuthSuite) TestCreateGuest() {
	session, err := s.service.CreateGuest(s.ctx, "Anh")
	s.Require().NoError(err)

	s.True(strings.HasPrefix(session.Token, "sess_"))
	s.True(strings.HasPrefix(string(session.PlayerID), "p_"))
	s.True(session.User.IsGuest)
	s.Equal("Anh", session.User.Name)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)

	// The account is persisted
	user, err := s.storage.GetUser(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("Anh", user.Name)
}

func (s *AuthSuite) TestRegisterAndLogin() {
	session, err := s.service.Register(s.ctx, "anh", "secret123", "Anh")
	s.Require().NoError(err)
	s.False(session.User.IsGuest)

	login, err := s.service.Login(s.ctx, "anh", "secret123")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, login.PlayerID)
	s.NotEqual(session.Token, login.Token)
}

func (s *AuthSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.Register(s.ctx, "anh", "secret123", "Anh")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "anh", "other456", "Other")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *AuthSuite) TestRegisterDoesNotStorePlaintextPassword() {
	session, err := s.service.Register(s.ctx, "anh", "secret123", "Anh")
	s.Require().NoError(err)

	ru, err := s.storage.GetRegisteredUser(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.NotEqual("secret123", ru.PasswordHash)
	s.NotEmpty(ru.PasswordHash)
}

func (s *AuthSuite) TestLoginWrongPassword() {
	_, err := s.service.Register(s.ctx, "anh", "secret123", "Anh")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "anh", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthSuite) TestLoginUnknownUsername() {
	_, err := s.service.Login(s.ctx, "nobody", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthSuite) TestValidateSession() {
	session, err := s.service.CreateGuest(s.ctx, "Anh")
	s.Require().NoError(err)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, validated.PlayerID)
}

func (s *AuthSuite) TestValidateSessionUnknownToken() {
	_, err := s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *AuthSuite) TestSessionExpires() {
	session, err := s.service.CreateGuest(s.ctx, "Anh")
	s.Require().NoError(err)

	s.clock.Advance(24*time.Hour + time.Minute)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *AuthSuite) TestInvalidateSession() {
	session, err := s.service.CreateGuest(s.ctx, "Anh")
	s.Require().NoError(err)

	s.service.InvalidateSession(session.Token)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *AuthSuite) TestGetUser() {
	session, err := s.service.CreateGuest(s.ctx, "Anh")
	s.Require().NoError(err)

	user, err := s.service.GetUser(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, user.ID)
}

func (s *AuthSuite) TestCleanExpiredSessions() {
	old, err := s.service.CreateGuest(s.ctx, "Anh")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)
	fresh, err := s.service.CreateGuest(s.ctx, "Ba")
	s.Require().NoError(err)

	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(old.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}
