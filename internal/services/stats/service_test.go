package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tuannh/noichu/internal/dependencies/mocks"
	"github.com/tuannh/noichu/internal/model"
	"github.com/tuannh/noichu/internal/storage/memory"
	"github.com/tuannh/noichu/internal/testutil"
)

type StatsSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsSuite))
}

func (s *StatsSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *StatsSuite) TestRecordFinishedGameCreatesStats() {
	game := &model.Game{
		ID:       "GAME1",
		Status:   model.GameStatusFinished,
		WinnerID: "p1",
		Players: []model.Player{
			{ID: "p1", Name: "Anh", Score: 120},
			{ID: "p2", Name: "Ba", Score: 80},
		},
	}

	s.Require().NoError(s.service.RecordFinishedGame(s.ctx, game))

	winner, err := s.service.PlayerStats(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(1, winner.TotalGames)
	s.Equal(1, winner.Wins)
	s.Equal(120, winner.TotalScore)
	s.Equal("Anh", winner.Name)
	s.Equal(s.clock.Now(), winner.LastPlayed)

	loser, err := s.service.PlayerStats(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(1, loser.TotalGames)
	s.Equal(0, loser.Wins)
	s.Equal(80, loser.TotalScore)
}

func (s *StatsSuite) TestRecordFinishedGameAccumulates() {
	first := &model.Game{
		ID: "GAME1", Status: model.GameStatusFinished, WinnerID: "p1",
		Players: []model.Player{{ID: "p1", Name: "Anh", Score: 100}},
	}
	second := &model.Game{
		ID: "GAME2", Status: model.GameStatusFinished, WinnerID: "other",
		Players: []model.Player{{ID: "p1", Name: "Anh", Score: 50}},
	}

	s.Require().NoError(s.service.RecordFinishedGame(s.ctx, first))
	s.Require().NoError(s.service.RecordFinishedGame(s.ctx, second))

	st, err := s.service.PlayerStats(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(2, st.TotalGames)
	s.Equal(1, st.Wins)
	s.Equal(150, st.TotalScore)
}

func (s *StatsSuite) TestRecordUnfinishedGameRejected() {
	game := &model.Game{ID: "GAME1", Status: model.GameStatusPlaying}

	err := s.service.RecordFinishedGame(s.ctx, game)
	s.ErrorIs(err, model.ErrGameNotPlaying)
}

func (s *StatsSuite) TestPlayerStatsUnknownPlayerIsZeroed() {
	st, err := s.service.PlayerStats(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("nobody"), st.PlayerID)
	s.Equal(0, st.TotalGames)
}

func (s *StatsSuite) TestLeaderboardComputesRatios() {
	game := &model.Game{
		ID: "GAME1", Status: model.GameStatusFinished, WinnerID: "p1",
		Players: []model.Player{
			{ID: "p1", Name: "Anh", Score: 200},
			{ID: "p2", Name: "Ba", Score: 100},
		},
	}
	s.Require().NoError(s.service.RecordFinishedGame(s.ctx, game))

	entries, err := s.service.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	s.Equal(model.PlayerID("p1"), entries[0].PlayerID)
	s.Equal(1.0, entries[0].WinRate)
	s.Equal(200.0, entries[0].AverageScore)
	s.Equal(0.0, entries[1].WinRate)
}

func (s *StatsSuite) TestLeaderboardLimit() {
	for _, p := range []model.PlayerID{"p1", "p2", "p3"} {
		game := &model.Game{
			ID: model.GameID("GAME-" + p), Status: model.GameStatusFinished, WinnerID: p,
			Players: []model.Player{{ID: p, Name: string(p), Score: 100}},
		}
		s.Require().NoError(s.service.RecordFinishedGame(s.ctx, game))
	}

	entries, err := s.service.Leaderboard(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(entries, 2)
}
