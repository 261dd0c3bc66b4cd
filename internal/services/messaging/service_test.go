package messaging

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/czar/internal/models"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	service Service
	ctx     context.Context
}

func (s *MessagingServiceTestSuite) SetupTest() {
	var err error
	s.service, err = NewService(&ServiceConfig{
		Rand: rand.New(rand.NewSource(3)),
	})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func TestMessagingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}

func (s *MessagingServiceTestSuite) TestNewServiceNilConfig() {
	_, err := NewService(nil)
	s.Error(err)
}

func (s *MessagingServiceTestSuite) TestJoinMessageDefaultsToFunny() {
	out, err := s.service.GetJoinGameMessage(s.ctx, &GetJoinGameMessageInput{
		PlayerName: "alice",
		GameState:  models.GameStateWaiting,
	})
	s.Require().NoError(err)
	s.NotEmpty(out.Message)
	s.Equal(ToneFunny, out.Tone)

	out, err = s.service.GetJoinGameMessage(s.ctx, &GetJoinGameMessageInput{
		PlayerName:    "alice",
		Rejoined:      true,
		PreferredTone: ToneNeutral,
	})
	s.Require().NoError(err)
	s.Equal(ToneNeutral, out.Tone)
}

func (s *MessagingServiceTestSuite) TestJoinErrorMessageNamesPlayer() {
	for _, errorType := range []JoinErrorType{JoinErrorNoGame, JoinErrorAlreadyJoined, JoinErrorBanned, JoinErrorStopped, "other"} {
		out, err := s.service.GetJoinGameErrorMessage(s.ctx, &GetJoinGameErrorMessageInput{
			PlayerName: "bob",
			ErrorType:  errorType,
		})
		s.Require().NoError(err)
		s.Equal("Could Not Join", out.Title)
		s.Contains(out.Message, "bob", "error type %s", errorType)
	}
}

func (s *MessagingServiceTestSuite) TestWinModeMessage() {
	out, err := s.service.GetWinModeMessage(s.ctx, &GetWinModeMessageInput{Mode: models.WinModeVote})
	s.Require().NoError(err)
	s.Equal("There is no Card Czar in this game. Winners are by vote.", out.Message)

	out, err = s.service.GetWinModeMessage(s.ctx, &GetWinModeMessageInput{Mode: models.WinModeJudge})
	s.Require().NoError(err)
	s.Equal("There is a Card Czar in this game.", out.Message)

	_, err = s.service.GetWinModeMessage(s.ctx, &GetWinModeMessageInput{Mode: "chaos"})
	s.Error(err)
}

func (s *MessagingServiceTestSuite) TestStreakMessage() {
	testCases := []struct {
		streak   int
		expected string
	}{
		{1, ""},
		{2, "Two in a row! Go carol"},
		{3, "That's three! carol's on a roll."},
		{4, "Four in a row??? Who can stop this mad person?"},
		{5, "carol, I'm speaking as a friend. It's not healthy to be this good at CAH."},
		{6, ""},
	}

	for _, tc := range testCases {
		out, err := s.service.GetStreakMessage(s.ctx, &GetStreakMessageInput{
			PlayerName: "carol",
			Streak:     tc.streak,
		})
		s.Require().NoError(err)
		s.Equal(tc.expected, out.Message, "streak %d", tc.streak)
	}
}

func (s *MessagingServiceTestSuite) TestGameOverMessage() {
	out, err := s.service.GetGameOverMessage(s.ctx, &GetGameOverMessageInput{
		WinnerName: "dave",
		PointLimit: 7,
	})
	s.Require().NoError(err)
	s.True(strings.HasPrefix(out.Message, "dave has reached 7 awesome points and is the winner of the game! "))
	s.Equal(ToneCelebration, out.Tone)
}

func (s *MessagingServiceTestSuite) TestLeaderboardMessage() {
	out, err := s.service.GetLeaderboardMessage(s.ctx, &GetLeaderboardMessageInput{
		Entries: []LeaderboardEntry{
			{PlayerName: "alice", Points: 12, Games: 4},
			{PlayerName: "bob", Points: 9, Games: 1},
			{PlayerName: "carol", Points: 3, Games: 2},
			{PlayerName: "dave", Points: 1, Games: 1},
		},
	})
	s.Require().NoError(err)
	s.NotEmpty(out.Title)

	lines := strings.Split(out.Message, "\n")
	s.Require().Len(lines, 4)
	s.Equal("🥇 **alice**: 12 points (4 games)", lines[0])
	s.Equal("🥈 **bob**: 9 points (1 game)", lines[1])
	s.Equal("🥉 **carol**: 3 points (2 games)", lines[2])
	s.Equal("4. **dave**: 1 points (1 game)", lines[3])
}

func (s *MessagingServiceTestSuite) TestEmptyLeaderboardMessage() {
	out, err := s.service.GetLeaderboardMessage(s.ctx, &GetLeaderboardMessageInput{})
	s.Require().NoError(err)
	s.Equal("No finished games yet. Go be terrible!", out.Message)
}
