package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/czar/internal/common/clock"
	uuidMocks "github.com/KirkDiggler/czar/internal/common/uuid/mocks"
	"github.com/KirkDiggler/czar/internal/models"
	resultsRepo "github.com/KirkDiggler/czar/internal/repositories/results"
	resultsMocks "github.com/KirkDiggler/czar/internal/repositories/results/mocks"
	"github.com/KirkDiggler/czar/internal/services/messaging"
)

type ServiceTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockResults *resultsMocks.MockRepository
	mockUUID    *uuidMocks.MockUUID
	clock       *clock.Manual
	notifier    *recordingNotifier
	service     *service
	ctx         context.Context

	alice models.Identity
	bob   models.Identity
	carol models.Identity
}

func (s *ServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockResults = resultsMocks.NewMockRepository(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.clock = clock.NewManual(time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC))
	s.notifier = newRecordingNotifier()
	s.ctx = context.Background()

	collection, err := newTestCollection(20, 80, 1)
	s.Require().NoError(err)

	messagingService, err := messaging.NewService(&messaging.ServiceConfig{
		Rand: rand.New(rand.NewSource(1)),
	})
	s.Require().NoError(err)

	logger, _ := test.NewNullLogger()

	s.service, err = NewService(&ServiceConfig{
		Rules:         DefaultRules(),
		ResultsRepo:   s.mockResults,
		Decks:         collection,
		Messaging:     messagingService,
		Clock:         s.clock,
		UUIDGenerator: s.mockUUID,
		Logger:        logger,
	})
	s.Require().NoError(err)

	s.alice = models.Identity{Nick: "alice", User: "alice", Host: "guild"}
	s.bob = models.Identity{Nick: "bob", User: "bob", Host: "guild"}
	s.carol = models.Identity{Nick: "carol", User: "carol", Host: "guild"}
}

func (s *ServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) startGame(channelID string) *Game {
	s.mockUUID.EXPECT().NewUUID().Return("game-" + channelID)

	out, err := s.service.StartGame(s.ctx, &StartGameInput{
		ChannelID: channelID,
		Starter:   s.alice,
		Notifier:  s.notifier,
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.Game)
	return out.Game
}

func (s *ServiceTestSuite) TestNewServiceValidatesConfig() {
	_, err := NewService(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewService(&ServiceConfig{})
	s.ErrorIs(err, ErrNilResultsRepo)

	_, err = NewService(&ServiceConfig{ResultsRepo: s.mockResults})
	s.ErrorIs(err, ErrNilDecks)
}

func (s *ServiceTestSuite) TestStartGame() {
	g := s.startGame("channel-1")

	s.Equal("game-channel-1", g.ID())
	s.Equal([]string{"alice"}, g.PlayerNicks())
	s.Equal(1, s.notifier.count("Loaded 1 decks"))

	out, err := s.service.GetGame(s.ctx, &GetGameInput{ChannelID: "channel-1"})
	s.Require().NoError(err)
	s.Same(g, out.Game)
}

func (s *ServiceTestSuite) TestStartGameTwiceInChannel() {
	s.startGame("channel-1")

	s.mockUUID.EXPECT().NewUUID().Return("another-game")
	_, err := s.service.StartGame(s.ctx, &StartGameInput{
		ChannelID: "channel-1",
		Notifier:  s.notifier,
	})
	s.ErrorIs(err, ErrGameAlreadyExists)
}

func (s *ServiceTestSuite) TestStartGameValidatesInput() {
	_, err := s.service.StartGame(s.ctx, &StartGameInput{Notifier: s.notifier})
	s.ErrorIs(err, ErrMissingChannelID)

	_, err = s.service.StartGame(s.ctx, &StartGameInput{ChannelID: "channel-1"})
	s.ErrorIs(err, ErrNilNotifier)
}

func (s *ServiceTestSuite) TestStartGameWithoutDecksIsForgotten() {
	s.mockUUID.EXPECT().NewUUID().Return("game-1")

	_, err := s.service.StartGame(s.ctx, &StartGameInput{
		ChannelID: "channel-1",
		Notifier:  s.notifier,
		Decks:     []string{"-TEST1"},
	})
	s.True(IsKind(err, KindExhausted))

	_, err = s.service.GetGame(s.ctx, &GetGameInput{ChannelID: "channel-1"})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *ServiceTestSuite) TestGetGameNotFound() {
	_, err := s.service.GetGame(s.ctx, &GetGameInput{ChannelID: "nowhere"})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *ServiceTestSuite) TestJoinAndLeaveGame() {
	s.startGame("channel-1")

	joined, err := s.service.JoinGame(s.ctx, &JoinGameInput{ChannelID: "channel-1", Player: s.bob})
	s.Require().NoError(err)
	s.False(joined.Rejoined)
	s.Equal(models.GameStateWaiting, joined.State)

	_, err = s.service.JoinGame(s.ctx, &JoinGameInput{ChannelID: "channel-1", Player: s.bob})
	s.True(IsKind(err, KindGuard))

	left, err := s.service.LeaveGame(s.ctx, &LeaveGameInput{ChannelID: "channel-1", Player: s.bob})
	s.Require().NoError(err)
	s.True(left.Left)

	left, err = s.service.LeaveGame(s.ctx, &LeaveGameInput{ChannelID: "channel-1", Player: s.carol})
	s.Require().NoError(err)
	s.False(left.Left)

	joined, err = s.service.JoinGame(s.ctx, &JoinGameInput{ChannelID: "channel-1", Player: s.bob})
	s.Require().NoError(err)
	s.True(joined.Rejoined)
}

func (s *ServiceTestSuite) TestJoinGameWithoutGame() {
	_, err := s.service.JoinGame(s.ctx, &JoinGameInput{ChannelID: "channel-1", Player: s.bob})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *ServiceTestSuite) TestStopGameBeforeFirstRoundSkipsSave() {
	s.startGame("channel-1")

	out, err := s.service.StopGame(s.ctx, &StopGameInput{ChannelID: "channel-1", Actor: &s.alice})
	s.Require().NoError(err)
	s.Equal(0, out.Result.Rounds)
	s.Equal(1, s.notifier.count("alice stopped the game."))

	_, err = s.service.GetGame(s.ctx, &GetGameInput{ChannelID: "channel-1"})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *ServiceTestSuite) TestStopGameSavesResult() {
	g := s.startGame("channel-1")
	for _, identity := range []models.Identity{s.bob, s.carol} {
		_, err := s.service.JoinGame(s.ctx, &JoinGameInput{ChannelID: "channel-1", Player: identity})
		s.Require().NoError(err)
	}
	s.clock.Advance(10 * time.Second)
	s.Equal(1, g.Snapshot().Round)

	s.mockResults.EXPECT().
		SaveResult(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, input *resultsRepo.SaveResultInput) error {
			s.Equal("game-channel-1", input.Result.ID)
			s.Equal("channel-1", input.Result.ChannelID)
			s.Equal(1, input.Result.Rounds)
			s.Len(input.Result.Scores, 3)
			return nil
		})

	out, err := s.service.StopGame(s.ctx, &StopGameInput{ChannelID: "channel-1"})
	s.Require().NoError(err)
	s.Equal(1, out.Result.Rounds)

	_, err = s.service.GetGame(s.ctx, &GetGameInput{ChannelID: "channel-1"})
	s.ErrorIs(err, ErrGameNotFound)

	// the channel is free for a new game
	s.startGame("channel-1")
}

func (s *ServiceTestSuite) TestSaveFailureDoesNotBlockStop() {
	s.startGame("channel-1")
	for _, identity := range []models.Identity{s.bob, s.carol} {
		_, err := s.service.JoinGame(s.ctx, &JoinGameInput{ChannelID: "channel-1", Player: identity})
		s.Require().NoError(err)
	}
	s.clock.Advance(10 * time.Second)

	s.mockResults.EXPECT().
		SaveResult(gomock.Any(), gomock.Any()).
		Return(errors.New("redis down"))

	_, err := s.service.StopGame(s.ctx, &StopGameInput{ChannelID: "channel-1"})
	s.Require().NoError(err)

	_, err = s.service.GetGame(s.ctx, &GetGameInput{ChannelID: "channel-1"})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *ServiceTestSuite) TestGameStoppingItselfIsForgotten() {
	s.startGame("channel-1")

	// nobody else joins before the wait for players runs out
	s.clock.Advance(DefaultRules().TimeWaitForPlayers)

	_, err := s.service.GetGame(s.ctx, &GetGameInput{ChannelID: "channel-1"})
	s.ErrorIs(err, ErrGameNotFound)
}

func (s *ServiceTestSuite) TestGetLeaderboard() {
	entries := []*models.LeaderboardEntry{
		{IdentityKey: "bob@guild", Nick: "bob", Points: 12, Games: 3},
		{IdentityKey: "alice@guild", Nick: "alice", Points: 7, Games: 2},
	}
	s.mockResults.EXPECT().
		GetLeaderboard(gomock.Any(), &resultsRepo.GetLeaderboardInput{ChannelID: "channel-1", Limit: 10}).
		Return(&resultsRepo.GetLeaderboardOutput{Entries: entries}, nil)

	out, err := s.service.GetLeaderboard(s.ctx, &GetLeaderboardInput{ChannelID: "channel-1", Limit: 10})
	s.Require().NoError(err)
	s.Equal(entries, out.Entries)
}

func (s *ServiceTestSuite) TestGetLeaderboardError() {
	s.mockResults.EXPECT().
		GetLeaderboard(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis down"))

	_, err := s.service.GetLeaderboard(s.ctx, &GetLeaderboardInput{ChannelID: "channel-1"})
	s.Error(err)
}
