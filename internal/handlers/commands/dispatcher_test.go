package commands

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/czar/internal/common/clock"
	"github.com/KirkDiggler/czar/internal/common/uuid"
	"github.com/KirkDiggler/czar/internal/decks"
	"github.com/KirkDiggler/czar/internal/models"
	"github.com/KirkDiggler/czar/internal/repositories/results"
	"github.com/KirkDiggler/czar/internal/services/game"
	"github.com/KirkDiggler/czar/internal/services/messaging"
)

// channelLog records what the game sends to the channel
type channelLog struct {
	mu      sync.Mutex
	lines   []string
	notices map[string][]string
}

func (c *channelLog) Announce(ctx context.Context, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, message)
	return nil
}

func (c *channelLog) Notice(ctx context.Context, identity models.Identity, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notices == nil {
		c.notices = map[string][]string{}
	}
	c.notices[identity.Key()] = append(c.notices[identity.Key()], message)
	return nil
}

func (c *channelLog) SetVoice(ctx context.Context, identities []models.Identity, voiced bool) error {
	return nil
}

func (c *channelLog) contains(substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range c.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

type DispatcherTestSuite struct {
	suite.Suite
	mr          *miniredis.Miniredis
	client      *redis.Client
	results     results.Repository
	clock       *clock.Manual
	channel     *channelLog
	gameService game.Service
	dispatcher  *Dispatcher
	ctx         context.Context

	alice models.Identity
	bob   models.Identity
	carol models.Identity
}

func (s *DispatcherTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo, err := results.NewRedis(&results.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.results = repo

	deck := &decks.Deck{Code: "TEST1", Name: "Test Deck"}
	for i := 0; i < 10; i++ {
		deck.Calls = append(deck.Calls, decks.CallData{
			ID:           fmt.Sprintf("q%d", i),
			Text:         []string{fmt.Sprintf("Question %d is ", i), "."},
			NumResponses: 1,
		})
	}
	for i := 0; i < 60; i++ {
		deck.Responses = append(deck.Responses, decks.ResponseData{
			ID:   fmt.Sprintf("a%d", i),
			Text: fmt.Sprintf("answer %d", i),
		})
	}
	collection, err := decks.New(&decks.Config{
		Decks:  []*decks.Deck{deck},
		Groups: decks.Groups{decks.DefaultGroup: {"TEST1"}},
	})
	s.Require().NoError(err)

	messagingService, err := messaging.NewService(&messaging.ServiceConfig{
		Rand: rand.New(rand.NewSource(5)),
	})
	s.Require().NoError(err)

	logger, _ := test.NewNullLogger()
	s.clock = clock.NewManual(time.Date(2025, 5, 2, 20, 0, 0, 0, time.UTC))

	s.gameService, err = game.NewService(&game.ServiceConfig{
		Rules:         game.DefaultRules(),
		ResultsRepo:   s.results,
		Decks:         collection,
		Messaging:     messagingService,
		Clock:         s.clock,
		UUIDGenerator: uuid.New(),
		Logger:        logger,
	})
	s.Require().NoError(err)

	s.dispatcher, err = New(&Config{
		GameService:     s.gameService,
		Messaging:       messagingService,
		LeaderboardSize: 5,
		Logger:          logger,
	})
	s.Require().NoError(err)

	s.channel = &channelLog{}
	s.ctx = context.Background()
	s.alice = models.Identity{Nick: "alice", User: "alice", Host: "test"}
	s.bob = models.Identity{Nick: "bob", User: "bob", Host: "test"}
	s.carol = models.Identity{Nick: "carol", User: "carol", Host: "test"}
}

func (s *DispatcherTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func (s *DispatcherTestSuite) run(actor models.Identity, line string) *Reply {
	cmd, err := ParseLine(line)
	s.Require().NoError(err)
	cmd.ChannelID = "channel-1"
	cmd.Actor = actor

	reply, err := s.dispatcher.Dispatch(s.ctx, cmd, s.channel)
	s.Require().NoError(err)
	s.Require().NotNil(reply)
	return reply
}

func (s *DispatcherTestSuite) currentGame() *game.Game {
	out, err := s.gameService.GetGame(s.ctx, &game.GetGameInput{ChannelID: "channel-1"})
	s.Require().NoError(err)
	return out.Game
}

// startRound starts a game with three players and waits for the first round
func (s *DispatcherTestSuite) startRound() *game.Game {
	s.run(s.alice, "start")
	s.run(s.bob, "join")
	s.run(s.carol, "join")
	s.clock.Advance(game.DefaultRules().TimeBetweenRounds)

	g := s.currentGame()
	s.Require().Equal(1, g.Snapshot().Round)
	return g
}

func (s *DispatcherTestSuite) playerView(g *game.Game, identity models.Identity) game.PlayerView {
	for _, view := range g.Snapshot().Players {
		if view.Identity.Key() == identity.Key() {
			return view
		}
	}
	s.FailNow("player not found", identity.Nick)
	return game.PlayerView{}
}

func (s *DispatcherTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.Error(err)

	_, err = New(&Config{})
	s.Error(err)

	_, err = New(&Config{GameService: s.gameService})
	s.Error(err)
}

func (s *DispatcherTestSuite) TestDispatchNeedsChannel() {
	_, err := s.dispatcher.Dispatch(s.ctx, &Command{Action: ActionStatus}, s.channel)
	s.ErrorIs(err, game.ErrMissingChannelID)

	_, err = s.dispatcher.Dispatch(s.ctx, &Command{Action: "dance", ChannelID: "channel-1"}, s.channel)
	s.Error(err)
}

func (s *DispatcherTestSuite) TestStartWithOptions() {
	reply := s.run(s.alice, "start vote 5 TEST1")
	s.Equal("Game started.", reply.Message)

	snapshot := s.currentGame().Snapshot()
	s.Equal(models.WinModeVote, snapshot.Mode)
	s.Equal(5, snapshot.PointLimit)
	s.Len(snapshot.Players, 1)
	s.True(s.channel.contains("There is no Card Czar in this game."))

	reply = s.run(s.bob, "start")
	s.Equal("A game is already running. Use join to join the game.", reply.Message)
}

func (s *DispatcherTestSuite) TestJoinReplies() {
	reply := s.run(s.bob, "join")
	s.Equal("Could Not Join", reply.Title)
	s.Contains(reply.Message, "bob")

	s.run(s.alice, "start")

	reply = s.run(s.bob, "j")
	s.Empty(reply.Title)
	s.NotEmpty(reply.Message)
	s.True(s.channel.contains("bob has joined the game."))

	reply = s.run(s.bob, "join")
	s.Equal("Could Not Join", reply.Title)
	s.Contains(reply.Message, "bob")
}

func (s *DispatcherTestSuite) TestCommandsWithoutGame() {
	for _, line := range []string{"status", "pick 1", "cards", "pause", "stop"} {
		reply := s.run(s.alice, line)
		s.Equal("No game running. Start one with start.", reply.Message, line)
	}
}

func (s *DispatcherTestSuite) TestPickPlaysCard() {
	g := s.startRound()

	reply := s.run(s.bob, "pick x")
	s.Equal("Usage: pick <number> [number...]", reply.Message)
	s.False(s.playerView(g, s.bob).HasPlayed)

	reply = s.run(s.bob, "0")
	s.Empty(reply.Message)
	s.True(s.playerView(g, s.bob).HasPlayed)
	s.Equal(9, s.playerView(g, s.bob).HandSize)
}

func (s *DispatcherTestSuite) TestRejectedPickIsNotAnError() {
	s.startRound()

	// alice judges the first round
	reply := s.run(s.alice, "pick 0")
	s.Empty(reply.Message)
	s.NotEmpty(s.channel.notices[s.alice.Key()])
}

func (s *DispatcherTestSuite) TestNumbersOutsidePickingAreIgnored() {
	reply := s.run(s.alice, "3")
	s.Empty(reply.Message)

	g := s.startRound()
	s.run(s.carol, "pause")
	s.Require().True(g.Snapshot().Paused)

	before := len(s.channel.notices[s.bob.Key()])
	reply = s.run(s.bob, "0")
	s.Empty(reply.Message)
	s.Len(s.channel.notices[s.bob.Key()], before)
	s.False(s.playerView(g, s.bob).HasPlayed)

	dave := models.Identity{Nick: "dave", User: "dave", Host: "test"}
	reply = s.run(dave, "1")
	s.Empty(reply.Message)

	reply = s.run(dave, "pick 1")
	s.Equal("dave is not in the game.", reply.Message)

	s.run(s.bob, "pick 0")
	s.Len(s.channel.notices[s.bob.Key()], before+1)
	s.Equal("Game is currently paused.", s.channel.notices[s.bob.Key()][before])
}

func (s *DispatcherTestSuite) TestCoinNeedsTwoNumbers() {
	s.startRound()

	reply := s.run(s.bob, "coin 1")
	s.Equal("Usage: coin <heads> <tails>", reply.Message)
}

func (s *DispatcherTestSuite) TestStatusAndPlayersAnnounce() {
	s.startRound()

	s.run(s.bob, "status")
	s.True(s.channel.contains("Status: alice is the Card Czar."))

	s.run(s.bob, "list")
	s.True(s.channel.contains("Players currently in the game: alice, bob, carol"))
}

func (s *DispatcherTestSuite) TestPauseAndResume() {
	g := s.startRound()

	s.run(s.carol, "pause")
	s.True(g.Snapshot().Paused)

	s.run(s.carol, "resume")
	s.False(g.Snapshot().Paused)
}

func (s *DispatcherTestSuite) TestKick() {
	s.run(s.alice, "start")
	s.run(s.bob, "join")

	reply := s.run(s.alice, "kick")
	s.Equal("Usage: kick <player>", reply.Message)

	reply, err := s.dispatcher.Dispatch(s.ctx, &Command{
		Action:    ActionKick,
		ChannelID: "channel-1",
		Actor:     s.alice,
		Target:    &s.bob,
	}, s.channel)
	s.Require().NoError(err)
	s.Equal("bob was removed from the game.", reply.Message)

	reply = s.run(s.bob, "join")
	s.Equal("Could Not Join", reply.Title)
	s.Contains(reply.Message, "removed")
}

func (s *DispatcherTestSuite) TestLeaveAndNick() {
	s.run(s.alice, "start")
	s.run(s.bob, "join")

	reply := s.run(s.bob, "nick bobby")
	s.Equal("You are now known as bobby.", reply.Message)
	s.Equal([]string{"alice", "bobby"}, s.currentGame().PlayerNicks())

	reply = s.run(s.carol, "leave")
	s.Equal("You are not in the game.", reply.Message)

	reply = s.run(s.bob, "quit")
	s.Equal("You left the game.", reply.Message)
	s.Equal([]string{"alice"}, s.currentGame().PlayerNicks())
}

func (s *DispatcherTestSuite) TestStop() {
	s.run(s.alice, "start")

	reply := s.run(s.alice, "stop")
	s.Equal("Game stopped.", reply.Message)
	s.True(s.channel.contains("alice stopped the game."))

	_, err := s.gameService.GetGame(s.ctx, &game.GetGameInput{ChannelID: "channel-1"})
	s.ErrorIs(err, game.ErrGameNotFound)
}

func (s *DispatcherTestSuite) TestLeaderboard() {
	reply := s.run(s.alice, "leaderboard")
	s.True(reply.Public)
	s.Equal("No finished games yet. Go be terrible!", reply.Message)

	err := s.results.SaveResult(s.ctx, &results.SaveResultInput{
		Result: &models.GameResult{
			ID:        "game-1",
			ChannelID: "channel-1",
			Mode:      models.WinModeJudge,
			Rounds:    4,
			Scores: []models.Score{
				{IdentityKey: s.alice.Key(), Nick: "alice", Points: 3},
				{IdentityKey: s.bob.Key(), Nick: "bob", Points: 1},
			},
			EndedAt: s.clock.Now(),
		},
	})
	s.Require().NoError(err)

	reply = s.run(s.alice, "top")
	s.True(reply.Public)
	s.NotEmpty(reply.Title)
	s.Equal("🥇 **alice**: 3 points (1 game)\n🥈 **bob**: 1 points (1 game)", reply.Message)
}
