package game

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/common/clock"
	"github.com/KirkDiggler/czar/internal/common/uuid"
	"github.com/KirkDiggler/czar/internal/decks"
	"github.com/KirkDiggler/czar/internal/models"
	resultsRepo "github.com/KirkDiggler/czar/internal/repositories/results"
	"github.com/KirkDiggler/czar/internal/services/messaging"
)

// saveTimeout bounds how long saving a finished game may take
const saveTimeout = 5 * time.Second

// service implements the Service interface
type service struct {
	rules         Rules
	resultsRepo   resultsRepo.Repository
	decks         *decks.Collection
	messaging     messaging.Service
	clock         clock.Clock
	uuidGenerator uuid.UUID
	log           logrus.FieldLogger

	mu    sync.Mutex
	games map[string]*Game
}

// NewService creates a new game service
func NewService(cfg *ServiceConfig) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.ResultsRepo == nil {
		return nil, ErrNilResultsRepo
	}
	if cfg.Decks == nil {
		return nil, ErrNilDecks
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	rules := cfg.Rules
	if rules.Mode == "" {
		rules.Mode = models.WinModeJudge
	}
	if err := validateRules(rules); err != nil {
		return nil, err
	}

	var logger logrus.FieldLogger = logrus.StandardLogger()
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	return &service{
		rules:         rules,
		resultsRepo:   cfg.ResultsRepo,
		decks:         cfg.Decks,
		messaging:     cfg.Messaging,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		log:           logger,
		games:         make(map[string]*Game),
	}, nil
}

// StartGame creates and starts a game in a channel
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, ErrMissingChannelID
	}
	if input.Notifier == nil {
		return nil, ErrNilNotifier
	}

	g, err := New(&Config{
		ChannelID:     input.ChannelID,
		Rules:         s.rules,
		Decks:         s.decks,
		Notifier:      input.Notifier,
		Messaging:     s.messaging,
		Clock:         s.clock,
		UUIDGenerator: s.uuidGenerator,
		Logger:        s.log,
		OnStop:        s.onStop,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, ok := s.games[input.ChannelID]; ok {
		s.mu.Unlock()
		return nil, ErrGameAlreadyExists
	}
	s.games[input.ChannelID] = g
	s.mu.Unlock()

	var players []models.Identity
	if input.Starter != (models.Identity{}) {
		players = append(players, input.Starter)
	}

	err = g.Start(ctx, StartOptions{
		Mode:       input.Mode,
		PointLimit: input.PointLimit,
		Decks:      input.Decks,
		Players:    players,
	})
	if err != nil {
		return nil, err
	}

	return &StartGameOutput{
		Game: g,
	}, nil
}

// onStop forgets a stopped game and records its result
func (s *service) onStop(result *models.GameResult) {
	s.mu.Lock()
	if g, ok := s.games[result.ChannelID]; ok && g.ID() == result.ID {
		delete(s.games, result.ChannelID)
	}
	s.mu.Unlock()

	if result.Rounds == 0 || len(result.Scores) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := s.resultsRepo.SaveResult(ctx, &resultsRepo.SaveResultInput{
		Result: result,
	})
	if err != nil {
		s.log.WithError(err).WithField("game_id", result.ID).Error("failed to save game result")
	}
}

// StopGame stops the game running in a channel
func (s *service) StopGame(ctx context.Context, input *StopGameInput) (*StopGameOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, ErrMissingChannelID
	}

	g, err := s.game(input.ChannelID)
	if err != nil {
		return nil, err
	}
	if err := g.Stop(ctx, input.Actor); err != nil {
		return nil, err
	}

	g.lock()
	result := g.result()
	g.unlock()

	return &StopGameOutput{
		Result: result,
	}, nil
}

// GetGame returns the game running in a channel
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, ErrMissingChannelID
	}

	g, err := s.game(input.ChannelID)
	if err != nil {
		return nil, err
	}

	return &GetGameOutput{
		Game: g,
	}, nil
}

// JoinGame adds a player to the game running in a channel
func (s *service) JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, ErrMissingChannelID
	}

	g, err := s.game(input.ChannelID)
	if err != nil {
		return nil, err
	}

	rejoined, err := g.AddPlayer(ctx, input.Player)
	if err != nil {
		return nil, err
	}

	return &JoinGameOutput{
		Rejoined: rejoined,
		State:    g.Snapshot().State,
	}, nil
}

// LeaveGame removes a player from the game running in a channel
func (s *service) LeaveGame(ctx context.Context, input *LeaveGameInput) (*LeaveGameOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, ErrMissingChannelID
	}

	g, err := s.game(input.ChannelID)
	if err != nil {
		return nil, err
	}

	err = g.RemovePlayers(ctx, []models.Identity{input.Player}, RemoveOptions{})
	if err != nil {
		if IsKind(err, KindGuard) {
			return &LeaveGameOutput{Left: false}, nil
		}
		return nil, err
	}

	return &LeaveGameOutput{
		Left: true,
	}, nil
}

// GetLeaderboard returns the all-time point totals of a channel
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, ErrMissingChannelID
	}

	out, err := s.resultsRepo.GetLeaderboard(ctx, &resultsRepo.GetLeaderboardInput{
		ChannelID: input.ChannelID,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &GetLeaderboardOutput{
		Entries: out.Entries,
	}, nil
}

func (s *service) game(channelID string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[channelID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}
