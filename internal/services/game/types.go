package game

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/common/clock"
	"github.com/KirkDiggler/czar/internal/common/uuid"
	"github.com/KirkDiggler/czar/internal/decks"
	"github.com/KirkDiggler/czar/internal/models"
	resultsRepo "github.com/KirkDiggler/czar/internal/repositories/results"
	"github.com/KirkDiggler/czar/internal/services/messaging"
)

// Rules are the tunable limits of a game
type Rules struct {
	// Mode is the default win mode when a game does not pick one
	Mode models.WinMode

	// TimeLimit is how long players have to play cards or pick a winner
	TimeLimit time.Duration

	// TimeBetweenRounds is the pause before each round starts
	TimeBetweenRounds time.Duration

	// TimeWaitForPlayers is how long a game waits for enough players before
	// stopping. Zero waits forever.
	TimeWaitForPlayers time.Duration

	// CoolOff is the grace window after the last play or vote. Zero resolves immediately.
	CoolOff time.Duration

	// MaxIdleRounds removes players after this many idle rounds. Zero disables it.
	MaxIdleRounds int

	// HandSize is the number of answer cards dealt to each player
	HandSize int

	// MinPlayers is the number of players needed to play a round
	MinPlayers int

	// FirstRoundMinPlayers overrides MinPlayers for the first round when set
	FirstRoundMinPlayers int

	// MaxCoinUses is how many coin flips each player gets per game. Zero disables coin.
	MaxCoinUses int

	// PointLimit is the default score needed to win. Zero plays forever.
	PointLimit int

	// StopOnLastPlayerLeave stops the game when the roster empties
	StopOnLastPlayerLeave bool

	// WaitFromLastJoin restarts the wait for players on every join
	WaitFromLastJoin bool

	// VoicePlayers marks players in the channel while they are in a game
	VoicePlayers bool
}

// DefaultRules returns the rules used when none are configured
func DefaultRules() Rules {
	return Rules{
		Mode:               models.WinModeJudge,
		TimeLimit:          120 * time.Second,
		TimeBetweenRounds:  10 * time.Second,
		TimeWaitForPlayers: 180 * time.Second,
		CoolOff:            3 * time.Second,
		MaxIdleRounds:      2,
		HandSize:           10,
		MinPlayers:         3,
		MaxCoinUses:        1,
	}
}

// Config holds configuration for a single game
type Config struct {
	// ChannelID is the channel the game is played in
	ChannelID string

	Rules Rules

	// Service dependencies
	Decks         *decks.Collection
	Notifier      Notifier
	Messaging     messaging.Service
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// Rand shuffles decks and entries; seeded from the clock when nil
	Rand *rand.Rand

	// Logger defaults to the standard logrus logger
	Logger logrus.FieldLogger

	// OnStop is called with the result once the game has stopped
	OnStop func(result *models.GameResult)
}

// StartOptions are chosen by whoever starts a game
type StartOptions struct {
	// Mode overrides the default win mode
	Mode models.WinMode

	// PointLimit overrides the default point limit when positive
	PointLimit int

	// Decks are deck selectors: ~group, CODE, +CODE or -CODE
	Decks []string

	// Players join right after the game is announced
	Players []models.Identity
}

// RemoveOptions control how a player leaves
type RemoveOptions struct {
	// Silent skips the channel announcement
	Silent bool

	// Left is set when the player left the channel, so there is nothing to devoice
	Left bool
}

// PointsStage selects which scores ShowPoints prints
type PointsStage string

const (
	PointsStageStart PointsStage = "start"
	PointsStageRound PointsStage = "round"
	PointsStageFinal PointsStage = "final"
)

// CardCounts are the number of cards of one kind in each location
type CardCounts struct {
	Draw    int
	Discard int
	Hands   int
	Table   int
}

// Total returns the number of cards across all locations
func (c CardCounts) Total() int {
	return c.Draw + c.Discard + c.Hands + c.Table
}

// PlayerView is a read-only view of a player
type PlayerView struct {
	Identity       models.Identity
	IsCzar         bool
	HasPlayed      bool
	HasVoted       bool
	Points         int
	InactiveRounds int
	HandSize       int
}

// Snapshot is a read-only view of a game
type Snapshot struct {
	ID         string
	ChannelID  string
	State      models.GameState
	Paused     bool
	Mode       models.WinMode
	Round      int
	PointLimit int
	Czar       *models.Identity
	Question   string
	Entries    int
	Players    []PlayerView
	Left       []PlayerView
	Scores     []models.Score
	Questions  CardCounts
	Answers    CardCounts
	CoolOff    bool
}

// ServiceConfig holds configuration for the game service
type ServiceConfig struct {
	Rules Rules

	// Repository dependencies
	ResultsRepo resultsRepo.Repository

	// Service dependencies
	Decks         *decks.Collection
	Messaging     messaging.Service
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Logger        logrus.FieldLogger
}

// StartGameInput contains parameters for starting a game in a channel
type StartGameInput struct {
	ChannelID string

	// Starter joins the game right away
	Starter models.Identity

	// Notifier delivers the game's messages to the channel
	Notifier Notifier

	Mode       models.WinMode
	PointLimit int
	Decks      []string
}

// StartGameOutput contains the result of starting a game
type StartGameOutput struct {
	Game *Game
}

// StopGameInput contains parameters for stopping a game
type StopGameInput struct {
	ChannelID string

	// Actor is who stopped the game, nil for the system
	Actor *models.Identity
}

// StopGameOutput contains the result of stopping a game
type StopGameOutput struct {
	Result *models.GameResult
}

// GetGameInput contains parameters for finding a channel's game
type GetGameInput struct {
	ChannelID string
}

// GetGameOutput contains the channel's running game
type GetGameOutput struct {
	Game *Game
}

// JoinGameInput contains parameters for joining a channel's game
type JoinGameInput struct {
	ChannelID string
	Player    models.Identity
}

// JoinGameOutput contains the result of joining a game
type JoinGameOutput struct {
	// Rejoined is set when the player came back to the same game
	Rejoined bool

	State models.GameState
}

// LeaveGameInput contains parameters for leaving a channel's game
type LeaveGameInput struct {
	ChannelID string
	Player    models.Identity
}

// LeaveGameOutput contains the result of leaving a game
type LeaveGameOutput struct {
	Left bool
}

// GetLeaderboardInput contains parameters for the all-time leaderboard
type GetLeaderboardInput struct {
	ChannelID string
	Limit     int
}

// GetLeaderboardOutput contains the all-time leaderboard
type GetLeaderboardOutput struct {
	Entries []*models.LeaderboardEntry
}
