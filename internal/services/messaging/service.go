package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/czar/internal/models"
)

// service implements the Service interface
type service struct {
	// Random number generator for selecting random messages, shared by every game
	mu   sync.Mutex
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	r := config.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &service{
		rand: r,
	}, nil
}

// GetJoinGameMessage returns a reply for a player who joined a game
func (s *service) GetJoinGameMessage(ctx context.Context, input *GetJoinGameMessageInput) (*GetJoinGameMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	tone := input.PreferredTone
	if tone == "" {
		tone = ToneFunny
	}

	var messages []string
	switch {
	case input.Rejoined:
		messages = []string{
			"Welcome back! Your cards and your shame were kept warm for you.",
			"Look who crawled back. Your points missed you.",
			"The prodigal player returns! Everything is right where you left it.",
		}
	case input.GameState == models.GameStateWaiting:
		messages = []string{
			"You're in! Now go find more horrible people so we can start.",
			"Welcome aboard. We just need a few more warm bodies.",
			"Seat taken. Waiting for the rest of the degenerates to show up.",
		}
	case input.GameState == models.GameStatePlayable || input.GameState == models.GameStatePlayed:
		messages = []string{
			"You're in! Cards are dealt at the start of the next round.",
			"Jumping in mid-round? Bold. Your hand arrives next round.",
			"Welcome! Sit tight, you'll get cards when this round wraps up.",
		}
	default:
		messages = []string{
			"Welcome to the game! Try not to be too terrible. Or do.",
			"Fresh meat! Er, I mean... welcome to the game!",
			"A new challenger appears! Your cards are on the way.",
		}
	}

	return &GetJoinGameMessageOutput{
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}

// GetJoinGameErrorMessage returns a reply for a player who could not join
func (s *service) GetJoinGameErrorMessage(ctx context.Context, input *GetJoinGameErrorMessageInput) (*GetJoinGameErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var messages []string
	switch input.ErrorType {
	case JoinErrorNoGame:
		messages = []string{
			fmt.Sprintf("There's no game running here, %s. Start one!", input.PlayerName),
			fmt.Sprintf("Nothing to join yet, %s. Be the change you want to see.", input.PlayerName),
		}
	case JoinErrorAlreadyJoined:
		messages = []string{
			fmt.Sprintf("%s, you're already in this game! One hand per horrible person.", input.PlayerName),
			fmt.Sprintf("Easy there, %s! You can't join twice.", input.PlayerName),
		}
	case JoinErrorBanned:
		messages = []string{
			fmt.Sprintf("Sorry %s, you were removed from this game and can't come back.", input.PlayerName),
		}
	case JoinErrorStopped:
		messages = []string{
			fmt.Sprintf("Game's over, %s! Start a new one?", input.PlayerName),
		}
	default:
		messages = []string{
			fmt.Sprintf("Sorry %s, you can't join the game right now. Try again later!", input.PlayerName),
		}
	}

	return &GetJoinGameErrorMessageOutput{
		Title:   "Could Not Join",
		Message: s.pick(messages),
	}, nil
}

// GetWinModeMessage explains how winners are chosen in a game
func (s *service) GetWinModeMessage(ctx context.Context, input *GetWinModeMessageInput) (*GetWinModeMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	switch input.Mode {
	case models.WinModeVote:
		return &GetWinModeMessageOutput{
			Message: "There is no Card Czar in this game. Winners are by vote.",
		}, nil
	case models.WinModeJudge, "":
		return &GetWinModeMessageOutput{
			Message: "There is a Card Czar in this game.",
		}, nil
	default:
		return nil, fmt.Errorf("unknown win mode %q", input.Mode)
	}
}

// GetStreakMessage returns the cheer for a player winning several rounds in a row
func (s *service) GetStreakMessage(ctx context.Context, input *GetStreakMessageInput) (*GetStreakMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var message string
	switch input.Streak {
	case 2:
		message = fmt.Sprintf("Two in a row! Go %s", input.PlayerName)
	case 3:
		message = fmt.Sprintf("That's three! %s's on a roll.", input.PlayerName)
	case 4:
		message = "Four in a row??? Who can stop this mad person?"
	case 5:
		message = fmt.Sprintf("%s, I'm speaking as a friend. It's not healthy to be this good at CAH.", input.PlayerName)
	}

	return &GetStreakMessageOutput{
		Message: message,
	}, nil
}

// GetGameOverMessage returns the announcement for a player reaching the point limit
func (s *service) GetGameOverMessage(ctx context.Context, input *GetGameOverMessageInput) (*GetGameOverMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	cheers := []string{
		"Congratulations!",
		"What a horrible, horrible person.",
		"Someone get this monster a trophy.",
	}

	return &GetGameOverMessageOutput{
		Message: fmt.Sprintf("%s has reached %d awesome points and is the winner of the game! %s",
			input.WinnerName, input.PointLimit, s.pick(cheers)),
		Tone: ToneCelebration,
	}, nil
}

// GetLeaderboardMessage renders the all-time leaderboard of a channel
func (s *service) GetLeaderboardMessage(ctx context.Context, input *GetLeaderboardMessageInput) (*GetLeaderboardMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	titles := []string{
		"🏆 Hall of Shame",
		"🏆 The Most Horrible People",
		"🏆 Leaderboard",
	}

	if len(input.Entries) == 0 {
		return &GetLeaderboardMessageOutput{
			Title:   s.pick(titles),
			Message: "No finished games yet. Go be terrible!",
		}, nil
	}

	var sb strings.Builder
	for i, entry := range input.Entries {
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		games := "games"
		if entry.Games == 1 {
			games = "game"
		}
		sb.WriteString(fmt.Sprintf("%s **%s**: %d points (%d %s)\n", medal, entry.PlayerName, entry.Points, entry.Games, games))
	}

	return &GetLeaderboardMessageOutput{
		Title:   s.pick(titles),
		Message: strings.TrimSuffix(sb.String(), "\n"),
	}, nil
}

func (s *service) pick(messages []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return messages[s.rand.Intn(len(messages))]
}
