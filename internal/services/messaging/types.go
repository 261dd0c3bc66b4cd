package messaging

import (
	"math/rand"

	"github.com/KirkDiggler/czar/internal/models"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// JoinErrorType is why a player could not join
type JoinErrorType string

const (
	JoinErrorNoGame        JoinErrorType = "no_game"
	JoinErrorAlreadyJoined JoinErrorType = "already_joined"
	JoinErrorBanned        JoinErrorType = "banned"
	JoinErrorStopped       JoinErrorType = "stopped"
)

// ServiceConfig holds configuration for the messaging service
type ServiceConfig struct {
	// Rand picks between message variants; seeded from the clock when nil
	Rand *rand.Rand
}

// GetJoinGameMessageInput contains parameters for getting a join game message
type GetJoinGameMessageInput struct {
	// PlayerName is the name of the player joining
	PlayerName string

	// GameState is the current state of the game
	GameState models.GameState

	// Rejoined is set when the player is coming back to the same game
	Rejoined bool

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetJoinGameMessageOutput contains the result of getting a join game message
type GetJoinGameMessageOutput struct {
	Message string

	// Tone is the tone of the message
	Tone MessageTone
}

// GetJoinGameErrorMessageInput contains parameters for a join error message
type GetJoinGameErrorMessageInput struct {
	PlayerName string
	ErrorType  JoinErrorType
}

// GetJoinGameErrorMessageOutput contains a join error message
type GetJoinGameErrorMessageOutput struct {
	Title   string
	Message string
}

// GetWinModeMessageInput contains parameters for the win mode message
type GetWinModeMessageInput struct {
	Mode models.WinMode
}

// GetWinModeMessageOutput contains the win mode message
type GetWinModeMessageOutput struct {
	Message string
}

// GetStreakMessageInput contains parameters for a streak message
type GetStreakMessageInput struct {
	PlayerName string

	// Streak is the number of rounds the player has won in a row
	Streak int
}

// GetStreakMessageOutput contains a streak message
type GetStreakMessageOutput struct {
	// Message is empty when the streak is not worth mentioning
	Message string
}

// GetGameOverMessageInput contains parameters for the game over message
type GetGameOverMessageInput struct {
	WinnerName string
	PointLimit int
}

// GetGameOverMessageOutput contains the game over message
type GetGameOverMessageOutput struct {
	Message string
	Tone    MessageTone
}

// LeaderboardEntry is one line of a leaderboard
type LeaderboardEntry struct {
	PlayerName string
	Points     int
	Games      int
}

// GetLeaderboardMessageInput contains parameters for a leaderboard message
type GetLeaderboardMessageInput struct {
	Entries []LeaderboardEntry
}

// GetLeaderboardMessageOutput contains a leaderboard message
type GetLeaderboardMessageOutput struct {
	Title   string
	Message string
}
