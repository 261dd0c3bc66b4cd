package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetJoinGameMessage returns a reply for a player who joined a game
	GetJoinGameMessage(ctx context.Context, input *GetJoinGameMessageInput) (*GetJoinGameMessageOutput, error)

	// GetJoinGameErrorMessage returns a reply for a player who could not join
	GetJoinGameErrorMessage(ctx context.Context, input *GetJoinGameErrorMessageInput) (*GetJoinGameErrorMessageOutput, error)

	// GetWinModeMessage explains how winners are chosen in a game
	GetWinModeMessage(ctx context.Context, input *GetWinModeMessageInput) (*GetWinModeMessageOutput, error)

	// GetStreakMessage returns the cheer for a player winning several rounds in a row
	GetStreakMessage(ctx context.Context, input *GetStreakMessageInput) (*GetStreakMessageOutput, error)

	// GetGameOverMessage returns the announcement for a player reaching the point limit
	GetGameOverMessage(ctx context.Context, input *GetGameOverMessageInput) (*GetGameOverMessageOutput, error)

	// GetLeaderboardMessage renders the all-time leaderboard of a channel
	GetLeaderboardMessage(ctx context.Context, input *GetLeaderboardMessageInput) (*GetLeaderboardMessageOutput, error)
}
