package game

import "context"

// Service keeps one game per channel
type Service interface {
	// StartGame creates and starts a game in a channel
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// StopGame stops the game running in a channel
	StopGame(ctx context.Context, input *StopGameInput) (*StopGameOutput, error)

	// GetGame returns the game running in a channel
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// JoinGame adds a player to the game running in a channel
	JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error)

	// LeaveGame removes a player from the game running in a channel
	LeaveGame(ctx context.Context, input *LeaveGameInput) (*LeaveGameOutput, error)

	// GetLeaderboard returns the all-time point totals of a channel
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
