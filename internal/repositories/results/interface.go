package results

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/czar/internal/repositories/results Repository

import (
	"context"

	"github.com/KirkDiggler/czar/internal/models"
)

// Repository defines the interface for finished game persistence
type Repository interface {
	// SaveResult persists a finished game and adds its scores to the channel leaderboard
	SaveResult(ctx context.Context, input *SaveResultInput) error

	// GetResult retrieves a finished game by ID
	GetResult(ctx context.Context, input *GetResultInput) (*models.GameResult, error)

	// GetChannelResults retrieves the most recent finished games of a channel
	GetChannelResults(ctx context.Context, input *GetChannelResultsInput) (*GetChannelResultsOutput, error)

	// GetLeaderboard retrieves the all-time point totals of a channel
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
