package results

import "github.com/KirkDiggler/czar/internal/models"

type SaveResultInput struct {
	Result *models.GameResult
}

type GetResultInput struct {
	GameID string
}

type GetChannelResultsInput struct {
	ChannelID string

	// Limit caps the number of results, newest first. Zero returns all.
	Limit int
}

type GetChannelResultsOutput struct {
	Results []*models.GameResult
}

type GetLeaderboardInput struct {
	ChannelID string

	// Limit caps the number of entries. Zero returns all.
	Limit int
}

type GetLeaderboardOutput struct {
	Entries []*models.LeaderboardEntry
}
