package models

import (
	"time"
)

// GameState represents the current phase of a game
type GameState string

const (
	// GameStateWaiting indicates a game is waiting for enough players
	GameStateWaiting GameState = "Waiting"

	// GameStatePaused is both the delay before a round and a manual pause
	GameStatePaused GameState = "Paused"

	// GameStatePlayable indicates players can submit answers
	GameStatePlayable GameState = "Playable"

	// GameStatePlayed indicates entries are revealed and a winner is chosen
	GameStatePlayed GameState = "Played"

	// GameStateRoundEnd is the transient cleanup state
	GameStateRoundEnd GameState = "RoundEnd"

	// GameStateStopped indicates the game is over
	GameStateStopped GameState = "Stopped"
)

// IsRunning reports whether a round is in progress and could be paused
func (s GameState) IsRunning() bool {
	return s == GameStatePlayable || s == GameStatePlayed || s == GameStateRoundEnd
}

// IsStopped reports whether the game has ended
func (s GameState) IsStopped() bool {
	return s == GameStateStopped
}

// WinMode selects how round winners are chosen
type WinMode string

const (
	// WinModeJudge has a rotating czar pick the winner
	WinModeJudge WinMode = "judge"

	// WinModeVote has every player vote for a winner
	WinModeVote WinMode = "vote"
)

// Score is one player's final points in a game
type Score struct {
	IdentityKey string
	Nick        string
	Points      int
}

// GameResult is the record of a finished game
type GameResult struct {
	// ID is the unique identifier for the game
	ID string

	// ChannelID is the channel the game was played in
	ChannelID string

	// Mode is how winners were chosen
	Mode WinMode

	// Rounds is the number of rounds played
	Rounds int

	// PointLimit is the score needed to win, 0 for unlimited
	PointLimit int

	// Decks are the codes of the decks that were loaded
	Decks []string

	// Scores are the final scores, highest first
	Scores []Score

	// StartedAt is when the first round began
	StartedAt time.Time

	// EndedAt is when the game was stopped
	EndedAt time.Time
}

// LeaderboardEntry is a player's all-time total in a channel
type LeaderboardEntry struct {
	IdentityKey string
	Nick        string
	Points      int
	Games       int
}
