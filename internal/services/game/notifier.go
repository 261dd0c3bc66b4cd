package game

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go github.com/KirkDiggler/czar/internal/services/game Notifier

import (
	"context"

	"github.com/KirkDiggler/czar/internal/models"
)

// Notifier delivers game output to the chat transport
type Notifier interface {
	// Announce sends a message to the whole channel
	Announce(ctx context.Context, message string) error

	// Notice sends a private message to one player
	Notice(ctx context.Context, identity models.Identity, message string) error

	// SetVoice marks players as taking part in the game, or clears the mark
	SetVoice(ctx context.Context, identities []models.Identity, voiced bool) error
}
