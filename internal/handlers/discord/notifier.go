package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/models"
)

// sender is the part of the Discord session the notifier uses
type sender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// ChannelNotifier delivers a game's output to one Discord channel. Notices
// are sent as direct messages and the player role stands in for voice.
type ChannelNotifier struct {
	session      sender
	channelID    string
	playerRoleID string
	log          logrus.FieldLogger
}

// NotifierConfig holds configuration for a channel notifier
type NotifierConfig struct {
	ChannelID string

	// PlayerRoleID is given to players while they are in the game. Empty disables it.
	PlayerRoleID string

	Logger logrus.FieldLogger
}

// NewChannelNotifier creates a notifier for one channel
func NewChannelNotifier(session sender, cfg *NotifierConfig) (*ChannelNotifier, error) {
	if session == nil {
		return nil, errors.New("session cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.ChannelID == "" {
		return nil, errors.New("channel ID cannot be empty")
	}

	var logger logrus.FieldLogger = logrus.StandardLogger()
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	return &ChannelNotifier{
		session:      session,
		channelID:    cfg.ChannelID,
		playerRoleID: cfg.PlayerRoleID,
		log:          logger.WithField("channel", cfg.ChannelID),
	}, nil
}

// Announce sends a message to the channel
func (n *ChannelNotifier) Announce(ctx context.Context, message string) error {
	if _, err := n.session.ChannelMessageSend(n.channelID, message, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send channel message: %w", err)
	}
	return nil
}

// Notice sends a direct message to a player
func (n *ChannelNotifier) Notice(ctx context.Context, identity models.Identity, message string) error {
	dm, err := n.session.UserChannelCreate(identity.User, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open direct message to %s: %w", identity.Nick, err)
	}
	if _, err := n.session.ChannelMessageSend(dm.ID, message, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send direct message to %s: %w", identity.Nick, err)
	}
	return nil
}

// SetVoice gives or takes the player role
func (n *ChannelNotifier) SetVoice(ctx context.Context, identities []models.Identity, voiced bool) error {
	if n.playerRoleID == "" {
		return nil
	}

	var errs []error
	for _, identity := range identities {
		var err error
		if voiced {
			err = n.session.GuildMemberRoleAdd(identity.Host, identity.User, n.playerRoleID, discordgo.WithContext(ctx))
		} else {
			err = n.session.GuildMemberRoleRemove(identity.Host, identity.User, n.playerRoleID, discordgo.WithContext(ctx))
		}
		if err != nil {
			n.log.WithError(err).WithField("player", identity.Key()).Warn("failed to update player role")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
