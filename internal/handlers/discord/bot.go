package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/handlers/commands"
	"github.com/KirkDiggler/czar/internal/services/game"
)

// Bot represents the Discord bot instance
type Bot struct {
	session     *discordgo.Session
	dispatcher  *commands.Dispatcher
	gameService game.Service
	config      *Config
	log         logrus.FieldLogger

	commandID string

	mu        sync.Mutex
	notifiers map[string]*ChannelNotifier
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Optional role given to players while they are in a game
	PlayerRoleID string

	Dispatcher  *commands.Dispatcher
	GameService game.Service
	Logger      logrus.FieldLogger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.Dispatcher == nil {
		return nil, errors.New("dispatcher cannot be nil")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	var logger logrus.FieldLogger = logrus.StandardLogger()
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	bot := &Bot{
		session:     session,
		dispatcher:  cfg.Dispatcher,
		gameService: cfg.GameService,
		config:      cfg,
		log:         logger.WithField("component", "discord"),
		notifiers:   make(map[string]*ChannelNotifier),
	}

	session.AddHandler(bot.handleInteraction)
	session.AddHandler(bot.handleChannelDelete)

	return bot, nil
}

// Start initializes the Discord connection and registers the command
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if b.config.GuildID != "" {
		b.log.WithField("guild", b.config.GuildID).Info("registering command for guild")
	} else {
		b.log.Info("registering command globally")
	}

	created, err := b.session.ApplicationCommandCreate(b.appID(), b.config.GuildID, applicationCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", CommandName, err)
	}
	b.commandID = created.ID

	b.log.WithField("command_id", created.ID).Info("bot is now running")
	return nil
}

// Stop removes the command and closes the Discord connection
func (b *Bot) Stop() error {
	if b.commandID != "" {
		if err := b.session.ApplicationCommandDelete(b.appID(), b.config.GuildID, b.commandID); err != nil {
			b.log.WithError(err).WithField("command_id", b.commandID).Warn("failed to delete command")
		}
	}

	return b.session.Close()
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	// Fall back to session user ID if application ID is not provided
	return b.session.State.User.ID
}

// notifier returns the notifier of a channel, creating it on first use
func (b *Bot) notifier(channelID string) (*ChannelNotifier, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n, ok := b.notifiers[channelID]; ok {
		return n, nil
	}
	n, err := NewChannelNotifier(b.session, &NotifierConfig{
		ChannelID:    channelID,
		PlayerRoleID: b.config.PlayerRoleID,
		Logger:       b.log,
	})
	if err != nil {
		return nil, err
	}
	b.notifiers[channelID] = n
	return n, nil
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != CommandName {
		return
	}

	log := b.log.WithField("channel", i.ChannelID)

	cmd, err := commandFromInteraction(data, i.ChannelID, i.GuildID, i.Member)
	if err != nil {
		if err := RespondWithError(s, i, err); err != nil {
			log.WithError(err).Error("failed to respond")
		}
		return
	}

	n, err := b.notifier(i.ChannelID)
	if err != nil {
		log.WithError(err).Error("failed to create notifier")
		return
	}

	reply, err := b.dispatcher.Dispatch(context.Background(), cmd, n)
	if err != nil {
		if err := RespondWithError(s, i, err); err != nil {
			log.WithError(err).Error("failed to respond")
		}
		return
	}

	if err := b.respond(s, i, reply); err != nil {
		log.WithError(err).WithField("action", cmd.Action).Error("failed to respond")
	}
}

// respond answers the interaction. Interactions always need an answer, so
// an empty reply is acknowledged with a short ephemeral message.
func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, reply *commands.Reply) error {
	switch {
	case reply.Title != "":
		return RespondWithEmbed(s, i, reply.Title, reply.Message, !reply.Public)
	case reply.Message != "":
		return RespondWithMessage(s, i, reply.Message, !reply.Public)
	default:
		return RespondWithMessage(s, i, "👍", true)
	}
}

// handleChannelDelete stops the game of a deleted channel
func (b *Bot) handleChannelDelete(s *discordgo.Session, c *discordgo.ChannelDelete) {
	b.mu.Lock()
	delete(b.notifiers, c.ID)
	b.mu.Unlock()

	_, err := b.gameService.StopGame(context.Background(), &game.StopGameInput{ChannelID: c.ID})
	if err != nil && !errors.Is(err, game.ErrGameNotFound) {
		b.log.WithError(err).WithField("channel", c.ID).Error("failed to stop game of deleted channel")
	}
}
