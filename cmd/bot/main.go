package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/common/clock"
	"github.com/KirkDiggler/czar/internal/common/uuid"
	"github.com/KirkDiggler/czar/internal/config"
	"github.com/KirkDiggler/czar/internal/decks"
	"github.com/KirkDiggler/czar/internal/handlers/commands"
	"github.com/KirkDiggler/czar/internal/handlers/discord"
	"github.com/KirkDiggler/czar/internal/repositories/results"
	"github.com/KirkDiggler/czar/internal/services/game"
	"github.com/KirkDiggler/czar/internal/services/messaging"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logrus.SetLevel(cfg.LogLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logrus.StandardLogger()

	if cfg.Discord.Token == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}

	resultsRepo, err := results.NewRedis(&results.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create results repository")
	}

	deckConfig, err := decks.LoadDir(cfg.DecksDir)
	if err != nil {
		log.WithError(err).WithField("dir", cfg.DecksDir).Fatal("Failed to load decks")
	}
	collection, err := decks.New(deckConfig)
	if err != nil {
		log.WithError(err).Fatal("Failed to build deck collection")
	}
	log.WithField("decks", len(collection.Codes())).Info("Decks loaded")

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		log.WithError(err).Fatal("Failed to create messaging service")
	}

	gameSvc, err := game.NewService(&game.ServiceConfig{
		Rules:         cfg.Rules,
		ResultsRepo:   resultsRepo,
		Decks:         collection,
		Messaging:     messagingSvc,
		Clock:         &clock.DefaultClock{},
		UUIDGenerator: uuid.New(),
		Logger:        log,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create game service")
	}

	dispatcher, err := commands.New(&commands.Config{
		GameService:     gameSvc,
		Messaging:       messagingSvc,
		LeaderboardSize: cfg.LeaderboardSize,
		Logger:          log,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create command dispatcher")
	}

	bot, err := discord.New(&discord.Config{
		Token:         cfg.Discord.Token,
		ApplicationID: cfg.Discord.ApplicationID,
		GuildID:       cfg.Discord.GuildID,
		PlayerRoleID:  cfg.Discord.PlayerRoleID,
		Dispatcher:    dispatcher,
		GameService:   gameSvc,
		Logger:        log,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create Discord bot")
	}

	if err := bot.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start Discord bot")
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	if err := bot.Stop(); err != nil {
		log.WithError(err).Error("Error stopping bot")
	}

	log.Info("Bot has been shut down")
}
