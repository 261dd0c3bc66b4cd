package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/alicebob/miniredis/v2"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/common/clock"
	"github.com/KirkDiggler/czar/internal/common/uuid"
	"github.com/KirkDiggler/czar/internal/config"
	"github.com/KirkDiggler/czar/internal/decks"
	"github.com/KirkDiggler/czar/internal/handlers/commands"
	"github.com/KirkDiggler/czar/internal/models"
	"github.com/KirkDiggler/czar/internal/repositories/results"
	"github.com/KirkDiggler/czar/internal/services/game"
	"github.com/KirkDiggler/czar/internal/services/messaging"
)

const consoleHost = "console"

func main() {
	envFile := flag.String("env", ".env", "file with environment defaults")
	channel := flag.String("channel", "#czar", "name of the pretend channel")
	useRedis := flag.Bool("redis", false, "keep results in the configured Redis instead of in memory")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		pterm.Fatal.Println(err)
	}
	logrus.SetLevel(cfg.LogLevel)
	log := logrus.StandardLogger()

	redisClient, closeRedis, err := newRedisClient(cfg, *useRedis)
	if err != nil {
		pterm.Fatal.Println(err)
	}
	defer closeRedis()

	resultsRepo, err := results.NewRedis(&results.Config{RedisClient: redisClient})
	if err != nil {
		pterm.Fatal.Println(err)
	}

	deckConfig, err := decks.LoadDir(cfg.DecksDir)
	if err != nil {
		pterm.Fatal.Println(err)
	}
	collection, err := decks.New(deckConfig)
	if err != nil {
		pterm.Fatal.Println(err)
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		pterm.Fatal.Println(err)
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
		pterm.Fatal.Println(err)
	}

	dispatcher, err := commands.New(&commands.Config{
		GameService:     gameSvc,
		Messaging:       messagingSvc,
		LeaderboardSize: cfg.LeaderboardSize,
		Logger:          log,
	})
	if err != nil {
		pterm.Fatal.Println(err)
	}

	_ = pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("C", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("zar", pterm.FgDarkGray.ToStyle()),
	).Render()
	pterm.Info.Printfln("Loaded %d decks. Type \"<nick>: <command>\" to play, \"help\" for commands, \"exit\" to quit.", len(collection.Codes()))

	c := &console{
		channel:    *channel,
		dispatcher: dispatcher,
		notifier:   newConsoleNotifier(*channel),
		players:    make(map[string]models.Identity),
	}
	c.run(context.Background(), bufio.NewScanner(os.Stdin))

	_, err = gameSvc.StopGame(context.Background(), &game.StopGameInput{ChannelID: *channel})
	if err != nil && !errors.Is(err, game.ErrGameNotFound) {
		log.WithError(err).Warn("failed to stop game")
	}
}

// newRedisClient connects to the configured Redis, or to one running in
// this process when results do not need to outlive the session
func newRedisClient(cfg *config.Config, useRedis bool) (*redis.Client, func(), error) {
	if useRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return client, func() { client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, func() {
		client.Close()
		mr.Close()
	}, nil
}

type console struct {
	channel    string
	dispatcher *commands.Dispatcher
	notifier   *consoleNotifier

	// players maps the name typed before the colon to the player's identity
	players map[string]models.Identity
}

func (c *console) run(ctx context.Context, scanner *bufio.Scanner) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit":
			return
		case "help":
			pterm.Println(commands.Help())
			continue
		}

		user, text, ok := strings.Cut(line, ":")
		user = strings.TrimSpace(user)
		if !ok || user == "" {
			pterm.Warning.Println("Type \"<nick>: <command>\", for example \"alice: start\"")
			continue
		}
		c.handle(ctx, user, text)
	}
}

func (c *console) handle(ctx context.Context, user, text string) {
	cmd, err := commands.ParseLine(text)
	if err != nil {
		pterm.Warning.Println(err)
		return
	}
	cmd.ChannelID = c.channel
	cmd.Actor = c.identity(user)
	if cmd.Action == commands.ActionKick && len(cmd.Args) > 0 {
		target := c.findByNick(cmd.Args[0])
		cmd.Target = &target
	}

	reply, err := c.dispatcher.Dispatch(ctx, cmd, c.notifier)
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	// the console name follows the nick whether or not a game is running
	if cmd.Action == commands.ActionNick && len(cmd.Args) == 1 {
		identity := c.players[user]
		identity.Nick = cmd.Args[0]
		c.players[user] = identity
	}
	c.notifier.reply(cmd.Actor.Nick, reply)
}

func (c *console) identity(user string) models.Identity {
	if identity, ok := c.players[user]; ok {
		return identity
	}
	identity := models.Identity{Nick: user, User: user, Host: consoleHost}
	c.players[user] = identity
	return identity
}

func (c *console) findByNick(nick string) models.Identity {
	for _, identity := range c.players {
		if strings.EqualFold(identity.Nick, nick) {
			return identity
		}
	}
	return c.identity(nick)
}
