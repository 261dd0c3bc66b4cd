package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/services/game"
	"github.com/KirkDiggler/czar/internal/services/messaging"
)

// Config holds configuration for the dispatcher
type Config struct {
	GameService game.Service
	Messaging   messaging.Service

	// LeaderboardSize is how many players the leaderboard lists
	LeaderboardSize int

	Logger logrus.FieldLogger
}

// Dispatcher runs player commands against the game of their channel
type Dispatcher struct {
	gameService     game.Service
	messaging       messaging.Service
	leaderboardSize int
	log             logrus.FieldLogger
}

// Reply is the answer to the player who sent a command. Game output goes
// through the channel's notifier instead.
type Reply struct {
	Title   string
	Message string

	// Public replies are meant for the whole channel
	Public bool
}

// New creates a new dispatcher
func New(cfg *Config) (*Dispatcher, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}
	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	size := cfg.LeaderboardSize
	if size <= 0 {
		size = 10
	}

	var logger logrus.FieldLogger = logrus.StandardLogger()
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	return &Dispatcher{
		gameService:     cfg.GameService,
		messaging:       cfg.Messaging,
		leaderboardSize: size,
		log:             logger,
	}, nil
}

// Dispatch runs a command. Rejected game actions are not errors: the game
// already told the player, and the reply says nothing more unless the game
// stayed silent. The error is only set when the command could not be run.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd *Command, notifier game.Notifier) (*Reply, error) {
	if cmd == nil {
		return nil, errors.New("command cannot be nil")
	}
	if cmd.ChannelID == "" {
		return nil, game.ErrMissingChannelID
	}

	log := d.log.WithFields(logrus.Fields{
		"channel": cmd.ChannelID,
		"action":  cmd.Action,
		"player":  cmd.Actor.Key(),
	})
	log.Debug("dispatching command")

	var (
		reply *Reply
		err   error
	)
	switch cmd.Action {
	case ActionStart:
		reply, err = d.start(ctx, cmd, notifier)
	case ActionJoin:
		reply, err = d.join(ctx, cmd)
	case ActionLeaderboard:
		reply, err = d.leaderboard(ctx, cmd)
	case ActionStop, ActionLeave, ActionPick, ActionCoin, ActionCards, ActionStatus,
		ActionPoints, ActionPlayers, ActionPause, ActionResume, ActionKick, ActionNick:
		reply, err = d.inGame(ctx, cmd)
	default:
		return nil, fmt.Errorf("unknown action %q", cmd.Action)
	}

	var actionErr *game.ActionError
	switch {
	case err == nil:
		return reply, nil
	case cmd.FastPick && (errors.As(err, &actionErr) || errors.Is(err, game.ErrGameNotFound) || errors.Is(err, game.ErrGameNotStarted)):
		// a line of numbers is only a pick while there is something to pick
		return &Reply{}, nil
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrGameNotStarted):
		return &Reply{Message: "No game running. Start one with start."}, nil
	case errors.As(err, &actionErr):
		log.WithField("kind", actionErr.Kind).Debug(actionErr.Message)
		if actionErr.Kind == game.KindGuard {
			return &Reply{Message: actionErr.Message}, nil
		}
		return &Reply{}, nil
	default:
		log.WithError(err).Error("failed to run command")
		return nil, err
	}
}

func (d *Dispatcher) start(ctx context.Context, cmd *Command, notifier game.Notifier) (*Reply, error) {
	mode, pointLimit, selectors := startOptions(cmd.Args)

	_, err := d.gameService.StartGame(ctx, &game.StartGameInput{
		ChannelID:  cmd.ChannelID,
		Starter:    cmd.Actor,
		Notifier:   notifier,
		Mode:       mode,
		PointLimit: pointLimit,
		Decks:      selectors,
	})
	if errors.Is(err, game.ErrGameAlreadyExists) {
		return &Reply{Message: "A game is already running. Use join to join the game."}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Reply{Message: "Game started."}, nil
}

func (d *Dispatcher) join(ctx context.Context, cmd *Command) (*Reply, error) {
	out, err := d.gameService.JoinGame(ctx, &game.JoinGameInput{
		ChannelID: cmd.ChannelID,
		Player:    cmd.Actor,
	})
	if err != nil {
		errorType, ok := d.joinErrorType(ctx, cmd, err)
		if !ok {
			return nil, err
		}
		msg, msgErr := d.messaging.GetJoinGameErrorMessage(ctx, &messaging.GetJoinGameErrorMessageInput{
			PlayerName: cmd.Actor.Nick,
			ErrorType:  errorType,
		})
		if msgErr != nil {
			return nil, msgErr
		}
		return &Reply{Title: msg.Title, Message: msg.Message}, nil
	}

	msg, err := d.messaging.GetJoinGameMessage(ctx, &messaging.GetJoinGameMessageInput{
		PlayerName: cmd.Actor.Nick,
		GameState:  out.State,
		Rejoined:   out.Rejoined,
	})
	if err != nil {
		return nil, err
	}
	return &Reply{Message: msg.Message}, nil
}

// joinErrorType works out why a join was refused from the game's state
func (d *Dispatcher) joinErrorType(ctx context.Context, cmd *Command, err error) (messaging.JoinErrorType, bool) {
	if errors.Is(err, game.ErrGameNotFound) {
		return messaging.JoinErrorNoGame, true
	}
	if !game.IsKind(err, game.KindGuard) {
		return "", false
	}

	out, getErr := d.gameService.GetGame(ctx, &game.GetGameInput{ChannelID: cmd.ChannelID})
	if getErr != nil {
		return messaging.JoinErrorStopped, true
	}
	snapshot := out.Game.Snapshot()
	if snapshot.State.IsStopped() {
		return messaging.JoinErrorStopped, true
	}
	for _, player := range snapshot.Players {
		if player.Identity.Key() == cmd.Actor.Key() {
			return messaging.JoinErrorAlreadyJoined, true
		}
	}
	return messaging.JoinErrorBanned, true
}

func (d *Dispatcher) leaderboard(ctx context.Context, cmd *Command) (*Reply, error) {
	out, err := d.gameService.GetLeaderboard(ctx, &game.GetLeaderboardInput{
		ChannelID: cmd.ChannelID,
		Limit:     d.leaderboardSize,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]messaging.LeaderboardEntry, 0, len(out.Entries))
	for _, entry := range out.Entries {
		entries = append(entries, messaging.LeaderboardEntry{
			PlayerName: entry.Nick,
			Points:     entry.Points,
			Games:      entry.Games,
		})
	}

	msg, err := d.messaging.GetLeaderboardMessage(ctx, &messaging.GetLeaderboardMessageInput{
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	return &Reply{Title: msg.Title, Message: msg.Message, Public: true}, nil
}

// inGame runs the commands that need a running game
func (d *Dispatcher) inGame(ctx context.Context, cmd *Command) (*Reply, error) {
	out, err := d.gameService.GetGame(ctx, &game.GetGameInput{ChannelID: cmd.ChannelID})
	if err != nil {
		return nil, err
	}
	g := out.Game

	switch cmd.Action {
	case ActionStop:
		actor := cmd.Actor
		if _, err := d.gameService.StopGame(ctx, &game.StopGameInput{ChannelID: cmd.ChannelID, Actor: &actor}); err != nil {
			return nil, err
		}
		return &Reply{Message: "Game stopped."}, nil

	case ActionLeave:
		left, err := d.gameService.LeaveGame(ctx, &game.LeaveGameInput{ChannelID: cmd.ChannelID, Player: cmd.Actor})
		if err != nil {
			return nil, err
		}
		if !left.Left {
			return &Reply{Message: "You are not in the game."}, nil
		}
		return &Reply{Message: "You left the game."}, nil

	case ActionPick:
		indices, err := parseIndices(cmd.Args)
		if err != nil {
			return &Reply{Message: "Usage: pick <number> [number...]"}, nil
		}
		if err := g.Pick(ctx, cmd.Actor, indices, cmd.FastPick); err != nil {
			return nil, err
		}
		return &Reply{}, nil

	case ActionCoin:
		indices, err := parseIndices(cmd.Args)
		if err != nil || len(indices) != 2 {
			return &Reply{Message: "Usage: coin <heads> <tails>"}, nil
		}
		if err := g.Coin(ctx, cmd.Actor, indices[0], indices[1]); err != nil {
			return nil, err
		}
		return &Reply{}, nil

	case ActionCards:
		if err := g.ShowCards(ctx, cmd.Actor); err != nil {
			return nil, err
		}
		return &Reply{}, nil

	case ActionStatus:
		g.ShowStatus(ctx)
	case ActionPoints:
		g.ShowPoints(ctx, game.PointsStageRound)
	case ActionPlayers:
		g.ListPlayers(ctx)

	case ActionPause:
		if err := g.Pause(ctx); err != nil {
			return nil, err
		}
	case ActionResume:
		if err := g.Resume(ctx); err != nil {
			return nil, err
		}

	case ActionKick:
		if cmd.Target == nil {
			return &Reply{Message: "Usage: kick <player>"}, nil
		}
		if err := g.Kick(ctx, *cmd.Target); err != nil {
			return nil, err
		}
		return &Reply{Message: fmt.Sprintf("%s was removed from the game.", cmd.Target.Nick)}, nil

	case ActionNick:
		if len(cmd.Args) != 1 {
			return &Reply{Message: "Usage: nick <name>"}, nil
		}
		if !g.ChangeNick(cmd.Actor.Nick, cmd.Args[0]) {
			return &Reply{Message: "You are not in the game."}, nil
		}
		return &Reply{Message: "You are now known as " + cmd.Args[0] + "."}, nil
	}

	return &Reply{}, nil
}

// Help lists every action with its description
func Help() string {
	var sb strings.Builder
	for _, action := range Actions {
		sb.WriteString(fmt.Sprintf("%s: %s\n", action, action.Description()))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
