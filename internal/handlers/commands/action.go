package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/czar/internal/models"
)

// Action is a command a player can send to a channel's game
type Action string

const (
	ActionStart       Action = "start"
	ActionStop        Action = "stop"
	ActionJoin        Action = "join"
	ActionLeave       Action = "leave"
	ActionPick        Action = "pick"
	ActionCoin        Action = "coin"
	ActionCards       Action = "cards"
	ActionStatus      Action = "status"
	ActionPoints      Action = "points"
	ActionPlayers     Action = "players"
	ActionPause       Action = "pause"
	ActionResume      Action = "resume"
	ActionKick        Action = "kick"
	ActionNick        Action = "nick"
	ActionLeaderboard Action = "leaderboard"
)

// Actions lists every action in the order help texts show them
var Actions = []Action{
	ActionStart,
	ActionStop,
	ActionJoin,
	ActionLeave,
	ActionPick,
	ActionCoin,
	ActionCards,
	ActionStatus,
	ActionPoints,
	ActionPlayers,
	ActionPause,
	ActionResume,
	ActionKick,
	ActionNick,
	ActionLeaderboard,
}

var aliases = map[string]Action{
	"j":      ActionJoin,
	"quit":   ActionLeave,
	"q":      ActionLeave,
	"p":      ActionPick,
	"play":   ActionPick,
	"winner": ActionPick,
	"w":      ActionPick,
	"c":      ActionCards,
	"list":   ActionPlayers,
	"scores": ActionPoints,
	"top":    ActionLeaderboard,
}

// Description returns the one-line help text of an action
func (a Action) Description() string {
	switch a {
	case ActionStart:
		return "Start a game: [judge|vote] [point limit] [decks...]"
	case ActionStop:
		return "Stop the current game"
	case ActionJoin:
		return "Join the current game"
	case ActionLeave:
		return "Leave the current game"
	case ActionPick:
		return "Play cards, or pick the winning entry"
	case ActionCoin:
		return "Let a coin decide between two picks"
	case ActionCards:
		return "Show your hand"
	case ActionStatus:
		return "Show what the game is waiting for"
	case ActionPoints:
		return "Show the scores"
	case ActionPlayers:
		return "List the players"
	case ActionPause:
		return "Pause the game"
	case ActionResume:
		return "Resume a paused game"
	case ActionKick:
		return "Remove a player from the game"
	case ActionNick:
		return "Change your name in the game"
	case ActionLeaderboard:
		return "Show the all-time leaderboard of this channel"
	default:
		return ""
	}
}

// ParseAction resolves a command name or one of its aliases
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, action := range Actions {
		if string(action) == name {
			return action, nil
		}
	}
	if action, ok := aliases[name]; ok {
		return action, nil
	}
	return "", fmt.Errorf("unknown command %q", name)
}

// Command is one parsed player command
type Command struct {
	Action    Action
	ChannelID string
	Actor     models.Identity
	Args      []string

	// Target is the player a kick is aimed at
	Target *models.Identity

	// FastPick is set when the player only typed numbers
	FastPick bool
}

// ParseLine parses "command arg arg..." text. A line made only of numbers
// is a fast pick.
func ParseLine(text string) (*Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	if _, err := parseIndices(fields); err == nil {
		return &Command{
			Action:   ActionPick,
			Args:     fields,
			FastPick: true,
		}, nil
	}

	action, err := ParseAction(strings.TrimLeft(fields[0], "!/."))
	if err != nil {
		return nil, err
	}
	return &Command{
		Action: action,
		Args:   fields[1:],
	}, nil
}

func parseIndices(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no numbers given")
	}
	indices := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", arg)
		}
		indices = append(indices, n)
	}
	return indices, nil
}

// startOptions reads "[judge|vote] [point limit] [decks...]" in any order
func startOptions(args []string) (models.WinMode, int, []string) {
	var (
		mode       models.WinMode
		pointLimit int
		selectors  []string
	)
	for _, arg := range args {
		switch lower := strings.ToLower(arg); {
		case lower == string(models.WinModeJudge) || lower == string(models.WinModeVote):
			mode = models.WinMode(lower)
		case pointLimit == 0 && isNumber(arg):
			pointLimit, _ = strconv.Atoi(arg)
		default:
			selectors = append(selectors, arg)
		}
	}
	return mode, pointLimit, selectors
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
