package main

import (
	"context"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/KirkDiggler/czar/internal/handlers/commands"
	"github.com/KirkDiggler/czar/internal/models"
)

// consoleNotifier prints a game's output to the terminal. Timers fire on
// their own goroutines, so printing is serialised.
type consoleNotifier struct {
	mu      sync.Mutex
	channel string
}

func newConsoleNotifier(channel string) *consoleNotifier {
	return &consoleNotifier{channel: channel}
}

func (n *consoleNotifier) Announce(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	pterm.Println(pterm.LightYellow("<"+n.channel+">"), message)
	return nil
}

func (n *consoleNotifier) Notice(ctx context.Context, identity models.Identity, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	pterm.Println(pterm.LightCyan("-> "+identity.Nick), message)
	return nil
}

func (n *consoleNotifier) SetVoice(ctx context.Context, identities []models.Identity, voiced bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	mode := "-v"
	if voiced {
		mode = "+v"
	}
	nicks := make([]string, 0, len(identities))
	for _, identity := range identities {
		nicks = append(nicks, identity.Nick)
	}
	pterm.Println(pterm.Gray("* mode "+mode), pterm.Gray(strings.Join(nicks, " ")))
	return nil
}

func (n *consoleNotifier) reply(nick string, reply *commands.Reply) {
	if reply == nil || (reply.Title == "" && reply.Message == "") {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if reply.Title != "" {
		box := pterm.DefaultBox.WithTitle(pterm.LightGreen(reply.Title)).WithTitleTopCenter()
		box.Println(reply.Message)
		return
	}
	if reply.Public {
		pterm.Println(pterm.LightYellow("<"+n.channel+">"), reply.Message)
		return
	}
	pterm.Info.Printfln("%s: %s", nick, reply.Message)
}
