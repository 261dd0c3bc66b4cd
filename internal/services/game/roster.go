package game

import (
	"context"

	"github.com/KirkDiggler/czar/internal/models"
)

// AddPlayer adds a player to the game. A player who left earlier in the
// same game gets their hand and score back. It reports whether the player
// rejoined.
func (g *Game) AddPlayer(ctx context.Context, identity models.Identity) (bool, error) {
	g.lock()
	defer g.unlock()

	return g.addPlayer(ctx, identity)
}

func (g *Game) addPlayer(ctx context.Context, identity models.Identity) (bool, error) {
	if !g.started {
		return false, ErrGameNotStarted
	}
	if g.state.IsStopped() {
		return false, guardError("Game has been stopped.")
	}

	key := identity.Key()
	if g.banned[key] {
		return false, guardError("%s was removed from this game.", identity.Nick)
	}
	if g.findPlayer(key) != nil {
		g.log.WithField("player", key).Debug("player tried to join again")
		return false, guardError("%s is already in the game.", identity.Nick)
	}

	p, rejoined := g.takeLeft(key)
	if rejoined {
		p.Nick = identity.Nick
		// the czar only gets their role back if they return to the round they left
		p.IsCzar = p == g.czar &&
			p.RoundLeft == g.round &&
			(g.state == models.GameStatePlayable || g.state == models.GameStatePlayed)
		if p.RoundLeft != g.round {
			p.ResetRound()
		}
		p.InactiveRounds = 0
		p.RoundJoined = g.round
		p.RoundLeft = 0
		g.points.Register(p)
	} else {
		p = models.NewPlayer(identity)
		p.RoundJoined = g.round
		g.points.Register(p)
	}
	g.players = append(g.players, p)

	if rejoined {
		g.announce(ctx, "%s has rejoined the game.", p.Nick)
		if !p.IsCzar && p.Hand.Len() > 0 {
			g.showCards(ctx, p)
		}
	} else {
		g.announce(ctx, "%s has joined the game.", p.Nick)
	}

	needed := g.minPlayers() - len(g.players)
	if needed > 0 && (g.round > 0 || g.clock.Now().After(g.startedAt.Add(firstRoundGrace))) {
		g.announce(ctx, "Need %s", pluralPlayers(needed))
	}

	if g.state == models.GameStateWaiting && needed <= 0 {
		g.nextRound(ctx)
	} else if g.rules.WaitFromLastJoin && g.rules.TimeWaitForPlayers > 0 && g.stopWait.Pending() {
		g.stopWait.Cancel()
		g.stopWait.Schedule(g.rules.TimeWaitForPlayers, func() {
			g.stop(context.Background(), nil, false)
		})
	}

	g.setVoice(ctx, true, p)
	return rejoined, nil
}

func (g *Game) takeLeft(key string) (*models.Player, bool) {
	for i, p := range g.left {
		if p.Key() == key {
			g.left = append(g.left[:i], g.left[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// RemovePlayers takes players out of the game. Their hand and score are
// kept in case they rejoin.
func (g *Game) RemovePlayers(ctx context.Context, identities []models.Identity, opts RemoveOptions) error {
	g.lock()
	defer g.unlock()

	if !g.started {
		return ErrGameNotStarted
	}

	var removed int
	for _, identity := range identities {
		if g.state.IsStopped() {
			break
		}
		p := g.findPlayer(identity.Key())
		if p == nil {
			continue
		}
		g.removePlayer(ctx, p, opts)
		removed++
	}
	if removed == 0 {
		return guardError("No such players in the game.")
	}
	return nil
}

// Kick removes a player and bans them from rejoining this game
func (g *Game) Kick(ctx context.Context, identity models.Identity) error {
	g.lock()
	defer g.unlock()

	if !g.started {
		return ErrGameNotStarted
	}

	key := identity.Key()
	if g.banned[key] {
		return guardError("%s was already removed.", identity.Nick)
	}
	g.banned[key] = true

	if p := g.findPlayer(key); p != nil {
		g.removePlayer(ctx, p, RemoveOptions{})
		return nil
	}
	if p, ok := g.takeLeft(key); ok {
		g.discardHand(p)
	}
	return nil
}

func (g *Game) discardHand(p *models.Player) {
	g.answerDiscard.Add(p.Hand.Reset(nil)...)
}

func (g *Game) removePlayer(ctx context.Context, p *models.Player, opts RemoveOptions) {
	for i, other := range g.players {
		if other == p {
			g.players = append(g.players[:i], g.players[i+1:]...)
			break
		}
	}

	if g.banned[p.Key()] {
		g.discardHand(p)
	} else {
		p.RoundLeft = g.round
		g.left = append(g.left, p)
	}

	if !opts.Silent {
		g.announce(ctx, "%s has left the game", p.Nick)
	}
	if !opts.Left {
		g.setVoice(ctx, false, p)
	}

	switch {
	case g.suspended:
	case g.state == models.GameStatePlayable && len(g.notPlayed()) == 0:
		g.revealAfterCoolOff()
	case g.state == models.GameStatePlayed && g.mode == models.WinModeJudge && g.czar == p:
		if !g.coolOff.Flush() {
			g.announce(ctx, "The Card Czar has fled the scene. So I will pick the winner on this round.")
			g.selectWinner(ctx, g.randomEntry())
		}
	case g.state == models.GameStatePlayed && g.mode == models.WinModeVote && len(g.notVoted()) == 0:
		g.tallyAfterCoolOff()
	}

	if len(g.players) == 0 && g.rules.StopOnLastPlayerLeave {
		g.stop(ctx, nil, false)
	}
}

// ChangeNick follows a player's nick change
func (g *Game) ChangeNick(oldNick, newNick string) bool {
	g.lock()
	defer g.unlock()

	for _, p := range g.players {
		if p.Nick == oldNick {
			p.Nick = newNick
			return true
		}
	}
	for _, p := range g.left {
		if p.Nick == oldNick {
			p.Nick = newNick
			return true
		}
	}
	return false
}

func (g *Game) findPlayer(key string) *models.Player {
	for _, p := range g.players {
		if p.Key() == key {
			return p
		}
	}
	return nil
}

func (g *Game) inGame(p *models.Player) bool {
	for _, other := range g.players {
		if other == p {
			return true
		}
	}
	return false
}

func (g *Game) playerNicks() []string {
	nicks := make([]string, 0, len(g.players))
	for _, p := range g.players {
		nicks = append(nicks, p.Nick)
	}
	return nicks
}
