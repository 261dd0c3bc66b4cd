package game

import (
	"context"
	"sort"

	"github.com/KirkDiggler/czar/internal/cards"
	"github.com/KirkDiggler/czar/internal/models"
)

// PlayCard submits cards from a player's hand as their entry for the round.
// Playing again before the entries are revealed replaces the earlier entry.
func (g *Game) PlayCard(ctx context.Context, identity models.Identity, indices []int, fastPick bool) error {
	g.lock()
	defer g.unlock()

	return g.playCard(ctx, identity, indices, fastPick)
}

func (g *Game) playCard(ctx context.Context, identity models.Identity, indices []int, fastPick bool) error {
	p := g.findPlayer(identity.Key())
	if p == nil {
		g.log.WithField("player", identity.Key()).Debug("unknown player tried to play a card")
		return guardError("%s is not in the game.", identity.Nick)
	}
	indices = uniqueIndices(indices)

	if g.state == models.GameStatePaused || g.suspended {
		return g.reject(ctx, p, usageError("Game is currently paused."), fastPick)
	}
	if g.state != models.GameStatePlayable || p.Hand.Len() == 0 {
		return g.reject(ctx, p, usageError("%s: Can't play at the moment.", p.Nick), fastPick)
	}
	if p.IsCzar {
		return g.reject(ctx, p, authorizationError(
			"%s: You are the Card Czar. The Czar does not play. The Czar makes other people do their dirty work.", p.Nick), fastPick)
	}

	question := g.table.question
	if len(indices) != question.Pick {
		what := "card"
		if question.Pick > 1 {
			what = "different cards"
		}
		return g.reject(ctx, p, usageError("%s: You must pick %d %s.", p.Nick, question.Pick, what), false)
	}

	// work on a copy of the hand so a bad index leaves everything as it was
	hand := cards.NewDeck(p.Hand.Cards()...)
	if p.Picked != nil {
		restorePick(hand, p.Picked)
	}
	picked, err := hand.Pick(indices)
	if err != nil {
		return g.reject(ctx, p, usageError("Invalid card index"), false)
	}

	if p.Picked != nil {
		g.notice(ctx, p, "Changing your pick...")
		g.removeEntry(p.Picked.Entry)
	}
	p.Hand.Reset(hand.Cards())

	entry := &models.Entry{Owner: p, Cards: picked}
	g.table.entries = append(g.table.entries, entry)
	p.HasPlayed = true
	p.InactiveRounds = 0
	p.Picked = &models.Pick{Indices: indices, Entry: entry}
	g.notice(ctx, p, "You played: %s", cards.FullEntry(question, picked))

	if len(g.notPlayed()) == 0 {
		g.revealAfterCoolOff()
	}
	return nil
}

// restorePick puts a previous entry's cards back at the positions they were taken from
func restorePick(hand *cards.Deck, pick *models.Pick) {
	type slot struct {
		index int
		card  *cards.Card
	}
	slots := make([]slot, 0, len(pick.Indices))
	for i, index := range pick.Indices {
		if i < len(pick.Entry.Cards) {
			slots = append(slots, slot{index: index, card: pick.Entry.Cards[i]})
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].index < slots[j].index
	})
	for _, s := range slots {
		hand.Insert(s.index, s.card)
	}
}

func (g *Game) removeEntry(entry *models.Entry) {
	for i, e := range g.table.entries {
		if e == entry {
			g.table.entries = append(g.table.entries[:i], g.table.entries[i+1:]...)
			return
		}
	}
}

func uniqueIndices(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}

// SelectWinner picks the winning entry. In judge mode only the czar may
// pick; in vote mode it casts the player's vote.
func (g *Game) SelectWinner(ctx context.Context, identity models.Identity, index int, fastPick bool) error {
	g.lock()
	defer g.unlock()

	return g.selectWinnerAs(ctx, identity, index, fastPick)
}

func (g *Game) selectWinnerAs(ctx context.Context, identity models.Identity, index int, fastPick bool) error {
	p := g.findPlayer(identity.Key())
	if p == nil {
		return guardError("%s is not in the game.", identity.Nick)
	}
	if g.state == models.GameStatePaused || g.suspended {
		return g.reject(ctx, p, usageError("Game is currently paused."), fastPick)
	}
	if g.state != models.GameStatePlayed {
		return g.reject(ctx, p, usageError("%s: There is nothing to pick from at the moment.", p.Nick), fastPick)
	}
	if index < 0 || index >= len(g.table.entries) {
		return g.reject(ctx, p, usageError("Invalid winner"), false)
	}

	if g.mode == models.WinModeVote {
		return g.vote(ctx, p, index)
	}

	if p != g.czar {
		return g.reject(ctx, p, authorizationError(
			"%s: You are not the Card Czar. Only the Card Czar can select the winner", p.Nick), fastPick)
	}

	if g.coolOff.Pending() {
		if g.pendingWinner != index {
			g.notice(ctx, p, "Changing your pick...")
		}
		g.pendingWinner = index
		return nil
	}
	g.pendingWinner = index
	g.coolOff.Schedule(g.rules.CoolOff, func() {
		g.selectWinner(context.Background(), g.pendingWinner)
	})
	return nil
}

func (g *Game) vote(ctx context.Context, p *models.Player, index int) error {
	entry := g.table.entries[index]
	if entry.Owner == p {
		return g.reject(ctx, p, usageError("You can't vote for your own entry!"), false)
	}
	if p.HasVoted {
		if p.VotedFor == index {
			g.notice(ctx, p, "You have already voted for that entry.")
			return guardError("You have already voted for that entry.")
		}
		g.table.entries[p.VotedFor].Votes--
		g.notice(ctx, p, "Changing your vote...")
	}

	entry.Votes++
	p.HasVoted = true
	p.VotedFor = index
	g.notice(ctx, p, "You voted for: \"%s\"", cards.FullEntry(g.table.question, entry.Cards))

	if len(g.notVoted()) == 0 {
		g.tallyAfterCoolOff()
	}
	return nil
}

// tallyAfterCoolOff counts the votes once the grace window closes
func (g *Game) tallyAfterCoolOff() {
	g.coolOff.Schedule(g.rules.CoolOff, func() {
		if g.suspended {
			return
		}
		g.tallyVotes(context.Background())
	})
}

// Pick plays cards while answers are being collected and picks a winner
// once they are revealed
func (g *Game) Pick(ctx context.Context, identity models.Identity, indices []int, fastPick bool) error {
	g.lock()
	defer g.unlock()

	return g.pick(ctx, identity, indices, fastPick)
}

func (g *Game) pick(ctx context.Context, identity models.Identity, indices []int, fastPick bool) error {
	switch {
	case g.state == models.GameStatePlayable && !g.suspended:
		return g.playCard(ctx, identity, indices, fastPick)
	case g.state == models.GameStatePlayed && !g.suspended:
		p := g.findPlayer(identity.Key())
		if p == nil {
			return guardError("%s is not in the game.", identity.Nick)
		}
		if len(indices) != 1 {
			return g.reject(ctx, p, usageError("%s: Pick exactly one entry.", p.Nick), false)
		}
		return g.selectWinnerAs(ctx, identity, indices[0], fastPick)
	default:
		p := g.findPlayer(identity.Key())
		if p == nil {
			return guardError("%s is not in the game.", identity.Nick)
		}
		if g.state == models.GameStatePaused || g.suspended {
			return g.reject(ctx, p, usageError("Game is currently paused."), fastPick)
		}
		return g.reject(ctx, p, usageError("%s: Can't pick at the moment.", p.Nick), fastPick)
	}
}

// Coin flips a coin between two picks and picks the one it lands on
func (g *Game) Coin(ctx context.Context, identity models.Identity, heads, tails int) error {
	g.lock()
	defer g.unlock()

	if !g.state.IsRunning() || g.suspended {
		return guardError("Game is not running.")
	}
	p := g.findPlayer(identity.Key())
	if p == nil {
		return guardError("%s is not in the game.", identity.Nick)
	}

	limit := g.rules.MaxCoinUses
	if limit == 0 {
		return g.reject(ctx, p, usageError("coin is disabled."), false)
	}
	if p.CoinUsed >= limit {
		times := "time"
		if limit > 1 {
			times = "times"
		}
		return g.reject(ctx, p, usageError("%s: You can only use coin %d %s per game.", p.Nick, limit, times), false)
	}
	if !p.IsCzar && g.table.question != nil && g.table.question.Pick > 1 {
		return g.reject(ctx, p, usageError("%s: You can't use coin on multiple pick questions", p.Nick), false)
	}
	if heads == tails {
		return g.reject(ctx, p, usageError("%s: You must specify two different numbers.", p.Nick), false)
	}

	p.CoinUsed++
	side, choice := "heads", heads
	if g.rand.Intn(2) == 1 {
		side, choice = "tails", tails
	}
	g.announce(ctx, "%s: Flipping a coin - heads: %d, tails: %d ...it's %s! You picked %d", p.Nick, heads, tails, side, choice)

	return g.pick(ctx, identity, []int{choice}, false)
}
