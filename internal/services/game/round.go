package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/cards"
	"github.com/KirkDiggler/czar/internal/models"
	"github.com/KirkDiggler/czar/internal/services/messaging"
)

// minPlayers is the number of players the next round needs
func (g *Game) minPlayers() int {
	if g.round == 0 {
		return g.rules.FirstRoundMinPlayers
	}
	return g.rules.MinPlayers
}

// nextRound schedules the next round, or ends the game or waits for players
func (g *Game) nextRound(ctx context.Context) {
	if g.state.IsStopped() {
		return
	}
	g.stopWait.Cancel()

	if g.endGame(ctx) || g.needPlayers(ctx) {
		return
	}

	if g.round == 0 {
		g.announce(ctx, "Starting in %s. %s get ready!",
			formatSeconds(g.rules.TimeBetweenRounds), strings.Join(g.playerNicks(), ", "))
		g.showPoints(ctx, PointsStageStart)
	} else {
		g.showPoints(ctx, PointsStageRound)
	}

	g.state = models.GameStatePaused
	g.next.Cancel()
	g.next.Schedule(g.rules.TimeBetweenRounds, func() {
		g.startNextRound(context.Background())
	})
}

// needPlayers reports whether the game must wait for more players
func (g *Game) needPlayers(ctx context.Context) bool {
	needed := g.minPlayers() - len(g.players)
	if needed <= 0 {
		return false
	}

	if g.rules.TimeWaitForPlayers > 0 {
		g.stopWait.Cancel()
		g.stopWait.Schedule(g.rules.TimeWaitForPlayers, func() {
			g.log.Info("stopping game, not enough players")
			g.stop(context.Background(), nil, false)
		})
	}
	if g.round != 0 {
		g.announce(ctx, "Need %s", pluralPlayers(needed))
		g.showPoints(ctx, PointsStageRound)
	}
	g.state = models.GameStateWaiting
	return true
}

func (g *Game) startNextRound(ctx context.Context) {
	if g.state != models.GameStatePaused || g.suspended {
		return
	}
	if g.round == 0 {
		g.startedAt = g.clock.Now()
	}
	g.round++

	notice := fmt.Sprintf("Round %d!", g.round)
	if g.mode == models.WinModeJudge {
		g.setCzar()
		notice += fmt.Sprintf(" %s is the Card Czar.", g.czar.Nick)
	}
	g.announce(ctx, "%s", notice)
	g.log.WithField("round", g.round).Debug("round started")

	if !g.deal(ctx) || !g.playQuestion(ctx) {
		return
	}
	g.state = models.GameStatePlayable

	for _, p := range g.players {
		if !p.IsCzar {
			g.showCards(ctx, p)
		}
	}
}

// setCzar makes the player after the current czar the new czar
func (g *Game) setCzar() {
	next := 0
	for i, p := range g.players {
		if p == g.czar {
			next = i + 1
			break
		}
	}
	if next >= len(g.players) {
		next = 0
	}
	g.czar = g.players[next]
	g.czar.IsCzar = true
}

// checkDecks refills empty draw piles from their shuffled discards
func (g *Game) checkDecks() {
	if g.answers.IsEmpty() && !g.answerDiscard.IsEmpty() {
		g.log.Debug("answer deck is empty, reset from discard")
		g.answers.Reset(g.answerDiscard.Reset(nil))
		g.answers.Shuffle(g.rand)
	}
	if g.questions.IsEmpty() && !g.questionDiscard.IsEmpty() {
		g.log.Debug("question deck is empty, reset from discard")
		g.questions.Reset(g.questionDiscard.Reset(nil))
		g.questions.Shuffle(g.rand)
	}
}

// drawAnswers gives a player n answer cards, stopping the game when none are left
func (g *Game) drawAnswers(ctx context.Context, p *models.Player, n int) bool {
	for i := 0; i < n; i++ {
		g.checkDecks()
		drawn, err := g.answers.Draw(1)
		if err != nil {
			g.log.WithError(err).Warn("out of answer cards")
			g.announce(ctx, "Not enough cards to deal. Stopping...")
			g.stop(ctx, nil, false)
			return false
		}
		p.Hand.Add(drawn...)
	}
	return true
}

// deal fills every hand up to the hand size
func (g *Game) deal(ctx context.Context) bool {
	for _, p := range g.players {
		if !g.drawAnswers(ctx, p, g.rules.HandSize-p.Hand.Len()) {
			return false
		}
	}
	return true
}

// playQuestion reveals the next question and starts the round timer
func (g *Game) playQuestion(ctx context.Context) bool {
	g.checkDecks()
	drawn, err := g.questions.Draw(1)
	if err != nil {
		g.log.WithError(err).Warn("out of question cards")
		g.announce(ctx, "Not enough cards to deal. Stopping...")
		g.stop(ctx, nil, false)
		return false
	}
	question := drawn[0]

	value := question.DisplayText
	if question.Pick > 1 {
		value += fmt.Sprintf(" [PICK %d]", question.Pick)
	}
	g.announce(ctx, "CARD: %s", value)
	g.table.question = question

	for _, p := range g.players {
		if p.IsCzar {
			continue
		}
		if !g.drawAnswers(ctx, p, question.Draw) {
			return false
		}
	}

	g.phase.Start(func(left time.Duration) {
		ctx := context.Background()
		g.announce(ctx, "%s", warningText(left))
		if left == time.Minute {
			g.showStatus(ctx)
		}
	}, func() {
		ctx := context.Background()
		g.announce(ctx, "Time is up!")
		g.markInactivePlayers()
		g.showEntries(ctx)
	})
	return true
}

func warningText(left time.Duration) string {
	switch left {
	case time.Minute:
		return "Hurry up, 1 minute left!"
	default:
		return fmt.Sprintf("%d seconds left!", int(left/time.Second))
	}
}

// notPlayed returns players holding cards who still owe an entry
func (g *Game) notPlayed() []*models.Player {
	var out []*models.Player
	for _, p := range g.players {
		if p.Hand.Len() > 0 && !p.HasPlayed && !p.IsCzar {
			out = append(out, p)
		}
	}
	return out
}

// notVoted returns players holding cards who still owe a vote
func (g *Game) notVoted() []*models.Player {
	var out []*models.Player
	for _, p := range g.players {
		if p.Hand.Len() > 0 && !p.HasVoted {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) markInactivePlayers() {
	for _, p := range g.notPlayed() {
		if p.RoundJoined != g.round {
			p.InactiveRounds++
		}
	}
}

// revealAfterCoolOff reveals the entries once the grace window closes
func (g *Game) revealAfterCoolOff() {
	g.coolOff.Schedule(g.rules.CoolOff, func() {
		if g.state != models.GameStatePlayable || g.suspended {
			return
		}
		g.showEntries(context.Background())
	})
}

// showEntries ends the playing phase and reveals what was played
func (g *Game) showEntries(ctx context.Context) {
	g.coolOff.Cancel()
	g.phase.Stop()
	g.state = models.GameStatePlayed

	switch {
	case len(g.table.entries) == 0:
		g.announce(ctx, "No one played on this round.")
		g.state = models.GameStateRoundEnd
		g.clean(ctx)
		g.nextRound(ctx)
		return
	case len(g.table.entries) == 1:
		g.announce(ctx, "Only one player played and is the winner by default.")
		g.selectWinner(ctx, 0)
		return
	case len(g.table.entries) == 2 && g.mode == models.WinModeVote:
		g.announce(ctx, "Only two entries this round, so both win by default.")
		g.awardWinners(ctx, g.table.entries)
		return
	}

	g.announce(ctx, "Everyone has played. Here are the entries:")
	g.rand.Shuffle(len(g.table.entries), func(i, j int) {
		g.table.entries[i], g.table.entries[j] = g.table.entries[j], g.table.entries[i]
	})
	for i, entry := range g.table.entries {
		g.announce(ctx, "%d: %s", i, cards.FullEntry(g.table.question, entry.Cards))
	}

	if g.mode == models.WinModeVote {
		g.announce(ctx, "Vote for the winner (pick <entry number>)")
		g.phase.Start(func(left time.Duration) {
			ctx := context.Background()
			g.announce(ctx, "%s", warningText(left))
			if left == time.Minute {
				g.showStatus(ctx)
			}
		}, func() {
			ctx := context.Background()
			g.announce(ctx, "Time is up!")
			g.tallyVotes(ctx)
		})
		return
	}

	if g.czar == nil || !g.czar.IsCzar || !g.inGame(g.czar) {
		g.announce(ctx, "The Card Czar has fled the scene. So I will pick the winner on this round.")
		g.selectWinner(ctx, g.randomEntry())
		return
	}
	g.announce(ctx, "%s: Select the winner (pick <entry number>)", g.czar.Nick)
	g.phase.Start(func(left time.Duration) {
		g.announce(context.Background(), "%s: %s", g.czar.Nick, warningText(left))
	}, func() {
		if g.coolOff.Flush() {
			return
		}
		g.pickRandomWinner(context.Background())
	})
}

func (g *Game) randomEntry() int {
	return g.rand.Intn(len(g.table.entries))
}

// pickRandomWinner resolves a round nobody resolved in time
func (g *Game) pickRandomWinner(ctx context.Context) {
	if g.mode == models.WinModeJudge {
		g.announce(ctx, "Time is up! I will pick the winner this round.")
		if g.czar != nil {
			g.czar.InactiveRounds++
		}
	} else {
		g.announce(ctx, "I will pick the winner this round.")
	}
	g.selectWinner(ctx, g.randomEntry())
}

// selectWinner awards the round to a single entry
func (g *Game) selectWinner(ctx context.Context, index int) {
	if g.state != models.GameStatePlayed || index < 0 || index >= len(g.table.entries) {
		return
	}
	g.awardWinners(ctx, []*models.Entry{g.table.entries[index]})
}

// tallyVotes awards the round to every entry tied for the most votes
func (g *Game) tallyVotes(ctx context.Context) {
	if g.state != models.GameStatePlayed {
		return
	}
	g.phase.Stop()
	g.coolOff.Cancel()

	var winners []*models.Entry
	for _, entry := range g.table.entries {
		switch {
		case len(winners) == 0 || entry.Votes > winners[0].Votes:
			winners = []*models.Entry{entry}
		case entry.Votes == winners[0].Votes:
			winners = append(winners, entry)
		}
	}

	if len(winners) > 1 {
		if winners[0].Votes == 0 {
			g.announce(ctx, "Nobody voted.")
			g.pickRandomWinner(ctx)
			return
		}
		g.announce(ctx, "We have a tie!")
	}
	g.awardWinners(ctx, winners)
}

func (g *Game) awardWinners(ctx context.Context, winners []*models.Entry) {
	g.phase.Stop()
	g.coolOff.Cancel()
	g.state = models.GameStateRoundEnd

	for _, entry := range winners {
		g.announceWinner(ctx, entry)
	}
	if len(winners) == 1 {
		g.updateStreak(ctx, winners[0].Owner)
	} else {
		g.streak = streak{}
	}

	g.clean(ctx)
	g.nextRound(ctx)
}

func (g *Game) announceWinner(ctx context.Context, entry *models.Entry) {
	owner := entry.Owner
	total := g.points.Credit(owner)
	g.log.WithFields(logrus.Fields{
		"round":  g.round,
		"winner": owner.Key(),
		"points": total,
	}).Debug("round won")

	votes := ""
	if g.mode == models.WinModeVote && entry.Votes > 0 {
		votes = fmt.Sprintf(" (with %d vote", entry.Votes)
		if entry.Votes != 1 {
			votes += "s"
		}
		votes += ")"
	}
	g.announce(ctx, "Winner: %s%s -- \"%s\"", owner.Nick, votes, cards.FullEntry(g.table.question, entry.Cards))
}

func (g *Game) updateStreak(ctx context.Context, winner *models.Player) {
	key := winner.Key()
	if g.streak.key != key {
		g.streak = streak{key: key, count: 1}
		return
	}
	g.streak.count++

	out, err := g.messaging.GetStreakMessage(ctx, &messaging.GetStreakMessageInput{
		PlayerName: winner.Nick,
		Streak:     g.streak.count,
	})
	if err != nil {
		g.log.WithError(err).Warn("failed to get streak message")
		return
	}
	if out.Message != "" {
		g.announce(ctx, "%s", out.Message)
	}
}

// clean moves the table to the discards and resets the players for the next round
func (g *Game) clean(ctx context.Context) {
	if g.table.question != nil {
		g.questionDiscard.Add(g.table.question)
		g.table.question = nil
	}
	for _, entry := range g.table.entries {
		g.answerDiscard.Add(entry.Cards...)
	}
	g.table.entries = nil
	g.pendingWinner = 0

	var removed []string
	roster := make([]*models.Player, len(g.players))
	copy(roster, g.players)
	for _, p := range roster {
		p.ResetRound()
		if g.rules.MaxIdleRounds > 0 && p.InactiveRounds >= g.rules.MaxIdleRounds {
			g.removePlayer(ctx, p, RemoveOptions{Silent: true})
			removed = append(removed, p.Nick)
		}
	}
	if len(removed) > 0 {
		g.announce(ctx, "Removed inactive players: %s", strings.Join(removed, ", "))
	}
	// entries of players who left went to the discard with the rest
	for _, p := range g.left {
		p.ResetRound()
	}

	if !g.state.IsStopped() {
		g.state = models.GameStateWaiting
	}
}

func formatSeconds(d time.Duration) string {
	seconds := int(d / time.Second)
	if seconds == 1 {
		return "1 second"
	}
	return fmt.Sprintf("%d seconds", seconds)
}

func pluralPlayers(n int) string {
	if n == 1 {
		return "1 more player"
	}
	return fmt.Sprintf("%d more players", n)
}
