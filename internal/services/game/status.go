package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/czar/internal/models"
)

// ListPlayers announces who is in the game
func (g *Game) ListPlayers(ctx context.Context) {
	g.lock()
	defer g.unlock()

	g.announce(ctx, "Players currently in the game: %s", strings.Join(g.playerNicks(), ", "))
}

// PlayerNicks returns the nicks of the players in turn order
func (g *Game) PlayerNicks() []string {
	g.lock()
	defer g.unlock()

	return g.playerNicks()
}

// ShowStatus announces what the game is waiting for
func (g *Game) ShowStatus(ctx context.Context) {
	g.lock()
	defer g.unlock()

	g.showStatus(ctx)
}

func (g *Game) showStatus(ctx context.Context) {
	var message string
	switch g.state {
	case models.GameStatePlayable:
		message = "Waiting for players to play: " + strings.Join(nicks(g.notPlayed()), ", ")
		if g.mode == models.WinModeJudge && g.czar != nil {
			message = fmt.Sprintf("%s is the Card Czar. ", g.czar.Nick) + message
		}
	case models.GameStatePlayed:
		if g.mode == models.WinModeVote {
			message = "Waiting for players to vote: " + strings.Join(nicks(g.notVoted()), ", ")
		} else {
			message = fmt.Sprintf("Waiting for %s to select the winner.", g.czar.Nick)
		}
	case models.GameStateRoundEnd:
		message = "Round has ended and next one is starting."
	case models.GameStateStopped:
		message = "Game has been stopped."
	case models.GameStateWaiting:
		needed := g.minPlayers() - len(g.players)
		if needed < 0 {
			needed = 0
		}
		message = fmt.Sprintf("Waiting for %d players to join.", needed)
	case models.GameStatePaused:
		message = "Game is paused."
	}
	g.announce(ctx, "Status: %s", message)
}

// ShowPoints announces the scores for the given stage of the game
func (g *Game) ShowPoints(ctx context.Context, stage PointsStage) {
	g.lock()
	defer g.unlock()

	g.showPoints(ctx, stage)
}

func (g *Game) showPoints(ctx context.Context, stage PointsStage) {
	var scores []string
	for _, record := range g.points.Standings() {
		if record.Player == nil || !g.inGame(record.Player) {
			continue
		}
		scores = append(scores, fmt.Sprintf("%s: %d", record.Player.Nick, record.Points))
	}
	output := strings.Join(scores, ", ")

	switch stage {
	case PointsStageRound:
		if len(g.players) > 0 {
			g.announce(ctx, "Current scores: %s", output)
		}
		if g.pointLimit > 0 {
			g.announce(ctx, "Needed to win: %d", g.pointLimit)
		}
	case PointsStageStart:
		if g.pointLimit > 0 {
			g.announce(ctx, "Needed to win: %d", g.pointLimit)
		}
	default:
		if len(g.players) > 0 {
			g.announce(ctx, "The most horrible people: %s", output)
		}
	}
}

// ShowCards sends a player their hand
func (g *Game) ShowCards(ctx context.Context, identity models.Identity) error {
	g.lock()
	defer g.unlock()

	p := g.findPlayer(identity.Key())
	if p == nil {
		return guardError("%s is not in the game.", identity.Nick)
	}
	g.showCards(ctx, p)
	return nil
}

func (g *Game) showCards(ctx context.Context, p *models.Player) {
	var sb strings.Builder
	sb.WriteString("Your cards are:")
	for i, card := range p.Hand.Cards() {
		sb.WriteString(fmt.Sprintf(" [%d] %s", i, card.DisplayText))
	}
	g.notice(ctx, p, "%s", sb.String())
}

// Snapshot returns a read-only view of the game
func (g *Game) Snapshot() Snapshot {
	g.lock()
	defer g.unlock()

	snap := Snapshot{
		ID:         g.id,
		ChannelID:  g.channelID,
		State:      g.state,
		Paused:     g.suspended,
		Mode:       g.mode,
		Round:      g.round,
		PointLimit: g.pointLimit,
		Entries:    len(g.table.entries),
		Scores:     g.result().Scores,
		CoolOff:    g.coolOff.Pending(),
		Questions: CardCounts{
			Draw:    g.questions.Len(),
			Discard: g.questionDiscard.Len(),
		},
		Answers: CardCounts{
			Draw:    g.answers.Len(),
			Discard: g.answerDiscard.Len(),
		},
	}
	if g.czar != nil && g.mode == models.WinModeJudge {
		czar := g.czar.Identity
		snap.Czar = &czar
	}
	if g.table.question != nil {
		snap.Question = g.table.question.DisplayText
		snap.Questions.Table = 1
	}
	for _, entry := range g.table.entries {
		snap.Answers.Table += len(entry.Cards)
	}
	for _, p := range g.players {
		snap.Players = append(snap.Players, viewPlayer(p))
		snap.Answers.Hands += p.Hand.Len()
	}
	for _, p := range g.left {
		snap.Left = append(snap.Left, viewPlayer(p))
		snap.Answers.Hands += p.Hand.Len()
	}
	return snap
}

func viewPlayer(p *models.Player) PlayerView {
	return PlayerView{
		Identity:       p.Identity,
		IsCzar:         p.IsCzar,
		HasPlayed:      p.HasPlayed,
		HasVoted:       p.HasVoted,
		Points:         p.Points,
		InactiveRounds: p.InactiveRounds,
		HandSize:       p.Hand.Len(),
	}
}

func nicks(players []*models.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.Nick)
	}
	return out
}
