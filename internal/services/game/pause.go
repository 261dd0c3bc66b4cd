package game

import (
	"context"

	"github.com/KirkDiggler/czar/internal/models"
)

// Pause suspends a running round. Time spent in the round is kept so the
// round timer resumes where it left off.
func (g *Game) Pause(ctx context.Context) error {
	g.lock()
	defer g.unlock()

	return g.pause(ctx)
}

func (g *Game) pause(ctx context.Context) error {
	if g.suspended || g.state == models.GameStatePaused {
		err := usageError("Game is already paused. Type resume to begin playing again.")
		g.announce(ctx, "%s", err.Message)
		return err
	}
	if !g.state.IsRunning() {
		err := usageError("The game cannot be paused right now.")
		g.announce(ctx, "%s", err.Message)
		return err
	}

	g.paused = pauseState{
		state:   g.state,
		elapsed: g.phase.Pause(),
		action:  g.coolOff.take(),
	}
	g.state = models.GameStatePaused
	g.suspended = true
	g.log.WithField("elapsed", g.paused.elapsed).Debug("game paused")

	g.announce(ctx, "Game is now paused. Type resume to begin playing again.")
	return nil
}

// Resume continues a paused round with the time it had left
func (g *Game) Resume(ctx context.Context) error {
	g.lock()
	defer g.unlock()

	if !g.suspended {
		err := usageError("The game is not paused.")
		g.announce(ctx, "%s", err.Message)
		return err
	}

	paused := g.paused
	g.paused = pauseState{}
	g.suspended = false
	g.state = paused.state

	g.announce(ctx, "Game has been resumed.")

	switch g.state {
	case models.GameStatePlayed:
		if g.mode == models.WinModeJudge && !g.inGame(g.czar) {
			g.phase.Stop()
			if paused.action != nil {
				paused.action()
				return nil
			}
			g.announce(ctx, "The Card Czar quit the game during pause. I will pick the winner on this round.")
			g.selectWinner(ctx, g.randomEntry())
			return nil
		}
		g.phase.Resume()
		if paused.action != nil {
			g.coolOff.Schedule(g.rules.CoolOff, paused.action)
		} else if g.mode == models.WinModeVote && len(g.notVoted()) == 0 {
			g.tallyAfterCoolOff()
		}
	case models.GameStatePlayable:
		g.phase.Resume()
		if paused.action != nil || len(g.notPlayed()) == 0 {
			g.revealAfterCoolOff()
		}
	default:
		g.phase.Resume()
	}
	return nil
}

// ChannelLeft pauses a running game when the bot loses the channel
func (g *Game) ChannelLeft(ctx context.Context) {
	g.lock()
	defer g.unlock()

	if g.state.IsRunning() && !g.suspended {
		g.log.Warn("left channel while game in progress, pausing")
		_ = g.pause(ctx)
	}
}

// ChannelRejoined tells the channel how to continue after the bot returns
func (g *Game) ChannelRejoined(ctx context.Context) {
	g.lock()
	defer g.unlock()

	switch {
	case g.suspended:
		g.announce(ctx, "Card bot is back! Type resume to continue the current game.")
	case g.state.IsRunning():
		g.log.Warn("joined channel while game in progress")
		g.announce(ctx, "Error: Joined while game in progress. Pausing...")
		_ = g.pause(ctx)
	default:
		g.log.WithField("state", g.state).Warn("joined channel while game is not running")
	}
}
