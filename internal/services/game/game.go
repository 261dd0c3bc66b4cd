package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/czar/internal/cards"
	"github.com/KirkDiggler/czar/internal/common/clock"
	"github.com/KirkDiggler/czar/internal/decks"
	"github.com/KirkDiggler/czar/internal/models"
	"github.com/KirkDiggler/czar/internal/services/messaging"
)

// firstRoundGrace is how long after the start "need more players" hints stay quiet
const firstRoundGrace = 30 * time.Second

type table struct {
	question *cards.Card
	entries  []*models.Entry
}

type streak struct {
	key   string
	count int
}

type pauseState struct {
	state   models.GameState
	elapsed time.Duration

	// action is a cool-off that was pending when the game was paused
	action func()
}

// Game runs one card game in one channel. Every exported method and every
// timer callback runs under the game's lock, one at a time.
type Game struct {
	mu          sync.Mutex
	afterUnlock []func()

	id         string
	channelID  string
	rules      Rules
	collection *decks.Collection
	notifier   Notifier
	messaging  messaging.Service
	clock      clock.Clock
	rand       *rand.Rand
	log        logrus.FieldLogger
	onStop     func(result *models.GameResult)

	started    bool
	state      models.GameState
	suspended  bool
	paused     pauseState
	mode       models.WinMode
	pointLimit int
	deckCodes  []string
	startedAt  time.Time

	round   int
	players []*models.Player
	left    []*models.Player
	banned  map[string]bool
	czar    *models.Player
	points  *PointsLedger
	streak  streak

	questions       *cards.Deck
	answers         *cards.Deck
	questionDiscard *cards.Deck
	answerDiscard   *cards.Deck
	table           table

	// pendingWinner is the entry the czar picked while the cool-off runs
	pendingWinner int

	phase    *RoundTimer
	coolOff  *deferredAction
	next     *deferredAction
	stopWait *deferredAction
}

// New creates a game. The game does nothing until Start is called.
func New(cfg *Config) (*Game, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.ChannelID == "" {
		return nil, ErrMissingChannelID
	}
	if cfg.Decks == nil {
		return nil, ErrNilDecks
	}
	if cfg.Notifier == nil {
		return nil, ErrNilNotifier
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	rules := cfg.Rules
	if rules.Mode == "" {
		rules.Mode = models.WinModeJudge
	}
	if err := validateRules(rules); err != nil {
		return nil, err
	}
	if rules.FirstRoundMinPlayers <= 0 {
		rules.FirstRoundMinPlayers = rules.MinPlayers
	}

	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewSource(cfg.Clock.Now().UnixNano()))
	}

	id := cfg.UUIDGenerator.NewUUID()
	var logger logrus.FieldLogger = logrus.StandardLogger()
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	g := &Game{
		id:              id,
		channelID:       cfg.ChannelID,
		rules:           rules,
		collection:      cfg.Decks,
		notifier:        cfg.Notifier,
		messaging:       cfg.Messaging,
		clock:           cfg.Clock,
		rand:            r,
		log:             logger.WithFields(logrus.Fields{"game_id": id, "channel": cfg.ChannelID}),
		onStop:          cfg.OnStop,
		state:           models.GameStateWaiting,
		mode:            rules.Mode,
		pointLimit:      rules.PointLimit,
		banned:          make(map[string]bool),
		points:          NewPointsLedger(),
		questions:       cards.NewDeck(),
		answers:         cards.NewDeck(),
		questionDiscard: cards.NewDeck(),
		answerDiscard:   cards.NewDeck(),
	}
	g.phase = newRoundTimer(cfg.Clock, rules.TimeLimit, g.dispatch)
	g.coolOff = newDeferredAction(cfg.Clock, g.dispatch)
	g.next = newDeferredAction(cfg.Clock, g.dispatch)
	g.stopWait = newDeferredAction(cfg.Clock, g.dispatch)

	return g, nil
}

func validateRules(rules Rules) error {
	if rules.Mode != models.WinModeJudge && rules.Mode != models.WinModeVote {
		return ErrInvalidWinMode
	}
	if rules.HandSize <= 0 {
		return ErrInvalidHandSize
	}
	if rules.MinPlayers < 2 {
		return ErrInvalidMinPlayers
	}
	if rules.TimeLimit <= 0 {
		return ErrInvalidTimeLimit
	}
	return nil
}

// ID returns the unique identifier of the game
func (g *Game) ID() string {
	return g.id
}

// ChannelID returns the channel the game runs in
func (g *Game) ChannelID() string {
	return g.channelID
}

func (g *Game) lock() {
	g.mu.Lock()
}

// unlock releases the game and then runs hooks queued while it was held
func (g *Game) unlock() {
	hooks := g.afterUnlock
	g.afterUnlock = nil
	g.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}

// dispatch serialises timer callbacks with the exported methods
func (g *Game) dispatch(f func()) {
	g.lock()
	defer g.unlock()
	f()
}

func (g *Game) announce(ctx context.Context, format string, args ...any) {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	if err := g.notifier.Announce(ctx, message); err != nil {
		g.log.WithError(err).Warn("failed to announce")
	}
}

func (g *Game) notice(ctx context.Context, player *models.Player, format string, args ...any) {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	if err := g.notifier.Notice(ctx, player.Identity, message); err != nil {
		g.log.WithError(err).WithField("player", player.Key()).Warn("failed to send notice")
	}
}

func (g *Game) setVoice(ctx context.Context, voiced bool, players ...*models.Player) {
	if !g.rules.VoicePlayers || len(players) == 0 {
		return
	}
	identities := make([]models.Identity, 0, len(players))
	for _, p := range players {
		identities = append(identities, p.Identity)
	}
	if err := g.notifier.SetVoice(ctx, identities, voiced); err != nil {
		g.log.WithError(err).Warn("failed to set voice")
	}
}

// reject reports a rejected action to the player who attempted it.
// Guard errors are never reported, and neither is anything rejected for
// a fast pick. Callers pass fastPick=false for mistakes in the pick itself.
func (g *Game) reject(ctx context.Context, player *models.Player, err *ActionError, fastPick bool) error {
	switch {
	case err.Kind == KindGuard:
	case fastPick:
	case player != nil:
		g.notice(ctx, player, "%s", err.Message)
	}
	return err
}

// Start loads the selected decks, announces the game and starts waiting for players
func (g *Game) Start(ctx context.Context, opts StartOptions) error {
	g.lock()
	defer g.unlock()

	if g.started {
		return guardError("Game has already started.")
	}
	if opts.Mode != "" {
		if opts.Mode != models.WinModeJudge && opts.Mode != models.WinModeVote {
			return usageError("Unknown win mode %q.", opts.Mode)
		}
		g.mode = opts.Mode
	}
	if opts.PointLimit > 0 {
		g.pointLimit = opts.PointLimit
	}
	g.started = true
	g.startedAt = g.clock.Now()

	if err := g.loadCards(ctx, opts.Decks); err != nil {
		g.announce(ctx, "No decks loaded. Stopping...")
		g.stop(ctx, nil, false)
		return err
	}

	g.announce(ctx, "Cards Against Humanity is starting! Type join to join the game any time. (%d players needed)",
		g.rules.FirstRoundMinPlayers)
	g.announceWinMode(ctx)
	g.nextRound(ctx)

	for _, identity := range opts.Players {
		if g.state.IsStopped() {
			break
		}
		if _, err := g.addPlayer(ctx, identity); err != nil {
			g.log.WithError(err).WithField("player", identity.Key()).Debug("starting player could not join")
		}
	}
	return nil
}

func (g *Game) loadCards(ctx context.Context, selectors []string) error {
	if len(selectors) == 0 {
		selectors = decks.DefaultSelectors(g.clock.Now())
	}
	selection := g.collection.Compile(selectors)
	if len(selection.Unknown) > 0 {
		g.announce(ctx, "Could not recognise: %s", strings.Join(selection.Unknown, ", "))
	}

	questions, answers, err := g.collection.Build(selection.Codes)
	if err != nil {
		g.log.WithError(err).WithField("decks", selection.Codes).Warn("failed to build decks")
		return exhaustedError("No decks loaded.")
	}

	g.deckCodes = selection.Codes
	g.questions = cards.NewDeck(questions...)
	g.answers = cards.NewDeck(answers...)
	g.questions.Shuffle(g.rand)
	g.answers.Shuffle(g.rand)

	g.log.WithFields(logrus.Fields{
		"decks":     selection.Codes,
		"questions": len(questions),
		"answers":   len(answers),
	}).Info("loaded decks")
	g.announce(ctx, "Loaded %d decks: %d questions, %d answers", len(selection.Codes), len(questions), len(answers))
	return nil
}

func (g *Game) announceWinMode(ctx context.Context) {
	out, err := g.messaging.GetWinModeMessage(ctx, &messaging.GetWinModeMessageInput{Mode: g.mode})
	if err != nil {
		g.log.WithError(err).Warn("failed to get win mode message")
		return
	}
	g.announce(ctx, "%s", out.Message)
}

// Stop ends the game. actor is who stopped it, nil when the bot did.
func (g *Game) Stop(ctx context.Context, actor *models.Identity) error {
	g.lock()
	defer g.unlock()

	if g.state.IsStopped() {
		return guardError("Game has already been stopped.")
	}
	nick := ""
	if actor != nil {
		nick = actor.Nick
		if p := g.findPlayer(actor.Key()); p != nil {
			nick = p.Nick
		}
	}
	g.stop(ctx, &nick, false)
	return nil
}

// stop tears the game down. A nil or empty actor means the bot stopped it.
func (g *Game) stop(ctx context.Context, actor *string, pointLimitReached bool) {
	if g.state.IsStopped() {
		return
	}

	g.phase.Stop()
	g.coolOff.Cancel()
	g.next.Cancel()
	g.stopWait.Cancel()
	g.paused = pauseState{}
	g.suspended = false
	g.state = models.GameStateStopped

	switch {
	case actor != nil && *actor != "":
		g.announce(ctx, "%s stopped the game.", *actor)
	case !pointLimitReached:
		g.announce(ctx, "Game has been stopped.")
	}

	if g.round > 1 {
		g.announce(ctx, "Game lasted %s", formatDuration(g.clock.Now().Sub(g.startedAt)))
		g.showPoints(ctx, PointsStageFinal)
	}

	g.setVoice(ctx, false, g.players...)

	result := g.result()
	g.log.WithFields(logrus.Fields{
		"rounds":  result.Rounds,
		"players": len(result.Scores),
	}).Info("game stopped")

	if g.onStop != nil {
		onStop := g.onStop
		g.afterUnlock = append(g.afterUnlock, func() { onStop(result) })
	}
}

// endGame stops the game if someone reached the point limit
func (g *Game) endGame(ctx context.Context) bool {
	if g.pointLimit <= 0 {
		return false
	}

	var winner *models.Player
	for _, p := range g.players {
		if p.Points >= g.pointLimit && (winner == nil || p.Points > winner.Points) {
			winner = p
		}
	}
	if winner == nil {
		return false
	}

	out, err := g.messaging.GetGameOverMessage(ctx, &messaging.GetGameOverMessageInput{
		WinnerName: winner.Nick,
		PointLimit: g.pointLimit,
	})
	if err != nil {
		g.log.WithError(err).Warn("failed to get game over message")
		g.announce(ctx, "%s has reached %d awesome points and is the winner of the game!", winner.Nick, g.pointLimit)
	} else {
		g.announce(ctx, "%s", out.Message)
	}

	g.stop(ctx, nil, true)
	return true
}

func (g *Game) result() *models.GameResult {
	standings := g.points.Standings()
	scores := make([]models.Score, 0, len(standings))
	for _, record := range standings {
		nick := ""
		if record.Player != nil {
			nick = record.Player.Nick
		}
		scores = append(scores, models.Score{
			IdentityKey: record.IdentityKey,
			Nick:        nick,
			Points:      record.Points,
		})
	}

	decksCopy := make([]string, len(g.deckCodes))
	copy(decksCopy, g.deckCodes)

	return &models.GameResult{
		ID:         g.id,
		ChannelID:  g.channelID,
		Mode:       g.mode,
		Rounds:     g.round,
		PointLimit: g.pointLimit,
		Decks:      decksCopy,
		Scores:     scores,
		StartedAt:  g.startedAt,
		EndedAt:    g.clock.Now(),
	}
}

func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Minute)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	parts = append(parts, plural(minutes, "minute"))
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
