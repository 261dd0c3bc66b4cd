package models

import "github.com/KirkDiggler/czar/internal/cards"

// Player is a participant in a single game
type Player struct {
	Identity

	// Hand holds the answer cards the player can play
	Hand *cards.Deck

	// IsCzar is set while the player judges the current round
	IsCzar bool

	// HasPlayed is set once the player submitted an entry this round
	HasPlayed bool

	// HasVoted and VotedFor track the player's vote in a voting round
	HasVoted bool
	VotedFor int

	// Picked is the player's current submission, kept so it can be changed
	Picked *Pick

	// Points is the player's score in this game
	Points int

	// InactiveRounds counts consecutive rounds the player sat out
	InactiveRounds int

	// CoinUsed counts coin flips used this game
	CoinUsed int

	// RoundJoined is the round number when the player (re)joined
	RoundJoined int

	// RoundLeft is the round number when the player left, for rejoin checks
	RoundLeft int
}

// Pick remembers the hand positions an entry was taken from
type Pick struct {
	Indices []int
	Entry   *Entry
}

// NewPlayer creates a player with an empty hand
func NewPlayer(identity Identity) *Player {
	return &Player{
		Identity: identity,
		Hand:     cards.NewDeck(),
		VotedFor: -1,
	}
}

// ResetRound clears per-round flags
func (p *Player) ResetRound() {
	p.IsCzar = false
	p.HasPlayed = false
	p.HasVoted = false
	p.VotedFor = -1
	p.Picked = nil
}
