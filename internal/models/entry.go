package models

import "github.com/KirkDiggler/czar/internal/cards"

// Entry is the set of answer cards one player submitted for a question
type Entry struct {
	// Owner is the player who played the cards
	Owner *Player

	// Cards are in the order they fill the question's blanks
	Cards []*cards.Card

	// Votes counts votes received in a voting round
	Votes int
}
