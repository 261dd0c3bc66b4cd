package cards

import "errors"

var (
	// ErrNotEnoughCards is returned when drawing more cards than the deck holds
	ErrNotEnoughCards = errors.New("not enough cards in deck")

	// ErrInvalidIndex is returned when picking a position the deck does not have
	ErrInvalidIndex = errors.New("invalid card index")
)

// Shuffler is satisfied by *rand.Rand
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Deck is an ordered pile of cards: a draw pile, a discard pile or a hand
type Deck struct {
	cards []*Card
}

// NewDeck creates a deck holding cards in the given order
func NewDeck(cards ...*Card) *Deck {
	d := &Deck{}
	d.cards = append(d.cards, cards...)
	return d
}

// Len returns the number of cards in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// IsEmpty reports whether the deck has no cards
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the deck contents
func (d *Deck) Cards() []*Card {
	out := make([]*Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// At returns the card at index i
func (d *Deck) At(i int) (*Card, bool) {
	if i < 0 || i >= len(d.cards) {
		return nil, false
	}
	return d.cards[i], true
}

// Shuffle applies a uniform random permutation
func (d *Deck) Shuffle(r Shuffler) {
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes n cards from the front of the deck
func (d *Deck) Draw(n int) ([]*Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, ErrNotEnoughCards
	}
	drawn := make([]*Card, n)
	copy(drawn, d.cards[:n])
	d.cards = d.cards[n:]
	return drawn, nil
}

// Add appends cards to the back of the deck
func (d *Deck) Add(cards ...*Card) {
	d.cards = append(d.cards, cards...)
}

// Insert puts c at position i, clamped to the deck bounds
func (d *Deck) Insert(i int, c *Card) {
	if i < 0 {
		i = 0
	}
	if i > len(d.cards) {
		i = len(d.cards)
	}
	d.cards = append(d.cards, nil)
	copy(d.cards[i+1:], d.cards[i:])
	d.cards[i] = c
}

// Remove takes c out of the deck, reporting whether it was present
func (d *Deck) Remove(c *Card) bool {
	for i, card := range d.cards {
		if card == c {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether c is in the deck
func (d *Deck) Contains(c *Card) bool {
	for _, card := range d.cards {
		if card == c {
			return true
		}
	}
	return false
}

// Pick removes the cards at the given indices and returns them in the order
// requested. Any invalid or repeated index leaves the deck untouched.
func (d *Deck) Pick(indices []int) ([]*Card, error) {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(d.cards) || seen[i] {
			return nil, ErrInvalidIndex
		}
		seen[i] = true
	}

	picked := make([]*Card, len(indices))
	for n, i := range indices {
		picked[n] = d.cards[i]
	}
	remaining := make([]*Card, 0, len(d.cards)-len(indices))
	for i, card := range d.cards {
		if !seen[i] {
			remaining = append(remaining, card)
		}
	}
	d.cards = remaining
	return picked, nil
}

// Reset replaces the deck contents and returns what it held before
func (d *Deck) Reset(cards []*Card) []*Card {
	previous := d.cards
	d.cards = nil
	d.cards = append(d.cards, cards...)
	if previous == nil {
		previous = []*Card{}
	}
	return previous
}
