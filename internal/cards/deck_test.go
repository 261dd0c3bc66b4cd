package cards

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DeckTestSuite struct {
	suite.Suite
	cards []*Card
	deck  *Deck
}

func (s *DeckTestSuite) SetupTest() {
	s.cards = nil
	for i := 0; i < 5; i++ {
		card, err := NewAnswer(fmt.Sprintf("a%d", i), fmt.Sprintf("answer %d", i), "")
		s.Require().NoError(err)
		s.cards = append(s.cards, card)
	}
	s.deck = NewDeck(s.cards...)
}

func TestDeckTestSuite(t *testing.T) {
	suite.Run(t, new(DeckTestSuite))
}

func (s *DeckTestSuite) TestDrawFromFront() {
	drawn, err := s.deck.Draw(2)
	s.Require().NoError(err)

	s.Equal(s.cards[:2], drawn)
	s.Equal(3, s.deck.Len())
	s.Equal(s.cards[2:], s.deck.Cards())
}

func (s *DeckTestSuite) TestDrawTooMany() {
	_, err := s.deck.Draw(6)
	s.ErrorIs(err, ErrNotEnoughCards)
	s.Equal(5, s.deck.Len())
}

func (s *DeckTestSuite) TestShuffleKeepsCards() {
	s.deck.Shuffle(rand.New(rand.NewSource(42)))

	s.Equal(5, s.deck.Len())
	s.ElementsMatch(s.cards, s.deck.Cards())
}

func (s *DeckTestSuite) TestInsertAndRemove() {
	extra, err := NewAnswer("x", "extra", "")
	s.Require().NoError(err)

	s.deck.Insert(1, extra)
	got, ok := s.deck.At(1)
	s.True(ok)
	s.Same(extra, got)

	s.True(s.deck.Remove(extra))
	s.False(s.deck.Remove(extra))
	s.Equal(s.cards, s.deck.Cards())

	s.deck.Insert(99, extra)
	got, _ = s.deck.At(5)
	s.Same(extra, got)
}

func (s *DeckTestSuite) TestPickInRequestedOrder() {
	picked, err := s.deck.Pick([]int{3, 1})
	s.Require().NoError(err)

	s.Equal([]*Card{s.cards[3], s.cards[1]}, picked)
	s.Equal([]*Card{s.cards[0], s.cards[2], s.cards[4]}, s.deck.Cards())
}

func (s *DeckTestSuite) TestPickInvalidLeavesDeckUntouched() {
	for _, indices := range [][]int{{5}, {-1}, {1, 1}} {
		_, err := s.deck.Pick(indices)
		s.ErrorIs(err, ErrInvalidIndex)
		s.Equal(s.cards, s.deck.Cards())
	}
}

func (s *DeckTestSuite) TestResetReturnsPrevious() {
	previous := s.deck.Reset(nil)

	s.Equal(s.cards, previous)
	s.True(s.deck.IsEmpty())

	other := NewDeck()
	s.Empty(other.Reset(previous))
	s.Equal(s.cards, other.Cards())
}
