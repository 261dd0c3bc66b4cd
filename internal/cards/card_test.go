package cards

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CardTestSuite struct {
	suite.Suite
}

func TestCardTestSuite(t *testing.T) {
	suite.Run(t, new(CardTestSuite))
}

func (s *CardTestSuite) TestNewQuestion_MissingData() {
	_, err := NewQuestion("", []string{"What ended my last relationship? ", "."}, 1)
	s.ErrorIs(err, ErrMissingID)

	_, err = NewQuestion("q1", nil, 1)
	s.ErrorIs(err, ErrMissingText)

	_, err = NewQuestion("q1", []string{"Why? ", ""}, -1)
	s.ErrorIs(err, ErrBadPick)
}

func (s *CardTestSuite) TestNewQuestion_SingleBlank() {
	card, err := NewQuestion("q1", []string{"What ended my last relationship? ", "."}, 1)
	s.Require().NoError(err)

	s.Equal(KindQuestion, card.Kind)
	s.Equal(1, card.Pick)
	s.Equal(0, card.Draw)
	s.Equal("What ended my last relationship? ___.", card.DisplayText)
}

func (s *CardTestSuite) TestNewQuestion_MultipleBlanks() {
	card, err := NewQuestion("q2", []string{"I never truly understood ", " until I encountered ", "."}, 2)
	s.Require().NoError(err)

	s.Equal(2, card.Pick)
	s.Equal(1, card.Draw)
	s.Equal("I never truly understood ___ until I encountered ___.", card.DisplayText)
}

func (s *CardTestSuite) TestNewQuestion_DerivesPickFromBlanks() {
	card, err := NewQuestion("q2", []string{"", " and ", " walk into a bar."}, 0)
	s.Require().NoError(err)

	s.Equal(2, card.Pick)
	s.Equal(1, card.Draw)
}

func (s *CardTestSuite) TestNewQuestion_Normalisation() {
	cases := map[string][]string{
		"trim":        {" I never truly understood ", " until I encountered ", ". "},
		"doubleSpace": {"I never  truly understood ", " until I encountered ", "."},
		"parentheses": {"I never truly understood (", ") until I encountered (", ")."},
	}
	for name, fragments := range cases {
		card, err := NewQuestion("q", fragments, 2)
		s.Require().NoError(err, name)
		s.Equal("I never truly understood ___ until I encountered ___.", card.DisplayText, name)
	}
}

func (s *CardTestSuite) TestNewAnswer_MissingData() {
	_, err := NewAnswer("", "bling", "Bling")
	s.ErrorIs(err, ErrMissingID)

	_, err = NewAnswer("a1", "  ", "Bling")
	s.ErrorIs(err, ErrMissingText)
}

func (s *CardTestSuite) TestNewAnswer_StripsAndCapitalises() {
	card, err := NewAnswer("a1", "bling", " Bling. ")
	s.Require().NoError(err)
	s.Equal(KindAnswer, card.Kind)
	s.Equal(1, card.Pick)
	s.Equal("Bling", card.DisplayText)

	card, err = NewAnswer("a2", "switching to  Geico®", "switching to Geico®")
	s.Require().NoError(err)
	s.Equal("switching to Geico®", card.Text)
	s.Equal("Switching to Geico®", card.DisplayText)

	card, err = NewAnswer("a3", "(a bag of magic beans)", "")
	s.Require().NoError(err)
	s.Equal("A bag of magic beans", card.DisplayText)
}

func (s *CardTestSuite) TestNewAnswer_LowersLeadingWords() {
	for _, word := range []string{"A", "An", "The", "Your", "My", "Doing", "Dishes", "Happily"} {
		card, err := NewAnswer("a", word+" switching to Geico®", "")
		s.Require().NoError(err)
		s.Regexp(`^[a-z]`, card.Text, word)
		s.Regexp(`^[A-Z]`, card.DisplayText, word)
	}

	card, err := NewAnswer("a", "Barack Obama", "")
	s.Require().NoError(err)
	s.Equal("Barack Obama", card.Text)
}
