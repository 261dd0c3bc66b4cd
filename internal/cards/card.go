package cards

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind separates question ("call") cards from answer ("response") cards
type Kind string

const (
	// KindQuestion is a card with blanks to be filled in
	KindQuestion Kind = "question"

	// KindAnswer is a card that fills a blank
	KindAnswer Kind = "answer"
)

// Blank is rendered in place of each gap in a question's display text
const Blank = "___"

var (
	ErrMissingID   = errors.New("missing data: id")
	ErrMissingText = errors.New("missing data: text")
	ErrBadPick     = errors.New("pick must be at least 1")
)

var (
	multiSpace       = regexp.MustCompile(` {2,}`)
	leadingPunct     = regexp.MustCompile(`^[,.!?"':]`)
	trailingQuote    = regexp.MustCompile(`["'#]$`)
	lowerLeadingWord = regexp.MustCompile(`^(A|An|The|Your|My|\w+ing|\w+es|\w+ly)$`)
)

// Card is an immutable question or answer. Per-round ownership and votes
// are tracked on the entry that holds the card, never on the card itself.
type Card struct {
	ID   string
	Kind Kind

	// Pick is the number of answers a question needs; always 1 for answers
	Pick int

	// Draw is the number of extra answers dealt when a question is revealed
	Draw int

	// Fragments is the question text split around its blanks
	Fragments []string

	// Text is the answer text as it reads mid-sentence
	Text string

	// DisplayText is the normalised, capitalised form shown on its own
	DisplayText string
}

// NewQuestion builds a question card from the text fragments around its blanks.
// A pick of zero is derived from the number of blanks.
func NewQuestion(id string, fragments []string, pick int) (*Card, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if len(fragments) == 0 {
		return nil, ErrMissingText
	}
	if pick < 0 {
		return nil, ErrBadPick
	}
	if pick == 0 {
		pick = len(fragments) - 1
	}
	if pick < 1 {
		pick = 1
	}

	last := len(fragments) - 1
	normalised := make([]string, len(fragments))
	for i, fragment := range fragments {
		str := multiSpace.ReplaceAllString(fragment, " ")
		str = strings.TrimRight(str, "(")
		str = strings.TrimLeft(str, ")")
		str = strings.TrimSpace(str)
		if i != 0 && !leadingPunct.MatchString(str) {
			str = " " + str
		}
		if i != last && str != "" && !trailingQuote.MatchString(str) {
			str += " "
		}
		normalised[i] = str
	}

	return &Card{
		ID:          id,
		Kind:        KindQuestion,
		Pick:        pick,
		Draw:        pick - 1,
		Fragments:   normalised,
		DisplayText: strings.Join(normalised, Blank),
	}, nil
}

// NewAnswer builds an answer card. displayText falls back to text when empty.
func NewAnswer(id, text, displayText string) (*Card, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrMissingText
	}
	if strings.TrimSpace(displayText) == "" {
		displayText = text
	}

	text = normaliseAnswer(text)
	displayText = capitalise(normaliseAnswer(displayText))

	// sometimes the mid-sentence form is not lower-cased by deck authors
	words := strings.SplitN(text, " ", 2)
	if lowerLeadingWord.MatchString(words[0]) {
		words[0] = strings.ToLower(words[0])
	}
	text = strings.Join(words, " ")

	return &Card{
		ID:          id,
		Kind:        KindAnswer,
		Pick:        1,
		Draw:        0,
		Text:        text,
		DisplayText: displayText,
	}, nil
}

func normaliseAnswer(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.TrimSuffix(s, ".")
	return multiSpace.ReplaceAllString(s, " ")
}

func capitalise(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// IsQuestion reports whether the card has blanks to fill
func (c *Card) IsQuestion() bool {
	return c.Kind == KindQuestion
}

func (c *Card) String() string {
	return c.DisplayText
}
