package decks

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/KirkDiggler/czar/internal/cards"
)

const (
	// DefaultGroup is loaded when a game names no decks
	DefaultGroup = "~DEFAULT"

	// ChristmasGroup is added to the default selection in late December
	ChristmasGroup = "~CHRISTMAS"
)

var (
	ErrNilConfig = errors.New("config cannot be nil")

	// ErrNoCards is returned when a selection yields no questions or no answers
	ErrNoCards = errors.New("no cards in selected decks")

	bareCode = regexp.MustCompile(`^\w{5}$`)
)

// Config holds the decks and groups available to games
type Config struct {
	Decks  []*Deck
	Groups Groups
}

// Collection is the set of decks a game can load from
type Collection struct {
	decks  map[string]*Deck
	order  []string
	groups Groups
}

// New creates a collection; deck codes and group tags are case insensitive
func New(cfg *Config) (*Collection, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	c := &Collection{
		decks:  make(map[string]*Deck),
		groups: make(Groups),
	}
	for _, deck := range cfg.Decks {
		if deck == nil || deck.Code == "" {
			return nil, errors.New("deck code cannot be empty")
		}
		code := strings.ToUpper(deck.Code)
		if _, ok := c.decks[code]; ok {
			return nil, fmt.Errorf("duplicate deck code %s", code)
		}
		c.decks[code] = deck
		c.order = append(c.order, code)
	}
	for tag, members := range cfg.Groups {
		c.groups[normaliseTag(tag)] = members
	}
	return c, nil
}

// Codes returns the codes of all known decks
func (c *Collection) Codes() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Deck returns the deck with the given code
func (c *Collection) Deck(code string) (*Deck, bool) {
	deck, ok := c.decks[strings.ToUpper(code)]
	return deck, ok
}

// Group resolves a group tag to deck codes, expanding nested groups
func (c *Collection) Group(tag string) []string {
	return c.expandGroup(normaliseTag(tag), map[string]bool{})
}

func (c *Collection) expandGroup(tag string, visiting map[string]bool) []string {
	if visiting[tag] {
		return nil
	}
	visiting[tag] = true
	defer delete(visiting, tag)

	var codes []string
	for _, member := range c.groups[tag] {
		if strings.HasPrefix(member, "~") {
			codes = append(codes, c.expandGroup(normaliseTag(member), visiting)...)
			continue
		}
		codes = append(codes, strings.ToUpper(member))
	}
	return codes
}

// Compile resolves selectors into deck codes. Selectors are group tags
// (~group), inclusions (+CODE or a bare five character code) and
// exclusions (-CODE). Exclusions win over inclusions.
func (c *Collection) Compile(selectors []string) Selection {
	var sel Selection
	var include []string
	exclude := make(map[string]bool)

	for _, raw := range selectors {
		arg := strings.ToUpper(strings.TrimSpace(raw))
		if arg == "" {
			continue
		}
		switch {
		case strings.HasPrefix(arg, "~"):
			codes := c.Group(arg)
			if len(codes) == 0 {
				sel.Unknown = append(sel.Unknown, raw)
				continue
			}
			include = append(include, codes...)
		case strings.HasPrefix(arg, "-"):
			code := strings.TrimLeft(arg, "-")
			if _, ok := c.decks[code]; !ok {
				sel.Unknown = append(sel.Unknown, raw)
				continue
			}
			exclude[code] = true
		case strings.HasPrefix(arg, "+") || bareCode.MatchString(arg):
			code := strings.TrimLeft(arg, "+")
			if _, ok := c.decks[code]; !ok {
				sel.Unknown = append(sel.Unknown, raw)
				continue
			}
			include = append(include, code)
		default:
			sel.Unknown = append(sel.Unknown, raw)
		}
	}

	seen := make(map[string]bool)
	for _, code := range include {
		if exclude[code] || seen[code] {
			continue
		}
		if _, ok := c.decks[code]; !ok {
			continue
		}
		seen[code] = true
		sel.Codes = append(sel.Codes, code)
	}
	return sel
}

// Build converts the selected decks into question and answer cards
func (c *Collection) Build(codes []string) (questions, answers []*cards.Card, err error) {
	for _, code := range codes {
		deck, ok := c.Deck(code)
		if !ok {
			continue
		}
		for _, call := range deck.Calls {
			q, err := cards.NewQuestion(call.ID, call.Text, call.NumResponses)
			if err != nil {
				return nil, nil, fmt.Errorf("deck %s call %q: %w", deck.Code, call.ID, err)
			}
			questions = append(questions, q)
		}
		for _, response := range deck.Responses {
			a, err := cards.NewAnswer(response.ID, response.Text, response.DisplayText)
			if err != nil {
				return nil, nil, fmt.Errorf("deck %s response %q: %w", deck.Code, response.ID, err)
			}
			answers = append(answers, a)
		}
	}
	if len(questions) == 0 || len(answers) == 0 {
		return nil, nil, ErrNoCards
	}
	return questions, answers, nil
}

func normaliseTag(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if !strings.HasPrefix(tag, "~") {
		tag = "~" + tag
	}
	return tag
}
