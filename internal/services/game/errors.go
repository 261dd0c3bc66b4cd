package game

import (
	"errors"
	"fmt"
)

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrGameNotFound      GameError = "game not found"
	ErrGameAlreadyExists GameError = "game already exists for this channel"
	ErrGameNotStarted    GameError = "game has not been started"
	ErrNilConfig         GameError = "config cannot be nil"
	ErrNilNotifier       GameError = "notifier cannot be nil"
	ErrNilDecks          GameError = "deck collection cannot be nil"
	ErrNilMessaging      GameError = "messaging service cannot be nil"
	ErrNilClock          GameError = "clock cannot be nil"
	ErrNilUUIDGenerator  GameError = "UUID generator cannot be nil"
	ErrNilResultsRepo    GameError = "results repository cannot be nil"
	ErrMissingChannelID  GameError = "channel ID cannot be empty"
	ErrInvalidHandSize   GameError = "hand size must be positive"
	ErrInvalidMinPlayers GameError = "minimum players must be at least 2"
	ErrInvalidWinMode    GameError = "unknown win mode"
	ErrInvalidTimeLimit  GameError = "time limit must be positive"
)

// ErrorKind classifies a rejected game action
type ErrorKind int

const (
	// KindUsage is an action attempted in the wrong phase or with bad arguments
	KindUsage ErrorKind = iota + 1

	// KindAuthorization is an action by a player who may not take it
	KindAuthorization

	// KindExhausted means the game ran out of cards
	KindExhausted

	// KindGuard is a duplicate or re-entrant request that was ignored
	KindGuard
)

func (k ErrorKind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindAuthorization:
		return "authorization"
	case KindExhausted:
		return "exhausted"
	case KindGuard:
		return "guard"
	default:
		return "unknown"
	}
}

// ActionError is returned by game operations that were rejected. A rejected
// operation never changes game state.
type ActionError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface
func (e *ActionError) Error() string {
	return e.Message
}

// IsKind reports whether err is an ActionError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var actionErr *ActionError
	return errors.As(err, &actionErr) && actionErr.Kind == kind
}

func usageError(format string, args ...any) *ActionError {
	return &ActionError{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}

func authorizationError(format string, args ...any) *ActionError {
	return &ActionError{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func exhaustedError(format string, args ...any) *ActionError {
	return &ActionError{Kind: KindExhausted, Message: fmt.Sprintf(format, args...)}
}

func guardError(format string, args ...any) *ActionError {
	return &ActionError{Kind: KindGuard, Message: fmt.Sprintf(format, args...)}
}
