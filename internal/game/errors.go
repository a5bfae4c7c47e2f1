package game

import "errors"

// ValidationError rejects an action without touching session state. Its
// message is meant for the player who sent the action.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

var (
	ErrRoomNotFound        = &ValidationError{"room not found"}
	ErrAlreadyStarted      = &ValidationError{"game already started"}
	ErrNotStarted          = &ValidationError{"game not started"}
	ErrNameTaken           = &ValidationError{"name already taken"}
	ErrNameRequired        = &ValidationError{"player name required"}
	ErrAlreadyInRoom       = &ValidationError{"already in this room"}
	ErrNotYourTurn         = &ValidationError{"not your turn"}
	ErrInvalidCard         = &ValidationError{"invalid card"}
	ErrInvalidWildColor    = &ValidationError{"invalid wild color"}
	ErrNotEnoughPlayers    = &ValidationError{"minimum 2 players required"}
	ErrNotHost             = &ValidationError{"only the host can do that"}
	ErrJoinRequestNotFound = &ValidationError{"join request not found"}
)

var (
	// ErrSetup aborts a game start when no non-wild card can open the
	// discard pile.
	ErrSetup = errors.New("setup: every remaining card is wild")
	// ErrDeckExhausted aborts an action that needs a card when neither pile
	// can supply one.
	ErrDeckExhausted = errors.New("deck exhausted")
	// ErrNoRoomCode is returned when the code generator keeps colliding.
	ErrNoRoomCode = errors.New("could not allocate a unique room code")
)

// IsValidation reports whether err should be answered to the sender only.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsFatal reports whether err is a session-level fault.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSetup) || errors.Is(err, ErrDeckExhausted)
}
