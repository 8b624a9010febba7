package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("statemachine: transition needs a from state, a to state and an event")
	ErrInvalidEvent      = errors.New("statemachine: nil event")
	ErrNilInitialState   = errors.New("statemachine: nil initial state")

	// ErrNoTransition and ErrRejected are the reasons carried by TransitionError.
	ErrNoTransition = errors.New("no transition defined")
	ErrRejected     = errors.New("rejected by guards")
)

// TransitionError reports why Event could not move the machine out of State.
type TransitionError struct {
	State  string
	Event  string
	Reason error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("statemachine: %q from %q: %v", e.Event, e.State, e.Reason)
}

func (e *TransitionError) Unwrap() error { return e.Reason }

// IsNoTransitionAvailableError reports whether err means the current state has
// no transition for the event at all.
func IsNoTransitionAvailableError(err error) bool {
	return errors.Is(err, ErrNoTransition)
}

// IsTransitionRejectedError reports whether every candidate transition was vetoed.
func IsTransitionRejectedError(err error) bool {
	return errors.Is(err, ErrRejected)
}
