package statemachine

import (
	"context"
)

// State represents a state in the state machine.
type State interface {
	Name() string
}

// Event represents an event that can trigger a state transition.
type Event interface {
	Name() string
}

// Guard decides whether a transition may proceed for the given data.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Action runs during a transition, before the state changes. A non-nil error aborts the transition.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Observer is notified after a transition has been committed.
type Observer func(ctx context.Context, from, to State, event Event)

// Transition describes a state change triggered by an event.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// StateMachine defines the core finite state machine operations.
type StateMachine interface {
	Current() State
	Fire(ctx context.Context, event Event, data any) error
	CanFire(ctx context.Context, event Event, data any) bool
	Reset() error
}

// StringState is a string-backed State.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent is a string-backed Event.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}
