// Package statemachine implements a small guarded finite-state machine.
//
// States and events are minimal interfaces so callers can model their own
// lifecycle types; StringState and StringEvent cover the common case. A
// transition is selected by (current state, event), filtered by guards, and
// may run actions before the state changes. Observers are told about every
// committed transition.
//
// # Usage
//
//	const (
//	    Idle       = statemachine.StringState("idle")
//	    Submitting = statemachine.StringState("submitting")
//	    Submit     = statemachine.StringEvent("submit")
//	)
//
//	machine := statemachine.MustNew(Idle,
//	    statemachine.WithTransition(Idle, Submitting, Submit,
//	        statemachine.WithGuard(isValid),
//	    ),
//	)
//
//	if err := machine.Fire(ctx, Submit, draft); err != nil {
//	    if statemachine.IsTransitionRejectedError(err) {
//	        // a guard said no
//	    }
//	}
//
// # Concurrency
//
// Machine guards its transition table and current state with a RWMutex.
// Guards and actions run while the write lock is held, so they must not call
// back into the same machine.
package statemachine
