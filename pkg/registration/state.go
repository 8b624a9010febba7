package registration

import (
	"github.com/idadental/registration/pkg/statemachine"
)

// State is the submission lifecycle state of a Form.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

func (s State) Name() string {
	return string(s)
}

func (s State) String() string {
	return string(s)
}

const (
	eventSubmit  = statemachine.StringEvent("submit")
	eventResolve = statemachine.StringEvent("resolve")
	eventReject  = statemachine.StringEvent("reject")
	eventSettle  = statemachine.StringEvent("settle")
)

// Control describes the submit button for the current state.
type Control struct {
	Label    string
	Disabled bool
}

const (
	labelRegister    = "Register"
	labelRegistering = "Registering..."
)

// ControlFor returns the submit control presentation for s.
func ControlFor(s State) Control {
	if s == StateIdle {
		return Control{Label: labelRegister}
	}
	return Control{Label: labelRegistering, Disabled: true}
}

var _ statemachine.State = StateIdle
