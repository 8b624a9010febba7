package registration

import "errors"

var (
	ErrInvalidProfile   = errors.New("registration: profile has no auth method")
	ErrNilSubmitFunc    = errors.New("registration: submit func is nil")
	ErrUnknownField     = errors.New("registration: unknown field")
	ErrFieldNotInSchema = errors.New("registration: field is not part of the form")
	ErrNotTextField     = errors.New("registration: field is not a text field")
	ErrSubmitInProgress = errors.New("registration: submission already in progress")
	ErrSubmitFailed     = errors.New("registration: submission failed")
	ErrNilRegistration  = errors.New("registration: nil registration")
	ErrMissingSubject   = errors.New("registration: subject id is required")
)
