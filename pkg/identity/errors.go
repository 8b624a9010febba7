package identity

import "errors"

var (
	ErrInvalidState      = errors.New("identity: invalid or expired login state")
	ErrInvalidCode       = errors.New("identity: invalid authorization code")
	ErrMissingSubject    = errors.New("identity: provider returned no subject")
	ErrSnapshotNotFound  = errors.New("identity: snapshot not found")
	ErrUnknownConnection = errors.New("identity: unknown connection")
)
