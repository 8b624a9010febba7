package identity

import (
	"context"
	"time"
)

// Store keeps identity snapshots per session token and one-time login states.
type Store interface {
	SaveSnapshot(ctx context.Context, token string, s *Snapshot, ttl time.Duration) error
	// LoadSnapshot returns ErrSnapshotNotFound for unknown or expired tokens.
	LoadSnapshot(ctx context.Context, token string) (*Snapshot, error)
	DeleteSnapshot(ctx context.Context, token string) error

	SaveState(ctx context.Context, state, returnTo string, ttl time.Duration) error
	// ConsumeState atomically removes state and returns its return path.
	// Unknown, expired or already consumed states return ErrInvalidState.
	ConsumeState(ctx context.Context, state string) (string, error)
}
